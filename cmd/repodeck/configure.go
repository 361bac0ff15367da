package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waabox/repodeck/internal/config"
)

func newConfigureCmd(opts *rootOptions) *cobra.Command {
	var (
		baseURL      string
		sessionID    string
		csrfToken    string
		username     string
		password     string
		displayLimit int
	)
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Write backend settings to the config file",
		Long: `Write backend settings to the config file. Only the flags given are
changed; everything else already in the file is kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.ReadFile(opts.configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("base-url") {
				cfg.API.BaseURL = baseURL
			}
			if flags.Changed("session-id") {
				cfg.Session.SessionID = sessionID
			}
			if flags.Changed("csrf-token") {
				cfg.Session.CSRFToken = csrfToken
			}
			if flags.Changed("username") {
				cfg.Session.Username = username
			}
			if flags.Changed("password") {
				cfg.Session.Password = password
			}
			if flags.Changed("display-limit") {
				cfg.Dashboard.DisplayLimit = displayLimit
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.Save(opts.configPath, cfg); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			printSuccess(cmd.OutOrStdout(), fmt.Sprintf("Configuration saved to %s", opts.configPath))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&baseURL, "base-url", "", "backend API root, e.g. https://dashboard.example.com/api")
	f.StringVar(&sessionID, "session-id", "", "backend session cookie value")
	f.StringVar(&csrfToken, "csrf-token", "", "static anti-forgery token")
	f.StringVar(&username, "username", "", "admin username used to log in")
	f.StringVar(&password, "password", "", "admin password used to log in")
	f.IntVar(&displayLimit, "display-limit", 0, "number of repositories shown in the dashboard table")
	return cmd
}
