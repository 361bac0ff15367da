package main

import (
	"github.com/spf13/cobra"

	"github.com/waabox/repodeck/internal/git"
)

func newPreviewCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "preview owner/repo",
		Short: "Show GitHub metadata for a repository without importing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := git.ParseTarget(args[0])
			if err != nil {
				return err
			}
			a, err := bootstrap(cmd.Context(), opts.configPath, false)
			if err != nil {
				return err
			}
			defer a.logger.Sync() //nolint:errcheck

			repo, err := a.client.PreviewRepository(cmd.Context(), req)
			if err != nil {
				return err
			}
			printRepository(cmd.OutOrStdout(), repo)
			return nil
		},
	}
}
