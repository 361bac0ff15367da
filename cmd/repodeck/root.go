package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/waabox/repodeck/internal/config"
	"github.com/waabox/repodeck/internal/git"
	"github.com/waabox/repodeck/internal/tui"
)

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "repodeck",
		Short: "Terminal dashboard for a repository tracking backend",
		Long: `repodeck imports GitHub repositories into a tracking backend and shows
the imported repositories with their statistics. Run without a subcommand
to open the interactive dashboard.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd.Context(), opts)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultConfigPath(), "path to the config file")

	cmd.AddCommand(
		newListCmd(opts),
		newImportCmd(opts),
		newPreviewCmd(opts),
		newDeleteCmd(opts),
		newConfigureCmd(opts),
	)
	return cmd
}

func runDashboard(ctx context.Context, opts *rootOptions) error {
	a, err := bootstrap(ctx, opts.configPath, true)
	if err != nil {
		return err
	}
	defer a.logger.Sync() //nolint:errcheck

	model := tui.NewAppModel(ctx, a.store, a.imports, a.client, a.cfg.DisplayLimitOrDefault())
	if cwd, err := os.Getwd(); err == nil {
		if req, err := git.DetectRepository(cwd); err == nil {
			model = model.WithTarget(req)
		} else {
			a.logger.Debug("no import target from working directory", zap.Error(err))
		}
	}
	return tui.Run(ctx, model)
}
