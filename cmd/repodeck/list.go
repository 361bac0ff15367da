package main

import (
	"github.com/spf13/cobra"

	"github.com/waabox/repodeck/internal/domain"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var (
		language string
		limit    int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print imported repositories and their statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), opts.configPath, false)
			if err != nil {
				return err
			}
			defer a.logger.Sync() //nolint:errcheck

			a.store.SetFilter(domain.ListFilter{Language: language})
			if err := a.store.Refresh(cmd.Context()); err != nil {
				return err
			}
			if limit <= 0 {
				limit = a.cfg.DisplayLimitOrDefault()
			}
			out := cmd.OutOrStdout()
			printStats(out, a.store.Stats())
			printRepositories(out, a.store.Recent(limit))
			return nil
		},
	}
	cmd.Flags().StringVar(&language, "language", "", "only list repositories in this language")
	cmd.Flags().IntVar(&limit, "limit", 0, "number of rows to print (defaults to dashboard.display_limit)")
	return cmd
}
