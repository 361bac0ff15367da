package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/waabox/repodeck/internal/domain"
	"github.com/waabox/repodeck/internal/git"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import [owner/repo|url]",
		Short: "Import a GitHub repository into the backend",
		Long: `Import a GitHub repository into the backend. The target is given as
owner/repo or as a GitHub URL; when omitted it is taken from the origin
remote of the git repository in the current directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := resolveTarget(args)
			if err != nil {
				return err
			}

			a, err := bootstrap(cmd.Context(), opts.configPath, false)
			if err != nil {
				return err
			}
			defer a.logger.Sync() //nolint:errcheck

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Importing %s...\n", req)
			outcome := a.imports.Submit(cmd.Context(), req.Owner, req.Name)
			if outcome.Status.Kind != domain.StatusSuccess {
				return errors.New(outcome.Status.Message)
			}

			printSuccess(out, outcome.Status.Message)
			if outcome.RefreshErr != nil {
				printWarning(cmd.ErrOrStderr(), fmt.Sprintf("could not reload repositories: %v", outcome.RefreshErr))
				return nil
			}
			printStats(out, a.store.Stats())
			return nil
		},
	}
}

// resolveTarget reads the import target from the first argument, or from the
// working directory's origin remote when there is none.
func resolveTarget(args []string) (domain.ImportRequest, error) {
	if len(args) == 1 {
		return git.ParseTarget(args[0])
	}
	cwd, err := os.Getwd()
	if err != nil {
		return domain.ImportRequest{}, fmt.Errorf("getting current directory: %w", err)
	}
	req, err := git.DetectRepository(cwd)
	if err != nil {
		return domain.ImportRequest{}, fmt.Errorf("no repository given and none detected: %w", err)
	}
	return req, nil
}
