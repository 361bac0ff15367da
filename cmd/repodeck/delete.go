package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an imported repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid repository id %q", args[0])
			}
			if !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "Delete repository %d? [y/N] ", id)
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if strings.ToLower(strings.TrimSpace(answer)) != "y" {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			a, err := bootstrap(cmd.Context(), opts.configPath, false)
			if err != nil {
				return err
			}
			defer a.logger.Sync() //nolint:errcheck

			message, err := a.client.DeleteRepository(cmd.Context(), id)
			if err != nil {
				return err
			}
			if message == "" {
				message = fmt.Sprintf("Repository %d deleted", id)
			}
			printSuccess(cmd.OutOrStdout(), message)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
