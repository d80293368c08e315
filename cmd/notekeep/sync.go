package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notekeep/internal/platform"
)

func newSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Synchronize the workspace with its Git remote",
		Long: `Pull remote changes (rebase) and push local commits.
Only versioned fs workspaces can be synchronized.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			uri, opts, err := a.target(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Syncing...")
			if err := platform.Sync(cmd.Context(), uri, opts...); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Tip: ensure a remote is configured ('git remote add origin <url>') and you are online.")
				return fmt.Errorf("sync failed: %w", err)
			}
			fmt.Fprintln(out, "Sync completed successfully.")
			return nil
		},
	}
}
