package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notekeep/internal/platform"
)

func newInitCmd(a *app) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a workspace",
		Long: `Create the workspace directory and .notekeep/, run 'git init' unless
--no-versioning is given, and create the table for SQL adapters.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			uri, opts, err := a.target(cmd)
			if err != nil {
				return err
			}
			if err := platform.Init(cmd.Context(), uri, opts...); err != nil {
				return fmt.Errorf("failed to initialize workspace: %w", err)
			}
			if save && a.adapter != "" && a.adapter != "fs" {
				cfg := platform.FileConfig{Adapter: a.adapter, DSN: a.dsn}
				if a.adapter == "redis" {
					cfg = platform.FileConfig{Adapter: a.adapter, Redis: platform.RedisConfig{Addr: a.dsn}}
				}
				root, err := a.root()
				if err != nil {
					return err
				}
				if err := cfg.Save(root); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Initialized notekeep workspace in", uri)
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", true, "Record --adapter and --dsn in .notekeep/config.yaml")
	return cmd
}
