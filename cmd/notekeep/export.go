package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notekeep/pkg/core"
	"github.com/aretw0/notekeep/pkg/export"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		title string
		tags  []string
	)
	cmd := &cobra.Command{
		Use:   "export <dir>",
		Short: "Write notes as markdown files with YAML frontmatter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer closeWorkspace(ws, cmd.ErrOrStderr())

			required, err := lookupTags(ws.Notes, tags)
			if err != nil {
				return err
			}
			list := ws.Notes.Filter(core.Query{Title: title, Tags: required})

			n, err := export.WriteDir(cmd.Context(), args[0], list, a.logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d notes to %s\n", n, args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Only notes whose title contains this text")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Only notes carrying this tag, repeatable")
	return cmd
}
