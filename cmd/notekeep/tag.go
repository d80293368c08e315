package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTagCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage tags",
	}

	var asJSON bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer closeWorkspace(ws, cmd.ErrOrStderr())

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), ws.Notes.Tags())
			}
			for _, t := range ws.Notes.Tags() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", t.ID, t.Label)
			}
			return nil
		},
	}
	listCmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")

	addCmd := &cobra.Command{
		Use:   "add <label>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer closeWorkspace(ws, cmd.ErrOrStderr())

			tag, err := ws.Notes.CreateTag(a.changeCtx(cmd), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tag.ID)
			return nil
		},
	}

	renameCmd := &cobra.Command{
		Use:   "rename <id|label> <new-label>",
		Short: "Relabel a tag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer closeWorkspace(ws, cmd.ErrOrStderr())

			tag, ok := ws.Notes.FindTag(args[0])
			if !ok {
				return fmt.Errorf("unknown tag %q", args[0])
			}
			return ws.Notes.UpdateTag(a.changeCtx(cmd), tag.ID, args[1])
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id|label>",
		Short: "Delete a tag; notes keep their reference but no longer show it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer closeWorkspace(ws, cmd.ErrOrStderr())

			tag, ok := ws.Notes.FindTag(args[0])
			if !ok {
				return fmt.Errorf("unknown tag %q", args[0])
			}
			return ws.Notes.DeleteTag(a.changeCtx(cmd), tag.ID)
		},
	}

	cmd.AddCommand(listCmd, addCmd, renameCmd, deleteCmd)
	return cmd
}
