package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/notekeep/pkg/core"
	"github.com/aretw0/notekeep/pkg/notes"
)

func newNoteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "List, show, create, edit and delete notes",
	}
	cmd.AddCommand(
		newNoteListCmd(a),
		newNoteShowCmd(a),
		newNoteNewCmd(a),
		newNoteEditCmd(a),
		newNoteDeleteCmd(a),
	)
	return cmd
}

func newNoteListCmd(a *app) *cobra.Command {
	var (
		title  string
		tags   []string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, optionally filtered by title and tags",
		Args:  cobra.NoArgs,
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

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), list)
			}
			for _, n := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s%s\n", n.ID, n.Title, formatTags(n.Tags))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Case-insensitive title substring")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Required tag (label or id), repeatable")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func newNoteShowCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer closeWorkspace(ws, cmd.ErrOrStderr())

			n, ok := ws.Notes.Note(args[0])
			if !ok {
				return fmt.Errorf("note %q not found", args[0])
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), n)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s\n", n.Title)
			if len(n.Tags) > 0 {
				fmt.Fprintf(out, "tags:%s\n", formatTags(n.Tags))
			}
			if n.Markdown != "" {
				fmt.Fprintf(out, "\n%s\n", strings.TrimRight(n.Markdown, "\n"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func newNoteNewCmd(a *app) *cobra.Command {
	var (
		title    string
		markdown string
		tags     []string
	)
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a note; unknown tag labels are created",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(title) == "" {
				return fmt.Errorf("--title is required")
			}
			ws, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer closeWorkspace(ws, cmd.ErrOrStderr())

			ctx := a.changeCtx(cmd)
			resolved, err := ensureTags(cmd, a, ws.Notes, tags)
			if err != nil {
				return err
			}
			note, err := ws.Notes.CreateNote(ctx, core.NoteData{Title: title, Markdown: markdown, Tags: resolved})
			if err != nil {
				return fmt.Errorf("note %s created but not saved: %w", note.ID, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), note.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Note title (required)")
	cmd.Flags().StringVar(&markdown, "markdown", "", "Markdown body")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Tag label or id, repeatable")
	return cmd
}

func newNoteEditCmd(a *app) *cobra.Command {
	var (
		title    string
		markdown string
		tags     []string
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a note; only the given fields change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer closeWorkspace(ws, cmd.ErrOrStderr())

			current, ok := ws.Notes.Note(args[0])
			if !ok {
				return fmt.Errorf("note %q not found", args[0])
			}
			data := core.NoteData{Title: current.Title, Markdown: current.Markdown, Tags: current.Tags}
			if cmd.Flags().Changed("title") {
				if strings.TrimSpace(title) == "" {
					return fmt.Errorf("title cannot be empty")
				}
				data.Title = title
			}
			if cmd.Flags().Changed("markdown") {
				data.Markdown = markdown
			}
			if cmd.Flags().Changed("tag") {
				if data.Tags, err = ensureTags(cmd, a, ws.Notes, tags); err != nil {
					return err
				}
			}
			if err := ws.Notes.UpdateNote(a.changeCtx(cmd), current.ID, data); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), current.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&markdown, "markdown", "", "New markdown body")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Replace the tags (label or id), repeatable")
	return cmd
}

func newNoteDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer closeWorkspace(ws, cmd.ErrOrStderr())

			if _, ok := ws.Notes.RawNote(args[0]); !ok {
				return fmt.Errorf("note %q not found", args[0])
			}
			return ws.Notes.DeleteNote(a.changeCtx(cmd), args[0])
		},
	}
}

// lookupTags resolves tag references, failing on unknown ones.
func lookupTags(repo *notes.Repository, refs []string) ([]core.Tag, error) {
	tags := make([]core.Tag, 0, len(refs))
	for _, ref := range refs {
		t, ok := repo.FindTag(ref)
		if !ok {
			return nil, fmt.Errorf("unknown tag %q", ref)
		}
		tags = append(tags, t)
	}
	return tags, nil
}

// ensureTags resolves tag references, creating a tag for unknown labels.
func ensureTags(cmd *cobra.Command, a *app, repo *notes.Repository, refs []string) ([]core.Tag, error) {
	tags := make([]core.Tag, 0, len(refs))
	for _, ref := range refs {
		t, ok := repo.FindTag(ref)
		if !ok {
			created, err := repo.CreateTag(a.changeCtx(cmd), ref)
			if err != nil {
				return nil, fmt.Errorf("failed to create tag %q: %w", ref, err)
			}
			a.logger.Debug("tag created", "id", created.ID, "label", ref)
			t = created
		}
		tags = append(tags, t)
	}
	return tags, nil
}

func formatTags(tags []core.Tag) string {
	if len(tags) == 0 {
		return ""
	}
	labels := make([]string, len(tags))
	for i, t := range tags {
		labels[i] = "#" + t.Label
	}
	return " " + strings.Join(labels, " ")
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
