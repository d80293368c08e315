package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/notekeep/pkg/adapters/lifecycle"
	"github.com/aretw0/notekeep/pkg/core"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [pattern]",
		Short: "Reload and report whenever another process changes the store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ws, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer closeWorkspace(ws, cmd.ErrOrStderr())

			pattern := "*"
			if len(args) == 1 {
				pattern = args[0]
			}
			changes, err := ws.Watch(ctx, pattern)
			if err != nil {
				return err
			}

			// Only the two collections affect the repository.
			source := lifecycle.NewSource(changes, lifecycle.WithFilter(func(e core.Event) bool {
				return e.Key == core.NotesKey || e.Key == core.TagsKey
			}))
			if err := source.Start(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "watching (%d notes, %d tags)\n", len(ws.Notes.RawNotes()), len(ws.Notes.Tags()))
			events := source.Events()
			for {
				select {
				case <-ctx.Done():
					return nil
				case e, ok := <-events:
					if !ok {
						return nil
					}
					ws.Notes.Reload(ctx)
					fmt.Fprintf(out, "%s: %d notes, %d tags\n", e, len(ws.Notes.RawNotes()), len(ws.Notes.Tags()))
				}
			}
		},
	}
}
