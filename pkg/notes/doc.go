// Package notes owns the note and tag collections of a notekeep workspace.
//
// A Repository loads both collections from a core.Store at construction,
// applies create/update/delete commands in memory and writes the full
// updated collection back after every effective mutation.
//
// Commands addressing an id that does not exist are silent no-ops, so a
// command dispatched twice has the same effect as once. Deleting a tag does
// not touch the notes that reference it; such orphan references are dropped
// when notes are denormalized.
//
// Usage:
//
//	repo := notes.New(ctx, store, notes.WithLogger(logger))
//	tag, err := repo.CreateTag(ctx, "work")
//	note, err := repo.CreateNote(ctx, core.NoteData{Title: "Plan", Tags: []core.Tag{tag}})
//	visible := repo.Filter(core.Query{Title: "pl"})
package notes
