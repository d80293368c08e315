// Package notekeep is the composition root of the notekeep note library.
//
// It connects the note/tag repository (pkg/notes) and its pure views
// (pkg/core) with the storage adapters (pkg/adapters) following a hexagonal
// layout: the domain only sees the core.Store key-value port.
//
// Adapters:
//
//   - fs (default): one JSON file per collection, atomic writes, optional Git
//     commit per write, fsnotify watch.
//   - sqlite and postgres: a key/value table through database/sql.
//   - redis: string keys under a prefix, change events over pub/sub.
//   - memory: ephemeral, for tests.
//
// Usage:
//
//	ws, err := notekeep.Open(ctx, "./notes",
//		notekeep.WithAutoInit(true),
//		notekeep.WithLogger(logger),
//	)
//	defer ws.Close()
//
//	tag, _ := ws.Notes.CreateTag(ctx, "work")
//	ws.Notes.CreateNote(ctx, notekeep.NoteData{Title: "Plan", Tags: []notekeep.Tag{tag}})
//	for _, n := range ws.Notes.Filter(notekeep.Query{Title: "plan"}) {
//		fmt.Println(n.Title)
//	}
package notekeep
