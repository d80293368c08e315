package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/notekeep/internal/platform"
	"github.com/aretw0/notekeep/pkg/core"
)

func main() {
	count := flag.Int("count", 1000, "Number of notes to generate")
	tags := flag.Int("tags", 20, "Number of tags to generate")
	adapter := flag.String("adapter", "fs", "Storage adapter: fs, sqlite, memory")
	keep := flag.Bool("keep", false, "Keep the benchmark workspace after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "notekeep_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	uri := benchDir
	if *adapter == "sqlite" {
		uri = filepath.Join(benchDir, "bench.db")
	}
	// Gitless keeps the numbers about storage and views, not Git.
	opts := []platform.Option{
		platform.WithAdapter(*adapter),
		platform.WithVersioning(false),
		platform.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))),
	}

	ctx := context.Background()
	ws, err := platform.New(ctx, uri, opts...)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Generating %d notes and %d tags (%s)...\n", *count, *tags, *adapter)
	startGen := time.Now()
	tagTable := make([]core.Tag, 0, *tags)
	for i := 0; i < *tags; i++ {
		t, err := ws.Notes.CreateTag(ctx, fmt.Sprintf("tag-%d", i))
		if err != nil {
			panic(err)
		}
		tagTable = append(tagTable, t)
	}
	for i := 0; i < *count; i++ {
		data := core.NoteData{
			Title:    fmt.Sprintf("Note %d", i),
			Markdown: fmt.Sprintf("# Benchmark Note %d\nThis is a test note.", i),
		}
		if len(tagTable) > 0 {
			data.Tags = []core.Tag{tagTable[i%len(tagTable)], tagTable[(i*7)%len(tagTable)]}
		}
		if _, err := ws.Notes.CreateNote(ctx, data); err != nil {
			panic(err)
		}
	}
	generation := time.Since(startGen)
	ws.Close()

	// A new workspace simulates a fresh CLI invocation.
	startLoad := time.Now()
	ws, err = platform.New(ctx, uri, opts...)
	if err != nil {
		panic(err)
	}
	defer ws.Close()
	load := time.Since(startLoad)

	startView := time.Now()
	all := ws.Notes.Notes()
	view := time.Since(startView)

	var query core.Query
	if len(tagTable) > 0 {
		query = core.Query{Title: "9", Tags: []core.Tag{tagTable[0]}}
	}
	startFilter := time.Now()
	matched := ws.Notes.Filter(query)
	filter := time.Since(startFilter)

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d notes, %d tags, %s):\n", *count, *tags, *adapter)
	fmt.Printf("  Generate:    %v\n", generation)
	fmt.Printf("  Load:        %v\n", load)
	fmt.Printf("  Denormalize: %v (Items: %d)\n", view, len(all))
	fmt.Printf("  Filter:      %v (Items: %d)\n", filter, len(matched))
	fmt.Printf("--------------------------------------------------\n")
}
