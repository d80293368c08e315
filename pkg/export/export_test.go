package export_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notekeep/pkg/core"
	"github.com/aretw0/notekeep/pkg/export"
)

var (
	work   = core.Tag{ID: "t1", Label: "work"}
	urgent = core.Tag{ID: "t2", Label: "urgent"}
)

func TestRender_Golden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	tagged, err := export.Render(core.Note{
		ID:       "n1",
		Title:    "Quarterly plan",
		Markdown: "# Plan\n\n- ship it",
		Tags:     []core.Tag{work, urgent},
	})
	require.NoError(t, err)
	g.Assert(t, "tagged", tagged)

	untagged, err := export.Render(core.Note{ID: "n2", Title: "Empty"})
	require.NoError(t, err)
	g.Assert(t, "untagged", untagged)
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Quarterly plan":   "quarterly-plan",
		"  Hello, World! ": "hello-world",
		"Café 2024":        "café-2024",
		"!!!":              "",
	}
	for in, want := range cases {
		assert.Equal(t, want, export.Slug(in), "Slug(%q)", in)
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "plan-n1.md", export.Filename(core.Note{ID: "n1", Title: "Plan"}))
	assert.Equal(t, "n2.md", export.Filename(core.Note{ID: "n2"}))
}

func TestWriteDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	notes := []core.Note{
		{ID: "a", Title: "Same", Markdown: "one"},
		{ID: "b", Title: "Same", Markdown: "two"},
	}

	n, err := export.WriteDir(context.Background(), dir, notes, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(filepath.Join(dir, "same-b.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "two\n")
}

func TestWriteDir_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := export.WriteDir(ctx, t.TempDir(), []core.Note{{ID: "a"}}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, n)
}
