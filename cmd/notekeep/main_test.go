package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notekeep/internal/platform"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, "notekeep %s", strings.Join(args, " "))
	return out
}

// fsArgs targets a gitless workspace in dir.
func fsArgs(dir string, args ...string) []string {
	return append([]string{"--path", dir, "--no-versioning"}, args...)
}

func TestCLI_NoteLifecycle(t *testing.T) {
	dir := t.TempDir()

	id := strings.TrimSpace(mustRun(t, fsArgs(dir, "note", "new", "--title", "Quarterly Plan", "--markdown", "# Goals", "--tag", "work")...))
	require.NotEmpty(t, id)
	other := strings.TrimSpace(mustRun(t, fsArgs(dir, "note", "new", "--title", "Groceries", "--tag", "home")...))

	out := mustRun(t, fsArgs(dir, "note", "list")...)
	assert.Contains(t, out, id+"  Quarterly Plan #work")
	assert.Contains(t, out, other+"  Groceries #home")

	out = mustRun(t, fsArgs(dir, "note", "list", "--title", "PLAN")...)
	assert.Contains(t, out, "Quarterly Plan")
	assert.NotContains(t, out, "Groceries")

	out = mustRun(t, fsArgs(dir, "note", "list", "--tag", "home")...)
	assert.Equal(t, other+"  Groceries #home\n", out)

	out = mustRun(t, fsArgs(dir, "note", "show", id)...)
	assert.Equal(t, "# Quarterly Plan\ntags: #work\n\n# Goals\n", out)

	mustRun(t, fsArgs(dir, "note", "edit", id, "--title", "Yearly Plan", "--tag", "work", "--tag", "home")...)
	out = mustRun(t, fsArgs(dir, "note", "show", id)...)
	assert.Contains(t, out, "# Yearly Plan\ntags: #work #home")
	assert.Contains(t, out, "# Goals", "unchanged fields are kept")

	mustRun(t, fsArgs(dir, "note", "delete", id)...)
	_, err := run(t, fsArgs(dir, "note", "show", id)...)
	assert.Error(t, err)

	_, err = os.Stat(filepath.Join(dir, "NOTES.json"))
	assert.NoError(t, err)
}

func TestCLI_Validation(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, fsArgs(dir, "note", "new", "--title", "  ")...)
	assert.EqualError(t, err, "--title is required")

	_, err = run(t, fsArgs(dir, "note", "list", "--tag", "missing")...)
	assert.EqualError(t, err, `unknown tag "missing"`)

	_, err = run(t, fsArgs(dir, "note", "delete", "nope")...)
	assert.Error(t, err)

	_, err = run(t, "bogus")
	assert.Error(t, err)
}

func TestCLI_Tags(t *testing.T) {
	dir := t.TempDir()

	tagID := strings.TrimSpace(mustRun(t, fsArgs(dir, "tag", "add", "wrok")...))
	noteID := strings.TrimSpace(mustRun(t, fsArgs(dir, "note", "new", "--title", "Standup", "--tag", tagID)...))

	mustRun(t, fsArgs(dir, "tag", "rename", "wrok", "work")...)
	assert.Equal(t, tagID+"  work\n", mustRun(t, fsArgs(dir, "tag", "list")...))
	assert.Contains(t, mustRun(t, fsArgs(dir, "note", "list")...), "Standup #work")

	mustRun(t, fsArgs(dir, "tag", "delete", "work")...)
	assert.Equal(t, "", mustRun(t, fsArgs(dir, "tag", "list")...))

	// The dangling reference is kept but no longer shown.
	assert.Equal(t, noteID+"  Standup\n", mustRun(t, fsArgs(dir, "note", "list")...))
	raw, err := os.ReadFile(filepath.Join(dir, "NOTES.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), tagID)
}

func TestCLI_TagLabelsIgnoreCase(t *testing.T) {
	dir := t.TempDir()

	tagID := strings.TrimSpace(mustRun(t, fsArgs(dir, "tag", "add", "Work")...))
	mustRun(t, fsArgs(dir, "note", "new", "--title", "Standup", "--tag", "work")...)

	assert.Equal(t, tagID+"  Work\n", mustRun(t, fsArgs(dir, "tag", "list")...), "no duplicate tag is created")
	assert.Contains(t, mustRun(t, fsArgs(dir, "note", "list", "--tag", "WORK")...), "Standup #Work")
}

func TestCLI_JSON(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, fsArgs(dir, "note", "new", "--title", "One", "--tag", "x")...)

	out := mustRun(t, fsArgs(dir, "note", "list", "--json")...)
	assert.Contains(t, out, `"title": "One"`)
	assert.Contains(t, out, `"label": "x"`)
}

func TestCLI_Export(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "md")

	id := strings.TrimSpace(mustRun(t, fsArgs(dir, "note", "new", "--title", "Plan", "--markdown", "body")...))
	out := mustRun(t, fsArgs(dir, "export", outDir)...)
	assert.Equal(t, "exported 1 notes to "+outDir+"\n", out)

	data, err := os.ReadFile(filepath.Join(outDir, "plan-"+id+".md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "title: Plan\n---\nbody\n")
}

func TestCLI_SQLite(t *testing.T) {
	root := t.TempDir()
	dsn := filepath.Join(root, "notes.db")

	mustRun(t, "--path", root, "--adapter", "sqlite", "--dsn", dsn, "init")
	cfg, err := platform.LoadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Adapter)

	// The saved configuration selects the adapter.
	mustRun(t, "--path", root, "note", "new", "--title", "In SQL")
	assert.Contains(t, mustRun(t, "--path", root, "note", "list"), "In SQL")

	_, err = os.Stat(filepath.Join(root, "NOTES.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestCLI_InitGitless(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ws")
	out := mustRun(t, fsArgs(dir, "init")...)
	assert.Contains(t, out, "Initialized notekeep workspace")

	_, err := os.Stat(filepath.Join(dir, platform.SystemDir))
	assert.NoError(t, err)
}

func TestCLI_ReadOnly(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, fsArgs(dir, "tag", "add", "x")...)

	_, err := run(t, fsArgs(dir, "--read-only", "tag", "add", "y")...)
	assert.Error(t, err)
	assert.Contains(t, mustRun(t, fsArgs(dir, "--read-only", "tag", "list")...), "x")
}

func TestCLI_Version(t *testing.T) {
	assert.Contains(t, mustRun(t, "version"), "notekeep version ")
}
