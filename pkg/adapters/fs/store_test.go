package fs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notekeep/pkg/adapters/fs"
	"github.com/aretw0/notekeep/pkg/core"
	"github.com/aretw0/notekeep/pkg/git"
	"github.com/aretw0/notekeep/pkg/notes"
)

func setupStore(t *testing.T, cfg fs.Config) *fs.Store {
	t.Helper()
	if cfg.Path == "" {
		cfg.Path = t.TempDir()
	}
	store := fs.NewStore(cfg)
	require.NoError(t, store.Initialize(context.Background()))
	return store
}

func TestStore_Gitless(t *testing.T) {
	store := setupStore(t, fs.Config{Gitless: true})
	ctx := context.Background()

	_, err := store.Get(ctx, core.NotesKey)
	assert.True(t, errors.Is(err, core.ErrNotFound), "expected ErrNotFound, got %v", err)

	require.NoError(t, store.Put(ctx, core.NotesKey, []byte(`[]`)))
	got, err := store.Get(ctx, core.NotesKey)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	_, err = os.Stat(filepath.Join(store.Path, "NOTES.json"))
	assert.NoError(t, err, "value should be stored as NOTES.json")
	_, err = os.Stat(filepath.Join(store.Path, ".notekeep"))
	assert.NoError(t, err, "system dir should exist")

	require.NoError(t, store.Delete(ctx, core.NotesKey))
	require.NoError(t, store.Delete(ctx, core.NotesKey))
	_, err = store.Get(ctx, core.NotesKey)
	assert.True(t, errors.Is(err, core.ErrNotFound))

	state := store.State().(fs.StoreState)
	assert.Equal(t, 2, state.Writes)
	assert.True(t, state.Gitless)
	assert.Equal(t, "fs", store.ComponentType())
}

func TestStore_InvalidKeys(t *testing.T) {
	store := setupStore(t, fs.Config{Gitless: true})
	ctx := context.Background()

	for _, key := range []string{"", "../escape", "a/b", ".hidden"} {
		assert.Error(t, store.Put(ctx, key, []byte("x")), "key %q", key)
		_, err := store.Get(ctx, key)
		assert.Error(t, err, "key %q", key)
	}
}

func TestStore_MustExist(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")
	store := fs.NewStore(fs.Config{Path: missing, Gitless: true, MustExist: true})
	assert.Error(t, store.Initialize(context.Background()))
}

func TestStore_ReadOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "TAGS.json"), []byte(`[{"id":"t","label":"x"}]`), 0644))

	store := setupStore(t, fs.Config{Path: dir, ReadOnly: true})
	ctx := context.Background()

	got, err := store.Get(ctx, core.TagsKey)
	require.NoError(t, err)
	assert.Contains(t, string(got), `"label":"x"`)

	assert.True(t, errors.Is(store.Put(ctx, core.TagsKey, []byte("[]")), core.ErrReadOnly))
	assert.True(t, errors.Is(store.Delete(ctx, core.TagsKey), core.ErrReadOnly))
	assert.True(t, errors.Is(store.Sync(ctx), core.ErrReadOnly))

	// A repository over a read-only store reads fine and reports writes.
	repo := notes.New(ctx, store)
	assert.Len(t, repo.Tags(), 1)
	_, err = repo.CreateTag(ctx, "y")
	assert.True(t, errors.Is(err, core.ErrReadOnly), "expected ErrReadOnly, got %v", err)
}

func TestStore_SyncGitless(t *testing.T) {
	store := setupStore(t, fs.Config{Gitless: true})
	err := store.Sync(context.Background())
	require.Error(t, err)
	assert.Equal(t, "cannot sync in gitless mode", err.Error())
}

func TestStore_Versioned(t *testing.T) {
	if !git.IsInstalled() {
		t.Skip("git is not installed")
	}
	store := setupStore(t, fs.Config{AutoInit: true})
	ctx := context.Background()
	client := git.NewClient(store.Path, ".verify.lock", nil)

	_, err := os.Stat(filepath.Join(store.Path, ".git"))
	require.NoError(t, err, ".git should exist")

	require.NoError(t, store.Put(ctx, core.TagsKey, []byte(`[]`)))
	reason := context.WithValue(ctx, core.ChangeReasonKey, "feat(tags): add work")
	require.NoError(t, store.Put(reason, core.TagsKey, []byte(`[{"id":"1","label":"work"}]`)))
	// Identical content produces no commit.
	require.NoError(t, store.Put(ctx, core.TagsKey, []byte(`[{"id":"1","label":"work"}]`)))

	subjects, err := client.Log(3)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"feat(tags): add work",
		"docs(notekeep): update TAGS",
		"chore: configure .notekeep ignore",
	}, subjects)

	status, err := client.Status()
	require.NoError(t, err)
	assert.Empty(t, status, "writes should leave a clean tree")

	require.NoError(t, store.Delete(ctx, core.TagsKey))
	subjects, err = client.Log(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"docs(notekeep): delete TAGS"}, subjects)
	_, err = os.Stat(filepath.Join(store.Path, "TAGS.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestStore_NotGitRepoWithoutAutoInit(t *testing.T) {
	if !git.IsInstalled() {
		t.Skip("git is not installed")
	}
	store := fs.NewStore(fs.Config{Path: t.TempDir()})
	assert.Error(t, store.Initialize(context.Background()))
}

func TestStore_RepositoryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	repo := notes.New(ctx, setupStore(t, fs.Config{Path: dir, Gitless: true}))
	tag, err := repo.CreateTag(ctx, "work")
	require.NoError(t, err)
	_, err = repo.CreateNote(ctx, core.NoteData{Title: "Plan", Markdown: "# Plan", Tags: []core.Tag{tag}})
	require.NoError(t, err)

	reopened := notes.New(ctx, setupStore(t, fs.Config{Path: dir, Gitless: true}))
	assert.Equal(t, repo.RawNotes(), reopened.RawNotes())
	assert.Equal(t, repo.Tags(), reopened.Tags())
	assert.Equal(t, repo.Notes(), reopened.Notes())
}
