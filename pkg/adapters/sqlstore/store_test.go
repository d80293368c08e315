package sqlstore_test

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notekeep/pkg/adapters/sqlstore"
	"github.com/aretw0/notekeep/pkg/core"
	"github.com/aretw0/notekeep/pkg/notes"
)

func TestSQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.db")

	store, err := sqlstore.Open(ctx, "sqlite3", path)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get(ctx, core.NotesKey)
	assert.True(t, errors.Is(err, core.ErrNotFound))

	require.NoError(t, store.Put(ctx, core.NotesKey, []byte(`[]`)))
	require.NoError(t, store.Put(ctx, core.NotesKey, []byte(`[{"id":"1"}]`)))

	got, err := store.Get(ctx, core.NotesKey)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(got))

	require.NoError(t, store.Delete(ctx, core.NotesKey))
	require.NoError(t, store.Delete(ctx, core.NotesKey))
	_, err = store.Get(ctx, core.NotesKey)
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestSQLite_RepositoryPersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.db")

	store, err := sqlstore.Open(ctx, "sqlite3", path, sqlstore.WithTable("notes_kv"))
	require.NoError(t, err)
	repo := notes.New(ctx, store)
	tag, err := repo.CreateTag(ctx, "work")
	require.NoError(t, err)
	note, err := repo.CreateNote(ctx, core.NoteData{Title: "Plan", Tags: []core.Tag{tag}})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = sqlstore.Open(ctx, "sqlite3", path, sqlstore.WithTable("notes_kv"))
	require.NoError(t, err)
	defer store.Close()

	reopened := notes.New(ctx, store)
	got, ok := reopened.Note(note.ID)
	require.True(t, ok)
	assert.Equal(t, []core.Tag{tag}, got.Tags)
}

func TestOpen_Errors(t *testing.T) {
	_, err := sqlstore.Open(context.Background(), "oracle", "x")
	assert.Error(t, err)

	_, err = sqlstore.Open(context.Background(), "sqlite3", filepath.Join(t.TempDir(), "a.db"), sqlstore.WithTable("bad name;"))
	assert.Error(t, err)
}

func setupPostgresMock(t *testing.T) (sqlmock.Sqlmock, *sqlstore.Store) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS notekeep_kv")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	store, err := sqlstore.New(context.Background(), db, sqlstore.Postgres)
	require.NoError(t, err)
	return mock, store
}

func TestPostgres_Get(t *testing.T) {
	mock, store := setupPostgresMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM notekeep_kv WHERE key = $1")).
		WithArgs(core.TagsKey).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`[{"id":"t","label":"x"}]`))

	got, err := store.Get(context.Background(), core.TagsKey)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"t","label":"x"}]`, string(got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetMissing(t *testing.T) {
	mock, store := setupPostgresMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM notekeep_kv")).
		WithArgs(core.NotesKey).
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, err := store.Get(context.Background(), core.NotesKey)
	assert.True(t, errors.Is(err, core.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_PutUpserts(t *testing.T) {
	mock, store := setupPostgresMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notekeep_kv (key, value, updated_at) VALUES ($1, $2, NOW())")).
		WithArgs(core.NotesKey, `[]`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Put(context.Background(), core.NotesKey, []byte(`[]`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_WriteFailureSurfaces(t *testing.T) {
	mock, store := setupPostgresMock(t)
	boom := errors.New("connection reset")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notekeep_kv")).WillReturnError(boom)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM notekeep_kv WHERE key = $1")).
		WithArgs(core.TagsKey).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := notes.New(context.Background(), memoryless{store})
	_, err := repo.CreateNote(context.Background(), core.NoteData{Title: "x"})
	assert.True(t, errors.Is(err, boom), "expected wrapped driver error, got %v", err)
	assert.Len(t, repo.RawNotes(), 1)

	require.NoError(t, store.Delete(context.Background(), core.TagsKey))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// memoryless answers every read with ErrNotFound so that construction does
// not consume sqlmock expectations.
type memoryless struct {
	*sqlstore.Store
}

func (memoryless) Get(context.Context, string) ([]byte, error) {
	return nil, core.ErrNotFound
}

func TestDialectFor(t *testing.T) {
	d, err := sqlstore.DialectFor("postgres")
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name)

	d, err = sqlstore.DialectFor("sqlite3")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name)
}
