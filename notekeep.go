package notekeep

import (
	"context"
	"log/slog"

	"github.com/aretw0/notekeep/internal/platform"
	"github.com/aretw0/notekeep/pkg/core"
	"github.com/aretw0/notekeep/pkg/notes"
)

// --- Types ---

type (
	Tag        = core.Tag
	RawNote    = core.RawNote
	Note       = core.Note
	NoteData   = core.NoteData
	Query      = core.Query
	Event      = core.Event
	Store      = core.Store
	Repository = notes.Repository
	Workspace  = platform.Workspace
)

// --- Configuration ---

// Option configures how a workspace is opened.
type Option = platform.Option

// WithAdapter selects the storage adapter: "fs", "memory", "sqlite", "postgres" or "redis".
func WithAdapter(name string) Option { return platform.WithAdapter(name) }

// WithStore injects a custom store.
func WithStore(store Store) Option { return platform.WithStore(store) }

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option { return platform.WithLogger(logger) }

// WithIDGenerator replaces UUID generation.
func WithIDGenerator(ids core.IDGenerator) Option { return platform.WithIDGenerator(ids) }

// WithAutoInit creates the workspace (directory and Git repository) when missing.
func WithAutoInit(auto bool) Option { return platform.WithAutoInit(auto) }

// WithVersioning enables or disables Git commits.
func WithVersioning(enabled bool) Option { return platform.WithVersioning(enabled) }

// WithReadOnly rejects every write with ErrReadOnly.
func WithReadOnly(enabled bool) Option { return platform.WithReadOnly(enabled) }

// WithMustExist fails when the workspace directory is missing.
func WithMustExist(must bool) Option { return platform.WithMustExist(must) }

// WithForceTemp re-roots the workspace in the temp directory.
func WithForceTemp(force bool) Option { return platform.WithForceTemp(force) }

// WithDevSafety toggles the sandbox applied under go run and go test.
func WithDevSafety(enabled bool) Option { return platform.WithDevSafety(enabled) }

// WithTable sets the SQL key/value table.
func WithTable(name string) Option { return platform.WithTable(name) }

// WithRedisPrefix sets the redis key prefix.
func WithRedisPrefix(prefix string) Option { return platform.WithRedisPrefix(prefix) }

// --- Errors ---

var (
	ErrNotFound = core.ErrNotFound
	ErrReadOnly = core.ErrReadOnly
)

// --- Factory ---

// Open opens the workspace at uri and loads its notes.
func Open(ctx context.Context, uri string, opts ...Option) (*Workspace, error) {
	return platform.New(ctx, uri, opts...)
}

// Init creates a workspace.
func Init(ctx context.Context, uri string, opts ...Option) error {
	return platform.Init(ctx, uri, opts...)
}

// Sync pulls and pushes the workspace at uri.
func Sync(ctx context.Context, uri string, opts ...Option) error {
	return platform.Sync(ctx, uri, opts...)
}

// FindRoot looks upwards from dir for a workspace.
func FindRoot(dir string) (string, error) {
	return platform.FindRoot(dir)
}

// --- Views ---

// Denormalize resolves tag references against the tag table.
func Denormalize(raw []RawNote, tags []Tag) []Note {
	return core.Denormalize(raw, tags)
}

// Filter keeps the notes matching titleQuery and carrying every required tag.
func Filter(list []Note, titleQuery string, required []Tag) []Note {
	return core.Filter(list, titleQuery, required)
}
