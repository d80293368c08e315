package platform

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/notekeep/pkg/adapters/fs"
	"github.com/aretw0/notekeep/pkg/adapters/memory"
	"github.com/aretw0/notekeep/pkg/adapters/redis"
	"github.com/aretw0/notekeep/pkg/adapters/sqlstore"
	"github.com/aretw0/notekeep/pkg/core"
	"github.com/aretw0/notekeep/pkg/notes"
)

// Workspace is an opened store with the note repository loaded from it.
type Workspace struct {
	Notes *notes.Repository
	Store core.Store
}

// New opens the store selected by opts and loads the repository.
// The uri is adapter-specific: a directory for fs, a DSN for sqlite and
// postgres, an address for redis. It is ignored by memory.
//
//	ws, err := platform.New(ctx, "./notes", platform.WithVersioning(false))
func New(ctx context.Context, uri string, opts ...Option) (*Workspace, error) {
	o := defaultOptions().apply(opts)

	store, err := openStore(ctx, uri, o)
	if err != nil {
		return nil, err
	}

	repoOpts := []notes.Option{notes.WithLogger(o.logger)}
	if o.ids != nil {
		repoOpts = append(repoOpts, notes.WithIDGenerator(o.ids))
	}
	return &Workspace{
		Notes: notes.New(ctx, store, repoOpts...),
		Store: store,
	}, nil
}

// Close releases the store when it holds a connection.
func (w *Workspace) Close() error {
	if c, ok := w.Store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Watch reports changes made to the store by other processes.
func (w *Workspace) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	watchable, ok := w.Store.(core.Watchable)
	if !ok {
		return nil, fmt.Errorf("store does not support watching")
	}
	return watchable.Watch(ctx, pattern)
}

// Sync synchronizes the store with its remote.
func (w *Workspace) Sync(ctx context.Context) error {
	syncable, ok := w.Store.(core.Syncable)
	if !ok {
		return fmt.Errorf("store does not support synchronization")
	}
	return syncable.Sync(ctx)
}

// OpenStore opens and initializes the store selected by opts.
func OpenStore(ctx context.Context, uri string, opts ...Option) (core.Store, error) {
	return openStore(ctx, uri, defaultOptions().apply(opts))
}

// Init creates a workspace (directory, Git repository, table) and closes it.
func Init(ctx context.Context, uri string, opts ...Option) error {
	opts = append([]Option{WithAutoInit(true)}, opts...)
	store, err := OpenStore(ctx, uri, opts...)
	if err != nil {
		return err
	}
	if c, ok := store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Sync opens the workspace at uri and synchronizes it with its remote.
func Sync(ctx context.Context, uri string, opts ...Option) error {
	o := defaultOptions().apply(opts)
	if o.store == nil && o.adapter == "fs" {
		o.config["must_exist"] = true
	}
	store, err := openStore(ctx, uri, o)
	if err != nil {
		return err
	}
	ws := &Workspace{Store: store}
	defer ws.Close()
	return ws.Sync(ctx)
}

func openStore(ctx context.Context, uri string, o *options) (core.Store, error) {
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.store != nil {
		return o.store, nil
	}

	table, _ := o.config["table"].(string)

	switch o.adapter {
	case "fs":
		return openFS(ctx, uri, o)
	case "memory":
		return memory.New(nil), nil
	case "sqlite", "postgres":
		driver := sqlstore.Postgres.Driver
		if o.adapter == "sqlite" {
			driver = sqlstore.SQLite.Driver
		}
		sqlOpts := []sqlstore.Option{sqlstore.WithLogger(o.logger)}
		if table != "" {
			sqlOpts = append(sqlOpts, sqlstore.WithTable(table))
		}
		return sqlstore.Open(ctx, driver, uri, sqlOpts...)
	case "redis":
		password, _ := o.config["redis_password"].(string)
		db, _ := o.config["redis_db"].(int)
		prefix, _ := o.config["redis_prefix"].(string)
		return redis.Open(ctx, redis.Config{
			Addr:     uri,
			Password: password,
			DB:       db,
			Prefix:   prefix,
			Logger:   o.logger,
		})
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}

// openFS resolves the workspace directory (dev sandbox, versioning
// detection) and initializes the filesystem store.
func openFS(ctx context.Context, path string, o *options) (core.Store, error) {
	autoInit, _ := o.config["auto_init"].(bool)
	gitless, gitlessSet := o.config["gitless"].(bool)
	tempDir, _ := o.config["temp_dir"].(bool)
	mustExist, _ := o.config["must_exist"].(bool)
	readOnly, _ := o.config["read_only"].(bool)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))
	systemDir, _ := o.config["system_dir"].(string)
	if systemDir == "" {
		systemDir = SystemDir
	}

	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}
	bypassSafety := readOnly || !devSafety

	useTemp := tempDir || (IsDevRun() && !bypassSafety)
	resolved := ResolvePath(path, useTemp)

	if useTemp {
		o.logger.Warn("running in SAFE MODE (dev sandbox)", "original_path", path, "resolved_path", resolved)
	} else if IsDevRun() && !readOnly {
		o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
	}

	if !gitlessSet {
		gitless = detectGitless(resolved, systemDir, autoInit)
		o.logger.Debug("versioning detected", "gitless", gitless)
	}

	store := fs.NewStore(fs.Config{
		Path:         resolved,
		AutoInit:     autoInit,
		Gitless:      gitless,
		MustExist:    mustExist || (!autoInit && !useTemp),
		ReadOnly:     readOnly,
		Logger:       o.logger,
		SystemDir:    systemDir,
		ErrorHandler: errorHandler,
	})
	if err := store.Initialize(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// detectGitless picks the versioning mode when none was configured.
// An existing .git means versioned. Without one, a fresh auto-initialized
// workspace is versioned and anything else is gitless.
func detectGitless(path, systemDir string, autoInit bool) bool {
	if hasFile(path, ".git") {
		return false
	}
	if !autoInit {
		return true
	}
	_, err := os.Stat(filepath.Join(path, systemDir))
	return err == nil
}
