// Package fs implements core.Store on a directory: every key is a JSON file
// named "<key>.json" at the workspace root. Writes are atomic and, unless the
// store is gitless, committed to a Git repository.
package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/notekeep/pkg/core"
	"github.com/aretw0/notekeep/pkg/git"
)

// Ext is the file extension of stored values.
const Ext = ".json"

// Store implements core.Store using the filesystem and, optionally, Git.
type Store struct {
	Path   string
	git    *git.Client
	config Config

	mu            sync.RWMutex
	watcherActive bool
	lastWrite     *time.Time
	writes        int
}

// Config holds the configuration for the filesystem store.
type Config struct {
	Path      string
	AutoInit  bool
	Gitless   bool
	MustExist bool
	ReadOnly  bool
	Logger    *slog.Logger
	SystemDir string // e.g. ".notekeep"
	// ErrorHandler receives errors raised inside the watch loop.
	ErrorHandler func(error)
}

// NewStore creates a new filesystem-backed store. It performs no I/O;
// call Initialize before use.
func NewStore(config Config) *Store {
	if config.SystemDir == "" {
		config.SystemDir = ".notekeep"
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		Path:   config.Path,
		git:    git.NewClient(config.Path, config.SystemDir+".lock", config.Logger),
		config: config,
	}
}

// Gitless reports whether writes are committed.
func (s *Store) Gitless() bool {
	return s.config.Gitless
}

// Initialize prepares the workspace (mkdir, git init, .gitignore).
func (s *Store) Initialize(ctx context.Context) error {
	if s.config.MustExist || s.config.ReadOnly {
		info, err := os.Stat(s.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("workspace path does not exist: %s", s.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat workspace: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("workspace path is not a directory: %s", s.Path)
		}
	} else {
		if err := os.MkdirAll(filepath.Join(s.Path, s.config.SystemDir), 0755); err != nil {
			return fmt.Errorf("failed to create workspace directory: %w", err)
		}
	}

	if s.config.Gitless || s.config.ReadOnly {
		return nil
	}

	if !git.IsInstalled() {
		return fmt.Errorf("git is not installed")
	}

	wasNewRepo := false
	if !s.git.IsRepo() {
		if !s.config.AutoInit {
			return fmt.Errorf("path is not a git repository: %s", s.Path)
		}
		if err := s.git.Init(); err != nil {
			return fmt.Errorf("failed to git init: %w", err)
		}
		wasNewRepo = true
	}

	mod, err := s.ensureIgnore()
	if err != nil {
		return fmt.Errorf("failed to ensure .gitignore: %w", err)
	}

	if mod && wasNewRepo {
		if err := s.git.Add(".gitignore"); err != nil {
			return fmt.Errorf("failed to add .gitignore: %w", err)
		}
		if err := s.git.Commit(fmt.Sprintf("chore: configure %s ignore", s.config.SystemDir)); err != nil {
			return fmt.Errorf("failed to commit .gitignore: %w", err)
		}
	}

	return nil
}

// ensureIgnore keeps the lock file and temp files out of version control.
func (s *Store) ensureIgnore() (bool, error) {
	ignorePath := filepath.Join(s.Path, ".gitignore")
	entries := []string{s.git.LockName(), TempFilePrefix + "*"}

	content, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	present := make(map[string]bool)
	for _, line := range strings.Split(string(content), "\n") {
		present[strings.TrimSpace(line)] = true
	}

	var missing []string
	for _, e := range entries {
		if !present[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return false, nil
	}

	f, err := os.OpenFile(ignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if len(content) > 0 && !bytes.HasSuffix(content, []byte("\n")) {
		if _, err := f.WriteString("\n"); err != nil {
			return false, err
		}
	}
	if _, err := f.WriteString(strings.Join(missing, "\n") + "\n"); err != nil {
		return false, err
	}

	return true, nil
}

func (s *Store) filename(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return key + Ext, nil
}

// Get reads the file backing key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	name, err := s.filename(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.Path, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// Put writes value atomically and, when versioned, commits it.
// Writing bytes identical to the current content is a no-op.
//
// The commit message is taken from core.ChangeReasonKey when present.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	name, err := s.filename(key)
	if err != nil {
		return err
	}
	path := filepath.Join(s.Path, name)

	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if current, err := os.ReadFile(path); err == nil && bytes.Equal(current, value) {
		s.config.Logger.Debug("value unchanged, skipping write", "key", key)
		return nil
	}

	if err := writeValue(s.Path, name, value); err != nil {
		return err
	}
	s.recordWrite()

	if s.config.Gitless {
		return nil
	}

	if err := s.git.Add(name); err != nil {
		return fmt.Errorf("failed to stage %s: %w", name, err)
	}
	if !s.git.HasStagedChanges() {
		return nil
	}
	msg := core.ChangeReason(ctx, fmt.Sprintf("docs(notekeep): update %s", key))
	if err := s.git.Commit(msg); err != nil {
		return fmt.Errorf("failed to commit %s: %w", name, err)
	}
	return nil
}

// Delete removes the file backing key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	name, err := s.filename(key)
	if err != nil {
		return err
	}
	path := filepath.Join(s.Path, name)

	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if s.config.Gitless {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to delete %s: %w", name, err)
		}
		s.recordWrite()
		return nil
	}

	if err := s.git.Rm(name); err != nil {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}
	// Files never committed are not removed by git rm.
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	s.recordWrite()

	if !s.git.HasStagedChanges() {
		return nil
	}
	msg := core.ChangeReason(ctx, fmt.Sprintf("docs(notekeep): delete %s", key))
	if err := s.git.Commit(msg); err != nil {
		return fmt.Errorf("failed to commit deletion of %s: %w", name, err)
	}
	return nil
}

// Sync synchronizes the workspace with its Git remote.
func (s *Store) Sync(ctx context.Context) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	if s.config.Gitless {
		return fmt.Errorf("cannot sync in gitless mode")
	}
	if !s.git.IsRepo() {
		return fmt.Errorf("path is not a git repository: %s", s.Path)
	}

	unlock, err := s.git.Lock(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	return s.git.Sync()
}

// lock serializes writers across processes. The lock file lives in the
// workspace root, next to the data files.
func (s *Store) lock(ctx context.Context) (func(), error) {
	unlock, err := s.git.Lock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire workspace lock: %w", err)
	}
	return unlock, nil
}

func (s *Store) recordWrite() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.lastWrite = &now
	s.writes++
}

var _ core.Store = (*Store)(nil)
var _ core.Syncable = (*Store)(nil)
var _ core.Watchable = (*Store)(nil)
