// Package git runs git commands for versioned workspaces.
package git

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Client wraps git command execution with a file-based lock for process safety.
type Client struct {
	WorkDir  string
	Logger   *slog.Logger
	lockPath string
}

// NewClient creates a new git client for the given working directory.
// lockName is the lock file created inside workDir while a write is in progress.
func NewClient(workDir, lockName string, logger *slog.Logger) *Client {
	if lockName == "" {
		lockName = ".notekeep.lock"
	}
	return &Client{
		WorkDir:  workDir,
		Logger:   logger,
		lockPath: lockName,
	}
}

// IsInstalled reports whether a git binary is on the PATH.
func IsInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// LockName returns the name of the lock file relative to WorkDir.
func (c *Client) LockName() string {
	return c.lockPath
}

// Lock acquires the file-based lock, retrying until ctx is done.
func (c *Client) Lock(ctx context.Context) (func(), error) {
	fullLockPath := filepath.Join(c.WorkDir, c.lockPath)

	for {
		f, err := os.OpenFile(fullLockPath, os.O_CREATE|os.O_EXCL, 0666)
		if err == nil {
			f.Close()
			return func() {
				os.Remove(fullLockPath)
			}, nil
		}

		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to acquire lock: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to acquire lock: %w", ctx.Err())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// Run executes a raw git command in the working directory.
// It does NOT acquire the lock; callers serialize writes via Lock.
func (c *Client) Run(args ...string) (string, error) {
	if c.Logger != nil {
		c.Logger.Debug("executing git", "args", args, "dir", c.WorkDir)
	}

	cmd := exec.Command("git", args...)
	cmd.Dir = c.WorkDir
	cmd.Env = withIdentity(os.Environ())

	out, err := cmd.CombinedOutput()
	output := string(out)

	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, output)
	}

	return strings.TrimSpace(output), nil
}

// withIdentity supplies a committer identity when the environment has none,
// so commits work on fresh machines and in CI.
func withIdentity(env []string) []string {
	defaults := map[string]string{
		"GIT_AUTHOR_NAME":     "notekeep",
		"GIT_AUTHOR_EMAIL":    "notekeep@localhost",
		"GIT_COMMITTER_NAME":  "notekeep",
		"GIT_COMMITTER_EMAIL": "notekeep@localhost",
	}
	for _, kv := range env {
		name, _, _ := strings.Cut(kv, "=")
		delete(defaults, name)
	}
	for k, v := range defaults {
		env = append(env, k+"="+v)
	}
	return env
}

// Init initializes a new git repository. Re-running it is safe.
func (c *Client) Init() error {
	_, err := c.Run("init")
	return err
}

// IsRepo reports whether WorkDir is inside a git work tree.
func (c *Client) IsRepo() bool {
	out, err := c.Run("rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// Add adds files to the stage.
func (c *Client) Add(files ...string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"add"}, files...)
	_, err := c.Run(args...)
	return err
}

// Rm removes files from the working tree and from the index.
func (c *Client) Rm(files ...string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"rm", "-f", "--ignore-unmatch"}, files...)
	_, err := c.Run(args...)
	return err
}

// Commit records staged changes.
func (c *Client) Commit(msg string) error {
	_, err := c.Run("commit", "-m", msg)
	return err
}

// HasStagedChanges reports whether the index differs from HEAD.
func (c *Client) HasStagedChanges() bool {
	_, err := c.Run("diff", "--cached", "--quiet")
	return err != nil
}

// Status returns the porcelain status of the repo.
func (c *Client) Status() (string, error) {
	return c.Run("status", "--porcelain")
}

// Log returns the one-line subjects of the last n commits, newest first.
func (c *Client) Log(n int) ([]string, error) {
	out, err := c.Run("log", fmt.Sprintf("-%d", n), "--format=%s")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// Sync integrates remote changes and pushes local commits.
func (c *Client) Sync() error {
	if _, err := c.Run("pull", "--rebase"); err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}
	if _, err := c.Run("push"); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}
	return nil
}
