// Package sqlstore implements core.Store on a single key/value table reached
// through database/sql. SQLite and PostgreSQL are supported.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/aretw0/notekeep/pkg/core"
)

// DefaultTable is the table used when none is configured.
const DefaultTable = "notekeep_kv"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Store is a core.Store backed by a SQL table.
type Store struct {
	db      *sql.DB
	dialect Dialect
	table   string
	q       queries
	logger  *slog.Logger
	owned   bool
}

// Option configures a Store.
type Option func(*Store)

// WithTable overrides DefaultTable.
func WithTable(name string) Option {
	return func(s *Store) {
		s.table = name
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open connects to dsn with driver, verifies the connection and creates the
// table when missing. The returned store owns the connection; Close releases it.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*Store, error) {
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if dialect.Name == SQLite.Name {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	s, err := New(ctx, db, dialect, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.owned = true
	return s, nil
}

// New wraps an existing connection. The caller keeps ownership of db.
func New(ctx context.Context, db *sql.DB, dialect Dialect, opts ...Option) (*Store, error) {
	s := &Store{
		db:      db,
		dialect: dialect,
		table:   DefaultTable,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	if !tableName.MatchString(s.table) {
		return nil, fmt.Errorf("invalid table name %q", s.table)
	}
	s.q = dialect.queries(s.table)

	if _, err := s.db.ExecContext(ctx, s.q.schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	s.logger.Debug("sql store ready", "dialect", dialect.Name, "table", s.table)
	return s, nil
}

// Get implements core.Store.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.q.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return []byte(value), nil
}

// Put implements core.Store with an upsert.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, s.q.put, key, string(value)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete implements core.Store.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.q.del, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Close closes the connection when it was opened by Open.
func (s *Store) Close() error {
	if !s.owned || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Dialect reports the SQL dialect in use.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

var _ core.Store = (*Store)(nil)

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return s.dialect.Name
}
