// Package redis implements core.Store on Redis strings. Every write is
// announced on a pub/sub channel so other processes can watch the workspace.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/aretw0/notekeep/pkg/core"
)

// DefaultPrefix namespaces keys when no prefix is configured.
const DefaultPrefix = "notekeep:"

// Config configures a Store.
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	Logger   *slog.Logger
}

// Store is a core.Store backed by Redis.
type Store struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
	owned  bool
}

// Open connects to the server described by cfg and pings it.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	s := New(client, cfg.Prefix, cfg.Logger)
	s.owned = true
	return s, nil
}

// New wraps an existing client. The caller keeps ownership of client.
func New(client *redis.Client, prefix string, logger *slog.Logger) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{client: client, prefix: prefix, logger: logger}
}

// Channel is the pub/sub channel carrying change events.
func (s *Store) Channel() string {
	return s.prefix + "changes"
}

// Get implements core.Store.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return val, nil
}

// Put implements core.Store. The value and its change event are sent in one
// transaction.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	payload, err := encodeEvent(core.EventModify, key)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.prefix+key, value, 0)
		pipe.Publish(ctx, s.Channel(), payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete implements core.Store.
func (s *Store) Delete(ctx context.Context, key string) error {
	removed, err := s.client.Del(ctx, s.prefix+key).Result()
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	if removed == 0 {
		return nil
	}
	payload, err := encodeEvent(core.EventDelete, key)
	if err != nil {
		return err
	}
	if err := s.client.Publish(ctx, s.Channel(), payload).Err(); err != nil {
		s.logger.Warn("failed to publish change", "key", key, "error", err)
	}
	return nil
}

// Close closes the client when it was created by Open.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}

func encodeEvent(t core.EventType, key string) (string, error) {
	data, err := json.Marshal(core.Event{Type: t, Key: key, Timestamp: time.Now().Unix()})
	if err != nil {
		return "", fmt.Errorf("failed to encode change event: %w", err)
	}
	return string(data), nil
}

var _ core.Store = (*Store)(nil)
var _ core.Watchable = (*Store)(nil)

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "redis"
}
