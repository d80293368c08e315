// Package typed provides type-safe access to values held in a core.Store.
package typed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/notekeep/pkg/core"
)

// Value binds a store key to a Go type. Values are serialized as JSON.
type Value[T any] struct {
	store  core.Store
	key    string
	logger *slog.Logger
}

// NewValue creates a typed accessor for key. A nil logger discards output.
func NewValue[T any](store core.Store, key string, logger *slog.Logger) *Value[T] {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Value[T]{store: store, key: key, logger: logger}
}

// Key returns the store key.
func (v *Value[T]) Key() string {
	return v.key
}

// Read returns the decoded value, or def when the key is absent or its
// content cannot be decoded. Failures are logged, never returned.
func (v *Value[T]) Read(ctx context.Context, def T) T {
	out, err := v.Load(ctx)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			v.logger.Warn("stored value unreadable, using default", "key", v.key, "error", err)
		}
		return def
	}
	return out
}

// Load returns the decoded value or the error that prevented it.
func (v *Value[T]) Load(ctx context.Context) (T, error) {
	var out T
	data, err := v.store.Get(ctx, v.key)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("failed to decode %s: %w", v.key, err)
	}
	return out, nil
}

// Write encodes val and stores it under the key.
func (v *Value[T]) Write(ctx context.Context, val T) error {
	data, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", v.key, err)
	}
	if err := v.store.Put(ctx, v.key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", v.key, err)
	}
	return nil
}
