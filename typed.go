package notekeep

import (
	"log/slog"

	"github.com/aretw0/notekeep/pkg/typed"
)

// Value is a JSON-encoded value of type T stored under one key.
type Value[T any] = typed.Value[T]

// NewValue binds key in store to type T.
func NewValue[T any](store Store, key string, logger *slog.Logger) *Value[T] {
	return typed.NewValue[T](store, key, logger)
}
