package core

import "context"

// Keys of the two persisted collections.
const (
	NotesKey = "NOTES"
	TagsKey  = "TAGS"
)

// Store is the key-value persistence port.
// Adhering to this interface keeps the repository independent of the
// underlying storage (directory, SQL table, Redis, memory).
type Store interface {
	// Get returns the bytes stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	// The value is durable when Put returns.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Watchable is implemented by stores that can report changes made by other
// processes.
type Watchable interface {
	// Watch emits an Event for every change to a key matching the glob pattern.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// Syncable is implemented by stores that can synchronize with a remote.
type Syncable interface {
	Sync(ctx context.Context) error
}

type contextKey string

// ChangeReasonKey is the context key carrying a human readable reason for a
// write (used as the commit message by versioned stores).
const ChangeReasonKey contextKey = "change_reason"

// ChangeReason returns the reason stored in ctx, or def.
func ChangeReason(ctx context.Context, def string) string {
	if val, ok := ctx.Value(ChangeReasonKey).(string); ok && val != "" {
		return val
	}
	return def
}
