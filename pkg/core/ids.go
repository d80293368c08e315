package core

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator mints identifiers for new notes and tags.
type IDGenerator interface {
	Generate() string
}

// UUIDGenerator generates random (version 4) UUIDs.
//
// Thread-safety: UUIDGenerator is stateless and safe for concurrent use.
type UUIDGenerator struct{}

// Generate returns a new hyphenated UUID string.
func (UUIDGenerator) Generate() string {
	return uuid.NewString()
}

// SequenceGenerator returns predetermined ids, then falls back to
// "<prefix><n>" once they are exhausted. It enables deterministic tests.
type SequenceGenerator struct {
	mu     sync.Mutex
	Prefix string
	ids    []string
	n      int
}

// NewSequenceGenerator creates a generator yielding ids in order.
func NewSequenceGenerator(prefix string, ids ...string) *SequenceGenerator {
	return &SequenceGenerator{Prefix: prefix, ids: ids}
}

// Generate returns the next id.
func (g *SequenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	defer func() { g.n++ }()
	if g.n < len(g.ids) {
		return g.ids[g.n]
	}
	return fmt.Sprintf("%s%d", g.Prefix, g.n+1)
}
