package notes

import (
	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Notes     int    `json:"notes"`
	Tags      int    `json:"tags"`
	Mutations int    `json:"mutations"`
	StoreType string `json:"store_type"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	storeType := "store"
	if comp, ok := r.store.(introspection.Component); ok {
		storeType = comp.ComponentType()
	}

	return RepositoryState{
		Notes:     len(r.notes),
		Tags:      len(r.tags),
		Mutations: r.mutations,
		StoreType: storeType,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
