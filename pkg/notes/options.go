package notes

import (
	"log/slog"

	"github.com/aretw0/notekeep/pkg/core"
)

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the logger for the repository.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithIDGenerator replaces the UUID generator used for new notes and tags.
func WithIDGenerator(ids core.IDGenerator) Option {
	return func(r *Repository) {
		if ids != nil {
			r.ids = ids
		}
	}
}
