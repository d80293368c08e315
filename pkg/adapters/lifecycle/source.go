// Package lifecycle exposes store change events as a lifecycle.Source so they
// can drive a lifecycle-managed application.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/notekeep/pkg/core"
)

type changeSource struct {
	changes <-chan core.Event
	out     chan lifecycle.Event
	keep    func(core.Event) bool
}

// Option configures a change source.
type Option func(*changeSource)

// WithFilter drops changes for which keep returns false.
func WithFilter(keep func(core.Event) bool) Option {
	return func(s *changeSource) {
		s.keep = keep
	}
}

// NewSource wraps the channel returned by core.Watchable.Watch.
// The output channel closes when the input closes or the Start context ends.
func NewSource(changes <-chan core.Event, opts ...Option) lifecycle.Source {
	s := &changeSource{
		changes: changes,
		out:     make(chan lifecycle.Event),
		keep:    func(core.Event) bool { return true },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *changeSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *changeSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, s.forward)
	return nil
}

func (s *changeSource) forward(ctx context.Context) error {
	defer close(s.out)
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-s.changes:
			if !ok {
				return nil
			}
			if !s.keep(e) {
				continue
			}
			// core.Event satisfies lifecycle.Event through String().
			select {
			case s.out <- e:
			case <-ctx.Done():
				return nil
			}
		}
	}
}
