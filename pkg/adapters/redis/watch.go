package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/notekeep/pkg/core"
)

// Watch subscribes to the change channel and emits events whose key matches
// pattern ("" or "*" for all). The channel is closed once ctx is done.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	sub := s.client.Subscribe(ctx, s.Channel())
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", s.Channel(), err)
	}

	events := make(chan core.Event, 16)
	messages := sub.Channel()

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer sub.Close()

		for {
			select {
			case <-ctx.Done():
				return nil
			case msg, ok := <-messages:
				if !ok {
					return nil
				}
				var e core.Event
				if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
					s.logger.Warn("ignoring malformed change event", "payload", msg.Payload, "error", err)
					continue
				}
				if match, _ := doublestar.Match(pattern, e.Key); !match {
					continue
				}
				select {
				case events <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("redis watcher failed", "error", err)
	}))

	return events, nil
}
