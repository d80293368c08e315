package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/notekeep/pkg/core"
)

// DebounceDelay is the quiet period collapsing the burst of filesystem
// events produced by a single atomic write.
const DebounceDelay = 50 * time.Millisecond

// Watch emits an event for every change to a key matching the glob pattern
// ("*" or "" for all keys). The channel is closed once ctx is done.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(s.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", s.Path, err)
	}

	events := make(chan core.Event, 16)
	loop := &watchLoop{
		store:     s,
		pattern:   pattern,
		watcher:   watcher,
		events:    events,
		debouncer: newDebouncer(DebounceDelay),
	}
	s.setWatcherActive(true)

	lifecycle.Go(ctx, loop.run, lifecycle.WithErrorHandler(func(err error) {
		s.handleWatchError(fmt.Errorf("watcher panic: %w", err))
	}))

	return events, nil
}

type watchLoop struct {
	store     *Store
	pattern   string
	watcher   *fsnotify.Watcher
	events    chan core.Event
	debouncer *debouncer
}

func (w *watchLoop) run(ctx context.Context) error {
	defer close(w.events)
	defer w.store.setWatcherActive(false)
	// Pending timers must finish before the channel is closed.
	defer w.debouncer.stopAndWait()
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.process(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.store.handleWatchError(err)
		}
	}
}

func (w *watchLoop) process(ctx context.Context, event fsnotify.Event) {
	key, ok := keyOf(event.Name)
	if !ok {
		return
	}
	if match, err := doublestar.Match(w.pattern, key); err != nil || !match {
		return
	}

	eType := eventType(event)
	if eType == "" {
		return
	}
	w.store.config.Logger.Debug("change observed", "key", key, "op", event.Op.String())

	e := core.Event{Type: eType, Key: key, Timestamp: time.Now().Unix()}
	w.debouncer.add(key, func() {
		select {
		case w.events <- e:
		case <-ctx.Done():
		}
	})
}

// keyOf maps a file path to its store key. Temp files, hidden files and
// files without the store extension are not keys.
func keyOf(path string) (string, bool) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, Ext) || strings.HasPrefix(base, ".") || strings.HasPrefix(base, TempFilePrefix) {
		return "", false
	}
	return strings.TrimSuffix(base, Ext), true
}

func eventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Create):
		return core.EventCreate
	case event.Has(fsnotify.Write):
		return core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return core.EventDelete
	}
	return ""
}

func (s *Store) handleWatchError(err error) {
	s.config.Logger.Error("watch error", "error", err)
	if s.config.ErrorHandler != nil {
		s.config.ErrorHandler(err)
	}
}

// debouncer delays a callback per key until no new call for that key has
// arrived for the configured delay.
type debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	pending map[string]*time.Timer
	wg      sync.WaitGroup
	stopped bool
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, pending: make(map[string]*time.Timer)}
}

func (d *debouncer) add(key string, fire func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if prev, ok := d.pending[key]; ok && prev.Stop() {
		d.wg.Done()
	}

	d.wg.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		if d.pending[key] == timer {
			delete(d.pending, key)
		}
		d.mu.Unlock()
		fire()
	})
	d.pending[key] = timer
}

// stopAndWait drops pending callbacks and waits for running ones.
func (d *debouncer) stopAndWait() {
	d.mu.Lock()
	d.stopped = true
	for key, t := range d.pending {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.pending, key)
	}
	d.mu.Unlock()

	d.wg.Wait()
}
