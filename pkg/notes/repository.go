package notes

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/aretw0/notekeep/pkg/core"
	"github.com/aretw0/notekeep/pkg/typed"
)

// Repository is the in-memory owner of the raw note and tag collections.
type Repository struct {
	mu    sync.RWMutex
	notes []core.RawNote
	tags  []core.Tag

	store     core.Store
	notesKey  *typed.Value[[]core.RawNote]
	tagsKey   *typed.Value[[]core.Tag]
	ids       core.IDGenerator
	logger    *slog.Logger
	mutations int
}

// New creates a repository backed by store and loads both collections.
// Absent or unreadable collections start empty.
func New(ctx context.Context, store core.Store, opts ...Option) *Repository {
	r := &Repository{
		store:  store,
		ids:    core.UUIDGenerator{},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.notesKey = typed.NewValue[[]core.RawNote](store, core.NotesKey, r.logger)
	r.tagsKey = typed.NewValue[[]core.Tag](store, core.TagsKey, r.logger)
	r.load(ctx)
	return r
}

// Reload replaces the in-memory collections with the stored ones.
// It is used after a change made by another process has been observed.
func (r *Repository) Reload(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.load(ctx)
}

func (r *Repository) load(ctx context.Context) {
	r.notes = r.notesKey.Read(ctx, []core.RawNote{})
	r.tags = r.tagsKey.Read(ctx, []core.Tag{})
	for i := range r.notes {
		if r.notes[i].TagIDs == nil {
			r.notes[i].TagIDs = []string{}
		}
	}
	r.logger.Debug("collections loaded", "notes", len(r.notes), "tags", len(r.tags))
}

// --- Notes ---

// CreateNote appends a new note built from data and persists the notes.
func (r *Repository) CreateNote(ctx context.Context, data core.NoteData) (core.RawNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	note := core.RawNote{
		ID:       r.newID(r.hasNote),
		Title:    data.Title,
		Markdown: data.Markdown,
		TagIDs:   data.TagIDs(),
	}
	r.notes = append(slices.Clip(r.notes), note)

	return cloneRawNote(note), r.persistNotes(ctx, "create", note.ID)
}

// UpdateNote replaces the title, markdown and tags of the note with the given
// id, keeping its position. Unknown ids are ignored.
func (r *Repository) UpdateNote(ctx context.Context, id string, data core.NoteData) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.noteIndex(id)
	if i < 0 {
		r.logger.Debug("update of unknown note ignored", "id", id)
		return nil
	}

	next := slices.Clone(r.notes)
	next[i] = core.RawNote{
		ID:       id,
		Title:    data.Title,
		Markdown: data.Markdown,
		TagIDs:   data.TagIDs(),
	}
	r.notes = next

	return r.persistNotes(ctx, "update", id)
}

// DeleteNote removes the note with the given id. Unknown ids are ignored.
func (r *Repository) DeleteNote(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.noteIndex(id)
	if i < 0 {
		r.logger.Debug("delete of unknown note ignored", "id", id)
		return nil
	}
	r.notes = slices.Delete(slices.Clone(r.notes), i, i+1)

	return r.persistNotes(ctx, "delete", id)
}

// --- Tags ---

// CreateTag appends a new tag with the given label and persists the tags.
func (r *Repository) CreateTag(ctx context.Context, label string) (core.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tag := core.Tag{ID: r.newID(r.hasTag), Label: label}
	r.tags = append(slices.Clip(r.tags), tag)

	return tag, r.persistTags(ctx, "create", tag.ID)
}

// AddTag appends a tag whose id was minted by the caller.
// A tag with an id already in the table is ignored.
func (r *Repository) AddTag(ctx context.Context, tag core.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tag.ID == "" {
		return fmt.Errorf("tag has no ID")
	}
	if r.hasTag(tag.ID) {
		r.logger.Debug("tag already present", "id", tag.ID)
		return nil
	}
	r.tags = append(slices.Clip(r.tags), tag)

	return r.persistTags(ctx, "add", tag.ID)
}

// UpdateTag relabels the tag with the given id. Unknown ids are ignored.
func (r *Repository) UpdateTag(ctx context.Context, id, label string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.tagIndex(id)
	if i < 0 {
		r.logger.Debug("update of unknown tag ignored", "id", id)
		return nil
	}

	next := slices.Clone(r.tags)
	next[i].Label = label
	r.tags = next

	return r.persistTags(ctx, "update", id)
}

// DeleteTag removes the tag with the given id. Notes referencing it keep
// the reference. Unknown ids are ignored.
func (r *Repository) DeleteTag(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.tagIndex(id)
	if i < 0 {
		r.logger.Debug("delete of unknown tag ignored", "id", id)
		return nil
	}
	r.tags = slices.Delete(slices.Clone(r.tags), i, i+1)

	return r.persistTags(ctx, "delete", id)
}

// --- Reads ---

// RawNotes returns a copy of the note collection in insertion order.
func (r *Repository) RawNotes() []core.RawNote {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]core.RawNote, len(r.notes))
	for i, n := range r.notes {
		out[i] = cloneRawNote(n)
	}
	return out
}

// Tags returns a copy of the tag table.
func (r *Repository) Tags() []core.Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.tags)
}

// Notes returns the denormalized notes, recomputed from the current state.
func (r *Repository) Notes() []core.Note {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return core.Denormalize(r.notes, r.tags)
}

// Note returns the denormalized note with the given id.
func (r *Repository) Note(id string) (core.Note, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.noteIndex(id)
	if i < 0 {
		return core.Note{}, false
	}
	return core.Denormalize(r.notes[i:i+1], r.tags)[0], true
}

// RawNote returns a copy of the stored note with the given id.
func (r *Repository) RawNote(id string) (core.RawNote, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.noteIndex(id)
	if i < 0 {
		return core.RawNote{}, false
	}
	return cloneRawNote(r.notes[i]), true
}

// Tag returns the tag with the given id.
func (r *Repository) Tag(id string) (core.Tag, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.tagIndex(id)
	if i < 0 {
		return core.Tag{}, false
	}
	return r.tags[i], true
}

// FindTag resolves ref as a tag id, then as a label ignoring case (first
// match in table order).
func (r *Repository) FindTag(ref string) (core.Tag, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.tagIndex(ref); i >= 0 {
		return r.tags[i], true
	}
	folded := core.Fold(ref)
	for _, t := range r.tags {
		if core.Fold(t.Label) == folded {
			return t, true
		}
	}
	return core.Tag{}, false
}

// Filter returns the denormalized notes matching q.
func (r *Repository) Filter(q core.Query) []core.Note {
	return core.Filter(r.Notes(), q.Title, q.Tags)
}

// --- internals ---

// newID draws ids until one is not taken.
func (r *Repository) newID(taken func(string) bool) string {
	for {
		id := r.ids.Generate()
		if id != "" && !taken(id) {
			return id
		}
		r.logger.Warn("generated id collides, retrying", "id", id)
	}
}

func (r *Repository) noteIndex(id string) int {
	return slices.IndexFunc(r.notes, func(n core.RawNote) bool { return n.ID == id })
}

func (r *Repository) tagIndex(id string) int {
	return slices.IndexFunc(r.tags, func(t core.Tag) bool { return t.ID == id })
}

func (r *Repository) hasNote(id string) bool { return r.noteIndex(id) >= 0 }

func (r *Repository) hasTag(id string) bool { return r.tagIndex(id) >= 0 }

func (r *Repository) persistNotes(ctx context.Context, op, id string) error {
	r.mutations++
	if err := r.notesKey.Write(withReason(ctx, "notes", op, id), r.notes); err != nil {
		r.logger.Error("failed to persist notes", "op", op, "id", id, "error", err)
		return err
	}
	r.logger.Debug("notes persisted", "op", op, "id", id, "count", len(r.notes))
	return nil
}

func (r *Repository) persistTags(ctx context.Context, op, id string) error {
	r.mutations++
	if err := r.tagsKey.Write(withReason(ctx, "tags", op, id), r.tags); err != nil {
		r.logger.Error("failed to persist tags", "op", op, "id", id, "error", err)
		return err
	}
	r.logger.Debug("tags persisted", "op", op, "id", id, "count", len(r.tags))
	return nil
}

func cloneRawNote(n core.RawNote) core.RawNote {
	n.TagIDs = slices.Clone(n.TagIDs)
	if n.TagIDs == nil {
		n.TagIDs = []string{}
	}
	return n
}
