package core

// Denormalize resolves the tag references of every raw note against tags.
//
// The tags of each resulting Note are the subsequence of tags whose id is
// referenced by the raw note, in tag table order. References to ids missing
// from the table are dropped. Note order follows notes.
func Denormalize(notes []RawNote, tags []Tag) []Note {
	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		out = append(out, resolve(n, tags))
	}
	return out
}

func resolve(n RawNote, tags []Tag) Note {
	refs := make(map[string]struct{}, len(n.TagIDs))
	for _, id := range n.TagIDs {
		refs[id] = struct{}{}
	}

	resolved := make([]Tag, 0, len(n.TagIDs))
	for _, t := range tags {
		if _, ok := refs[t.ID]; ok {
			resolved = append(resolved, t)
		}
	}

	return Note{
		ID:       n.ID,
		Title:    n.Title,
		Markdown: n.Markdown,
		Tags:     resolved,
	}
}
