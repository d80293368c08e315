package core

import (
	"strings"

	"golang.org/x/text/cases"
)

// Query selects notes by title and tags.
type Query struct {
	// Title is matched as a case-insensitive substring. Empty matches all.
	Title string
	// Tags must all be present on a note. Empty matches all.
	Tags []Tag
}

// Match reports whether n satisfies q.
func (q Query) Match(n Note) bool {
	return matchTitle(n.Title, Fold(q.Title)) && matchTags(n.Tags, q.Tags)
}

// Filter returns the notes whose title contains titleQuery (ignoring case)
// and which carry every tag of requiredTags, compared by id.
// Input order is preserved.
func Filter(notes []Note, titleQuery string, requiredTags []Tag) []Note {
	folded := Fold(titleQuery)
	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		if matchTitle(n.Title, folded) && matchTags(n.Tags, requiredTags) {
			out = append(out, n)
		}
	}
	return out
}

// Fold returns s under Unicode case folding, the form titles and labels are
// compared in.
func Fold(s string) string {
	if s == "" {
		return ""
	}
	return cases.Fold().String(s)
}

func matchTitle(title, foldedQuery string) bool {
	if foldedQuery == "" {
		return true
	}
	return strings.Contains(Fold(title), foldedQuery)
}

func matchTags(have, required []Tag) bool {
	for _, r := range required {
		found := false
		for _, t := range have {
			if t.ID == r.ID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
