// Package export renders notes as Markdown documents with YAML frontmatter.
package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/notekeep/pkg/core"
)

type frontmatter struct {
	ID    string   `yaml:"id"`
	Title string   `yaml:"title"`
	Tags  []string `yaml:"tags,omitempty"`
}

// Render serializes a note: frontmatter (id, title, tag labels) followed by
// the markdown body.
func Render(n core.Note) ([]byte, error) {
	fm := frontmatter{ID: n.ID, Title: n.Title}
	for _, t := range n.Tags {
		fm.Tags = append(fm.Tags, t.Label)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(fm); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter of %s: %w", n.ID, err)
	}
	encoder.Close()
	buf.WriteString("---\n")

	buf.WriteString(n.Markdown)
	if n.Markdown != "" && !strings.HasSuffix(n.Markdown, "\n") {
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// Filename returns "<slug>-<id>.md". The id keeps names unique when titles
// collide.
func Filename(n core.Note) string {
	slug := Slug(n.Title)
	if slug == "" {
		return n.ID + ".md"
	}
	return slug + "-" + n.ID + ".md"
}

// Slug lowercases s and joins its letters and digits with dashes.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}

// WriteDir renders every note into dir, creating it if needed, and returns
// the number of files written.
func WriteDir(ctx context.Context, dir string, notes []core.Note, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create export directory: %w", err)
	}

	written := 0
	for _, n := range notes {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		data, err := Render(n)
		if err != nil {
			return written, err
		}
		path := filepath.Join(dir, Filename(n))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		logger.Debug("note exported", "id", n.ID, "path", path)
		written++
	}
	return written, nil
}
