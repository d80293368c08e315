package fs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteValue(t *testing.T) {
	t.Run("Creates Value File", func(t *testing.T) {
		dir := t.TempDir()

		if err := writeValue(dir, "NOTES.json", []byte("[]")); err != nil {
			t.Fatalf("writeValue failed: %v", err)
		}

		path := filepath.Join(dir, "NOTES.json")
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Failed to read file: %v", err)
		}
		if string(got) != "[]" {
			t.Errorf("Expected content '[]', got '%s'", string(got))
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat failed: %v", err)
		}
		if info.Mode().Perm() != filePerm {
			t.Errorf("Expected mode %v, got %v", filePerm, info.Mode().Perm())
		}
	})

	t.Run("Replaces Existing Value Without Leftovers", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "TAGS.json")

		if err := os.WriteFile(path, []byte("initial"), 0600); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
		if err := writeValue(dir, "TAGS.json", []byte(`[{"id":"t1","label":"x"}]`)); err != nil {
			t.Fatalf("writeValue failed: %v", err)
		}

		got, _ := os.ReadFile(path)
		if string(got) != `[{"id":"t1","label":"x"}]` {
			t.Errorf("unexpected content %q", got)
		}

		entries, _ := os.ReadDir(dir)
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), TempFilePrefix) {
				t.Errorf("temp file left behind: %s", e.Name())
			}
		}
	})

	t.Run("Fails For Missing Directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "missing")
		err := writeValue(dir, "x.json", []byte("x"))
		if err == nil {
			t.Fatal("expected error for missing directory")
		}
		if !strings.Contains(err.Error(), "x.json") {
			t.Errorf("error should name the value file: %v", err)
		}
	})

	t.Run("Temp Files Are Not Keys", func(t *testing.T) {
		if _, ok := keyOf(TempFilePrefix + "NOTES" + Ext); ok {
			t.Error("staged file must not map to a key")
		}
	})
}
