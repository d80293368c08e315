package fs

import (
	"fmt"
	"os"
	"path/filepath"
)

// TempFilePrefix names in-flight value files. The watcher ignores them and
// versioned stores list them in .gitignore.
const TempFilePrefix = "notekeep-tmp-"

// filePerm is the mode of every value file.
const filePerm os.FileMode = 0o644

// writeValue replaces the file name in dir with value. The bytes are staged in
// a sibling temp file and renamed into place, so Get and the watcher only ever
// see a complete JSON document for a key.
func writeValue(dir, name string, value []byte) (err error) {
	tmp, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to stage %s: %w", name, err)
	}
	staged := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(staged)
		}
	}()

	if _, err = tmp.Write(value); err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	if err = os.Chmod(staged, filePerm); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", name, err)
	}
	if err = os.Rename(staged, filepath.Join(dir, name)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}
