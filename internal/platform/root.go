package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// SystemDir is the hidden directory marking a workspace.
const SystemDir = ".notekeep"

// FindRoot walks up from startDir looking for a workspace marker
// (.notekeep or .git) and returns the absolute path of the first match.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, SystemDir) || hasFile(dir, ".git") {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("root not found")
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
