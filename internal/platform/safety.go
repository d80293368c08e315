package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// IsDevRun reports whether the process runs via `go run` or `go test`.
// Both build their binaries in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(os.TempDir())) {
		return true
	}

	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}

// ResolvePath returns the directory an fs workspace really lives in.
// When forceTemp is set, paths outside the system temp directory are
// re-rooted under <tmp>/notekeep-dev so development runs never touch the
// user's notes.
func ResolvePath(userPath string, forceTemp bool) string {
	if !forceTemp {
		if userPath == "" {
			return "."
		}
		return userPath
	}

	// Paths already inside the temp dir (t.TempDir) are trusted.
	cleanUserPath := filepath.Clean(userPath)
	rel, err := filepath.Rel(os.TempDir(), cleanUserPath)
	if err == nil && filepath.IsAbs(cleanUserPath) && !strings.HasPrefix(rel, "..") {
		return cleanUserPath
	}

	subName := filepath.Base(cleanUserPath)
	if userPath == "" || subName == "." || subName == string(os.PathSeparator) {
		subName = "default"
	}

	return filepath.Join(os.TempDir(), "notekeep-dev", subName)
}
