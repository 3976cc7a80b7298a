package launcher

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrNotFound reports that no backend binary exists at any candidate path.
var ErrNotFound = errors.New("backend binary not found")

// Candidates returns the ordered paths searched for the backend binary,
// relative to dir. The override (if any) is checked by Resolve before
// these.
func Candidates(dir string) []string {
	name := BinaryName
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	platform := runtime.GOOS + "_" + runtime.GOARCH
	return []string{
		filepath.Join(dir, name),
		filepath.Join(dir, "bin", name),
		filepath.Join(dir, "bin", platform, name),
	}
}

// Resolve finds the backend executable. An override path wins over all
// candidates; otherwise the first candidate that is a regular file is
// returned. A miss yields an error wrapping ErrNotFound with remediation
// guidance.
func Resolve(dir, override string) (string, error) {
	if override != "" {
		if _, err := os.Stat(override); err != nil {
			return "", fmt.Errorf("%w: POCKETBASE_BINARY points to %s: %v", ErrNotFound, override, err)
		}
		return override, nil
	}

	candidates := Candidates(dir)
	for _, path := range candidates {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		return path, nil
	}

	return "", fmt.Errorf("%w: looked for\n  %s\n\nDownload a prebuilt release from https://github.com/pocketbase/pocketbase/releases\nand place it next to the launcher, or set POCKETBASE_BINARY to its path.",
		ErrNotFound, strings.Join(candidates, "\n  "))
}

// EnsureExecutable sets the executable bits on path. A failure is not
// fatal here; the spawn attempt will surface any real problem.
func EnsureExecutable(path string) {
	if runtime.GOOS == "windows" {
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		slog.Warn("stat before chmod failed", "path", path, "error", err)
		return
	}
	if info.Mode()&0o111 == 0o111 {
		return
	}
	if err := os.Chmod(path, info.Mode()|0o111); err != nil {
		slog.Warn("marking binary executable failed", "path", path, "error", err)
	}
}
