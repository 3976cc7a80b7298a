package launcher

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// writeBinary creates a dummy file at path, making parent dirs as needed.
func writeBinary(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestResolve_NotFound(t *testing.T) {
	dir := t.TempDir()

	_, err := Resolve(dir, "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "POCKETBASE_BINARY") {
		t.Errorf("error should mention the override variable: %v", err)
	}
}

func TestResolve_OverrideWins(t *testing.T) {
	dir := t.TempDir()
	writeBinary(t, filepath.Join(dir, BinaryName))

	override := filepath.Join(t.TempDir(), "custom-backend")
	writeBinary(t, override)

	got, err := Resolve(dir, override)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != override {
		t.Errorf("override should win over candidates: got %s", got)
	}
}

func TestResolve_OverrideMissing(t *testing.T) {
	dir := t.TempDir()
	writeBinary(t, filepath.Join(dir, BinaryName))

	_, err := Resolve(dir, filepath.Join(dir, "no-such-file"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing override should report not-found, got %v", err)
	}
}

func TestResolve_CandidateOrder(t *testing.T) {
	dir := t.TempDir()
	platform := runtime.GOOS + "_" + runtime.GOARCH
	binDir := filepath.Join(dir, "bin", BinaryName)
	platDir := filepath.Join(dir, "bin", platform, BinaryName)
	writeBinary(t, binDir)
	writeBinary(t, platDir)

	got, err := Resolve(dir, "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != binDir {
		t.Errorf("bin/ should be preferred over bin/%s/: got %s", platform, got)
	}

	// With bin/ gone the platform dir is next.
	if err := os.Remove(binDir); err != nil {
		t.Fatal(err)
	}
	got, err = Resolve(dir, "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != platDir {
		t.Errorf("expected platform candidate, got %s", got)
	}
}

func TestResolve_SkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	// A directory named like the binary must not satisfy resolution.
	if err := os.MkdirAll(filepath.Join(dir, BinaryName), 0o755); err != nil {
		t.Fatal(err)
	}
	writeBinary(t, filepath.Join(dir, "bin", BinaryName))

	got, err := Resolve(dir, "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != filepath.Join(dir, "bin", BinaryName) {
		t.Errorf("directory candidate should be skipped, got %s", got)
	}
}

func TestEnsureExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no exec bits on windows")
	}
	path := filepath.Join(t.TempDir(), BinaryName)
	writeBinary(t, path)

	EnsureExecutable(path)

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode()&0o111 != 0o111 {
		t.Errorf("exec bits not set: mode %v", info.Mode())
	}
}
