// SPDX-License-Identifier: MIT
// Copyright (c) 2026 FrogFS authors
// Source: github.com/frogfs/mkfrogfs

package transform

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDriverRun_DirectlyExecutableScript(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture requires a POSIX shell")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "transform-upper")
	writeExecutable(t, script, "#!/bin/sh\ntr '[:lower:]' '[:upper:]'\n")

	driver := NewDriver(dir)
	out, err := driver.Run("upper", []byte("hello"), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if string(out) != "HELLO" {
		t.Fatalf("output=%q, want %q", out, "HELLO")
	}
}

func TestDriverRun_PassesFlags(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture requires a POSIX shell")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "transform-echo-args")
	writeExecutable(t, script, "#!/bin/sh\necho \"$@\"\n")

	driver := NewDriver(dir)
	out, err := driver.Run("echo-args", nil, map[string]string{"level": "9", "q": ""})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	got := string(out)
	if got != "--level 9 -q\n" {
		t.Fatalf("output=%q, want %q", got, "--level 9 -q\n")
	}
}

func TestDriverRun_NotFound(t *testing.T) {
	t.Parallel()

	driver := NewDriver(t.TempDir())
	_, err := driver.Run("missing", nil, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func writeExecutable(t *testing.T, path string, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("write %q: %v", path, err)
	}
}
