// SPDX-License-Identifier: MIT
// Copyright (c) 2026 FrogFS authors
// Source: github.com/frogfs/mkfrogfs

package frogfs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCollectEntries_SortedAndLinked(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "b.txt"), "b")
	mustWriteFile(t, filepath.Join(root, "a", "c.txt"), "c")
	mustWriteFile(t, filepath.Join(root, "a.txt"), "a")

	entries, err := CollectEntries(root)
	if err != nil {
		t.Fatalf("CollectEntries: %v", err)
	}

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path)
	}

	want := []string{"", "a", "a.txt", "a/c.txt", "b.txt"}
	if len(paths) != len(want) {
		t.Fatalf("paths=%v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("paths[%d]=%q, want %q (not lexicographically sorted)", i, paths[i], want[i])
		}
	}

	var dirEntry, rootEntry *Entry
	for _, e := range entries {
		switch e.Path {
		case "a":
			dirEntry = e
		case "":
			rootEntry = e
		}
	}
	if dirEntry == nil {
		t.Fatalf("directory entry %q not found", "a")
	}
	if len(dirEntry.Children) != 1 || dirEntry.Children[0].Path != "a/c.txt" {
		t.Fatalf("dir children=%+v, want [a/c.txt]", dirEntry.Children)
	}

	if rootEntry == nil || rootEntry.Kind != KindDirectory {
		t.Fatalf("root entry missing or not a directory: %+v", rootEntry)
	}
	wantRootChildren := map[string]bool{"a": true, "a.txt": true, "b.txt": true}
	if len(rootEntry.Children) != len(wantRootChildren) {
		t.Fatalf("root children=%+v, want %v", rootEntry.Children, wantRootChildren)
	}
	for _, c := range rootEntry.Children {
		if !wantRootChildren[c.Path] {
			t.Fatalf("unexpected root child %q", c.Path)
		}
	}
}

func TestCollectEntries_EmptyTreeYieldsOnlyRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	entries, err := CollectEntries(root)
	if err != nil {
		t.Fatalf("CollectEntries: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "" || entries[0].Kind != KindDirectory {
		t.Fatalf("entries=%+v, want single root directory entry", entries)
	}
}

func TestCollectEntries_DirsBuildsRootInImage(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "a.txt"), "a")

	outPath := filepath.Join(t.TempDir(), "frogfs.bin")
	result, err := Build(root, outPath, BuildOptions{Align: DefaultAlign, Dirs: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.WrittenEntries != 1 {
		t.Fatalf("WrittenEntries=%d, want 1", result.WrittenEntries)
	}

	entries, err := ListEntries(outPath)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}

	var foundRoot bool
	for _, e := range entries {
		if e.Path == "" && e.Kind == KindDirectory {
			foundRoot = true
		}
	}
	if !foundRoot {
		t.Fatalf("entries=%+v, want a root directory entry", entries)
	}
}

func mustWriteFile(t *testing.T, path string, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %q: %v", path, err)
	}
}
