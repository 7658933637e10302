// SPDX-License-Identifier: MIT
// Copyright (c) 2026 FrogFS authors
// Source: github.com/frogfs/mkfrogfs

package frogfs

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
)

// CollectEntries walks root and returns every file and directory beneath
// it, including the root itself as a directory Entry with Path "", as an
// unannotated Entry normalized and sorted lexicographically by path.
// A symbolic link to a file is read through to its target; a symbolic link
// to a directory is not descended into (filepath.WalkDir does not follow it).
func CollectEntries(root string) ([]*Entry, error) {
	rootInfo, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("collect %q: %w", root, err)
	}

	entries := []*Entry{{
		Path:  "",
		Kind:  KindDirectory,
		Hash:  djb2Hash(""),
		MTime: rootInfo.ModTime(),
	}}
	seen := map[string]bool{"": true}

	walkErr := filepath.WalkDir(root, func(fsPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, fsPath)
		if err != nil {
			return fmt.Errorf("collect %q: %w", fsPath, err)
		}
		if rel == "." {
			return nil
		}

		entryPath, err := normalizeSourceEntryPath(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		if seen[entryPath] {
			return fmt.Errorf("%w: %q", ErrDuplicateEntryPath, entryPath)
		}
		seen[entryPath] = true

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %q: %w", fsPath, err)
		}

		kind := KindFile
		if d.IsDir() {
			kind = KindDirectory
		}

		entries = append(entries, &Entry{
			Path:    entryPath,
			Segment: segmentOf(entryPath),
			Kind:    kind,
			Hash:    djb2Hash(entryPath),
			MTime:   info.ModTime(),
		})

		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("collect %q: %w", root, walkErr)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})

	linkChildren(entries)

	return entries, nil
}

// linkChildren populates each directory Entry's Children slice with its
// immediate children, in the already-sorted collection order. The root
// entry (Path "") is never its own child.
func linkChildren(entries []*Entry) {
	byPath := make(map[string]*Entry, len(entries))
	for _, e := range entries {
		byPath[e.Path] = e
	}

	for _, e := range entries {
		if e.Path == "" {
			continue
		}

		parent := parentOf(e.Path)
		if parentEntry, ok := byPath[parent]; ok {
			parentEntry.Children = append(parentEntry.Children, e)
		}
	}
}

// parentOf returns the normalized parent path of entryPath, or "" for
// top-level entries.
func parentOf(entryPath string) string {
	dir := path.Dir(entryPath)
	if dir == "." {
		return ""
	}

	return dir
}

// readFileData reads and returns the full contents of fsPath, used by the
// preprocess orchestrator to source the raw bytes for a file entry.
func readFileData(fsPath string) ([]byte, error) {
	data, err := os.ReadFile(fsPath)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", fsPath, err)
	}

	return data, nil
}
