// SPDX-License-Identifier: MIT
// Copyright (c) 2026 FrogFS authors
// Source: github.com/frogfs/mkfrogfs

package frogfs

import (
	"fmt"
	"os"
	"path"
	"strings"
)

// NormalizePath converts a source or rule path to normalized slash-separated
// form. It trims spaces, accepts both "/" and "\" as separators, removes a
// leading "./" or "/", and cleans "." segments. The root directory normalizes
// to "".
func NormalizePath(raw string) string {
	raw = normalizePathForMatching(raw)
	raw = strings.TrimPrefix(raw, "/")
	raw = path.Clean("/" + raw)
	raw = strings.TrimPrefix(raw, "/")
	if raw == "." {
		return ""
	}

	return strings.TrimSuffix(raw, "/")
}

// normalizePathForMatching normalizes a user/input path for matcher use.
func normalizePathForMatching(p string) string {
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.TrimPrefix(p, "./")
	return p
}

// normalizeSourceEntryPath converts a collected filesystem-relative path to
// its canonical, validated entry path form.
func normalizeSourceEntryPath(raw string) (string, error) {
	normalized := NormalizePath(raw)
	if raw != "" && normalized == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidEntryPath, raw)
	}

	return normalized, nil
}

// segmentOf returns the last path component of a normalized entry path.
func segmentOf(entryPath string) string {
	if entryPath == "" {
		return ""
	}

	return path.Base(entryPath)
}

// cacheRelativePath joins a cache root with a normalized entry path, rejecting
// any result that would resolve outside the cache root.
func cacheRelativePath(cacheRoot string, entryPath string) (string, error) {
	if entryPath == "" {
		return cacheRoot, nil
	}

	for _, seg := range strings.Split(entryPath, "/") {
		if seg == ".." || seg == "." || seg == "" {
			return "", fmt.Errorf("%w: %q", ErrCacheEscape, entryPath)
		}
	}

	return path.Join(cacheRoot, entryPath), nil
}

// dirOf returns the parent directory of a slash-separated filesystem path.
func dirOf(p string) string {
	return path.Dir(p)
}

// ensureDir creates dir and any missing parents.
func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %q: %w", dir, err)
	}

	return nil
}
