// SPDX-License-Identifier: MIT
// Copyright (c) 2026 FrogFS authors
// Source: github.com/frogfs/mkfrogfs

package frogfs

import "errors"

// Sentinel errors for FrogFS build operations. Use errors.Is in callers.
var (
	// ErrUnknownVerb means a filter rule used an action verb the engine does not recognize.
	ErrUnknownVerb = errors.New("unknown filter action verb")
	// ErrUnknownCompressor means a rule named a compressor that has no registered driver.
	ErrUnknownCompressor = errors.New("unknown compressor")
	// ErrInvalidPattern means a filter rule glob pattern failed to compile.
	ErrInvalidPattern = errors.New("invalid filter pattern")
	// ErrInvalidEntryPath means a collected or configured path is empty or escapes its root.
	ErrInvalidEntryPath = errors.New("invalid entry path")
	// ErrDuplicateEntryPath means two entries resolve to the same path.
	ErrDuplicateEntryPath = errors.New("duplicate entry path")
	// ErrTransformNotFound means no transform-<name> script was discovered for a rule.
	ErrTransformNotFound = errors.New("transform not found")
	// ErrTransformFailed means a transform subprocess exited non-zero.
	ErrTransformFailed = errors.New("transform failed")
	// ErrInterpreterNotFound means no interpreter is available for a transform's extension.
	ErrInterpreterNotFound = errors.New("interpreter not found")
	// ErrSizeOverflow means an entry or the image would exceed the format's addressing limits.
	ErrSizeOverflow = errors.New("size exceeds format limit")
	// ErrInvalidHeader means an existing image is missing or has a bad header.
	ErrInvalidHeader = errors.New("invalid FrogFS image: missing or bad header")
	// ErrInvalidAlign means the configured alignment is out of the supported range.
	ErrInvalidAlign = errors.New("align must be between 1 and 255")
	// ErrCacheEscape means a cache-relative path tried to escape the cache root.
	ErrCacheEscape = errors.New("cache path escapes cache root")
	// ErrNilWriter means the destination writer is nil.
	ErrNilWriter = errors.New("writer is nil")
)
