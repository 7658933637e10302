// SPDX-License-Identifier: MIT
// Copyright (c) 2026 FrogFS authors
// Source: github.com/frogfs/mkfrogfs

package frogfs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// stateOptions mirrors the build-wide knobs that, if changed, invalidate
// every cached artifact.
type stateOptions struct {
	Align   int  `json:"align"`
	UseDirs bool `json:"use_dirs"`
}

// statePathEntry records everything the incremental cache needs to decide
// whether a single path's cached artifact is stale. Transforms is an
// ordered slice, not a map, so two runs with the same steps in a different
// order are correctly treated as different.
type statePathEntry struct {
	Discard      bool            `json:"discard"`
	Cache        bool            `json:"cache"`
	Transforms   []TransformSpec `json:"transforms,omitempty"`
	Compressor   *CompressorSpec `json:"compressor,omitempty"`
	SourceMTime  time.Time       `json:"source_mtime"`
	ArtifactHash uint32          `json:"artifact_hash"`
}

// buildState is the on-disk incremental-cache state document.
type buildState struct {
	Options stateOptions              `json:"options"`
	Paths   map[string]statePathEntry `json:"paths"`
}

// newBuildState returns an empty state for the given build options.
func newBuildState(opts BuildOptions) *buildState {
	return &buildState{
		Options: stateOptions{Align: opts.Align, UseDirs: opts.Dirs},
		Paths:   make(map[string]statePathEntry),
	}
}

// stateFilePath returns the path to the JSON state file under buildDir.
func stateFilePath(buildDir string) string {
	return filepath.Join(buildDir, "frogfs-state.json")
}

// loadBuildState reads the state file under buildDir. A missing file is not
// an error: it returns an empty state, forcing a full rebuild.
func loadBuildState(buildDir string, opts BuildOptions) (*buildState, error) {
	data, err := os.ReadFile(stateFilePath(buildDir))
	if os.IsNotExist(err) {
		return newBuildState(opts), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read build state: %w", err)
	}

	var st buildState
	if err := json.Unmarshal(data, &st); err != nil {
		return newBuildState(opts), nil
	}
	if st.Paths == nil {
		st.Paths = make(map[string]statePathEntry)
	}

	return &st, nil
}

// save writes the state document to buildDir, creating the directory if
// needed. Like the final image, the write is atomic: a temp file is
// written and renamed into place so a crash never leaves a half-written
// state file.
func (st *buildState) save(buildDir string) error {
	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return fmt.Errorf("create build dir: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode build state: %w", err)
	}

	final := stateFilePath(buildDir)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write build state: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("commit build state: %w", err)
	}

	return nil
}

// optionsChanged reports whether the build-wide options differ from this
// state's recorded options.
func (st *buildState) optionsChanged(opts BuildOptions) bool {
	return st.Options.Align != opts.Align || st.Options.UseDirs != opts.Dirs
}

// transformsEqual reports whether two ordered transform lists match
// exactly in name, order, and arguments.
func transformsEqual(a, b []TransformSpec) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name {
			return false
		}
		if !argsEqual(a[i].Args, b[i].Args) {
			return false
		}
	}

	return true
}

// compressorsEqual reports whether two compressor specs match in name and
// arguments, treating nil as "no compressor".
func compressorsEqual(a, b *CompressorSpec) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.Name == b.Name && argsEqual(a.Args, b.Args)
}

// argsEqual compares two string-keyed argument maps for equality.
func argsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}

	return true
}
