// SPDX-License-Identifier: MIT
// Copyright (c) 2026 FrogFS authors
// Source: github.com/frogfs/mkfrogfs

package frogfs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/frogfs/mkfrogfs/internal/transform"
)

// preprocessor runs the incremental build pipeline: for each non-discarded
// file entry, decide whether its cached artifact is still valid and, if
// not, rerun its transforms and refresh the cache. Compression is not done
// here; the assembler applies it to the cached bytes. It operates
// strictly one entry at a time, with no worker pool.
type preprocessor struct {
	sourceRoot string
	cacheRoot  string
	driver     *transform.Driver
	state      *buildState
	prior      *buildState
}

// newPreprocessor builds a preprocessor rooted at sourceRoot, caching
// artifacts under cacheRoot, and searching opts.ToolDir, sourceRoot and the
// current directory, in that order, for transform scripts.
func newPreprocessor(sourceRoot, cacheRoot string, opts BuildOptions, prior *buildState) *preprocessor {
	searchDirs := []string{opts.ToolDir, sourceRoot, "."}

	return &preprocessor{
		sourceRoot: sourceRoot,
		cacheRoot:  cacheRoot,
		driver:     transform.NewDriver(searchDirs...),
		state:      newBuildState(opts),
		prior:      prior,
	}
}

// process applies the resolved plan to entry, decides staleness, and (if stale) rebuilds
// its cached artifact. It returns whether the entry was rebuilt this run.
func (p *preprocessor) process(entry *Entry, sourceFSPath string, plan ActionPlan) (rebuilt bool, err error) {
	entry.Cache = plan.Cache
	entry.Discard = plan.Discard
	entry.Transforms = plan.Transforms
	entry.Compressor = plan.Compressor

	if plan.Discard {
		return false, nil
	}

	info, err := os.Stat(sourceFSPath)
	if err != nil {
		return false, fmt.Errorf("stat %q: %w", sourceFSPath, err)
	}
	srcMTime := info.ModTime()

	cachePath, err := cacheRelativePath(p.cacheRoot, entry.Path)
	if err != nil {
		return false, err
	}

	prior, hadPrior := p.priorEntry(entry.Path)
	stale := p.isStale(plan, srcMTime, cachePath, prior, hadPrior)

	if !stale && plan.Cache {
		data, readErr := os.ReadFile(cachePath)
		if readErr == nil {
			entry.Data = data
			entry.DataSize = uint32(len(data))
			entry.MTime = prior.SourceMTime
			p.record(entry, plan, srcMTime, prior.ArtifactHash)

			return false, nil
		}
		// Cache artifact vanished out from under us; fall through to rebuild.
	}

	raw, err := readFileData(sourceFSPath)
	if err != nil {
		return false, err
	}

	built, err := p.runTransforms(entry.Path, raw, plan.Transforms)
	if err != nil {
		return false, err
	}

	entry.Data = built
	entry.DataSize = uint32(len(built))
	entry.MTime = srcMTime

	if plan.Cache {
		if err := writeCacheArtifact(cachePath, built); err != nil {
			return false, err
		}
	}

	p.record(entry, plan, srcMTime, crcIEEE(built))

	return true, nil
}

// cleanupCache walks the cache tree and deletes any cached artifact whose
// path no longer exists in the current entry set. It runs before the main
// pass so a path removed from the source tree doesn't leave a stale
// artifact behind forever. Any deletion forces the image to be rebuilt.
func (p *preprocessor) cleanupCache(entries []*Entry) (removed bool, err error) {
	live := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.Kind == KindFile {
			live[e.Path] = true
		}
	}

	walkErr := filepath.WalkDir(p.cacheRoot, func(fsPath string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return nil
			}

			return walkErr
		}
		if d.IsDir() || strings.HasSuffix(fsPath, ".tmp") {
			return nil
		}

		rel, relErr := filepath.Rel(p.cacheRoot, fsPath)
		if relErr != nil {
			return relErr
		}
		if live[filepath.ToSlash(rel)] {
			return nil
		}

		if rmErr := os.Remove(fsPath); rmErr != nil {
			return rmErr
		}
		removed = true

		return nil
	})
	if walkErr != nil && !os.IsNotExist(walkErr) {
		return removed, fmt.Errorf("cleanup cache: %w", walkErr)
	}

	return removed, nil
}

// priorEntry looks up path's previous-run state, if any.
func (p *preprocessor) priorEntry(path string) (statePathEntry, bool) {
	if p.prior == nil {
		return statePathEntry{}, false
	}

	e, ok := p.prior.Paths[path]

	return e, ok
}

// isStale checks the six conditions that invalidate a cached artifact: a
// global options change, a newly- or no-longer-discarded path, a
// cache-ability flip, a changed transform list, a changed compressor, or a
// source mtime newer than what was last cached (also counting a missing
// cache artifact as stale).
func (p *preprocessor) isStale(plan ActionPlan, srcMTime time.Time, cachePath string, prior statePathEntry, hadPrior bool) bool {
	if !hadPrior {
		return true
	}
	if p.prior.Options != p.state.Options {
		return true
	}
	if prior.Discard != plan.Discard || prior.Cache != plan.Cache {
		return true
	}
	if !transformsEqual(prior.Transforms, plan.Transforms) {
		return true
	}
	if !compressorsEqual(prior.Compressor, plan.Compressor) {
		return true
	}
	if srcMTime.After(prior.SourceMTime) {
		return true
	}
	if plan.Cache {
		if _, err := os.Stat(cachePath); err != nil {
			return true
		}
	}

	return false
}

// runTransforms applies each transform step in order, piping one step's
// output into the next's input.
func (p *preprocessor) runTransforms(entryPath string, data []byte, steps []TransformSpec) ([]byte, error) {
	out := data
	for _, step := range steps {
		next, err := p.driver.Run(step.Name, out, step.Args)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %q: transform %q: %v", ErrTransformFailed, entryPath, step.Name, err)
		}
		out = next
	}

	return out, nil
}

// record stores entry's resolved plan and resulting artifact fingerprint
// into the in-progress build state, for the next run's staleness check.
func (p *preprocessor) record(entry *Entry, plan ActionPlan, srcMTime time.Time, artifactHash uint32) {
	p.state.Paths[entry.Path] = statePathEntry{
		Discard:      plan.Discard,
		Cache:        plan.Cache,
		Transforms:   plan.Transforms,
		Compressor:   plan.Compressor,
		SourceMTime:  srcMTime,
		ArtifactHash: artifactHash,
	}
}

// writeCacheArtifact writes data to cachePath atomically, creating parent
// directories as needed.
func writeCacheArtifact(cachePath string, data []byte) error {
	dir := dirOf(cachePath)
	if err := ensureDir(dir); err != nil {
		return err
	}

	tmp := cachePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cache artifact %q: %w", cachePath, err)
	}
	if err := os.Rename(tmp, cachePath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("commit cache artifact %q: %w", cachePath, err)
	}

	return nil
}
