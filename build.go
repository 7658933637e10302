// SPDX-License-Identifier: MIT
// Copyright (c) 2026 FrogFS authors
// Source: github.com/frogfs/mkfrogfs

package frogfs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Build runs the full FrogFS build pipeline against sourceRoot and writes
// the resulting image to outPath: collect the source tree, resolve each
// path's action plan, incrementally preprocess (transform/cache) each file,
// and assemble the binary image. The whole pipeline runs single-threaded
// and cooperatively, entry by entry.
func Build(sourceRoot, outPath string, opts BuildOptions) (BuildResult, error) {
	start := time.Now()

	if err := opts.applyDefaults(); err != nil {
		return BuildResult{}, err
	}

	engine, err := NewRuleEngine(opts.Rules)
	if err != nil {
		return BuildResult{}, err
	}

	entries, err := CollectEntries(sourceRoot)
	if err != nil {
		return BuildResult{}, err
	}

	buildDir := opts.BuildDir
	if buildDir == "" {
		buildDir = filepath.Dir(outPath)
	}
	cacheDir := filepath.Join(buildDir, "frogfs-cache")

	prior, err := loadBuildState(buildDir, opts)
	if err != nil {
		return BuildResult{}, err
	}

	pre := newPreprocessor(sourceRoot, cacheDir, opts, prior)

	cleanedCache, err := pre.cleanupCache(entries)
	if err != nil {
		return BuildResult{}, err
	}
	if cleanedCache {
		opts.Logger.Debug("cache cleanup removed stale artifacts, forcing rebuild")
	}

	rebuiltCount := 0
	for _, e := range entries {
		if e.Kind != KindFile {
			continue
		}

		plan, err := engine.Resolve(e.Path)
		if err != nil {
			return BuildResult{}, err
		}

		fsPath := filepath.Join(sourceRoot, filepath.FromSlash(e.Path))
		rebuilt, err := pre.process(e, fsPath, plan)
		if err != nil {
			return BuildResult{}, err
		}
		if rebuilt {
			rebuiltCount++
			opts.Logger.Debugf("rebuilt %s", e.Path)
		} else {
			opts.Logger.Debugf("reused cache for %s", e.Path)
		}
	}

	for _, e := range entries {
		if e.Kind != KindDirectory {
			continue
		}

		plan, err := engine.Resolve(e.Path)
		if err != nil {
			return BuildResult{}, err
		}
		e.Cache = plan.Cache
		e.Discard = plan.Discard
	}

	result := BuildResult{RebuiltEntries: rebuiltCount, Duration: time.Since(start)}

	if !cleanedCache && rebuiltCount == 0 && prior.Options == pre.state.Options &&
		sameFileExists(outPath) && outputIsCurrent(outPath, buildDir) {
		opts.Logger.Info("nothing to rebuild, image is up to date")
		result.SkippedBuild = true

		return result, nil
	}

	if opts.DryRun {
		opts.Logger.Info("dry run: skipping state and image writes")
		result.SkippedBuild = true

		return result, nil
	}

	image, imgResult, err := assembleImage(entries, opts)
	if err != nil {
		return BuildResult{}, err
	}
	imgResult.RebuiltEntries = rebuiltCount
	imgResult.Duration = time.Since(start)

	// The state file is saved first so the output image, written last, is
	// always the more recently modified of the two: that is what the
	// short-circuit's mtime check relies on to detect a stale image.
	if err := pre.state.save(buildDir); err != nil {
		return BuildResult{}, err
	}

	if err := writeImageAtomic(outPath, image); err != nil {
		return BuildResult{}, err
	}

	opts.Logger.Infof("wrote %s: %d entries, %d bytes, %d rebuilt", outPath, imgResult.WrittenEntries, len(image), rebuiltCount)

	return imgResult, nil
}

// sameFileExists reports whether path already exists as a regular file.
func sameFileExists(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}

// outputIsCurrent reports whether outPath's image is at least as new as the
// state file under buildDir, the condition the short-circuit needs to trust
// the existing image still reflects the last saved state. A missing state
// file (first build, or a wiped build dir) is never current.
func outputIsCurrent(outPath, buildDir string) bool {
	outInfo, err := os.Stat(outPath)
	if err != nil {
		return false
	}

	stateInfo, err := os.Stat(stateFilePath(buildDir))
	if err != nil {
		return false
	}

	return !outInfo.ModTime().Before(stateInfo.ModTime())
}

// writeImageAtomic writes data to a temp file beside path and renames it
// into place, so a crash or interrupted build never leaves a half-written
// image. On any failure the temp file is removed.
func writeImageAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write output file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("sync output file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close output file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("commit output file: %w", err)
	}

	return nil
}
