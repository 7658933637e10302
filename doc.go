// SPDX-License-Identifier: MIT
// Copyright (c) 2026 FrogFS authors
// Source: github.com/frogfs/mkfrogfs

/*
Package frogfs builds FrogFS images: single binary blobs that pack a
directory tree into a read-only, content-addressed filesystem meant to be
embedded in firmware. It is a build-time tool, not a runtime mount layer;
it produces the image, and reading it back on-device is out of scope.

Building (summary):
  - paths are matched against an ordered set of filter rules (cache,
    discard, compress, transform, each optionally negated with "no");
  - matching rules are resolved into a per-path ActionPlan;
  - file content is transformed (external subprocess scripts) and
    compressed (deflate or heatshrink) according to that plan;
  - already up-to-date artifacts are reused from an on-disk cache, keyed on
    the path's resolved plan and source mtime;
  - every entry is packed into one image: a hash table for name lookup,
    then entry headers, then entry data, then a CRC-32 footer.

# Building from Go

	rules, err := frogfs.LoadConfig("frogfs_config.yaml")
	if err != nil {
	    return err
	}
	result, err := frogfs.Build("data/", "frogfs.bin", frogfs.BuildOptions{
	    Rules: rules,
	    Align: 4,
	    Dirs:  true,
	    OnEntryDone: func(p frogfs.EntryProgress) {
	        // progress callback per finalized entry
	    },
	})
	if err != nil {
	    return err
	}
	_ = result.CompressionSavedBytes

# Metadata-only inspection

For build tooling that wants size reports without mounting the image:

	header, err := frogfs.ReadHeader("frogfs.bin")
	if err != nil {
	    return err
	}
	entries, err := frogfs.ListEntries("frogfs.bin")
	if err != nil {
	    return err
	}
	_, _ = header, entries

# Configuring filter rules

Rules are normally loaded from YAML, preserving declaration order: later
matching rules refine earlier ones.

	rules, err := frogfs.ParseConfig(configBytes)
	if err != nil {
	    return err
	}
	engine, err := frogfs.NewRuleEngine(rules)
	if err != nil {
	    return err
	}
	plan, err := engine.Resolve("assets/logo.png")
	if err != nil {
	    return err
	}
	_ = plan.Compressor

# Dry runs

	result, err := frogfs.Build("data/", "frogfs.bin", frogfs.BuildOptions{
	    Rules:  rules,
	    DryRun: true,
	})
	if err != nil {
	    return err
	}
	_ = result.SkippedBuild
*/
package frogfs
