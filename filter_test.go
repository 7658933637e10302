// SPDX-License-Identifier: MIT
// Copyright (c) 2026 FrogFS authors
// Source: github.com/frogfs/mkfrogfs

package frogfs

import (
	"errors"
	"testing"
)

func TestRuleEngineResolve_CacheDiscardDefaults(t *testing.T) {
	t.Parallel()

	engine, err := NewRuleEngine(nil)
	if err != nil {
		t.Fatalf("NewRuleEngine: %v", err)
	}

	plan, err := engine.Resolve("any/path.txt")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !plan.Cache {
		t.Fatalf("expected Cache=true by default")
	}
	if plan.Discard {
		t.Fatalf("expected Discard=false by default")
	}
	if plan.Compressor != nil {
		t.Fatalf("expected no compressor by default")
	}
}

func TestRuleEngineResolve_DiscardAndNegate(t *testing.T) {
	t.Parallel()

	rules := []FilterRule{
		{Pattern: "**/*.tmp", Action: FilterAction{Verb: VerbDiscard}},
		{Pattern: "keep.tmp", Action: FilterAction{Verb: VerbDiscard, Negate: true}},
	}
	engine, err := NewRuleEngine(rules)
	if err != nil {
		t.Fatalf("NewRuleEngine: %v", err)
	}

	testCases := []struct {
		path string
		want bool
	}{
		{path: "a/scratch.tmp", want: true},
		{path: "keep.tmp", want: false},
		{path: "a/b/keep.tmp", want: true}, // only the exact top-level pattern is un-negated
	}

	for _, tc := range testCases {
		plan, err := engine.Resolve(tc.path)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", tc.path, err)
		}
		if plan.Discard != tc.want {
			t.Fatalf("Resolve(%q).Discard=%v, want %v", tc.path, plan.Discard, tc.want)
		}
	}
}

func TestRuleEngineResolve_FirstCompressWins(t *testing.T) {
	t.Parallel()

	rules := []FilterRule{
		{Pattern: "**/*.bin", Action: FilterAction{Verb: VerbCompress, Name: "heatshrink"}},
		{Pattern: "**/*.bin", Action: FilterAction{Verb: VerbCompress, Name: "deflate"}},
	}
	engine, err := NewRuleEngine(rules)
	if err != nil {
		t.Fatalf("NewRuleEngine: %v", err)
	}

	plan, err := engine.Resolve("models/a.bin")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if plan.Compressor == nil || plan.Compressor.Name != "heatshrink" {
		t.Fatalf("Compressor=%+v, want heatshrink (first match wins)", plan.Compressor)
	}
}

func TestRuleEngineResolve_NoCompressReopensSlot(t *testing.T) {
	t.Parallel()

	rules := []FilterRule{
		{Pattern: "**/*.bin", Action: FilterAction{Verb: VerbCompress, Name: "heatshrink"}},
		{Pattern: "special.bin", Action: FilterAction{Verb: VerbCompress, Negate: true}},
		{Pattern: "special.bin", Action: FilterAction{Verb: VerbCompress, Name: "deflate"}},
	}
	engine, err := NewRuleEngine(rules)
	if err != nil {
		t.Fatalf("NewRuleEngine: %v", err)
	}

	plan, err := engine.Resolve("special.bin")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if plan.Compressor == nil || plan.Compressor.Name != "deflate" {
		t.Fatalf("Compressor=%+v, want deflate", plan.Compressor)
	}
}

func TestRuleEngineResolve_TransformDedupAndRemoval(t *testing.T) {
	t.Parallel()

	rules := []FilterRule{
		{Pattern: "**/*.js", Action: FilterAction{Verb: VerbTransform, Name: "minify"}},
		{Pattern: "**/*.js", Action: FilterAction{Verb: VerbTransform, Name: "minify"}},
		{Pattern: "**/*.js", Action: FilterAction{Verb: VerbTransform, Name: "gzip-level"}},
		{Pattern: "vendor/**", Action: FilterAction{Verb: VerbTransform, Name: "minify", Negate: true}},
	}
	engine, err := NewRuleEngine(rules)
	if err != nil {
		t.Fatalf("NewRuleEngine: %v", err)
	}

	plan, err := engine.Resolve("app/main.js")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(plan.Transforms) != 2 {
		t.Fatalf("len(Transforms)=%d, want 2 (deduped)", len(plan.Transforms))
	}

	vendorPlan, err := engine.Resolve("vendor/lib.js")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(vendorPlan.Transforms) != 1 || vendorPlan.Transforms[0].Name != "gzip-level" {
		t.Fatalf("Transforms=%+v, want only gzip-level after minify removal", vendorPlan.Transforms)
	}
}

func TestNewRuleEngine_UnknownVerb(t *testing.T) {
	t.Parallel()

	_, err := NewRuleEngine([]FilterRule{
		{Pattern: "*", Action: FilterAction{Verb: "frobnicate"}},
	})
	if !errors.Is(err, ErrUnknownVerb) {
		t.Fatalf("expected ErrUnknownVerb, got %v", err)
	}
}

func TestNewRuleEngine_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := NewRuleEngine([]FilterRule{
		{Pattern: "[", Action: FilterAction{Verb: VerbCache}},
	})
	if !errors.Is(err, ErrInvalidPattern) {
		t.Fatalf("expected ErrInvalidPattern, got %v", err)
	}
}
