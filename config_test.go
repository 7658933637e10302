// SPDX-License-Identifier: MIT
// Copyright (c) 2026 FrogFS authors
// Source: github.com/frogfs/mkfrogfs

package frogfs

import "testing"

func TestParseConfig_PreservesDeclarationOrder(t *testing.T) {
	t.Parallel()

	data := []byte(`
filters:
  "**/*.tmp": discard
  "**/*.png": compress deflate
  "**/*.bin":
    compress heatshrink:
      window: "8"
  "vendor/**":
    no transform minify:
`)

	rules, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}

	wantPatterns := []string{"**/*.tmp", "**/*.png", "**/*.bin", "vendor/**"}
	if len(rules) != len(wantPatterns) {
		t.Fatalf("len(rules)=%d, want %d", len(rules), len(wantPatterns))
	}
	for i, pattern := range wantPatterns {
		if rules[i].Pattern != pattern {
			t.Fatalf("rules[%d].Pattern=%q, want %q (order not preserved)", i, rules[i].Pattern, pattern)
		}
	}

	if rules[2].Action.Args["window"] != "8" {
		t.Fatalf("compress rule args=%+v, want window=8", rules[2].Action.Args)
	}
	if !rules[3].Action.Negate || rules[3].Action.Verb != VerbTransform {
		t.Fatalf("expected negated transform rule, got %+v", rules[3].Action)
	}
}

func TestParseConfig_BareStringVerbs(t *testing.T) {
	t.Parallel()

	rules, err := ParseConfig([]byte(`
filters:
  "*.log": no cache
`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("len(rules)=%d, want 1", len(rules))
	}
	if rules[0].Action.Verb != VerbCache || !rules[0].Action.Negate {
		t.Fatalf("rules[0].Action=%+v, want negated cache", rules[0].Action)
	}
}

func TestParseConfig_SequenceOfActions(t *testing.T) {
	t.Parallel()

	rules, err := ParseConfig([]byte(`
filters:
  "*.js":
    - transform minify
    - compress deflate
`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("len(rules)=%d, want 2", len(rules))
	}
	if rules[0].Action.Verb != VerbTransform || rules[1].Action.Verb != VerbCompress {
		t.Fatalf("rules=%+v, want [transform, compress]", rules)
	}
}

func TestParseConfig_EmptyDocument(t *testing.T) {
	t.Parallel()

	rules, err := ParseConfig([]byte(``))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if rules != nil {
		t.Fatalf("rules=%+v, want nil", rules)
	}
}
