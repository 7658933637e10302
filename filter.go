// SPDX-License-Identifier: MIT
// Copyright (c) 2026 FrogFS authors
// Source: github.com/frogfs/mkfrogfs

package frogfs

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// ActionVerb names one of the four stackable rule verbs.
type ActionVerb string

// Recognized action verbs.
const (
	VerbCache     ActionVerb = "cache"
	VerbDiscard   ActionVerb = "discard"
	VerbCompress  ActionVerb = "compress"
	VerbTransform ActionVerb = "transform"
)

// FilterAction is one verb application, optionally negated with "no".
type FilterAction struct {
	Verb   ActionVerb        `yaml:"verb"`
	Negate bool              `yaml:"negate,omitempty"`
	Name   string            `yaml:"name,omitempty"` // compressor or transform name
	Args   map[string]string `yaml:"args,omitempty"`
}

// FilterRule pairs a glob pattern with the action it triggers on match.
// Rules are evaluated in declaration order; later matches refine earlier ones.
type FilterRule struct {
	Pattern string       `yaml:"pattern"`
	Action  FilterAction `yaml:"action"`
}

// ActionPlan is the resolved, cumulative effect of every rule matching one
// entry path, in declaration order.
type ActionPlan struct {
	Cache      bool
	Discard    bool
	Compressor *CompressorSpec
	Transforms []TransformSpec
}

// RuleEngine matches an ordered list of FilterRule against entry paths and
// resolves an ActionPlan per path.
type RuleEngine struct {
	rules []FilterRule
}

// NewRuleEngine validates rules and returns a RuleEngine that can resolve
// plans against them. Rules with an unrecognized verb or a pattern that
// fails to compile are rejected up front.
func NewRuleEngine(rules []FilterRule) (*RuleEngine, error) {
	for _, rule := range rules {
		if !doublestar.ValidatePattern(rule.Pattern) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, rule.Pattern)
		}

		switch rule.Action.Verb {
		case VerbCache, VerbDiscard, VerbCompress, VerbTransform:
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownVerb, rule.Action.Verb)
		}
	}

	return &RuleEngine{rules: rules}, nil
}

// Resolve returns the ActionPlan for entryPath: cache defaults true, discard
// defaults false, compress and transform default to none. Later matching
// rules override cache/discard, the first matching un-negated "compress"
// wins (a later "no compress" clears it and re-opens the slot for a
// subsequent "compress" match), and "transform" rules accumulate in match
// order while "no transform <name>" removes a prior occurrence.
func (e *RuleEngine) Resolve(entryPath string) (ActionPlan, error) {
	plan := ActionPlan{Cache: true}
	matchPath := normalizePathForMatching(entryPath)

	for _, rule := range e.rules {
		matched, err := doublestar.Match(rule.Pattern, matchPath)
		if err != nil {
			return ActionPlan{}, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, rule.Pattern, err)
		}
		if !matched {
			continue
		}

		switch rule.Action.Verb {
		case VerbCache:
			plan.Cache = !rule.Action.Negate
		case VerbDiscard:
			plan.Discard = !rule.Action.Negate
		case VerbCompress:
			if rule.Action.Negate {
				plan.Compressor = nil
				continue
			}
			if plan.Compressor == nil {
				plan.Compressor = &CompressorSpec{Name: rule.Action.Name, Args: rule.Action.Args}
			}
		case VerbTransform:
			if rule.Action.Negate {
				plan.Transforms = removeTransform(plan.Transforms, rule.Action.Name)
				continue
			}
			plan.Transforms = appendTransformIfAbsent(plan.Transforms, TransformSpec{
				Name: rule.Action.Name,
				Args: rule.Action.Args,
			})
		default:
			return ActionPlan{}, fmt.Errorf("%w: %q", ErrUnknownVerb, rule.Action.Verb)
		}
	}

	return plan, nil
}

// removeTransform returns transforms with any step named name removed.
func removeTransform(transforms []TransformSpec, name string) []TransformSpec {
	out := make([]TransformSpec, 0, len(transforms))
	for _, t := range transforms {
		if t.Name == name {
			continue
		}
		out = append(out, t)
	}

	return out
}

// appendTransformIfAbsent appends spec unless a step with the same name is
// already present, preserving first-match ordering.
func appendTransformIfAbsent(transforms []TransformSpec, spec TransformSpec) []TransformSpec {
	for _, t := range transforms {
		if t.Name == spec.Name {
			return transforms
		}
	}

	return append(transforms, spec)
}
