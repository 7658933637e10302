// SPDX-License-Identifier: MIT
// Copyright (c) 2026 FrogFS authors
// Source: github.com/frogfs/mkfrogfs

package frogfs

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads and parses a FrogFS filter config file into an ordered
// list of FilterRule, ready for NewRuleEngine.
func LoadConfig(path string) ([]FilterRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML config bytes into an ordered list of FilterRule.
// The document must have a top-level "filters" mapping. Each value may be:
//   - a bare string naming a verb ("cache", "discard", "no compress", ...)
//   - a single-key mapping whose key is that same verb string and whose
//     value is its argument mapping ("compress deflate: {level: 9}")
//   - a sequence of either of the above, applied in the order written
func ParseConfig(data []byte) ([]FilterRule, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse config: top-level document must be a mapping")
	}

	var rules []FilterRule
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i]
		val := root.Content[i+1]
		if key.Value != "filters" {
			continue
		}

		parsed, err := parseFiltersNode(val)
		if err != nil {
			return nil, err
		}
		rules = append(rules, parsed...)
	}

	return rules, nil
}

// parseFiltersNode walks the "filters" mapping in document order, producing
// one FilterRule per pattern/verb pair.
func parseFiltersNode(node *yaml.Node) ([]FilterRule, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse config: %q: expected mapping", "filters")
	}

	var rules []FilterRule
	for i := 0; i+1 < len(node.Content); i += 2 {
		pattern := node.Content[i].Value
		actions, err := parseActionsNode(node.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("parse config: pattern %q: %w", pattern, err)
		}

		for _, action := range actions {
			rules = append(rules, FilterRule{Pattern: pattern, Action: action})
		}
	}

	return rules, nil
}

// parseActionsNode normalizes one filters-value node (bare string, mapping,
// or sequence thereof) into one or more FilterAction values.
func parseActionsNode(node *yaml.Node) ([]FilterAction, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		action, err := parseActionString(node.Value)
		if err != nil {
			return nil, err
		}

		return []FilterAction{action}, nil
	case yaml.MappingNode:
		action, err := parseActionMapping(node)
		if err != nil {
			return nil, err
		}

		return []FilterAction{action}, nil
	case yaml.SequenceNode:
		var actions []FilterAction
		for _, item := range node.Content {
			parsed, err := parseActionsNode(item)
			if err != nil {
				return nil, err
			}
			actions = append(actions, parsed...)
		}

		return actions, nil
	default:
		return nil, fmt.Errorf("unsupported action node kind %v", node.Kind)
	}
}

// parseActionString normalizes a bare verb string like "cache", "discard",
// "no cache", or "compress deflate" into a FilterAction.
func parseActionString(s string) (FilterAction, error) {
	negate := false
	fields := splitFields(s)
	if len(fields) == 0 {
		return FilterAction{}, fmt.Errorf("%w: empty action", ErrUnknownVerb)
	}

	if fields[0] == "no" {
		negate = true
		fields = fields[1:]
	}
	if len(fields) == 0 {
		return FilterAction{}, fmt.Errorf("%w: empty action", ErrUnknownVerb)
	}

	verb := ActionVerb(fields[0])
	name := ""
	if len(fields) > 1 {
		name = fields[1]
	}

	switch verb {
	case VerbCache, VerbDiscard, VerbCompress, VerbTransform:
	default:
		return FilterAction{}, fmt.Errorf("%w: %q", ErrUnknownVerb, verb)
	}

	return FilterAction{Verb: verb, Negate: negate, Name: name}, nil
}

// parseActionMapping reads a single-key mapping action: the key is a verb
// string in the same form parseActionString accepts ("compress deflate",
// "no cache", "transform minify", ...), and the value is that verb's
// argument mapping:
//
//	compress deflate: {level: "9"}
func parseActionMapping(node *yaml.Node) (FilterAction, error) {
	if len(node.Content) != 2 {
		return FilterAction{}, fmt.Errorf("%w: action mapping must have exactly one key", ErrUnknownVerb)
	}

	action, err := parseActionString(node.Content[0].Value)
	if err != nil {
		return FilterAction{}, err
	}

	argsNode := node.Content[1]
	if argsNode.Kind == yaml.MappingNode {
		args := make(map[string]string)
		for j := 0; j+1 < len(argsNode.Content); j += 2 {
			args[argsNode.Content[j].Value] = argsNode.Content[j+1].Value
		}
		action.Args = args
	}

	return action, nil
}

// splitFields splits s on ASCII spaces, dropping empty fields.
func splitFields(s string) []string {
	var fields []string
	start := -1
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] != ' ' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			fields = append(fields, s[start:i])
			start = -1
		}
	}

	return fields
}
