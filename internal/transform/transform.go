// SPDX-License-Identifier: MIT
// Copyright (c) 2026 FrogFS authors
// Source: github.com/frogfs/mkfrogfs

// Package transform drives external transform-<name> scripts as
// subprocesses, piping an entry's bytes through stdin/stdout.
package transform

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
)

// ErrNotFound means no transform-<name> script exists in any search directory.
var ErrNotFound = errors.New("transform not found")

// ErrInterpreterNotFound means a script's extension has no known interpreter.
var ErrInterpreterNotFound = errors.New("interpreter not found")

// interpreterByExt maps a script file extension to the interpreter binary
// that runs it.
var interpreterByExt = map[string]string{
	".py": "python3",
	".js": "node",
}

// Driver locates and runs transform-<name> scripts from a fixed set of
// search directories.
type Driver struct {
	searchDirs []string
}

// NewDriver returns a Driver that searches dirs, in order, for
// transform-<name>.* scripts. Empty or duplicate directories are ignored.
func NewDriver(dirs ...string) *Driver {
	seen := make(map[string]bool)
	var clean []string
	for _, d := range dirs {
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		clean = append(clean, d)
	}

	return &Driver{searchDirs: clean}
}

// Run locates transform-<name> and pipes input through it, passing args as
// command-line flags: multi-character keys become "--key value",
// single-character keys become "-k value", and an empty-string value is
// passed as a bare flag with no value.
func (d *Driver) Run(name string, input []byte, args map[string]string) ([]byte, error) {
	script, err := d.locate(name)
	if err != nil {
		return nil, err
	}

	interpreter, argv, err := commandFor(script)
	if err != nil {
		return nil, err
	}
	argv = append(argv, flagsFor(args)...)

	cmd := exec.Command(interpreter, argv...)
	cmd.Stdin = bytes.NewReader(input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("transform %q: %w: %s", name, err, stderr.String())
	}

	return stdout.Bytes(), nil
}

// locate searches d's directories, in order, for a transform-<name> script,
// trying each extension in interpreterByExt plus an extension-less,
// directly-executable form.
func (d *Driver) locate(name string) (string, error) {
	candidates := []string{"transform-" + name}
	for ext := range interpreterByExt {
		candidates = append(candidates, "transform-"+name+ext)
	}
	sort.Strings(candidates)

	for _, dir := range d.searchDirs {
		for _, candidate := range candidates {
			full := filepath.Join(dir, candidate)
			if info, err := os.Stat(full); err == nil && !info.IsDir() {
				return full, nil
			}
		}
	}

	return "", fmt.Errorf("%w: %q", ErrNotFound, name)
}

// commandFor returns the interpreter (or the script itself, if directly
// executable) and its leading argv for running script.
func commandFor(script string) (string, []string, error) {
	ext := filepath.Ext(script)
	if ext == "" {
		return script, nil, nil
	}

	interpreter, ok := interpreterByExt[ext]
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrInterpreterNotFound, ext)
	}

	return interpreter, []string{script}, nil
}

// flagsFor renders args as sorted command-line flags, so a given argument
// map always produces the same argv (and thus the same cache key).
func flagsFor(args map[string]string) []string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var flags []string
	for _, k := range keys {
		flag := "--" + k
		if len(k) == 1 {
			flag = "-" + k
		}

		v := args[k]
		if v == "" {
			flags = append(flags, flag)
			continue
		}
		flags = append(flags, flag, v)
	}

	return flags
}
