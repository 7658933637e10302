// SPDX-License-Identifier: MIT
// Copyright (c) 2026 FrogFS authors
// Source: github.com/frogfs/mkfrogfs

package frogfs

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Internal binary layout constants for the on-disk image format.
const (
	magic          uint32 = 0x474F5246 // "FROG"
	verMajor       uint16 = 1
	verMinor       uint16 = 0
	headerStructSz int    = 16 // <IBBHIHBB>: magic,header_len,ver_major,ver_minor,binary_len,num_objs,align,flags
	hashEntrySz    int    = 8  // <II>: hash, offset
	fileHeaderSz   int    = 9  // <BBHIB>: len,type,path_len,data_len,compression
	fileCompHdrSz  int    = 16 // <BBHIBBHI>: + options,reserved,expanded_len
	dirHeaderSz    int    = 6  // <BBHH>: len,type,path_len,child_count
	footerSz       int    = 4
	flagDirs       uint8  = 1 << 0
	entryTypeFile  uint8  = 0
	entryTypeDir   uint8  = 1
)

// EntryKind distinguishes file entries from directory entries.
type EntryKind uint8

// Entry kinds recognized by the rule engine and object encoder.
const (
	KindFile EntryKind = iota
	KindDirectory
)

// String renders the entry kind for logging.
func (k EntryKind) String() string {
	if k == KindDirectory {
		return "directory"
	}

	return "file"
}

// TransformSpec names one transform step and its arguments, in the order it
// must run.
type TransformSpec struct {
	Name string            `json:"name" yaml:"name"`
	Args map[string]string `json:"args,omitempty" yaml:"args,omitempty"`
}

// CompressorSpec names the chosen compressor and its arguments.
type CompressorSpec struct {
	Name string            `json:"name" yaml:"name"`
	Args map[string]string `json:"args,omitempty" yaml:"args,omitempty"`
}

// Entry is a single path in the source tree, annotated by the rule engine,
// mutated by the preprocess orchestrator, and finalized by the object
// encoder and assembler.
type Entry struct {
	// Path is the forward-slash relative path from the source root; "" for root.
	Path string
	// Segment is the last path component.
	Segment string
	// Kind is file or directory.
	Kind EntryKind
	// Hash is the DJB2 hash of Path.
	Hash uint32

	// Transforms is the ordered list of transform steps to apply (files only).
	Transforms []TransformSpec
	// Compressor is the chosen compressor, or nil (files only).
	Compressor *CompressorSpec
	// Cache reports whether cached artifacts may be reused for this entry.
	Cache bool
	// Discard excludes the entry from the built image.
	Discard bool

	// HasExpandedSize reports whether ExpandedSize is meaningful.
	HasExpandedSize bool
	// ExpandedSize is the post-transform, pre-compression size, present only
	// when compression was applied and accepted.
	ExpandedSize uint32
	// MTime is the source file's modification time as recorded when its
	// cached artifact was last built.
	MTime time.Time

	// Data holds the final post-preprocess bytes for a file entry, loaded
	// from the cache by the preprocess orchestrator.
	Data []byte

	// Children lists the directory's immediate children in collected
	// (lexicographic) order. Directory entries only.
	Children []*Entry

	// Layout fields, populated by the object encoder and image assembler.
	HeaderBytes  []byte
	DataSize     uint32
	HeaderOffset uint32
	DataOffset   uint32
}

// EntryProgress is reported once per finalized entry during assembly.
type EntryProgress struct {
	Path           string
	Kind           EntryKind
	Rebuilt        bool
	Compressor     string
	DataSize       uint32
	ExpandedSize   uint32
	CompressionHit bool
}

// BuildOptions configures a FrogFS build.
type BuildOptions struct {
	// Rules are the ordered filter rules driving the action plan for each path.
	Rules []FilterRule
	// Align is the record alignment (1-255); zero means DefaultAlign.
	Align int
	// Dirs controls whether directory entries are emitted in the image and
	// whether the DIRS flag bit is set.
	Dirs bool
	// BuildDir locates the cache directory and state file; zero value uses
	// the output image's directory.
	BuildDir string
	// ToolDir is searched for transform-<name> scripts first, before the
	// source root and the current working directory.
	ToolDir string
	// OnEntryDone is called once per finalized entry during assembly.
	OnEntryDone func(EntryProgress)
	// DryRun writes neither the state file nor the image. Rule resolution,
	// staleness detection, transforms and the cache directory refresh
	// (writing stale artifacts, removing orphaned ones) still run as in a
	// normal build.
	DryRun bool
	// Logger receives structured build progress; nil uses logrus's standard logger.
	Logger *logrus.Logger
}

// BuildResult summarizes one build run.
type BuildResult struct {
	WrittenEntries        int
	RebuiltEntries        int
	DataSize              int64
	HeaderSize            int64
	CompressionSavedBytes int64
	SkippedBuild          bool
	Duration              time.Duration
}

// applyDefaults fills zero-valued build options with defaults.
func (o *BuildOptions) applyDefaults() error {
	if o.Align == 0 {
		o.Align = DefaultAlign
	}
	if err := validateAlign(o.Align); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}

	return nil
}
