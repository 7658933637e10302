// SPDX-License-Identifier: MIT
// Copyright (c) 2026 FrogFS authors
// Source: github.com/frogfs/mkfrogfs

package frogfs

import (
	"fmt"
	"sort"
)

// assembledEntry bundles an Entry with everything the assembler needs to
// place it in the image.
type assembledEntry struct {
	entry      *Entry
	header     []byte
	data       []byte
	compressor CompressorID
}

// assembleImage lays out entries into one binary FrogFS image:
// [header][hash table][entry headers][entry data][CRC-32 footer], with
// every header_offset and data_offset independently a multiple of align.
func assembleImage(entries []*Entry, opts BuildOptions) ([]byte, BuildResult, error) {
	align := opts.Align

	included := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		if e.Discard {
			continue
		}
		if e.Kind == KindDirectory && !opts.Dirs {
			continue
		}
		included = append(included, e)
	}

	// An empty (or fully discarded) entry set is a valid image: num_objs=0,
	// an empty hash table, no entries, and a CRC footer over that shell.
	assembled, result, err := buildAssembledEntries(included, opts)
	if err != nil {
		return nil, BuildResult{}, err
	}

	flags := uint8(0)
	if opts.Dirs {
		flags |= flagDirs
	}

	// Pass 1: place the fixed header and hash table.
	cursor := alignUp(headerStructSz, align)
	hashTableOffset := cursor
	hashTableLen := len(assembled) * hashEntrySz
	cursor = alignUp(cursor+hashTableLen, align)

	// Pass 2: place entry headers, recording each header_offset.
	for _, a := range assembled {
		cursor = alignUp(cursor, align)
		a.entry.HeaderOffset = uint32(cursor)
		cursor += len(a.header)
	}

	// Pass 3: place entry data, recording each data_offset.
	for _, a := range assembled {
		if a.entry.Kind != KindFile {
			continue
		}
		cursor = alignUp(cursor, align)
		a.entry.DataOffset = uint32(cursor)
		cursor += len(a.data)
	}

	if err := patchDirectoryChildren(assembled); err != nil {
		return nil, BuildResult{}, err
	}

	buf := make([]byte, 0, cursor+footerSz)
	buf = append(buf, encodeHeader(uint32(cursor), uint16(len(assembled)), uint8(align), flags)...)
	buf = padTo(buf, align)

	buf = append(buf, hashTableBytes(assembled)...)
	buf = padTo(buf, align)

	for _, a := range assembled {
		buf = padTo(buf, align)
		if len(buf) != int(a.entry.HeaderOffset) {
			return nil, BuildResult{}, fmt.Errorf("internal error: header offset mismatch for %q", a.entry.Path)
		}
		buf = append(buf, a.header...)
	}

	for _, a := range assembled {
		if a.entry.Kind != KindFile {
			continue
		}
		buf = padTo(buf, align)
		if len(buf) != int(a.entry.DataOffset) {
			return nil, BuildResult{}, fmt.Errorf("internal error: data offset mismatch for %q", a.entry.Path)
		}
		buf = append(buf, a.data...)
	}

	footer := crcIEEE(buf)
	footerBuf := make([]byte, footerSz)
	footerBuf[0] = byte(footer)
	footerBuf[1] = byte(footer >> 8)
	footerBuf[2] = byte(footer >> 16)
	footerBuf[3] = byte(footer >> 24)
	buf = append(buf, footerBuf...)

	result.HeaderSize = int64(hashTableOffset)
	result.DataSize = int64(cursor)

	for _, a := range assembled {
		if opts.OnEntryDone != nil {
			opts.OnEntryDone(EntryProgress{
				Path:           a.entry.Path,
				Kind:           a.entry.Kind,
				Compressor:     compressorName(a.compressor),
				DataSize:       a.entry.DataSize,
				ExpandedSize:   a.entry.ExpandedSize,
				CompressionHit: a.compressor != CompressorNone,
			})
		}
	}

	return buf, result, nil
}

// buildAssembledEntries compresses file payloads (accepting only strictly
// smaller results) and encodes every entry's header.
func buildAssembledEntries(entries []*Entry, opts BuildOptions) ([]*assembledEntry, BuildResult, error) {
	assembled := make([]*assembledEntry, 0, len(entries))
	var result BuildResult

	for _, e := range entries {
		if e.Kind == KindDirectory {
			header, err := encodeDirHeader(e.Path, len(visibleChildren(e, opts)))
			if err != nil {
				return nil, BuildResult{}, err
			}
			e.HeaderBytes = header
			assembled = append(assembled, &assembledEntry{entry: e, header: header})
			continue
		}

		data := e.Data
		id := CompressorID(CompressorNone)
		expanded := uint32(0)
		var options uint8

		if e.Compressor != nil {
			cid, err := compressorIDByName(e.Compressor.Name)
			if err != nil {
				return nil, BuildResult{}, err
			}

			out, accepted, codecOptions, err := compress(cid, e.Data, e.Compressor.Args)
			if err != nil {
				return nil, BuildResult{}, err
			}
			if accepted {
				result.CompressionSavedBytes += int64(len(e.Data) - len(out))
				expanded = uint32(len(e.Data))
				data = out
				id = cid
				options = codecOptions
			} else {
				opts.Logger.Infof("compression skipped for %s: %s output not smaller than input", e.Path, e.Compressor.Name)
			}
		}

		e.ExpandedSize = expanded
		e.HasExpandedSize = id != CompressorNone
		e.DataSize = uint32(len(data))

		var header []byte
		var err error
		if id == CompressorNone {
			header, err = encodeFileHeader(e.Path, e.DataSize)
		} else {
			header, err = encodeCompressedFileHeader(e.Path, e.DataSize, id, options, expanded)
		}
		if err != nil {
			return nil, BuildResult{}, err
		}
		e.HeaderBytes = header

		assembled = append(assembled, &assembledEntry{entry: e, header: header, data: data, compressor: id})
		result.WrittenEntries++
	}

	return assembled, result, nil
}

// visibleChildren returns e's children that will actually appear in the
// image (directories are included only when opts.Dirs is set; discarded
// entries never appear).
func visibleChildren(e *Entry, opts BuildOptions) []*Entry {
	var out []*Entry
	for _, c := range e.Children {
		if c.Discard {
			continue
		}
		if c.Kind == KindDirectory && !opts.Dirs {
			continue
		}
		out = append(out, c)
	}

	return out
}

// patchDirectoryChildren fills in each directory header's child-offset
// array with the finalized header_offset of each visible child, in
// collected (lexicographic) order.
func patchDirectoryChildren(assembled []*assembledEntry) error {
	byPath := make(map[string]*assembledEntry, len(assembled))
	for _, a := range assembled {
		byPath[a.entry.Path] = a
	}

	for _, a := range assembled {
		if a.entry.Kind != KindDirectory {
			continue
		}

		pathLen := len(a.entry.Path)
		idx := 0
		for _, child := range a.entry.Children {
			childAssembled, ok := byPath[child.Path]
			if !ok {
				continue
			}
			if idx*4+dirHeaderSz+pathLen+1+4 > len(a.header) {
				return fmt.Errorf("internal error: child offset array overflow for %q", a.entry.Path)
			}
			patchDirChild(a.header, pathLen, idx, childAssembled.entry.HeaderOffset)
			idx++
		}
	}

	return nil
}

// hashTableBytes builds the hash table region, sorted ascending by hash
// and then by path to break ties deterministically.
func hashTableBytes(assembled []*assembledEntry) []byte {
	rows := make([]*assembledEntry, len(assembled))
	copy(rows, assembled)
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].entry.Hash != rows[j].entry.Hash {
			return rows[i].entry.Hash < rows[j].entry.Hash
		}

		return rows[i].entry.Path < rows[j].entry.Path
	})

	buf := make([]byte, 0, len(rows)*hashEntrySz)
	for _, a := range rows {
		buf = append(buf, encodeHashEntry(a.entry.Hash, a.entry.HeaderOffset)...)
	}

	return buf
}

// compressorName renders a CompressorID as its configured name, for
// progress reporting.
func compressorName(id CompressorID) string {
	switch id {
	case CompressorDeflate:
		return "deflate"
	case CompressorHeatshrink:
		return "heatshrink"
	default:
		return ""
	}
}
