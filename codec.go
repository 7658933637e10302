// SPDX-License-Identifier: MIT
// Copyright (c) 2026 FrogFS authors
// Source: github.com/frogfs/mkfrogfs

package frogfs

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/klauspost/compress/zlib"
	"github.com/woozymasta/lzss"
)

// CompressorID is the one-byte on-disk compression marker stored in the
// file header's "compression" field.
type CompressorID uint8

// Compression markers.
const (
	CompressorNone       CompressorID = 0
	CompressorDeflate    CompressorID = 1
	CompressorHeatshrink CompressorID = 2
)

// Per-compressor argument bounds and defaults.
const (
	deflateLevelDefault = 9
	deflateLevelMin     = 0
	deflateLevelMax     = 9

	heatshrinkWindowDefault    = 11
	heatshrinkWindowMin        = 4
	heatshrinkWindowMax        = 14
	heatshrinkLookaheadDefault = 4
	heatshrinkLookaheadMin     = 3
	heatshrinkLookaheadMax     = 13
)

// compressorIDByName resolves a configured compressor name to its on-disk
// marker.
func compressorIDByName(name string) (CompressorID, error) {
	switch name {
	case "deflate":
		return CompressorDeflate, nil
	case "heatshrink":
		return CompressorHeatshrink, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCompressor, name)
	}
}

// compress applies the named compressor to data and reports whether the
// result was accepted: only when it is strictly smaller than the input,
// otherwise the caller must fall back to storing data uncompressed. args
// carries the rule-configured parameters ("level", "window", "lookahead");
// options is the byte to record in the on-disk header so a reader can
// reconstruct those same parameters.
func compress(id CompressorID, data []byte, args map[string]string) (compressed []byte, accepted bool, options uint8, err error) {
	switch id {
	case CompressorDeflate:
		level := deflateLevel(args)
		out, err := compressDeflate(data, level)
		if err != nil {
			return nil, false, 0, err
		}

		return out, len(out) < len(data), uint8(level), nil
	case CompressorHeatshrink:
		window, lookahead := heatshrinkParams(args)
		out, err := compressHeatshrink(data, window, lookahead)
		if err != nil {
			return nil, false, 0, err
		}

		return out, len(out) < len(data), encodeHeatshrinkOptions(window, lookahead), nil
	default:
		return nil, false, 0, fmt.Errorf("%w: id %d", ErrUnknownCompressor, id)
	}
}

// decompress reverses compress for the given marker, using the on-disk
// options byte to recover the parameters the encoder used. Within this
// package only the tests call it (ListEntries does not decompress payloads).
func decompress(id CompressorID, data []byte, expandedLen int, options uint8) ([]byte, error) {
	switch id {
	case CompressorDeflate:
		return decompressDeflate(data, expandedLen)
	case CompressorHeatshrink:
		window, lookahead := decodeHeatshrinkOptions(options)
		return decompressHeatshrink(data, expandedLen, window, lookahead)
	default:
		return nil, fmt.Errorf("%w: id %d", ErrUnknownCompressor, id)
	}
}

// deflateLevel resolves the configured "level" argument, clamped to
// [0,9] and defaulting to 9 (best compression) when unset or unparsable.
func deflateLevel(args map[string]string) int {
	level := deflateLevelDefault
	if v, ok := args["level"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			level = n
		}
	}

	return clamp(level, deflateLevelMin, deflateLevelMax)
}

// heatshrinkParams resolves the configured "window" and "lookahead"
// arguments, clamped to their supported ranges and defaulting to 11 and 4.
func heatshrinkParams(args map[string]string) (window, lookahead int) {
	window = heatshrinkWindowDefault
	lookahead = heatshrinkLookaheadDefault
	if v, ok := args["window"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			window = n
		}
	}
	if v, ok := args["lookahead"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			lookahead = n
		}
	}

	return clamp(window, heatshrinkWindowMin, heatshrinkWindowMax), clamp(lookahead, heatshrinkLookaheadMin, heatshrinkLookaheadMax)
}

// clamp restricts v to [lo,hi].
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}

// encodeHeatshrinkOptions packs window and lookahead into the header's
// single options byte: lookahead<<4 | window.
func encodeHeatshrinkOptions(window, lookahead int) uint8 {
	return uint8(lookahead<<4 | window)
}

// decodeHeatshrinkOptions reverses encodeHeatshrinkOptions.
func decodeHeatshrinkOptions(options uint8) (window, lookahead int) {
	return int(options & 0x0F), int(options >> 4)
}

// compressDeflate runs zlib-format (RFC 1950, 2-byte header + adler32
// trailer) deflate over data at the given level.
func compressDeflate(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("compress deflate: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("compress deflate: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compress deflate: %w", err)
	}

	return buf.Bytes(), nil
}

// decompressDeflate reverses compressDeflate.
func decompressDeflate(data []byte, expandedLen int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decompress deflate: %w", err)
	}
	defer r.Close()

	out := make([]byte, 0, expandedLen)
	buf := bytes.NewBuffer(out)
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("decompress deflate: %w", err)
	}

	return buf.Bytes(), nil
}

// compressHeatshrink runs the github.com/woozymasta/lzss LZSS/heatshrink codec over data
// with the given window and lookahead parameters.
func compressHeatshrink(data []byte, window, lookahead int) ([]byte, error) {
	out, err := lzss.Compress(data, lzss.CompressOptions{
		Window:    uint8(window),
		Lookahead: uint8(lookahead),
	})
	if err != nil {
		return nil, fmt.Errorf("compress heatshrink: %w", err)
	}

	return out, nil
}

// decompressHeatshrink reverses compressHeatshrink via the streaming
// LZSS/heatshrink decoder, given the known expanded length and the window
// and lookahead parameters recovered from the header's options byte.
func decompressHeatshrink(data []byte, expandedLen, window, lookahead int) ([]byte, error) {
	var buf bytes.Buffer
	opts := lzss.CompressOptions{
		Window:    uint8(window),
		Lookahead: uint8(lookahead),
	}
	if _, err := lzss.DecompressToWriter(&buf, bytes.NewReader(data), expandedLen, &opts); err != nil {
		return nil, fmt.Errorf("decompress heatshrink: %w", err)
	}

	return buf.Bytes(), nil
}
