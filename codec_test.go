// SPDX-License-Identifier: MIT
// Copyright (c) 2026 FrogFS authors
// Source: github.com/frogfs/mkfrogfs

package frogfs

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestCompressDeflateRoundTrip(t *testing.T) {
	t.Parallel()

	data := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog ", 64))

	out, accepted, options, err := compress(CompressorDeflate, data, nil)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	if !accepted {
		t.Fatalf("expected highly repetitive input to compress smaller")
	}

	back, err := decompress(CompressorDeflate, out, len(data), options)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(back, data) {
		t.Fatalf("round trip mismatch")
	}
}

func TestCompressDeflate_CustomLevelRoundTrip(t *testing.T) {
	t.Parallel()

	data := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog ", 64))

	out, accepted, options, err := compress(CompressorDeflate, data, map[string]string{"level": "1"})
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	if !accepted {
		t.Fatalf("expected highly repetitive input to compress smaller")
	}
	if options != 1 {
		t.Fatalf("options=%d, want 1 (recorded deflate level)", options)
	}

	back, err := decompress(CompressorDeflate, out, len(data), options)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(back, data) {
		t.Fatalf("round trip mismatch")
	}
}

func TestCompressHeatshrinkRoundTrip(t *testing.T) {
	t.Parallel()

	data := []byte(strings.Repeat("ababababab", 64))

	out, _, options, err := compress(CompressorHeatshrink, data, nil)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}

	back, err := decompress(CompressorHeatshrink, out, len(data), options)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(back, data) {
		t.Fatalf("round trip mismatch")
	}
}

func TestCompressHeatshrink_CustomParamsRoundTrip(t *testing.T) {
	t.Parallel()

	data := []byte(strings.Repeat("ababababab", 64))

	out, _, options, err := compress(CompressorHeatshrink, data, map[string]string{"window": "8", "lookahead": "5"})
	if err != nil {
		t.Fatalf("compress: %v", err)
	}

	gotWindow, gotLookahead := decodeHeatshrinkOptions(options)
	if gotWindow != 8 || gotLookahead != 5 {
		t.Fatalf("decodeHeatshrinkOptions=(%d,%d), want (8,5)", gotWindow, gotLookahead)
	}

	back, err := decompress(CompressorHeatshrink, out, len(data), options)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(back, data) {
		t.Fatalf("round trip mismatch")
	}
}

func TestCompress_RejectsIncompressibleData(t *testing.T) {
	t.Parallel()

	// Small, low-redundancy input: deflate framing overhead should make the
	// "compressed" result no smaller than the source.
	data := []byte{0x01, 0x02, 0x03}

	_, accepted, _, err := compress(CompressorDeflate, data, nil)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	if accepted {
		t.Fatalf("expected tiny incompressible input to be rejected")
	}
}

func TestCompressorIDByName_Unknown(t *testing.T) {
	t.Parallel()

	_, err := compressorIDByName("bogus")
	if !errors.Is(err, ErrUnknownCompressor) {
		t.Fatalf("expected ErrUnknownCompressor, got %v", err)
	}
}
