// SPDX-License-Identifier: MIT
// Copyright (c) 2026 FrogFS authors
// Source: github.com/frogfs/mkfrogfs

package frogfs

import (
	"encoding/binary"
	"fmt"
	"os"
)

// ImageHeader is the parsed fixed-size FrogFS image header.
type ImageHeader struct {
	BinaryLen uint32
	NumObjs   uint16
	Align     uint8
	Dirs      bool
}

// EntryMeta describes one entry read back from a built image, without
// touching its payload bytes.
type EntryMeta struct {
	Path         string
	Kind         EntryKind
	DataSize     uint32
	ExpandedSize uint32
	Compressor   CompressorID
	ChildCount   int
	HeaderOffset uint32
}

// ReadHeader opens path and returns just its FrogFS image header, without
// parsing the hash table or any entry. Useful for quick size/version checks
// from build tooling.
func ReadHeader(path string) (ImageHeader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImageHeader{}, fmt.Errorf("open image %q: %w", path, err)
	}

	return parseHeader(data)
}

// parseHeader decodes and validates the fixed-size header at the front of data.
func parseHeader(data []byte) (ImageHeader, error) {
	binaryLen, numObjs, align, flags, err := decodeHeader(data)
	if err != nil {
		return ImageHeader{}, err
	}

	return ImageHeader{
		BinaryLen: binaryLen,
		NumObjs:   numObjs,
		Align:     align,
		Dirs:      flags&flagDirs != 0,
	}, nil
}

// ListEntries opens path and returns metadata for every entry in the image,
// verifying the CRC-32 footer first. It does not decompress or return any
// entry's payload bytes.
func ListEntries(path string) ([]EntryMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open image %q: %w", path, err)
	}

	return ListEntriesFromBytes(data)
}

// ListEntriesFromBytes parses entry metadata directly from an in-memory
// image, verifying its CRC-32 footer.
func ListEntriesFromBytes(data []byte) ([]EntryMeta, error) {
	if len(data) < headerStructSz+footerSz {
		return nil, ErrInvalidHeader
	}

	header, err := parseHeader(data)
	if err != nil {
		return nil, err
	}

	body := data[:len(data)-footerSz]
	footer := binary.LittleEndian.Uint32(data[len(data)-footerSz:])
	if crcIEEE(body) != footer {
		return nil, fmt.Errorf("%w: CRC mismatch", ErrInvalidHeader)
	}

	hashTableOffset := alignUp(headerStructSz, int(header.Align))
	entries := make([]EntryMeta, 0, header.NumObjs)
	for i := 0; i < int(header.NumObjs); i++ {
		rowOffset := hashTableOffset + i*hashEntrySz
		if rowOffset+hashEntrySz > len(data) {
			return nil, fmt.Errorf("%w: truncated hash table", ErrInvalidHeader)
		}

		_, headerOffset := decodeHashEntry(data[rowOffset : rowOffset+hashEntrySz])
		meta, err := decodeEntryHeaderAt(data, headerOffset)
		if err != nil {
			return nil, err
		}

		entries = append(entries, meta)
	}

	return entries, nil
}

// decodeEntryHeaderAt decodes the file or directory header record at
// offset in image.
func decodeEntryHeaderAt(image []byte, offset uint32) (EntryMeta, error) {
	if int(offset) >= len(image) {
		return EntryMeta{}, fmt.Errorf("%w: header offset out of range", ErrInvalidHeader)
	}

	total := int(image[offset])
	if int(offset)+total > len(image) || total < dirHeaderSz {
		return EntryMeta{}, fmt.Errorf("%w: truncated entry header", ErrInvalidHeader)
	}

	entryType := image[offset+1]
	switch entryType {
	case entryTypeFile:
		return decodeFileHeaderAt(image, offset)
	case entryTypeDir:
		return decodeDirHeaderAt(image, offset)
	default:
		return EntryMeta{}, fmt.Errorf("%w: unknown entry type %d", ErrInvalidHeader, entryType)
	}
}

// decodeFileHeaderAt decodes a file header (compressed or not) at offset.
func decodeFileHeaderAt(image []byte, offset uint32) (EntryMeta, error) {
	pathLen := binary.LittleEndian.Uint16(image[offset+2 : offset+4])
	dataSize := binary.LittleEndian.Uint32(image[offset+4 : offset+8])
	compression := CompressorID(image[offset+8])

	if compression == CompressorNone {
		pathStart := offset + uint32(fileHeaderSz)
		path, err := readHeaderPath(image, pathStart, pathLen)
		if err != nil {
			return EntryMeta{}, err
		}

		return EntryMeta{Path: path, Kind: KindFile, DataSize: dataSize, HeaderOffset: offset}, nil
	}

	expandedSize := binary.LittleEndian.Uint32(image[offset+12 : offset+16])
	pathStart := offset + uint32(fileCompHdrSz)
	path, err := readHeaderPath(image, pathStart, pathLen)
	if err != nil {
		return EntryMeta{}, err
	}

	return EntryMeta{
		Path:         path,
		Kind:         KindFile,
		DataSize:     dataSize,
		ExpandedSize: expandedSize,
		Compressor:   compression,
		HeaderOffset: offset,
	}, nil
}

// decodeDirHeaderAt decodes a directory header at offset.
func decodeDirHeaderAt(image []byte, offset uint32) (EntryMeta, error) {
	pathLen := binary.LittleEndian.Uint16(image[offset+2 : offset+4])
	childCount := binary.LittleEndian.Uint16(image[offset+4 : offset+6])

	pathStart := offset + uint32(dirHeaderSz)
	path, err := readHeaderPath(image, pathStart, pathLen)
	if err != nil {
		return EntryMeta{}, err
	}

	return EntryMeta{Path: path, Kind: KindDirectory, ChildCount: int(childCount), HeaderOffset: offset}, nil
}

// readHeaderPath extracts a header's trailing path bytes. length counts the
// path's NUL terminator, which is stripped from the returned string.
func readHeaderPath(image []byte, start uint32, length uint16) (string, error) {
	end := start + uint32(length)
	if int(end) > len(image) {
		return "", fmt.Errorf("%w: truncated entry path", ErrInvalidHeader)
	}

	raw := image[start:end]
	if length > 0 && raw[len(raw)-1] == 0 {
		raw = raw[:len(raw)-1]
	}

	return string(raw), nil
}
