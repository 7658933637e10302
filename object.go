// SPDX-License-Identifier: MIT
// Copyright (c) 2026 FrogFS authors
// Source: github.com/frogfs/mkfrogfs

package frogfs

import (
	"encoding/binary"
	"fmt"
)

// encodeFileHeader packs an uncompressed file entry header: <BBHIB>
// (len, type, path_len, data_len, compression=0), followed by the
// NUL-terminated path bytes. len is the total header length including the
// path and its terminator; path_len counts the terminator too.
func encodeFileHeader(entryPath string, dataSize uint32) ([]byte, error) {
	pathBytes := []byte(entryPath)
	if len(pathBytes)+1 > 0xFFFF {
		return nil, fmt.Errorf("%w: path %q", ErrSizeOverflow, entryPath)
	}

	total := fileHeaderSz + len(pathBytes) + 1
	if total > 0xFF {
		return nil, fmt.Errorf("%w: header for %q exceeds 255 bytes", ErrSizeOverflow, entryPath)
	}

	buf := make([]byte, total)
	buf[0] = byte(total)
	buf[1] = entryTypeFile
	binary.LittleEndian.PutUint16(buf[2:4], uint16(len(pathBytes)+1))
	binary.LittleEndian.PutUint32(buf[4:8], dataSize)
	buf[8] = byte(CompressorNone)
	copy(buf[9:], pathBytes)
	// buf[total-1] is left zero: the path's NUL terminator.

	return buf, nil
}

// encodeCompressedFileHeader packs a compressed file entry header: <BBHIBBHI>
// (len, type, path_len, data_len, compression, options, reserved,
// expanded_len), followed by the NUL-terminated path bytes. options encodes
// the codec parameters used (deflate level, or heatshrink lookahead<<4|window)
// so a reader can reverse the compression without guessing them.
func encodeCompressedFileHeader(entryPath string, dataSize uint32, id CompressorID, options uint8, expandedSize uint32) ([]byte, error) {
	pathBytes := []byte(entryPath)
	if len(pathBytes)+1 > 0xFFFF {
		return nil, fmt.Errorf("%w: path %q", ErrSizeOverflow, entryPath)
	}

	total := fileCompHdrSz + len(pathBytes) + 1
	if total > 0xFF {
		return nil, fmt.Errorf("%w: header for %q exceeds 255 bytes", ErrSizeOverflow, entryPath)
	}

	buf := make([]byte, total)
	buf[0] = byte(total)
	buf[1] = entryTypeFile
	binary.LittleEndian.PutUint16(buf[2:4], uint16(len(pathBytes)+1))
	binary.LittleEndian.PutUint32(buf[4:8], dataSize)
	buf[8] = byte(id)
	buf[9] = options
	binary.LittleEndian.PutUint16(buf[10:12], 0)
	binary.LittleEndian.PutUint32(buf[12:16], expandedSize)
	copy(buf[16:], pathBytes)
	// buf[total-1] is left zero: the path's NUL terminator.

	return buf, nil
}

// encodeDirHeader packs a directory entry header: <BBHH> (len, type,
// path_len, child_count), followed by the NUL-terminated path bytes and a
// child-offset array patched in later by the assembler. The returned slice
// reserves 4 bytes per child for that array, zeroed until patched.
func encodeDirHeader(entryPath string, childCount int) ([]byte, error) {
	pathBytes := []byte(entryPath)
	if len(pathBytes)+1 > 0xFFFF {
		return nil, fmt.Errorf("%w: path %q", ErrSizeOverflow, entryPath)
	}
	if childCount > 0xFFFF {
		return nil, fmt.Errorf("%w: dir %q has too many children", ErrSizeOverflow, entryPath)
	}

	childArrayLen := childCount * 4
	total := dirHeaderSz + len(pathBytes) + 1 + childArrayLen
	if total > 0xFF {
		return nil, fmt.Errorf("%w: header for %q exceeds 255 bytes", ErrSizeOverflow, entryPath)
	}

	buf := make([]byte, total)
	buf[0] = byte(total)
	buf[1] = entryTypeDir
	binary.LittleEndian.PutUint16(buf[2:4], uint16(len(pathBytes)+1))
	binary.LittleEndian.PutUint16(buf[4:6], uint16(childCount))
	copy(buf[dirHeaderSz:dirHeaderSz+len(pathBytes)], pathBytes)
	// buf[dirHeaderSz+len(pathBytes)] is left zero: the path's NUL terminator.

	return buf, nil
}

// patchDirChild writes childOffset into slot index of a directory header
// previously built by encodeDirHeader, at the given raw (NUL-exclusive)
// path-byte-length offset.
func patchDirChild(header []byte, pathLen int, index int, childOffset uint32) {
	base := dirHeaderSz + pathLen + 1 + index*4
	binary.LittleEndian.PutUint32(header[base:base+4], childOffset)
}

// encodeHeader packs the fixed-size FrogFS image header: <IBBHIHBB>
// (magic, header_len, ver_major, ver_minor, binary_len, num_objs, align,
// flags).
func encodeHeader(binaryLen uint32, numObjs uint16, align uint8, flags uint8) []byte {
	buf := make([]byte, headerStructSz)
	binary.LittleEndian.PutUint32(buf[0:4], magic)
	buf[4] = byte(headerStructSz)
	buf[5] = byte(verMajor)
	binary.LittleEndian.PutUint16(buf[6:8], verMinor)
	binary.LittleEndian.PutUint32(buf[8:12], binaryLen)
	binary.LittleEndian.PutUint16(buf[12:14], numObjs)
	buf[14] = align
	buf[15] = flags

	return buf
}

// decodeHeader parses a FrogFS image header and validates its magic.
func decodeHeader(buf []byte) (binaryLen uint32, numObjs uint16, align uint8, flags uint8, err error) {
	if len(buf) < headerStructSz {
		return 0, 0, 0, 0, ErrInvalidHeader
	}
	if binary.LittleEndian.Uint32(buf[0:4]) != magic {
		return 0, 0, 0, 0, ErrInvalidHeader
	}

	binaryLen = binary.LittleEndian.Uint32(buf[8:12])
	numObjs = binary.LittleEndian.Uint16(buf[12:14])
	align = buf[14]
	flags = buf[15]

	return binaryLen, numObjs, align, flags, nil
}

// encodeHashEntry packs one hash table row: <II> (hash, offset).
func encodeHashEntry(hash uint32, offset uint32) []byte {
	buf := make([]byte, hashEntrySz)
	binary.LittleEndian.PutUint32(buf[0:4], hash)
	binary.LittleEndian.PutUint32(buf[4:8], offset)

	return buf
}

// decodeHashEntry reverses encodeHashEntry.
func decodeHashEntry(buf []byte) (hash uint32, offset uint32) {
	return binary.LittleEndian.Uint32(buf[0:4]), binary.LittleEndian.Uint32(buf[4:8])
}
