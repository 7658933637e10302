// SPDX-License-Identifier: MIT
// Copyright (c) 2026 FrogFS authors
// Source: github.com/frogfs/mkfrogfs

package frogfs

import "testing"

func TestDjb2Hash(t *testing.T) {
	t.Parallel()

	if got := djb2Hash(""); got != 5381 {
		t.Fatalf("djb2Hash(\"\")=%d, want 5381", got)
	}

	a := djb2Hash("assets/logo.png")
	b := djb2Hash("assets/logo.png")
	if a != b {
		t.Fatalf("djb2Hash is not deterministic: %d != %d", a, b)
	}

	if djb2Hash("a") == djb2Hash("b") {
		t.Fatalf("djb2Hash collided on trivially distinct inputs")
	}
}

func TestAlignUp(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		n, align, want int
	}{
		{n: 0, align: 4, want: 0},
		{n: 1, align: 4, want: 4},
		{n: 4, align: 4, want: 4},
		{n: 5, align: 4, want: 8},
		{n: 5, align: 1, want: 5},
		{n: 5, align: 0, want: 5},
	}

	for _, tc := range testCases {
		if got := alignUp(tc.n, tc.align); got != tc.want {
			t.Fatalf("alignUp(%d,%d)=%d, want %d", tc.n, tc.align, got, tc.want)
		}
	}
}

func TestPadTo(t *testing.T) {
	t.Parallel()

	buf := padTo([]byte{1, 2, 3}, 4)
	if len(buf) != 4 {
		t.Fatalf("len(buf)=%d, want 4", len(buf))
	}
	if buf[3] != 0 {
		t.Fatalf("padding byte=%d, want 0", buf[3])
	}
}

func TestValidateAlign(t *testing.T) {
	t.Parallel()

	if err := validateAlign(4); err != nil {
		t.Fatalf("validateAlign(4): %v", err)
	}
	if err := validateAlign(0); err == nil {
		t.Fatalf("expected error for align=0")
	}
	if err := validateAlign(256); err == nil {
		t.Fatalf("expected error for align=256")
	}
}

func TestCrcIEEE(t *testing.T) {
	t.Parallel()

	a := crcIEEE([]byte("hello"))
	b := crcIEEE([]byte("hello"))
	if a != b {
		t.Fatalf("crcIEEE is not deterministic")
	}
	if crcIEEE([]byte("hello")) == crcIEEE([]byte("world")) {
		t.Fatalf("crcIEEE collided on trivially distinct inputs")
	}
}
