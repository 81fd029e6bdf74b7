// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package idalloc allocates small integer identifiers
// and stores data keyed by them.
package idalloc

import (
	"math/bits"
)

const nbit = 64

// bitv is a growable bit vector.
// A set bit marks an identifier in use.
type bitv struct {
	s   []uint64
	rem int
}

// len returns the number of bits in the vector.
func (v *bitv) len() int { return len(v.s) * nbit }

// grow appends nplus words of unset bits.
func (v *bitv) grow(nplus int) {
	if nplus > 0 {
		v.rem += nplus * nbit
		v.s = append(v.s, make([]uint64, nplus)...)
	}
}

func (v *bitv) set(index int) {
	i, b := index/nbit, uint64(1)<<(index&(nbit-1))
	if v.s[i]&b == 0 {
		v.s[i] |= b
		v.rem--
	}
}

func (v *bitv) unset(index int) {
	i, b := index/nbit, uint64(1)<<(index&(nbit-1))
	if v.s[i]&b != 0 {
		v.s[i] &^= b
		v.rem++
	}
}

func (v *bitv) isSet(index int) bool {
	if index < 0 || index >= v.len() {
		return false
	}
	return v.s[index/nbit]&(uint64(1)<<(index&(nbit-1))) != 0
}

// search locates the lowest unset bit.
// It fails only when v.rem is zero.
func (v *bitv) search() (index int, ok bool) {
	if v.rem == 0 {
		return
	}
	for i, x := range v.s {
		if x == ^uint64(0) {
			continue
		}
		return i*nbit + bits.TrailingZeros64(^x), true
	}
	return
}
