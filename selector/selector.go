// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package selector draws distinct indices from a range one at a time without
// materializing a permutation of the whole range.
package selector

import (
	"fmt"
	"math/rand/v2"
)

// A Picker chooses the next index to select from the half-open range
// [lo, hi), which is never empty.
type Picker interface {
	Pick(lo, hi int) int
}

// RandomPicker picks uniformly. A nil Rand uses the global source.
type RandomPicker struct {
	Rand *rand.Rand
}

func (p RandomPicker) Pick(lo, hi int) int {
	if p.Rand == nil {
		return lo + rand.IntN(hi-lo)
	}
	return lo + p.Rand.IntN(hi-lo)
}

// SequentialPicker always picks the low end of the range, so a [Lazy]
// selector using it yields 0, 1, 2, ... in order. It is mostly useful in
// tests.
type SequentialPicker struct{}

func (SequentialPicker) Pick(lo, hi int) int {
	return lo
}

// Lazy selects each index in [0, n) at most once, in an order determined by
// its [Picker]. It runs a Fisher-Yates shuffle one step per selection,
// recording only the positions that have been swapped, so memory grows with
// the number of selections rather than with n.
//
// Lazy is not safe for concurrent use.
type Lazy struct {
	n        int
	selected int
	swapped  map[int]int
	picker   Picker
}

// New returns a selector over [0, n). It panics if n is not positive.
func New(n int, picker Picker) *Lazy {
	if n <= 0 {
		panic("selector range must not be empty")
	}
	return &Lazy{
		n:       n,
		swapped: make(map[int]int),
		picker:  picker,
	}
}

// Next returns an index that has not been selected yet, or false if every
// index has been.
func (s *Lazy) Next() (int, bool) {
	if s.Empty() {
		return 0, false
	}
	i := s.picker.Pick(s.selected, s.n)
	if i < s.selected || i >= s.n {
		panic(fmt.Sprintf("picker returned %d outside [%d, %d)", i, s.selected, s.n))
	}
	v := s.at(i)
	s.set(i, s.at(s.selected))
	delete(s.swapped, s.selected)
	s.selected++
	return v, true
}

// Empty reports whether every index has been selected.
func (s *Lazy) Empty() bool {
	return s.selected >= s.n
}

// CountFree returns the number of indices not yet selected.
func (s *Lazy) CountFree() int {
	return s.n - s.selected
}

// Reset forgets all selections and changes the range to [0, n). It panics if
// n is not positive.
func (s *Lazy) Reset(n int) {
	if n <= 0 {
		panic("selector range must not be empty")
	}
	s.n = n
	s.selected = 0
	clear(s.swapped)
}

func (s *Lazy) at(i int) int {
	if v, ok := s.swapped[i]; ok {
		return v
	}
	return i
}

func (s *Lazy) set(i, v int) {
	if v == i {
		delete(s.swapped, i)
	} else {
		s.swapped[i] = v
	}
}
