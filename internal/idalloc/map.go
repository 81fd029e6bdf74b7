// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package idalloc

import (
	"iter"
)

// entry is what a Map stores.
type entry[D any] struct {
	data D
	id   int
}

// Map stores data of type D with identifiers of type I.
// Identifiers are reused after removal, lowest first.
// Data is kept dense, so iteration does not visit holes.
// The zero value is an empty map.
type Map[I ~int, D any] struct {
	ids  []int
	used bitv
	data []entry[D]
	// Identifiers start at this value.
	// It must not change after the first Insert.
	Base I
}

// Insert inserts data into m.
// It returns an I value that identifies data in m.
func (m *Map[I, D]) Insert(data D) I {
	if m.used.rem == 0 {
		n := max(1, len(m.used.s))
		m.used.grow(n)
		m.ids = append(m.ids, make([]int, n*nbit)...)
	}
	idx, ok := m.used.search()
	if !ok {
		// Should never happen.
		panic("idalloc: unexpected search failure")
	}
	m.used.set(idx)
	m.ids[idx] = len(m.data)
	m.data = append(m.data, entry[D]{data, idx})
	return I(idx) + m.Base
}

// Remove removes the data identified by id.
// It returns the removed data and whether id was in m.
func (m *Map[I, D]) Remove(id I) (data D, ok bool) {
	idx := int(id - m.Base)
	if !m.used.isSet(idx) {
		return
	}
	d := m.ids[idx]
	data = m.data[d].data
	last := len(m.data) - 1
	if d < last {
		swap := m.data[last].id
		m.ids[swap] = d
		m.data[d] = m.data[last]
	}
	m.ids[idx] = -1
	m.used.unset(idx)
	m.data[last] = entry[D]{}
	m.data = m.data[:last]
	return data, true
}

// Get returns a pointer to the data identified by id,
// or nil if id is not in m.
// The pointer is invalidated by Insert and Remove.
func (m *Map[I, D]) Get(id I) *D {
	idx := int(id - m.Base)
	if !m.used.isSet(idx) {
		return nil
	}
	return &m.data[m.ids[idx]].data
}

// Has returns whether id is in m.
func (m *Map[I, D]) Has(id I) bool { return m.used.isSet(int(id - m.Base)) }

// Len returns the number of elements in m.
func (m *Map[_, _]) Len() int { return len(m.data) }

// All returns an iterator over the elements of m.
// Order is unspecified. m must not be changed during
// iteration.
func (m *Map[I, D]) All() iter.Seq2[I, *D] {
	return func(yield func(I, *D) bool) {
		for i := range m.data {
			if !yield(I(m.data[i].id)+m.Base, &m.data[i].data) {
				return
			}
		}
	}
}
