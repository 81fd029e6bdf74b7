// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package idalloc

import (
	"testing"
)

func TestBitv(t *testing.T) {
	var v bitv
	if n := v.len(); n != 0 {
		t.Fatalf("v.len:\nhave %d\nwant 0", n)
	}
	if _, ok := v.search(); ok {
		t.Fatal("v.search: should fail on empty vector")
	}
	v.grow(2)
	if v.len() != 128 || v.rem != 128 {
		t.Fatalf("v.grow(2):\nhave %d, %d\nwant 128, 128", v.len(), v.rem)
	}
	for i := 0; i < 70; i++ {
		idx, ok := v.search()
		if !ok || idx != i {
			t.Fatalf("v.search:\nhave %d, %t\nwant %d, true", idx, ok, i)
		}
		v.set(idx)
	}
	if v.rem != 58 {
		t.Fatalf("v.rem:\nhave %d\nwant 58", v.rem)
	}
	v.unset(3)
	v.unset(3)
	if v.rem != 59 || v.isSet(3) {
		t.Fatal("v.unset: bit 3 should be unset exactly once")
	}
	if idx, _ := v.search(); idx != 3 {
		t.Fatalf("v.search:\nhave %d\nwant 3", idx)
	}
	if v.isSet(-1) || v.isSet(128) || v.isSet(1 << 20) {
		t.Fatal("v.isSet: out of range index reported as set")
	}
}

func TestMap(t *testing.T) {
	var m Map[int, string]
	m.Base = 1
	ids := make([]int, 0, 100)
	for i := 0; i < 100; i++ {
		id := m.Insert(string(rune('a' + i%26)))
		if id != i+1 {
			t.Fatalf("m.Insert:\nhave %d\nwant %d", id, i+1)
		}
		ids = append(ids, id)
	}
	if m.Len() != 100 {
		t.Fatalf("m.Len:\nhave %d\nwant 100", m.Len())
	}
	if m.Has(0) || m.Has(101) {
		t.Fatal("m.Has: unknown id reported as present")
	}
	if d := m.Get(3); d == nil || *d != "c" {
		t.Fatalf("m.Get(3):\nhave %v\nwant c", d)
	}

	// Removing from the middle swaps the last element in.
	if d, ok := m.Remove(3); !ok || d != "c" {
		t.Fatalf("m.Remove(3):\nhave %q, %t\nwant c, true", d, ok)
	}
	if _, ok := m.Remove(3); ok {
		t.Fatal("m.Remove(3): removed twice")
	}
	if m.Has(3) || m.Get(3) != nil {
		t.Fatal("m.Get(3): removed id still present")
	}
	if d := m.Get(100); d == nil || *d != string(rune('a'+99%26)) {
		t.Fatalf("m.Get(100): moved element lost: %v", d)
	}
	// The lowest free id is reused.
	if id := m.Insert("x"); id != 3 {
		t.Fatalf("m.Insert:\nhave %d\nwant 3", id)
	}

	seen := make(map[int]bool)
	for id, d := range m.All() {
		if seen[id] {
			t.Fatalf("m.All: id %d visited twice", id)
		}
		seen[id] = true
		if *m.Get(id) != *d {
			t.Fatalf("m.All: id %d maps to %q, Get returns %q", id, *d, *m.Get(id))
		}
	}
	if len(seen) != 100 {
		t.Fatalf("m.All: visited %d, want 100", len(seen))
	}
	for _, id := range ids {
		m.Remove(id)
	}
	if m.Len() != 0 {
		t.Fatalf("m.Len:\nhave %d\nwant 0", m.Len())
	}
}
