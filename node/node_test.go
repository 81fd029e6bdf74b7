// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package node

import (
	"errors"
	"fmt"
	"slices"
	"testing"
)

// fmt.Stringer for testing only.
// n.Name must have been set in order to produce
// meaningful output.
func (n *Node) String() string {
	const s = `
            (%5s)
               ^
               |
(%5s) <-> (%5s) <-> (%5s)
               |
               v
            (%5s)
`
	return fmt.Sprintf(s, name(n.parent), name(n.prev), name(n), name(n.next), name(n.first))
}

// logGraph outputs the scene graph whose root is n.
func (n *Node) logGraph(t *testing.T) {
	s := n.String()
	n.ForEach(func(n *Node) {
		s += n.String()
	})
	t.Log(s)
}

// testInsert calls n.Insert and checks that it works
// as expected.
func (n *Node) testInsert(sub *Node, t *testing.T) {
	if err := n.Insert(sub); err != nil {
		t.Fatalf("n.Insert: unexpected error: %v", err)
	}
	if n.last != sub {
		t.Fatalf("n.Insert: n.last\nhave %p\nwant %p\n%v", n.last, sub, n)
	}
	if sub.parent != n {
		t.Fatalf("n.Insert: sub.parent\nhave %p\nwant %p\n%v", sub.parent, n, sub)
	}
	if sub.next != nil {
		t.Fatalf("n.Insert: sub.next\nhave %p\nwant nil\n%v", sub.next, sub)
	}
}

// testDetach calls n.Detach and checks that it works
// as expected.
func (n *Node) testDetach(t *testing.T) {
	anc := n.parent
	prev, next := n.prev, n.next
	n.Detach()
	if n.next != nil {
		t.Fatalf("n.Detach: n.next\nhave %p\nwant nil\n%v", n.next, n)
	}
	if n.prev != nil {
		t.Fatalf("n.Detach: n.prev\nhave %p\nwant nil\n%v", n.prev, n)
	}
	if n.parent != nil {
		t.Fatalf("n.Detach: n.parent\nhave %p\nwant nil\n%v", n.parent, n)
	}
	if anc == nil {
		return
	}
	if prev == nil && anc.first != next {
		t.Fatalf("n.Detach: anc.first\nhave %p\nwant %p\n%v", anc.first, next, anc)
	}
	if next == nil && anc.last != prev {
		t.Fatalf("n.Detach: anc.last\nhave %p\nwant %p\n%v", anc.last, prev, anc)
	}
}

func names(s []*Node) []string {
	nm := make([]string, len(s))
	for i := range s {
		nm[i] = s[i].Name
	}
	return nm
}

func newNamed(nm ...string) []*Node {
	s := make([]*Node, len(nm))
	for i := range s {
		s[i] = New()
		s[i].Name = nm[i]
	}
	return s
}

func TestNode(t *testing.T) {
	s := newNamed("n1", "n2", "n3", "n4", "n5")
	n1, n2, n3, n4, n5 := s[0], s[1], s[2], s[3], s[4]

	n1.testInsert(n2, t)
	n1.testInsert(n3, t)
	n1.testInsert(n4, t)
	n3.testInsert(n5, t)
	n1.logGraph(t)
	if have, want := names(n1.Descendants()), []string{"n2", "n3", "n5", "n4"}; !slices.Equal(have, want) {
		t.Fatalf("n1.Descendants:\nhave %v\nwant %v", have, want)
	}
	n2.testDetach(t)
	n3.testDetach(t)
	n1.testDetach(t)
	n5.testDetach(t)
	n4.testDetach(t)
	n1.logGraph(t)
	n3.logGraph(t)

	n5.testInsert(n4, t)
	n4.testInsert(n3, t)
	n3.testInsert(n2, t)
	n2.testInsert(n1, t)
	n5.logGraph(t)
	if have, want := names(n5.Descendants()), []string{"n4", "n3", "n2", "n1"}; !slices.Equal(have, want) {
		t.Fatalf("n5.Descendants:\nhave %v\nwant %v", have, want)
	}
	n1.testDetach(t)
	n2.testDetach(t)
	n3.testDetach(t)
	n4.testDetach(t)
	for _, n := range s {
		if n.first != nil || n.parent != nil {
			t.Fatalf("%s: should be isolated\n%v", n.Name, n)
		}
	}

	// Reinserting moves the node to the end.
	n1.testInsert(n2, t)
	n2.testInsert(n3, t)
	n1.testInsert(n4, t)
	n1.testInsert(n2, t)
	n1.logGraph(t)
	if have, want := names(n1.Descendants()), []string{"n4", "n2", "n3"}; !slices.Equal(have, want) {
		t.Fatalf("n1.Descendants:\nhave %v\nwant %v", have, want)
	}
	n1.testInsert(n3, t)
	if have, want := names(n1.Descendants()), []string{"n4", "n2", "n3"}; !slices.Equal(have, want) {
		t.Fatalf("n1.Descendants:\nhave %v\nwant %v", have, want)
	}
	if n2.first != nil {
		t.Fatalf("n2.first\nhave %p\nwant nil", n2.first)
	}
}

func TestCycle(t *testing.T) {
	s := newNamed("a", "b", "c")
	a, b, c := s[0], s[1], s[2]
	a.testInsert(b, t)
	b.testInsert(c, t)

	for _, x := range [...][2]*Node{{c, a}, {c, b}, {b, a}, {a, a}, {c, c}} {
		err := x[0].Insert(x[1])
		var ce *CycleError
		if !errors.As(err, &ce) {
			t.Fatalf("%s.Insert(%s):\nhave %v\nwant *CycleError", x[0].Name, x[1].Name, err)
		}
		if ce.Parent != x[0] || ce.Child != x[1] {
			t.Fatalf("CycleError: wrong nodes\n%v", ce)
		}
	}
	if a.parent != nil || b.parent != a || c.parent != b {
		t.Fatal("Insert: tree changed on failure")
	}
	if have, want := names(a.Descendants()), []string{"b", "c"}; !slices.Equal(have, want) {
		t.Fatalf("a.Descendants:\nhave %v\nwant %v", have, want)
	}
}

func TestInsertNil(t *testing.T) {
	n := New()
	defer func() {
		if recover() == nil {
			t.Fatal("n.Insert(nil): expected panic")
		}
		if n.first != nil || n.last != nil {
			t.Fatalf("n.Insert(nil): graph changed\n%v", n)
		}
	}()
	n.Insert(nil)
}

func TestRemove(t *testing.T) {
	s := newNamed("a", "b", "c", "d")
	a, b, c, d := s[0], s[1], s[2], s[3]
	a.testInsert(b, t)
	a.testInsert(c, t)
	b.testInsert(d, t)

	var nf *NotFoundError
	if err := a.Remove(d); !errors.As(err, &nf) {
		t.Fatalf("a.Remove(d):\nhave %v\nwant *NotFoundError", err)
	}
	if err := c.Remove(a); !errors.As(err, &nf) {
		t.Fatalf("c.Remove(a):\nhave %v\nwant *NotFoundError", err)
	}
	if err := a.Remove(nil); !errors.As(err, &nf) {
		t.Fatalf("a.Remove(nil):\nhave %v\nwant *NotFoundError", err)
	}

	if err := a.Remove(b); err != nil {
		t.Fatalf("a.Remove(b): unexpected error: %v", err)
	}
	if have, want := names(a.Descendants()), []string{"c"}; !slices.Equal(have, want) {
		t.Fatalf("a.Descendants:\nhave %v\nwant %v", have, want)
	}
	// The removed subtree is left intact.
	if d.parent != b || b.first != d {
		t.Fatal("a.Remove(b): subtree of b changed")
	}
	if err := a.Remove(b); !errors.As(err, &nf) {
		t.Fatalf("a.Remove(b) twice:\nhave %v\nwant *NotFoundError", err)
	}
}

func TestUntil(t *testing.T) {
	s := newNamed("r", "a", "b", "c", "d")
	r := s[0]
	for _, n := range s[1:] {
		r.testInsert(n, t)
	}
	var seen []string
	r.Until(func(n *Node) bool {
		seen = append(seen, n.Name)
		return n.Name != "b"
	})
	if want := []string{"a", "b"}; !slices.Equal(seen, want) {
		t.Fatalf("r.Until:\nhave %v\nwant %v", seen, want)
	}
	var kids []string
	for c := range r.Children() {
		kids = append(kids, c.Name)
		if c.Name == "c" {
			break
		}
	}
	if want := []string{"a", "b", "c"}; !slices.Equal(kids, want) {
		t.Fatalf("r.Children:\nhave %v\nwant %v", kids, want)
	}
}

func TestCaps(t *testing.T) {
	n := New()
	if n.Caps() != Plain || !n.Is(Plain) {
		t.Fatalf("New().Caps:\nhave %v\nwant %v", n.Caps(), Plain)
	}
	n.Tag(Camera | Link)
	if !n.Is(Camera) || !n.Is(Link) || n.Is(Body) || n.Is(Camera|Body) {
		t.Fatalf("n.Tag: wrong caps %b", n.Caps())
	}
	if !n.Visible() {
		t.Fatal("New().Visible: should be visible")
	}
	n.SetVisible(false)
	if n.Visible() {
		t.Fatal("n.SetVisible(false): still visible")
	}
}
