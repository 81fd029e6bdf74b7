// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package node provides the elements of the scene graph.
package node

import (
	"iter"
	"log/slog"

	"github.com/gviegas/physcene/linear"
	"github.com/gviegas/physcene/material"
	"github.com/gviegas/physcene/physics"
	"github.com/gviegas/physcene/render"
)

// Caps is a set of capability tags.
// Tags describe what a node is used for; they do not
// change how the node itself behaves.
type Caps uint8

// Capability tags.
const (
	// The node is the eye of a camera.
	Camera Caps = 1 << iota
	// The node renders a link of a compound body.
	Link
	// The node is bound to a physics body.
	Body

	// No tags.
	Plain Caps = 0
)

// Origin tells where a pose comes from.
type Origin int

// Origins.
const (
	// The pose was authored by the user. If the node is
	// bound to a body, the pose is also written to the
	// physics world.
	FromUser Origin = iota
	// The pose was just read from the physics world.
	// It is never written back.
	FromPhysics
)

// Drawable is the render data of a node.
type Drawable struct {
	Mesh     render.Mesh
	Material *material.Material
}

type binding struct {
	world physics.World
	id    physics.BodyID
	mass  float32
}

// Node represents a single node in a scene graph.
// Nodes have at most one immediate ancestor and
// an ordered list of immediate descendants.
type Node struct {
	parent *Node
	first  *Node
	last   *Node
	next   *Node
	prev   *Node

	local  linear.M4
	caps   Caps
	body   *binding
	hidden bool

	// Drawable, if not nil, makes the node renderable.
	Drawable *Drawable

	// Name for the node.
	// It is used only for diagnostics.
	Name string
}

// New creates an initialized node.
func New() *Node { return new(Node).Init() }

// Init initializes node n.
// The local transform is set to identity.
func (n *Node) Init() *Node {
	*n = Node{}
	n.local.I()
	return n
}

// Tag adds c to the capability tags of n.
func (n *Node) Tag(c Caps) { n.caps |= c }

// Caps returns the capability tags of n.
func (n *Node) Caps() Caps { return n.caps }

// Is returns whether n has all tags in c.
func (n *Node) Is(c Caps) bool { return n.caps&c == c }

// Visible returns whether n is drawn.
// Visibility does not propagate to descendants.
func (n *Node) Visible() bool { return !n.hidden }

// SetVisible sets whether n is drawn.
func (n *Node) SetVisible(v bool) { n.hidden = !v }

// Parent returns the immediate ancestor of n, or nil
// if n is a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns an iterator over the immediate
// descendants of n, in insertion order.
func (n *Node) Children() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for c := n.first; c != nil; c = c.next {
			if !yield(c) {
				return
			}
		}
	}
}

// Insert inserts node sub as the last immediate
// descendant of node n. sub is detached from its
// previous ancestor, if any.
// It fails with a *CycleError if sub is n or one of
// n's ancestors, in which case the graph is unchanged.
// It panics if sub is nil.
func (n *Node) Insert(sub *Node) error {
	if sub == nil {
		panic("node: Insert of nil node")
	}
	for a := n; a != nil; a = a.parent {
		if a == sub {
			return newCycleErr(n, sub)
		}
	}
	sub.Detach()
	sub.parent = n
	sub.prev = n.last
	if n.last != nil {
		n.last.next = sub
	} else {
		n.first = sub
	}
	n.last = sub
	return nil
}

// Remove removes node sub from the immediate
// descendants of n. The subtree rooted at sub is
// left intact.
// It fails with a *NotFoundError if sub is not an
// immediate descendant of n.
func (n *Node) Remove(sub *Node) error {
	if sub == nil || sub.parent != n {
		return newNotFoundErr(n, sub)
	}
	sub.Detach()
	return nil
}

// Detach removes node n from its immediate ancestor.
// It does nothing if n is a root.
func (n *Node) Detach() {
	p := n.parent
	if p == nil {
		return
	}
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		p.first = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		p.last = n.prev
	}
	n.parent = nil
	n.prev = nil
	n.next = nil
}

// ForEach calls f for each descendant of node n.
// Descendants are visited in depth-first pre-order,
// siblings in insertion order.
// The scene graph must not be changed until this
// method returns.
func (n *Node) ForEach(f func(*Node)) {
	n.Until(func(n *Node) bool {
		f(n)
		return true
	})
}

// Until calls f for each descendant of node n,
// in the same order as ForEach. If f returns false,
// Until returns immediately.
// The scene graph must not be changed until this
// method returns.
func (n *Node) Until(f func(*Node) bool) {
	var stk []*Node
	for c := n.last; c != nil; c = c.prev {
		stk = append(stk, c)
	}
	for len(stk) > 0 {
		nd := stk[len(stk)-1]
		stk = stk[:len(stk)-1]
		if !f(nd) {
			return
		}
		for c := nd.last; c != nil; c = c.prev {
			stk = append(stk, c)
		}
	}
}

// Descendants returns every descendant of n in the
// order of ForEach.
func (n *Node) Descendants() (s []*Node) {
	n.ForEach(func(n *Node) { s = append(s, n) })
	return
}

// Bind associates n with a physics body.
// User-authored moves on n are written to w from then on.
func (n *Node) Bind(w physics.World, id physics.BodyID, mass float32) {
	n.body = &binding{w, id, mass}
	n.caps |= Body
}

// Unbind removes the physics body association of n.
func (n *Node) Unbind() {
	n.body = nil
	n.caps &^= Body
}

// Body returns the body bound to n.
func (n *Node) Body() (id physics.BodyID, ok bool) {
	if n.body == nil {
		return
	}
	return n.body.id, true
}

// Mass returns the mass of the body bound to n,
// or zero if n is not bound.
func (n *Node) Mass() float32 {
	if n.body == nil {
		return 0
	}
	return n.body.mass
}

// writeBack pushes the world pose of n to the physics
// world if n is bound to a body.
func (n *Node) writeBack() {
	if n.body == nil {
		return
	}
	if err := n.body.world.ResetPose(n.body.id, n.WorldPose()); err != nil {
		slog.Warn(prefix+"write-back failed", "node", n.Name, "body", n.body.id, "err", err)
	}
}
