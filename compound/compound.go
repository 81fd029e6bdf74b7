// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package compound builds multi-body objects: a base and
// rigidly attached links, each rendered by its own node.
package compound

import (
	"iter"

	"github.com/kamstrup/intmap"
	"github.com/pkg/errors"

	"github.com/gviegas/physcene/linear"
	"github.com/gviegas/physcene/node"
	"github.com/gviegas/physcene/physics"
)

const prefix = "compound: "

// BaseSpec describes the base of a compound body.
// Its initial pose is the world pose of Node.
type BaseSpec struct {
	Node  *node.Node
	Mass  float32
	Shape physics.Shape
}

// LinkSpec describes a link of a compound body.
// Offset is relative to the base.
type LinkSpec struct {
	Node   *node.Node
	Mass   float32
	Shape  physics.Shape
	Offset physics.Pose
	Joint  physics.Joint
}

// LinkFromNode creates a fixed LinkSpec whose offset is
// the local pose of n.
func LinkFromNode(n *node.Node, mass float32, shape physics.Shape) LinkSpec {
	return LinkSpec{
		Node:   n,
		Mass:   mass,
		Shape:  shape,
		Offset: n.Pose(),
		Joint:  physics.Fixed,
	}
}

// BodyCreationError is the error returned by Build when
// the description is invalid or the physics world rejects
// it. Nothing is registered in that case.
type BodyCreationError struct {
	Reason string
	Err    error
}

func newCreationErr(reason string, err error) error {
	return errors.WithStack(&BodyCreationError{reason, err})
}

func (e *BodyCreationError) Error() string {
	if e.Err == nil {
		return prefix + e.Reason
	}
	return prefix + e.Reason + ": " + e.Err.Error()
}

func (e *BodyCreationError) Unwrap() error { return e.Err }

// Body is a compound body registered in a physics world.
// The mapping between links and nodes is fixed when the
// body is built.
type Body struct {
	world physics.World
	id    physics.BodyID
	base  *node.Node
	order []physics.LinkID
	nodes *intmap.Map[physics.LinkID, *node.Node]
	index map[*node.Node]physics.LinkID
}

// Build creates a compound body in w.
// The base node is bound to the new body and every link
// node is tagged node.Link. Link nodes are not bound, so
// moves on them are never written to w.
func Build(w physics.World, base BaseSpec, links []LinkSpec) (*Body, error) {
	if base.Node == nil {
		return nil, newCreationErr("nil base node", nil)
	}
	if _, ok := base.Node.Body(); ok {
		return nil, newCreationErr("base node is already bound", nil)
	}
	index := make(map[*node.Node]physics.LinkID, len(links))
	spec := make([]physics.LinkSpec, len(links))
	for i := range links {
		l := &links[i]
		switch {
		case l.Node == nil:
			return nil, newCreationErr("nil link node", nil)
		case l.Node == base.Node:
			return nil, newCreationErr("link node is the base node", nil)
		case l.Joint != physics.Fixed:
			return nil, newCreationErr("unsupported joint", nil)
		}
		if _, dup := index[l.Node]; dup {
			return nil, newCreationErr("link node used twice", nil)
		}
		index[l.Node] = physics.LinkID(i)
		spec[i] = physics.LinkSpec{Mass: l.Mass, Shape: l.Shape, Offset: l.Offset, Joint: l.Joint}
	}

	id, lids, err := w.CreateCompound(physics.BaseSpec{
		Mass:  base.Mass,
		Shape: base.Shape,
		Pose:  base.Node.WorldPose(),
	}, spec)
	if err != nil {
		return nil, newCreationErr("rejected by physics", err)
	}
	if len(lids) != len(links) {
		if err := w.RemoveBody(id); err != nil {
			return nil, newCreationErr("link count mismatch", err)
		}
		return nil, newCreationErr("link count mismatch", nil)
	}

	b := &Body{
		world: w,
		id:    id,
		base:  base.Node,
		order: lids,
		nodes: intmap.New[physics.LinkID, *node.Node](len(lids)),
		index: index,
	}
	for i, lid := range lids {
		n := links[i].Node
		b.nodes.Put(lid, n)
		b.index[n] = lid
		n.Tag(node.Link)
	}
	base.Node.Bind(w, id, base.Mass)
	return b, nil
}

// ID returns the physics body of b.
func (b *Body) ID() physics.BodyID { return b.id }

// World returns the physics world of b.
func (b *Body) World() physics.World { return b.world }

// Base returns the base node of b.
func (b *Body) Base() *node.Node { return b.base }

// Len returns the number of links of b.
func (b *Body) Len() int { return len(b.order) }

// LinkIndex returns the link rendered by n.
func (b *Body) LinkIndex(n *node.Node) (physics.LinkID, bool) {
	l, ok := b.index[n]
	return l, ok
}

// Node returns the node that renders link l.
func (b *Body) Node(l physics.LinkID) (*node.Node, bool) { return b.nodes.Get(l) }

// Links returns an iterator over the links of b, in the
// order they were given to Build.
func (b *Body) Links() iter.Seq2[physics.LinkID, *node.Node] {
	return func(yield func(physics.LinkID, *node.Node) bool) {
		for _, l := range b.order {
			n, _ := b.nodes.Get(l)
			if !yield(l, n) {
				return
			}
		}
	}
}

// ApplyLinkForce applies force at point, both expressed in
// the frame of link l, for the next physics step.
func (b *Body) ApplyLinkForce(l physics.LinkID, force, point linear.V3) error {
	return b.world.ApplyForce(b.id, l, force, point, physics.LinkFrame)
}

// ApplyTorque applies torque, expressed in the frame of
// the base, for the next physics step.
func (b *Body) ApplyTorque(torque linear.V3) error {
	return b.world.ApplyTorque(b.id, physics.Base, torque, physics.LinkFrame)
}

// Remove removes b from its physics world and unbinds
// the base node. b must not be used afterwards.
func (b *Body) Remove() error {
	b.base.Unbind()
	return b.world.RemoveBody(b.id)
}
