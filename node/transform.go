// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package node

import (
	"github.com/gviegas/physcene/linear"
	"github.com/gviegas/physcene/physics"
)

// Local returns the local transform of n.
// Changes made through the returned pointer are not
// written to the physics world.
func (n *Node) Local() *linear.M4 { return &n.local }

// SetLocal replaces the local transform of n.
// It is not written to the physics world.
func (n *Node) SetLocal(m *linear.M4) { n.local = *m }

// World returns the world transform of n.
// It is computed from the ancestors of n on every call.
func (n *Node) World() linear.M4 {
	if n.parent == nil {
		return n.local
	}
	w := n.parent.World()
	w.Mul(&w, &n.local)
	return w
}

// LocalPosition returns the translation of the local
// transform of n.
func (n *Node) LocalPosition() linear.V3 { return n.local.Translation() }

// WorldPosition returns the translation of the world
// transform of n.
func (n *Node) WorldPosition() linear.V3 {
	w := n.World()
	return w.Translation()
}

// Forward returns the z axis of the local transform.
// It is not normalized.
func (n *Node) Forward() linear.V3 { return n.local.Col(2) }

// Up returns the y axis of the local transform.
// It is not normalized.
func (n *Node) Up() linear.V3 { return n.local.Col(1) }

// Right returns the x axis of the local transform.
// It is not normalized.
func (n *Node) Right() linear.V3 { return n.local.Col(0) }

// YawPitchRoll returns the Euler angles of the local
// rotation of n. See linear.M3.Euler.
func (n *Node) YawPitchRoll() (yaw, pitch, roll float32) {
	r := rotation(&n.local)
	return r.Euler()
}

// Translate moves n.
// If local is true, the move is along n's own axes.
func (n *Node) Translate(x, y, z float32, local bool) {
	var d linear.M4
	d.Translate(x, y, z)
	n.local.Apply(&d, local)
	n.writeBack()
}

// RotateX rotates n about the x axis.
func (n *Node) RotateX(angle float32, local bool) {
	var d linear.M4
	d.RotateX(angle)
	n.local.Apply(&d, local)
	n.writeBack()
}

// RotateY rotates n about the y axis.
func (n *Node) RotateY(angle float32, local bool) {
	var d linear.M4
	d.RotateY(angle)
	n.local.Apply(&d, local)
	n.writeBack()
}

// RotateZ rotates n about the z axis.
func (n *Node) RotateZ(angle float32, local bool) {
	var d linear.M4
	d.RotateZ(angle)
	n.local.Apply(&d, local)
	n.writeBack()
}

// Scale scales n.
// Scale is a render-side change and is never written
// to the physics world.
func (n *Node) Scale(x, y, z float32, local bool) {
	var d linear.M4
	d.Scale(x, y, z)
	n.local.Apply(&d, local)
}

// SetPose replaces the translation and the rotation
// block of the local transform of n. Any scale in the
// rotation block is discarded.
// The pose is written to the physics world only if
// origin is FromUser and n is bound to a body.
func (n *Node) SetPose(p physics.Pose, origin Origin) {
	var r linear.M3
	r.FromQ(&p.Rot)
	n.local.SetRotation(&r)
	n.local.SetTranslation(&p.Pos)
	if origin == FromUser {
		n.writeBack()
	}
}

// SetWorldPose is like SetPose, but p is expressed in
// world space. The local transform of n is set so that
// its world transform matches p under the current
// ancestors. For a root it is the same as SetPose.
func (n *Node) SetWorldPose(p physics.Pose, origin Origin) {
	if n.parent == nil {
		n.SetPose(p, origin)
		return
	}
	var r linear.M3
	r.FromQ(&p.Rot)
	var w linear.M4
	w.I()
	w.SetRotation(&r)
	w.SetTranslation(&p.Pos)
	inv := n.parent.World()
	inv.Invert(&inv)
	n.local.Mul(&inv, &w)
	if origin == FromUser {
		n.writeBack()
	}
}

// Pose returns the local translation and rotation of n.
func (n *Node) Pose() physics.Pose { return poseOf(&n.local) }

// WorldPose returns the world translation and rotation
// of n.
func (n *Node) WorldPose() physics.Pose {
	w := n.World()
	return poseOf(&w)
}

// SetPosition replaces the local translation of n.
func (n *Node) SetPosition(p linear.V3) {
	n.local.SetTranslation(&p)
	n.writeBack()
}

// SetRotation replaces the local rotation block of n.
func (n *Node) SetRotation(r *linear.M3) {
	n.local.SetRotation(r)
	n.writeBack()
}

// rotation returns the rotation block of m with its
// columns normalized.
func rotation(m *linear.M4) linear.M3 {
	r := m.Rotation()
	for i := range r {
		if l := r[i].Len(); l > 0 {
			r[i].Scale(1/l, &r[i])
		}
	}
	return r
}

func poseOf(m *linear.M4) (p physics.Pose) {
	r := m.Rotation()
	p.Pos = m.Translation()
	p.Rot.FromM3(&r)
	return
}
