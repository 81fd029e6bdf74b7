// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package rigid implements physics.World with a simple
// rigid-body integrator.
//
// Compound bodies are simulated as a single rigid body
// whose mass properties combine the base and its links.
// There is no collision detection.
package rigid

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/kamstrup/intmap"
	"github.com/pkg/errors"

	"github.com/gviegas/physcene/internal/idalloc"
	"github.com/gviegas/physcene/linear"
	"github.com/gviegas/physcene/physics"
)

const prefix = "rigid: "

func newErr(reason string) error { return errors.New(prefix + reason) }

// angMotionMax is the maximum rotation per step.
const angMotionMax = math.Pi / 4

// part is a rigid piece of a body: the base or a link.
// Offsets are relative to the base frame.
type part struct {
	pos   mgl64.Vec3
	rot   mgl64.Quat
	mass  float64
	shape physics.Shape
}

type body struct {
	// Base frame.
	pos mgl64.Vec3
	rot mgl64.Quat
	// Velocity of the center of mass and angular
	// velocity, both in world space.
	linVel mgl64.Vec3
	angVel mgl64.Vec3

	mass float64
	// Center of mass in the base frame.
	com mgl64.Vec3
	// Inverse inertia about com, in the base frame.
	invInertia mgl64.Mat3

	links []part

	// Accumulated for the next step, in world space.
	// torque is about the center of mass.
	force  mgl64.Vec3
	torque mgl64.Vec3
}

// World is a physics.World.
// It is not safe for concurrent use.
type World struct {
	shapes  idalloc.Map[physics.Shape, physics.ShapeDesc]
	bodies  idalloc.Map[physics.BodyID, body]
	static  *intmap.Set[physics.BodyID]
	gravity mgl64.Vec3
	// LinearDamping and AngularDamping remove this
	// fraction of the velocity per second.
	LinearDamping  float64
	AngularDamping float64
}

// New creates an empty world with no gravity.
func New() *World {
	w := &World{static: intmap.NewSet[physics.BodyID](16)}
	w.shapes.Base = 1
	w.bodies.Base = 1
	return w
}

var _ physics.World = (*World)(nil)

// CreateShape creates a collision shape.
func (w *World) CreateShape(desc physics.ShapeDesc) (physics.Shape, error) {
	switch desc.Kind {
	case physics.Box:
		for _, x := range desc.Extent {
			if !(x > 0) {
				return 0, newErr("box extent must be positive")
			}
		}
	case physics.Sphere:
		if !(desc.Extent[0] > 0) {
			return 0, newErr("sphere radius must be positive")
		}
	case physics.Plane:
		if desc.Extent.Len() == 0 {
			return 0, newErr("plane normal must not be zero")
		}
	default:
		return 0, newErr("undefined physics.ShapeKind constant")
	}
	return w.shapes.Insert(desc), nil
}

// CreateBody creates a single rigid body.
func (w *World) CreateBody(shape physics.Shape, mass float32, pose physics.Pose) (physics.BodyID, error) {
	id, _, err := w.CreateCompound(physics.BaseSpec{Mass: mass, Shape: shape, Pose: pose}, nil)
	return id, err
}

// CreateCompound creates a body made of a base and
// rigidly attached links.
// Nothing is registered if any part is invalid.
func (w *World) CreateCompound(base physics.BaseSpec, links []physics.LinkSpec) (physics.BodyID, []physics.LinkID, error) {
	parts := make([]part, 0, 1+len(links))
	parts = append(parts, part{rot: mgl64.QuatIdent(), mass: float64(base.Mass), shape: base.Shape})
	for _, l := range links {
		if l.Joint != physics.Fixed {
			return 0, nil, newErr("only fixed joints are supported")
		}
		parts = append(parts, part{
			pos:   vec(&l.Offset.Pos),
			rot:   quat(&l.Offset.Rot),
			mass:  float64(l.Mass),
			shape: l.Shape,
		})
	}
	var total float64
	var com mgl64.Vec3
	for i := range parts {
		p := &parts[i]
		desc := w.shapes.Get(p.shape)
		switch {
		case desc == nil:
			return 0, nil, errors.Errorf(prefix+"part %d: unknown shape %d", i, p.shape)
		case p.mass < 0 || math.IsNaN(p.mass):
			return 0, nil, errors.Errorf(prefix+"part %d: invalid mass", i)
		case desc.Kind == physics.Plane && p.mass != 0:
			return 0, nil, errors.Errorf(prefix+"part %d: plane shape must be static", i)
		}
		total += p.mass
		com = com.Add(p.pos.Mul(p.mass))
	}

	b := body{
		pos:  vec(&base.Pose.Pos),
		rot:  quat(&base.Pose.Rot).Normalize(),
		mass: total,
	}
	if total > 0 {
		b.com = com.Mul(1 / total)
		var inertia mgl64.Mat3
		for i := range parts {
			inertia = inertia.Add(w.inertia(&parts[i], b.com))
		}
		if det := inertia.Det(); math.Abs(det) > 1e-12 {
			b.invInertia = inertia.Inv()
		}
	}
	b.links = parts[1:]

	id := w.bodies.Insert(b)
	if total == 0 {
		w.static.Add(id)
	}
	lids := make([]physics.LinkID, len(links))
	for i := range lids {
		lids[i] = physics.LinkID(i)
	}
	return id, lids, nil
}

// inertia returns the inertia tensor of p about c,
// in the base frame.
func (w *World) inertia(p *part, c mgl64.Vec3) mgl64.Mat3 {
	desc := w.shapes.Get(p.shape)
	var d mgl64.Vec3
	switch desc.Kind {
	case physics.Box:
		x, y, z := float64(desc.Extent[0]), float64(desc.Extent[1]), float64(desc.Extent[2])
		d = mgl64.Vec3{y*y + z*z, x*x + z*z, x*x + y*y}.Mul(p.mass / 3)
	case physics.Sphere:
		r := float64(desc.Extent[0])
		i := 0.4 * p.mass * r * r
		d = mgl64.Vec3{i, i, i}
	}
	r := p.rot.Mat4().Mat3()
	i := r.Mul3(mgl64.Diag3(d)).Mul3(r.Transpose())
	// Parallel axis theorem.
	o := p.pos.Sub(c)
	return i.Add(mgl64.Ident3().Mul(o.Dot(o)).Sub(o.OuterProd3(o)).Mul(p.mass))
}

// Step advances the simulation by dt seconds.
func (w *World) Step(dt float32) {
	if !(dt > 0) {
		return
	}
	h := float64(dt)
	for id, b := range w.bodies.All() {
		if w.static.Has(id) {
			b.force, b.torque = mgl64.Vec3{}, mgl64.Vec3{}
			continue
		}
		acc := w.gravity.Add(b.force.Mul(1 / b.mass))
		b.linVel = b.linVel.Add(acc.Mul(h)).Mul(max(0, 1-w.LinearDamping*h))

		r := b.rot.Mat4().Mat3()
		invI := r.Mul3(b.invInertia).Mul3(r.Transpose())
		b.angVel = b.angVel.Add(invI.Mul3x1(b.torque).Mul(h)).Mul(max(0, 1-w.AngularDamping*h))

		c := b.pos.Add(b.rot.Rotate(b.com)).Add(b.linVel.Mul(h))
		b.rot = stepRot(b.rot, b.angVel, h)
		b.pos = c.Sub(b.rot.Rotate(b.com))

		b.force, b.torque = mgl64.Vec3{}, mgl64.Vec3{}
	}
}

// stepRot integrates the angular velocity av over h.
func stepRot(q mgl64.Quat, av mgl64.Vec3, h float64) mgl64.Quat {
	ang := av.Len()
	if ang < 1e-9 {
		return q
	}
	step := min(ang*h, angMotionMax)
	dq := mgl64.QuatRotate(step, av.Mul(1/ang))
	return dq.Mul(q).Normalize()
}

func (w *World) get(id physics.BodyID) (*body, error) {
	b := w.bodies.Get(id)
	if b == nil {
		return nil, errors.WithStack(&physics.UnknownBodyError{ID: id})
	}
	return b, nil
}

// frame returns the world pose of a link, or of the base
// if link is physics.Base.
func (w *World) frame(id physics.BodyID, link physics.LinkID) (*body, mgl64.Vec3, mgl64.Quat, error) {
	b, err := w.get(id)
	if err != nil {
		return nil, mgl64.Vec3{}, mgl64.Quat{}, err
	}
	if link == physics.Base {
		return b, b.pos, b.rot, nil
	}
	if link < 0 || int(link) >= len(b.links) {
		return nil, mgl64.Vec3{}, mgl64.Quat{}, errors.WithStack(&physics.UnknownLinkError{ID: id, Link: link})
	}
	l := &b.links[link]
	return b, b.pos.Add(b.rot.Rotate(l.pos)), b.rot.Mul(l.rot).Normalize(), nil
}

// Pose returns the pose of a body's base.
func (w *World) Pose(id physics.BodyID) (physics.Pose, error) {
	return w.LinkPose(id, physics.Base)
}

// LinkPose returns the world pose of a link.
func (w *World) LinkPose(id physics.BodyID, link physics.LinkID) (physics.Pose, error) {
	_, p, q, err := w.frame(id, link)
	if err != nil {
		return physics.Pose{}, err
	}
	return physics.Pose{Pos: fromVec(p), Rot: fromQuat(q)}, nil
}

// Velocity returns the linear and angular velocity of
// a body.
func (w *World) Velocity(id physics.BodyID) (lin, ang linear.V3, err error) {
	b, err := w.get(id)
	if err != nil {
		return
	}
	return fromVec(b.linVel), fromVec(b.angVel), nil
}

// ResetPose teleports a body's base.
func (w *World) ResetPose(id physics.BodyID, pose physics.Pose) error {
	b, err := w.get(id)
	if err != nil {
		return err
	}
	b.pos = vec(&pose.Pos)
	b.rot = quat(&pose.Rot).Normalize()
	return nil
}

// SetVelocity sets the velocities of a body.
func (w *World) SetVelocity(id physics.BodyID, lin, ang linear.V3) error {
	b, err := w.get(id)
	if err != nil {
		return err
	}
	b.linVel, b.angVel = vec(&lin), vec(&ang)
	return nil
}

// ApplyForce applies force at point for the next step.
func (w *World) ApplyForce(id physics.BodyID, link physics.LinkID, force, point linear.V3, frame physics.Frame) error {
	b, p, q, err := w.frame(id, link)
	if err != nil {
		return err
	}
	f, x := vec(&force), vec(&point)
	if frame == physics.LinkFrame {
		f = q.Rotate(f)
		x = p.Add(q.Rotate(x))
	}
	c := b.pos.Add(b.rot.Rotate(b.com))
	b.force = b.force.Add(f)
	b.torque = b.torque.Add(x.Sub(c).Cross(f))
	return nil
}

// ApplyTorque applies torque for the next step.
func (w *World) ApplyTorque(id physics.BodyID, link physics.LinkID, torque linear.V3, frame physics.Frame) error {
	b, _, q, err := w.frame(id, link)
	if err != nil {
		return err
	}
	t := vec(&torque)
	if frame == physics.LinkFrame {
		t = q.Rotate(t)
	}
	b.torque = b.torque.Add(t)
	return nil
}

// SetGravity sets the gravity acceleration.
func (w *World) SetGravity(g linear.V3) { w.gravity = vec(&g) }

// RemoveBody removes a body.
func (w *World) RemoveBody(id physics.BodyID) error {
	if _, ok := w.bodies.Remove(id); !ok {
		return errors.WithStack(&physics.UnknownBodyError{ID: id})
	}
	w.static.Del(id)
	return nil
}

// Len returns the number of bodies in w.
func (w *World) Len() int { return w.bodies.Len() }

func vec(v *linear.V3) mgl64.Vec3 {
	return mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}

func fromVec(v mgl64.Vec3) linear.V3 {
	return linear.V3{float32(v[0]), float32(v[1]), float32(v[2])}
}

func quat(q *linear.Q) mgl64.Quat {
	if *q == (linear.Q{}) {
		return mgl64.QuatIdent()
	}
	return mgl64.Quat{W: float64(q.R), V: vec(&q.V)}
}

func fromQuat(q mgl64.Quat) linear.Q {
	return linear.Q{V: fromVec(q.V), R: float32(q.W)}
}
