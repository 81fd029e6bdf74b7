// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package drone implements a quadcopter simulation on
// top of the scene package.
package drone

import (
	"github.com/pkg/errors"

	"github.com/gviegas/physcene/camera"
	"github.com/gviegas/physcene/compound"
	"github.com/gviegas/physcene/linear"
	"github.com/gviegas/physcene/node"
	"github.com/gviegas/physcene/physics"
	"github.com/gviegas/physcene/scene"
)

const prefix = "drone: "

// Quad flies a compound body with four rotor links.
// The body faces its +z axis. Rotors push along their
// own +y axis.
//
// Input is read through the camera keys:
// KeyUp and KeyDown change the target altitude,
// KeyForward, KeyBack, KeyLeft and KeyRight set the
// target velocity and KeyTurnLeft and KeyTurnRight set
// the target yaw rate.
type Quad struct {
	Input          camera.Input
	TargetAltitude float32
	// Target speed while a move key is held, in m/s.
	Speed float32
	// Target yaw rate while a turn key is held, in rad/s.
	YawRate float32
	// Target altitude change while a climb key is held,
	// in m/s.
	Climb float32

	body    *compound.Body
	mass    float32
	rotors  []physics.LinkID
	offsets []linear.V3
	forces  []float32

	alt, pitch, roll, yaw, fwd, right PID
}

// NewQuad creates a Quad that flies b.
// mass is the total mass of b. Every link of b that is
// not a camera is taken as a rotor. There must be four.
func NewQuad(b *compound.Body, mass float32) (*Quad, error) {
	q := &Quad{
		Speed:   4,
		YawRate: 0.8,
		Climb:   12,
		body:    b,
		mass:    mass,
		alt:     ZieglerNichols(3, 1.071, 5),
		pitch:   ZieglerNichols(1.07, 1.45, 2),
		roll:    ZieglerNichols(1.07, 1.25, 2),
		yaw:     PID{Kp: 6, Ki: 3, Limit: 5},
		fwd:     PID{Kp: 0.08, Limit: 0.3},
		right:   PID{Kp: 0.08, Limit: 0.3},
	}
	for l, n := range b.Links() {
		if n.Is(node.Camera) {
			continue
		}
		q.rotors = append(q.rotors, l)
		q.offsets = append(q.offsets, n.LocalPosition())
	}
	if len(q.rotors) != 4 {
		return nil, errors.Errorf(prefix+"need 4 rotors, have %d", len(q.rotors))
	}
	q.forces = make([]float32, 4)
	q.TargetAltitude = b.Base().WorldPosition()[1]
	return q, nil
}

// Body returns the body flown by q.
func (q *Quad) Body() *compound.Body { return q.body }

// Forces returns the rotor forces applied last.
func (q *Quad) Forces() []float32 { return q.forces }

func axis(in camera.Input, pos, neg camera.Key) (a float32) {
	if in.Pressed(pos) {
		a++
	}
	if in.Pressed(neg) {
		a--
	}
	return
}

// Mix distributes thrust among rotors placed at offsets
// and adds the pitch and roll corrections.
// A positive pitch correction lifts the rotors at +z less
// than the ones at -z. A positive roll correction lifts
// the rotors at +x more than the ones at -x.
// Forces are never negative.
func Mix(offsets []linear.V3, thrust, pitch, roll float32) []float32 {
	f := make([]float32, len(offsets))
	for i, o := range offsets {
		f[i] = thrust
		if o[2] < 0 {
			f[i] += pitch
		} else {
			f[i] -= pitch
		}
		if o[0] > 0 {
			f[i] += roll
		} else {
			f[i] -= roll
		}
		f[i] = max(f[i], 0)
	}
	return f
}

// Control implements scene.Controller.
func (q *Quad) Control(s *scene.Scene) error {
	dt := s.Clock().Step()
	var tFwd, tRight, tYaw float32
	if q.Input != nil {
		q.TargetAltitude += q.Climb * dt * axis(q.Input, camera.KeyUp, camera.KeyDown)
		tFwd = q.Speed * axis(q.Input, camera.KeyForward, camera.KeyBack)
		tRight = q.Speed * axis(q.Input, camera.KeyRight, camera.KeyLeft)
		tYaw = q.YawRate * axis(q.Input, camera.KeyTurnLeft, camera.KeyTurnRight)
	}

	id := q.body.ID()
	lin, ang, err := s.World().Velocity(id)
	if err != nil {
		return err
	}
	pose := q.body.Base().WorldPose()
	var r, rt linear.M3
	r.FromQ(&pose.Rot)
	rt.Transpose(&r)
	var local linear.V3
	local.Mul(&rt, &lin)
	_, pitch, roll := r.Euler()

	// Tilting toward the wanted velocity.
	tPitch := q.fwd.Compute(tFwd, local[2], dt)
	tRoll := q.right.Compute(tRight, -local[0], dt)

	hover := q.mass * -s.Environment().Gravity[1] / 4
	thrust := hover + q.alt.Compute(q.TargetAltitude, pose.Pos[1], dt)
	cp := q.pitch.Compute(tPitch, pitch, dt)
	cr := q.roll.Compute(tRoll, roll, dt)
	cy := q.yaw.Compute(tYaw, ang[1], dt)

	q.forces = Mix(q.offsets, thrust, cp, cr)
	for i, l := range q.rotors {
		if err := q.body.ApplyLinkForce(l, linear.V3{0, q.forces[i], 0}, linear.V3{}); err != nil {
			return err
		}
	}
	return s.World().ApplyTorque(id, physics.Base, linear.V3{0, cy, 0}, physics.WorldFrame)
}
