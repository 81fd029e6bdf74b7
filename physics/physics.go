// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package physics defines the interface of the rigid-body
// simulation that the scene is synchronized with.
//
// The simulation owns body state. The scene reads poses
// out of it every frame and writes poses into it only
// for moves that the user authored.
package physics

import (
	"strconv"

	"github.com/gviegas/physcene/linear"
)

// BodyID identifies a body in a World.
type BodyID int

// LinkID identifies a link of a compound body.
// Links are numbered from zero, in the order they were
// given at creation.
type LinkID int

// Base refers to the base of a compound body in calls
// that take a LinkID.
const Base LinkID = -1

// Shape identifies a collision shape in a World.
// The zero Shape is not valid.
type Shape int

// ShapeKind is the kind of a collision shape.
type ShapeKind int

// Shape kinds.
const (
	Box ShapeKind = iota
	Sphere
	Plane
)

// ShapeDesc describes a collision shape.
// For Box, Extent holds the half extents. For Sphere,
// Extent[0] is the radius. For Plane, Extent is the
// normal and the plane crosses the origin.
type ShapeDesc struct {
	Kind   ShapeKind
	Extent linear.V3
}

// Pose is a position and an orientation in world space.
type Pose struct {
	Pos linear.V3
	Rot linear.Q
}

// Identity returns the pose at the origin with no rotation.
func Identity() Pose { return Pose{Rot: linear.Q{R: 1}} }

// Joint is the kind of joint that attaches a link to its
// parent.
type Joint int

// Joints.
const (
	Fixed Joint = iota
)

// BaseSpec describes the base of a compound body.
type BaseSpec struct {
	Mass  float32
	Shape Shape
	Pose  Pose
}

// LinkSpec describes a link of a compound body.
// Offset is relative to the base.
type LinkSpec struct {
	Mass   float32
	Shape  Shape
	Offset Pose
	Joint  Joint
}

// Frame is the frame in which a force or torque is
// expressed.
type Frame int

// Frames.
const (
	WorldFrame Frame = iota
	LinkFrame
)

// World is the interface of a physics simulation.
type World interface {
	// CreateShape creates a collision shape.
	CreateShape(desc ShapeDesc) (Shape, error)

	// CreateBody creates a single rigid body.
	// A mass of zero makes the body static.
	CreateBody(shape Shape, mass float32, pose Pose) (BodyID, error)

	// CreateCompound creates a body made of a base and
	// rigidly attached links. It either registers the
	// whole body or nothing.
	// The returned LinkIDs follow the order of links.
	CreateCompound(base BaseSpec, links []LinkSpec) (BodyID, []LinkID, error)

	// Step advances the simulation by dt seconds.
	Step(dt float32)

	// Pose returns the pose of a body's base.
	Pose(id BodyID) (Pose, error)

	// LinkPose returns the world pose of a link.
	LinkPose(id BodyID, link LinkID) (Pose, error)

	// Velocity returns the linear and angular velocity
	// of a body's base.
	Velocity(id BodyID) (lin, ang linear.V3, err error)

	// ResetPose teleports a body's base.
	// Velocities are kept.
	ResetPose(id BodyID, pose Pose) error

	// ApplyForce applies force at point for the next
	// step. point is in world space for WorldFrame and
	// relative to the link for LinkFrame, in which case
	// force is also expressed in the link's frame.
	ApplyForce(id BodyID, link LinkID, force, point linear.V3, frame Frame) error

	// ApplyTorque applies torque for the next step.
	ApplyTorque(id BodyID, link LinkID, torque linear.V3, frame Frame) error

	// SetGravity sets the gravity acceleration.
	SetGravity(g linear.V3)

	// RemoveBody removes a body.
	RemoveBody(id BodyID) error
}

// UnknownBodyError is the error returned by a World when
// a BodyID does not refer to a live body.
type UnknownBodyError struct {
	ID BodyID
}

func (e *UnknownBodyError) Error() string {
	return "physics: unknown body " + strconv.Itoa(int(e.ID))
}

// UnknownLinkError is the error returned by a World when
// a LinkID is out of range for a body.
type UnknownLinkError struct {
	ID   BodyID
	Link LinkID
}

func (e *UnknownLinkError) Error() string {
	return "physics: unknown link " + strconv.Itoa(int(e.Link)) + " of body " + strconv.Itoa(int(e.ID))
}
