// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package camera implements the eye of a scene.
package camera

import (
	"github.com/gviegas/physcene/linear"
	"github.com/gviegas/physcene/node"
)

// Controller moves a camera in response to input.
type Controller interface {
	Move(c *Camera, dt float32)
}

// Camera derives a view transform from the world
// transform of its node and a projection transform from
// its frustum parameters.
//
// The view and projection are valid right after Update
// and until the camera or one of its ancestors moves.
type Camera struct {
	*node.Node
	fov    float32
	aspect float32
	near   float32
	far    float32
	dirty  bool
	view   linear.M4
	proj   linear.M4
	ctrl   Controller
}

// New creates a new camera.
// fov is the vertical field of view in degrees.
// The camera's node is tagged node.Camera.
func New(fov, aspect, near, far float32) (*Camera, error) {
	c := &Camera{Node: node.New()}
	if err := c.SetFrustum(fov, aspect, near, far); err != nil {
		return nil, err
	}
	c.Tag(node.Camera)
	c.view.I()
	return c, nil
}

// SetFrustum sets the frustum parameters.
// It fails with a *linear.DomainError and leaves c
// unchanged if they do not describe a valid projection.
func (c *Camera) SetFrustum(fov, aspect, near, far float32) error {
	var m linear.M4
	if err := m.Perspective(fov, aspect, near, far); err != nil {
		return err
	}
	c.fov, c.aspect, c.near, c.far = fov, aspect, near, far
	c.dirty = true
	return nil
}

// SetAspect sets the aspect ratio.
func (c *Camera) SetAspect(aspect float32) error {
	if aspect == c.aspect {
		return nil
	}
	return c.SetFrustum(c.fov, aspect, c.near, c.far)
}

// Frustum returns the frustum parameters.
func (c *Camera) Frustum() (fov, aspect, near, far float32) {
	return c.fov, c.aspect, c.near, c.far
}

// SetController sets the controller used by Move.
// ctrl may be nil.
func (c *Camera) SetController(ctrl Controller) { c.ctrl = ctrl }

// Move lets the controller, if any, move the camera.
func (c *Camera) Move(dt float32) {
	if c.ctrl != nil {
		c.ctrl.Move(c, dt)
	}
}

// Update recomputes the view transform, and the
// projection transform if the frustum changed.
// The eye looks along the z axis of the world transform,
// with the world y axis as up.
// If that direction is degenerate, Update returns the
// *linear.DomainError and the previous view is kept.
func (c *Camera) Update() error {
	if c.dirty {
		// Validated by SetFrustum.
		_ = c.proj.Perspective(c.fov, c.aspect, c.near, c.far)
		c.dirty = false
	}
	w := c.World()
	eye := w.Translation()
	fwd := w.Col(2)
	var target linear.V3
	target.Add(&eye, &fwd)
	var v linear.M4
	if err := v.LookAt(&eye, &target, &linear.V3{0, 1, 0}); err != nil {
		return err
	}
	c.view = v
	return nil
}

// View returns the view transform.
func (c *Camera) View() linear.M4 { return c.view }

// Projection returns the projection transform.
func (c *Camera) Projection() linear.M4 { return c.proj }

// Eye returns the world position of the camera.
func (c *Camera) Eye() linear.V3 { return c.WorldPosition() }
