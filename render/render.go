// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package render defines the boundary between the scene
// and a rendering backend.
//
// The scene never inspects vertex data or shader code.
// It hands opaque handles, draw settings and a resolved
// set of uniforms to a Renderer, once per drawable node
// per frame.
package render

import (
	"github.com/gviegas/physcene/linear"
)

// Handle is an opaque reference to a backend resource
// such as a vertex buffer, a program or a texture.
// The zero Handle refers to no resource.
type Handle uint64

// Style is the primitive topology of a draw.
type Style int

// Styles.
const (
	Triangles Style = iota
	TriStrip
	Lines
	LineStrip
	Points
)

func (s Style) String() string {
	switch s {
	case Triangles:
		return "Triangles"
	case TriStrip:
		return "TriStrip"
	case Lines:
		return "Lines"
	case LineStrip:
		return "LineStrip"
	case Points:
		return "Points"
	}
	return "Style(?)"
}

// Settings describes fixed-function state for a draw.
type Settings struct {
	Style     Style
	LineWidth float32
	PointSize float32
	Culling   bool
	Wireframe bool
}

// DefaultSettings returns the settings used when a
// material does not override them.
func DefaultSettings() Settings {
	return Settings{
		Style:     Triangles,
		LineWidth: 2,
		PointSize: 2,
		Culling:   true,
	}
}

// Mesh identifies vertex data already uploaded to the
// backend.
type Mesh struct {
	Buffer Handle
	Count  int
}

// DrawCall is a single submission to a Renderer.
type DrawCall struct {
	Buffer   Handle
	Program  Handle
	Count    int
	Settings Settings
	Uniforms UniformSet
	// Name of the node that produced the call.
	// Informative only.
	Name string
}

// Renderer is the interface that backends implement.
// Submit is called once per visible drawable node.
// A failed submission does not abort the frame.
type Renderer interface {
	Submit(dc *DrawCall) error
}

// FrameRenderer is implemented by renderers that need
// to know where a frame starts and ends.
type FrameRenderer interface {
	Renderer
	BeginFrame() error
	EndFrame() error
}

// Uniform names that every draw call carries.
const (
	Projection = "matrix_projection"
	View       = "matrix_view"
	Model      = "matrix_model"
)

// UniformSet maps uniform names to values.
// Values are one of linear.M4, linear.V3, [2]float32,
// float32, bool or Handle.
type UniformSet map[string]any

// M4 returns the named matrix.
func (u UniformSet) M4(name string) (linear.M4, bool) {
	m, ok := u[name].(linear.M4)
	return m, ok
}

// V3 returns the named vector.
func (u UniformSet) V3(name string) (linear.V3, bool) {
	v, ok := u[name].(linear.V3)
	return v, ok
}

// MVP returns the product of the projection, view and
// model matrices of u.
// It returns false if any of them is missing.
func (u UniformSet) MVP() (m linear.M4, ok bool) {
	p, ok1 := u.M4(Projection)
	v, ok2 := u.M4(View)
	w, ok3 := u.M4(Model)
	if !ok1 || !ok2 || !ok3 {
		return
	}
	m.Mul(&p, &v)
	m.Mul(&m, &w)
	return m, true
}
