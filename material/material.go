// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package material defines the closed set of materials
// that drawable nodes can use.
//
// A material declares the uniforms it requires up front.
// The scene resolves them through a render.Table, so no
// material is ever inspected by type at draw time.
package material

import (
	"github.com/pkg/errors"

	"github.com/gviegas/physcene/linear"
	"github.com/gviegas/physcene/render"
)

const prefix = "material: "

func newErr(reason string) error { return errors.New(prefix + reason) }

// Kind identifies the variant of a Material.
type Kind int

// Kinds.
const (
	KBasic Kind = iota
	KEmissive
	KTextured
)

func (k Kind) String() string {
	switch k {
	case KBasic:
		return "Basic"
	case KEmissive:
		return "Emissive"
	case KTextured:
		return "Textured"
	}
	return "Kind(?)"
}

// Material defines how geometry is shaded.
// It is created by NewBasic, NewEmissive or NewTextured
// and is immutable afterwards.
type Material struct {
	kind     Kind
	prog     render.Handle
	settings render.Settings
	reqs     []string
	vals     map[string]any
}

// Kind returns the variant of m.
func (m *Material) Kind() Kind { return m.kind }

// Program returns the program handle of m.
func (m *Material) Program() render.Handle { return m.prog }

// Settings returns the draw settings of m.
func (m *Material) Settings() render.Settings { return m.settings }

// Requires returns the names of the uniforms that m's
// program consumes, besides the camera and model matrices.
// The returned slice must not be modified.
func (m *Material) Requires() []string { return m.reqs }

// Uniform returns the value of a uniform owned by m.
// It implements render.Source.
func (m *Material) Uniform(name string) (any, bool) {
	v, ok := m.vals[name]
	return v, ok
}

// Basic defines properties of the vertex color material.
// Its program consumes only the camera and model matrices.
type Basic struct {
	Program render.Handle
	// If nil, render.DefaultSettings is used.
	Settings *render.Settings
}

// Emissive defines properties of a material that emits a
// constant color, such as the marker of a light source.
type Emissive struct {
	Program  render.Handle
	Settings *render.Settings
	Color    [3]float32
}

// TexRef identifies a texture and how it is mapped.
type TexRef struct {
	Texture render.Handle
	Repeat  [2]float32
	Offset  [2]float32
}

// Textured defines properties of the textured material.
// When Lighting is set, its program also consumes the
// directional light, the eye position and the material
// coefficients.
type Textured struct {
	Program   render.Handle
	Settings  *render.Settings
	Texture   TexRef
	Lighting  bool
	Shininess float32
	Ambient   [3]float32
	Diffuse   [3]float32
	Specular  [3]float32
}

// Uniforms consumed by the lit path of Textured.
var (
	lightReqs = []string{
		"light_directional.direction",
		"light_directional.ambient",
		"light_directional.diffuse",
		"light_directional.specular",
		"view_pos",
	}
	coefReqs = []string{
		"material.shininess",
		"material.ambient",
		"material.diffuse",
		"material.specular",
	}
)

// NewBasic creates a new basic material.
func NewBasic(prop *Basic) (*Material, error) {
	s, err := settings(prop.Program, prop.Settings)
	if err != nil {
		return nil, err
	}
	return &Material{
		kind:     KBasic,
		prog:     prop.Program,
		settings: s,
	}, nil
}

// NewEmissive creates a new emissive material.
func NewEmissive(prop *Emissive) (*Material, error) {
	s, err := settings(prop.Program, prop.Settings)
	if err != nil {
		return nil, err
	}
	if !unit(prop.Color) {
		return nil, newErr("Emissive.Color outside [0.0, 1.0] interval")
	}
	return &Material{
		kind:     KEmissive,
		prog:     prop.Program,
		settings: s,
		reqs:     []string{"light_color"},
		vals:     map[string]any{"light_color": linear.V3(prop.Color)},
	}, nil
}

// NewTextured creates a new textured material.
func NewTextured(prop *Textured) (*Material, error) {
	s, err := settings(prop.Program, prop.Settings)
	if err != nil {
		return nil, err
	}
	if prop.Texture.Texture == 0 {
		return nil, newErr("nil TexRef.Texture")
	}
	repeat := prop.Texture.Repeat
	if repeat == [2]float32{} {
		repeat = [2]float32{1, 1}
	}
	m := &Material{
		kind:     KTextured,
		prog:     prop.Program,
		settings: s,
		reqs:     []string{"texture", "uv_repeat", "uv_offset", "bool_lighting"},
		vals: map[string]any{
			"texture":       prop.Texture.Texture,
			"uv_repeat":     repeat,
			"uv_offset":     prop.Texture.Offset,
			"bool_lighting": prop.Lighting,
		},
	}
	if !prop.Lighting {
		return m, nil
	}
	if prop.Shininess < 0 {
		return nil, newErr("Textured.Shininess less than 0.0")
	}
	for _, c := range [...]struct {
		rgb  [3]float32
		name string
	}{
		{prop.Ambient, "ambient"},
		{prop.Diffuse, "diffuse"},
		{prop.Specular, "specular"},
	} {
		if !unit(c.rgb) {
			return nil, newErr("Textured." + c.name + " outside [0.0, 1.0] interval")
		}
		m.vals["material."+c.name] = linear.V3(c.rgb)
	}
	m.vals["material.shininess"] = prop.Shininess
	m.reqs = append(m.reqs, lightReqs...)
	m.reqs = append(m.reqs, coefReqs...)
	return m, nil
}

func settings(prog render.Handle, s *render.Settings) (render.Settings, error) {
	if prog == 0 {
		return render.Settings{}, newErr("nil program handle")
	}
	if s == nil {
		return render.DefaultSettings(), nil
	}
	switch s.Style {
	case render.Triangles, render.TriStrip, render.Lines, render.LineStrip, render.Points:
	default:
		return render.Settings{}, newErr("undefined render.Style constant")
	}
	if s.LineWidth <= 0 {
		return render.Settings{}, newErr("Settings.LineWidth less than or equal to 0.0")
	}
	if s.PointSize <= 0 {
		return render.Settings{}, newErr("Settings.PointSize less than or equal to 0.0")
	}
	return *s, nil
}

func unit(rgb [3]float32) bool {
	for _, x := range rgb {
		if x < 0 || x > 1 {
			return false
		}
	}
	return true
}
