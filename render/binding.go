// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package render

import (
	"github.com/pkg/errors"

	"github.com/gviegas/physcene/linear"
)

const prefix = "render: "

// Light is a directional light.
type Light struct {
	Direction linear.V3
	Ambient   linear.V3
	Diffuse   linear.V3
	Specular  linear.V3
}

// Frame holds the values shared by every draw call of
// a single frame.
type Frame struct {
	Projection linear.M4
	View       linear.M4
	ViewPos    linear.V3
	Light      Light
}

// Source provides the uniform values that a material owns.
type Source interface {
	Uniform(name string) (any, bool)
}

// Binding produces the value of a single uniform.
// model is the world matrix of the node being drawn.
type Binding func(f *Frame, model *linear.M4) any

// Table maps uniform names to the bindings that
// produce their values.
// Names not present in the table are looked up in
// the material's Source.
type Table map[string]Binding

// NewTable creates a table containing bindings for the
// camera matrices, the model matrix, the eye position
// and the directional light.
func NewTable() Table {
	return Table{
		Projection: func(f *Frame, _ *linear.M4) any { return f.Projection },
		View:       func(f *Frame, _ *linear.M4) any { return f.View },
		Model:      func(_ *Frame, m *linear.M4) any { return *m },
		"view_pos": func(f *Frame, _ *linear.M4) any { return f.ViewPos },

		"light_directional.direction": func(f *Frame, _ *linear.M4) any { return f.Light.Direction },
		"light_directional.ambient":   func(f *Frame, _ *linear.M4) any { return f.Light.Ambient },
		"light_directional.diffuse":   func(f *Frame, _ *linear.M4) any { return f.Light.Diffuse },
		"light_directional.specular":  func(f *Frame, _ *linear.M4) any { return f.Light.Specular },
	}
}

// UnboundError is the error returned by Table.Resolve
// when a required uniform has no binding and the
// material does not provide it.
type UnboundError struct {
	Name string
}

func (e *UnboundError) Error() string { return prefix + "unbound uniform " + e.Name }

// Resolve produces the uniform set for a draw.
// The camera and model matrices are always present.
// Every name in reqs is resolved through t first and
// through src next.
func (t Table) Resolve(reqs []string, f *Frame, model *linear.M4, src Source) (UniformSet, error) {
	u := UniformSet{
		Projection: f.Projection,
		View:       f.View,
		Model:      *model,
	}
	for _, name := range reqs {
		if _, ok := u[name]; ok {
			continue
		}
		if b, ok := t[name]; ok {
			u[name] = b(f, model)
			continue
		}
		if src != nil {
			if v, ok := src.Uniform(name); ok {
				u[name] = v
				continue
			}
		}
		return nil, errors.WithStack(&UnboundError{name})
	}
	return u, nil
}
