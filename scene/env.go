// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"github.com/gviegas/physcene/linear"
	"github.com/gviegas/physcene/render"
)

// Environment is the global state of a scene.
// It is handed to the physics world and to the
// renderer on every frame.
type Environment struct {
	Gravity linear.V3
	Light   render.Light
}

// DefaultEnvironment returns an environment with Earth
// gravity and a white light pointing down.
func DefaultEnvironment() Environment {
	return Environment{
		Gravity: linear.V3{0, -9.8, 0},
		Light: render.Light{
			Direction: linear.V3{0, -1, 0},
			Ambient:   linear.V3{0.3, 0.3, 0.3},
			Diffuse:   linear.V3{1, 1, 1},
			Specular:  linear.V3{1, 1, 1},
		},
	}
}
