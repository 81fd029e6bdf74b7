// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package drone

import (
	"github.com/chewxy/math32"

	"github.com/gviegas/physcene/linear"
	"github.com/gviegas/physcene/physics"
)

// Lemniscate returns n poses evenly spaced in parameter
// along a lemniscate of Bernoulli of the given half width,
// lying on the y = height plane. The z axis of each pose
// follows the curve.
func Lemniscate(radius, height float32, n int) []physics.Pose {
	ps := make([]physics.Pose, n)
	for i := range ps {
		t := float32(i) / float32(n) * 2 * math32.Pi
		s, c := math32.Sin(t), math32.Cos(t)
		d := 1 + s*s
		x := radius * c / d
		z := radius * s * c / d
		dx := -radius * s * (d + 2*c*c) / (d * d)
		dz := radius * (math32.Cos(2*t)*d - 2*s*s*c*c) / (d * d)

		var r linear.M3
		r.FromEuler(math32.Atan2(dx, dz), 0, 0)
		ps[i].Pos = linear.V3{x, height, z}
		ps[i].Rot.FromM3(&r)
	}
	return ps
}
