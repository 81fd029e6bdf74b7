// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"github.com/chewxy/math32"
)

// M3 is a column-major 3x3 matrix of float32.
type M3 [3]V3

// I makes m an identity matrix.
func (m *M3) I() { *m = M3{{1}, {0, 1}, {0, 0, 1}} }

// Mul sets m to contain l ⋅ r.
func (m *M3) Mul(l, r *M3) {
	var n M3
	for i := range n {
		for j := range n {
			for k := range n {
				n[i][j] += l[k][j] * r[i][k]
			}
		}
	}
	*m = n
}

// Transpose sets m to contain the transpose of n.
func (m *M3) Transpose(n *M3) {
	for i := range m {
		m[i][i] = n[i][i]
		for j := i + 1; j < len(m); j++ {
			m[i][j], m[j][i] = n[j][i], n[i][j]
		}
	}
}

// Invert sets m to contain the inverse of n.
func (m *M3) Invert(n *M3) {
	s0 := n[1][1]*n[2][2] - n[1][2]*n[2][1]
	s1 := n[1][0]*n[2][2] - n[1][2]*n[2][0]
	s2 := n[1][0]*n[2][1] - n[1][1]*n[2][0]
	idet := 1 / (n[0][0]*s0 - n[0][1]*s1 + n[0][2]*s2)
	var x M3
	x[0][0] = s0 * idet
	x[0][1] = -(n[0][1]*n[2][2] - n[0][2]*n[2][1]) * idet
	x[0][2] = (n[0][1]*n[1][2] - n[0][2]*n[1][1]) * idet
	x[1][0] = -s1 * idet
	x[1][1] = (n[0][0]*n[2][2] - n[0][2]*n[2][0]) * idet
	x[1][2] = -(n[0][0]*n[1][2] - n[0][2]*n[1][0]) * idet
	x[2][0] = s2 * idet
	x[2][1] = -(n[0][0]*n[2][1] - n[0][1]*n[2][0]) * idet
	x[2][2] = (n[0][0]*n[1][1] - n[0][1]*n[1][0]) * idet
	*m = x
}

// FromQ sets m to contain the rotation described by q.
// q is assumed to be a unit quaternion.
func (m *M3) FromQ(q *Q) {
	x, y, z, w := q.V[0], q.V[1], q.V[2], q.R
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z
	*m = M3{
		{1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy)},
		{2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx)},
		{2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy)},
	}
}

// FromEuler sets m to contain the rotation
//
//	Ry(yaw) ⋅ Rx(pitch) ⋅ Rz(roll)
//
// This is the only Euler convention used in this module.
func (m *M3) FromEuler(yaw, pitch, roll float32) {
	sy, cy := math32.Sin(yaw), math32.Cos(yaw)
	sp, cp := math32.Sin(pitch), math32.Cos(pitch)
	sr, cr := math32.Sin(roll), math32.Cos(roll)
	*m = M3{
		{cy*cr + sy*sp*sr, cp * sr, -sy*cr + cy*sp*sr},
		{-cy*sr + sy*sp*cr, cp * cr, sy*sr + cy*sp*cr},
		{sy * cp, -sp, cy * cp},
	}
}

// Euler returns the yaw, pitch and roll angles of m,
// in radians, following the convention of FromEuler.
// Pitch is in the range [-π/2, π/2]. At the poles,
// roll is reported as zero and the whole rotation about
// the vertical axis is attributed to yaw.
func (m *M3) Euler() (yaw, pitch, roll float32) {
	s := -m[2][1]
	pitch = math32.Asin(max(-1, min(1, s)))
	if math32.Abs(s) < 0.9999 {
		yaw = math32.Atan2(m[2][0], m[2][2])
		roll = math32.Atan2(m[0][1], m[1][1])
	} else {
		yaw = math32.Atan2(-m[0][2], m[0][0])
	}
	return
}

// M4 is a column-major 4x4 matrix of float32.
type M4 [4]V4

// I makes m an identity matrix.
func (m *M4) I() { *m = M4{{1}, {0, 1}, {0, 0, 1}, {0, 0, 0, 1}} }

// Mul sets m to contain l ⋅ r.
func (m *M4) Mul(l, r *M4) {
	var n M4
	for i := range n {
		for j := range n {
			for k := range n {
				n[i][j] += l[k][j] * r[i][k]
			}
		}
	}
	*m = n
}

// Apply composes delta into m.
// If local is true, delta is expressed in m's own frame
// and m is set to m ⋅ delta. Otherwise delta is expressed
// in a frame aligned with the root and m is set to
// delta ⋅ m.
func (m *M4) Apply(delta *M4, local bool) {
	if local {
		m.Mul(m, delta)
	} else {
		m.Mul(delta, m)
	}
}

// Transpose sets m to contain the transpose of n.
func (m *M4) Transpose(n *M4) {
	for i := range m {
		m[i][i] = n[i][i]
		for j := i + 1; j < len(m); j++ {
			m[i][j], m[j][i] = n[j][i], n[i][j]
		}
	}
}

// Invert sets m to contain the inverse of n.
func (m *M4) Invert(n *M4) {
	s0 := n[0][0]*n[1][1] - n[0][1]*n[1][0]
	s1 := n[0][0]*n[1][2] - n[0][2]*n[1][0]
	s2 := n[0][0]*n[1][3] - n[0][3]*n[1][0]
	s3 := n[0][1]*n[1][2] - n[0][2]*n[1][1]
	s4 := n[0][1]*n[1][3] - n[0][3]*n[1][1]
	s5 := n[0][2]*n[1][3] - n[0][3]*n[1][2]
	c0 := n[2][0]*n[3][1] - n[2][1]*n[3][0]
	c1 := n[2][0]*n[3][2] - n[2][2]*n[3][0]
	c2 := n[2][0]*n[3][3] - n[2][3]*n[3][0]
	c3 := n[2][1]*n[3][2] - n[2][2]*n[3][1]
	c4 := n[2][1]*n[3][3] - n[2][3]*n[3][1]
	c5 := n[2][2]*n[3][3] - n[2][3]*n[3][2]
	idet := 1 / (s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0)
	var x M4
	x[0][0] = (c5*n[1][1] - c4*n[1][2] + c3*n[1][3]) * idet
	x[0][1] = (-c5*n[0][1] + c4*n[0][2] - c3*n[0][3]) * idet
	x[0][2] = (s5*n[3][1] - s4*n[3][2] + s3*n[3][3]) * idet
	x[0][3] = (-s5*n[2][1] + s4*n[2][2] - s3*n[2][3]) * idet
	x[1][0] = (-c5*n[1][0] + c2*n[1][2] - c1*n[1][3]) * idet
	x[1][1] = (c5*n[0][0] - c2*n[0][2] + c1*n[0][3]) * idet
	x[1][2] = (-s5*n[3][0] + s2*n[3][2] - s1*n[3][3]) * idet
	x[1][3] = (s5*n[2][0] - s2*n[2][2] + s1*n[2][3]) * idet
	x[2][0] = (c4*n[1][0] - c2*n[1][1] + c0*n[1][3]) * idet
	x[2][1] = (-c4*n[0][0] + c2*n[0][1] - c0*n[0][3]) * idet
	x[2][2] = (s4*n[3][0] - s2*n[3][1] + s0*n[3][3]) * idet
	x[2][3] = (-s4*n[2][0] + s2*n[2][1] - s0*n[2][3]) * idet
	x[3][0] = (-c3*n[1][0] + c1*n[1][1] - c0*n[1][2]) * idet
	x[3][1] = (c3*n[0][0] - c1*n[0][1] + c0*n[0][2]) * idet
	x[3][2] = (-s3*n[3][0] + s1*n[3][1] - s0*n[3][2]) * idet
	x[3][3] = (s3*n[2][0] - s1*n[2][1] + s0*n[2][2]) * idet
	*m = x
}

// Translate sets m to contain a translation.
func (m *M4) Translate(x, y, z float32) {
	*m = M4{{1}, {0, 1}, {0, 0, 1}, {x, y, z, 1}}
}

// Scale sets m to contain a scale.
// Uniform scale is Scale(s, s, s).
func (m *M4) Scale(x, y, z float32) {
	*m = M4{{x}, {0, y}, {0, 0, z}, {0, 0, 0, 1}}
}

// RotateX sets m to contain a rotation of angle
// radians about the x axis.
func (m *M4) RotateX(angle float32) {
	s, c := math32.Sin(angle), math32.Cos(angle)
	*m = M4{{1}, {0, c, s}, {0, -s, c}, {0, 0, 0, 1}}
}

// RotateY sets m to contain a rotation of angle
// radians about the y axis.
func (m *M4) RotateY(angle float32) {
	s, c := math32.Sin(angle), math32.Cos(angle)
	*m = M4{{c, 0, -s}, {0, 1}, {s, 0, c}, {0, 0, 0, 1}}
}

// RotateZ sets m to contain a rotation of angle
// radians about the z axis.
func (m *M4) RotateZ(angle float32) {
	s, c := math32.Sin(angle), math32.Cos(angle)
	*m = M4{{c, s}, {-s, c}, {0, 0, 1}, {0, 0, 0, 1}}
}

// RotateQ sets m to contain the rotation described by q.
func (m *M4) RotateQ(q *Q) {
	var r M3
	r.FromQ(q)
	m.I()
	m.SetRotation(&r)
}

// Perspective sets m to contain a perspective projection.
// fov is the vertical field of view in degrees; it must
// lie in the open interval (0, 180). aspect is width over
// height. The clip volume follows the OpenGL convention,
// so m[2][3] is -1.
// It fails with a *DomainError and leaves m unchanged if
// any parameter is out of range.
func (m *M4) Perspective(fov, aspect, near, far float32) error {
	switch {
	case !(fov > 0 && fov < 180):
		return newDomainErr("Perspective", "fov not in (0, 180)")
	case !(aspect > 0):
		return newDomainErr("Perspective", "aspect <= 0")
	case !(near > 0):
		return newDomainErr("Perspective", "near <= 0")
	case !(far > near):
		return newDomainErr("Perspective", "far <= near")
	}
	d := 1 / math32.Tan(fov*math32.Pi/360)
	b := (far + near) / (near - far)
	c := 2 * far * near / (near - far)
	*m = M4{{d / aspect}, {0, d}, {0, 0, b, -1}, {0, 0, c, 0}}
	return nil
}

// LookAt sets m to contain a view transform for an eye
// placed at eye, facing target, with up as the reference
// up direction.
// It fails with a *DomainError and leaves m unchanged if
// target equals eye or if the facing direction is parallel
// to up.
func (m *M4) LookAt(eye, target, up *V3) error {
	const eps = 1e-6
	var f, r, u V3
	f.Sub(target, eye)
	if f.Len() < eps {
		return newDomainErr("LookAt", "target equals eye")
	}
	f.Norm(&f)
	r.Cross(&f, up)
	if r.Len() < eps {
		return newDomainErr("LookAt", "forward parallel to up")
	}
	r.Norm(&r)
	u.Cross(&r, &f)
	*m = M4{
		{r[0], u[0], -f[0]},
		{r[1], u[1], -f[1]},
		{r[2], u[2], -f[2]},
		{-r.Dot(eye), -u.Dot(eye), f.Dot(eye), 1},
	}
	return nil
}

// Translation returns the translation column of m.
func (m *M4) Translation() V3 { return V3{m[3][0], m[3][1], m[3][2]} }

// SetTranslation replaces the translation column of m.
func (m *M4) SetTranslation(t *V3) { m[3][0], m[3][1], m[3][2] = t[0], t[1], t[2] }

// Col returns the upper three elements of the ith column of m.
func (m *M4) Col(i int) V3 { return V3{m[i][0], m[i][1], m[i][2]} }

// Rotation returns the upper-left 3x3 block of m.
// It carries scale, if any was applied.
func (m *M4) Rotation() (r M3) {
	for i := range r {
		r[i] = m.Col(i)
	}
	return
}

// SetRotation replaces the upper-left 3x3 block of m.
func (m *M4) SetRotation(r *M3) {
	for i := range r {
		m[i][0], m[i][1], m[i][2] = r[i][0], r[i][1], r[i][2]
	}
}

// Near reports whether every element of m is within eps
// of the corresponding element of n.
func (m *M4) Near(n *M4, eps float32) bool {
	for i := range m {
		for j := range m[i] {
			if math32.Abs(m[i][j]-n[i][j]) > eps {
				return false
			}
		}
	}
	return true
}
