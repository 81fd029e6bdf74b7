// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"github.com/chewxy/math32"
)

// Q is a quaternion of float32.
// V holds the imaginary part and R the real part.
type Q struct {
	V V3
	R float32
}

// I makes q an identity quaternion.
func (q *Q) I() { *q = Q{R: 1} }

// Mul sets q to contain l ⋅ r.
func (q *Q) Mul(l, r *Q) {
	var v, w V3
	v.Scale(r.R, &l.V)
	w.Scale(l.R, &r.V)
	v.Add(&v, &w)
	w.Cross(&l.V, &r.V)
	d := l.V.Dot(&r.V)
	q.V.Add(&v, &w)
	q.R = l.R*r.R - d
}

// Rotate sets q to contain a rotation of angle radians
// about axis. axis need not be normalized.
func (q *Q) Rotate(angle float32, axis *V3) {
	var v V3
	v.Norm(axis)
	s, c := math32.Sin(angle*0.5), math32.Cos(angle*0.5)
	q.V.Scale(s, &v)
	q.R = c
}

// Len returns the length of q.
func (q *Q) Len() float32 { return math32.Sqrt(q.V.Dot(&q.V) + q.R*q.R) }

// Norm sets q to contain p normalized.
func (q *Q) Norm(p *Q) {
	il := 1 / p.Len()
	q.V.Scale(il, &p.V)
	q.R = p.R * il
}

// Conj sets q to contain the conjugate of p.
func (q *Q) Conj(p *Q) {
	q.V.Scale(-1, &p.V)
	q.R = p.R
}

// FromM3 sets q to contain the rotation described by m.
// The columns of m are normalized first, so a rotation
// block that carries scale still yields a unit quaternion.
// Skew is not removed.
func (q *Q) FromM3(m *M3) {
	var n M3
	for i := range n {
		if l := m[i].Len(); l > 0 {
			n[i].Scale(1/l, &m[i])
		}
	}
	// r(row, col) == n[col][row].
	r00, r11, r22 := n[0][0], n[1][1], n[2][2]
	switch tr := r00 + r11 + r22; {
	case tr > 0:
		s := math32.Sqrt(tr+1) * 2
		q.R = s / 4
		q.V = V3{(n[1][2] - n[2][1]) / s, (n[2][0] - n[0][2]) / s, (n[0][1] - n[1][0]) / s}
	case r00 > r11 && r00 > r22:
		s := math32.Sqrt(1+r00-r11-r22) * 2
		q.R = (n[1][2] - n[2][1]) / s
		q.V = V3{s / 4, (n[1][0] + n[0][1]) / s, (n[2][0] + n[0][2]) / s}
	case r11 > r22:
		s := math32.Sqrt(1+r11-r00-r22) * 2
		q.R = (n[2][0] - n[0][2]) / s
		q.V = V3{(n[1][0] + n[0][1]) / s, s / 4, (n[2][1] + n[1][2]) / s}
	default:
		s := math32.Sqrt(1+r22-r00-r11) * 2
		q.R = (n[0][1] - n[1][0]) / s
		q.V = V3{(n[2][0] + n[0][2]) / s, (n[2][1] + n[1][2]) / s, s / 4}
	}
	q.Norm(q)
}
