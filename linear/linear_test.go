// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"testing"

	"github.com/chewxy/math32"
)

func near(a, b float32) bool { return math32.Abs(a-b) <= eps }

func TestV3(t *testing.T) {
	var u V3
	v := V3{3, 0, -4}
	w := V3{1, 2, 2}

	if u.Add(&v, &w); u != (V3{4, 2, -2}) {
		t.Fatalf("V3.Add\nhave %v\nwant [4 2 -2]", u)
	}
	if u.Sub(&w, &v); u != (V3{-2, 2, 6}) {
		t.Fatalf("V3.Sub\nhave %v\nwant [-2 2 6]", u)
	}
	if d := v.Dot(&w); d != -5 {
		t.Fatalf("V3.Dot\nhave %v\nwant -5", d)
	}
	if l := v.Len(); l != 5 {
		t.Fatalf("V3.Len\nhave %v\nwant 5", l)
	}
	if l := w.Len(); l != 3 {
		t.Fatalf("V3.Len\nhave %v\nwant 3", l)
	}
	if u.Norm(&v); !u.Near(&V3{0.6, 0, -0.8}, eps) {
		t.Fatalf("V3.Norm\nhave %v\nwant [0.6 0 -0.8]", u)
	}

	// Operands may alias the receiver.
	u = V3{1, 0, 0}
	if u.Cross(&u, &V3{0, 0, 1}); u != (V3{0, -1, 0}) {
		t.Fatalf("V3.Cross (aliased)\nhave %v\nwant [0 -1 0]", u)
	}
	if u.Cross(&v, &w); u.Dot(&v) != 0 || u.Dot(&w) != 0 {
		t.Fatalf("V3.Cross\n%v is not orthogonal to %v and %v", u, v, w)
	}

	if !v.Near(&V3{3 + eps/2, 0, -4}, eps) || v.Near(&V3{3.1, 0, -4}, eps) {
		t.Fatal("V3.Near: wrong tolerance")
	}

	// Columns of m are the images of the basis vectors.
	m := M3{{0, 1, 0}, {-1, 0, 0}, {0, 0, 2}}
	if u.Mul(&m, &V3{1, 1, 1}); u != (V3{-1, 1, 2}) {
		t.Fatalf("V3.Mul\nhave %v\nwant [-1 1 2]", u)
	}
}

func TestV4(t *testing.T) {
	var u V4
	v := V4{1, -1, 1, -1}
	w := V4{0, 2, 0, 2}

	if u.Add(&v, &w); u != (V4{1, 1, 1, 1}) {
		t.Fatalf("V4.Add\nhave %v\nwant [1 1 1 1]", u)
	}
	if u.Sub(&v, &w); u != (V4{1, -3, 1, -3}) {
		t.Fatalf("V4.Sub\nhave %v\nwant [1 -3 1 -3]", u)
	}
	if u.Scale(0.5, &w); u != (V4{0, 1, 0, 1}) {
		t.Fatalf("V4.Scale\nhave %v\nwant [0 1 0 1]", u)
	}
	if d := v.Dot(&w); d != -4 {
		t.Fatalf("V4.Dot\nhave %v\nwant -4", d)
	}
	if l := v.Len(); l != 2 {
		t.Fatalf("V4.Len\nhave %v\nwant 2", l)
	}
	if u.Norm(&v); u != (V4{0.5, -0.5, 0.5, -0.5}) {
		t.Fatalf("V4.Norm\nhave %v\nwant [0.5 -0.5 0.5 -0.5]", u)
	}

	// Points carry translation, directions do not.
	var m M4
	m.Translate(5, 6, 7)
	p := V4{1, 1, 1, 1}
	if p.Mul(&m, &p); p != (V4{6, 7, 8, 1}) {
		t.Fatalf("V4.Mul (point)\nhave %v\nwant [6 7 8 1]", p)
	}
	d := V4{1, 1, 1, 0}
	if d.Mul(&m, &d); d != (V4{1, 1, 1, 0}) {
		t.Fatalf("V4.Mul (direction)\nhave %v\nwant [1 1 1 0]", d)
	}
}

func TestM3(t *testing.T) {
	var l M3
	// Quarter turn about z.
	m := M3{{0, 1, 0}, {-1, 0, 0}, {0, 0, 1}}

	if l.Mul(&m, &m); l != (M3{{-1, 0, 0}, {0, -1, 0}, {0, 0, 1}}) {
		t.Fatalf("M3.Mul\nhave %v\nwant half turn", l)
	}
	if l.Transpose(&m); l != (M3{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}}) {
		t.Fatalf("M3.Transpose\nhave %v", l)
	}
	var i M3
	if i.Invert(&m); i != l {
		t.Fatalf("M3.Invert\nhave %v\nwant %v", i, l)
	}

	// Inversion of a non-orthogonal matrix, in place.
	n := M3{{2, 0, 0}, {1, 4, 0}, {0, 0, 0.5}}
	o := n
	o.Invert(&o)
	l.Mul(&n, &o)
	i.I()
	for c := range l {
		if !l[c].Near(&i[c], eps) {
			t.Fatalf("M3.Invert (aliased)\nn⋅n⁻¹ = %v", l)
		}
	}
}

func TestM4(t *testing.T) {
	var tr, r, s, x M4
	tr.Translate(1, -2, 3)
	r.RotateY(0.5)
	s.Scale(2, 2, 2)
	x.Mul(&tr, &r)
	x.Mul(&x, &s)

	var inv, id M4
	inv.Invert(&x)
	inv.Mul(&inv, &x)
	id.I()
	if !inv.Near(&id, eps) {
		t.Fatalf("M4.Invert\nx⁻¹⋅x = %v", inv)
	}

	// The aliased product matches the plain one.
	var want M4
	want.Mul(&x, &r)
	have := x
	have.Mul(&have, &r)
	if have != want {
		t.Fatalf("M4.Mul (aliased)\nhave %v\nwant %v", have, want)
	}

	var tt M4
	tt.Transpose(&x)
	tt.Transpose(&tt)
	if tt != x {
		t.Fatalf("M4.Transpose twice\nhave %v\nwant %v", tt, x)
	}

	if p := x.Translation(); p != (V3{1, -2, 3}) {
		t.Fatalf("M4.Translation\nhave %v\nwant [1 -2 3]", p)
	}
	x.SetTranslation(&V3{})
	if p := x.Translation(); p != (V3{}) {
		t.Fatalf("M4.SetTranslation\nhave %v", p)
	}

	// Scale lives in the columns of the rotation block.
	rot := x.Rotation()
	for i := range rot {
		if !near(rot[i].Len(), 2) {
			t.Fatalf("M4.Rotation: column %d has length %v", i, rot[i].Len())
		}
	}
	var m3 M3
	m3.I()
	x.SetRotation(&m3)
	if x != id {
		t.Fatalf("M4.SetRotation\nhave %v\nwant identity", x)
	}
}

func TestQ(t *testing.T) {
	var q, p, r Q
	q.I()
	p.Rotate(0.8, &V3{0, 0, 3})
	if r.Mul(&q, &p); r != p {
		t.Fatalf("Q.Mul (identity)\nhave %v\nwant %v", r, p)
	}
	if !near(p.Len(), 1) {
		t.Fatalf("Q.Rotate: length %v", p.Len())
	}

	// A unit quaternion times its conjugate is the identity.
	var c Q
	c.Conj(&p)
	r.Mul(&p, &c)
	if !r.V.Near(&V3{}, eps) || !near(r.R, 1) {
		t.Fatalf("Q.Conj\np⋅p* = %v", r)
	}

	// Two half angles compose into the full angle.
	var h Q
	h.Rotate(0.4, &V3{0, 0, 1})
	h.Mul(&h, &h)
	if !h.V.Near(&p.V, eps) || !near(h.R, p.R) {
		t.Fatalf("Q.Mul (aliased)\nhave %v\nwant %v", h, p)
	}

	q = Q{V: V3{3, 0, 0}, R: 4}
	q.Norm(&q)
	if !q.V.Near(&V3{0.6, 0, 0}, eps) || !near(q.R, 0.8) {
		t.Fatalf("Q.Norm\nhave %v\nwant {[0.6 0 0] 0.8}", q)
	}
}
