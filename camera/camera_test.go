// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package camera

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/physcene/linear"
	"github.com/gviegas/physcene/node"
)

func TestNew(t *testing.T) {
	c, err := New(70, 1, 0.1, 1000)
	require.NoError(t, err)
	assert.True(t, c.Is(node.Camera))
	fov, aspect, near, far := c.Frustum()
	assert.Equal(t, []float32{70, 1, 0.1, 1000}, []float32{fov, aspect, near, far})

	for _, x := range [][4]float32{
		{0, 1, 0.1, 10},
		{180, 1, 0.1, 10},
		{70, 0, 0.1, 10},
		{70, 1, 0, 10},
		{70, 1, 10, 10},
	} {
		_, err := New(x[0], x[1], x[2], x[3])
		var de *linear.DomainError
		assert.True(t, errors.As(err, &de), "%v: have %v", x, err)
	}
}

func TestSetFrustum(t *testing.T) {
	c, err := New(70, 1, 0.1, 1000)
	require.NoError(t, err)
	require.NoError(t, c.Update())
	p := c.Projection()

	require.Error(t, c.SetAspect(-1))
	require.NoError(t, c.Update())
	assert.Equal(t, p, c.Projection())

	require.NoError(t, c.SetAspect(2))
	require.NoError(t, c.Update())
	q := c.Projection()
	assert.Equal(t, p[0][0]/2, q[0][0])
	assert.Equal(t, p[1][1], q[1][1])
	assert.Equal(t, float32(-1), q[2][3])
}

func TestUpdate(t *testing.T) {
	c, err := New(70, 1, 0.1, 1000)
	require.NoError(t, err)
	c.SetPosition(linear.V3{1, 2, 3})
	require.NoError(t, c.Update())
	v := c.View()
	require.NoError(t, c.Update())
	assert.Equal(t, v, c.View())

	// The eye maps to the origin of the view space.
	var o linear.V4
	eye := linear.V4{1, 2, 3, 1}
	o.Mul(&v, &eye)
	for i, x := range [4]float32{0, 0, 0, 1} {
		assert.InDelta(t, x, o[i], 1e-5)
	}

	// A point ahead of the eye lies on the negative z axis.
	ahead := linear.V4{1, 2, 8, 1}
	o.Mul(&v, &ahead)
	assert.InDelta(t, -5, o[2], 1e-5)
	assert.InDelta(t, 0, o[0], 1e-5)
	assert.InDelta(t, 0, o[1], 1e-5)
}

func TestUpdateParent(t *testing.T) {
	c, err := New(70, 1, 0.1, 1000)
	require.NoError(t, err)
	p := node.New()
	require.NoError(t, p.Insert(c.Node))
	p.Translate(0, 5, 0, false)
	require.NoError(t, c.Update())
	eye := c.Eye()
	assert.Equal(t, linear.V3{0, 5, 0}, eye)
	v := c.View()
	assert.InDelta(t, -5, v[3][1], 1e-6)
}

func TestUpdateDegenerate(t *testing.T) {
	c, err := New(70, 1, 0.1, 1000)
	require.NoError(t, err)
	require.NoError(t, c.Update())
	v := c.View()

	var r linear.M3
	r.FromEuler(0, -math32.Pi/2, 0)
	c.SetRotation(&r)
	c.Translate(1, 1, 1, false)
	err = c.Update()
	var de *linear.DomainError
	require.True(t, errors.As(err, &de), "have %v", err)
	assert.Equal(t, v, c.View())
}

type keys map[Key]bool

func (k keys) Pressed(key Key) bool { return k[key] }

func TestFly(t *testing.T) {
	c, err := New(70, 1, 0.1, 1000)
	require.NoError(t, err)
	in := keys{}
	f := NewFly(c, in)
	c.SetController(f)

	in[KeyForward] = true
	c.Move(0.5)
	assert.Equal(t, linear.V3{0, 0, 2}, c.LocalPosition())
	in[KeyForward] = false

	in[KeyUp] = true
	c.Move(0.25)
	assert.Equal(t, linear.V3{0, 1, 2}, c.LocalPosition())
	in[KeyUp] = false

	in[KeyTurnLeft] = true
	c.Move(math32.Pi / 2 / f.TurnRate)
	in[KeyTurnLeft] = false
	fwd := c.Forward()
	want := linear.V3{1, 0, 0}
	assert.True(t, fwd.Near(&want, 1e-5), "have %v", fwd)
	require.NoError(t, c.Update())

	c.SetController(nil)
	in[KeyForward] = true
	p := c.LocalPosition()
	c.Move(1)
	assert.Equal(t, p, c.LocalPosition())
}

func TestFlyPitchClamp(t *testing.T) {
	c, err := New(70, 1, 0.1, 1000)
	require.NoError(t, err)
	f := NewFly(c, keys{KeyLookUp: true})
	c.SetController(f)
	for range 100 {
		c.Move(0.1)
		require.NoError(t, c.Update())
	}
	_, pitch := f.Angles()
	assert.Equal(t, float32(MaxPitch), pitch)
	fwd := c.Forward()
	assert.Greater(t, fwd[1], float32(0.99))

	f.Input = keys{KeyLookDown: true}
	for range 200 {
		c.Move(0.1)
	}
	_, pitch = f.Angles()
	assert.Equal(t, float32(-MaxPitch), pitch)
	require.NoError(t, c.Update())
}

func TestNewFly(t *testing.T) {
	c, err := New(70, 1, 0.1, 1000)
	require.NoError(t, err)
	var r linear.M3
	r.FromEuler(0.5, -0.25, 0)
	c.SetRotation(&r)
	f := NewFly(c, keys{})
	yaw, pitch := f.Angles()
	assert.InDelta(t, 0.5, yaw, 1e-5)
	assert.InDelta(t, 0.25, pitch, 1e-5)

	// Moving without input keeps the orientation.
	c.Move(1)
	fwd := c.Forward()
	want := r[2]
	assert.True(t, fwd.Near(&want, 1e-5), "have %v\nwant %v", fwd, want)
}
