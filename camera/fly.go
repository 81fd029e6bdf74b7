// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package camera

import (
	"github.com/chewxy/math32"

	"github.com/gviegas/physcene/linear"
)

// Key is an abstract input key.
type Key int

// Keys read by FlyController.
const (
	KeyForward Key = iota
	KeyBack
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyTurnLeft
	KeyTurnRight
	KeyLookUp
	KeyLookDown
)

// Input reports which keys are held down.
type Input interface {
	Pressed(k Key) bool
}

// MaxPitch is the largest pitch a FlyController allows,
// in radians. Looking straight up or down would make the
// view undefined.
const MaxPitch = 89 * math32.Pi / 180

// FlyController moves a camera freely.
// Translation follows the camera's facing, except for
// KeyUp and KeyDown, which move along the world y axis.
type FlyController struct {
	Input    Input
	Speed    float32
	TurnRate float32
	yaw      float32
	pitch    float32
}

// NewFly creates a FlyController that starts from the
// current orientation of c.
func NewFly(c *Camera, in Input) *FlyController {
	yaw, pitch, _ := c.YawPitchRoll()
	f := &FlyController{Input: in, Speed: 4, TurnRate: 1.5, yaw: yaw}
	f.setPitch(-pitch)
	return f
}

// Angles returns the current yaw and pitch.
// Positive pitch looks up.
func (f *FlyController) Angles() (yaw, pitch float32) { return f.yaw, f.pitch }

func (f *FlyController) setPitch(p float32) { f.pitch = max(-MaxPitch, min(MaxPitch, p)) }

func (f *FlyController) axis(pos, neg Key) float32 {
	var a float32
	if f.Input.Pressed(pos) {
		a++
	}
	if f.Input.Pressed(neg) {
		a--
	}
	return a
}

// Move implements Controller.
func (f *FlyController) Move(c *Camera, dt float32) {
	if f.Input == nil {
		return
	}
	turn := f.TurnRate * dt
	f.yaw += turn * f.axis(KeyTurnLeft, KeyTurnRight)
	f.setPitch(f.pitch + turn*f.axis(KeyLookUp, KeyLookDown))

	var r linear.M3
	r.FromEuler(f.yaw, -f.pitch, 0)
	c.SetRotation(&r)

	step := f.Speed * dt
	var d, v linear.V3
	v.Scale(step*f.axis(KeyForward, KeyBack), &r[2])
	d.Add(&d, &v)
	v.Scale(step*f.axis(KeyLeft, KeyRight), &r[0])
	d.Add(&d, &v)
	d[1] += step * f.axis(KeyUp, KeyDown)
	if d != (linear.V3{}) {
		c.Translate(d[0], d[1], d[2], false)
	}
}
