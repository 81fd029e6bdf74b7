// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package scene

// Clock keeps the simulation time.
type Clock struct {
	// MaxDelta, if greater than zero, limits the step
	// handed to the physics world. Longer frames make
	// the simulation run behind the wall clock.
	MaxDelta float32

	time   float64
	delta  float32
	step   float32
	frames uint64
}

// Advance starts a new frame that lasted dt seconds and
// returns the step for it.
// Negative values of dt are taken as zero.
func (c *Clock) Advance(dt float32) float32 {
	dt = max(dt, 0)
	c.delta = dt
	if c.MaxDelta > 0 {
		dt = min(dt, c.MaxDelta)
	}
	c.step = dt
	c.time += float64(dt)
	c.frames++
	return dt
}

// Time returns the simulated time, in seconds.
func (c *Clock) Time() float64 { return c.time }

// Delta returns the unclamped duration of the current
// frame.
func (c *Clock) Delta() float32 { return c.delta }

// Step returns the step of the current frame.
func (c *Clock) Step() float32 { return c.step }

// Frames returns the number of calls to Advance.
func (c *Clock) Frames() uint64 { return c.frames }
