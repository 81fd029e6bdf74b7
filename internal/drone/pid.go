// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package drone

// PID is a proportional-integral-derivative controller.
type PID struct {
	Kp, Ki, Kd float32
	// Limit, if greater than zero, bounds the output to
	// [-Limit, Limit].
	Limit float32

	integral float32
	prev     float32
	primed   bool
}

// ZieglerNichols returns a PID tuned from the ultimate
// gain ku and the oscillation period tu.
func ZieglerNichols(ku, tu, limit float32) PID {
	return PID{Kp: 0.6 * ku, Ki: tu / 2, Kd: tu / 8, Limit: limit}
}

// Compute returns the control output for one step of
// dt seconds. The derivative term is skipped on the first
// call and when dt is not positive.
func (c *PID) Compute(target, value, dt float32) float32 {
	e := target - value
	out := c.Kp * e
	if dt > 0 {
		c.integral += e * dt
		if c.primed {
			out += c.Kd * (e - c.prev) / dt
		}
	}
	out += c.Ki * c.integral
	c.prev = e
	c.primed = true
	if c.Limit > 0 {
		out = max(-c.Limit, min(c.Limit, out))
	}
	return out
}

// Reset clears the accumulated state.
func (c *PID) Reset() {
	c.integral = 0
	c.prev = 0
	c.primed = false
}
