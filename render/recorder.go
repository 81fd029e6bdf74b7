// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package render

// Recorder is a FrameRenderer that keeps the draw calls
// of the last frame.
// It is used for headless runs.
type Recorder struct {
	calls  []DrawCall
	frames int
	open   bool
	// Fail, if not nil, is consulted on every Submit
	// and its result returned.
	Fail func(dc *DrawCall) error
}

// BeginFrame discards the calls of the previous frame.
func (r *Recorder) BeginFrame() error {
	r.calls = r.calls[:0]
	r.open = true
	return nil
}

// Submit records dc.
func (r *Recorder) Submit(dc *DrawCall) error {
	if r.Fail != nil {
		if err := r.Fail(dc); err != nil {
			return err
		}
	}
	r.calls = append(r.calls, *dc)
	return nil
}

// EndFrame finishes the current frame.
func (r *Recorder) EndFrame() error {
	if r.open {
		r.frames++
		r.open = false
	}
	return nil
}

// Calls returns the recorded calls in submission order.
// The slice is only valid until the next BeginFrame.
func (r *Recorder) Calls() []DrawCall { return r.calls }

// Names returns the node names of the recorded calls.
func (r *Recorder) Names() []string {
	s := make([]string, len(r.calls))
	for i := range r.calls {
		s[i] = r.calls[i].Name
	}
	return s
}

// Frames returns the number of frames completed.
func (r *Recorder) Frames() int { return r.frames }
