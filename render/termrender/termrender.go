// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package termrender implements a renderer that draws on
// a terminal screen.
//
// Each draw call is reduced to a single glyph placed where
// the origin of its model space projects. It is meant for
// watching a simulation, not for faithful rendering.
package termrender

import (
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/gviegas/physcene/linear"
	"github.com/gviegas/physcene/render"
)

const prefix = "termrender: "

var palette = [...]tcell.Color{
	tcell.ColorWhite,
	tcell.ColorYellow,
	tcell.ColorAqua,
	tcell.ColorLime,
	tcell.ColorFuchsia,
	tcell.ColorRed,
}

// Renderer is a render.FrameRenderer that draws on a
// tcell.Screen.
// Nearer glyphs hide farther ones in the same cell.
type Renderer struct {
	scr    tcell.Screen
	width  int
	height int
	depth  []float32
	status string
	culled int
}

// New creates a new terminal renderer.
// scr must have been initialized.
func New(scr tcell.Screen) *Renderer {
	return &Renderer{scr: scr}
}

// Screen returns the screen of r.
func (r *Renderer) Screen() tcell.Screen { return r.scr }

// SetStatus sets a line of text drawn at the top of
// every frame.
func (r *Renderer) SetStatus(s string) { r.status = s }

// Culled returns the number of draw calls of the last
// frame that fell outside the view.
func (r *Renderer) Culled() int { return r.culled }

// BeginFrame clears the screen.
func (r *Renderer) BeginFrame() error {
	r.width, r.height = r.scr.Size()
	if r.width <= 0 || r.height <= 0 {
		return errors.New(prefix + "screen has no area")
	}
	n := r.width * r.height
	if cap(r.depth) < n {
		r.depth = make([]float32, n)
	}
	r.depth = r.depth[:n]
	for i := range r.depth {
		r.depth[i] = 2
	}
	r.culled = 0
	r.scr.Clear()
	return nil
}

// Submit draws dc.
// It fails if dc lacks the camera and model matrices.
func (r *Renderer) Submit(dc *render.DrawCall) error {
	mvp, ok := dc.Uniforms.MVP()
	if !ok {
		return errors.Errorf(prefix+"draw %q lacks transform uniforms", dc.Name)
	}
	x, y, z, ok := r.project(&mvp)
	if !ok {
		r.culled++
		return nil
	}
	i := y*r.width + x
	if z >= r.depth[i] {
		return nil
	}
	r.depth[i] = z
	st := tcell.StyleDefault.Foreground(palette[int(dc.Program)%len(palette)])
	r.scr.SetContent(x, y, glyph(&dc.Settings), nil, st)
	return nil
}

// EndFrame shows the frame.
func (r *Renderer) EndFrame() error {
	if r.status != "" {
		st := tcell.StyleDefault.Reverse(true)
		x := 0
		for _, c := range r.status {
			if x >= r.width {
				break
			}
			r.scr.SetContent(x, 0, c, nil, st)
			x++
		}
	}
	r.scr.Show()
	return nil
}

// project returns the cell and depth of the origin of
// the model space of mvp. It returns false if the
// origin is clipped.
func (r *Renderer) project(mvp *linear.M4) (x, y int, z float32, ok bool) {
	c := mvp[3]
	if c[3] <= 0 {
		return
	}
	nx, ny, nz := c[0]/c[3], c[1]/c[3], c[2]/c[3]
	if nx < -1 || nx > 1 || ny < -1 || ny > 1 || nz < -1 || nz > 1 {
		return
	}
	x = min(int((nx+1)/2*float32(r.width)), r.width-1)
	y = min(int((1-ny)/2*float32(r.height)), r.height-1)
	return x, y, nz, true
}

func glyph(s *render.Settings) rune {
	if s.Wireframe {
		return '+'
	}
	switch s.Style {
	case render.Lines, render.LineStrip:
		return '-'
	case render.Points:
		return '.'
	default:
		return '#'
	}
}
