// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package termrender

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/physcene/camera"
	"github.com/gviegas/physcene/linear"
	"github.com/gviegas/physcene/render"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	scr := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, scr.Init())
	scr.SetSize(80, 24)
	t.Cleanup(scr.Fini)
	return scr
}

func call(name string, prog render.Handle, model linear.M4) *render.DrawCall {
	var id linear.M4
	id.I()
	return &render.DrawCall{
		Program:  prog,
		Settings: render.DefaultSettings(),
		Uniforms: render.UniformSet{
			render.Projection: id,
			render.View:       id,
			render.Model:      model,
		},
		Name: name,
	}
}

func cell(scr tcell.SimulationScreen, x, y int) rune {
	cells, w, _ := scr.GetContents()
	c := cells[y*w+x]
	if len(c.Runes) == 0 {
		return ' '
	}
	return c.Runes[0]
}

func TestSubmit(t *testing.T) {
	scr := newScreen(t)
	r := New(scr)
	require.NoError(t, r.BeginFrame())

	var m linear.M4
	m.I()
	require.NoError(t, r.Submit(call("centre", 1, m)))

	m.Translate(0.5, 0.5, 0)
	dc := call("line", 2, m)
	dc.Settings.Style = render.Lines
	require.NoError(t, r.Submit(dc))

	m.Translate(3, 0, 0)
	require.NoError(t, r.Submit(call("outside", 1, m)))

	r.SetStatus("t=1.00")
	require.NoError(t, r.EndFrame())

	assert.Equal(t, '#', cell(scr, 40, 12))
	assert.Equal(t, '-', cell(scr, 60, 6))
	assert.Equal(t, 1, r.Culled())
	assert.Equal(t, 't', cell(scr, 0, 0))
	assert.Equal(t, '1', cell(scr, 2, 0))
}

func TestDepth(t *testing.T) {
	scr := newScreen(t)
	r := New(scr)
	require.NoError(t, r.BeginFrame())
	var m linear.M4
	m.Translate(0, 0, 0.5)
	require.NoError(t, r.Submit(call("far", 1, m)))
	m.Translate(0, 0, -0.5)
	dc := call("near", 1, m)
	dc.Settings.Wireframe = true
	require.NoError(t, r.Submit(dc))
	m.Translate(0, 0, 0.9)
	dc = call("farther", 1, m)
	dc.Settings.Style = render.Points
	require.NoError(t, r.Submit(dc))
	require.NoError(t, r.EndFrame())
	assert.Equal(t, '+', cell(scr, 40, 12))

	// A new frame starts empty.
	require.NoError(t, r.BeginFrame())
	require.NoError(t, r.EndFrame())
	assert.Equal(t, ' ', cell(scr, 40, 12))
}

func TestSubmitMissing(t *testing.T) {
	r := New(newScreen(t))
	require.NoError(t, r.BeginFrame())
	err := r.Submit(&render.DrawCall{Name: "bare", Uniforms: render.UniformSet{}})
	assert.ErrorContains(t, err, "bare")
}

func TestKeys(t *testing.T) {
	k := NewKeys()
	now := time.Unix(100, 0)
	k.now = func() time.Time { return now }

	assert.True(t, k.Handle(tcell.NewEventKey(tcell.KeyRune, 'i', tcell.ModNone)))
	assert.True(t, k.Handle(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone)))
	assert.False(t, k.Handle(tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone)))
	assert.True(t, k.Pressed(camera.KeyForward))
	assert.True(t, k.Pressed(camera.KeyTurnLeft))
	assert.False(t, k.Pressed(camera.KeyBack))

	now = now.Add(DefaultHold)
	assert.False(t, k.Pressed(camera.KeyForward))
}

func TestPump(t *testing.T) {
	scr := newScreen(t)
	events := make(chan tcell.Event, 1)
	done := make(chan struct{})
	exit := make(chan struct{})
	go func() {
		Pump(scr, events, done)
		close(exit)
	}()

	for _, r := range "abc" {
		scr.InjectKey(tcell.KeyRune, r, tcell.ModNone)
	}
	select {
	case ev := <-events:
		k, ok := ev.(*tcell.EventKey)
		require.True(t, ok)
		assert.Equal(t, 'a', k.Rune())
	case <-time.After(time.Second):
		t.Fatal("Pump: no event forwarded")
	}

	// Nobody reads events anymore.
	close(done)
	select {
	case <-exit:
	case <-time.After(time.Second):
		t.Fatal("Pump: still running after done was closed")
	}
}
