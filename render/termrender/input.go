// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package termrender

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/gviegas/physcene/camera"
)

// DefaultHold is the default of Keys.Hold.
const DefaultHold = 150 * time.Millisecond

// Keys tracks key presses from a terminal.
// Terminals report no key releases, so a key counts as
// held for Hold after its last press event.
// It implements camera.Input.
type Keys struct {
	Hold time.Duration
	last map[camera.Key]time.Time
	now  func() time.Time
}

// NewKeys creates a new Keys.
func NewKeys() *Keys {
	return &Keys{
		Hold: DefaultHold,
		last: make(map[camera.Key]time.Time),
		now:  time.Now,
	}
}

var runeKeys = map[rune]camera.Key{
	'i': camera.KeyForward,
	'k': camera.KeyBack,
	'j': camera.KeyLeft,
	'l': camera.KeyRight,
	'y': camera.KeyUp,
	'h': camera.KeyDown,
}

var specialKeys = map[tcell.Key]camera.Key{
	tcell.KeyLeft:  camera.KeyTurnLeft,
	tcell.KeyRight: camera.KeyTurnRight,
	tcell.KeyUp:    camera.KeyLookUp,
	tcell.KeyDown:  camera.KeyLookDown,
}

// Handle records ev. It returns false if ev is not a
// camera key.
func (k *Keys) Handle(ev *tcell.EventKey) bool {
	var key camera.Key
	var ok bool
	if ev.Key() == tcell.KeyRune {
		key, ok = runeKeys[ev.Rune()]
	} else {
		key, ok = specialKeys[ev.Key()]
	}
	if ok {
		k.last[key] = k.now()
	}
	return ok
}

// Pressed implements camera.Input.
func (k *Keys) Pressed(key camera.Key) bool {
	t, ok := k.last[key]
	return ok && k.now().Sub(t) < k.Hold
}

// Pump forwards events from scr to events until scr is
// finalized or done is closed.
// Close done before calling scr.Fini, so that a pending
// send does not block forever once the reader is gone.
func Pump(scr tcell.Screen, events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := scr.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}
