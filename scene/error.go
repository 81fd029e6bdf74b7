// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"strconv"

	"github.com/gviegas/physcene/physics"
)

const prefix = "scene: "

// DanglingBodyError is the error produced when a node
// refers to a body that the physics world does not know.
type DanglingBodyError struct {
	Node string
	Body physics.BodyID
	// Link is physics.Base unless the error comes from
	// a link of a compound body.
	Link physics.LinkID
	Err  error
}

func (e *DanglingBodyError) Error() string {
	s := prefix + "dangling body " + strconv.Itoa(int(e.Body))
	if e.Link != physics.Base {
		s += " link " + strconv.Itoa(int(e.Link))
	}
	s += " (node " + strconv.Quote(e.Node) + ")"
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *DanglingBodyError) Unwrap() error { return e.Err }
