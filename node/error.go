// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package node

import (
	"github.com/pkg/errors"
)

const prefix = "node: "

// CycleError is the error returned by Node.Insert when
// the insertion would make a node its own ancestor.
type CycleError struct {
	Parent, Child *Node
}

func newCycleErr(parent, child *Node) error {
	return errors.WithStack(&CycleError{parent, child})
}

func (e *CycleError) Error() string {
	return prefix + "inserting " + name(e.Child) + " under " + name(e.Parent) + " creates a cycle"
}

// NotFoundError is the error returned by Node.Remove when
// the node is not an immediate descendant.
type NotFoundError struct {
	Parent, Child *Node
}

func newNotFoundErr(parent, child *Node) error {
	return errors.WithStack(&NotFoundError{parent, child})
}

func (e *NotFoundError) Error() string {
	return prefix + name(e.Child) + " is not a child of " + name(e.Parent)
}

func name(n *Node) string {
	switch {
	case n == nil:
		return "<nil>"
	case n.Name == "":
		return "<unnamed>"
	}
	return n.Name
}
