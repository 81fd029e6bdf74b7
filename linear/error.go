// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package linear

const prefix = "linear: "

// DomainError is the error returned when a transform is
// requested with parameters outside of its domain.
type DomainError struct {
	Op     string
	Reason string
}

func newDomainErr(op, reason string) error { return &DomainError{op, reason} }

func (e *DomainError) Error() string { return prefix + e.Op + ": " + e.Reason }
