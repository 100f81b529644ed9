package genex

import (
	"errors"
	"fmt"
)

// ErrStalled is returned by Gillespie.Iterate when the total propensity is
// zero. Iterating further would never advance simulated time, so callers
// driving a time-limit loop must treat it as the end of the run.
var ErrStalled = errors.New("total propensity is zero, simulation stalled")

// InvalidNameError reports a species declaration or mutation that was
// rejected at call time: a reserved-prefix name, or a delta that would drive
// a consumer-owned species below zero.
type InvalidNameError struct {
	Name   string
	Reason string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid species name %q: %s", e.Name, e.Reason)
}

// InvariantViolation is used as a panic payload when propensity bookkeeping
// goes wrong (negative propensity, negative internal count, negative total).
// These indicate a bug in the reaction network, not a modeling condition,
// and are not recoverable.
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string {
	return "invariant violation: " + e.Msg
}
