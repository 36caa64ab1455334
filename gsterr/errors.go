// SPDX-License-Identifier: MIT

// Package gsterr is the shared error taxonomy of lvgst.
//
// Every package of the module returns errors that match exactly one of the
// sentinels below via errors.Is. Package-local sentinels (basis.ErrNotPowerOfTwo,
// operator.ErrNotTracePreserving, ...) wrap these, so callers can match either
// the precise condition or the broad class.
//
// Numerical degeneracy is the only soft class: it is reported as a structured
// *DegeneracyError which components log as a warning unless running strict.
package gsterr

import (
	"errors"
	"fmt"
)

var (
	// ErrDimension signals a shape or dimension conflict: mismatched operator
	// sizes, wrong vector lengths, unknown labels, missing identity vector.
	ErrDimension = errors.New("lvgst: dimension mismatch")

	// ErrBasis signals an unknown basis name, an unsupported dimension for a
	// basis (Pauli-product on a non power of two), an invalid block structure
	// or a non-negligible imaginary residue after a basis conversion.
	ErrBasis = errors.New("lvgst: basis error")

	// ErrParameterization signals an invalid parameterization kind or a raw
	// value that violates the constraints of the requested parameterization.
	ErrParameterization = errors.New("lvgst: parameterization error")

	// ErrNumericalDegeneracy signals that a rank or consistency check failed
	// under the configured tolerance.
	ErrNumericalDegeneracy = errors.New("lvgst: numerical degeneracy")
)

// DegeneracyError describes a failed rank/consistency check.
// It matches ErrNumericalDegeneracy under errors.Is.
type DegeneracyError struct {
	Op   string  // operation that ran the check
	Tol  float64 // tolerance used for the rank decision
	Want int     // expected rank or count
	Got  int     // observed rank or count
}

// Error implements error.
func (e *DegeneracyError) Error() string {
	return fmt.Sprintf("%s: %v (tol=%g): want %d, got %d", e.Op, ErrNumericalDegeneracy, e.Tol, e.Want, e.Got)
}

// Is reports whether target is ErrNumericalDegeneracy.
func (e *DegeneracyError) Is(target error) bool { return target == ErrNumericalDegeneracy }

// Errorf wraps err with an operation tag: "<tag>: <err>".
// Mirrors the tag-wrapping convention used across all packages.
func Errorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
