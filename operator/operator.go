// SPDX-License-Identifier: MIT

package operator

import (
	"strings"

	"gonum.org/v1/gonum/mat"
)

// TPTol is the absolute tolerance used when checking trace-preserving constraints.
const TPTol = 1e-8

// Kind selects how an operator's raw value is mapped to free parameters.
type Kind int

const (
	// Full makes every element a parameter.
	Full Kind = iota
	// TP fixes the first gate row to [1,0,…,0] (first vector element to its
	// construction value) and makes the rest parameters.
	TP
	// Static has no parameters.
	Static
)

// String returns "full", "TP" or "static".
func (k Kind) String() string {
	switch k {
	case Full:
		return "full"
	case TP:
		return "TP"
	case Static:
		return "static"
	default:
		return "unknown"
	}
}

// ParseKind maps "full", "TP" or "static" (case-insensitive) to a Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "full":
		return Full, nil
	case "tp":
		return TP, nil
	case "static":
		return Static, nil
	}

	return Full, operatorErrorf("ParseKind("+name+")", ErrUnknownKind)
}

// Operator is the capability set shared by gates and SPAM vectors.
type Operator interface {
	// Kind reports the parameterization.
	Kind() Kind
	// Dim is the dimension of the density-matrix space the operator acts on.
	Dim() int
	// NumParams is the number of free parameters.
	NumParams() int
	// NumElements is the number of raw elements (d² for gates, d for vectors).
	NumElements() int
	// ToVector returns the free parameters.
	ToVector() []float64
	// FromVector overwrites the free parameters.
	FromVector(v []float64) error
	// DerivWrtParams returns the NumElements×NumParams derivative of the
	// row-major raw elements with respect to the parameters, or nil when
	// NumParams is zero.
	DerivWrtParams() *mat.Dense
}

// Gate is a dim×dim superoperator.
type Gate interface {
	Operator
	// Matrix returns a copy of the raw value.
	Matrix() *mat.Dense
	// At returns one raw element.
	At(i, j int) float64
	// Transform replaces G with Sinv·G·S.
	Transform(s, sinv mat.Matrix) error
	// Clone returns an independent copy of the same kind.
	Clone() Gate
}

// SPAMVec is a dim-length state preparation or measurement effect vector.
type SPAMVec interface {
	Operator
	// Vector returns a copy of the raw value.
	Vector() []float64
	// AtVec returns one raw element.
	AtVec(i int) float64
	// SetVector overwrites the raw value, honouring the parameterization constraint.
	SetVector(v []float64) error
	// Transform replaces v with M·v.
	Transform(m mat.Matrix) error
	// Clone returns an independent copy of the same kind.
	Clone() SPAMVec
}

// NewGate builds a gate of the given kind from a raw square matrix.
func NewGate(kind Kind, m mat.Matrix) (Gate, error) {
	switch kind {
	case Full:
		return NewFullGate(m)
	case TP:
		return NewTPGate(m)
	case Static:
		return NewStaticGate(m)
	}

	return nil, operatorErrorf("NewGate", ErrUnknownKind)
}

// NewVec builds a SPAM vector of the given kind from a raw value.
func NewVec(kind Kind, v []float64) (SPAMVec, error) {
	switch kind {
	case Full:
		return NewFullVec(v)
	case TP:
		return NewTPVec(v)
	case Static:
		return NewStaticVec(v)
	}

	return nil, operatorErrorf("NewVec", ErrUnknownKind)
}

// ConvertGate returns a new gate of the requested kind holding g's current
// raw value. Converting to TP fails when the first row is not [1,0,…,0].
func ConvertGate(g Gate, kind Kind) (Gate, error) {
	return NewGate(kind, g.Matrix())
}

// ConvertVec returns a new SPAM vector of the requested kind holding v's
// current raw value. A TP result fixes the current first element.
func ConvertVec(v SPAMVec, kind Kind) (SPAMVec, error) {
	return NewVec(kind, v.Vector())
}
