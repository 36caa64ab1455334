// SPDX-License-Identifier: MIT

package operator

import (
	"math"

	"github.com/katalvlaran/lvgst/linalg"
	"gonum.org/v1/gonum/mat"
)

// gateValue is the raw dim×dim storage shared by all gate kinds.
type gateValue struct {
	m   *mat.Dense
	dim int
}

func newGateValue(tag string, m mat.Matrix) (gateValue, error) {
	if err := linalg.ValidateNotNil(m); err != nil {
		return gateValue{}, operatorErrorf(tag, ErrShape)
	}
	if err := linalg.ValidateSquare(m); err != nil {
		return gateValue{}, operatorErrorf(tag, ErrShape)
	}
	d, _ := m.Dims()

	return gateValue{m: mat.DenseCopyOf(m), dim: d}, nil
}

func (g *gateValue) Dim() int            { return g.dim }
func (g *gateValue) NumElements() int    { return g.dim * g.dim }
func (g *gateValue) Matrix() *mat.Dense  { return mat.DenseCopyOf(g.m) }
func (g *gateValue) At(i, j int) float64 { return g.m.At(i, j) }
func (g *gateValue) raw() []float64      { return g.m.RawMatrix().Data }
func (g *gateValue) elements() []float64 { return linalg.Flatten(g.m) }
func (g *gateValue) clone() gateValue    { return gateValue{m: mat.DenseCopyOf(g.m), dim: g.dim} }
func (g *gateValue) set(m *mat.Dense)    { g.m = m }

// similarity returns Sinv·G·S after shape checks.
func (g *gateValue) similarity(tag string, s, sinv mat.Matrix) (*mat.Dense, error) {
	if err := linalg.ValidateSquareDim(s, g.dim); err != nil {
		return nil, operatorErrorf(tag, err)
	}
	if err := linalg.ValidateSquareDim(sinv, g.dim); err != nil {
		return nil, operatorErrorf(tag, err)
	}
	var tmp mat.Dense
	tmp.Mul(sinv, g.m)
	out := mat.NewDense(g.dim, g.dim, nil)
	out.Mul(&tmp, s)

	return out, nil
}

// isTPRow reports whether row 0 of m is [1,0,…,0] within TPTol.
func isTPRow(m mat.Matrix) bool {
	_, c := m.Dims()
	for j := 0; j < c; j++ {
		want := 0.0
		if j == 0 {
			want = 1
		}
		if math.Abs(m.At(0, j)-want) > TPTol {
			return false
		}
	}

	return true
}

// FullGate parameterizes every element of the gate matrix, row-major.
type FullGate struct{ gateValue }

// NewFullGate copies m into a fully parameterized gate.
func NewFullGate(m mat.Matrix) (*FullGate, error) {
	v, err := newGateValue("NewFullGate", m)
	if err != nil {
		return nil, err
	}

	return &FullGate{v}, nil
}

func (g *FullGate) Kind() Kind          { return Full }
func (g *FullGate) NumParams() int      { return g.dim * g.dim }
func (g *FullGate) ToVector() []float64 { return g.elements() }
func (g *FullGate) Clone() Gate         { return &FullGate{g.clone()} }

// FromVector overwrites all d² elements from a row-major vector.
func (g *FullGate) FromVector(v []float64) error {
	if len(v) != g.NumParams() {
		return operatorErrorf("FullGate.FromVector", ErrParamCount)
	}
	copy(g.raw(), v)

	return nil
}

// DerivWrtParams is the d²×d² identity.
func (g *FullGate) DerivWrtParams() *mat.Dense { return linalg.Identity(g.dim * g.dim) }

// Transform replaces G with Sinv·G·S.
func (g *FullGate) Transform(s, sinv mat.Matrix) error {
	out, err := g.similarity("FullGate.Transform", s, sinv)
	if err != nil {
		return err
	}
	g.set(out)

	return nil
}

// TPGate keeps the first row fixed at [1,0,…,0]; the remaining d(d-1)
// elements are parameters, row-major.
type TPGate struct{ gateValue }

// NewTPGate copies m into a trace-preserving gate.
//
// Errors:
//   - ErrNotTracePreserving when the first row is not [1,0,…,0] within TPTol.
func NewTPGate(m mat.Matrix) (*TPGate, error) {
	v, err := newGateValue("NewTPGate", m)
	if err != nil {
		return nil, err
	}
	if !isTPRow(v.m) {
		return nil, operatorErrorf("NewTPGate", ErrNotTracePreserving)
	}
	// snap the fixed row to its exact value
	v.m.SetRow(0, unitRow(v.dim))

	return &TPGate{v}, nil
}

func unitRow(d int) []float64 {
	row := make([]float64, d)
	row[0] = 1
	return row
}

func (g *TPGate) Kind() Kind          { return TP }
func (g *TPGate) NumParams() int      { return g.dim * (g.dim - 1) }
func (g *TPGate) ToVector() []float64 { return g.elements()[g.dim:] }
func (g *TPGate) Clone() Gate         { return &TPGate{g.clone()} }

// FromVector overwrites rows 1…d-1 from a row-major vector.
func (g *TPGate) FromVector(v []float64) error {
	if len(v) != g.NumParams() {
		return operatorErrorf("TPGate.FromVector", ErrParamCount)
	}
	copy(g.raw()[g.dim:], v)

	return nil
}

// DerivWrtParams is the d²×d(d-1) selector of rows 1…d-1.
func (g *TPGate) DerivWrtParams() *mat.Dense {
	np := g.NumParams()
	if np == 0 {
		return nil
	}
	d := mat.NewDense(g.NumElements(), np, nil)
	for p := 0; p < np; p++ {
		d.Set(g.dim+p, p, 1)
	}

	return d
}

// Transform replaces G with Sinv·G·S. The gate is left untouched when the
// result is not trace preserving.
func (g *TPGate) Transform(s, sinv mat.Matrix) error {
	out, err := g.similarity("TPGate.Transform", s, sinv)
	if err != nil {
		return err
	}
	if !isTPRow(out) {
		return operatorErrorf("TPGate.Transform", ErrNotTracePreserving)
	}
	out.SetRow(0, unitRow(g.dim))
	g.set(out)

	return nil
}

// StaticGate has no parameters.
type StaticGate struct{ gateValue }

// NewStaticGate copies m into a static gate.
func NewStaticGate(m mat.Matrix) (*StaticGate, error) {
	v, err := newGateValue("NewStaticGate", m)
	if err != nil {
		return nil, err
	}

	return &StaticGate{v}, nil
}

func (g *StaticGate) Kind() Kind                 { return Static }
func (g *StaticGate) NumParams() int             { return 0 }
func (g *StaticGate) ToVector() []float64        { return []float64{} }
func (g *StaticGate) DerivWrtParams() *mat.Dense { return nil }
func (g *StaticGate) Clone() Gate                { return &StaticGate{g.clone()} }

// FromVector accepts only the empty vector.
func (g *StaticGate) FromVector(v []float64) error {
	if len(v) != 0 {
		return operatorErrorf("StaticGate.FromVector", ErrParamCount)
	}

	return nil
}

// Transform replaces the raw value with Sinv·G·S; it still has no parameters.
func (g *StaticGate) Transform(s, sinv mat.Matrix) error {
	out, err := g.similarity("StaticGate.Transform", s, sinv)
	if err != nil {
		return err
	}
	g.set(out)

	return nil
}
