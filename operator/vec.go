// SPDX-License-Identifier: MIT

package operator

import (
	"math"

	"github.com/katalvlaran/lvgst/linalg"
	"gonum.org/v1/gonum/mat"
)

// vecValue is the raw storage shared by all SPAM vector kinds.
type vecValue struct {
	v []float64
}

func newVecValue(tag string, v []float64) (vecValue, error) {
	if len(v) == 0 {
		return vecValue{}, operatorErrorf(tag, ErrShape)
	}

	return vecValue{v: append([]float64(nil), v...)}, nil
}

func (s *vecValue) Dim() int            { return len(s.v) }
func (s *vecValue) NumElements() int    { return len(s.v) }
func (s *vecValue) Vector() []float64   { return append([]float64(nil), s.v...) }
func (s *vecValue) AtVec(i int) float64 { return s.v[i] }
func (s *vecValue) clone() vecValue     { return vecValue{v: s.Vector()} }

// product returns M·v after a shape check.
func (s *vecValue) product(tag string, m mat.Matrix) ([]float64, error) {
	if err := linalg.ValidateSquareDim(m, len(s.v)); err != nil {
		return nil, operatorErrorf(tag, err)
	}
	var out mat.VecDense
	out.MulVec(m, mat.NewVecDense(len(s.v), s.Vector()))

	return out.RawVector().Data, nil
}

// FullVec parameterizes every element.
type FullVec struct{ vecValue }

// NewFullVec copies v into a fully parameterized vector.
func NewFullVec(v []float64) (*FullVec, error) {
	val, err := newVecValue("NewFullVec", v)
	if err != nil {
		return nil, err
	}

	return &FullVec{val}, nil
}

func (s *FullVec) Kind() Kind                 { return Full }
func (s *FullVec) NumParams() int             { return len(s.v) }
func (s *FullVec) ToVector() []float64        { return s.Vector() }
func (s *FullVec) DerivWrtParams() *mat.Dense { return linalg.Identity(len(s.v)) }
func (s *FullVec) Clone() SPAMVec             { return &FullVec{s.clone()} }

// FromVector overwrites every element.
func (s *FullVec) FromVector(v []float64) error {
	if len(v) != len(s.v) {
		return operatorErrorf("FullVec.FromVector", ErrParamCount)
	}
	copy(s.v, v)

	return nil
}

// SetVector overwrites every element.
func (s *FullVec) SetVector(v []float64) error {
	if len(v) != len(s.v) {
		return operatorErrorf("FullVec.SetVector", ErrShape)
	}
	copy(s.v, v)

	return nil
}

// Transform replaces v with M·v.
func (s *FullVec) Transform(m mat.Matrix) error {
	out, err := s.product("FullVec.Transform", m)
	if err != nil {
		return err
	}
	s.v = out

	return nil
}

// TPVec fixes the first element at its construction value; the remaining
// d-1 elements are parameters.
type TPVec struct {
	vecValue
	first float64
}

// NewTPVec copies v into a trace-preserving vector whose first element stays fixed.
func NewTPVec(v []float64) (*TPVec, error) {
	val, err := newVecValue("NewTPVec", v)
	if err != nil {
		return nil, err
	}

	return &TPVec{vecValue: val, first: val.v[0]}, nil
}

func (s *TPVec) Kind() Kind          { return TP }
func (s *TPVec) NumParams() int      { return len(s.v) - 1 }
func (s *TPVec) ToVector() []float64 { return append([]float64(nil), s.v[1:]...) }
func (s *TPVec) Clone() SPAMVec      { return &TPVec{vecValue: s.clone(), first: s.first} }

// FromVector overwrites elements 1…d-1.
func (s *TPVec) FromVector(v []float64) error {
	if len(v) != s.NumParams() {
		return operatorErrorf("TPVec.FromVector", ErrParamCount)
	}
	copy(s.v[1:], v)

	return nil
}

// DerivWrtParams is the d×(d-1) selector of elements 1…d-1.
func (s *TPVec) DerivWrtParams() *mat.Dense {
	np := s.NumParams()
	if np == 0 {
		return nil
	}
	d := mat.NewDense(len(s.v), np, nil)
	for p := 0; p < np; p++ {
		d.Set(p+1, p, 1)
	}

	return d
}

// SetVector overwrites the value; the first element must equal the fixed one within TPTol.
func (s *TPVec) SetVector(v []float64) error {
	if len(v) != len(s.v) {
		return operatorErrorf("TPVec.SetVector", ErrShape)
	}
	if math.Abs(v[0]-s.first) > TPTol {
		return operatorErrorf("TPVec.SetVector", ErrNotTracePreserving)
	}
	copy(s.v[1:], v[1:])

	return nil
}

// Transform replaces v with M·v, subject to the fixed first element.
func (s *TPVec) Transform(m mat.Matrix) error {
	out, err := s.product("TPVec.Transform", m)
	if err != nil {
		return err
	}

	return s.SetVector(out)
}

// StaticVec has no parameters.
type StaticVec struct{ vecValue }

// NewStaticVec copies v into a static vector.
func NewStaticVec(v []float64) (*StaticVec, error) {
	val, err := newVecValue("NewStaticVec", v)
	if err != nil {
		return nil, err
	}

	return &StaticVec{val}, nil
}

func (s *StaticVec) Kind() Kind                 { return Static }
func (s *StaticVec) NumParams() int             { return 0 }
func (s *StaticVec) ToVector() []float64        { return []float64{} }
func (s *StaticVec) DerivWrtParams() *mat.Dense { return nil }
func (s *StaticVec) Clone() SPAMVec             { return &StaticVec{s.clone()} }

// FromVector accepts only the empty vector.
func (s *StaticVec) FromVector(v []float64) error {
	if len(v) != 0 {
		return operatorErrorf("StaticVec.FromVector", ErrParamCount)
	}

	return nil
}

// SetVector overwrites the raw value.
func (s *StaticVec) SetVector(v []float64) error {
	if len(v) != len(s.v) {
		return operatorErrorf("StaticVec.SetVector", ErrShape)
	}
	copy(s.v, v)

	return nil
}

// Transform replaces v with M·v.
func (s *StaticVec) Transform(m mat.Matrix) error {
	out, err := s.product("StaticVec.Transform", m)
	if err != nil {
		return err
	}
	s.v = out

	return nil
}
