// SPDX-License-Identifier: MIT

package gateset

import (
	"github.com/katalvlaran/lvgst/operator"
	"gonum.org/v1/gonum/mat"
)

// each visits every parameterized operator in vectorization order:
// preparations, effects, gates. Caller holds a lock.
func (gs *GateSet) each(fn func(l Label, op operator.Operator)) {
	for _, k := range gs.preps.keys {
		fn(Prep(k), gs.preps.vals[k])
	}
	for _, k := range gs.effects.keys {
		fn(Effect(k), gs.effects.vals[k])
	}
	for _, k := range gs.gates.keys {
		fn(Gate(k), gs.gates.vals[k])
	}
}

// NumParams returns the total number of free parameters.
func (gs *GateSet) NumParams() int {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	return gs.numParams()
}

func (gs *GateSet) numParams() int {
	n := 0
	gs.each(func(_ Label, op operator.Operator) { n += op.NumParams() })

	return n
}

// NumElements returns the total number of raw elements (identity excluded).
func (gs *GateSet) NumElements() int {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	return gs.numElements()
}

func (gs *GateSet) numElements() int {
	n := 0
	gs.each(func(_ Label, op operator.Operator) { n += op.NumElements() })

	return n
}

// ToVector concatenates the parameters of every operator in vectorization order.
func (gs *GateSet) ToVector() []float64 {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	out := make([]float64, 0, gs.numParams())
	gs.each(func(_ Label, op operator.Operator) { out = append(out, op.ToVector()...) })

	return out
}

// ElementVector concatenates the raw elements (gates row-major) in
// vectorization order. Its length is NumElements.
func (gs *GateSet) ElementVector() []float64 {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	return gs.elementVector()
}

func (gs *GateSet) elementVector() []float64 {
	out := make([]float64, 0, gs.numElements())
	gs.each(func(_ Label, op operator.Operator) {
		switch o := op.(type) {
		case operator.SPAMVec:
			out = append(out, o.Vector()...)
		case operator.Gate:
			out = append(out, o.Matrix().RawMatrix().Data...)
		}
	})

	return out
}

// FromVector distributes v over the operators and forgets the basis metadata.
// A wrong length leaves the model untouched.
func (gs *GateSet) FromVector(v []float64) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	if len(v) != gs.numParams() {
		return gatesetErrorf("FromVector", ErrParamCount)
	}

	var err error
	off := 0
	gs.each(func(l Label, op operator.Operator) {
		n := op.NumParams()
		if e := op.FromVector(v[off : off+n]); e != nil && err == nil {
			err = gatesetErrorf("FromVector("+l.String()+")", e)
		}
		off += n
	})
	if err != nil {
		return err
	}
	gs.resetBasis()
	gs.logger.Debug("gateset: parameters loaded", "params", len(v))

	return nil
}

// OrderedOffsets returns every label's parameter range in vectorization order.
func (gs *GateSet) OrderedOffsets() []Offset {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	return gs.orderedOffsets()
}

func (gs *GateSet) orderedOffsets() []Offset {
	out := make([]Offset, 0, gs.preps.len()+gs.effects.len()+gs.gates.len())
	off := 0
	gs.each(func(l Label, op operator.Operator) {
		n := op.NumParams()
		out = append(out, Offset{Label: l, Range: Range{Start: off, End: off + n}})
		off += n
	})

	return out
}

// VectorOffsets maps every label to its half-open parameter range.
func (gs *GateSet) VectorOffsets() map[Label]Range {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	out := make(map[Label]Range)
	for _, o := range gs.orderedOffsets() {
		out[o.Label] = o.Range
	}

	return out
}

// DerivWrtParams returns the NumElements×NumParams derivative of ElementVector
// with respect to ToVector: each operator's DerivWrtParams placed on the
// block diagonal. It is nil when the model has no parameters.
func (gs *GateSet) DerivWrtParams() *mat.Dense {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	np, ne := gs.numParams(), gs.numElements()
	if np == 0 || ne == 0 {
		return nil
	}

	out := mat.NewDense(ne, np, nil)
	row, col := 0, 0
	gs.each(func(_ Label, op operator.Operator) {
		r, c := op.NumElements(), op.NumParams()
		if c > 0 {
			out.Slice(row, row+r, col, col+c).(*mat.Dense).Copy(op.DerivWrtParams())
		}
		row += r
		col += c
	})

	return out
}
