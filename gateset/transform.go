// SPDX-License-Identifier: MIT

package gateset

import (
	"math"

	"github.com/katalvlaran/lvgst/basis"
	"github.com/katalvlaran/lvgst/linalg"
	"github.com/katalvlaran/lvgst/operator"
	"gonum.org/v1/gonum/mat"
)

// Transform applies the gauge transformation S to every operator:
// gates G → S⁻¹·G·S, preparations ρ → S⁻¹·ρ, effects and identity E → Sᵀ·E.
func (gs *GateSet) Transform(s mat.Matrix) error {
	if err := linalg.ValidateSquare(s); err != nil {
		return gatesetErrorf("Transform", err)
	}
	var sinv mat.Dense
	if err := sinv.Inverse(s); err != nil {
		return gatesetErrorf("Transform", linalg.ErrSingular)
	}

	return gs.TransformWithInverse(s, &sinv)
}

// TransformWithInverse is Transform with a caller-supplied inverse.
//
// The transformation is all-or-nothing: if any operator rejects its new value
// (a TP gate leaving the TP manifold) the model is left unchanged.
func (gs *GateSet) TransformWithInverse(s, sinv mat.Matrix) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	if err := linalg.ValidateSquareDim(s, gs.dim); err != nil {
		return gatesetErrorf("Transform", err)
	}
	if err := linalg.ValidateSquareDim(sinv, gs.dim); err != nil {
		return gatesetErrorf("Transform", err)
	}
	st := s.T()

	preps := newOrdered[operator.SPAMVec]()
	for _, k := range gs.preps.keys {
		v := gs.preps.vals[k].Clone()
		if err := v.Transform(sinv); err != nil {
			return gatesetErrorf("Transform("+Prep(k).String()+")", err)
		}
		preps.set(k, v)
	}
	effects := newOrdered[operator.SPAMVec]()
	for _, k := range gs.effects.keys {
		v := gs.effects.vals[k].Clone()
		if err := v.Transform(st); err != nil {
			return gatesetErrorf("Transform("+Effect(k).String()+")", err)
		}
		effects.set(k, v)
	}
	gates := newOrdered[operator.Gate]()
	for _, k := range gs.gates.keys {
		g := gs.gates.vals[k].Clone()
		if err := g.Transform(s, sinv); err != nil {
			return gatesetErrorf("Transform("+Gate(k).String()+")", err)
		}
		gates.set(k, g)
	}
	var id operator.SPAMVec
	if gs.identity != nil {
		id = gs.identity.Clone()
		if err := id.Transform(st); err != nil {
			return gatesetErrorf("Transform(identity)", err)
		}
	}

	gs.preps, gs.effects, gs.gates, gs.identity = preps, effects, gates, id

	return nil
}

// SetAllParameterizations converts every preparation and gate to kind and
// every effect to kind (Full when kind is TP). The identity stays static and
// kind becomes the default for the raw-value setters. All-or-nothing.
func (gs *GateSet) SetAllParameterizations(kind operator.Kind) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	preps := newOrdered[operator.SPAMVec]()
	for _, k := range gs.preps.keys {
		v, err := operator.ConvertVec(gs.preps.vals[k], kind)
		if err != nil {
			return gatesetErrorf("SetAllParameterizations("+Prep(k).String()+")", err)
		}
		preps.set(k, v)
	}
	effects := newOrdered[operator.SPAMVec]()
	for _, k := range gs.effects.keys {
		v, err := operator.ConvertVec(gs.effects.vals[k], effectParam(kind))
		if err != nil {
			return gatesetErrorf("SetAllParameterizations("+Effect(k).String()+")", err)
		}
		effects.set(k, v)
	}
	gates := newOrdered[operator.Gate]()
	for _, k := range gs.gates.keys {
		g, err := operator.ConvertGate(gs.gates.vals[k], kind)
		if err != nil {
			return gatesetErrorf("SetAllParameterizations("+Gate(k).String()+")", err)
		}
		gates.set(k, g)
	}

	gs.preps, gs.effects, gs.gates = preps, effects, gates
	gs.defaultParam = kind

	return nil
}

// Copy returns a deep copy: operators, SPAM definitions, basis metadata and options.
func (gs *GateSet) Copy() *GateSet {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	return gs.copyLocked()
}

func (gs *GateSet) copyLocked() *GateSet {
	out := New(gs.options()...)
	out.dim = gs.dim
	out.basisName, out.basisStruct = gs.basisName, gs.basisStruct
	for _, k := range gs.preps.keys {
		out.preps.set(k, gs.preps.vals[k].Clone())
	}
	for _, k := range gs.effects.keys {
		out.effects.set(k, gs.effects.vals[k].Clone())
	}
	for _, k := range gs.gates.keys {
		out.gates.set(k, gs.gates.vals[k].Clone())
	}
	if gs.identity != nil {
		out.identity = gs.identity.Clone()
	}
	for _, k := range gs.spam.keys {
		out.spam.set(k, gs.spam.vals[k])
	}

	return out
}

// FullScratch returns a model with the same labels, order and dimension whose
// operators are all fully parameterized and zero. Its ToVector therefore has
// one entry per raw element of gs, in the order of gs.DerivWrtParams rows.
// Identity and SPAM definitions are not carried.
func (gs *GateSet) FullScratch() *GateSet {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	out := New(WithRemainderLabel(gs.remainder), WithLogger(gs.logger))
	out.dim = gs.dim
	for _, k := range gs.preps.keys {
		v, _ := operator.NewFullVec(make([]float64, gs.dim))
		out.preps.set(k, v)
	}
	for _, k := range gs.effects.keys {
		v, _ := operator.NewFullVec(make([]float64, gs.dim))
		out.effects.set(k, v)
	}
	for _, k := range gs.gates.keys {
		g, _ := operator.NewFullGate(mat.NewDense(gs.dim, gs.dim, nil))
		out.gates.set(k, g)
	}

	return out
}

// FrobeniusDist returns the weighted Frobenius distance between gs and other:
// squared element differences of gates (weight gateWeight) and of preparations
// and effects (weight spamWeight) are summed; the result is the square root of
// the sum, divided by the number of summands first when normalize is set.
// When s is non-nil, gs is gauge-transformed by s (on a copy) before comparing.
func (gs *GateSet) FrobeniusDist(other *GateSet, s mat.Matrix, gateWeight, spamWeight float64, normalize bool) (float64, error) {
	const tag = "FrobeniusDist"
	left := gs
	if s != nil {
		left = gs.Copy()
		if err := left.SetAllParameterizations(operator.Full); err != nil {
			return 0, gatesetErrorf(tag, err)
		}
		if err := left.Transform(s); err != nil {
			return 0, gatesetErrorf(tag, err)
		}
	}
	left.mu.RLock()
	defer left.mu.RUnlock()
	if other != left {
		other.mu.RLock()
		defer other.mu.RUnlock()
	}
	if left.dim != other.dim {
		return 0, gatesetErrorf(tag, ErrDimMismatch)
	}

	var sum float64
	n := 0
	vecDiff := func(a, b operator.SPAMVec) {
		for i := 0; i < a.Dim(); i++ {
			d := a.AtVec(i) - b.AtVec(i)
			sum += spamWeight * d * d
			n++
		}
	}
	for _, k := range left.gates.keys {
		og, ok := other.gates.get(k)
		if !ok {
			return 0, gatesetErrorf(tag+"("+Gate(k).String()+")", ErrUnknownLabel)
		}
		g := left.gates.vals[k]
		for i := 0; i < left.dim; i++ {
			for j := 0; j < left.dim; j++ {
				d := g.At(i, j) - og.At(i, j)
				sum += gateWeight * d * d
				n++
			}
		}
	}
	for _, k := range left.preps.keys {
		ov, ok := other.preps.get(k)
		if !ok {
			return 0, gatesetErrorf(tag+"("+Prep(k).String()+")", ErrUnknownLabel)
		}
		vecDiff(left.preps.vals[k], ov)
	}
	for _, k := range left.effects.keys {
		ov, ok := other.effects.get(k)
		if !ok {
			return 0, gatesetErrorf(tag+"("+Effect(k).String()+")", ErrUnknownLabel)
		}
		vecDiff(left.effects.vals[k], ov)
	}

	if normalize && n > 0 {
		return math.Sqrt(sum / float64(n)), nil
	}

	return math.Sqrt(sum), nil
}

// TPDist returns the distance to the trace-preserving manifold: the root of
// the summed squared deviations of every gate's first row from [1,0,…,0] and
// of every preparation's first element from dim^(-1/4).
func (gs *GateSet) TPDist() float64 {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	var penalty float64
	for _, k := range gs.gates.keys {
		g := gs.gates.vals[k]
		d := g.At(0, 0) - 1
		penalty += d * d
		for k := 1; k < gs.dim; k++ {
			penalty += g.At(0, k) * g.At(0, k)
		}
	}
	first := 1 / math.Pow(float64(gs.dim), 0.25)
	for _, k := range gs.preps.keys {
		d := gs.preps.vals[k].AtVec(0) - first
		penalty += d * d
	}

	return math.Sqrt(penalty)
}

// JTraceDist returns the Jamiolkowski trace distance between gs and other:
// the largest ½‖J(A) − J(B)‖₁ over corresponding gates A and B, where J is
// the Choi matrix (basis.JamiolkowskiIso) in gs's recorded basis. Both
// models are taken to be expressed in that basis.
//
// Errors:
//   - ErrUnknownBasis when gs records no basis.
//   - ErrDimMismatch or ErrUnknownLabel when the models do not correspond.
func (gs *GateSet) JTraceDist(other *GateSet) (float64, error) {
	const tag = "JTraceDist"
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	if other != gs {
		other.mu.RLock()
		defer other.mu.RUnlock()
	}
	if gs.dim != other.dim {
		return 0, gatesetErrorf(tag, ErrDimMismatch)
	}
	kind, err := basis.ParseKind(gs.basisName)
	if err != nil {
		return 0, gatesetErrorf(tag, ErrUnknownBasis)
	}

	var worst float64
	for _, k := range gs.gates.keys {
		og, ok := other.gates.get(k)
		if !ok {
			return 0, gatesetErrorf(tag+"("+Gate(k).String()+")", ErrUnknownLabel)
		}
		var diff mat.Dense
		diff.Sub(gs.gates.vals[k].Matrix(), og.Matrix())
		j, err := basis.JamiolkowskiIso(&diff, kind, gs.basisStruct)
		if err != nil {
			return 0, gatesetErrorf(tag+"("+Gate(k).String()+")", err)
		}
		norm, err := linalg.HermitianTraceNorm(j)
		if err != nil {
			return 0, gatesetErrorf(tag+"("+Gate(k).String()+")", err)
		}
		worst = math.Max(worst, norm/2)
	}

	return worst, nil
}
