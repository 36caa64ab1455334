// SPDX-License-Identifier: MIT

package gateset

import (
	"math"
	"math/rand"

	"github.com/katalvlaran/lvgst/basis"
	"github.com/katalvlaran/lvgst/linalg"
	"github.com/katalvlaran/lvgst/operator"
	"gonum.org/v1/gonum/mat"
)

// defaultSeed replaces a zero seed so that the zero value stays reproducible.
const defaultSeed int64 = 1

// rngFromSeed returns a deterministic generator; seed 0 selects defaultSeed.
func rngFromSeed(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}

	return rand.New(rand.NewSource(seed))
}

// depolarizer returns diag(1, 1-p, …, 1-p) of size d.
func depolarizer(d int, p float64) *mat.Dense {
	diag := make([]float64, d*d)
	diag[0] = 1
	for i := 1; i < d; i++ {
		diag[i*d+i] = 1 - p
	}

	return mat.NewDense(d, d, diag)
}

// mulGate returns a FullGate holding m·g.
func mulGate(m mat.Matrix, g operator.Gate) (operator.Gate, error) {
	var out mat.Dense
	out.Mul(m, g.Matrix())

	return operator.NewFullGate(&out)
}

// mulVec returns a FullVec holding m·v.
func mulVec(m mat.Matrix, v operator.SPAMVec) (operator.SPAMVec, error) {
	var out mat.VecDense
	out.MulVec(m, mat.NewVecDense(v.Dim(), v.Vector()))

	return operator.NewFullVec(out.RawVector().Data)
}

// depolarize scales the non-identity components of gates by 1-gate(i) and of
// SPAM vectors by 1-spam(i). A nil strength function leaves that part as is.
func (gs *GateSet) depolarize(gate, prep, effect func(i int) float64) (*GateSet, error) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	out := gs.copyLocked()
	if gate != nil {
		for i, k := range gs.gates.keys {
			g, err := mulGate(depolarizer(gs.dim, gate(i)), gs.gates.vals[k])
			if err != nil {
				return nil, gatesetErrorf("Depolarize("+Gate(k).String()+")", err)
			}
			out.gates.set(k, g)
		}
	}
	if prep != nil {
		for i, k := range gs.preps.keys {
			v, err := mulVec(depolarizer(gs.dim, prep(i)), gs.preps.vals[k])
			if err != nil {
				return nil, gatesetErrorf("Depolarize("+Prep(k).String()+")", err)
			}
			out.preps.set(k, v)
		}
	}
	if effect != nil {
		for i, k := range gs.effects.keys {
			v, err := mulVec(depolarizer(gs.dim, effect(i)), gs.effects.vals[k])
			if err != nil {
				return nil, gatesetErrorf("Depolarize("+Effect(k).String()+")", err)
			}
			out.effects.set(k, v)
		}
	}

	return out, nil
}

func constant(p float64) func(int) float64 {
	if p == 0 {
		return nil
	}

	return func(int) float64 { return p }
}

func random(rng *rand.Rand, n int, maxP float64) func(int) float64 {
	if maxP == 0 {
		return nil
	}
	r := make([]float64, n)
	for i := range r {
		r[i] = maxP * rng.Float64()
	}

	return func(i int) float64 { return r[i] }
}

// Depolarize returns a copy of gs in which every gate is multiplied by
// diag(1, 1-gateNoise, …) and every preparation and effect by
// diag(1, 1-spamNoise, …). Touched operators become fully parameterized;
// a zero strength leaves that part of the model unchanged.
// The operators are assumed to be in a basis whose first element is the identity.
func (gs *GateSet) Depolarize(gateNoise, spamNoise float64) (*GateSet, error) {
	return gs.depolarize(constant(gateNoise), constant(spamNoise), constant(spamNoise))
}

// DepolarizeRandom is Depolarize with an independent strength drawn uniformly
// from [0, max) for every operator, from a generator seeded with seed.
func (gs *GateSet) DepolarizeRandom(maxGateNoise, maxSpamNoise float64, seed int64) (*GateSet, error) {
	rng := rngFromSeed(seed)
	gs.mu.RLock()
	ng, np, ne := gs.gates.len(), gs.preps.len(), gs.effects.len()
	gs.mu.RUnlock()
	gate := random(rng, ng, maxGateNoise)
	prep := random(rng, np, maxSpamNoise)
	effect := random(rng, ne, maxSpamNoise)

	return gs.depolarize(gate, prep, effect)
}

// qubitDim returns the Hilbert-space dimension q of a Pauli-product model of
// dimension d = q², or false when q is not a power of two of at least 2.
func qubitDim(d int) (int, bool) {
	q := int(math.Round(math.Sqrt(float64(d))))
	if q < 2 || q*q != d || q&(q-1) != 0 {
		return 0, false
	}

	return q, true
}

// rotation returns the Pauli-product process matrix of exp(-i·Σ θ_k/2·P_k)
// for a model of dimension d. A single angle applies to every axis.
func rotation(d int, angles []float64) (*mat.Dense, error) {
	if _, ok := qubitDim(d); !ok {
		return nil, ErrRotation
	}
	n := d - 1
	h := make([]float64, n)
	switch len(angles) {
	case 1:
		for i := range h {
			h[i] = angles[0] / 2
		}
	case n:
		for i := range h {
			h[i] = angles[i] / 2
		}
	default:
		return nil, ErrRotation
	}

	return basis.PauliRotation(h)
}

// Rotate returns a copy of gs whose gates are all pre-multiplied by the
// rotation with the given angles (one per non-identity Pauli product: 3 for
// one qubit, 15 for two; a single angle is used for every axis). Rotated gates
// become fully parameterized. The gates are assumed Pauli-product.
func (gs *GateSet) Rotate(angles ...float64) (*GateSet, error) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	r, err := rotation(gs.dim, angles)
	if err != nil {
		return nil, gatesetErrorf("Rotate", err)
	}
	out := gs.copyLocked()
	for _, k := range gs.gates.keys {
		g, err := mulGate(r, gs.gates.vals[k])
		if err != nil {
			return nil, gatesetErrorf("Rotate("+Gate(k).String()+")", err)
		}
		out.gates.set(k, g)
	}

	return out, nil
}

// RotateRandom is Rotate with independent angles drawn uniformly from
// [0, maxRotate) for every gate and axis.
func (gs *GateSet) RotateRandom(maxRotate float64, seed int64) (*GateSet, error) {
	rng := rngFromSeed(seed)
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	if _, ok := qubitDim(gs.dim); !ok {
		return nil, gatesetErrorf("RotateRandom", ErrRotation)
	}
	out := gs.copyLocked()
	angles := make([]float64, gs.dim-1)
	for _, k := range gs.gates.keys {
		for i := range angles {
			angles[i] = maxRotate * rng.Float64()
		}
		r, err := rotation(gs.dim, angles)
		if err != nil {
			return nil, gatesetErrorf("RotateRandom", err)
		}
		g, err := mulGate(r, gs.gates.vals[k])
		if err != nil {
			return nil, gatesetErrorf("RotateRandom("+Gate(k).String()+")", err)
		}
		out.gates.set(k, g)
	}

	return out, nil
}

// Kick returns a copy of gs with every gate perturbed by a random matrix whose
// entries are uniform in [bias-absmag, bias+absmag). Kicked gates become fully
// parameterized.
func (gs *GateSet) Kick(absmag, bias float64, seed int64) (*GateSet, error) {
	rng := rngFromSeed(seed)
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	out := gs.copyLocked()
	for _, k := range gs.gates.keys {
		m := gs.gates.vals[k].Matrix()
		for i := 0; i < gs.dim; i++ {
			for j := 0; j < gs.dim; j++ {
				m.Set(i, j, m.At(i, j)+absmag*2*(rng.Float64()-0.5)+bias)
			}
		}
		g, err := operator.NewFullGate(m)
		if err != nil {
			return nil, gatesetErrorf("Kick("+Gate(k).String()+")", err)
		}
		out.gates.set(k, g)
	}

	return out, nil
}

// RandomizeWithUnitary returns a copy of gs whose gates are each
// pre-multiplied by the Pauli-product process matrix of an independent random
// unitary U = exp(-i·H), with H = A†·A and A = scale·(X + iY) for standard
// normal X and Y. Randomized gates become fully parameterized; unitary
// composition keeps trace-preserving gates trace-preserving.
// The gates are assumed Pauli-product.
//
// Errors:
//   - ErrRotation when the dimension is not the square of a power of two.
func (gs *GateSet) RandomizeWithUnitary(scale float64, seed int64) (*GateSet, error) {
	rng := rngFromSeed(seed)
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	q, ok := qubitDim(gs.dim)
	if !ok {
		return nil, gatesetErrorf("RandomizeWithUnitary", ErrRotation)
	}
	out := gs.copyLocked()
	for _, k := range gs.gates.keys {
		a := mat.NewCDense(q, q, nil)
		for i := 0; i < q; i++ {
			for j := 0; j < q; j++ {
				a.Set(i, j, complex(scale*rng.NormFloat64(), scale*rng.NormFloat64()))
			}
		}
		h, err := linalg.CMul(linalg.CAdjoint(a), a)
		if err != nil {
			return nil, gatesetErrorf("RandomizeWithUnitary", err)
		}
		u, err := linalg.CExpm(linalg.CScale(-1i, h))
		if err != nil {
			return nil, gatesetErrorf("RandomizeWithUnitary", err)
		}
		r, err := basis.UnitaryToProcessMatrix(u, basis.PauliProd)
		if err != nil {
			return nil, gatesetErrorf("RandomizeWithUnitary("+Gate(k).String()+")", err)
		}
		g, err := mulGate(r, gs.gates.vals[k])
		if err != nil {
			return nil, gatesetErrorf("RandomizeWithUnitary("+Gate(k).String()+")", err)
		}
		out.gates.set(k, g)
	}

	return out, nil
}
