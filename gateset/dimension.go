// SPDX-License-Identifier: MIT

package gateset

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/lvgst/operator"
	"gonum.org/v1/gonum/mat"
)

// resized builds a fully parameterized model of dimension n from gs, mapping
// vectors with vec and gates with gate. Basis metadata is reset; SPAM
// definitions are carried. Caller holds the read lock.
func (gs *GateSet) resized(tag string, n int, vec func([]float64) []float64, gate func(*mat.Dense) *mat.Dense) (*GateSet, error) {
	opts := []Option{WithRemainderLabel(gs.remainder), WithLogger(gs.logger)}
	if gs.strict {
		opts = append(opts, WithStrictIndexing())
	}
	out := New(opts...)
	out.dim = n
	for _, k := range gs.preps.keys {
		v, err := operator.NewFullVec(vec(gs.preps.vals[k].Vector()))
		if err != nil {
			return nil, gatesetErrorf(tag, err)
		}
		out.preps.set(k, v)
	}
	for _, k := range gs.effects.keys {
		v, err := operator.NewFullVec(vec(gs.effects.vals[k].Vector()))
		if err != nil {
			return nil, gatesetErrorf(tag, err)
		}
		out.effects.set(k, v)
	}
	if gs.identity != nil {
		v, err := operator.NewStaticVec(vec(gs.identity.Vector()))
		if err != nil {
			return nil, gatesetErrorf(tag, err)
		}
		out.identity = v
	}
	for _, k := range gs.gates.keys {
		g, err := operator.NewFullGate(gate(gs.gates.vals[k].Matrix()))
		if err != nil {
			return nil, gatesetErrorf(tag, err)
		}
		out.gates.set(k, g)
	}
	for _, k := range gs.spam.keys {
		out.spam.set(k, gs.spam.vals[k])
	}

	return out, nil
}

// IncreaseDimension returns a fully parameterized copy of dimension n > Dim():
// vectors are zero-padded and gates padded with the identity.
func (gs *GateSet) IncreaseDimension(n int) (*GateSet, error) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	cur := gs.dim
	if n <= cur {
		return nil, gatesetErrorf(fmt.Sprintf("IncreaseDimension(%d)", n), ErrDimMismatch)
	}

	return gs.resized("IncreaseDimension", n,
		func(v []float64) []float64 { return append(v, make([]float64, n-cur)...) },
		func(g *mat.Dense) *mat.Dense {
			out := mat.NewDense(n, n, nil)
			out.Slice(0, cur, 0, cur).(*mat.Dense).Copy(g)
			for i := cur; i < n; i++ {
				out.Set(i, i, 1)
			}

			return out
		})
}

// DecreaseDimension returns a fully parameterized copy truncated to the
// leading n < Dim() components.
func (gs *GateSet) DecreaseDimension(n int) (*GateSet, error) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	if n <= 0 || n >= gs.dim {
		return nil, gatesetErrorf(fmt.Sprintf("DecreaseDimension(%d)", n), ErrDimMismatch)
	}

	return gs.resized("DecreaseDimension", n,
		func(v []float64) []float64 { return v[:n] },
		func(g *mat.Dense) *mat.Dense { return mat.DenseCopyOf(g.Slice(0, n, 0, n)) })
}

// String renders every preparation and effect as a row and every gate as a matrix.
func (gs *GateSet) String() string {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	var b strings.Builder
	row := func(name string, v operator.SPAMVec) {
		fmt.Fprintf(&b, "%s = %v\n", name, mat.Formatted(mat.NewDense(1, v.Dim(), v.Vector())))
	}
	for _, k := range gs.preps.keys {
		row(k, gs.preps.vals[k])
	}
	b.WriteString("\n")
	for _, k := range gs.effects.keys {
		row(k, gs.effects.vals[k])
	}
	b.WriteString("\n")
	for _, k := range gs.gates.keys {
		fmt.Fprintf(&b, "%s = \n%v\n\n", k, mat.Formatted(gs.gates.vals[k].Matrix(), mat.Squeeze()))
	}

	return b.String()
}
