// SPDX-License-Identifier: MIT

package calc

import (
	"math"

	"github.com/katalvlaran/lvgst/gatestring"
	"github.com/katalvlaran/lvgst/linalg"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// smallScale and largeScale bound the largest element of a scaled
	// running product before it is renormalized.
	smallScale = 1e-100
	largeScale = 1e100
)

// raw returns the row-major elements of a freshly allocated (contiguous) matrix.
func raw(m *mat.Dense) []float64 {
	r, c := m.Dims()
	if rm := m.RawMatrix(); rm.Stride == c {
		return rm.Data[:r*c]
	}

	return linalg.Flatten(m)
}

// view aliases row q of a (k × dim²) matrix as a dim×dim matrix.
func view(m *mat.Dense, q, dim int) *mat.Dense {
	return mat.NewDense(dim, dim, m.RawRowView(q))
}

// rescale renormalizes p in place when its largest element leaves
// [smallScale, largeScale] and returns the divisor (1 when untouched).
func rescale(p *mat.Dense) float64 {
	m := linalg.MaxAbs(p)
	if m == 0 || (m >= smallScale && m <= largeScale) {
		return 1
	}
	nu := mat.Norm(p, 2)
	p.Scale(1/nu, p)

	return nu
}

func (c *Calculator) sequence(tag string, s gatestring.GateString) ([]*gateEntry, error) {
	seq := make([]*gateEntry, s.Len())
	for i := range seq {
		g, err := c.gate(tag, s.At(i))
		if err != nil {
			return nil, err
		}
		seq[i] = g
	}

	return seq, nil
}

// scaledProduct returns the product divided by exp(logScale), and logScale.
func (c *Calculator) scaledProduct(seq []*gateEntry) (*mat.Dense, float64) {
	p := linalg.Identity(c.dim)
	logScale := 0.0
	for _, g := range seq {
		var next mat.Dense
		next.Mul(g.m, p)
		next.Scale(1/g.norm, &next)
		p = &next
		logScale += math.Log(g.norm)
		if nu := rescale(p); nu != 1 {
			logScale += math.Log(nu)
		}
	}

	return p, logScale
}

// Product returns Gn·…·G1 for s = (g1, …, gn); the empty string gives the identity.
//
// Errors:
//   - ErrUnknownGate for a label absent from the model.
//   - ErrOverflow when the product is no longer finite; use ScaledProduct.
func (c *Calculator) Product(s gatestring.GateString) (*mat.Dense, error) {
	seq, err := c.sequence("Product", s)
	if err != nil {
		return nil, err
	}
	p, logScale := c.scaledProduct(seq)
	p.Scale(math.Exp(logScale), p)
	if !linalg.IsFinite(p) {
		return nil, calcErrorf("Product", ErrOverflow)
	}

	return p, nil
}

// ScaledProduct returns (P', scale) with scale·P' equal to the product of s
// and the elements of P' of order one.
func (c *Calculator) ScaledProduct(s gatestring.GateString) (*mat.Dense, float64, error) {
	seq, err := c.sequence("ScaledProduct", s)
	if err != nil {
		return nil, 0, err
	}
	p, logScale := c.scaledProduct(seq)

	return p, math.Exp(logScale), nil
}

// partials returns, for every position i, the products of the gates
// applied before i (left) and after i (right).
func (c *Calculator) partials(seq []*gateEntry) (left, right []*mat.Dense) {
	n := len(seq)
	left = make([]*mat.Dense, n)
	right = make([]*mat.Dense, n)
	acc := linalg.Identity(c.dim)
	for i, g := range seq {
		left[i] = acc
		var next mat.Dense
		next.Mul(g.m, acc)
		acc = &next
	}
	acc = linalg.Identity(c.dim)
	for i := n - 1; i >= 0; i-- {
		right[i] = acc
		var next mat.Dense
		next.Mul(acc, seq[i].m)
		acc = &next
	}

	return left, right
}

// dproductRows returns the np×dim² derivative whose row p is vec(∂P/∂θp),
// or nil when the model has no parameters.
//
// Implementation:
//   - ∂P/∂θ = Σ_i R_i·∂G_i·L_i over positions i whose gate owns θ, where
//     L_i and R_i are the partial products before and after position i.
func (c *Calculator) dproductRows(seq []*gateEntry) *mat.Dense {
	if c.np == 0 {
		return nil
	}
	out := mat.NewDense(c.np, c.dim*c.dim, nil)
	left, right := c.partials(seq)
	for i, g := range seq {
		for k, dk := range g.deriv {
			var t, u mat.Dense
			t.Mul(dk, left[i])
			u.Mul(right[i], &t)
			floats.Add(out.RawRowView(g.off.Start+k), raw(&u))
		}
	}

	return out
}

// hproductRows returns np matrices of shape np×dim²; row b of entry a is
// vec(∂²P/∂θa∂θb). Nil when the model has no parameters.
//
// Implementation:
//   - Every parameterization is affine, so only pairs of distinct positions
//     i < j contribute R_j·∂G_j·M_ij·∂G_i·L_i, with M_ij the product strictly
//     between them; each term lands in both (a, b) and (b, a).
//
// Complexity: O(n²·np²·dim³) for a string of length n.
func (c *Calculator) hproductRows(seq []*gateEntry) []*mat.Dense {
	if c.np == 0 {
		return nil
	}
	d2 := c.dim * c.dim
	out := make([]*mat.Dense, c.np)
	for a := range out {
		out[a] = mat.NewDense(c.np, d2, nil)
	}
	left, right := c.partials(seq)
	for i, gi := range seq {
		if len(gi.deriv) == 0 {
			continue
		}
		mid := linalg.Identity(c.dim)
		for j := i + 1; j < len(seq); j++ {
			gj := seq[j]
			if len(gj.deriv) > 0 {
				for a, da := range gi.deriv {
					var t, x mat.Dense
					t.Mul(da, left[i])
					x.Mul(mid, &t)
					ia := gi.off.Start + a
					for b, db := range gj.deriv {
						var y, z mat.Dense
						y.Mul(db, &x)
						z.Mul(right[j], &y)
						ib := gj.off.Start + b
						floats.Add(out[ia].RawRowView(ib), raw(&z))
						floats.Add(out[ib].RawRowView(ia), raw(&z))
					}
				}
			}
			var next mat.Dense
			next.Mul(gj.m, mid)
			mid = &next
		}
	}

	return out
}

// DProductFlat returns the dim²×np derivative of the product of s; column p
// is the row-major vec(∂P/∂θp). It is nil when the model has no parameters.
func (c *Calculator) DProductFlat(s gatestring.GateString) (*mat.Dense, error) {
	seq, err := c.sequence("DProductFlat", s)
	if err != nil {
		return nil, err
	}
	rows := c.dproductRows(seq)
	if rows == nil {
		return nil, nil
	}

	return mat.DenseCopyOf(rows.T()), nil
}

// DProduct returns ∂P/∂θp as np dim×dim matrices.
func (c *Calculator) DProduct(s gatestring.GateString) ([]*mat.Dense, error) {
	seq, err := c.sequence("DProduct", s)
	if err != nil {
		return nil, err
	}
	rows := c.dproductRows(seq)
	out := make([]*mat.Dense, c.np)
	for p := range out {
		out[p] = mat.DenseCopyOf(view(rows, p, c.dim))
	}

	return out, nil
}

// HProductFlat returns dim² matrices of shape np×np; entry e holds the
// Hessian of element e (row-major) of the product of s.
func (c *Calculator) HProductFlat(s gatestring.GateString) ([]*mat.Dense, error) {
	seq, err := c.sequence("HProductFlat", s)
	if err != nil {
		return nil, err
	}
	h := c.hproductRows(seq)
	if h == nil {
		return nil, nil
	}
	out := make([]*mat.Dense, c.dim*c.dim)
	for e := range out {
		out[e] = mat.NewDense(c.np, c.np, nil)
	}
	for a, ha := range h {
		for b := 0; b < c.np; b++ {
			for e, v := range ha.RawRowView(b) {
				out[e].Set(a, b, v)
			}
		}
	}

	return out, nil
}

// HProduct returns ∂²P/∂θa∂θb as an np×np grid of dim×dim matrices.
func (c *Calculator) HProduct(s gatestring.GateString) ([][]*mat.Dense, error) {
	seq, err := c.sequence("HProduct", s)
	if err != nil {
		return nil, err
	}
	h := c.hproductRows(seq)
	out := make([][]*mat.Dense, c.np)
	for a := range out {
		out[a] = make([]*mat.Dense, c.np)
		for b := range out[a] {
			out[a][b] = mat.DenseCopyOf(view(h[a], b, c.dim))
		}
	}

	return out, nil
}
