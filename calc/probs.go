// SPDX-License-Identifier: MIT

package calc

import (
	"math"

	"github.com/katalvlaran/lvgst/gatestring"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// pr returns Eᵀ·P·ρ.
func (sp *spamPair) pr(p *mat.Dense) float64 {
	return floats.Dot(sp.outer, raw(p))
}

// dpr writes ∂pr/∂θq for q in [b0, b1) into dst. rows holds vec(∂P/∂θq)
// for the same columns (row q-b0) and may be nil for a constant product.
func (sp *spamPair) dpr(p, rows *mat.Dense, b0, b1 int, dst []float64) {
	if b1 == b0 {
		return
	}
	dim := len(sp.e)
	var pRho, pE mat.VecDense
	pRho.MulVec(p, mat.NewVecDense(dim, sp.rho))
	pE.MulVec(p.T(), mat.NewVecDense(dim, sp.e))
	for q := b0; q < b1; q++ {
		v := 0.0
		if rows != nil {
			v = floats.Dot(sp.outer, rows.RawRowView(q-b0))
		}
		for i := 0; i < dim; i++ {
			v += pE.AtVec(i)*sp.dRho.At(i, q) + sp.dE.At(i, q)*pRho.AtVec(i)
		}
		dst[q-b0] = v
	}
}

// hpr writes ∂²pr/∂θa∂θb for every a and b in [b0, b1) into dst (np × (b1-b0)).
// d holds all np rows vec(∂P/∂θa); h[a] holds vec(∂²P/∂θa∂θb) in row b-b0.
// Nil d or h (or a nil h[a]) means zero.
//
// Implementation:
//   - E and ρ are affine in θ, so
//     ∂²pr = Eᵀ·P_ab·ρ + Eᵀ·P_a·ρ_b + Eᵀ·P_b·ρ_a + E_aᵀ·P_b·ρ + E_bᵀ·P_a·ρ + E_aᵀ·P·ρ_b + E_bᵀ·P·ρ_a.
func (sp *spamPair) hpr(p, d *mat.Dense, h []*mat.Dense, b0, b1 int, dst *mat.Dense) {
	_, np := sp.dRho.Dims()
	dim := len(sp.e)
	rhoT := mat.DenseCopyOf(sp.dRho.T()) // np×dim, row a = ∂ρ/∂θa
	eT := mat.DenseCopyOf(sp.dE.T())
	var pdRho mat.Dense
	pdRho.Mul(p, sp.dRho)
	pdT := mat.DenseCopyOf(pdRho.T()) // row a = P·∂ρ/∂θa

	u := mat.NewDense(np, dim, nil) // row a = P_aᵀ·E
	w := mat.NewDense(np, dim, nil) // row a = P_a·ρ
	if d != nil {
		e := mat.NewVecDense(dim, sp.e)
		rho := mat.NewVecDense(dim, sp.rho)
		for a := 0; a < np; a++ {
			pa := view(d, a, dim)
			mat.NewVecDense(dim, u.RawRowView(a)).MulVec(pa.T(), e)
			mat.NewVecDense(dim, w.RawRowView(a)).MulVec(pa, rho)
		}
	}

	for a := 0; a < np; a++ {
		for b := b0; b < b1; b++ {
			v := floats.Dot(u.RawRowView(a), rhoT.RawRowView(b)) +
				floats.Dot(u.RawRowView(b), rhoT.RawRowView(a)) +
				floats.Dot(eT.RawRowView(a), w.RawRowView(b)) +
				floats.Dot(eT.RawRowView(b), w.RawRowView(a)) +
				floats.Dot(eT.RawRowView(a), pdT.RawRowView(b)) +
				floats.Dot(eT.RawRowView(b), pdT.RawRowView(a))
			if h != nil && h[a] != nil {
				v += floats.Dot(sp.outer, h[a].RawRowView(b-b0))
			}
			dst.Set(a, b-b0, v)
		}
	}
}

// single evaluates the unscaled product of s and, up to order, its
// derivative rows and Hessian rows.
func (c *Calculator) single(tag string, s gatestring.GateString, order int) (*mat.Dense, *mat.Dense, []*mat.Dense, error) {
	seq, err := c.sequence(tag, s)
	if err != nil {
		return nil, nil, nil, err
	}
	p, logScale := c.scaledProduct(seq)
	p.Scale(math.Exp(logScale), p)
	var d *mat.Dense
	var h []*mat.Dense
	if order >= 1 {
		d = c.dproductRows(seq)
	}
	if order >= 2 {
		h = c.hproductRows(seq)
	}

	return p, d, h, nil
}

// ordinary returns the resolved pairs of every non-complement label, in label order.
func (c *Calculator) ordinary(tag string) ([]string, []*spamPair, error) {
	var labels []string
	var pairs []*spamPair
	for _, l := range c.spamLabels {
		sp, err := c.spamPair(tag, l)
		if err != nil {
			return nil, nil, err
		}
		if !sp.complement {
			labels = append(labels, l)
			pairs = append(pairs, sp)
		}
	}

	return labels, pairs, nil
}

// Probs returns the probability of every SPAM label for s.
func (c *Calculator) Probs(s gatestring.GateString, clip *Clip) (map[string]float64, error) {
	labels, pairs, err := c.ordinary("Probs")
	if err != nil {
		return nil, err
	}
	seq, err := c.sequence("Probs", s)
	if err != nil {
		return nil, err
	}
	p, logScale := c.scaledProduct(seq)
	scale := math.Exp(logScale)

	out := make(map[string]float64, len(c.spamLabels))
	rest := 1.0
	for i, sp := range pairs {
		v := scale * sp.pr(p)
		out[labels[i]] = v
		rest -= v
	}
	for _, l := range c.spamLabels {
		if c.spam[l].complement {
			out[l] = rest
		}
	}
	for l, v := range out {
		out[l] = clip.apply(v)
	}

	return out, nil
}

// Pr returns the probability of one SPAM label for s, clipped when clip is non-nil.
//
// Errors:
//   - ErrUnknownSpamLabel, ErrUnknownGate.
//   - ErrNoIdentity for a remainder effect on a model without identity vector.
func (c *Calculator) Pr(label string, s gatestring.GateString, clip *Clip) (float64, error) {
	sp, err := c.spamPair("Pr", label)
	if err != nil {
		return 0, err
	}
	if sp.complement {
		probs, err := c.Probs(s, clip)
		if err != nil {
			return 0, err
		}

		return probs[label], nil
	}
	seq, err := c.sequence("Pr", s)
	if err != nil {
		return 0, err
	}
	p, logScale := c.scaledProduct(seq)

	return clip.apply(math.Exp(logScale) * sp.pr(p)), nil
}

// DProbs returns ∂pr/∂θ (length np) of every SPAM label for s.
func (c *Calculator) DProbs(s gatestring.GateString) (map[string][]float64, error) {
	labels, pairs, err := c.ordinary("DProbs")
	if err != nil {
		return nil, err
	}
	p, d, _, err := c.single("DProbs", s, 1)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]float64, len(c.spamLabels))
	rest := make([]float64, c.np)
	for i, sp := range pairs {
		v := make([]float64, c.np)
		sp.dpr(p, d, 0, c.np, v)
		out[labels[i]] = v
		floats.Sub(rest, v)
	}
	for _, l := range c.spamLabels {
		if c.spam[l].complement {
			out[l] = append([]float64(nil), rest...)
		}
	}

	return out, nil
}

// DPr returns ∂pr/∂θ for one SPAM label.
func (c *Calculator) DPr(label string, s gatestring.GateString) ([]float64, error) {
	sp, err := c.spamPair("DPr", label)
	if err != nil {
		return nil, err
	}
	if sp.complement {
		all, err := c.DProbs(s)
		if err != nil {
			return nil, err
		}

		return all[label], nil
	}
	p, d, _, err := c.single("DPr", s, 1)
	if err != nil {
		return nil, err
	}
	out := make([]float64, c.np)
	sp.dpr(p, d, 0, c.np, out)

	return out, nil
}

// HProbs returns the np×np Hessian of every SPAM label for s; values are
// nil when the model has no parameters.
func (c *Calculator) HProbs(s gatestring.GateString) (map[string]*mat.Dense, error) {
	labels, pairs, err := c.ordinary("HProbs")
	if err != nil {
		return nil, err
	}
	p, d, h, err := c.single("HProbs", s, 2)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*mat.Dense, len(c.spamLabels))
	if c.np == 0 {
		for _, l := range c.spamLabels {
			out[l] = nil
		}

		return out, nil
	}
	rest := mat.NewDense(c.np, c.np, nil)
	for i, sp := range pairs {
		v := mat.NewDense(c.np, c.np, nil)
		sp.hpr(p, d, h, 0, c.np, v)
		out[labels[i]] = v
		rest.Sub(rest, v)
	}
	for _, l := range c.spamLabels {
		if c.spam[l].complement {
			out[l] = mat.DenseCopyOf(rest)
		}
	}

	return out, nil
}

// HPr returns the np×np Hessian of one SPAM label, or nil when the model
// has no parameters.
func (c *Calculator) HPr(label string, s gatestring.GateString) (*mat.Dense, error) {
	sp, err := c.spamPair("HPr", label)
	if err != nil {
		return nil, err
	}
	if sp.complement {
		all, err := c.HProbs(s)
		if err != nil {
			return nil, err
		}

		return all[label], nil
	}
	p, d, h, err := c.single("HPr", s, 2)
	if err != nil {
		return nil, err
	}
	if c.np == 0 {
		return nil, nil
	}
	out := mat.NewDense(c.np, c.np, nil)
	sp.hpr(p, d, h, 0, c.np, out)

	return out, nil
}
