// SPDX-License-Identifier: MIT

package calc

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/katalvlaran/lvgst/gateset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Clip bounds probabilities to [Min, Max]. Derivatives are never clipped.
type Clip struct {
	Min, Max float64
}

func (c *Clip) apply(p float64) float64 {
	if c == nil {
		return p
	}

	return math.Min(math.Max(p, c.Min), c.Max)
}

// gateEntry is the snapshot of one gate.
type gateEntry struct {
	m     *mat.Dense
	norm  float64 // max(‖G‖_F, 1); scaled products use m/norm
	off   gateset.Range
	deriv []*mat.Dense // dim×dim derivative per local parameter
}

// spamPair holds the vectors of one SPAM label and their derivative
// columns over the whole parameter vector (nil when np == 0).
type spamPair struct {
	rho, e     []float64
	dRho, dE   *mat.Dense // dim×np
	outer      []float64  // row-major E·ρᵀ, so Σ outer·vec(P) = Eᵀ·P·ρ
	complement bool       // (remainder, remainder): 1 − Σ other labels
}

// Calculator evaluates products and probabilities of one gate set snapshot.
type Calculator struct {
	dim, np    int
	gates      map[string]*gateEntry
	gateLabels []string
	spamLabels []string
	spam       map[string]*spamPair
	spamErr    map[string]error
	cfg        config
}

// New snapshots gs. Later changes to gs do not affect the calculator.
//
// Errors:
//   - ErrEmptyModel when gs has no dimension yet.
//
// SPAM labels that cannot be resolved (a remainder effect without an
// identity vector) do not fail New; they report ErrNoIdentity when used.
func New(gs *gateset.GateSet, opts ...Option) (*Calculator, error) {
	snap := gs.Copy()
	dim := snap.Dim()
	if dim <= 0 {
		return nil, calcErrorf("New", ErrEmptyModel)
	}
	c := &Calculator{
		dim:        dim,
		np:         snap.NumParams(),
		gates:      make(map[string]*gateEntry),
		gateLabels: snap.GateLabels(),
		spamLabels: snap.SpamLabels(),
		spam:       make(map[string]*spamPair),
		spamErr:    make(map[string]error),
		cfg:        newConfig(opts),
	}
	offsets := snap.VectorOffsets()

	for _, name := range c.gateLabels {
		g, _ := snap.Gate(name)
		e := &gateEntry{
			m:    g.Matrix(),
			norm: math.Max(mat.Norm(g.Matrix(), 2), 1),
			off:  offsets[gateset.Gate(name)],
		}
		if d := g.DerivWrtParams(); d != nil {
			_, cols := d.Dims()
			e.deriv = make([]*mat.Dense, cols)
			for k := 0; k < cols; k++ {
				e.deriv[k] = mat.NewDense(dim, dim, mat.Col(nil, k, d))
			}
		}
		c.gates[name] = e
	}

	prep := func(name string) ([]float64, *mat.Dense) {
		v, _ := snap.Prep(name)

		return v.Vector(), c.derivCols(v.DerivWrtParams(), offsets[gateset.Prep(name)])
	}
	effect := func(name string) ([]float64, *mat.Dense) {
		v, _ := snap.Effect(name)

		return v.Vector(), c.derivCols(v.DerivWrtParams(), offsets[gateset.Effect(name)])
	}

	var remE []float64
	var remD *mat.Dense
	var remErr error
	if id, ok := snap.Identity(); ok {
		remE = id.Vector()
		if c.np > 0 {
			remD = mat.NewDense(dim, c.np, nil)
		}
		for _, name := range snap.EffectLabels() {
			v, d := effect(name)
			floats.Sub(remE, v)
			if d != nil {
				remD.Sub(remD, d)
			}
		}
	} else {
		remErr = calcErrorf("New", ErrNoIdentity)
	}

	rem := snap.RemainderLabel()
	for _, label := range c.spamLabels {
		def, _ := snap.SpamDef(label)
		if snap.IsRemainderPair(def) {
			c.spam[label] = &spamPair{complement: true}
			continue
		}
		sp := &spamPair{}
		sp.rho, sp.dRho = prep(def.Prep)
		if def.Effect == rem {
			if remErr != nil {
				c.spamErr[label] = remErr
				continue
			}
			sp.e, sp.dE = remE, remD
		} else {
			sp.e, sp.dE = effect(def.Effect)
		}
		sp.outer = make([]float64, dim*dim)
		for i := range sp.e {
			for j := range sp.rho {
				sp.outer[i*dim+j] = sp.e[i] * sp.rho[j]
			}
		}
		c.spam[label] = sp
	}

	c.cfg.logger.Debug("calculator snapshot",
		slog.Int("dim", dim), slog.Int("params", c.np),
		slog.Int("gates", len(c.gateLabels)), slog.Int("spamLabels", len(c.spamLabels)))

	return c, nil
}

// derivCols embeds a local dim×k derivative into the columns r of a dim×np matrix.
func (c *Calculator) derivCols(d *mat.Dense, r gateset.Range) *mat.Dense {
	if c.np == 0 {
		return nil
	}
	out := mat.NewDense(c.dim, c.np, nil)
	if d != nil {
		out.Slice(0, c.dim, r.Start, r.End).(*mat.Dense).Copy(d)
	}

	return out
}

// Dim returns the superoperator dimension.
func (c *Calculator) Dim() int { return c.dim }

// NumParams returns the length of the parameter vector derivatives are taken against.
func (c *Calculator) NumParams() int { return c.np }

// GateLabels returns the gate labels in insertion order.
func (c *Calculator) GateLabels() []string { return append([]string(nil), c.gateLabels...) }

// SpamLabels returns the SPAM labels in insertion order.
func (c *Calculator) SpamLabels() []string { return append([]string(nil), c.spamLabels...) }

func (c *Calculator) gate(tag, label string) (*gateEntry, error) {
	g, ok := c.gates[label]
	if !ok {
		return nil, calcErrorf(fmt.Sprintf("%s(%q)", tag, label), ErrUnknownGate)
	}

	return g, nil
}

func (c *Calculator) spamPair(tag, label string) (*spamPair, error) {
	if err, ok := c.spamErr[label]; ok {
		return nil, calcErrorf(fmt.Sprintf("%s(%q)", tag, label), err)
	}
	sp, ok := c.spam[label]
	if !ok {
		return nil, calcErrorf(fmt.Sprintf("%s(%q)", tag, label), ErrUnknownSpamLabel)
	}

	return sp, nil
}
