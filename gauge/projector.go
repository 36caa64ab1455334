// SPDX-License-Identifier: MIT

package gauge

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lvgst/gateset"
	"github.com/katalvlaran/lvgst/gsterr"
	"github.com/katalvlaran/lvgst/linalg"
	"gonum.org/v1/gonum/mat"
)

// ErrMixShape is returned when the non-gauge mixing matrix has the wrong shape.
var ErrMixShape = fmt.Errorf("gauge: non-gauge mix shape mismatch: %w", gsterr.ErrDimension)

// Result holds the projectors onto the gauge and non-gauge subspaces of
// parameter space. Both are NumParams×NumParams and sum to the identity.
// They are nil when the model has no parameters.
type Result struct {
	Gauge        *mat.Dense
	NonGauge     *mat.Dense
	GaugeRank    int
	NonGaugeRank int
}

// Generators returns the NumElements×dim² matrix whose column i·dim+j is the
// first-order change of the model's raw elements under the gauge
// transformation S = I - ε·K_ij (K_ij the matrix unit), with gates mapped to
// S⁻¹·G·S, preparations to S⁻¹·ρ and effects to Sᵀ·E. The columns hold
// K·ρ for preparations, -Kᵀ·E for effects and K·G - G·K for gates.
func Generators(gs *gateset.GateSet) (*mat.Dense, error) {
	dim, ne := gs.Dim(), gs.NumElements()
	if dim == 0 || ne == 0 {
		return nil, nil
	}
	scratch := gs.FullScratch()
	preps, effects, gates := gs.PrepLabels(), gs.EffectLabels(), gs.GateLabels()

	dG := mat.NewDense(ne, dim*dim, nil)
	unit := mat.NewDense(dim, dim, nil)
	var gv, vg mat.Dense
	var kv mat.VecDense
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			unit.Zero()
			unit.Set(i, j, 1)

			for _, l := range preps {
				rho, _ := gs.Prep(l)
				kv.MulVec(unit, mat.NewVecDense(dim, rho.Vector()))
				if err := scratch.SetPrepVector(l, kv.RawVector().Data); err != nil {
					return nil, gsterr.Errorf("Generators", err)
				}
			}
			for _, l := range effects {
				e, _ := gs.Effect(l)
				kv.MulVec(unit.T(), mat.NewVecDense(dim, e.Vector()))
				kv.ScaleVec(-1, &kv)
				if err := scratch.SetEffectVector(l, kv.RawVector().Data); err != nil {
					return nil, gsterr.Errorf("Generators", err)
				}
			}
			for _, l := range gates {
				g, _ := gs.Gate(l)
				m := g.Matrix()
				gv.Mul(unit, m)
				vg.Mul(m, unit)
				gv.Sub(&gv, &vg)
				if err := scratch.SetGateMatrix(l, &gv); err != nil {
					return nil, gsterr.Errorf("Generators", err)
				}
			}
			dG.SetCol(i*dim+j, scratch.ToVector())
		}
	}

	return dG, nil
}

// Compute builds the gauge and non-gauge projectors of gs.
//
// Implementation:
//   - Stage 1: dG from Generators, dP from gs.DerivWrtParams; M = [dP | dG].
//   - Stage 2: right nullspace of M (tolerance WithTol); its first NumParams
//     rows are the gauge generators expressed in parameter space, genDG.
//   - Stage 3: optionally genDG += N·mix (WithNonGaugeMix).
//   - Stage 4: P = genDG·genDGᵀ, P' = pinv(P)·P; NonGauge = I - P'.
//
// Postconditions: rank(P) == rank(P') and NumParams - rank(P) == rank(NonGauge)
// under WithRankTol. A violation is a *gsterr.DegeneracyError, logged as a
// warning unless WithStrict(true), in which case it is returned with the result.
func Compute(gs *gateset.GateSet, opts ...Option) (*Result, error) {
	cfg := newConfig(opts)
	np := gs.NumParams()
	if np == 0 {
		return &Result{}, nil
	}

	dP := gs.DerivWrtParams()
	dG, err := Generators(gs)
	if err != nil {
		return nil, err
	}
	var m mat.Dense
	m.Augment(dP, dG)

	null, _, err := linalg.Nullspace(&m, cfg.tol)
	if err != nil {
		return nil, gsterr.Errorf("gauge.Compute", err)
	}
	if null == nil {
		cfg.logger.Debug("gauge: no gauge freedom", "params", np)

		return &Result{Gauge: mat.NewDense(np, np, nil), NonGauge: linalg.Identity(np), NonGaugeRank: np}, nil
	}
	_, nNull := null.Dims()
	genDG := mat.DenseCopyOf(null.Slice(0, np, 0, nNull))

	if cfg.mix != nil {
		if err = mixIn(genDG, cfg); err != nil {
			return nil, err
		}
	}

	var p, pp mat.Dense
	p.Mul(genDG, genDG.T())
	pinv, err := linalg.Pinv(&p, cfg.pinvRcond)
	if err != nil {
		return nil, gsterr.Errorf("gauge.Compute", err)
	}
	pp.Mul(pinv, &p)
	ng := linalg.Identity(np)
	ng.Sub(ng, &pp)

	res := &Result{Gauge: &pp, NonGauge: ng}
	if res.GaugeRank, err = linalg.Rank(&p, cfg.rankTol); err != nil {
		return nil, gsterr.Errorf("gauge.Compute", err)
	}
	ppRank, err := linalg.Rank(&pp, cfg.rankTol)
	if err != nil {
		return nil, gsterr.Errorf("gauge.Compute", err)
	}
	if res.NonGaugeRank, err = linalg.Rank(ng, cfg.rankTol); err != nil {
		return nil, gsterr.Errorf("gauge.Compute", err)
	}
	cfg.logger.Debug("gauge: projector built",
		"params", np, "generators", nNull, "gauge_rank", res.GaugeRank, "non_gauge_rank", res.NonGaugeRank)

	checks := []*gsterr.DegeneracyError{
		{Op: "gauge.Compute: normalized projector rank", Tol: cfg.rankTol, Want: res.GaugeRank, Got: ppRank},
		{Op: "gauge.Compute: complement rank", Tol: cfg.rankTol, Want: np - res.GaugeRank, Got: res.NonGaugeRank},
	}
	var failed []error
	for _, c := range checks {
		if c.Want == c.Got {
			continue
		}
		if cfg.strict {
			failed = append(failed, c)
			continue
		}
		cfg.logger.Warn("gauge: rank check failed", "op", c.Op, "tol", c.Tol, "want", c.Want, "got", c.Got)
	}

	return res, errors.Join(failed...)
}

// mixIn adds the non-gauge mixture to genDG in place.
func mixIn(genDG *mat.Dense, cfg config) error {
	np, nGen := genDG.Dims()
	dirs, _, err := linalg.Nullspace(genDG.T(), cfg.tol)
	if err != nil {
		return gsterr.Errorf("gauge.Compute", err)
	}
	if dirs == nil {
		return nil
	}
	_, k := dirs.Dims()
	if r, c := cfg.mix.Dims(); r != k || c != nGen {
		return gsterr.Errorf(fmt.Sprintf("gauge.Compute: mix is %d×%d, want %d×%d", r, c, k, nGen), ErrMixShape)
	}
	add := mat.NewDense(np, nGen, nil)
	add.Mul(dirs, cfg.mix)
	genDG.Add(genDG, add)

	return nil
}

// NonGaugeProjector returns Compute(gs).NonGauge.
func NonGaugeProjector(gs *gateset.GateSet, opts ...Option) (*mat.Dense, error) {
	res, err := Compute(gs, opts...)
	if res == nil {
		return nil, err
	}

	return res.NonGauge, err
}

// NumNonGaugeParams returns the rank of the non-gauge projector.
func NumNonGaugeParams(gs *gateset.GateSet, opts ...Option) (int, error) {
	res, err := Compute(gs, opts...)
	if res == nil {
		return 0, err
	}

	return res.NonGaugeRank, err
}

// NumGaugeParams returns NumParams minus the number of non-gauge parameters.
func NumGaugeParams(gs *gateset.GateSet, opts ...Option) (int, error) {
	res, err := Compute(gs, opts...)
	if res == nil {
		return 0, err
	}

	return gs.NumParams() - res.NonGaugeRank, err
}
