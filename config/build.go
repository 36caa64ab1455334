// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvgst/basis"
	"github.com/katalvlaran/lvgst/calc"
	"github.com/katalvlaran/lvgst/gateset"
	"github.com/katalvlaran/lvgst/gatestring"
	"github.com/katalvlaran/lvgst/gauge"
	"github.com/katalvlaran/lvgst/gsterr"
	"github.com/katalvlaran/lvgst/operator"
	"github.com/katalvlaran/lvgst/stdmodels"
	"gonum.org/v1/gonum/mat"
)

func parseParam(name string, def operator.Kind) (operator.Kind, error) {
	if name == "" {
		return def, nil
	}

	return operator.ParseKind(name)
}

// Build assembles the gate set: the standard model (if any), then the
// listed operators in file order, SPAM labels, basis metadata and noise.
// opts are applied after the document's own gateset options.
func (m *Model) Build(opts ...gateset.Option) (*gateset.GateSet, error) {
	kind, err := parseParam(m.DefaultParam, gateset.DefaultParam)
	if err != nil {
		return nil, gsterr.Errorf("config: default_param", err)
	}
	gsOpts := []gateset.Option{gateset.WithDefaultParam(kind)}
	if m.RemainderLabel != "" {
		gsOpts = append(gsOpts, gateset.WithRemainderLabel(m.RemainderLabel))
	}
	gsOpts = append(gsOpts, opts...)

	var gs *gateset.GateSet
	switch m.Standard {
	case "":
		gs = gateset.New(gsOpts...)
	case StandardXYI:
		if gs, err = stdmodels.Std1QXYI(kind, gsOpts...); err != nil {
			return nil, err
		}
	default:
		return nil, gsterr.Errorf(fmt.Sprintf("config: standard %q", m.Standard), ErrUnknownStandard)
	}

	if err := m.addOperators(gs, kind); err != nil {
		return nil, err
	}
	for _, l := range m.SpamLabels {
		if err := gs.AddSpamLabel(l.Name, l.Prep, l.Effect); err != nil {
			return nil, err
		}
	}
	if err := m.setBasis(gs); err != nil {
		return nil, err
	}

	return m.applyNoise(gs)
}

func (m *Model) addOperators(gs *gateset.GateSet, def operator.Kind) error {
	if m.Identity != nil {
		if err := gs.SetIdentity(m.Identity); err != nil {
			return err
		}
	}
	vectors := []struct {
		list []Vector
		set  func(string, operator.SPAMVec) error
	}{
		{m.Preps, gs.SetPrep},
		{m.Effects, gs.SetEffect},
	}
	for i, group := range vectors {
		for _, v := range group.list {
			k, err := parseParam(v.Param, def)
			if err != nil {
				return gsterr.Errorf(fmt.Sprintf("config: %s param", v.Name), err)
			}
			if i == 1 && k == operator.TP {
				k = operator.Full
			}
			op, err := operator.NewVec(k, v.Values)
			if err != nil {
				return gsterr.Errorf("config: "+v.Name, err)
			}
			if err := group.set(v.Name, op); err != nil {
				return err
			}
		}
	}
	for _, g := range m.Gates {
		k, err := parseParam(g.Param, def)
		if err != nil {
			return gsterr.Errorf(fmt.Sprintf("config: %s param", g.Name), err)
		}
		raw, err := g.matrix()
		if err != nil {
			return err
		}
		op, err := operator.NewGate(k, raw)
		if err != nil {
			return gsterr.Errorf("config: "+g.Name, err)
		}
		if err := gs.SetGate(g.Name, op); err != nil {
			return err
		}
	}

	return nil
}

func (g Gate) matrix() (*mat.Dense, error) {
	tag := fmt.Sprintf("config: gate %q", g.Name)
	switch {
	case g.Matrix != nil && g.Rotation != nil:
		return nil, gsterr.Errorf(tag+" has both matrix and rotation", ErrInvalid)
	case g.Rotation != nil:
		if len(g.Rotation) != 3 {
			return nil, gsterr.Errorf(tag+" rotation needs 3 coefficients", ErrInvalid)
		}

		return basis.SingleQubitGate(g.Rotation[0], g.Rotation[1], g.Rotation[2]), nil
	case len(g.Matrix) == 0:
		return nil, gsterr.Errorf(tag+" has no matrix", ErrInvalid)
	}
	n := len(g.Matrix)
	data := make([]float64, 0, n*n)
	for _, row := range g.Matrix {
		if len(row) != n {
			return nil, gsterr.Errorf(tag+" is not square", ErrInvalid)
		}
		data = append(data, row...)
	}

	return mat.NewDense(n, n, data), nil
}

func (m *Model) setBasis(gs *gateset.GateSet) error {
	if m.Basis == "" {
		return nil
	}
	kind, err := basis.ParseKind(m.Basis)
	if err != nil {
		return err
	}
	blocks := m.Structure
	if len(blocks) == 0 {
		d := int(math.Round(math.Sqrt(float64(gs.Dim()))))
		if d*d != gs.Dim() {
			return gsterr.Errorf(fmt.Sprintf("config: basis for dimension %d needs a structure", gs.Dim()), ErrInvalid)
		}
		blocks = []int{d}
	}
	s, err := basis.NewStructure(blocks...)
	if err != nil {
		return err
	}
	gs.SetBasis(kind.String(), s)

	return nil
}

func (m *Model) applyNoise(gs *gateset.GateSet) (*gateset.GateSet, error) {
	n := m.Noise
	var err error
	if n.Depolarize != 0 || n.SpamDepolarize != 0 {
		if gs, err = gs.Depolarize(n.Depolarize, n.SpamDepolarize); err != nil {
			return nil, err
		}
	}
	if len(n.Rotate) > 0 {
		if gs, err = gs.Rotate(n.Rotate...); err != nil {
			return nil, err
		}
	}
	if n.Kick != 0 {
		if gs, err = gs.Kick(n.Kick, 0, n.Seed); err != nil {
			return nil, err
		}
	}

	return gs, nil
}

// CalcOptions returns the calculator options of the document followed by extra.
func (m *Model) CalcOptions(extra ...calc.Option) []calc.Option {
	opts := []calc.Option{
		calc.WithWorkers(max(m.Calc.Workers, 1)),
		calc.WithWrtBlockSize(m.Calc.WrtBlockSize),
		calc.WithCheck(m.Calc.Check),
		calc.WithStrict(m.Calc.Strict),
	}

	return append(opts, extra...)
}

// Clip returns the probability clip, or nil when none is configured.
func (m *Model) Clip() *calc.Clip {
	if m.Calc.ClipMin == nil {
		return nil
	}

	return &calc.Clip{Min: *m.Calc.ClipMin, Max: *m.Calc.ClipMax}
}

// GaugeOptions returns the gauge options of the document followed by extra.
// Zero tolerances keep the package defaults.
func (m *Model) GaugeOptions(extra ...gauge.Option) []gauge.Option {
	var opts []gauge.Option
	if m.Gauge.Tol > 0 {
		opts = append(opts, gauge.WithTol(m.Gauge.Tol))
	}
	if m.Gauge.PinvRcond > 0 {
		opts = append(opts, gauge.WithPinvRcond(m.Gauge.PinvRcond))
	}
	if m.Gauge.RankTol > 0 {
		opts = append(opts, gauge.WithRankTol(m.Gauge.RankTol))
	}
	opts = append(opts, gauge.WithStrict(m.Gauge.Strict))

	return append(opts, extra...)
}

// GateStrings parses the document's strings.
func (m *Model) GateStrings() []gatestring.GateString {
	out := make([]gatestring.GateString, len(m.Strings))
	for i, s := range m.Strings {
		out[i] = gatestring.Parse(s)
	}

	return out
}
