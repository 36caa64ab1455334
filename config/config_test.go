// SPDX-License-Identifier: MIT

package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/lvgst/calc"
	"github.com/katalvlaran/lvgst/config"
	"github.com/katalvlaran/lvgst/evaltree"
	"github.com/katalvlaran/lvgst/gauge"
	"github.com/katalvlaran/lvgst/gsterr"
	"github.com/katalvlaran/lvgst/operator"
	"github.com/katalvlaran/lvgst/stdmodels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const standardDoc = `
standard: std1q_xyi
default_param: tp
noise:
  depolarize: 0.1
calc:
  workers: 2
  wrt_block_size: 8
  clip_min: 0.0001
  clip_max: 0.9999
gauge:
  strict: true
strings: ["{}", "Gx", "Gx,Gx", "(Gx,Gy)^2"]
`

const explicitDoc = `
default_param: full
basis: pp
identity: [1.4142135623730951, 0, 0, 0]
preps:
  - name: rho0
    param: tp
    values: [0.7071067811865476, 0, 0, 0.7071067811865476]
effects:
  - name: E0
    values: [0.7071067811865476, 0, 0, -0.7071067811865476]
gates:
  - name: Gi
    param: static
    matrix:
      - [1, 0, 0, 0]
      - [0, 1, 0, 0]
      - [0, 0, 1, 0]
      - [0, 0, 0, 1]
  - name: Gx
    rotation: [0.7853981633974483, 0, 0]
spam_labels:
  - {name: plus, prep: rho0, effect: E0}
  - {name: minus, prep: rho0, effect: remainder}
`

func TestParse_StandardModel(t *testing.T) {
	t.Parallel()
	m, err := config.Parse([]byte(standardDoc))
	require.NoError(t, err)
	gs, err := m.Build()
	require.NoError(t, err)
	assert.Equal(t, 4, gs.Dim())
	assert.Equal(t, []string{stdmodels.Gi, stdmodels.Gx, stdmodels.Gy}, gs.GateLabels())

	c, err := calc.New(gs, m.CalcOptions()...)
	require.NoError(t, err)
	strs := m.GateStrings()
	require.Len(t, strs, 4)
	assert.Equal(t, 4, strs[3].Len())

	tr, err := evaltree.Build(c.GateLabels(), strs)
	require.NoError(t, err)
	probs, err := c.BulkProbs(context.Background(), tr, m.Clip())
	require.NoError(t, err)
	// GxGx flips z, shrunk by two depolarizations: (1 + 0.9²)/2
	assert.InDelta(t, 0.905, probs[stdmodels.Plus][2], 1e-9)
	assert.Equal(t, 0.0001, probs[stdmodels.Plus][0])

	res, err := gauge.Compute(gs, m.GaugeOptions()...)
	require.NoError(t, err)
	assert.Positive(t, res.GaugeRank)
	assert.Equal(t, gs.NumParams(), res.GaugeRank+res.NonGaugeRank)
}

func TestParse_ExplicitModel(t *testing.T) {
	t.Parallel()
	m, err := config.Parse([]byte(explicitDoc))
	require.NoError(t, err)
	gs, err := m.Build()
	require.NoError(t, err)

	assert.Equal(t, "pp", gs.BasisName())
	gi, ok := gs.Gate("Gi")
	require.True(t, ok)
	assert.Equal(t, operator.Static, gi.Kind())
	prep, ok := gs.Prep("rho0")
	require.True(t, ok)
	assert.Equal(t, operator.TP, prep.Kind())
	// 3 (prep) + 4 (effect) + 0 (Gi) + 16 (Gx)
	assert.Equal(t, 23, gs.NumParams())

	std := stdmodels.MustStd1QXYI(operator.Full)
	want, _ := std.Gate(stdmodels.Gx)
	got, _ := gs.Gate("Gx")
	assert.InDeltaSlice(t, want.ToVector(), got.ToVector(), 1e-12)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"unknown key":      "gatez: []",
		"bad yaml":         "calc: [",
		"negative workers": "calc: {workers: -1}",
		"half clip":        "calc: {clip_min: 0.1}",
		"inverted clip":    "calc: {clip_min: 0.5, clip_max: 0.1}",
		"negative tol":     "gauge: {tol: -1}",
	}
	for name, doc := range cases {
		_, err := config.Parse([]byte(doc))
		assert.Error(t, err, name)
	}
	_, err := config.Parse([]byte("calc: {workers: -1}"))
	assert.ErrorIs(t, err, config.ErrInvalid)
	assert.ErrorIs(t, err, gsterr.ErrDimension)

	m, err := config.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), m)
}

func TestBuild_Errors(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		doc  string
		want error
	}{
		{"unknown standard", "standard: std2q", config.ErrUnknownStandard},
		{"bad param", "default_param: linear", operator.ErrUnknownKind},
		{"ragged gate", "gates: [{name: G, matrix: [[1, 0], [0]]}]", config.ErrInvalid},
		{"empty gate", "gates: [{name: G}]", config.ErrInvalid},
		{"both forms", "gates: [{name: G, matrix: [[1]], rotation: [0, 0, 0]}]", config.ErrInvalid},
		{"short rotation", "gates: [{name: G, rotation: [0, 0]}]", config.ErrInvalid},
		{"missing prep", "standard: std1q_xyi\nspam_labels: [{name: x, prep: nope, effect: E0}]", gsterr.ErrDimension},
	}
	for _, tc := range cases {
		m, err := config.Parse([]byte(tc.doc))
		require.NoError(t, err, tc.name)
		_, err = m.Build()
		assert.ErrorIs(t, err, tc.want, tc.name)
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	t.Parallel()
	m, err := config.Parse([]byte(explicitDoc))
	require.NoError(t, err)
	data, err := m.Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	back, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, m, back)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
