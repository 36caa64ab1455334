// SPDX-License-Identifier: MIT

package operator_test

import (
	"testing"

	"github.com/katalvlaran/lvgst/gsterr"
	"github.com/katalvlaran/lvgst/linalg"
	"github.com/katalvlaran/lvgst/operator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// tpMatrix is a 4×4 gate with a trace-preserving first row.
func tpMatrix() *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0.1, 0.9, 0.2, 0,
		0, -0.2, 0.9, 0.1,
		0.05, 0, 0, 0.8,
	})
}

func TestParseKind(t *testing.T) {
	t.Parallel()
	for name, want := range map[string]operator.Kind{"full": operator.Full, "TP": operator.TP, "static": operator.Static} {
		got, err := operator.ParseKind(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, name, got.String())
	}
	_, err := operator.ParseKind("linear")
	assert.ErrorIs(t, err, operator.ErrUnknownKind)
	assert.ErrorIs(t, err, gsterr.ErrParameterization)
}

func TestGate_ParamCounts(t *testing.T) {
	t.Parallel()
	cases := []struct {
		kind operator.Kind
		want int
	}{
		{operator.Full, 16},
		{operator.TP, 12},
		{operator.Static, 0},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.kind.String(), func(t *testing.T) {
			t.Parallel()
			g, err := operator.NewGate(tc.kind, tpMatrix())
			require.NoError(t, err)
			assert.Equal(t, tc.want, g.NumParams())
			assert.Equal(t, 16, g.NumElements())
			assert.Equal(t, tc.kind, g.Kind())

			// to/from round trip is identity
			v := g.ToVector()
			require.Len(t, v, tc.want)
			require.NoError(t, g.FromVector(v))
			assert.True(t, mat.Equal(g.Matrix(), tpMatrix()))

			d := g.DerivWrtParams()
			if tc.want == 0 {
				assert.Nil(t, d)
				return
			}
			r, c := d.Dims()
			assert.Equal(t, 16, r)
			assert.Equal(t, tc.want, c)
		})
	}
}

func TestGate_FromVectorLengthMismatch(t *testing.T) {
	t.Parallel()
	for _, kind := range []operator.Kind{operator.Full, operator.TP, operator.Static} {
		g, err := operator.NewGate(kind, tpMatrix())
		require.NoError(t, err)
		err = g.FromVector(make([]float64, 3))
		assert.ErrorIs(t, err, gsterr.ErrParameterization, kind.String())
		assert.ErrorIs(t, err, gsterr.ErrDimension, kind.String())
	}
}

func TestTPGate_FixedRow(t *testing.T) {
	t.Parallel()
	g, err := operator.NewTPGate(tpMatrix())
	require.NoError(t, err)

	v := make([]float64, 12)
	v[0] = 7
	require.NoError(t, g.FromVector(v))
	assert.Equal(t, 1.0, g.At(0, 0))
	assert.Equal(t, 7.0, g.At(1, 0))

	// the derivative selects rows 1..3
	d := g.DerivWrtParams()
	assert.Equal(t, 1.0, d.At(4, 0))
	assert.Equal(t, 0.0, d.At(0, 0))

	bad := tpMatrix()
	bad.Set(0, 1, 0.5)
	_, err = operator.NewTPGate(bad)
	assert.ErrorIs(t, err, operator.ErrNotTracePreserving)
}

func TestGate_Transform(t *testing.T) {
	t.Parallel()
	s := mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, 2, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
	var sinv mat.Dense
	require.NoError(t, sinv.Inverse(s))

	g, err := operator.NewTPGate(tpMatrix())
	require.NoError(t, err)
	require.NoError(t, g.Transform(s, &sinv))
	// G'[1][2] = G[1][2]/2, G'[2][1] = 2·G[2][1]
	assert.InDelta(t, 0.1, g.At(1, 2), 1e-12)
	assert.InDelta(t, -0.4, g.At(2, 1), 1e-12)

	// a gauge mixing into row 0 breaks the TP constraint and leaves the gate untouched
	mix := linalg.Identity(4)
	mix.Set(0, 1, 0.3)
	var mixInv mat.Dense
	require.NoError(t, mixInv.Inverse(mix))
	before := g.Matrix()
	err = g.Transform(mix, &mixInv)
	assert.ErrorIs(t, err, operator.ErrNotTracePreserving)
	assert.True(t, mat.Equal(before, g.Matrix()))

	_, err = operator.NewFullGate(mat.NewDense(2, 3, nil))
	assert.ErrorIs(t, err, gsterr.ErrDimension)
}

func TestVec_Kinds(t *testing.T) {
	t.Parallel()
	raw := []float64{0.7071, 0, 0, 0.7071}

	full, err := operator.NewFullVec(raw)
	require.NoError(t, err)
	assert.Equal(t, 4, full.NumParams())
	assert.True(t, mat.Equal(full.DerivWrtParams(), linalg.Identity(4)))

	tp, err := operator.NewTPVec(raw)
	require.NoError(t, err)
	assert.Equal(t, 3, tp.NumParams())
	assert.Equal(t, []float64{0, 0, 0.7071}, tp.ToVector())
	require.NoError(t, tp.FromVector([]float64{1, 2, 3}))
	assert.Equal(t, []float64{0.7071, 1, 2, 3}, tp.Vector())
	assert.ErrorIs(t, tp.SetVector([]float64{1, 0, 0, 0}), operator.ErrNotTracePreserving)

	st, err := operator.NewStaticVec(raw)
	require.NoError(t, err)
	assert.Equal(t, 0, st.NumParams())
	assert.Empty(t, st.ToVector())
	assert.Nil(t, st.DerivWrtParams())
	assert.ErrorIs(t, st.FromVector([]float64{1}), operator.ErrParamCount)

	require.NoError(t, full.Transform(linalg.Identity(4)))
	assert.Equal(t, raw, full.Vector())
	assert.ErrorIs(t, full.Transform(linalg.Identity(3)), gsterr.ErrDimension)
}

func TestConvert(t *testing.T) {
	t.Parallel()
	g, err := operator.NewFullGate(tpMatrix())
	require.NoError(t, err)
	tp, err := operator.ConvertGate(g, operator.TP)
	require.NoError(t, err)
	assert.Equal(t, operator.TP, tp.Kind())
	assert.True(t, mat.Equal(tp.Matrix(), g.Matrix()))

	notTP := mat.NewDense(2, 2, []float64{0.5, 0, 0, 1})
	g2, err := operator.NewFullGate(notTP)
	require.NoError(t, err)
	_, err = operator.ConvertGate(g2, operator.TP)
	assert.ErrorIs(t, err, operator.ErrNotTracePreserving)

	v, err := operator.NewFullVec([]float64{1, 2})
	require.NoError(t, err)
	sv, err := operator.ConvertVec(v, operator.Static)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, sv.Vector())

	// clones are independent
	c := v.Clone()
	require.NoError(t, c.SetVector([]float64{5, 5}))
	assert.Equal(t, []float64{1, 2}, v.Vector())
}
