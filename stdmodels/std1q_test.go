// SPDX-License-Identifier: MIT

package stdmodels_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/lvgst/operator"
	"github.com/katalvlaran/lvgst/stdmodels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStd1QXYI(t *testing.T) {
	t.Parallel()
	cases := []struct {
		kind   operator.Kind
		params int
	}{
		{operator.Full, 4 + 4 + 3*16},
		{operator.TP, 3 + 4 + 3*12},
		{operator.Static, 0},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.kind.String(), func(t *testing.T) {
			t.Parallel()
			gs, err := stdmodels.Std1QXYI(tc.kind)
			require.NoError(t, err)
			assert.Equal(t, 4, gs.Dim())
			assert.Equal(t, tc.params, gs.NumParams())
			assert.Equal(t, 4+4+3*16, gs.NumElements())
			assert.Equal(t, []string{stdmodels.Plus, stdmodels.Minus}, gs.SpamLabels())
			assert.Equal(t, "pp", gs.BasisName())
		})
	}
}

func TestStd1QXYI_GxActsAsQuarterTurn(t *testing.T) {
	t.Parallel()
	gs := stdmodels.MustStd1QXYI(operator.Full)
	gx, ok := gs.Gate(stdmodels.Gx)
	require.True(t, ok)

	// X axis fixed, Y → Z, Z → -Y
	assert.InDelta(t, 1, gx.At(1, 1), 1e-12)
	assert.InDelta(t, 1, gx.At(3, 2), 1e-12)
	assert.InDelta(t, -1, gx.At(2, 3), 1e-12)

	rho, _ := gs.Prep(stdmodels.Rho0)
	assert.InDelta(t, 1/math.Sqrt2, rho.AtVec(0), 1e-15)
}
