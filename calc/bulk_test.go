// SPDX-License-Identifier: MIT

package calc_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/katalvlaran/lvgst/calc"
	"github.com/katalvlaran/lvgst/evaltree"
	"github.com/katalvlaran/lvgst/gatestring"
	"github.com/katalvlaran/lvgst/gsterr"
	"github.com/katalvlaran/lvgst/stdmodels"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const bulkTol = 1e-10

func sequences() []gatestring.GateString {
	germ := gatestring.New(stdmodels.Gx, stdmodels.Gy)

	return []gatestring.GateString{
		gatestring.Empty,
		gatestring.New(stdmodels.Gx),
		gatestring.New(stdmodels.Gy, stdmodels.Gi),
		germ,
		germ.Repeat(3),
		gatestring.New(stdmodels.Gx, stdmodels.Gx, stdmodels.Gx),
		gatestring.New(stdmodels.Gx, stdmodels.Gx, stdmodels.Gy, stdmodels.Gi),
		germ.Repeat(2).Concat(gatestring.New(stdmodels.Gi)),
		gatestring.New(stdmodels.Gy),
	}
}

func buildTree(t *testing.T, c *calc.Calculator, strs []gatestring.GateString) *evaltree.Tree {
	t.Helper()
	tr, err := evaltree.Build(c.GateLabels(), strs)
	require.NoError(t, err)

	return tr
}

func TestBulkProducts_MatchSingle(t *testing.T) {
	t.Parallel()
	c := newCalc(t, noisy(t), calc.WithWorkers(3), calc.WithWrtBlockSize(7))
	strs := sequences()
	tr := buildTree(t, c, strs)
	ctx := context.Background()

	prods, scales, err := c.BulkProduct(ctx, tr, true)
	require.NoError(t, err)
	unscaled, none, err := c.BulkProduct(ctx, tr, false)
	require.NoError(t, err)
	assert.Nil(t, none)
	dprods, err := c.BulkDProduct(ctx, tr)
	require.NoError(t, err)
	hprods, err := c.BulkHProduct(ctx, tr)
	require.NoError(t, err)

	for k, s := range strs {
		want, err := c.Product(s)
		require.NoError(t, err)
		var p mat.Dense
		p.Scale(scales[k], prods[k])
		assertClose(t, want, &p, bulkTol, s.String())
		assertClose(t, want, unscaled[k], bulkTol, s.String())

		dwant, err := c.DProductFlat(s)
		require.NoError(t, err)
		assertClose(t, dwant, dprods[k], bulkTol, s.String())

		hwant, err := c.HProductFlat(s)
		require.NoError(t, err)
		for e := range hwant {
			assertClose(t, hwant[e], hprods[k][e], bulkTol, "%s element %d", s, e)
		}
	}
}

func TestBulkProbs_MatchSingle(t *testing.T) {
	t.Parallel()
	gs := noisy(t)
	rem := gs.RemainderLabel()
	require.NoError(t, gs.AddSpamLabel("rest", rem, rem))
	strs := sequences()

	configs := map[string][]calc.Option{
		"serial":  nil,
		"workers": {calc.WithWorkers(4)},
		"blocks":  {calc.WithWrtBlockSize(5)},
		"both":    {calc.WithWorkers(2), calc.WithWrtBlockSize(16)},
		"checked": {calc.WithWorkers(3), calc.WithCheck(true), calc.WithStrict(true)},
	}
	for name, opts := range configs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			c := newCalc(t, gs, opts...)
			tr := buildTree(t, c, strs)
			ctx := context.Background()

			probs, err := c.BulkProbs(ctx, tr, nil)
			require.NoError(t, err)
			dprobs, err := c.BulkDProbs(ctx, tr)
			require.NoError(t, err)
			hprobs, err := c.BulkHProbs(ctx, tr)
			require.NoError(t, err)

			for k, s := range strs {
				want, err := c.Probs(s, nil)
				require.NoError(t, err)
				dwant, err := c.DProbs(s)
				require.NoError(t, err)
				hwant, err := c.HProbs(s)
				require.NoError(t, err)
				for _, l := range c.SpamLabels() {
					assert.InDelta(t, want[l], probs[l][k], bulkTol, "%s %s", l, s)
					assert.InDeltaSlice(t, dwant[l], mat.Row(nil, k, dprobs[l]), bulkTol, "%s %s", l, s)
					assertClose(t, hwant[l], hprobs[l][k], bulkTol, "%s %s", l, s)
				}
			}

			pr, err := c.BulkPr(ctx, stdmodels.Plus, tr, nil)
			require.NoError(t, err)
			assert.Equal(t, probs[stdmodels.Plus], pr)
		})
	}
}

func TestBulk_LongStringsRescale(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	m := calc.NewMetrics(reg)
	gs := noisy(t)
	c := newCalc(t, gs, calc.WithMetrics(m))
	long := gatestring.New(stdmodels.Gx, stdmodels.Gy).Repeat(400)
	tr := buildTree(t, c, []gatestring.GateString{long})

	probs, err := c.BulkProbs(context.Background(), tr, nil)
	require.NoError(t, err)
	single, err := c.Probs(long, nil)
	require.NoError(t, err)
	assert.InDelta(t, single[stdmodels.Plus], probs[stdmodels.Plus][0], 1e-8)
	assert.Equal(t, float64(tr.NumNodes()), testutil.ToFloat64(m.NodesEvaluated))
	assert.Positive(t, testutil.ToFloat64(m.Rescales))
}

func TestBulk_Metrics(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	m := calc.NewMetrics(reg)
	c := newCalc(t, noisy(t), calc.WithMetrics(m))
	tr := buildTree(t, c, sequences())
	ctx := context.Background()

	_, err := c.BulkProbs(ctx, tr, nil)
	require.NoError(t, err)
	_, err = c.BulkProbs(ctx, tr, nil)
	require.NoError(t, err)
	_, err = c.BulkDProbs(ctx, tr)
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BulkCalls.WithLabelValues("probs")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BulkCalls.WithLabelValues("dprobs")))
	assert.Equal(t, float64(3*tr.NumNodes()), testutil.ToFloat64(m.NodesEvaluated))
	assert.Equal(t, 2, testutil.CollectAndCount(m.BulkDuration))
}

func TestBulk_Errors(t *testing.T) {
	t.Parallel()
	c := newCalc(t, noisy(t), calc.WithWorkers(2))
	ctx := context.Background()

	foreign, err := evaltree.Build([]string{stdmodels.Gx, "Gz"}, []gatestring.GateString{gatestring.New("Gz")})
	require.NoError(t, err)
	_, err = c.BulkProbs(ctx, foreign, nil)
	assert.ErrorIs(t, err, calc.ErrUnknownGate)

	tr := buildTree(t, c, sequences())
	_, err = c.BulkPr(ctx, "nope", tr, nil)
	assert.ErrorIs(t, err, calc.ErrUnknownSpamLabel)
	assert.ErrorIs(t, err, gsterr.ErrDimension)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = c.BulkHProbs(cancelled, tr)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBulkFill(t *testing.T) {
	t.Parallel()
	c := newCalc(t, noisy(t), calc.WithWorkers(2), calc.WithWrtBlockSize(10))
	strs := sequences()
	tr := buildTree(t, c, strs)
	ctx := context.Background()
	np, ns := c.NumParams(), len(strs)
	rows := map[string]int{stdmodels.Minus: 0, stdmodels.Plus: 1}
	clip := &calc.Clip{Min: 0.01, Max: 0.99}

	probs, err := c.BulkProbs(ctx, tr, clip)
	require.NoError(t, err)
	dprobs, err := c.BulkDProbs(ctx, tr)
	require.NoError(t, err)
	hprobs, err := c.BulkHProbs(ctx, tr)
	require.NoError(t, err)

	pr := mat.NewDense(2, ns, nil)
	require.NoError(t, c.BulkFillProbs(ctx, pr, rows, tr, clip))
	for l, r := range rows {
		assert.Equal(t, probs[l], mat.Row(nil, r, pr), l)
	}

	deriv := []*mat.Dense{mat.NewDense(ns, np, nil), mat.NewDense(ns, np, nil)}
	pr2 := mat.NewDense(2, ns, nil)
	require.NoError(t, c.BulkFillDProbs(ctx, deriv, rows, tr, pr2, clip))
	assert.True(t, mat.Equal(pr, pr2))
	for l, r := range rows {
		assertClose(t, dprobs[l], deriv[r], bulkTol, l)
	}

	hess := make([][]*mat.Dense, 2)
	for r := range hess {
		hess[r] = make([]*mat.Dense, ns)
		for k := range hess[r] {
			hess[r][k] = mat.NewDense(np, np, nil)
		}
	}
	deriv2 := []*mat.Dense{mat.NewDense(ns, np, nil), mat.NewDense(ns, np, nil)}
	require.NoError(t, c.BulkFillHProbs(ctx, hess, rows, tr, nil, deriv2, nil))
	for l, r := range rows {
		assertClose(t, dprobs[l], deriv2[r], bulkTol, l)
		for k := range strs {
			assertClose(t, hprobs[l][k], hess[r][k], bulkTol, "%s %d", l, k)
		}
	}

	err = c.BulkFillProbs(ctx, mat.NewDense(2, ns+1, nil), rows, tr, nil)
	assert.ErrorIs(t, err, calc.ErrShape)
	err = c.BulkFillProbs(ctx, mat.NewDense(1, ns, nil), rows, tr, nil)
	assert.ErrorIs(t, err, calc.ErrShape)
	err = c.BulkFillDProbs(ctx, []*mat.Dense{mat.NewDense(ns, np, nil), mat.NewDense(ns, 1, nil)}, rows, tr, nil, nil)
	assert.ErrorIs(t, err, calc.ErrShape)
}

func TestBulkHProbsByColumn(t *testing.T) {
	t.Parallel()
	c := newCalc(t, noisy(t), calc.WithWrtBlockSize(4))
	strs := sequences()
	tr := buildTree(t, c, strs)
	ctx := context.Background()

	hprobs, err := c.BulkHProbs(ctx, tr)
	require.NoError(t, err)
	dprobs, err := c.BulkDProbs(ctx, tr)
	require.NoError(t, err)

	next := 0
	err = c.BulkHProbsByColumn(ctx, tr, func(col calc.HessianColumn) error {
		assert.Equal(t, next, col.Index)
		next++
		for _, l := range c.SpamLabels() {
			for k := range strs {
				assert.InDeltaSlice(t, mat.Col(nil, col.Index, hprobs[l][k]), mat.Row(nil, k, col.Hessian[l]), bulkTol)
				d := dprobs[l]
				assert.InDelta(t, d.At(k, 0)*d.At(k, col.Index), col.D12[l].At(k, 0), bulkTol)
			}
		}

		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, c.NumParams(), next)

	stop := assert.AnError
	calls := 0
	err = c.BulkHProbsByColumn(ctx, tr, func(calc.HessianColumn) error {
		calls++

		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestBulk_CheckWarns(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	c := newCalc(t, noisy(t), calc.WithCheck(true), calc.WithLogger(logger))
	tr := buildTree(t, c, sequences())

	_, err := c.BulkDProbs(context.Background(), tr)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}
