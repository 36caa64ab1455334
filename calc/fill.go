// SPDX-License-Identifier: MIT

package calc

import (
	"context"
	"fmt"
	"sort"

	"github.com/katalvlaran/lvgst/evaltree"
	"gonum.org/v1/gonum/mat"
)

// fillLabels validates rows against a destination with n rows and returns
// its labels ordered by row.
func fillLabels(tag string, rows map[string]int, n int) ([]string, error) {
	labels := make([]string, 0, len(rows))
	for l, r := range rows {
		if r < 0 || r >= n {
			return nil, calcErrorf(fmt.Sprintf("%s(%q row %d of %d)", tag, l, r, n), ErrShape)
		}
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool { return rows[labels[i]] < rows[labels[j]] })

	return labels, nil
}

func checkDims(tag string, m *mat.Dense, r, c int) error {
	if m == nil {
		return calcErrorf(tag+"(nil)", ErrShape)
	}
	if mr, mc := m.Dims(); mr != r || mc != c {
		return calcErrorf(fmt.Sprintf("%s(%d×%d, want %d×%d)", tag, mr, mc, r, c), ErrShape)
	}

	return nil
}

// BulkFillProbs writes the probability of every label in rows into
// dst[rows[label]][k] for requested string k of tr. dst is len(labels)×strings.
//
// Errors:
//   - ErrShape when dst has the wrong number of columns or a row is out of range.
//   - ErrUnknownSpamLabel for a label of rows absent from the model.
func (c *Calculator) BulkFillProbs(ctx context.Context, dst *mat.Dense, rows map[string]int, tr *evaltree.Tree, clip *Clip) error {
	const tag = "BulkFillProbs"
	if dst == nil {
		return calcErrorf(tag+"(nil)", ErrShape)
	}
	n, cols := dst.Dims()
	if cols != tr.NumFinalStrings() {
		return calcErrorf(fmt.Sprintf("%s(%d columns for %d strings)", tag, cols, tr.NumFinalStrings()), ErrShape)
	}
	labels, err := fillLabels(tag, rows, n)
	if err != nil {
		return err
	}
	res, err := c.bulk(ctx, "probs", tr, labels, 0, 0, 0)
	if err != nil {
		return err
	}
	fillPr(dst, rows, res, clip)

	return nil
}

func fillPr(dst *mat.Dense, rows map[string]int, res *bulkResult, clip *Clip) {
	for l, r := range rows {
		for s, v := range res.pr[l] {
			dst.Set(r, s, clip.apply(v))
		}
	}
}

// BulkFillDProbs writes the derivatives of every label in rows into
// dst[rows[label]], a strings×np matrix, and, when prDst is non-nil, the
// probabilities into prDst as BulkFillProbs does. With no model parameters
// dst is left untouched and may hold nil entries.
func (c *Calculator) BulkFillDProbs(ctx context.Context, dst []*mat.Dense, rows map[string]int, tr *evaltree.Tree, prDst *mat.Dense, clip *Clip) error {
	const tag = "BulkFillDProbs"
	ns := tr.NumFinalStrings()
	labels, err := fillLabels(tag, rows, len(dst))
	if err != nil {
		return err
	}
	if c.np > 0 && ns > 0 {
		for _, l := range labels {
			if err := checkDims(tag, dst[rows[l]], ns, c.np); err != nil {
				return err
			}
		}
	}
	if prDst != nil {
		if err := checkDims(tag, prDst, len(dst), ns); err != nil {
			return err
		}
	}
	res, err := c.bulk(ctx, "dprobs", tr, labels, 1, 0, 0)
	if err != nil {
		return err
	}
	for l, r := range rows {
		if d := res.dpr[l]; d != nil {
			dst[r].Copy(d)
		}
	}
	if prDst != nil {
		fillPr(prDst, rows, res, clip)
	}

	return nil
}

// BulkFillHProbs writes the np×np Hessian of every label in rows for
// requested string k into dst[rows[label]][k]. prDst and derivDst, when
// non-nil, receive probabilities and derivatives as the other fill methods.
func (c *Calculator) BulkFillHProbs(ctx context.Context, dst [][]*mat.Dense, rows map[string]int, tr *evaltree.Tree, prDst *mat.Dense, derivDst []*mat.Dense, clip *Clip) error {
	const tag = "BulkFillHProbs"
	ns := tr.NumFinalStrings()
	labels, err := fillLabels(tag, rows, len(dst))
	if err != nil {
		return err
	}
	if c.np > 0 {
		for _, l := range labels {
			if len(dst[rows[l]]) != ns {
				return calcErrorf(fmt.Sprintf("%s(%q: %d matrices for %d strings)", tag, l, len(dst[rows[l]]), ns), ErrShape)
			}
			for _, m := range dst[rows[l]] {
				if err := checkDims(tag, m, c.np, c.np); err != nil {
					return err
				}
			}
			if derivDst != nil && ns > 0 {
				if len(derivDst) != len(dst) {
					return calcErrorf(tag+"(derivDst)", ErrShape)
				}
				if err := checkDims(tag, derivDst[rows[l]], ns, c.np); err != nil {
					return err
				}
			}
		}
	}
	if prDst != nil {
		if err := checkDims(tag, prDst, len(dst), ns); err != nil {
			return err
		}
	}
	res, err := c.bulk(ctx, "hprobs", tr, labels, 2, 0, c.np)
	if err != nil {
		return err
	}
	for l, r := range rows {
		for s, h := range res.hpr[l] {
			dst[r][s].Copy(h)
		}
		if d := res.dpr[l]; d != nil && derivDst != nil {
			derivDst[r].Copy(d)
		}
	}
	if prDst != nil {
		fillPr(prDst, rows, res, clip)
	}

	return nil
}

// HessianColumn is one column b of every label's probability Hessian.
type HessianColumn struct {
	// Index is the parameter b the column differentiates against.
	Index int
	// Hessian maps a label to a strings×np matrix with (k, a) = ∂²pr_k/∂θa∂θb.
	Hessian map[string]*mat.Dense
	// D12 maps a label to a strings×np matrix with (k, a) = ∂pr_k/∂θa · ∂pr_k/∂θb.
	D12 map[string]*mat.Dense
}

// BulkHProbsByColumn calls fn once per parameter, in order, with that
// column of every label's Hessian over the requested strings of tr. Only
// WithWrtBlockSize columns (one when unset) of the Hessian are held at a
// time; that bound does not cover the first derivatives, which every column
// block evaluates over all parameters again, alongside the products.
// An error from fn stops the iteration and is returned unchanged.
func (c *Calculator) BulkHProbsByColumn(ctx context.Context, tr *evaltree.Tree, fn func(HessianColumn) error) error {
	if c.np == 0 {
		return c.checkTree("hprobs", tr)
	}
	ns := tr.NumFinalStrings()
	first, err := c.bulk(ctx, "dprobs", tr, c.spamLabels, 1, 0, 0)
	if err != nil {
		return err
	}
	size := c.cfg.wrtBlockSize
	if size == 0 {
		size = 1
	}
	for c0 := 0; c0 < c.np; c0 += size {
		c1 := min(c0+size, c.np)
		res, err := c.bulk(ctx, "hprobs", tr, c.spamLabels, 2, c0, c1)
		if err != nil {
			return err
		}
		for b := c0; b < c1; b++ {
			col := HessianColumn{
				Index:   b,
				Hessian: make(map[string]*mat.Dense, len(c.spamLabels)),
				D12:     make(map[string]*mat.Dense, len(c.spamLabels)),
			}
			for _, l := range c.spamLabels {
				if ns == 0 {
					col.Hessian[l], col.D12[l] = nil, nil
					continue
				}
				h := mat.NewDense(ns, c.np, nil)
				d12 := mat.NewDense(ns, c.np, nil)
				d := first.dpr[l]
				for k := 0; k < ns; k++ {
					for a := 0; a < c.np; a++ {
						h.Set(k, a, res.hpr[l][k].At(a, b-c0))
						d12.Set(k, a, d.At(k, a)*d.At(k, b))
					}
				}
				col.Hessian[l], col.D12[l] = h, d12
			}
			if err := fn(col); err != nil {
				return err
			}
		}
	}

	return nil
}
