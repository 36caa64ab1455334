// SPDX-License-Identifier: MIT

package calc

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/katalvlaran/lvgst/evaltree"
	"github.com/katalvlaran/lvgst/linalg"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// task is one sub-tree restricted to the parameter columns [b0, b1).
type task struct {
	sub    *subTree
	b0, b1 int
}

// split partitions tr into at most WithWorkers sub-trees.
func (c *Calculator) split(tr *evaltree.Tree) ([]*subTree, error) {
	if c.cfg.workers == 1 || tr.NumFinalStrings() < 2 {
		parent := make([]int, tr.NumFinalStrings())
		for k := range parent {
			parent[k] = k
		}

		return []*subTree{{tree: tr, parent: parent}}, nil
	}
	trees, err := tr.Split(c.cfg.workers)
	if err != nil {
		return nil, err
	}
	subs := make([]*subTree, len(trees))
	for i, t := range trees {
		subs[i] = &subTree{tree: t, parent: t.ParentIndices()}
	}

	return subs, nil
}

// blocks partitions the column range [lo, hi) by WithWrtBlockSize.
func (c *Calculator) blocks(lo, hi int) [][2]int {
	size := c.cfg.wrtBlockSize
	if size == 0 || size > hi-lo {
		size = hi - lo
	}
	if size == 0 {
		return [][2]int{{lo, hi}}
	}
	var out [][2]int
	for b := lo; b < hi; b += size {
		out = append(out, [2]int{b, min(b+size, hi)})
	}

	return out
}

// run evaluates fn for every (sub-tree, column block) pair of tr on an
// errgroup bounded by WithWorkers. Each call writes a disjoint region of
// the caller's output, so no locking is needed. The first error cancels
// the remaining tasks.
func (c *Calculator) run(ctx context.Context, op string, tr *evaltree.Tree, lo, hi int, fn func(context.Context, task) error) error {
	defer c.cfg.metrics.observe(op, time.Now())
	if err := c.checkTree(op, tr); err != nil {
		return err
	}
	subs, err := c.split(tr)
	if err != nil {
		return calcErrorf(op, err)
	}
	blocks := c.blocks(lo, hi)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.workers)
	for _, sub := range subs {
		for _, blk := range blocks {
			t := task{sub: sub, b0: blk[0], b1: blk[1]}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}

				return fn(gctx, t)
			})
		}
	}
	if err := g.Wait(); err != nil {
		return calcErrorf(op, err)
	}
	c.cfg.logger.Debug("bulk evaluation",
		slog.String("op", op),
		slog.Int("strings", tr.NumFinalStrings()),
		slog.Int("subTrees", len(subs)),
		slog.Int("blocks", len(blocks)))

	return nil
}

// BulkProduct returns the product of every requested string of tr. With
// scaled, products come back divided by the returned scales; otherwise the
// scales are nil and an overflowing product fails with ErrOverflow.
func (c *Calculator) BulkProduct(ctx context.Context, tr *evaltree.Tree, scaled bool) ([]*mat.Dense, []float64, error) {
	k := tr.NumFinalStrings()
	out := make([]*mat.Dense, k)
	scales := make([]float64, k)
	err := c.run(ctx, "product", tr, 0, 0, func(ctx context.Context, t task) error {
		prod, err := t.sub.products(ctx, c)
		if err != nil {
			return err
		}
		for j, pk := range t.sub.parent {
			f := t.sub.tree.FinalIndex(j)
			p := mat.DenseCopyOf(prod.p[f])
			scale := math.Exp(prod.logScale[f])
			if !scaled {
				p.Scale(scale, p)
				if !linalg.IsFinite(p) {
					return ErrOverflow
				}
			}
			out[pk], scales[pk] = p, scale
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if !scaled {
		scales = nil
	}

	return out, scales, nil
}

// BulkDProduct returns the dim²×np derivative (as DProductFlat) of every
// requested string of tr. Entries are nil when the model has no parameters.
func (c *Calculator) BulkDProduct(ctx context.Context, tr *evaltree.Tree) ([]*mat.Dense, error) {
	k := tr.NumFinalStrings()
	out := make([]*mat.Dense, k)
	if c.np == 0 {
		return out, c.checkTree("dproduct", tr)
	}
	for i := range out {
		out[i] = mat.NewDense(c.dim*c.dim, c.np, nil)
	}
	err := c.run(ctx, "dproduct", tr, 0, c.np, func(ctx context.Context, t task) error {
		prod, err := t.sub.products(ctx, c)
		if err != nil {
			return err
		}
		d, err := c.evalDerivs(ctx, t.sub.tree, prod, t.b0, t.b1)
		if err != nil {
			return err
		}
		for j, pk := range t.sub.parent {
			f := t.sub.tree.FinalIndex(j)
			if d[f] == nil {
				continue
			}
			scale := math.Exp(prod.logScale[f])
			for q := t.b0; q < t.b1; q++ {
				for e, v := range d[f].RawRowView(q - t.b0) {
					out[pk].Set(e, q, scale*v)
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// BulkHProduct returns, for every requested string of tr, the dim² Hessian
// matrices of HProductFlat. Entries are nil when the model has no parameters.
func (c *Calculator) BulkHProduct(ctx context.Context, tr *evaltree.Tree) ([][]*mat.Dense, error) {
	k := tr.NumFinalStrings()
	out := make([][]*mat.Dense, k)
	if c.np == 0 {
		return out, c.checkTree("hproduct", tr)
	}
	for i := range out {
		out[i] = make([]*mat.Dense, c.dim*c.dim)
		for e := range out[i] {
			out[i][e] = mat.NewDense(c.np, c.np, nil)
		}
	}
	err := c.run(ctx, "hproduct", tr, 0, c.np, func(ctx context.Context, t task) error {
		prod, d, err := t.sub.fullDerivs(ctx, c)
		if err != nil {
			return err
		}
		h, err := c.evalHessians(ctx, t.sub.tree, prod, d, t.b0, t.b1)
		if err != nil {
			return err
		}
		for j, pk := range t.sub.parent {
			f := t.sub.tree.FinalIndex(j)
			if h[f] == nil {
				continue
			}
			scale := math.Exp(prod.logScale[f])
			for a, ha := range h[f] {
				for q := t.b0; q < t.b1; q++ {
					for e, v := range ha.RawRowView(q - t.b0) {
						out[pk][e].Set(a, q, scale*v)
					}
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
