// SPDX-License-Identifier: MIT

package calc

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/katalvlaran/lvgst/evaltree"
	"github.com/katalvlaran/lvgst/linalg"
	"gonum.org/v1/gonum/mat"
)

// ctxEvery is how many nodes are evaluated between context checks.
const ctxEvery = 64

// products holds the scaled product of every node of one tree. The true
// product of node i is exp(logScale[i])·p[i]; nu[i] is the renormalization
// divisor applied at node i itself (1 when none).
type products struct {
	p        []*mat.Dense
	logScale []float64
	nu       []float64
}

// subTree is one unit of parallel work. Products and full derivatives are
// shared by every column-block task of the sub-tree and computed once.
type subTree struct {
	tree   *evaltree.Tree
	parent []int // requested string k of tree → index in the caller's tree

	prodOnce sync.Once
	prod     *products
	prodErr  error

	derivOnce sync.Once
	deriv     []*mat.Dense
	derivErr  error
}

func (s *subTree) products(ctx context.Context, c *Calculator) (*products, error) {
	s.prodOnce.Do(func() { s.prod, s.prodErr = c.evalProducts(ctx, s.tree) })

	return s.prod, s.prodErr
}

func (s *subTree) fullDerivs(ctx context.Context, c *Calculator) (*products, []*mat.Dense, error) {
	prod, err := s.products(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	s.derivOnce.Do(func() { s.deriv, s.derivErr = c.evalDerivs(ctx, s.tree, prod, 0, c.np) })

	return prod, s.deriv, s.derivErr
}

// checkTree verifies every label of tr's alphabet is a gate of the model.
func (c *Calculator) checkTree(tag string, tr *evaltree.Tree) error {
	for _, l := range tr.Labels() {
		if _, ok := c.gates[l]; !ok {
			return calcErrorf(fmt.Sprintf("%s(%q)", tag, l), ErrUnknownGate)
		}
	}

	return nil
}

// evalProducts evaluates the scaled product of every node in index order.
//
// Implementation:
//   - Empty: identity. Leaf: G/max(‖G‖_F, 1).
//   - Internal: P_right·P_left with the children's log scales summed, then
//     renormalized by its Frobenius norm when its largest element leaves
//     [1e-100, 1e100].
func (c *Calculator) evalProducts(ctx context.Context, tr *evaltree.Tree) (*products, error) {
	n := tr.NumNodes()
	out := &products{
		p:        make([]*mat.Dense, n),
		logScale: make([]float64, n),
		nu:       make([]float64, n),
	}
	rescales := 0
	for i := 0; i < n; i++ {
		if i%ctxEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		node := tr.Node(i)
		out.nu[i] = 1
		switch node.Kind {
		case evaltree.Empty:
			out.p[i] = linalg.Identity(c.dim)
		case evaltree.Leaf:
			g := c.gates[node.Label]
			var m mat.Dense
			m.Scale(1/g.norm, g.m)
			out.p[i] = &m
			out.logScale[i] = math.Log(g.norm)
		case evaltree.Internal:
			var m mat.Dense
			m.Mul(out.p[node.Right], out.p[node.Left])
			out.logScale[i] = out.logScale[node.Left] + out.logScale[node.Right]
			if nu := rescale(&m); nu != 1 {
				out.nu[i] = nu
				out.logScale[i] += math.Log(nu)
				rescales++
			}
			out.p[i] = &m
		}
	}
	c.cfg.metrics.nodes(n, rescales)

	return out, nil
}

// evalDerivs evaluates, for every node, the (b1-b0)×dim² matrix whose row
// q is vec(∂P/∂θ(b0+q)) on the same scale as the node's product. A nil
// entry means the node does not depend on those parameters.
//
// Implementation:
//   - Leaf: the gate's own derivative columns divided by its norm.
//   - Internal: ∂P = (P_right·∂P_left + ∂P_right·P_left)/nu.
func (c *Calculator) evalDerivs(ctx context.Context, tr *evaltree.Tree, prod *products, b0, b1 int) ([]*mat.Dense, error) {
	n := tr.NumNodes()
	blk := b1 - b0
	d2 := c.dim * c.dim
	out := make([]*mat.Dense, n)
	for i := 0; i < n; i++ {
		if i%ctxEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		node := tr.Node(i)
		switch node.Kind {
		case evaltree.Leaf:
			g := c.gates[node.Label]
			lo, hi := max(g.off.Start, b0), min(g.off.End, b1)
			if lo >= hi {
				continue
			}
			m := mat.NewDense(blk, d2, nil)
			for q := lo; q < hi; q++ {
				view(m, q-b0, c.dim).Scale(1/g.norm, g.deriv[q-g.off.Start])
			}
			out[i] = m
		case evaltree.Internal:
			dl, dr := out[node.Left], out[node.Right]
			if dl == nil && dr == nil {
				continue
			}
			pl, pr := prod.p[node.Left], prod.p[node.Right]
			m := mat.NewDense(blk, d2, nil)
			for q := 0; q < blk; q++ {
				acc := view(m, q, c.dim)
				var t mat.Dense
				if dl != nil {
					t.Mul(pr, view(dl, q, c.dim))
					acc.Add(acc, &t)
				}
				if dr != nil {
					t.Reset()
					t.Mul(view(dr, q, c.dim), pl)
					acc.Add(acc, &t)
				}
			}
			if nu := prod.nu[i]; nu != 1 {
				m.Scale(1/nu, m)
			}
			out[i] = m
		}
	}

	return out, nil
}

// evalHessians evaluates, for every node, np matrices of shape
// (b1-b0)×dim²; row q of entry a is vec(∂²P/∂θa∂θ(b0+q)). d holds the full
// derivative rows from evalDerivs(0, np). Nil entries mean zero.
//
// Implementation:
//   - Leaf: zero, every parameterization being affine.
//   - Internal: (∂_aR·∂_bL + ∂_bR·∂_aL + R·∂²L + ∂²R·L)/nu.
//
// Complexity: O(#nodes·np·(b1-b0)·dim³).
func (c *Calculator) evalHessians(ctx context.Context, tr *evaltree.Tree, prod *products, d []*mat.Dense, b0, b1 int) ([][]*mat.Dense, error) {
	n := tr.NumNodes()
	blk := b1 - b0
	d2 := c.dim * c.dim
	out := make([][]*mat.Dense, n)
	for i := 0; i < n; i++ {
		if i%ctxEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		node := tr.Node(i)
		if node.Kind != evaltree.Internal {
			continue
		}
		dl, dr := d[node.Left], d[node.Right]
		hl, hr := out[node.Left], out[node.Right]
		cross := dl != nil && dr != nil
		if !cross && hl == nil && hr == nil {
			continue
		}
		pl, pr := prod.p[node.Left], prod.p[node.Right]
		hs := make([]*mat.Dense, c.np)
		for a := range hs {
			m := mat.NewDense(blk, d2, nil)
			for q := 0; q < blk; q++ {
				b := b0 + q
				acc := view(m, q, c.dim)
				var t mat.Dense
				if cross {
					t.Mul(view(dr, a, c.dim), view(dl, b, c.dim))
					acc.Add(acc, &t)
					t.Reset()
					t.Mul(view(dr, b, c.dim), view(dl, a, c.dim))
					acc.Add(acc, &t)
				}
				if hl != nil {
					t.Reset()
					t.Mul(pr, view(hl[a], q, c.dim))
					acc.Add(acc, &t)
				}
				if hr != nil {
					t.Reset()
					t.Mul(view(hr[a], q, c.dim), pl)
					acc.Add(acc, &t)
				}
			}
			if nu := prod.nu[i]; nu != 1 {
				m.Scale(1/nu, m)
			}
			hs[a] = m
		}
		out[i] = hs
	}

	return out, nil
}
