// SPDX-License-Identifier: MIT

package calc

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/katalvlaran/lvgst/evaltree"
	"github.com/katalvlaran/lvgst/linalg"
	"gonum.org/v1/gonum/mat"
)

// bulkResult holds per-label bulk values before clipping.
type bulkResult struct {
	pr  map[string][]float64    // label → value per string
	dpr map[string]*mat.Dense   // label → strings×np
	hpr map[string][]*mat.Dense // label → per string np×(c1-c0)
}

// resolve returns the ordinary labels whose values must be computed to
// answer labels; a complement label pulls in every ordinary label.
func (c *Calculator) resolve(tag string, labels []string) ([]string, []*spamPair, bool, error) {
	var ords []string
	var pairs []*spamPair
	seen := make(map[string]bool, len(labels))
	rest := false
	for _, l := range labels {
		sp, err := c.spamPair(tag, l)
		if err != nil {
			return nil, nil, false, err
		}
		if sp.complement {
			rest = true
		} else if !seen[l] {
			seen[l] = true
			ords = append(ords, l)
			pairs = append(pairs, sp)
		}
	}
	if rest {
		ords, pairs, err := c.ordinary(tag)

		return ords, pairs, true, err
	}

	return ords, pairs, false, nil
}

// bulk evaluates labels over tr up to order (0 probabilities, 1 first
// derivatives, 2 Hessians restricted to the columns [c0, c1)). Lower orders
// are always filled in as well.
func (c *Calculator) bulk(ctx context.Context, op string, tr *evaltree.Tree, labels []string, order, c0, c1 int) (*bulkResult, error) {
	ords, pairs, rest, err := c.resolve(op, labels)
	if err != nil {
		return nil, err
	}
	ns := tr.NumFinalStrings()
	np := c.np
	if np == 0 {
		order = 0
	}

	pr := make([][]float64, len(pairs))
	dpr := make([]*mat.Dense, len(pairs))
	hpr := make([][]*mat.Dense, len(pairs))
	for i := range pairs {
		pr[i] = make([]float64, ns)
		if order >= 1 && ns > 0 {
			dpr[i] = mat.NewDense(ns, np, nil)
		}
		if order >= 2 {
			hpr[i] = make([]*mat.Dense, ns)
			for s := range hpr[i] {
				hpr[i][s] = mat.NewDense(np, c1-c0, nil)
			}
		}
	}

	lo, hi := 0, 0
	switch order {
	case 1:
		lo, hi = 0, np
	case 2:
		lo, hi = c0, c1
	}
	err = c.run(ctx, op, tr, lo, hi, func(ctx context.Context, t task) error {
		first := t.b0 == lo
		var prod *products
		var dFull, dBlk []*mat.Dense
		var h [][]*mat.Dense
		var err error
		switch order {
		case 0:
			prod, err = t.sub.products(ctx, c)
		case 1:
			if prod, err = t.sub.products(ctx, c); err == nil {
				dBlk, err = c.evalDerivs(ctx, t.sub.tree, prod, t.b0, t.b1)
			}
		case 2:
			if prod, dFull, err = t.sub.fullDerivs(ctx, c); err == nil {
				h, err = c.evalHessians(ctx, t.sub.tree, prod, dFull, t.b0, t.b1)
			}
		}
		if err != nil {
			return err
		}

		buf := make([]float64, np)
		for j, pk := range t.sub.parent {
			f := t.sub.tree.FinalIndex(j)
			p := prod.p[f]
			scale := math.Exp(prod.logScale[f])
			for i, sp := range pairs {
				if first {
					pr[i][pk] = scale * sp.pr(p)
				}
				switch order {
				case 1:
					row := buf[:t.b1-t.b0]
					sp.dpr(p, dBlk[f], t.b0, t.b1, row)
					for q, v := range row {
						dpr[i].Set(pk, t.b0+q, scale*v)
					}
				case 2:
					if first {
						sp.dpr(p, dFull[f], 0, np, buf)
						for q, v := range buf {
							dpr[i].Set(pk, q, scale*v)
						}
					}
					dst := hpr[i][pk].Slice(0, np, t.b0-c0, t.b1-c0).(*mat.Dense)
					sp.hpr(p, dFull[f], h[f], t.b0, t.b1, dst)
					dst.Scale(scale, dst)
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	res := &bulkResult{
		pr:  make(map[string][]float64, len(labels)),
		dpr: make(map[string]*mat.Dense, len(labels)),
		hpr: make(map[string][]*mat.Dense, len(labels)),
	}
	for i, l := range ords {
		res.pr[l] = pr[i]
		res.dpr[l] = dpr[i]
		res.hpr[l] = hpr[i]
	}
	if rest {
		c.complete(res, labels, ns, pr, dpr, hpr)
	}
	if c.cfg.check && (order < 2 || (c0 == 0 && c1 == np)) {
		if err := c.verify(op, tr, res, order); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// complete fills the complement labels among labels: 1 − Σ for
// probabilities and −Σ for derivatives.
func (c *Calculator) complete(res *bulkResult, labels []string, ns int, pr [][]float64, dpr []*mat.Dense, hpr [][]*mat.Dense) {
	for _, l := range labels {
		if !c.spam[l].complement {
			continue
		}
		v := make([]float64, ns)
		for s := range v {
			v[s] = 1
			for i := range pr {
				v[s] -= pr[i][s]
			}
		}
		res.pr[l] = v

		var d *mat.Dense
		for i := range dpr {
			if dpr[i] == nil {
				continue
			}
			if d == nil {
				r, cols := dpr[i].Dims()
				d = mat.NewDense(r, cols, nil)
			}
			d.Sub(d, dpr[i])
		}
		res.dpr[l] = d

		var h []*mat.Dense
		for i := range hpr {
			if hpr[i] == nil {
				continue
			}
			if h == nil {
				h = make([]*mat.Dense, len(hpr[i]))
				for s := range h {
					r, cols := hpr[i][s].Dims()
					h[s] = mat.NewDense(r, cols, nil)
				}
			}
			for s := range h {
				h[s].Sub(h[s], hpr[i][s])
			}
		}
		res.hpr[l] = h
	}
}

func (c *Calculator) closeEnough(a, b float64) bool {
	return math.Abs(a-b) <= c.cfg.checkTol*(1+math.Abs(b))
}

// verify compares res against the single-string methods. Disagreements are
// logged as warnings, or returned as ErrCheckMismatch under WithStrict.
func (c *Calculator) verify(op string, tr *evaltree.Tree, res *bulkResult, order int) error {
	mismatch := func(label string, k int, what string, got, want float64) error {
		if c.cfg.strict {
			return calcErrorf(fmt.Sprintf("%s(%q, string %d, %s)", op, label, k, what), ErrCheckMismatch)
		}
		c.cfg.logger.Warn("bulk check mismatch",
			slog.String("op", op), slog.String("label", label), slog.Int("string", k),
			slog.String("quantity", what), slog.Float64("bulk", got), slog.Float64("single", want))

		return nil
	}
	labels := make([]string, 0, len(res.pr))
	for l := range res.pr {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	for k := 0; k < tr.NumFinalStrings(); k++ {
		s := tr.String(k)
		for _, l := range labels {
			want, err := c.Pr(l, s, nil)
			if err != nil {
				return err
			}
			if got := res.pr[l][k]; !c.closeEnough(got, want) {
				if err := mismatch(l, k, "pr", got, want); err != nil {
					return err
				}
			}
			if order >= 1 && res.dpr[l] != nil {
				dwant, err := c.DPr(l, s)
				if err != nil {
					return err
				}
				for q, w := range dwant {
					if got := res.dpr[l].At(k, q); !c.closeEnough(got, w) {
						if err := mismatch(l, k, "dpr", got, w); err != nil {
							return err
						}

						break
					}
				}
			}
			if order >= 2 && res.hpr[l] != nil {
				hwant, err := c.HPr(l, s)
				if err != nil {
					return err
				}
				if ok, _ := linalg.AllClose(res.hpr[l][k], hwant, c.cfg.checkTol, c.cfg.checkTol); !ok {
					if err := mismatch(l, k, "hpr", mat.Sum(res.hpr[l][k]), mat.Sum(hwant)); err != nil {
						return err
					}
				}
			}
		}
	}

	return nil
}

// BulkPr returns the probability of label for every requested string of tr.
func (c *Calculator) BulkPr(ctx context.Context, label string, tr *evaltree.Tree, clip *Clip) ([]float64, error) {
	res, err := c.bulk(ctx, "probs", tr, []string{label}, 0, 0, 0)
	if err != nil {
		return nil, err
	}
	out := append([]float64(nil), res.pr[label]...)
	for s, v := range out {
		out[s] = clip.apply(v)
	}

	return out, nil
}

// BulkProbs returns every SPAM label's probability for every requested string of tr.
func (c *Calculator) BulkProbs(ctx context.Context, tr *evaltree.Tree, clip *Clip) (map[string][]float64, error) {
	res, err := c.bulk(ctx, "probs", tr, c.spamLabels, 0, 0, 0)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]float64, len(c.spamLabels))
	for _, l := range c.spamLabels {
		v := append([]float64(nil), res.pr[l]...)
		for s := range v {
			v[s] = clip.apply(v[s])
		}
		out[l] = v
	}

	return out, nil
}

// BulkDProbs returns, per SPAM label, the strings×np matrix of probability
// derivatives. Values are nil when the model has no parameters.
func (c *Calculator) BulkDProbs(ctx context.Context, tr *evaltree.Tree) (map[string]*mat.Dense, error) {
	res, err := c.bulk(ctx, "dprobs", tr, c.spamLabels, 1, 0, 0)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*mat.Dense, len(c.spamLabels))
	for _, l := range c.spamLabels {
		out[l] = res.dpr[l]
	}

	return out, nil
}

// BulkHProbs returns, per SPAM label, one np×np Hessian per requested
// string. Values are nil when the model has no parameters.
func (c *Calculator) BulkHProbs(ctx context.Context, tr *evaltree.Tree) (map[string][]*mat.Dense, error) {
	res, err := c.bulk(ctx, "hprobs", tr, c.spamLabels, 2, 0, c.np)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]*mat.Dense, len(c.spamLabels))
	for _, l := range c.spamLabels {
		out[l] = res.hpr[l]
	}

	return out, nil
}
