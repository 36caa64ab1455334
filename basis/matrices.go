// SPDX-License-Identifier: MIT

package basis

import (
	"math"

	"github.com/katalvlaran/lvgst/linalg"
	"gonum.org/v1/gonum/mat"
)

// Pauli matrices in the standard representation (σy = [[0,-i],[i,0]]).
var (
	pauliI = mat.NewCDense(2, 2, []complex128{1, 0, 0, 1})
	pauliX = mat.NewCDense(2, 2, []complex128{0, 1, 1, 0})
	pauliY = mat.NewCDense(2, 2, []complex128{0, -1i, 1i, 0})
	pauliZ = mat.NewCDense(2, 2, []complex128{1, 0, 0, -1})
)

// embed places blk at offset start on the diagonal of a zero n×n matrix.
func embed(blk mat.CMatrix, start, n int) *mat.CDense {
	out := mat.NewCDense(n, n, nil)
	r, c := blk.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(start+i, start+j, blk.At(i, j))
		}
	}

	return out
}

// perBlock builds a block-structured basis: the single-block basis of every
// block is embedded at the block's diagonal offset, in block order.
func perBlock(s Structure, single func(d int) ([]*mat.CDense, error)) ([]*mat.CDense, error) {
	n := s.DMDim()
	out := make([]*mat.CDense, 0, s.SpaceDim())
	start := 0
	for _, d := range s.blocks {
		mxs, err := single(d)
		if err != nil {
			return nil, err
		}
		if len(s.blocks) == 1 {
			return mxs, nil
		}
		for _, m := range mxs {
			out = append(out, embed(m, start, n))
		}
		start += d
	}

	return out, nil
}

// MatrixUnitBasis returns the SpaceDim matrix units of s, each DMDim×DMDim with
// a single 1 inside one of the diagonal blocks. Orthonormal under Tr(Bi†Bj).
func MatrixUnitBasis(s Structure) ([]*mat.CDense, error) {
	if s.IsZero() {
		return nil, basisErrorf("MatrixUnitBasis", ErrInvalidStructure)
	}
	n := s.DMDim()
	out := make([]*mat.CDense, 0, s.SpaceDim())
	start := 0
	for _, d := range s.blocks {
		for i := start; i < start+d; i++ {
			for j := start; j < start+d; j++ {
				m := mat.NewCDense(n, n, nil)
				m.Set(i, j, 1)
				out = append(out, m)
			}
		}
		start += d
	}

	return out, nil
}

// gellMannDiagonals returns the d-1 traceless diagonal Gell-Mann matrices of
// dimension d: those of d-1 embedded top-left, followed by
// diag(1,…,1,1-d)·√(2/(d(d-1))).
func gellMannDiagonals(d int) []*mat.CDense {
	var out []*mat.CDense
	if d > 2 {
		for _, sub := range gellMannDiagonals(d - 1) {
			out = append(out, embed(sub, 0, d))
		}
	}
	if d > 1 {
		f := math.Sqrt(2.0 / float64(d*(d-1)))
		m := mat.NewCDense(d, d, nil)
		for i := 0; i < d-1; i++ {
			m.Set(i, i, complex(f, 0))
		}
		m.Set(d-1, d-1, complex(f*float64(1-d), 0))
		out = append(out, m)
	}

	return out
}

// gellMannSingle returns the unnormalized Gell-Mann basis of one d-block.
func gellMannSingle(d int) ([]*mat.CDense, error) {
	out := make([]*mat.CDense, 0, d*d)
	out = append(out, linalg.CIdentity(d))
	for k := 0; k < d; k++ {
		for j := k + 1; j < d; j++ {
			m := mat.NewCDense(d, d, nil)
			m.Set(k, j, 1)
			m.Set(j, k, 1)
			out = append(out, m)
		}
	}
	for k := 0; k < d; k++ {
		for j := k + 1; j < d; j++ {
			m := mat.NewCDense(d, d, nil)
			m.Set(k, j, -1i)
			m.Set(j, k, 1i)
			out = append(out, m)
		}
	}

	return append(out, gellMannDiagonals(d)...), nil
}

// normalizedGellMannSingle rescales the identity by 1/√d and the rest by 1/√2.
func normalizedGellMannSingle(d int) ([]*mat.CDense, error) {
	mxs, _ := gellMannSingle(d)
	mxs[0] = linalg.CScale(complex(1/math.Sqrt(float64(d)), 0), mxs[0])
	for i := 1; i < len(mxs); i++ {
		mxs[i] = linalg.CScale(complex(1/math.Sqrt2, 0), mxs[i])
	}

	return mxs, nil
}

// GellMannBasis returns the (unnormalized, orthogonal) generalized Gell-Mann
// basis of s in the order: identity, symmetric off-diagonals, antisymmetric
// off-diagonals, traceless diagonals. Block structures embed one basis per block.
func GellMannBasis(s Structure) ([]*mat.CDense, error) {
	if s.IsZero() {
		return nil, basisErrorf("GellMannBasis", ErrInvalidStructure)
	}

	return perBlock(s, gellMannSingle)
}

// NormalizedGellMannBasis returns the Gell-Mann basis scaled so that Tr(BiBj) = δij.
func NormalizedGellMannBasis(s Structure) ([]*mat.CDense, error) {
	if s.IsZero() {
		return nil, basisErrorf("NormalizedGellMannBasis", ErrInvalidStructure)
	}

	return perBlock(s, normalizedGellMannSingle)
}

// numQubits returns n with 2^n == dim, or false.
func numQubits(dim int) (int, bool) {
	if dim <= 0 || dim&(dim-1) != 0 {
		return 0, false
	}
	n := 0
	for dim > 1 {
		dim >>= 1
		n++
	}

	return n, true
}

// PauliProductBasis returns the dim² normalized Pauli-product matrices
// (Kronecker products of {I,X,Y,Z}/√2) ordered lexicographically with the first
// qubit most significant: II, IX, IY, IZ, XI, …, ZZ. dim = 1 yields [[1]].
//
// Errors:
//   - ErrNotPowerOfTwo when dim is not a power of two.
func PauliProductBasis(dim int) ([]*mat.CDense, error) {
	nq, ok := numQubits(dim)
	if !ok {
		return nil, basisErrorf("PauliProductBasis", ErrNotPowerOfTwo)
	}
	if nq == 0 {
		return []*mat.CDense{linalg.CIdentity(1)}, nil
	}

	sigma := []*mat.CDense{pauliI, pauliX, pauliY, pauliZ}
	inv := complex(1/math.Sqrt2, 0)
	total := 1 << (2 * nq)
	out := make([]*mat.CDense, 0, total)
	digits := make([]int, nq)
	for k := 0; k < total; k++ {
		// base-4 digits of k, most significant first
		for q, rem := nq-1, k; q >= 0; q-- {
			digits[q] = rem % 4
			rem /= 4
		}
		m := linalg.CIdentity(1)
		for _, dgt := range digits {
			m = linalg.CKron(m, linalg.CScale(inv, sigma[dgt]))
		}
		out = append(out, m)
	}

	return out, nil
}

// Matrices returns the normalized basis of the given kind over s.
// The Pauli-product kind requires every block dimension to be a power of two.
func Matrices(kind Kind, s Structure) ([]*mat.CDense, error) {
	switch kind {
	case Std:
		return MatrixUnitBasis(s)
	case GellMann:
		return NormalizedGellMannBasis(s)
	case PauliProd:
		if s.IsZero() {
			return nil, basisErrorf("Matrices", ErrInvalidStructure)
		}
		return perBlock(s, PauliProductBasis)
	}

	return nil, basisErrorf("Matrices", ErrUnknownKind)
}
