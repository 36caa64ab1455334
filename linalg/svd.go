// SPDX-License-Identifier: MIT

package linalg

import (
	"gonum.org/v1/gonum/mat"
)

// DefaultRankTol is the singular-value cut used when a caller passes a
// non-positive tolerance.
const DefaultRankTol = 1e-7

// singularValues factorizes m and returns its singular values in
// non-increasing order together with the factorization.
func singularValues(tag string, m mat.Matrix, kind mat.SVDKind) (*mat.SVD, []float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, nil, linalgErrorf(tag, err)
	}
	var svd mat.SVD
	if ok := svd.Factorize(m, kind); !ok {
		return nil, nil, linalgErrorf(tag, ErrSVDFailed)
	}

	return &svd, svd.Values(nil), nil
}

// countAbove counts the singular values strictly greater than tol.
func countAbove(s []float64, tol float64) int {
	n := 0
	for _, v := range s {
		if v > tol {
			n++
		}
	}

	return n
}

// Rank returns the number of singular values of m strictly above tol.
// A non-positive tol selects DefaultRankTol.
func Rank(m mat.Matrix, tol float64) (int, error) {
	if tol <= 0 {
		tol = DefaultRankTol
	}
	_, s, err := singularValues("Rank", m, mat.SVDNone)
	if err != nil {
		return 0, err
	}

	return countAbove(s, tol), nil
}

// Nullspace returns an orthonormal basis (as columns) of the right nullspace
// of m together with the numerical rank of m.
//
// Implementation:
//   - Stage 1: full SVD m = U·Σ·Vᵀ.
//   - Stage 2: rank = #{σ > tol}.
//   - Stage 3: return the trailing cols−rank columns of V.
//
// Returns:
//   - nil basis when the nullspace is trivial (gonum has no n×0 matrices).
//
// Complexity:
//   - Time O(r·c·min(r,c) + c³), Space O(r² + c²).
func Nullspace(m mat.Matrix, tol float64) (*mat.Dense, int, error) {
	if tol <= 0 {
		tol = DefaultRankTol
	}
	svd, s, err := singularValues("Nullspace", m, mat.SVDFull)
	if err != nil {
		return nil, 0, err
	}
	_, c := m.Dims()
	rank := countAbove(s, tol)
	if rank == c {
		return nil, rank, nil
	}

	var v mat.Dense
	svd.VTo(&v)
	null := mat.DenseCopyOf(v.Slice(0, c, rank, c))

	return null, rank, nil
}

// Pinv returns the Moore–Penrose pseudo-inverse of m.
// Singular values at or below rcond·σ_max are treated as zero.
func Pinv(m mat.Matrix, rcond float64) (*mat.Dense, error) {
	svd, s, err := singularValues("Pinv", m, mat.SVDThin)
	if err != nil {
		return nil, err
	}
	r, c := m.Dims()
	if len(s) == 0 {
		return mat.NewDense(c, r, nil), nil
	}
	cutoff := rcond * s[0]

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	// V·diag(1/σ)
	k := len(s)
	vs := mat.NewDense(c, k, nil)
	for j := 0; j < k; j++ {
		if s[j] <= cutoff {
			continue
		}
		inv := 1 / s[j]
		for i := 0; i < c; i++ {
			vs.Set(i, j, v.At(i, j)*inv)
		}
	}

	out := mat.NewDense(c, r, nil)
	out.Mul(vs, u.T())

	return out, nil
}
