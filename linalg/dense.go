// SPDX-License-Identifier: MIT

package linalg

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Identity returns a freshly allocated n×n identity matrix.
func Identity(n int) *mat.Dense {
	id := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		id.Set(i, i, 1)
	}

	return id
}

// Flatten returns the row-major element list of m.
// The result never aliases the storage of m.
func Flatten(m mat.Matrix) []float64 {
	r, c := m.Dims()
	out := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out = append(out, m.At(i, j))
		}
	}

	return out
}

// Unflatten builds an r×c matrix from a row-major element list.
// The slice is copied.
func Unflatten(v []float64, r, c int) (*mat.Dense, error) {
	if err := ValidateVecLen(v, r*c); err != nil {
		return nil, linalgErrorf("Unflatten", err)
	}

	return mat.NewDense(r, c, append([]float64(nil), v...)), nil
}

// AllClose reports whether all elements satisfy |a-b| ≤ atol + rtol·|b|.
//
// Negative tolerances are taken by absolute value; NaN/Inf tolerances fail
// with ErrNaNInf. A shape mismatch fails with ErrDimensionMismatch.
func AllClose(a, b mat.Matrix, rtol, atol float64) (bool, error) {
	if math.IsNaN(rtol) || math.IsNaN(atol) || math.IsInf(rtol, 0) || math.IsInf(atol, 0) {
		return false, linalgErrorf("AllClose", ErrNaNInf)
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)

	if err := ValidateNotNil(a); err != nil {
		return false, linalgErrorf("AllClose", err)
	}
	if err := ValidateNotNil(b); err != nil {
		return false, linalgErrorf("AllClose", err)
	}
	if err := ValidateSameShape(a, b); err != nil {
		return false, linalgErrorf("AllClose", err)
	}

	r, c := a.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			x, y := a.At(i, j), b.At(i, j)
			if math.Abs(x-y) > atol+rtol*math.Abs(y) {
				return false, nil
			}
		}
	}

	return true, nil
}

// MaxAbs returns the largest absolute element of m (0 for an empty matrix).
func MaxAbs(m mat.Matrix) float64 {
	r, c := m.Dims()
	var best float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := math.Abs(m.At(i, j)); v > best {
				best = v
			}
		}
	}

	return best
}

// IsFinite reports whether every element of m is finite.
func IsFinite(m mat.Matrix) bool {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}

	return true
}
