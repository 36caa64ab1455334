// SPDX-License-Identifier: MIT
// Package: linalg
//
// Complex kernels over gonum's *mat.CDense.
//
// gonum ships complex storage but only a thin set of complex operations, so the
// basis layer gets the few it needs here: products, adjoints, Kronecker products
// and a general inverse computed through the real 2n×2n embedding
//
//	A = X + iY  ↦  [[X, -Y], [Y, X]]
//
// which is inverted with mat.Dense.Inverse (LU with partial pivoting).

package linalg

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// CIdentity returns an n×n complex identity matrix.
func CIdentity(n int) *mat.CDense {
	id := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		id.Set(i, i, 1)
	}

	return id
}

// CMul returns a·b.
func CMul(a, b mat.CMatrix) (*mat.CDense, error) {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ac != br {
		return nil, linalgErrorf("CMul", ErrDimensionMismatch)
	}
	out := mat.NewCDense(ar, bc, nil)
	for i := 0; i < ar; i++ {
		for k := 0; k < ac; k++ {
			aik := a.At(i, k)
			if aik == 0 {
				continue
			}
			for j := 0; j < bc; j++ {
				out.Set(i, j, out.At(i, j)+aik*b.At(k, j))
			}
		}
	}

	return out, nil
}

// CAdjoint returns the conjugate transpose of m.
func CAdjoint(m mat.CMatrix) *mat.CDense {
	r, c := m.Dims()
	out := mat.NewCDense(c, r, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(j, i, cmplx.Conj(m.At(i, j)))
		}
	}

	return out
}

// CClone returns a deep copy of m.
func CClone(m mat.CMatrix) *mat.CDense {
	r, c := m.Dims()
	out := mat.NewCDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, m.At(i, j))
		}
	}

	return out
}

// CScale returns f·m.
func CScale(f complex128, m mat.CMatrix) *mat.CDense {
	r, c := m.Dims()
	out := mat.NewCDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, f*m.At(i, j))
		}
	}

	return out
}

// CAdd returns a+b.
func CAdd(a, b mat.CMatrix) (*mat.CDense, error) {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		return nil, linalgErrorf("CAdd", ErrDimensionMismatch)
	}
	out := mat.NewCDense(ar, ac, nil)
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			out.Set(i, j, a.At(i, j)+b.At(i, j))
		}
	}

	return out, nil
}

// CKron computes the complex Kronecker product a ⊗ b.
func CKron(a, b mat.CMatrix) *mat.CDense {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	out := mat.NewCDense(ar*br, ac*bc, nil)
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			aij := a.At(i, j)
			if aij == 0 {
				continue
			}
			for k := 0; k < br; k++ {
				for l := 0; l < bc; l++ {
					out.Set(i*br+k, j*bc+l, aij*b.At(k, l))
				}
			}
		}
	}

	return out
}

// CTrace returns the trace of a square complex matrix.
func CTrace(m mat.CMatrix) complex128 {
	r, _ := m.Dims()
	var tr complex128
	for i := 0; i < r; i++ {
		tr += m.At(i, i)
	}

	return tr
}

// CFlatten returns the row-major element list of m.
func CFlatten(m mat.CMatrix) []complex128 {
	r, c := m.Dims()
	out := make([]complex128, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out = append(out, m.At(i, j))
		}
	}

	return out
}

// Complexify lifts a real matrix into complex storage.
func Complexify(m mat.Matrix) *mat.CDense {
	r, c := m.Dims()
	out := mat.NewCDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, complex(m.At(i, j), 0))
		}
	}

	return out
}

// RealPart returns the element-wise real part of m.
func RealPart(m mat.CMatrix) *mat.Dense {
	r, c := m.Dims()
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, real(m.At(i, j)))
		}
	}

	return out
}

// ImagNorm returns the Frobenius norm of the imaginary part of m.
func ImagNorm(m mat.CMatrix) float64 {
	r, c := m.Dims()
	var s float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := imag(m.At(i, j))
			s += v * v
		}
	}

	return math.Sqrt(s)
}

// CInverse inverts a square complex matrix.
//
// Implementation:
//   - Stage 1: embed A = X+iY into the real block matrix R = [[X,-Y],[Y,X]].
//   - Stage 2: invert R with mat.Dense.Inverse.
//   - Stage 3: read A⁻¹ = P+iQ back from R⁻¹ = [[P,-Q],[Q,P]].
//
// Errors:
//   - ErrDimensionMismatch for non-square input.
//   - ErrSingular when the embedding is singular or too ill-conditioned to invert.
//
// Complexity:
//   - Time O((2n)³), Space O((2n)²).
func CInverse(a mat.CMatrix) (*mat.CDense, error) {
	if err := ValidateCSquare(a); err != nil {
		return nil, linalgErrorf("CInverse", err)
	}
	n, _ := a.Dims()
	emb := mat.NewDense(2*n, 2*n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			z := a.At(i, j)
			emb.Set(i, j, real(z))
			emb.Set(i, j+n, -imag(z))
			emb.Set(i+n, j, imag(z))
			emb.Set(i+n, j+n, real(z))
		}
	}

	var inv mat.Dense
	if err := inv.Inverse(emb); err != nil {
		return nil, linalgErrorf("CInverse", ErrSingular)
	}

	out := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out.Set(i, j, complex(inv.At(i, j), inv.At(i+n, j)))
		}
	}

	return out, nil
}

// CAllClose is AllClose for complex operands, comparing moduli of differences.
func CAllClose(a, b mat.CMatrix, rtol, atol float64) (bool, error) {
	if a == nil || b == nil {
		return false, linalgErrorf("CAllClose", ErrNilMatrix)
	}
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		return false, linalgErrorf("CAllClose", ErrDimensionMismatch)
	}
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			x, y := a.At(i, j), b.At(i, j)
			if cmplx.Abs(x-y) > math.Abs(atol)+math.Abs(rtol)*cmplx.Abs(y) {
				return false, nil
			}
		}
	}

	return true, nil
}

// CExpm returns the matrix exponential of a square complex matrix.
//
// Implementation:
//   - Stage 1: halve A until its max-row-sum norm is at most 1/2 (s halvings).
//   - Stage 2: sum the Taylor series of exp(A/2^s) to 24 terms.
//   - Stage 3: square the result s times.
//
// Notes:
//   - Accurate to machine precision for the moderate norms produced by
//     rotation generators; not intended for stiff inputs.
func CExpm(a mat.CMatrix) (*mat.CDense, error) {
	if err := ValidateCSquare(a); err != nil {
		return nil, linalgErrorf("CExpm", err)
	}
	n, _ := a.Dims()

	var norm float64
	for i := 0; i < n; i++ {
		var row float64
		for j := 0; j < n; j++ {
			row += cmplx.Abs(a.At(i, j))
		}
		norm = math.Max(norm, row)
	}
	s := 0
	for norm > 0.5 {
		norm /= 2
		s++
	}

	x := CScale(complex(math.Ldexp(1, -s), 0), a)
	result := CIdentity(n)
	term := CIdentity(n)
	for k := 1; k <= 24; k++ {
		next, err := CMul(term, x)
		if err != nil {
			return nil, linalgErrorf("CExpm", err)
		}
		term = CScale(complex(1/float64(k), 0), next)
		if result, err = CAdd(result, term); err != nil {
			return nil, linalgErrorf("CExpm", err)
		}
	}
	for ; s > 0; s-- {
		sq, err := CMul(result, result)
		if err != nil {
			return nil, linalgErrorf("CExpm", err)
		}
		result = sq
	}

	return result, nil
}

// HermitianTraceNorm returns the trace norm Σ|λ_k| of the Hermitian part
// (m + m†)/2 of a square complex matrix.
//
// Implementation:
//   - Stage 1: embed H = X + iY into the real symmetric R = [[X, -Y], [Y, X]],
//     whose spectrum is that of H with every eigenvalue doubled.
//   - Stage 2: factorize R with mat.EigenSym and halve Σ|λ|.
//
// Errors:
//   - ErrDimensionMismatch for non-square input.
//   - ErrEigenFailed when the eigendecomposition does not converge.
//
// Complexity:
//   - Time O((2n)³), Space O((2n)²).
func HermitianTraceNorm(m mat.CMatrix) (float64, error) {
	if err := ValidateCSquare(m); err != nil {
		return 0, linalgErrorf("HermitianTraceNorm", err)
	}
	n, _ := m.Dims()
	emb := mat.NewSymDense(2*n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			h := (m.At(i, j) + cmplx.Conj(m.At(j, i))) / 2
			x, y := real(h), imag(h)
			emb.SetSym(i, j, x)
			emb.SetSym(i+n, j+n, x)
			// R[i+n][j] = Y[i][j]; Y is antisymmetric
			emb.SetSym(i+n, j, y)
			emb.SetSym(j+n, i, -y)
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(emb, false); !ok {
		return 0, linalgErrorf("HermitianTraceNorm", ErrEigenFailed)
	}
	var sum float64
	for _, v := range eig.Values(nil) {
		sum += math.Abs(v)
	}

	return sum / 2, nil
}
