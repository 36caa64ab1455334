// SPDX-License-Identifier: MIT

package linalg_test

import (
	"testing"

	"github.com/katalvlaran/lvgst/gsterr"
	"github.com/katalvlaran/lvgst/linalg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestValidators(t *testing.T) {
	t.Parallel()
	sq := mat.NewDense(2, 2, nil)
	rect := mat.NewDense(2, 3, nil)
	var typedNil *mat.Dense

	assert.NoError(t, linalg.ValidateSquare(sq))
	assert.ErrorIs(t, linalg.ValidateSquare(rect), linalg.ErrDimensionMismatch)
	assert.ErrorIs(t, linalg.ValidateSameShape(sq, rect), gsterr.ErrDimension)
	assert.ErrorIs(t, linalg.ValidateNotNil(typedNil), linalg.ErrNilMatrix)
	assert.ErrorIs(t, linalg.ValidateSquareDim(sq, 3), linalg.ErrDimensionMismatch)
	assert.ErrorIs(t, linalg.ValidateVecLen([]float64{1}, 2), linalg.ErrDimensionMismatch)
	assert.NoError(t, linalg.ValidateVecLen(nil, 0))
}

func TestKronecker(t *testing.T) {
	t.Parallel()
	a := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	b := mat.NewDense(1, 2, []float64{0, 1})
	var got mat.Dense
	got.Kronecker(a, b)
	want := mat.NewDense(2, 4, []float64{
		0, 1, 0, 2,
		0, 3, 0, 4,
	})
	assert.True(t, mat.Equal(&got, want))
}

// vec(A·X·B) = (A ⊗ Bᵀ)·vec(X) under row-major flattening.
func TestKronecker_VecIdentity(t *testing.T) {
	t.Parallel()
	a := mat.NewDense(2, 2, []float64{1, -2, 0.5, 3})
	x := mat.NewDense(2, 2, []float64{0.1, 0.7, -1, 2})
	b := mat.NewDense(2, 2, []float64{2, 0, 1, -1})

	var axb mat.Dense
	axb.Mul(a, x)
	axb.Mul(&axb, b)

	var k mat.Dense
	k.Kronecker(a, b.T())
	var lhs mat.VecDense
	lhs.MulVec(&k, mat.NewVecDense(4, linalg.Flatten(x)))
	assert.InDeltaSlice(t, linalg.Flatten(&axb), lhs.RawVector().Data, 1e-12)
}

func TestCInverse(t *testing.T) {
	t.Parallel()
	a := mat.NewCDense(2, 2, []complex128{1 + 1i, 2, 0, 1 - 2i})
	inv, err := linalg.CInverse(a)
	require.NoError(t, err)
	prod, err := linalg.CMul(a, inv)
	require.NoError(t, err)
	ok, err := linalg.CAllClose(prod, linalg.CIdentity(2), 0, 1e-12)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = linalg.CInverse(mat.NewCDense(2, 2, nil))
	assert.ErrorIs(t, err, linalg.ErrSingular)
	assert.ErrorIs(t, err, gsterr.ErrNumericalDegeneracy)
}

func TestImagNormAndRealPart(t *testing.T) {
	t.Parallel()
	m := mat.NewCDense(1, 2, []complex128{1 + 3i, 2 - 4i})
	assert.InDelta(t, 5.0, linalg.ImagNorm(m), 1e-12)
	assert.Equal(t, []float64{1, 2}, linalg.Flatten(linalg.RealPart(m)))
}

func TestNullspaceAndRank(t *testing.T) {
	t.Parallel()
	// rank-1 2×3 matrix: nullspace has dimension 2.
	m := mat.NewDense(2, 3, []float64{1, 2, 3, 2, 4, 6})
	null, rank, err := linalg.Nullspace(m, 1e-10)
	require.NoError(t, err)
	assert.Equal(t, 1, rank)
	r, c := null.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)

	var prod mat.Dense
	prod.Mul(m, null)
	assert.Less(t, linalg.MaxAbs(&prod), 1e-10)

	rk, err := linalg.Rank(m, 1e-10)
	require.NoError(t, err)
	assert.Equal(t, 1, rk)

	full := linalg.Identity(3)
	null, rank, err = linalg.Nullspace(full, 1e-10)
	require.NoError(t, err)
	assert.Nil(t, null)
	assert.Equal(t, 3, rank)
}

func TestPinv(t *testing.T) {
	t.Parallel()
	m := mat.NewDense(3, 2, []float64{1, 0, 0, 2, 0, 0})
	p, err := linalg.Pinv(m, 1e-12)
	require.NoError(t, err)
	want := mat.NewDense(2, 3, []float64{1, 0, 0, 0, 0.5, 0})
	ok, err := linalg.AllClose(p, want, 0, 1e-12)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAllClose(t *testing.T) {
	t.Parallel()
	a := mat.NewDense(1, 2, []float64{1, 2})
	b := mat.NewDense(1, 2, []float64{1, 2 + 1e-9})
	ok, err := linalg.AllClose(a, b, 0, 1e-8)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = linalg.AllClose(a, b, 0, 1e-12)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = linalg.AllClose(a, mat.NewDense(2, 1, nil), 0, 1)
	assert.ErrorIs(t, err, linalg.ErrDimensionMismatch)
}

func TestHermitianTraceNorm(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		m    *mat.CDense
		want float64
	}{
		{"diagonal", mat.NewCDense(2, 2, []complex128{1, 0, 0, -2}), 3},
		{"pauliY", mat.NewCDense(2, 2, []complex128{0, -1i, 1i, 0}), 2},
		{"rankOne", mat.NewCDense(2, 2, []complex128{0.5, 0.5i, -0.5i, 0.5}), 1},
		{"zero", mat.NewCDense(3, 3, nil), 0},
	}
	for _, tc := range cases {
		got, err := linalg.HermitianTraceNorm(tc.m)
		require.NoError(t, err, tc.name)
		assert.InDelta(t, tc.want, got, 1e-12, tc.name)
	}

	_, err := linalg.HermitianTraceNorm(mat.NewCDense(2, 3, nil))
	assert.ErrorIs(t, err, linalg.ErrDimensionMismatch)
}
