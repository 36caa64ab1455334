// SPDX-License-Identifier: MIT

package basis_test

import (
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/katalvlaran/lvgst/basis"
	"github.com/katalvlaran/lvgst/gsterr"
	"github.com/katalvlaran/lvgst/linalg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const tol = 1e-8

// traceInner returns Tr(a†·b).
func traceInner(t *testing.T, a, b mat.CMatrix) complex128 {
	t.Helper()
	p, err := linalg.CMul(linalg.CAdjoint(a), b)
	require.NoError(t, err)
	return linalg.CTrace(p)
}

func randomDense(rng *rand.Rand, r, c int) *mat.Dense {
	m := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.Set(i, j, rng.NormFloat64())
		}
	}
	return m
}

func TestStructure(t *testing.T) {
	t.Parallel()
	s, err := basis.NewStructure(2, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, s.DMDim())
	assert.Equal(t, 5, s.SpaceDim())
	assert.Equal(t, "[2,1]", s.String())
	assert.Equal(t, []int{2, 1}, s.Blocks())

	single := basis.MustStructure(3)
	assert.Equal(t, 9, single.SpaceDim())
	assert.Equal(t, single.DMDim()*single.DMDim(), single.SpaceDim())

	_, err = basis.NewStructure()
	assert.ErrorIs(t, err, basis.ErrInvalidStructure)
	_, err = basis.NewStructure(2, 0)
	assert.ErrorIs(t, err, gsterr.ErrBasis)
	assert.True(t, basis.Structure{}.IsZero())
}

func TestParseKind(t *testing.T) {
	t.Parallel()
	for name, want := range map[string]basis.Kind{"std": basis.Std, "pp": basis.PauliProd, "GM": basis.GellMann} {
		got, err := basis.ParseKind(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := basis.ParseKind("qutrit")
	assert.ErrorIs(t, err, gsterr.ErrBasis)
	assert.Equal(t, "pp", basis.PauliProd.String())
}

func TestBases_Orthonormal(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		kind basis.Kind
		s    basis.Structure
	}{
		{"std-2", basis.Std, basis.MustStructure(2)},
		{"std-[2,1]", basis.Std, basis.MustStructure(2, 1)},
		{"gm-2", basis.GellMann, basis.MustStructure(2)},
		{"gm-3", basis.GellMann, basis.MustStructure(3)},
		{"gm-4", basis.GellMann, basis.MustStructure(4)},
		{"gm-[2,1]", basis.GellMann, basis.MustStructure(2, 1)},
		{"pp-2", basis.PauliProd, basis.MustStructure(2)},
		{"pp-4", basis.PauliProd, basis.MustStructure(4)},
		{"pp-[2,1]", basis.PauliProd, basis.MustStructure(2, 1)},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			mxs, err := basis.Matrices(tc.kind, tc.s)
			require.NoError(t, err)
			require.Len(t, mxs, tc.s.SpaceDim())
			for i := range mxs {
				r, c := mxs[i].Dims()
				require.Equal(t, tc.s.DMDim(), r)
				require.Equal(t, tc.s.DMDim(), c)
				for j := range mxs {
					want := 0.0
					if i == j {
						want = 1
					}
					got := traceInner(t, mxs[i], mxs[j])
					assert.InDelta(t, want, real(got), tol, "Tr(B%d†B%d)", i, j)
					assert.InDelta(t, 0, imag(got), tol)
				}
			}
		})
	}
}

func TestGellMann_HermitianAndTraceless(t *testing.T) {
	t.Parallel()
	mxs, err := basis.GellMannBasis(basis.MustStructure(3))
	require.NoError(t, err)
	require.Len(t, mxs, 9)
	for k, m := range mxs {
		ok, err := linalg.CAllClose(m, linalg.CAdjoint(m), 0, tol)
		require.NoError(t, err)
		assert.True(t, ok, "matrix %d must be Hermitian", k)
		if k > 0 {
			assert.InDelta(t, 0, cmplx.Abs(linalg.CTrace(m)), tol, "matrix %d must be traceless", k)
		}
	}
	// last diagonal for d=3: diag(1,1,-2)·√(1/3)
	last := mxs[8]
	f := math.Sqrt(1.0 / 3.0)
	assert.InDelta(t, f, real(last.At(0, 0)), tol)
	assert.InDelta(t, -2*f, real(last.At(2, 2)), tol)
	// antisymmetric ordering: -i at (k,j), +i at (j,k)
	assert.Equal(t, complex(0, -1), mxs[4].At(0, 1))
	assert.Equal(t, complex(0, 1), mxs[4].At(1, 0))
}

func TestPauliProductBasis_Dims(t *testing.T) {
	t.Parallel()
	for _, d := range []int{1, 2, 4, 8} {
		mxs, err := basis.PauliProductBasis(d)
		require.NoError(t, err, "dim %d", d)
		assert.Len(t, mxs, d*d)
		r, c := mxs[0].Dims()
		assert.Equal(t, d, r)
		assert.Equal(t, d, c)
	}
	for _, d := range []int{0, 3, 6} {
		_, err := basis.PauliProductBasis(d)
		assert.ErrorIs(t, err, basis.ErrNotPowerOfTwo, "dim %d", d)
		assert.ErrorIs(t, err, gsterr.ErrBasis)
	}
	one, err := basis.PauliProductBasis(1)
	require.NoError(t, err)
	assert.Equal(t, complex(1, 0), one[0].At(0, 0))

	// 2 qubits: index 1 is I⊗X/2.
	two, err := basis.PauliProductBasis(4)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, real(two[1].At(0, 1)), tol)
	assert.InDelta(t, 0.5, real(two[1].At(2, 3)), tol)
}

func TestTransformMatrix_Unitary(t *testing.T) {
	t.Parallel()
	for _, kind := range []basis.Kind{basis.Std, basis.PauliProd, basis.GellMann} {
		tm, err := basis.TransformMatrix(kind, basis.MustStructure(2, 2))
		require.NoError(t, err)
		p, err := linalg.CMul(linalg.CAdjoint(tm), tm)
		require.NoError(t, err)
		ok, err := linalg.CAllClose(p, linalg.CIdentity(8), 0, tol)
		require.NoError(t, err)
		assert.True(t, ok, kind.String())
	}
	_, err := basis.TransformMatrix(basis.PauliProd, basis.MustStructure(3))
	assert.ErrorIs(t, err, basis.ErrNotPowerOfTwo)
}

func TestChange_RoundTrip(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		kind basis.Kind
		s    basis.Structure
	}{
		{"pp-1q", basis.PauliProd, basis.MustStructure(2)},
		{"pp-2q", basis.PauliProd, basis.MustStructure(4)},
		{"gm-3", basis.GellMann, basis.MustStructure(3)},
		{"gm-[2,1]", basis.GellMann, basis.MustStructure(2, 1)},
		{"pp-zero-structure", basis.PauliProd, basis.Structure{}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rng := rand.New(rand.NewSource(7))
			n := tc.s.SpaceDim()
			if tc.s.IsZero() {
				n = 4
			}
			a := randomDense(rng, n, n)

			std, err := basis.Change(linalg.Complexify(a), tc.kind, basis.Std, tc.s)
			require.NoError(t, err)
			back, err := basis.Change(std, basis.Std, tc.kind, tc.s)
			require.NoError(t, err)
			ok, err := linalg.AllClose(linalg.RealPart(back), a, 0, tol)
			require.NoError(t, err)
			assert.True(t, ok)

			v := randomDense(rng, n, 1)
			vs, err := basis.Change(linalg.Complexify(v), tc.kind, basis.Std, tc.s)
			require.NoError(t, err)
			vb, err := basis.ChangeReal(v, tc.kind, tc.kind, tc.s)
			require.NoError(t, err)
			assert.True(t, mat.EqualApprox(vb, v, tol))
			back, err = basis.Change(vs, basis.Std, tc.kind, tc.s)
			require.NoError(t, err)
			assert.True(t, mat.EqualApprox(linalg.RealPart(back), v, tol))
		})
	}
}

func TestChange_PPToGMAndBack(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(3))
	a := randomDense(rng, 4, 4)
	gm, err := basis.ChangeReal(a, basis.PauliProd, basis.GellMann, basis.MustStructure(2))
	require.NoError(t, err)
	pp, err := basis.ChangeReal(gm, basis.GellMann, basis.PauliProd, basis.MustStructure(2))
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(pp, a, tol))
}

func TestChange_Errors(t *testing.T) {
	t.Parallel()
	// i·Identity in the standard basis has no real Pauli representation.
	imagOp := linalg.CScale(1i, linalg.CIdentity(4))
	_, err := basis.Change(imagOp, basis.Std, basis.PauliProd, basis.MustStructure(2))
	assert.ErrorIs(t, err, basis.ErrImaginaryResidue)
	assert.ErrorIs(t, err, gsterr.ErrBasis)

	// Std target keeps complex entries without complaint.
	_, err = basis.Change(imagOp, basis.PauliProd, basis.Std, basis.MustStructure(2))
	assert.NoError(t, err)

	_, err = basis.Change(linalg.CIdentity(5), basis.Std, basis.GellMann, basis.Structure{})
	assert.ErrorIs(t, err, basis.ErrNotSquareDim)

	_, err = basis.Change(linalg.CIdentity(4), basis.Std, basis.GellMann, basis.MustStructure(3))
	assert.ErrorIs(t, err, basis.ErrShape)
	assert.ErrorIs(t, err, gsterr.ErrDimension)
}

func TestEmbedding_RoundTrip(t *testing.T) {
	t.Parallel()
	s := basis.MustStructure(2, 1)
	rng := rand.New(rand.NewSource(11))
	m := linalg.Complexify(randomDense(rng, 5, 5))

	full, err := basis.ExpandToEmbedding(m, s)
	require.NoError(t, err)
	r, _ := full.Dims()
	assert.Equal(t, 9, r)
	// (0,0)->0, (2,2)->8 of the 3×3 embedding
	assert.Equal(t, m.At(0, 4), full.At(0, 8))

	back, err := basis.ContractFromEmbedding(full, s)
	require.NoError(t, err)
	ok, err := linalg.CAllClose(back, m, 0, 0)
	require.NoError(t, err)
	assert.True(t, ok)

	same, err := basis.ExpandToEmbedding(m, basis.Structure{})
	require.NoError(t, err)
	ok, _ = linalg.CAllClose(same, m, 0, 0)
	assert.True(t, ok)

	_, err = basis.ExpandToEmbedding(linalg.CIdentity(4), s)
	assert.ErrorIs(t, err, basis.ErrShape)
}

func TestStateAndUnitaryHelpers(t *testing.T) {
	t.Parallel()
	v, err := basis.StateToDensityVector([]complex128{1, 0}, basis.PauliProd)
	require.NoError(t, err)
	s := 1 / math.Sqrt2
	assert.InDeltaSlice(t, []float64{s, 0, 0, s}, v, tol)

	m, err := basis.VectorToMatrix(v, basis.PauliProd)
	require.NoError(t, err)
	assert.InDelta(t, 1, real(m.At(0, 0)), tol)
	assert.InDelta(t, 0, real(m.At(1, 1)), tol)

	id, err := basis.UnitaryToProcessMatrix(linalg.CIdentity(2), basis.GellMann)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(id, linalg.Identity(4), tol))

	gx := basis.SingleQubitGate(math.Pi/4, 0, 0)
	want := mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 0, -1,
		0, 0, 1, 0,
	})
	assert.True(t, mat.EqualApprox(gx, want, 1e-10))

	_, err = basis.PauliRotation([]float64{0.1, 0.2})
	assert.ErrorIs(t, err, gsterr.ErrBasis)
	two, err := basis.PauliRotation(make([]float64, 15))
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(two, linalg.Identity(16), tol))
}

func TestJamiolkowskiIso(t *testing.T) {
	t.Parallel()
	// the identity channel maps to the maximally entangled projector |Φ⟩⟨Φ|
	want := mat.NewCDense(4, 4, nil)
	for _, i := range []int{0, 3} {
		for _, j := range []int{0, 3} {
			want.Set(i, j, 0.5)
		}
	}
	for _, kind := range []basis.Kind{basis.Std, basis.PauliProd, basis.GellMann} {
		j, err := basis.JamiolkowskiIso(linalg.Identity(4), kind, basis.Structure{})
		require.NoError(t, err, kind.String())
		ok, err := linalg.CAllClose(j, want, 0, tol)
		require.NoError(t, err)
		assert.True(t, ok, kind.String())
	}

	// a unitary channel keeps unit trace and a single unit eigenvalue
	j, err := basis.JamiolkowskiIso(basis.SingleQubitGate(0.3, -0.2, 0.7), basis.PauliProd, basis.MustStructure(2))
	require.NoError(t, err)
	assert.InDelta(t, 1, real(linalg.CTrace(j)), tol)
	norm, err := linalg.HermitianTraceNorm(j)
	require.NoError(t, err)
	assert.InDelta(t, 1, norm, tol)

	_, err = basis.JamiolkowskiIso(linalg.Identity(3), basis.Std, basis.Structure{})
	assert.ErrorIs(t, err, gsterr.ErrBasis)
}
