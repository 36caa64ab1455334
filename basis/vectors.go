// SPDX-License-Identifier: MIT

package basis

import (
	"math"
	"math/cmplx"

	"github.com/katalvlaran/lvgst/linalg"
	"gonum.org/v1/gonum/mat"
)

// MatrixToVector expands a d×d standard-basis matrix into the coordinates
// c_i = Tr(B_i†·m) of the given single-block basis.
//
// Errors:
//   - ErrImaginaryResidue if any coordinate has an imaginary part above ImagTol
//     (always the case for non-Hermitian input in PauliProd/GellMann).
func MatrixToVector(m mat.CMatrix, kind Kind) ([]float64, error) {
	if err := linalg.ValidateCSquare(m); err != nil {
		return nil, basisErrorf("MatrixToVector", err)
	}
	d, _ := m.Dims()
	mxs, err := singleMatrices(kind, d)
	if err != nil {
		return nil, basisErrorf("MatrixToVector", err)
	}

	v := make([]float64, len(mxs))
	for i, b := range mxs {
		p, err := linalg.CMul(linalg.CAdjoint(b), m)
		if err != nil {
			return nil, basisErrorf("MatrixToVector", err)
		}
		tr := linalg.CTrace(p)
		if math.Abs(imag(tr)) > ImagTol {
			return nil, basisErrorf("MatrixToVector", ErrImaginaryResidue)
		}
		v[i] = real(tr)
	}

	return v, nil
}

// VectorToMatrix builds Σ v_i·B_i for a single-block basis whose space
// dimension is len(v).
func VectorToMatrix(v []float64, kind Kind) (*mat.CDense, error) {
	s, err := resolve(Structure{}, len(v))
	if err != nil {
		return nil, basisErrorf("VectorToMatrix", err)
	}
	d := s.blocks[0]
	mxs, err := singleMatrices(kind, d)
	if err != nil {
		return nil, basisErrorf("VectorToMatrix", err)
	}

	out := mat.NewCDense(d, d, nil)
	for k, b := range mxs {
		if v[k] == 0 {
			continue
		}
		for i := 0; i < d; i++ {
			for j := 0; j < d; j++ {
				out.Set(i, j, out.At(i, j)+complex(v[k], 0)*b.At(i, j))
			}
		}
	}

	return out, nil
}

// StateToDensityVector returns the coordinates of the pure-state density
// matrix |ψ⟩⟨ψ| in the given basis.
func StateToDensityVector(psi []complex128, kind Kind) ([]float64, error) {
	d := len(psi)
	if d == 0 {
		return nil, basisErrorf("StateToDensityVector", ErrShape)
	}
	rho := mat.NewCDense(d, d, nil)
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			rho.Set(i, j, psi[i]*cmplx.Conj(psi[j]))
		}
	}

	return MatrixToVector(rho, kind)
}

// UnitaryToProcessMatrix returns the superoperator ρ ↦ UρU† in the given
// single-block basis: op[i][j] = Tr(B_i†·U·B_j·U†).
//
// Errors:
//   - ErrImaginaryResidue when an entry is not real within ImagTol.
func UnitaryToProcessMatrix(u mat.CMatrix, kind Kind) (*mat.Dense, error) {
	if err := linalg.ValidateCSquare(u); err != nil {
		return nil, basisErrorf("UnitaryToProcessMatrix", err)
	}
	d, _ := u.Dims()
	mxs, err := singleMatrices(kind, d)
	if err != nil {
		return nil, basisErrorf("UnitaryToProcessMatrix", err)
	}
	udag := linalg.CAdjoint(u)

	// images[j] = U·B_j·U†
	images := make([]*mat.CDense, len(mxs))
	for j, b := range mxs {
		ub, err := linalg.CMul(u, b)
		if err != nil {
			return nil, basisErrorf("UnitaryToProcessMatrix", err)
		}
		if images[j], err = linalg.CMul(ub, udag); err != nil {
			return nil, basisErrorf("UnitaryToProcessMatrix", err)
		}
	}

	n := len(mxs)
	op := mat.NewDense(n, n, nil)
	for i, b := range mxs {
		bdag := linalg.CAdjoint(b)
		for j := range images {
			p, err := linalg.CMul(bdag, images[j])
			if err != nil {
				return nil, basisErrorf("UnitaryToProcessMatrix", err)
			}
			tr := linalg.CTrace(p)
			if math.Abs(imag(tr)) > ImagTol {
				return nil, basisErrorf("UnitaryToProcessMatrix", ErrImaginaryResidue)
			}
			op.Set(i, j, real(tr))
		}
	}

	return op, nil
}

// PauliRotation returns the Pauli-product process matrix of
// U = exp(-i·Σ_k h_k·P_k), where P_k runs over the d²-1 non-identity
// (unnormalized) Pauli products in basis order. len(h) must be d²-1 for a
// power-of-two d: 3 for one qubit, 15 for two.
func PauliRotation(h []float64) (*mat.Dense, error) {
	s, err := resolve(Structure{}, len(h)+1)
	if err != nil {
		return nil, basisErrorf("PauliRotation", err)
	}
	d := s.blocks[0]
	mxs, err := PauliProductBasis(d)
	if err != nil {
		return nil, basisErrorf("PauliRotation", err)
	}

	// normalized products carry 1/√d; restore the unit-eigenvalue generators.
	unnorm := complex(math.Sqrt(float64(d)), 0)
	gen := mat.NewCDense(d, d, nil)
	for k, hk := range h {
		if hk == 0 {
			continue
		}
		p := mxs[k+1]
		for i := 0; i < d; i++ {
			for j := 0; j < d; j++ {
				gen.Set(i, j, gen.At(i, j)+complex(0, -hk)*unnorm*p.At(i, j))
			}
		}
	}

	u, err := linalg.CExpm(gen)
	if err != nil {
		return nil, basisErrorf("PauliRotation", err)
	}

	return UnitaryToProcessMatrix(u, PauliProd)
}

// SingleQubitGate returns the 4×4 Pauli-product process matrix of
// exp(-i(hx·X + hy·Y + hz·Z)). A rotation by θ about X is SingleQubitGate(θ/2, 0, 0).
func SingleQubitGate(hx, hy, hz float64) *mat.Dense {
	op, err := PauliRotation([]float64{hx, hy, hz})
	if err != nil {
		// lengths are fixed; unreachable
		panic(err)
	}

	return op
}
