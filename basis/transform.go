// SPDX-License-Identifier: MIT

package basis

import (
	"github.com/katalvlaran/lvgst/linalg"
	"gonum.org/v1/gonum/mat"
)

// ImagTol is the largest Frobenius norm of the imaginary part tolerated when
// converting into the (real) Pauli-product or Gell-Mann basis.
const ImagTol = 1e-8

// singleMatrices returns the block-local normalized basis for one block of dimension d.
func singleMatrices(kind Kind, d int) ([]*mat.CDense, error) {
	switch kind {
	case Std:
		return MatrixUnitBasis(Structure{blocks: []int{d}})
	case GellMann:
		return normalizedGellMannSingle(d)
	case PauliProd:
		return PauliProductBasis(d)
	}

	return nil, ErrUnknownKind
}

// TransformMatrix returns the SpaceDim×SpaceDim matrix converting coordinates
// in the given basis to the standard basis. It is block-diagonal with one
// block per structure block; the columns of each block are the flattened
// (row-major) block-local normalized basis matrices.
//
// Errors:
//   - ErrInvalidStructure for the zero structure.
//   - ErrNotPowerOfTwo for a Pauli-product kind over a non power-of-two block.
func TransformMatrix(kind Kind, s Structure) (*mat.CDense, error) {
	if s.IsZero() {
		return nil, basisErrorf("TransformMatrix", ErrInvalidStructure)
	}
	n := s.SpaceDim()
	t := mat.NewCDense(n, n, nil)
	start := 0
	for _, d := range s.blocks {
		mxs, err := singleMatrices(kind, d)
		if err != nil {
			return nil, basisErrorf("TransformMatrix", err)
		}
		for j, m := range mxs {
			for i, z := range linalg.CFlatten(m) {
				t.Set(start+i, start+j, z)
			}
		}
		start += d * d
	}

	return t, nil
}

// isVector reports whether m is an n×1 column with n > 1. A 1×1 operand is
// treated as an operator; both readings coincide for a one-dimensional space.
func isVector(m mat.CMatrix) bool {
	r, c := m.Dims()
	return c == 1 && r > 1
}

// toStd converts m from kind to the standard basis: T·M·T⁻¹ or T·v.
func toStd(m mat.CMatrix, kind Kind, s Structure) (*mat.CDense, error) {
	if kind == Std {
		return linalg.CClone(m), nil
	}
	t, err := TransformMatrix(kind, s)
	if err != nil {
		return nil, err
	}
	if isVector(m) {
		return linalg.CMul(t, m)
	}
	tinv, err := linalg.CInverse(t)
	if err != nil {
		return nil, err
	}
	tm, err := linalg.CMul(t, m)
	if err != nil {
		return nil, err
	}

	return linalg.CMul(tm, tinv)
}

// fromStd converts m from the standard basis to kind: T⁻¹·M·T or T⁻¹·v.
func fromStd(m mat.CMatrix, kind Kind, s Structure) (*mat.CDense, error) {
	if kind == Std {
		return linalg.CClone(m), nil
	}
	t, err := TransformMatrix(kind, s)
	if err != nil {
		return nil, err
	}
	tinv, err := linalg.CInverse(t)
	if err != nil {
		return nil, err
	}

	var out *mat.CDense
	if isVector(m) {
		out, err = linalg.CMul(tinv, m)
	} else {
		var tm *mat.CDense
		if tm, err = linalg.CMul(tinv, m); err == nil {
			out, err = linalg.CMul(tm, t)
		}
	}
	if err != nil {
		return nil, err
	}
	if linalg.ImagNorm(out) > ImagTol {
		return nil, ErrImaginaryResidue
	}

	return out, nil
}

// Change converts an operator (square SpaceDim×SpaceDim) or a column vector
// (SpaceDim×1) from one basis to another over the structure s.
//
// Implementation:
//   - Stage 1: resolve s (the zero structure infers a single block of √n).
//   - Stage 2: convert to the standard basis (M ↦ T·M·T⁻¹, v ↦ T·v).
//   - Stage 3: convert to the target basis (M ↦ T⁻¹·M·T, v ↦ T⁻¹·v).
//
// Errors:
//   - ErrShape when m matches neither shape.
//   - ErrImaginaryResidue when the target is PauliProd/GellMann and the result's
//     imaginary part exceeds ImagTol in Frobenius norm.
//   - Structure errors from TransformMatrix.
//
// Notes:
//   - Results always come back as complex storage; ChangeReal returns the real part.
func Change(m mat.CMatrix, from, to Kind, s Structure) (*mat.CDense, error) {
	if m == nil {
		return nil, basisErrorf("Change", linalg.ErrNilMatrix)
	}
	r, c := m.Dims()
	rs, err := resolve(s, r)
	if err != nil {
		return nil, basisErrorf("Change", err)
	}
	if r != rs.SpaceDim() || (c != r && c != 1) {
		return nil, basisErrorf("Change", ErrShape)
	}

	std, err := toStd(m, from, rs)
	if err != nil {
		return nil, basisErrorf("Change", err)
	}
	out, err := fromStd(std, to, rs)
	if err != nil {
		return nil, basisErrorf("Change", err)
	}

	return out, nil
}

// ChangeReal converts a real operator or column vector between bases and
// returns the real part. Converting into Std is allowed only when the
// standard-basis result is real within ImagTol.
func ChangeReal(m mat.Matrix, from, to Kind, s Structure) (*mat.Dense, error) {
	if err := linalg.ValidateNotNil(m); err != nil {
		return nil, basisErrorf("ChangeReal", err)
	}
	out, err := Change(linalg.Complexify(m), from, to, s)
	if err != nil {
		return nil, err
	}
	if linalg.ImagNorm(out) > ImagTol {
		return nil, basisErrorf("ChangeReal", ErrImaginaryResidue)
	}

	return linalg.RealPart(out), nil
}
