// SPDX-License-Identifier: MIT

package basis

import (
	"github.com/katalvlaran/lvgst/linalg"
	"gonum.org/v1/gonum/mat"
)

// JamiolkowskiIso returns the Choi matrix of the superoperator gate given in
// basis kind over structure s:
//
//	J = (1/d)·Σ_kl G(|k⟩⟨l|) ⊗ |k⟩⟨l|,   d = DMDim
//
// so a trace-preserving gate maps to a unit-trace J, and a completely
// positive one to a positive semidefinite J. Block structures are expanded
// to the full d²-dimensional space first. The zero structure is inferred
// from the gate size.
func JamiolkowskiIso(gate mat.Matrix, kind Kind, s Structure) (*mat.CDense, error) {
	if err := linalg.ValidateSquare(gate); err != nil {
		return nil, basisErrorf("JamiolkowskiIso", err)
	}
	n, _ := gate.Dims()
	rs, err := resolve(s, n)
	if err != nil {
		return nil, basisErrorf("JamiolkowskiIso", err)
	}
	std, err := Change(linalg.Complexify(gate), kind, Std, rs)
	if err != nil {
		return nil, basisErrorf("JamiolkowskiIso", err)
	}
	full, err := ExpandToEmbedding(std, rs)
	if err != nil {
		return nil, basisErrorf("JamiolkowskiIso", err)
	}

	// row-major: full[i·d+j, k·d+l] = ⟨i|G(|k⟩⟨l|)|j⟩ → J[i·d+k, j·d+l]
	d := rs.DMDim()
	inv := complex(1/float64(d), 0)
	choi := mat.NewCDense(d*d, d*d, nil)
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			for k := 0; k < d; k++ {
				for l := 0; l < d; l++ {
					choi.Set(i*d+k, j*d+l, inv*full.At(i*d+j, k*d+l))
				}
			}
		}
	}

	return choi, nil
}
