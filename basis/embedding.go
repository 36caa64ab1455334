// SPDX-License-Identifier: MIT

package basis

import (
	"github.com/katalvlaran/lvgst/linalg"
	"gonum.org/v1/gonum/mat"
)

// indexMap maps each row/column of a direct-sum standard-basis operator
// (SpaceDim) onto the row/column of the unrestricted operator (DMDim²): the
// (i,j) element of block-local position k lands at DMDim·i + j.
func indexMap(s Structure) []int {
	dm := s.DMDim()
	idx := make([]int, 0, s.SpaceDim())
	start := 0
	for _, d := range s.blocks {
		for i := start; i < start+d; i++ {
			for j := start; j < start+d; j++ {
				idx = append(idx, dm*i+j)
			}
		}
		start += d
	}

	return idx
}

// ExpandToEmbedding lifts a SpaceDim×SpaceDim standard-basis operator of a
// block-structured space into the DMDim²×DMDim² operator of the embedding
// space. Entries outside the block structure are zero.
//
// The zero structure or a single block returns a copy of m unchanged.
func ExpandToEmbedding(m mat.CMatrix, s Structure) (*mat.CDense, error) {
	if err := linalg.ValidateCSquare(m); err != nil {
		return nil, basisErrorf("ExpandToEmbedding", err)
	}
	if s.NumBlocks() <= 1 {
		return linalg.CClone(m), nil
	}
	n, _ := m.Dims()
	if n != s.SpaceDim() {
		return nil, basisErrorf("ExpandToEmbedding", ErrShape)
	}

	idx := indexMap(s)
	full := s.DMDim() * s.DMDim()
	out := mat.NewCDense(full, full, nil)
	for i, fi := range idx {
		for j, fj := range idx {
			out.Set(fi, fj, m.At(i, j))
		}
	}

	return out, nil
}

// ContractFromEmbedding is the inverse of ExpandToEmbedding: it keeps only the
// rows and columns of a DMDim²×DMDim² operator that belong to the block structure.
func ContractFromEmbedding(m mat.CMatrix, s Structure) (*mat.CDense, error) {
	if err := linalg.ValidateCSquare(m); err != nil {
		return nil, basisErrorf("ContractFromEmbedding", err)
	}
	if s.NumBlocks() <= 1 {
		return linalg.CClone(m), nil
	}
	n, _ := m.Dims()
	if n != s.DMDim()*s.DMDim() {
		return nil, basisErrorf("ContractFromEmbedding", ErrShape)
	}

	idx := indexMap(s)
	out := mat.NewCDense(len(idx), len(idx), nil)
	for i, fi := range idx {
		for j, fj := range idx {
			out.Set(i, j, m.At(fi, fj))
		}
	}

	return out, nil
}
