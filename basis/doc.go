// Package basis represents operators on density-matrix spaces in three
// orthonormal bases and converts between them.
//
// The package provides:
//
//   - Structure: a density-matrix space as a direct sum of matrix blocks.
//   - Basis matrices: MatrixUnitBasis, GellMannBasis, NormalizedGellMannBasis,
//     PauliProductBasis, and Matrices as a Kind dispatcher.
//   - TransformMatrix and Change/ChangeReal for operators and column vectors.
//   - ExpandToEmbedding / ContractFromEmbedding between a block-restricted
//     space and its full embedding space.
//   - State, unitary and rotation helpers producing real process matrices.
//
// All basis matrices come back as *mat.CDense in the standard basis of the
// embedding density matrix. Conversions into the Pauli-product or Gell-Mann
// basis are required to be real; an imaginary residue above ImagTol fails
// with ErrImaginaryResidue.
package basis
