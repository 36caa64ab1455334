// Package linalg holds the small set of dense linear-algebra kernels shared
// by the lvgst packages, all built on gonum.org/v1/gonum/mat.
//
// The package provides:
//
//   - Validators (ValidateNotNil, ValidateSquare, ...) returning tagged sentinels.
//   - Real helpers: Identity, Flatten/Unflatten, AllClose, MaxAbs.
//   - Complex helpers over *mat.CDense: CMul, CAdjoint, CKron, CInverse, ImagNorm,
//     HermitianTraceNorm.
//   - SVD-backed rank decisions: Rank, Nullspace, Pinv.
//
// Every rank decision takes an explicit tolerance; there is no hidden global
// numeric policy.
package linalg
