// Package calc is the gate-set calculator: products of gate strings, their
// first and second derivatives with respect to the model parameters, and the
// SPAM-label probabilities built from them.
//
// Conventions:
//
//   - The first label of a gate string is applied first, so the product of
//     (g1, g2, …, gn) is Gn·…·G2·G1.
//   - Flattened derivatives index matrix elements row-major: element (i, j)
//     of a dim×dim product is entry i·dim+j.
//   - A probability is Eᵀ·P·ρ for the SPAM label's (prep, effect) pair. The
//     remainder effect is identity − Σ effects; the (remainder, remainder)
//     label is one minus the sum of every other label.
//
// Single-string methods evaluate one string directly. Bulk methods walk an
// evaltree.Tree bottom-up once, so every shared sub-product, derivative and
// Hessian is computed a single time, and can spread the work over sub-trees
// (WithWorkers) and parameter-column blocks (WithWrtBlockSize).
//
// Long products are kept finite by scaling: gates are pre-divided by
// max(‖G‖_F, 1) and a running product whose largest element drops below
// 1e-100 is renormalized, with the accumulated factor tracked in log space.
//
// A Calculator is an immutable snapshot of a gateset.GateSet and is safe for
// concurrent use.
package calc
