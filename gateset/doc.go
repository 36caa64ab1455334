// Package gateset implements GateSet, the model container of lvgst.
//
// A GateSet holds three ordered label→operator maps (state preparations,
// measurement effects, gates), an optional static identity vector used to
// build the complement ("remainder") effect, the SPAM-label definitions that
// pair a preparation with an effect, and basis metadata.
//
// The first operator stored fixes the model dimension; every later vector must
// have that length and every gate that size.
//
// Vectorization order is fixed: preparations, then effects, then gates, each in
// insertion order. VectorOffsets and OrderedOffsets expose the half-open
// parameter range owned by every label; DerivWrtParams stacks the per-operator
// derivatives block-diagonally in the same order.
//
// Errors:
//
//	ErrUnknownLabel    - label not present in the model.
//	ErrDimMismatch     - operator size differs from the fixed model dimension.
//	ErrReservedLabel   - the remainder label was used as an operator name.
//	ErrStrictIndexing  - generic Set/Get used on a strictly indexed model.
//	ErrParamCount      - parameter vector of the wrong length.
//	ErrRotation        - rotation angles or model dimension unfit for a Pauli rotation.
//	ErrUnknownBasis    - the operation needs a recorded basis.
//
// Concurrency: all methods are safe for concurrent use; operators returned by
// accessors are the stored instances and must not be mutated concurrently.
package gateset
