// Package operator defines parameterized gates and SPAM vectors.
//
// Each operator owns a raw value (a dim×dim gate matrix or a dim-length vector)
// and maps a subset of its elements onto a flat parameter vector:
//
//   - Full:   every element is a parameter.
//   - TP:     gates keep the first row at [1,0,…,0]; vectors keep their first
//     element fixed. The remaining elements are parameters.
//   - Static: no parameters.
//
// All parameterizations are affine, so DerivWrtParams is a constant 0/1
// selector and every second derivative vanishes. The calculator relies on this.
//
// The variant set is closed: Full, TP and Static for both Gate and SPAMVec.
package operator
