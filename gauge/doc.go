// Package gauge computes the split of a model's parameter space into gauge
// directions (changes reproducible by a similarity transformation of every
// operator, invisible to any probability) and the complementary non-gauge
// directions.
//
// Compute follows the nullspace construction: the gauge generators dG are
// intersected with the parameter directions dP through the right nullspace of
// [dP | dG], and the resulting generator span is turned into an orthogonal
// projector with a pseudo-inverse. Rank postconditions guard the result; a
// failed check is a numerical degeneracy, reported as a warning by default.
package gauge
