// SPDX-License-Identifier: MIT

package basis

import "strings"

// Kind names a basis of a density-matrix space.
type Kind int

const (
	// Std is the matrix-unit ("standard") basis.
	Std Kind = iota
	// PauliProd is the normalized Pauli-product basis (power-of-two blocks only).
	PauliProd
	// GellMann is the normalized generalized Gell-Mann basis.
	GellMann
)

// String returns the short name used in configuration: "std", "pp" or "gm".
func (k Kind) String() string {
	switch k {
	case Std:
		return "std"
	case PauliProd:
		return "pp"
	case GellMann:
		return "gm"
	default:
		return "unknown"
	}
}

// ParseKind maps "std", "pp" or "gm" (case-insensitive) to a Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "std":
		return Std, nil
	case "pp":
		return PauliProd, nil
	case "gm":
		return GellMann, nil
	}

	return Std, basisErrorf("ParseKind("+name+")", ErrUnknownKind)
}
