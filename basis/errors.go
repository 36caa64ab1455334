// SPDX-License-Identifier: MIT

package basis

import (
	"fmt"

	"github.com/katalvlaran/lvgst/gsterr"
)

var (
	// ErrInvalidStructure is returned for an empty block list or a non-positive block dimension.
	ErrInvalidStructure = fmt.Errorf("basis: invalid block structure: %w", gsterr.ErrBasis)

	// ErrUnknownKind is returned when a basis name is not one of "std", "pp", "gm".
	ErrUnknownKind = fmt.Errorf("basis: unknown basis kind: %w", gsterr.ErrBasis)

	// ErrNotPowerOfTwo is returned when a Pauli-product basis is requested for
	// a matrix dimension that is not a power of two.
	ErrNotPowerOfTwo = fmt.Errorf("basis: dimension is not a power of two: %w", gsterr.ErrBasis)

	// ErrNotSquareDim is returned when a structure has to be inferred from an
	// operand whose size is not a perfect square.
	ErrNotSquareDim = fmt.Errorf("basis: operand size is not a perfect square: %w", gsterr.ErrBasis)

	// ErrImaginaryResidue is returned when a conversion into a real basis
	// leaves an imaginary part above ImagTol.
	ErrImaginaryResidue = fmt.Errorf("basis: non-zero imaginary part: %w", gsterr.ErrBasis)

	// ErrShape is returned when an operand is neither a square operator nor a
	// column vector of the structure's space dimension.
	ErrShape = fmt.Errorf("basis: operand shape does not match structure: %w", gsterr.ErrDimension)
)

func basisErrorf(tag string, err error) error {
	return gsterr.Errorf(tag, err)
}
