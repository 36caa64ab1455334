// SPDX-License-Identifier: MIT

package basis

import (
	"math"
	"strconv"
	"strings"
)

// Structure describes a density-matrix space as a direct sum of matrix blocks.
//
// A single block of dimension d is the space of all d×d matrices (dimension d²).
// Several blocks [d1..dk] describe block-diagonal d×d matrices with d = Σdi,
// spanning a space of dimension Σdi².
//
// The zero value means "no structure": operations that accept a Structure
// either infer a single block from the operand size or act as the identity.
type Structure struct {
	blocks []int
}

// NewStructure validates and returns a structure over the given block dimensions.
// A single argument describes a single-block space.
//
// Errors:
//   - ErrInvalidStructure for an empty list or any block dimension ≤ 0.
func NewStructure(blockDims ...int) (Structure, error) {
	if len(blockDims) == 0 {
		return Structure{}, basisErrorf("NewStructure", ErrInvalidStructure)
	}
	for _, d := range blockDims {
		if d <= 0 {
			return Structure{}, basisErrorf("NewStructure", ErrInvalidStructure)
		}
	}

	return Structure{blocks: append([]int(nil), blockDims...)}, nil
}

// MustStructure is NewStructure that panics on invalid input.
// Intended for package-level fixtures with literal dimensions.
func MustStructure(blockDims ...int) Structure {
	s, err := NewStructure(blockDims...)
	if err != nil {
		panic(err)
	}

	return s
}

// IsZero reports whether s is the "no structure" value.
func (s Structure) IsZero() bool { return len(s.blocks) == 0 }

// Blocks returns a copy of the block dimensions.
func (s Structure) Blocks() []int { return append([]int(nil), s.blocks...) }

// NumBlocks returns the number of diagonal blocks.
func (s Structure) NumBlocks() int { return len(s.blocks) }

// DMDim returns the dimension of the embedding density matrix, Σdi.
func (s Structure) DMDim() int {
	n := 0
	for _, d := range s.blocks {
		n += d
	}

	return n
}

// SpaceDim returns the dimension of the density-matrix space, Σdi².
func (s Structure) SpaceDim() int {
	n := 0
	for _, d := range s.blocks {
		n += d * d
	}

	return n
}

// Equal reports whether both structures have identical blocks.
func (s Structure) Equal(o Structure) bool {
	if len(s.blocks) != len(o.blocks) {
		return false
	}
	for i := range s.blocks {
		if s.blocks[i] != o.blocks[i] {
			return false
		}
	}

	return true
}

// String renders the structure as "4" or "[2,1]"; the zero value renders as "none".
func (s Structure) String() string {
	switch len(s.blocks) {
	case 0:
		return "none"
	case 1:
		return strconv.Itoa(s.blocks[0])
	}
	parts := make([]string, len(s.blocks))
	for i, d := range s.blocks {
		parts[i] = strconv.Itoa(d)
	}

	return "[" + strings.Join(parts, ",") + "]"
}

// resolve returns s, or a single-block structure inferred from an operand of
// space dimension n when s is the zero value.
func resolve(s Structure, n int) (Structure, error) {
	if !s.IsZero() {
		return s, nil
	}
	d := int(math.Round(math.Sqrt(float64(n))))
	if d <= 0 || d*d != n {
		return Structure{}, ErrNotSquareDim
	}

	return Structure{blocks: []int{d}}, nil
}
