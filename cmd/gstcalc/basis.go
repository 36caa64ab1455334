// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/lvgst/basis"
	"github.com/spf13/cobra"
)

func newBasisCmd(_ *rootOptions) *cobra.Command {
	var blocks []int
	cmd := &cobra.Command{
		Use:   "basis KIND [DIM]",
		Short: "Print the transform matrix of a basis",
		Long: `Print the matrix whose columns are the flattened basis matrices of KIND
("std", "pp" or "gm") for a density matrix of dimension DIM, or for the
block structure given with --blocks.

Examples:
  gstcalc basis pp 2
  gstcalc basis gm --blocks 2,1`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := basis.ParseKind(args[0])
			if err != nil {
				return err
			}
			dims := blocks
			if len(args) == 2 {
				d, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("DIM %q: %w", args[1], err)
				}
				dims = []int{d}
			}
			if len(dims) == 0 {
				return fmt.Errorf("give DIM or --blocks")
			}
			s, err := basis.NewStructure(dims...)
			if err != nil {
				return err
			}
			t, err := basis.TransformMatrix(kind, s)
			if err != nil {
				return err
			}
			r, c := t.Dims()
			out := cmd.OutOrStdout()
			for i := 0; i < r; i++ {
				cells := make([]string, c)
				for j := 0; j < c; j++ {
					cells[j] = formatComplex(t.At(i, j))
				}
				if _, err := fmt.Fprintln(out, strings.Join(cells, " ")); err != nil {
					return err
				}
			}

			return nil
		},
	}
	cmd.Flags().IntSliceVar(&blocks, "blocks", nil, "block dimensions of the density-matrix space")

	return cmd
}

func formatComplex(z complex128) string {
	re, im := real(z), imag(z)
	switch {
	case im == 0:
		return fmt.Sprintf("%8.4f", re)
	case re == 0:
		return fmt.Sprintf("%7.4fi", im)
	default:
		return fmt.Sprintf("%.4f%+.4fi", re, im)
	}
}
