// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/katalvlaran/lvgst/calc"
	"github.com/katalvlaran/lvgst/evaltree"
	"github.com/katalvlaran/lvgst/gatestring"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func newProbsCmd(root *rootOptions) *cobra.Command {
	var (
		strs    []string
		workers int
		derivs  bool
	)
	cmd := &cobra.Command{
		Use:   "probs",
		Short: "Print outcome probabilities of gate strings",
		Long: `Evaluate every SPAM label's probability for each gate string.

Strings come from --string flags, or from the model file's "strings" list.
A string is written as comma- or space-separated labels, "{}" for the empty
string, or "(Gx,Gy)^3" for a repeated germ.

Examples:
  gstcalc probs -m model.yaml --string Gx --string "(Gx,Gy)^4"
  gstcalc probs -m model.yaml --derivs --workers 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, gs, err := root.load()
			if err != nil {
				return err
			}
			opts := m.CalcOptions(calc.WithLogger(root.logger))
			if workers > 0 {
				opts = append(opts, calc.WithWorkers(workers))
			}
			c, err := calc.New(gs, opts...)
			if err != nil {
				return err
			}
			seqs := m.GateStrings()
			if len(strs) > 0 {
				seqs = make([]gatestring.GateString, len(strs))
				for i, s := range strs {
					seqs[i] = gatestring.Parse(s)
				}
			}
			if len(seqs) == 0 {
				return fmt.Errorf("no gate strings: pass --string or list them in %s", root.modelPath)
			}
			tr, err := evaltree.Build(c.GateLabels(), seqs)
			if err != nil {
				return err
			}
			probs, err := c.BulkProbs(cmd.Context(), tr, m.Clip())
			if err != nil {
				return err
			}
			var grads map[string]*mat.Dense
			if derivs {
				if grads, err = c.BulkDProbs(cmd.Context(), tr); err != nil {
					return err
				}
			}

			return writeProbs(cmd, c.SpamLabels(), seqs, probs, grads)
		},
	}
	cmd.Flags().StringArrayVarP(&strs, "string", "s", nil, "gate string to evaluate (repeatable)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "worker goroutines (overrides the model file)")
	cmd.Flags().BoolVar(&derivs, "derivs", false, "also print the gradient norm of each probability")

	return cmd
}

func writeProbs(cmd *cobra.Command, labels []string, seqs []gatestring.GateString, probs map[string][]float64, grads map[string]*mat.Dense) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	header := append([]string{"string"}, labels...)
	if grads != nil {
		for _, l := range labels {
			header = append(header, "grad("+l+")")
		}
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for k, s := range seqs {
		row := []string{s.String()}
		for _, l := range labels {
			row = append(row, fmt.Sprintf("%.6f", probs[l][k]))
		}
		if grads != nil {
			for _, l := range labels {
				norm := 0.0
				if g := grads[l]; g != nil {
					norm = floats.Norm(mat.Row(nil, k, g), 2)
				}
				row = append(row, fmt.Sprintf("%.4g", norm))
			}
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	return w.Flush()
}
