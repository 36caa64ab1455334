// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/katalvlaran/lvgst/gauge"
	"github.com/spf13/cobra"
)

func newGaugeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "gauge",
		Short: "Print gauge and non-gauge parameter counts",
		Long: `Build the non-gauge projector of the model and report how many of its
parameters are gauge directions. Tolerances come from the model file's
"gauge" section.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, gs, err := root.load()
			if err != nil {
				return err
			}
			res, err := gauge.Compute(gs, m.GaugeOptions(gauge.WithLogger(root.logger))...)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "params=%d gauge=%d non-gauge=%d\n",
				gs.NumParams(), res.GaugeRank, res.NonGaugeRank)

			return err
		},
	}
}
