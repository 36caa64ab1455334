// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/katalvlaran/lvgst/config"
	"github.com/katalvlaran/lvgst/gateset"
	"github.com/spf13/cobra"
)

// rootOptions are the flags shared by every sub-command.
type rootOptions struct {
	modelPath string
	logLevel  string
	logger    *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "gstcalc",
		Short: "Gate-set calculus from the command line",
		Long: `gstcalc loads a gate-set model from YAML and evaluates it.

Sub-commands:
  probs  - outcome probabilities (and derivatives) of gate strings
  gauge  - gauge and non-gauge parameter counts of the model
  basis  - transform matrix between the standard basis and a named basis`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
				return fmt.Errorf("--log-level %q: %w", opts.logLevel, err)
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			return nil
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.modelPath, "model", "m", "model.yaml", "YAML model file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "debug, info, warn or error")

	cmd.AddCommand(newProbsCmd(opts), newGaugeCmd(opts), newBasisCmd(opts))

	return cmd
}

// load reads the model file and builds its gate set.
func (o *rootOptions) load() (*config.Model, *gateset.GateSet, error) {
	m, err := config.Load(o.modelPath)
	if err != nil {
		return nil, nil, err
	}
	gs, err := m.Build(gateset.WithLogger(o.logger))
	if err != nil {
		return nil, nil, err
	}
	o.logger.Info("model loaded",
		slog.String("path", o.modelPath),
		slog.Int("dim", gs.Dim()),
		slog.Int("params", gs.NumParams()),
		slog.String("gates", strings.Join(gs.GateLabels(), ",")))

	return m, gs, nil
}
