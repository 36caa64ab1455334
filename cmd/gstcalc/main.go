// SPDX-License-Identifier: MIT

// Command gstcalc evaluates gate-set models described in YAML: outcome
// probabilities and their derivatives, gauge-parameter counts, and basis
// transforms.
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
