// Package lvgst is an in-memory gate-set calculus engine for quantum Gate
// Set Tomography: parameterized gates and SPAM vectors, gate-string
// products with their first and second parameter derivatives, outcome
// probabilities, and gauge analysis.
//
// 🚀 What is lvgst?
//
//	A pure-Go numerical core built on gonum that brings together:
//		• Parameterized operators: Full, TP and Static gates and SPAM vectors
//		• Gate sets: ordered gates, preps, effects and SPAM labels over one
//		  flat parameter vector
//		• Products: scaled gate-string products, d/dθ and d²/dθ²
//		• Probabilities: p = Eᵀ·G·ρ, with a remainder label resolved as a complement
//		• Bulk evaluation: shared-prefix evaluation trees split across workers
//		• Gauge analysis: gauge/non-gauge parameter projectors and ranks
//
// ✨ Why choose lvgst?
//
//   - Deterministic: a Calculator snapshots its gate set and never mutates it
//   - Overflow-safe: long products are renormalized with a tracked log scale
//   - Concurrent: bulk calls fan out over errgroup with a bounded worker count
//   - Observable: log/slog records and optional Prometheus metrics
//
// Everything is organized under these subpackages:
//
//	basis/        Pauli-product, Gell-Mann and standard bases, basis changes
//	operator/     parameterized gates and SPAM vectors
//	gateset/      the GateSet container and its parameter vector
//	gatestring/   immutable gate label sequences
//	evaltree/     shared-prefix evaluation trees and their splits
//	calc/         products, probabilities, derivatives and bulk evaluation
//	gauge/        gauge and non-gauge projectors
//	stdmodels/    ready-made single-qubit XYI gate sets
//	config/       YAML model descriptions and their construction
//	linalg/       dense-matrix helpers and validators
//	gsterr/       shared error classes
//	cmd/gstcalc/  command-line front end
//
// Quick example (one qubit, X(π/2) twice):
//
//	gs := stdmodels.MustStd1QXYI(operator.TP)
//	c, _ := calc.New(gs)
//	p, _ := c.Probs(gatestring.New("Gx", "Gx"), nil)
//	// p["plus"] ≈ 1, p["minus"] ≈ 0
//
//	go get github.com/katalvlaran/lvgst
package lvgst
