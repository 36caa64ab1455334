// SPDX-License-Identifier: MIT

// Package stdmodels provides ready-made target models.
package stdmodels

import (
	"math"

	"github.com/katalvlaran/lvgst/basis"
	"github.com/katalvlaran/lvgst/gateset"
	"github.com/katalvlaran/lvgst/linalg"
	"github.com/katalvlaran/lvgst/operator"
)

// Labels of the standard single-qubit model.
const (
	Rho0  = "rho0"
	E0    = "E0"
	Gi    = "Gi"
	Gx    = "Gx"
	Gy    = "Gy"
	Plus  = "plus"
	Minus = "minus"
)

// Std1QXYI returns the single-qubit target model in the Pauli-product basis:
// preparation |0⟩, effect |1⟩⟨1|, gates Gi (idle), Gx and Gy (π/2 rotations
// about X and Y), and SPAM labels "plus" = (rho0, E0) and
// "minus" = (rho0, remainder).
//
// Gates and preparations use kind; effects use Full when kind is TP.
func Std1QXYI(kind operator.Kind, opts ...gateset.Option) (*gateset.GateSet, error) {
	gs := gateset.New(append([]gateset.Option{gateset.WithDefaultParam(kind)}, opts...)...)
	r := 1 / math.Sqrt2

	steps := []func() error{
		func() error { return gs.SetPrepVector(Rho0, []float64{r, 0, 0, r}) },
		func() error { return gs.SetEffectVector(E0, []float64{r, 0, 0, -r}) },
		func() error { return gs.SetIdentity([]float64{math.Sqrt2, 0, 0, 0}) },
		func() error { return gs.SetGateMatrix(Gi, linalg.Identity(4)) },
		func() error { return gs.SetGateMatrix(Gx, basis.SingleQubitGate(math.Pi/4, 0, 0)) },
		func() error { return gs.SetGateMatrix(Gy, basis.SingleQubitGate(0, math.Pi/4, 0)) },
		func() error { return gs.AddSpamLabel(Plus, Rho0, E0) },
		func() error { return gs.AddSpamLabel(Minus, Rho0, gs.RemainderLabel()) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	gs.SetBasis(basis.PauliProd.String(), basis.MustStructure(2))

	return gs, nil
}

// MustStd1QXYI is Std1QXYI that panics on error.
func MustStd1QXYI(kind operator.Kind, opts ...gateset.Option) *gateset.GateSet {
	gs, err := Std1QXYI(kind, opts...)
	if err != nil {
		panic(err)
	}

	return gs
}
