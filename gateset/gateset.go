// SPDX-License-Identifier: MIT

package gateset

import (
	"log/slog"
	"sync"

	"github.com/katalvlaran/lvgst/basis"
	"github.com/katalvlaran/lvgst/operator"
	"gonum.org/v1/gonum/mat"
)

// GateSet is the model container: preparations, effects, gates, an optional
// identity vector and SPAM-label definitions over a fixed dimension.
type GateSet struct {
	mu sync.RWMutex // guards every field below

	preps    ordered[operator.SPAMVec]
	effects  ordered[operator.SPAMVec]
	gates    ordered[operator.Gate]
	identity operator.SPAMVec // nil when absent

	spam ordered[SpamDef]

	dim         int // 0 until the first assignment
	basisName   string
	basisStruct basis.Structure

	// Configuration
	defaultParam operator.Kind
	remainder    string
	strict       bool
	logger       *slog.Logger
}

// New returns an empty model.
func New(opts ...Option) *GateSet {
	gs := &GateSet{
		preps:        newOrdered[operator.SPAMVec](),
		effects:      newOrdered[operator.SPAMVec](),
		gates:        newOrdered[operator.Gate](),
		spam:         newOrdered[SpamDef](),
		basisName:    DefaultBasisName,
		defaultParam: DefaultParam,
		remainder:    DefaultRemainderLabel,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(gs)
	}

	return gs
}

// options reproduces the configuration of gs, for derived models.
func (gs *GateSet) options() []Option {
	opts := []Option{
		WithDefaultParam(gs.defaultParam),
		WithRemainderLabel(gs.remainder),
		WithLogger(gs.logger),
	}
	if gs.strict {
		opts = append(opts, WithStrictIndexing())
	}

	return opts
}

// Dim returns the model dimension, or 0 while the model is empty.
func (gs *GateSet) Dim() int {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	return gs.dim
}

// DefaultParameterization returns the kind used by the raw-value setters.
func (gs *GateSet) DefaultParameterization() operator.Kind {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	return gs.defaultParam
}

// RemainderLabel returns the reserved complement label.
func (gs *GateSet) RemainderLabel() string {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	return gs.remainder
}

// checkDim fixes the dimension on first use and rejects mismatches afterwards.
// Caller holds the write lock.
func (gs *GateSet) checkDim(tag string, d int) error {
	if gs.dim == 0 {
		gs.dim = d
		gs.logger.Debug("gateset: dimension fixed", "dim", d)

		return nil
	}
	if d != gs.dim {
		return gatesetErrorf(tag, ErrDimMismatch)
	}

	return nil
}

func (gs *GateSet) checkName(tag, name string) error {
	if name == gs.remainder {
		return gatesetErrorf(tag, ErrReservedLabel)
	}

	return nil
}

// SetPrep stores a state preparation under name.
func (gs *GateSet) SetPrep(name string, v operator.SPAMVec) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	return gs.setPrep(name, v)
}

func (gs *GateSet) setPrep(name string, v operator.SPAMVec) error {
	if err := gs.checkName("SetPrep("+name+")", name); err != nil {
		return err
	}
	if err := gs.checkDim("SetPrep("+name+")", v.Dim()); err != nil {
		return err
	}
	gs.preps.set(name, v)

	return nil
}

// SetEffect stores a measurement effect under name.
func (gs *GateSet) SetEffect(name string, v operator.SPAMVec) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	return gs.setEffect(name, v)
}

func (gs *GateSet) setEffect(name string, v operator.SPAMVec) error {
	if err := gs.checkName("SetEffect("+name+")", name); err != nil {
		return err
	}
	if err := gs.checkDim("SetEffect("+name+")", v.Dim()); err != nil {
		return err
	}
	gs.effects.set(name, v)

	return nil
}

// SetGate stores a gate under name.
func (gs *GateSet) SetGate(name string, g operator.Gate) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	return gs.setGate(name, g)
}

func (gs *GateSet) setGate(name string, g operator.Gate) error {
	if err := gs.checkName("SetGate("+name+")", name); err != nil {
		return err
	}
	if err := gs.checkDim("SetGate("+name+")", g.Dim()); err != nil {
		return err
	}
	gs.gates.set(name, g)

	return nil
}

// SetPrepVector stores v as a preparation with the default parameterization.
func (gs *GateSet) SetPrepVector(name string, v []float64) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	op, err := operator.NewVec(gs.defaultParam, v)
	if err != nil {
		return gatesetErrorf("SetPrepVector("+name+")", err)
	}

	return gs.setPrep(name, op)
}

// SetEffectVector stores v as an effect with the default parameterization
// (Full when the default is TP).
func (gs *GateSet) SetEffectVector(name string, v []float64) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	op, err := operator.NewVec(effectParam(gs.defaultParam), v)
	if err != nil {
		return gatesetErrorf("SetEffectVector("+name+")", err)
	}

	return gs.setEffect(name, op)
}

// SetGateMatrix stores m as a gate with the default parameterization.
func (gs *GateSet) SetGateMatrix(name string, m mat.Matrix) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	op, err := operator.NewGate(gs.defaultParam, m)
	if err != nil {
		return gatesetErrorf("SetGateMatrix("+name+")", err)
	}

	return gs.setGate(name, op)
}

// SetIdentity stores the identity vector used by the remainder effect. It is
// always static.
func (gs *GateSet) SetIdentity(v []float64) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	op, err := operator.NewStaticVec(v)
	if err != nil {
		return gatesetErrorf("SetIdentity", err)
	}
	if err = gs.checkDim("SetIdentity", op.Dim()); err != nil {
		return err
	}
	gs.identity = op

	return nil
}

// Set stores op under l. op must be an operator.Gate for gate labels and an
// operator.SPAMVec otherwise; the identity is re-created as static.
func (gs *GateSet) Set(l Label, op operator.Operator) error {
	tag := "Set(" + l.String() + ")"
	if gs.isStrict() {
		return gatesetErrorf(tag, ErrStrictIndexing)
	}
	switch l.Kind {
	case KindGate:
		g, ok := op.(operator.Gate)
		if !ok {
			return gatesetErrorf(tag, operator.ErrShape)
		}

		return gs.SetGate(l.Name, g)
	case KindPrep, KindEffect, KindIdentity:
		v, ok := op.(operator.SPAMVec)
		if !ok {
			return gatesetErrorf(tag, operator.ErrShape)
		}
		switch l.Kind {
		case KindPrep:
			return gs.SetPrep(l.Name, v)
		case KindEffect:
			return gs.SetEffect(l.Name, v)
		default:
			return gs.SetIdentity(v.Vector())
		}
	}

	return gatesetErrorf(tag, ErrUnknownLabel)
}

// Get returns the operator stored under l.
func (gs *GateSet) Get(l Label) (operator.Operator, error) {
	tag := "Get(" + l.String() + ")"
	if gs.isStrict() {
		return nil, gatesetErrorf(tag, ErrStrictIndexing)
	}
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	op, ok := gs.lookup(l)
	if !ok {
		return nil, gatesetErrorf(tag, ErrUnknownLabel)
	}

	return op, nil
}

func (gs *GateSet) isStrict() bool {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	return gs.strict
}

// lookup resolves l. Caller holds a lock.
func (gs *GateSet) lookup(l Label) (operator.Operator, bool) {
	switch l.Kind {
	case KindPrep:
		return gs.preps.get(l.Name)
	case KindEffect:
		return gs.effects.get(l.Name)
	case KindGate:
		return gs.gates.get(l.Name)
	case KindIdentity:
		return gs.identity, gs.identity != nil
	}

	return nil, false
}

// Prep returns the preparation stored under name.
func (gs *GateSet) Prep(name string) (operator.SPAMVec, bool) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	return gs.preps.get(name)
}

// Effect returns the effect stored under name.
func (gs *GateSet) Effect(name string) (operator.SPAMVec, bool) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	return gs.effects.get(name)
}

// Gate returns the gate stored under name.
func (gs *GateSet) Gate(name string) (operator.Gate, bool) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	return gs.gates.get(name)
}

// Identity returns the identity vector, if set.
func (gs *GateSet) Identity() (operator.SPAMVec, bool) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	return gs.identity, gs.identity != nil
}

// PrepLabels returns preparation names in insertion order.
func (gs *GateSet) PrepLabels() []string {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	return gs.preps.labels()
}

// EffectLabels returns effect names in insertion order.
func (gs *GateSet) EffectLabels() []string {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	return gs.effects.labels()
}

// GateLabels returns gate names in insertion order.
func (gs *GateSet) GateLabels() []string {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	return gs.gates.labels()
}

// BasisName returns the recorded basis name ("unknown" by default).
func (gs *GateSet) BasisName() string {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	return gs.basisName
}

// BasisStructure returns the recorded density-space structure (zero when unknown).
func (gs *GateSet) BasisStructure() basis.Structure {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	return gs.basisStruct
}

// SetBasis records the basis the model's operators are expressed in.
func (gs *GateSet) SetBasis(name string, s basis.Structure) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.basisName, gs.basisStruct = name, s
}

// ResetBasis forgets the basis metadata.
func (gs *GateSet) ResetBasis() {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.resetBasis()
}

func (gs *GateSet) resetBasis() {
	gs.basisName, gs.basisStruct = DefaultBasisName, basis.Structure{}
}
