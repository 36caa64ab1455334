// SPDX-License-Identifier: MIT

package gateset

// AddSpamLabel defines (or redefines) SPAM label name as the pair (prep, effect).
//
// effect may be the remainder label, meaning the complement effect
// identity - Σ effects. The pair (remainder, remainder) defines the label whose
// probability is one minus the sum of all other labels. Any other reference to
// an operator the model does not hold is an error.
func (gs *GateSet) AddSpamLabel(name, prep, effect string) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	tag := "AddSpamLabel(" + name + ")"
	if name == "" {
		return gatesetErrorf(tag, ErrUnknownLabel)
	}

	if prep == gs.remainder {
		if effect != gs.remainder {
			return gatesetErrorf(tag, ErrReservedLabel)
		}
		gs.spam.set(name, SpamDef{Prep: prep, Effect: effect})

		return nil
	}
	if _, ok := gs.preps.get(prep); !ok {
		return gatesetErrorf(tag, ErrUnknownLabel)
	}
	if _, ok := gs.effects.get(effect); !ok && effect != gs.remainder {
		return gatesetErrorf(tag, ErrUnknownLabel)
	}
	gs.spam.set(name, SpamDef{Prep: prep, Effect: effect})

	return nil
}

// SpamLabels returns the SPAM labels in definition order.
func (gs *GateSet) SpamLabels() []string {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	return gs.spam.labels()
}

// SpamDef returns the (prep, effect) pair of a SPAM label.
func (gs *GateSet) SpamDef(name string) (SpamDef, bool) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	return gs.spam.get(name)
}

// ReverseSpamDefs maps each (prep, effect) pair back to its SPAM label.
func (gs *GateSet) ReverseSpamDefs() map[SpamDef]string {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	out := make(map[SpamDef]string, gs.spam.len())
	for _, name := range gs.spam.keys {
		out[gs.spam.vals[name]] = name
	}

	return out
}

// IsRemainderPair reports whether d is the (remainder, remainder) definition.
func (gs *GateSet) IsRemainderPair(d SpamDef) bool {
	r := gs.RemainderLabel()

	return d.Prep == r && d.Effect == r
}
