// SPDX-License-Identifier: MIT

package gateset

// LabelKind tells which map of the model a Label addresses.
type LabelKind int

const (
	// KindPrep addresses a state preparation.
	KindPrep LabelKind = iota
	// KindEffect addresses a measurement effect.
	KindEffect
	// KindGate addresses a gate.
	KindGate
	// KindIdentity addresses the identity vector; Name is ignored.
	KindIdentity
)

// String returns "prep", "effect", "gate" or "identity".
func (k LabelKind) String() string {
	switch k {
	case KindPrep:
		return "prep"
	case KindEffect:
		return "effect"
	case KindGate:
		return "gate"
	case KindIdentity:
		return "identity"
	default:
		return "unknown"
	}
}

// Label is a structured operator identifier, resolved once instead of by
// name prefix.
type Label struct {
	Kind LabelKind
	Name string
}

// IdentityLabel addresses the model's identity vector.
var IdentityLabel = Label{Kind: KindIdentity}

// Prep returns the label of preparation name.
func Prep(name string) Label { return Label{Kind: KindPrep, Name: name} }

// Effect returns the label of effect name.
func Effect(name string) Label { return Label{Kind: KindEffect, Name: name} }

// Gate returns the label of gate name.
func Gate(name string) Label { return Label{Kind: KindGate, Name: name} }

// String renders "kind:name", or "identity".
func (l Label) String() string {
	if l.Kind == KindIdentity {
		return l.Kind.String()
	}

	return l.Kind.String() + ":" + l.Name
}

// Range is a half-open index interval [Start, End).
type Range struct {
	Start, End int
}

// Len returns End-Start.
func (r Range) Len() int { return r.End - r.Start }

// Offset pairs a label with its parameter range.
type Offset struct {
	Label Label
	Range Range
}

// SpamDef pairs a preparation with an effect. Either may be the remainder label.
type SpamDef struct {
	Prep   string
	Effect string
}

// ordered is an insertion-ordered string-keyed map. Replacing a key keeps its position.
type ordered[T any] struct {
	keys []string
	vals map[string]T
}

func newOrdered[T any]() ordered[T] {
	return ordered[T]{vals: make(map[string]T)}
}

func (o *ordered[T]) set(k string, v T) {
	if _, ok := o.vals[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.vals[k] = v
}

func (o *ordered[T]) get(k string) (T, bool) {
	v, ok := o.vals[k]

	return v, ok
}

func (o *ordered[T]) len() int { return len(o.keys) }

func (o *ordered[T]) labels() []string { return append([]string(nil), o.keys...) }
