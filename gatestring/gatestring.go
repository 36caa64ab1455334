// SPDX-License-Identifier: MIT

// Package gatestring provides GateString, an immutable ordered sequence of
// gate labels. The first label is the first gate applied.
package gatestring

import (
	"strconv"
	"strings"
)

// GateString is an immutable sequence of gate labels. The zero value is the
// empty string, which evaluates to the identity.
type GateString struct {
	labels []string
}

// New returns a GateString over a copy of labels.
func New(labels ...string) GateString {
	if len(labels) == 0 {
		return GateString{}
	}

	return GateString{labels: append([]string(nil), labels...)}
}

// Empty is the zero-length gate string.
var Empty = GateString{}

// Len returns the number of labels.
func (s GateString) Len() int { return len(s.labels) }

// At returns the i-th label (0 = first applied).
func (s GateString) At(i int) string { return s.labels[i] }

// Labels returns a copy of the label sequence.
func (s GateString) Labels() []string { return append([]string(nil), s.labels...) }

// Key returns a value usable as a map key; distinct sequences give distinct
// keys whatever bytes the labels contain. Each label is length-prefixed.
func (s GateString) Key() string {
	var b strings.Builder
	for _, l := range s.labels {
		b.WriteString(strconv.Itoa(len(l)))
		b.WriteByte(':')
		b.WriteString(l)
	}

	return b.String()
}

// Equal reports element-wise equality.
func (s GateString) Equal(o GateString) bool {
	if len(s.labels) != len(o.labels) {
		return false
	}
	for i := range s.labels {
		if s.labels[i] != o.labels[i] {
			return false
		}
	}

	return true
}

// Concat returns s followed by o.
func (s GateString) Concat(o GateString) GateString {
	out := make([]string, 0, len(s.labels)+len(o.labels))
	out = append(out, s.labels...)

	return New(append(out, o.labels...)...)
}

// Slice returns labels [i, j) as a new gate string.
func (s GateString) Slice(i, j int) GateString { return New(s.labels[i:j]...) }

// Repeat returns s repeated n times; n ≤ 0 gives the empty string.
func (s GateString) Repeat(n int) GateString {
	if n <= 0 || len(s.labels) == 0 {
		return GateString{}
	}
	out := make([]string, 0, n*len(s.labels))
	for k := 0; k < n; k++ {
		out = append(out, s.labels...)
	}

	return GateString{labels: out}
}

// RepeatWithinLength returns the largest whole power of s whose length does
// not exceed maxLen (germ-power truncation used when building long sequences).
func (s GateString) RepeatWithinLength(maxLen int) GateString {
	if len(s.labels) == 0 || maxLen <= 0 {
		return GateString{}
	}

	return s.Repeat(maxLen / len(s.labels))
}

// String renders the sequence as "{}" when empty, or labels joined without separator.
func (s GateString) String() string {
	if len(s.labels) == 0 {
		return "{}"
	}

	return strings.Join(s.labels, "")
}

// Parse splits a textual gate string into labels. Labels are separated by
// commas or whitespace; "{}" and "" parse to the empty string. Whole-string
// repetitions may be written as "(Gx,Gy)^3".
func Parse(text string) GateString {
	text = strings.TrimSpace(text)
	if text == "" || text == "{}" {
		return GateString{}
	}
	if strings.HasPrefix(text, "(") {
		if end := strings.LastIndex(text, ")^"); end > 0 {
			n := 0
			for _, r := range text[end+2:] {
				if r < '0' || r > '9' {
					n = -1
					break
				}
				n = n*10 + int(r-'0')
			}
			if n >= 0 {
				return Parse(text[1:end]).Repeat(n)
			}
		}
	}
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})

	return New(fields...)
}
