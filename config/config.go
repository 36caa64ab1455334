// SPDX-License-Identifier: MIT

// Package config loads a gate-set model and its calculator and gauge
// settings from YAML.
//
// A file describes either a model from scratch or a standard model with
// overrides:
//
//	standard: std1q_xyi
//	default_param: tp
//	noise:
//	  depolarize: 0.1
//	calc:
//	  workers: 4
//	strings: ["{}", "Gx", "(Gx,Gy)^4"]
//
// Errors:
//   - ErrInvalid for structurally invalid documents (wraps gsterr.ErrDimension).
//   - ErrUnknownStandard for an unknown standard model name.
//   - parse and read failures are wrapped with their cause.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/katalvlaran/lvgst/calc"
	"github.com/katalvlaran/lvgst/gauge"
	"github.com/katalvlaran/lvgst/gsterr"
	"gopkg.in/yaml.v3"
)

// StandardXYI names the single-qubit Gi/Gx/Gy model.
const StandardXYI = "std1q_xyi"

var (
	// ErrInvalid indicates a document that cannot describe a model.
	ErrInvalid = fmt.Errorf("config: invalid model: %w", gsterr.ErrDimension)

	// ErrUnknownStandard indicates an unknown standard model name.
	ErrUnknownStandard = fmt.Errorf("config: unknown standard model: %w", gsterr.ErrParameterization)
)

// Model is one YAML document: a model definition plus run settings.
type Model struct {
	Standard       string      `yaml:"standard,omitempty"`
	DefaultParam   string      `yaml:"default_param,omitempty"`
	RemainderLabel string      `yaml:"remainder_label,omitempty"`
	Basis          string      `yaml:"basis,omitempty"`
	Structure      []int       `yaml:"structure,omitempty"`
	Identity       []float64   `yaml:"identity,omitempty"`
	Preps          []Vector    `yaml:"preps,omitempty"`
	Effects        []Vector    `yaml:"effects,omitempty"`
	Gates          []Gate      `yaml:"gates,omitempty"`
	SpamLabels     []SpamLabel `yaml:"spam_labels,omitempty"`
	Noise          Noise       `yaml:"noise,omitempty"`
	Calc           Calc        `yaml:"calc,omitempty"`
	Gauge          Gauge       `yaml:"gauge,omitempty"`
	Strings        []string    `yaml:"strings,omitempty"`
}

// Vector is a state preparation or effect. Param overrides the model's
// default parameterization.
type Vector struct {
	Name   string    `yaml:"name,omitempty"`
	Param  string    `yaml:"param,omitempty"`
	Values []float64 `yaml:"values,omitempty"`
}

// Gate is given either as a row-major matrix or, for one qubit, as the
// rotation Hamiltonian coefficients (hx, hy, hz) of basis.SingleQubitGate.
type Gate struct {
	Name     string      `yaml:"name,omitempty"`
	Param    string      `yaml:"param,omitempty"`
	Matrix   [][]float64 `yaml:"matrix,omitempty"`
	Rotation []float64   `yaml:"rotation,omitempty"`
}

// SpamLabel pairs a preparation with an effect; either may be the remainder label.
type SpamLabel struct {
	Name   string `yaml:"name,omitempty"`
	Prep   string `yaml:"prep,omitempty"`
	Effect string `yaml:"effect,omitempty"`
}

// Noise is applied after the model is assembled, in field order.
type Noise struct {
	Depolarize     float64   `yaml:"depolarize,omitempty"`
	SpamDepolarize float64   `yaml:"spam_depolarize,omitempty"`
	Rotate         []float64 `yaml:"rotate,omitempty"`
	Kick           float64   `yaml:"kick,omitempty"`
	Seed           int64     `yaml:"seed,omitempty"`
}

// Calc holds calculator settings.
type Calc struct {
	Workers      int      `yaml:"workers,omitempty"`
	WrtBlockSize int      `yaml:"wrt_block_size,omitempty"`
	Check        bool     `yaml:"check,omitempty"`
	Strict       bool     `yaml:"strict,omitempty"`
	ClipMin      *float64 `yaml:"clip_min,omitempty"`
	ClipMax      *float64 `yaml:"clip_max,omitempty"`
}

// Gauge holds gauge-projector tolerances.
type Gauge struct {
	Tol       float64 `yaml:"tol,omitempty"`
	PinvRcond float64 `yaml:"pinv_rcond,omitempty"`
	RankTol   float64 `yaml:"rank_tol,omitempty"`
	Strict    bool    `yaml:"strict,omitempty"`
}

// Default returns a document with every setting at its package default.
func Default() *Model {
	return &Model{
		Calc: Calc{
			Workers:      calc.DefaultWorkers,
			WrtBlockSize: calc.DefaultWrtBlockSize,
		},
		Gauge: Gauge{
			Tol:       gauge.DefaultTol,
			PinvRcond: gauge.DefaultPinvRcond,
			RankTol:   gauge.DefaultRankTol,
		},
	}
}

// Load reads and parses the YAML file at path.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes a YAML document over Default and validates it. Unknown
// keys are rejected; an empty document yields Default.
func Parse(data []byte) (*Model, error) {
	m := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	return m, nil
}

// Validate checks the run settings. Model contents are checked by Build.
func (m *Model) Validate() error {
	invalid := func(format string, args ...any) error {
		return gsterr.Errorf(fmt.Sprintf(format, args...), ErrInvalid)
	}
	switch {
	case m.Calc.Workers < 0:
		return invalid("calc.workers %d", m.Calc.Workers)
	case m.Calc.WrtBlockSize < 0:
		return invalid("calc.wrt_block_size %d", m.Calc.WrtBlockSize)
	case (m.Calc.ClipMin == nil) != (m.Calc.ClipMax == nil):
		return invalid("calc.clip_min and calc.clip_max must be set together")
	case m.Calc.ClipMin != nil && *m.Calc.ClipMin > *m.Calc.ClipMax:
		return invalid("calc.clip_min %g > clip_max %g", *m.Calc.ClipMin, *m.Calc.ClipMax)
	}
	for name, v := range map[string]float64{
		"gauge.tol": m.Gauge.Tol, "gauge.pinv_rcond": m.Gauge.PinvRcond, "gauge.rank_tol": m.Gauge.RankTol,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return invalid("%s %g", name, v)
		}
	}

	return nil
}

// Marshal encodes m back to YAML.
func (m *Model) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}

	return buf.Bytes(), nil
}
