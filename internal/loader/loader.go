// Package loader reads pricing policies and order lines from JSON or YAML files.
package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Simplici0/hpp/internal/pricing"
)

// Line is an order line as authored in a file: the pricing inputs minus the policy.
type Line struct {
	Quantity   float64                        `json:"quantity" yaml:"quantity"`
	Materials  []pricing.MaterialConsumption  `json:"materials" yaml:"materials"`
	Processes  []pricing.ProcessConsumption   `json:"processes" yaml:"processes"`
	Finishings []pricing.FinishingConsumption `json:"finishings" yaml:"finishings"`
	Allocation float64                        `json:"allocation" yaml:"allocation"`
	Specs      pricing.Specs                  `json:"specs" yaml:"specs"`
	IsExpress  bool                           `json:"is_express" yaml:"is_express"`
	// PolicyPath optionally points at the policy file, relative to the line file.
	PolicyPath string `json:"policy,omitempty" yaml:"policy,omitempty"`
}

// Input combines the line with a policy into engine input.
func (l Line) Input(policy pricing.Policy) pricing.Input {
	return pricing.Input{
		Quantity:   l.Quantity,
		Materials:  l.Materials,
		Processes:  l.Processes,
		Finishings: l.Finishings,
		Allocation: l.Allocation,
		Specs:      l.Specs,
		IsExpress:  l.IsExpress,
		Policy:     policy,
	}
}

// LoadPolicy reads and validates a policy file.
func LoadPolicy(path string) (pricing.Policy, error) {
	p, err := DecodePolicy(path)
	if err != nil {
		return pricing.Policy{}, err
	}
	if err := p.Validate(); err != nil {
		return pricing.Policy{}, fmt.Errorf("validate policy %s: %w", path, err)
	}
	return p, nil
}

// DecodePolicy reads a policy file without validating it.
func DecodePolicy(path string) (pricing.Policy, error) {
	var p pricing.Policy
	if err := decodeFile(path, &p); err != nil {
		return pricing.Policy{}, err
	}
	return p, nil
}

// LoadLine reads an order line file. A relative PolicyPath is resolved against the line's directory.
func LoadLine(path string) (Line, error) {
	var l Line
	if err := decodeFile(path, &l); err != nil {
		return Line{}, err
	}
	if l.PolicyPath != "" && !filepath.IsAbs(l.PolicyPath) {
		l.PolicyPath = filepath.Join(filepath.Dir(path), l.PolicyPath)
	}
	return l, nil
}

func decodeFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(out); err != nil {
			return fmt.Errorf("decode yaml %s: %w", path, err)
		}
	case ".json", "":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(out); err != nil {
			return fmt.Errorf("decode json %s: %w", path, err)
		}
	default:
		return fmt.Errorf("decode %s: unsupported file extension %q", path, filepath.Ext(path))
	}
	return nil
}
