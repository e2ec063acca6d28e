package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Simplici0/hpp/internal/pricing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadPolicy_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "policy.yaml", `
version: "1.0"
base:
  mode: margin_percent
  value: 0.3
tiers:
  - min_qty: 1
    max_qty: 99
    unit_adjust: 1.0
  - min_qty: 100
    max_qty: null
    unit_adjust: 0.9
surcharge:
  express:
    enabled: true
    percent: 0.2
  complexity:
    - attribute: lamination
      value: glossy
      percent: 0.05
floor_ceiling:
  min_unit_price: 5000
`)

	p, err := LoadPolicy(path)
	if err != nil {
		t.Fatalf("LoadPolicy: %v", err)
	}
	if p.Base.Mode != pricing.ModeMarginPercent || len(p.Tiers) != 2 || p.Tiers[1].MaxQty != nil {
		t.Fatalf("unexpected policy: %+v", p)
	}
	if !p.Surcharge.Complexity[0].Value.Equal(pricing.String("glossy")) {
		t.Fatalf("unexpected complexity value: %v", p.Surcharge.Complexity[0].Value)
	}
}

func TestLoadPolicy_JSONInvalidPolicy(t *testing.T) {
	path := writeFile(t, t.TempDir(), "policy.json", `{"base": {"mode": "percent", "value": 0.3}}`)

	_, err := LoadPolicy(path)
	if !errors.Is(err, pricing.ErrUnknownBaseMode) {
		t.Fatalf("err = %v, want ErrUnknownBaseMode", err)
	}
}

func TestLoadPolicy_YAMLUnknownFieldRejected(t *testing.T) {
	path := writeFile(t, t.TempDir(), "policy.yml", "base:\n  mode: markup_flat\n  value: 10\n  extra: 1\n")

	if _, err := LoadPolicy(path); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestLoadPolicy_JSONUnknownFieldRejected(t *testing.T) {
	path := writeFile(t, t.TempDir(), "policy.json",
		`{"base": {"mode": "markup_flat", "value": 10}, "floor_cieling": {"min_unit_price": 5000}}`)

	_, err := LoadPolicy(path)
	if err == nil || !strings.Contains(err.Error(), "floor_cieling") {
		t.Fatalf("err = %v, want unknown field floor_cieling", err)
	}
}

func TestLoadPolicy_NullComplexityValueSameInJSONAndYAML(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "policy.json", `{
  "base": {"mode": "markup_flat", "value": 10},
  "surcharge": {"complexity": [{"attribute": "coating", "value": null, "percent": 0.1}]}
}`)
	yamlPath := writeFile(t, dir, "policy.yaml", `
base:
  mode: markup_flat
  value: 10
surcharge:
  complexity:
    - attribute: coating
      value: null
      percent: 0.1
`)

	for _, path := range []string{jsonPath, yamlPath} {
		p, err := LoadPolicy(path)
		if err != nil {
			t.Fatalf("LoadPolicy(%s): %v", filepath.Base(path), err)
		}
		if got := p.Surcharge.Complexity[0].Value; got.Kind() != pricing.KindNull {
			t.Fatalf("%s: value kind = %v, want null", filepath.Base(path), got.Kind())
		}
	}
}

func TestLoadPolicy_UnsupportedExtension(t *testing.T) {
	path := writeFile(t, t.TempDir(), "policy.toml", "")

	if _, err := LoadPolicy(path); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestLoadLine_ResolvesPolicyRelativeToLine(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "line.json", `{
		"quantity": 150,
		"materials": [{"quantity_required": 10, "unit_cost": 1000, "waste_factor": 0.1}],
		"processes": [{"time_minutes": 30, "setup_time_minutes": 15, "hourly_rate": 60000}],
		"finishings": [{"total_cost": 2500}],
		"allocation": 1500,
		"specs": {"lamination": "glossy", "colors": 4},
		"is_express": true,
		"policy": "policy.json"
	}`)

	line, err := LoadLine(path)
	if err != nil {
		t.Fatalf("LoadLine: %v", err)
	}
	if line.PolicyPath != filepath.Join(dir, "policy.json") {
		t.Fatalf("PolicyPath = %q", line.PolicyPath)
	}

	in := line.Input(pricing.Policy{Base: pricing.Base{Mode: pricing.ModeMarginPercent, Value: 0.3}})
	res, err := pricing.Calculate(in)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if res.HPP.Total != 60000 {
		t.Fatalf("hpp.total = %v, want 60000", res.HPP.Total)
	}
	if !in.Specs["colors"].Equal(pricing.Number(4)) || !in.IsExpress {
		t.Fatalf("unexpected input: %+v", in)
	}
}

func TestLoadLine_MissingFile(t *testing.T) {
	if _, err := LoadLine(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want os.ErrNotExist", err)
	}
}

func TestDecodePolicy_DoesNotValidate(t *testing.T) {
	path := writeFile(t, t.TempDir(), "policy.yml", "base:\n  mode: percent\n  value: 0.3\n")

	p, err := DecodePolicy(path)
	if err != nil {
		t.Fatalf("DecodePolicy: %v", err)
	}
	if p.Base.Mode != "percent" {
		t.Fatalf("mode = %q, want percent", p.Base.Mode)
	}
	if err := p.Validate(); !errors.Is(err, pricing.ErrUnknownBaseMode) {
		t.Fatalf("Validate err = %v, want ErrUnknownBaseMode", err)
	}
}
