package pricing

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// BaseMode selects how the base price is derived from HPP.
type BaseMode string

const (
	// ModeMarginPercent multiplies HPP by (1 + value); value is a fraction.
	ModeMarginPercent BaseMode = "margin_percent"
	// ModeMarkupFlat adds value, a currency amount per unit, to HPP.
	ModeMarkupFlat BaseMode = "markup_flat"
)

// Valid reports whether m is a supported base mode.
func (m BaseMode) Valid() bool {
	return m == ModeMarginPercent || m == ModeMarkupFlat
}

var (
	ErrUnknownBaseMode       = errors.New("pricing: unknown base mode")
	ErrInvalidBaseValue      = errors.New("pricing: invalid base value")
	ErrInvalidTier           = errors.New("pricing: invalid tier")
	ErrInvalidPercent        = errors.New("pricing: percent must be a fraction between 0 and 1")
	ErrInvalidComplexityRule = errors.New("pricing: invalid complexity rule")
	ErrInvalidFloor          = errors.New("pricing: invalid floor/ceiling")
)

// Policy is a stored pricing configuration. Field names follow the persisted JSON document.
type Policy struct {
	Version      string        `json:"version" yaml:"version"`
	Base         Base          `json:"base" yaml:"base"`
	Tiers        []Tier        `json:"tiers,omitempty" yaml:"tiers,omitempty"`
	Surcharge    *Surcharge    `json:"surcharge,omitempty" yaml:"surcharge,omitempty"`
	FloorCeiling *FloorCeiling `json:"floor_ceiling,omitempty" yaml:"floor_ceiling,omitempty"`
}

// Base turns HPP into a base price.
type Base struct {
	Mode  BaseMode `json:"mode" yaml:"mode"`
	Value float64  `json:"value" yaml:"value"`
}

// Tier is a quantity band. A nil MaxQty is unbounded.
type Tier struct {
	MinQty     float64  `json:"min_qty" yaml:"min_qty"`
	MaxQty     *float64 `json:"max_qty" yaml:"max_qty"`
	UnitAdjust float64  `json:"unit_adjust" yaml:"unit_adjust"`
}

// Contains reports whether quantity falls inside the band, bounds inclusive.
func (t Tier) Contains(quantity float64) bool {
	return quantity >= t.MinQty && (t.MaxQty == nil || quantity <= *t.MaxQty)
}

// Surcharge groups the percentage surcharges of a policy.
type Surcharge struct {
	Express    *ExpressSurcharge `json:"express,omitempty" yaml:"express,omitempty"`
	Complexity []ComplexityRule  `json:"complexity,omitempty" yaml:"complexity,omitempty"`
}

// ExpressSurcharge applies to express orders when enabled.
type ExpressSurcharge struct {
	Enabled bool    `json:"enabled" yaml:"enabled"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// ComplexityRule adds Percent when the item spec named Attribute equals Value.
type ComplexityRule struct {
	Attribute string  `json:"attribute" yaml:"attribute"`
	Value     Value   `json:"value" yaml:"value"`
	Percent   float64 `json:"percent" yaml:"percent"`
}

// FloorCeiling bounds the final unit price.
// MaxUnitDiscountPercent is kept for document compatibility and is not enforced.
type FloorCeiling struct {
	MinUnitPrice           *float64 `json:"min_unit_price,omitempty" yaml:"min_unit_price,omitempty"`
	MaxUnitDiscountPercent *float64 `json:"max_unit_discount_percent,omitempty" yaml:"max_unit_discount_percent,omitempty"`
}

// Floor returns the configured minimum unit price. A missing or zero floor is reported as unset.
func (fc *FloorCeiling) Floor() (float64, bool) {
	if fc == nil || fc.MinUnitPrice == nil || *fc.MinUnitPrice == 0 {
		return 0, false
	}
	return *fc.MinUnitPrice, true
}

// ParsePolicy decodes a JSON policy document and validates it.
func ParsePolicy(data []byte) (Policy, error) {
	var p Policy
	if err := json.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("decode pricing policy: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// Validate checks the policy at load time. Every problem found is returned, joined.
func (p Policy) Validate() error {
	var errs []error

	if !p.Base.Mode.Valid() {
		errs = append(errs, fmt.Errorf("base.mode %q: %w", p.Base.Mode, ErrUnknownBaseMode))
	}
	if !isFinite(p.Base.Value) {
		errs = append(errs, fmt.Errorf("base.value %v is not finite: %w", p.Base.Value, ErrInvalidBaseValue))
	} else if p.Base.Mode == ModeMarginPercent && p.Base.Value <= -1 {
		errs = append(errs, fmt.Errorf("base.value %v would make the price non-positive: %w", p.Base.Value, ErrInvalidBaseValue))
	}

	for i, t := range p.Tiers {
		if !isFinite(t.MinQty) || t.MinQty < 0 {
			errs = append(errs, fmt.Errorf("tiers[%d].min_qty %v: %w", i, t.MinQty, ErrInvalidTier))
		}
		if t.MaxQty != nil && (!isFinite(*t.MaxQty) || *t.MaxQty < t.MinQty) {
			errs = append(errs, fmt.Errorf("tiers[%d].max_qty %v is below min_qty %v: %w", i, *t.MaxQty, t.MinQty, ErrInvalidTier))
		}
		if !isFinite(t.UnitAdjust) || t.UnitAdjust <= 0 {
			errs = append(errs, fmt.Errorf("tiers[%d].unit_adjust %v: %w", i, t.UnitAdjust, ErrInvalidTier))
		}
	}

	if s := p.Surcharge; s != nil {
		if s.Express != nil && !isFraction(s.Express.Percent) {
			errs = append(errs, fmt.Errorf("surcharge.express.percent %v: %w", s.Express.Percent, ErrInvalidPercent))
		}
		for i, rule := range s.Complexity {
			if rule.Attribute == "" {
				errs = append(errs, fmt.Errorf("surcharge.complexity[%d].attribute is empty: %w", i, ErrInvalidComplexityRule))
			}
			switch rule.Value.Kind() {
			case KindUndefined:
				errs = append(errs, fmt.Errorf("surcharge.complexity[%d].value is required: %w", i, ErrInvalidComplexityRule))
			case KindComposite:
				errs = append(errs, fmt.Errorf("surcharge.complexity[%d].value must be a string, number or boolean: %w", i, ErrInvalidComplexityRule))
			}
			if !isFraction(rule.Percent) {
				errs = append(errs, fmt.Errorf("surcharge.complexity[%d].percent %v: %w", i, rule.Percent, ErrInvalidPercent))
			}
		}
	}

	if fc := p.FloorCeiling; fc != nil {
		if fc.MinUnitPrice != nil && (!isFinite(*fc.MinUnitPrice) || *fc.MinUnitPrice < 0) {
			errs = append(errs, fmt.Errorf("floor_ceiling.min_unit_price %v: %w", *fc.MinUnitPrice, ErrInvalidFloor))
		}
		if fc.MaxUnitDiscountPercent != nil && !isFraction(*fc.MaxUnitDiscountPercent) {
			errs = append(errs, fmt.Errorf("floor_ceiling.max_unit_discount_percent %v: %w", *fc.MaxUnitDiscountPercent, ErrInvalidPercent))
		}
	}

	return errors.Join(errs...)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func isFraction(f float64) bool {
	return isFinite(f) && f >= 0 && f <= 1
}

// Problems flattens a Validate error into one message per problem.
func Problems(err error) []string {
	if err == nil {
		return nil
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []string{err.Error()}
	}
	var out []string
	for _, e := range joined.Unwrap() {
		out = append(out, Problems(e)...)
	}
	return out
}

// IsPolicyError reports whether err stems from policy validation or an unknown base mode.
func IsPolicyError(err error) bool {
	for _, target := range []error{
		ErrUnknownBaseMode,
		ErrInvalidBaseValue,
		ErrInvalidTier,
		ErrInvalidPercent,
		ErrInvalidComplexityRule,
		ErrInvalidFloor,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
