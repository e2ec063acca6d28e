package pricing

import (
	"slices"
	"testing"
	"testing/quick"
)

func TestResolveSurcharge_ExpressRequiresFlagAndEnabled(t *testing.T) {
	enabled := &Surcharge{Express: &ExpressSurcharge{Enabled: true, Percent: 0.2}}
	disabled := &Surcharge{Express: &ExpressSurcharge{Enabled: false, Percent: 0.2}}

	nearlyEqual(t, "express+enabled", ResolveSurcharge(nil, true, enabled), 0.2)
	nearlyEqual(t, "standard+enabled", ResolveSurcharge(nil, false, enabled), 0)
	nearlyEqual(t, "express+disabled", ResolveSurcharge(nil, true, disabled), 0)
}

func TestResolveSurcharge_MissingPolicySectionIsZero(t *testing.T) {
	nearlyEqual(t, "nil surcharge", ResolveSurcharge(Specs{"size": String("A3")}, true, nil), 0)
	nearlyEqual(t, "nil express", ResolveSurcharge(nil, true, &Surcharge{}), 0)
}

func TestResolveSurcharge_ComplexityRulesAccumulate(t *testing.T) {
	s := &Surcharge{
		Express: &ExpressSurcharge{Enabled: true, Percent: 0.2},
		Complexity: []ComplexityRule{
			{Attribute: "lamination", Value: String("doff"), Percent: 0.05},
			{Attribute: "colors", Value: Number(4), Percent: 0.1},
			{Attribute: "die_cut", Value: Bool(true), Percent: 0.15},
			{Attribute: "size", Value: String("A3"), Percent: 0.3},
		},
	}
	specs := Specs{
		"lamination": String("doff"),
		"colors":     Number(4),
		"die_cut":    Bool(true),
		"size":       String("A4"),
	}

	nearlyEqual(t, "surcharge", ResolveSurcharge(specs, true, s), 0.2+0.05+0.1+0.15)
}

func TestResolveSurcharge_NoTypeCoercion(t *testing.T) {
	s := &Surcharge{Complexity: []ComplexityRule{
		{Attribute: "colors", Value: Number(4), Percent: 0.1},
		{Attribute: "die_cut", Value: Bool(true), Percent: 0.15},
	}}
	specs := Specs{"colors": String("4"), "die_cut": String("true")}

	nearlyEqual(t, "surcharge", ResolveSurcharge(specs, false, s), 0)
}

func TestResolveSurcharge_MissingAttributeNeverMatches(t *testing.T) {
	s := &Surcharge{Complexity: []ComplexityRule{{Attribute: "foil", Value: Null(), Percent: 0.1}}}

	nearlyEqual(t, "missing", ResolveSurcharge(Specs{}, false, s), 0)
	nearlyEqual(t, "explicit null", ResolveSurcharge(Specs{"foil": Null()}, false, s), 0.1)
}

func TestProperty_SurchargeIgnoresRuleOrder(t *testing.T) {
	attrs := []string{"a", "b", "c", "d"}
	f := func(values []uint8, percents []uint8, express bool) bool {
		n := min(len(values), len(percents))
		rules := make([]ComplexityRule, n)
		for i := 0; i < n; i++ {
			rules[i] = ComplexityRule{
				Attribute: attrs[int(values[i])%len(attrs)],
				Value:     Number(float64(values[i] % 3)),
				Percent:   float64(percents[i]%11) / 100,
			}
		}
		specs := Specs{"a": Number(0), "b": Number(1), "c": Number(2), "d": String("x")}
		base := &Surcharge{Express: &ExpressSurcharge{Enabled: true, Percent: 0.25}, Complexity: rules}

		reversed := slices.Clone(rules)
		slices.Reverse(reversed)
		flipped := &Surcharge{Express: base.Express, Complexity: reversed}

		want := 0.0
		if express {
			want = 0.25
		}
		for _, r := range rules {
			if v, ok := specs[r.Attribute]; ok && v.Equal(r.Value) {
				want += r.Percent
			}
		}

		a := ResolveSurcharge(specs, express, base)
		b := ResolveSurcharge(specs, express, flipped)
		return abs(a-b) < 1e-12 && abs(a-want) < 1e-12
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatalf("order independence property: %v", err)
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
