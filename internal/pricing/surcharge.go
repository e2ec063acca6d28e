package pricing

// ResolveSurcharge sums the surcharge fractions that apply to an item.
// The express surcharge applies only when the order is express and the policy enables it.
// Every complexity rule whose attribute is present in specs with an equal value adds its percent.
func ResolveSurcharge(specs Specs, isExpress bool, s *Surcharge) float64 {
	if s == nil {
		return 0
	}

	total := 0.0
	if isExpress && s.Express != nil && s.Express.Enabled {
		total += s.Express.Percent
	}
	for _, rule := range s.Complexity {
		if v, ok := specs[rule.Attribute]; ok && v.Equal(rule.Value) {
			total += rule.Percent
		}
	}
	return total
}
