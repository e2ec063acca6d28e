package pricing

// NoAdjustment is the multiplier used when no tier applies.
const NoAdjustment = 1.0

// ResolveTier returns the unit_adjust of the first tier, in declaration order,
// whose band contains quantity. Tiers may overlap; order decides.
func ResolveTier(quantity float64, tiers []Tier) float64 {
	for _, t := range tiers {
		if t.Contains(quantity) {
			return t.UnitAdjust
		}
	}
	return NoAdjustment
}
