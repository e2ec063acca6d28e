package pricing

// MaterialConsumption is one bill-of-materials line consumed per unit produced.
type MaterialConsumption struct {
	QuantityRequired float64 `json:"quantity_required" yaml:"quantity_required"`
	UnitCost         float64 `json:"unit_cost" yaml:"unit_cost"`
	// WasteFactor is a fraction: 0.1 means 10% extra material is consumed.
	WasteFactor float64 `json:"waste_factor" yaml:"waste_factor"`
}

// EffectiveQuantity is the quantity consumed including waste.
func (m MaterialConsumption) EffectiveQuantity() float64 {
	return m.QuantityRequired * (1 + m.WasteFactor)
}

// Cost is the per-unit cost of this line.
func (m MaterialConsumption) Cost() float64 {
	return m.QuantityRequired * m.UnitCost * (1 + m.WasteFactor)
}

// ProcessConsumption is one machine or process step run per unit produced.
type ProcessConsumption struct {
	TimeMinutes      float64 `json:"time_minutes" yaml:"time_minutes"`
	SetupTimeMinutes float64 `json:"setup_time_minutes" yaml:"setup_time_minutes"`
	HourlyRate       float64 `json:"hourly_rate" yaml:"hourly_rate"`
}

// Hours is the billed machine time, setup included.
func (p ProcessConsumption) Hours() float64 {
	return (p.TimeMinutes + p.SetupTimeMinutes) / 60
}

// Cost is the per-unit cost of this step.
func (p ProcessConsumption) Cost() float64 {
	return p.Hours() * p.HourlyRate
}

// FinishingConsumption is one finishing operation whose cost the caller already computed.
type FinishingConsumption struct {
	TotalCost float64 `json:"total_cost" yaml:"total_cost"`
}

// FinishingLineCost is the total_cost stored on a finishing row.
func FinishingLineCost(quantity, unitPrice float64) float64 {
	return quantity * unitPrice
}

// CostBreakdown decomposes HPP for one unit. Total is always the sum of the other four fields.
type CostBreakdown struct {
	Material   float64 `json:"material"`
	Machine    float64 `json:"machine"`
	Finishing  float64 `json:"finishing"`
	Allocation float64 `json:"allocation"`
	Total      float64 `json:"total"`
}

// MaterialCost sums quantity × unit cost × (1 + waste) over materials.
func MaterialCost(materials []MaterialConsumption) float64 {
	sum := 0.0
	for _, m := range materials {
		sum += m.Cost()
	}
	return sum
}

// MachineCost sums machine hours × hourly rate over processes.
func MachineCost(processes []ProcessConsumption) float64 {
	sum := 0.0
	for _, p := range processes {
		sum += p.Cost()
	}
	return sum
}

// FinishingCost sums the precomputed finishing costs.
func FinishingCost(finishings []FinishingConsumption) float64 {
	sum := 0.0
	for _, f := range finishings {
		sum += f.TotalCost
	}
	return sum
}

// AggregateCost reduces the three cost sources plus the externally supplied
// per-unit overhead allocation into a CostBreakdown.
func AggregateCost(
	materials []MaterialConsumption,
	processes []ProcessConsumption,
	finishings []FinishingConsumption,
	allocation float64,
) CostBreakdown {
	material := MaterialCost(materials)
	machine := MachineCost(processes)
	finishing := FinishingCost(finishings)

	return CostBreakdown{
		Material:   material,
		Machine:    machine,
		Finishing:  finishing,
		Allocation: allocation,
		Total:      material + machine + finishing + allocation,
	}
}
