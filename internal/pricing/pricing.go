// Package pricing computes the manufacturing cost (HPP) of a product and the price to quote for an order line.
package pricing

import "fmt"

// Input holds everything needed to price one order line.
type Input struct {
	Quantity   float64
	Materials  []MaterialConsumption
	Processes  []ProcessConsumption
	Finishings []FinishingConsumption
	// Allocation is a per-unit overhead figure supplied by the caller.
	Allocation float64
	Specs      Specs
	IsExpress  bool
	Policy     Policy
}

// Result is the pricing decision for an order line.
type Result struct {
	HPP              CostBreakdown `json:"hpp"`
	BasePrice        float64       `json:"basePrice"`
	TierAdjustment   float64       `json:"tierAdjustment"`
	SurchargePercent float64       `json:"surchargePercent"`
	FinalUnitPrice   float64       `json:"finalUnitPrice"`
	TotalPrice       float64       `json:"totalPrice"`
	FloorApplied     bool          `json:"floorApplied"`
}

// HPPTotal is the manufacturing cost of the whole line.
func (r Result) HPPTotal(quantity float64) float64 {
	return r.HPP.Total * quantity
}

// BasePrice converts a unit HPP into a base price using the policy base.
func BasePrice(hppTotal float64, base Base) (float64, error) {
	switch base.Mode {
	case ModeMarginPercent:
		return hppTotal * (1 + base.Value), nil
	case ModeMarkupFlat:
		return hppTotal + base.Value, nil
	default:
		return 0, fmt.Errorf("base.mode %q: %w", base.Mode, ErrUnknownBaseMode)
	}
}

// ApplyFloor raises price to the policy's minimum unit price when it is below it.
func ApplyFloor(price float64, fc *FloorCeiling) (float64, bool) {
	floor, ok := fc.Floor()
	if !ok || price >= floor {
		return price, false
	}
	return floor, true
}

// Calculate prices one order line. The steps run in a fixed order, each using the previous result:
// HPP, base price, tier adjustment, surcharge, unit price, floor, line total.
// The only error is an unrecognized base mode; no partial result is returned with it.
func Calculate(in Input) (Result, error) {
	hpp := AggregateCost(in.Materials, in.Processes, in.Finishings, in.Allocation)

	basePrice, err := BasePrice(hpp.Total, in.Policy.Base)
	if err != nil {
		return Result{}, err
	}

	tierAdjustment := ResolveTier(in.Quantity, in.Policy.Tiers)
	surchargePercent := ResolveSurcharge(in.Specs, in.IsExpress, in.Policy.Surcharge)

	finalUnitPrice := basePrice * tierAdjustment * (1 + surchargePercent)
	finalUnitPrice, floorApplied := ApplyFloor(finalUnitPrice, in.Policy.FloorCeiling)

	return Result{
		HPP:              hpp,
		BasePrice:        basePrice,
		TierAdjustment:   tierAdjustment,
		SurchargePercent: surchargePercent,
		FinalUnitPrice:   finalUnitPrice,
		TotalPrice:       finalUnitPrice * in.Quantity,
		FloorApplied:     floorApplied,
	}, nil
}
