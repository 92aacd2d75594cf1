// Package services provides pricing, rollup and quote assembly logic for the
// BOM dashboard, along with the document exports built on top of it.
package services

import "math"

// DefaultMarginPercent is applied to line items that carry no explicit margin.
const DefaultMarginPercent = 35.0

// LinePricing is the computed cost/sell breakdown for one line item.
type LinePricing struct {
	TotalCost float64
	TotalSell float64
	Margin    float64
}

func CalcLineCost(qty, unitPrice float64) float64 {
	return qty * unitPrice
}

// CalcLineSell applies a margin-on-sell to a cost: sell = cost / (1 - margin/100).
// Margins outside [0, 100) are rejected.
func CalcLineSell(totalCost, marginPercent float64) (float64, error) {
	if err := ValidateMargin(marginPercent); err != nil {
		return 0, err
	}
	if totalCost == 0 {
		return 0, nil
	}
	return totalCost / (1 - marginPercent/100), nil
}

func ValidateMargin(marginPercent float64) error {
	if math.IsNaN(marginPercent) || math.IsInf(marginPercent, 0) || marginPercent < 0 {
		return newValidationError("margin_percent", "must be zero or greater")
	}
	if marginPercent >= 100 {
		return newValidationError("margin_percent", "must be less than 100")
	}
	return nil
}

// PriceLine validates the inputs and returns the cost, sell and margin amount.
func PriceLine(qty, unitPrice, marginPercent float64) (LinePricing, error) {
	if !finite(qty) || qty < 0 {
		return LinePricing{}, newValidationError("quantity", "must be zero or greater")
	}
	if !finite(unitPrice) || unitPrice < 0 {
		return LinePricing{}, newValidationError("unit_price", "must be zero or greater")
	}
	cost := CalcLineCost(qty, unitPrice)
	sell, err := CalcLineSell(cost, marginPercent)
	if err != nil {
		return LinePricing{}, err
	}
	if !finite(cost) || !finite(sell) {
		return LinePricing{}, newValidationError("quantity", "times unit price is too large")
	}
	return LinePricing{TotalCost: cost, TotalSell: sell, Margin: sell - cost}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// RoundMoney rounds to cents, half away from zero.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

type BOMTotals struct {
	TotalCost     float64
	TotalSell     float64
	Margin        float64
	MarginPercent float64
}

// CalcBOMTotals sums cost and sell across all items. MarginPercent is the
// margin as a share of sell, 0 when nothing is sold.
func CalcBOMTotals(items []LineItem) BOMTotals {
	var totals BOMTotals
	for _, item := range items {
		totals.TotalCost += item.TotalCost
		totals.TotalSell += item.TotalSell
	}
	totals.Margin = totals.TotalSell - totals.TotalCost
	if totals.TotalSell != 0 {
		totals.MarginPercent = (totals.Margin / totals.TotalSell) * 100
	}
	return totals
}
