package core

import (
	"fmt"
	"time"

	"landingcore/pkg/domain"
)

// Pricing constants.
const (
	LowFloorPremiumRate   = 0.05 // floors 1-3
	HighFloorPremiumRate  = 0.12 // floor 4 and above
	BalconyPremiumRate    = 0.08
	ParkingFee            = 15000.0
	BulkDiscountThreshold = 30.0 // percent of project inventory
	BulkDiscountRate      = 0.03
	AppreciationRate      = 0.15
	AppreciationMinMonths = 18.0
	daysPerMonth          = 30.44
)

func floorPremium(u Unit) float64 {
	switch {
	case u.FloorLevel >= 1 && u.FloorLevel <= 3:
		return u.Price * LowFloorPremiumRate
	case u.FloorLevel >= 4:
		return u.Price * HighFloorPremiumRate
	default:
		return 0
	}
}

// selectionPercentage returns the share of the project inventory covered by count.
func selectionPercentage(count int, project Project) float64 {
	if project.TotalUnits <= 0 {
		return 0
	}
	return float64(count) / float64(project.TotalUnits) * 100
}

// monthsUntil measures the distance to t in average-length months.
func monthsUntil(now, t time.Time) float64 {
	return t.Sub(now).Hours() / 24 / daysPerMonth
}

// CalculatePricing computes the multi-factor price of a selection. A nil
// project or empty selection yields an empty breakdown.
func CalculatePricing(units []Unit, project *Project, now time.Time) PriceBreakdown {
	if project == nil || len(units) == 0 {
		return PriceBreakdown{}
	}

	var out PriceBreakdown
	for _, u := range units {
		premium := floorPremium(u)
		out.FloorPremium += premium
		if u.HasBalcony {
			out.BalconyPremium += (u.Price + premium) * BalconyPremiumRate
		}
		if u.HasParking {
			out.ParkingFee += ParkingFee
		}
		out.BasePrice += u.Price
	}
	out.Subtotal = out.BasePrice + out.FloorPremium + out.BalconyPremium + out.ParkingFee

	out.SelectionPercentage = selectionPercentage(len(units), *project)
	out.BulkDiscountEligible = out.SelectionPercentage > BulkDiscountThreshold
	if out.BulkDiscountEligible {
		out.BulkDiscount = out.Subtotal * BulkDiscountRate
	}
	out.FinalPrice = out.Subtotal - out.BulkDiscount

	if project.CompletionStatus == domain.CompletionOffPlan && !project.CompletionDate.IsZero() {
		if monthsUntil(now, project.CompletionDate) > AppreciationMinMonths {
			out.FutureValueAppreciation = out.FinalPrice * AppreciationRate
		}
	}

	out.Lines = []BreakdownLine{
		{Label: "Base Price of Selected Units", Value: out.BasePrice},
		{Label: "Floor Level Premiums", Value: out.FloorPremium},
		{Label: "Balcony Premiums (+8%)", Value: out.BalconyPremium},
		{Label: "Parking Fees", Value: out.ParkingFee},
		{Label: "Subtotal", Value: out.Subtotal, Bold: true},
		{
			Label:    fmt.Sprintf("Bulk Discount (%.1f%% selected)", out.SelectionPercentage),
			Value:    -out.BulkDiscount,
			Discount: true,
			Inactive: !out.BulkDiscountEligible,
		},
		{Label: "Total Investment", Value: out.FinalPrice, Bold: true, Total: true},
		{
			Label:    "Est. Future Value (+15%)",
			Value:    out.FinalPrice + out.FutureValueAppreciation,
			Inactive: out.FutureValueAppreciation == 0,
			Future:   true,
		},
	}
	return out
}
