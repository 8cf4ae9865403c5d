package core

import (
	"strings"

	"landingcore/pkg/domain"
)

// Classifier thresholds.
const (
	luxuryPricePerSqft = 1200.0
	familyShare        = 0.5
	investmentShare    = 0.6
	dubaiArabic        = "دبي"
)

// Personalize picks the content focus for a selection. Luxury wins on price
// density, then family on the share of two-plus bedroom units, then
// investment on the share of studios and one-bedroom units.
func Personalize(units []Unit, area *Area) PersonalizationConfig {
	cfg := PersonalizationConfig{FocusType: domain.FocusStandard}
	if len(units) == 0 {
		return cfg
	}
	if area != nil {
		cfg.ShowArabicContent = strings.Contains(area.NameAR, dubaiArabic)
	}

	var price, sqft float64
	family, compact := 0, 0
	for _, u := range units {
		price += u.Price
		sqft += u.AreaSqft
		if u.Bedrooms >= 2 {
			family++
		}
		if u.Bedrooms <= 1 {
			compact++
		}
	}
	total := float64(len(units))
	switch {
	// Priced units without floor area divide to +Inf and read as luxury.
	case price/sqft > luxuryPricePerSqft:
		cfg.FocusType = domain.FocusLuxury
	case float64(family)/total > familyShare:
		cfg.FocusType = domain.FocusFamily
	case float64(compact)/total > investmentShare:
		cfg.FocusType = domain.FocusInvestment
	}
	return cfg
}
