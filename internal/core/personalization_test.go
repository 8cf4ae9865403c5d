package core

import (
	"testing"

	"landingcore/pkg/domain"
)

func TestPersonalize(t *testing.T) {
	unit := func(bedrooms int, price, sqft float64) Unit {
		return Unit{Bedrooms: bedrooms, Price: price, AreaSqft: sqft}
	}
	dubai := &Area{ID: 1, NameEN: "Downtown Dubai", NameAR: "وسط مدينة دبي"}
	abuDhabi := &Area{ID: 9, NameEN: "Saadiyat", NameAR: "السعديات أبوظبي"}

	cases := []struct {
		name       string
		units      []Unit
		area       *Area
		wantFocus  FocusType
		wantArabic bool
	}{
		{name: "empty", area: dubai, wantFocus: domain.FocusStandard},
		{name: "luxury by price density", units: []Unit{unit(1, 2_000_000, 1000)}, area: dubai, wantFocus: domain.FocusLuxury, wantArabic: true},
		{name: "family majority", units: []Unit{unit(2, 1_000_000, 1000), unit(3, 1_000_000, 1000), unit(0, 500_000, 500)}, wantFocus: domain.FocusFamily},
		{name: "investment majority", units: []Unit{unit(0, 500_000, 500), unit(1, 700_000, 700), unit(2, 1_000_000, 1000)}, area: abuDhabi, wantFocus: domain.FocusInvestment},
		{name: "balanced is standard", units: []Unit{unit(1, 700_000, 700), unit(2, 1_000_000, 1000)}, wantFocus: domain.FocusStandard},
		{name: "luxury beats family", units: []Unit{unit(3, 4_000_000, 2000), unit(3, 4_000_000, 2000)}, wantFocus: domain.FocusLuxury},
		{name: "zero area reads as luxury", units: []Unit{unit(3, 4_000_000, 0)}, wantFocus: domain.FocusLuxury},
		{name: "zero price and area falls through", units: []Unit{unit(3, 0, 0)}, wantFocus: domain.FocusFamily},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Personalize(tc.units, tc.area)
			if got.FocusType != tc.wantFocus || got.ShowArabicContent != tc.wantArabic {
				t.Fatalf("Personalize = %+v, want focus %s arabic %v", got, tc.wantFocus, tc.wantArabic)
			}
		})
	}
}
