package domain

// BreakdownLine is one row of the price breakdown shown to buyers.
type BreakdownLine struct {
	Label    string  `json:"label"`
	Value    float64 `json:"value"`
	Bold     bool    `json:"is_bold,omitempty"`
	Total    bool    `json:"is_total,omitempty"`
	Discount bool    `json:"is_discount,omitempty"`
	Inactive bool    `json:"inactive,omitempty"`
	Future   bool    `json:"is_future,omitempty"`
}

// PriceBreakdown is the full pricing result for a selection. All amounts are AED.
type PriceBreakdown struct {
	BasePrice               float64         `json:"base_price"`
	FloorPremium            float64         `json:"floor_premium"`
	BalconyPremium          float64         `json:"balcony_premium"`
	ParkingFee              float64         `json:"parking_fee"`
	Subtotal                float64         `json:"subtotal"`
	SelectionPercentage     float64         `json:"selection_percentage"`
	BulkDiscount            float64         `json:"bulk_discount"`
	BulkDiscountEligible    bool            `json:"bulk_discount_eligible"`
	FutureValueAppreciation float64         `json:"future_value_appreciation"`
	FinalPrice              float64         `json:"final_price"`
	Lines                   []BreakdownLine `json:"breakdown"`
}

// Clone copies the breakdown including its lines.
func (p PriceBreakdown) Clone() PriceBreakdown {
	cp := p
	cp.Lines = append([]BreakdownLine(nil), p.Lines...)
	return cp
}

// Installment is one milestone of a payment plan.
type Installment struct {
	Phase      string  `json:"phase"`
	Percentage float64 `json:"percentage"`
	Amount     float64 `json:"amount"`
}

// PaymentOptions lists the ways a buyer can settle the final price.
type PaymentOptions struct {
	CashPrice          float64       `json:"cash_price"`
	MonthlyInstallment float64       `json:"monthly_installment"`
	InstallmentMonths  int           `json:"installment_months"`
	DownPayment        float64       `json:"down_payment"`
	Plan               []Installment `json:"plan,omitempty"`
}

// FocusType tags the content personalization of a preview.
type FocusType string

// Known focus types.
const (
	FocusStandard   FocusType = "standard"
	FocusInvestment FocusType = "investment"
	FocusFamily     FocusType = "family"
	FocusLuxury     FocusType = "luxury"
)

// PersonalizationConfig drives the marketing content of the preview.
type PersonalizationConfig struct {
	FocusType         FocusType `json:"focus_type"`
	ShowArabicContent bool      `json:"show_arabic_content"`
}

// SelectionAnalysis summarises the composition of a selection.
type SelectionAnalysis struct {
	TotalArea          float64 `json:"total_area_sqft"`
	AvgPricePerUnit    float64 `json:"avg_price_per_unit"`
	AvgPricePerSqft    float64 `json:"avg_price_per_sqft"`
	LuxuryUnits        int     `json:"luxury_units"`
	LuxuryUnitsPercent float64 `json:"luxury_units_percent"`
	SelectionProgress  float64 `json:"selection_progress"`
}
