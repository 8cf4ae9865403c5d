package core

// Payment constants.
const (
	CashDiscountRate  = 0.05
	InstallmentMonths = 24
	DownPaymentRate   = 0.20
)

var paymentMilestones = []struct {
	phase string
	rate  float64
}{
	{"Construction 25%", 0.25},
	{"Construction 50%", 0.25},
	{"Handover", 0.30},
}

// PaymentOptionsFor derives the cash price, monthly installment, and milestone
// plan from a final price. A non-positive price has no options.
func PaymentOptionsFor(finalPrice float64) PaymentOptions {
	if finalPrice <= 0 {
		return PaymentOptions{}
	}
	opts := PaymentOptions{
		CashPrice:          finalPrice * (1 - CashDiscountRate),
		MonthlyInstallment: finalPrice / InstallmentMonths,
		InstallmentMonths:  InstallmentMonths,
		DownPayment:        finalPrice * DownPaymentRate,
	}
	for _, m := range paymentMilestones {
		opts.Plan = append(opts.Plan, Installment{
			Phase:      m.phase,
			Percentage: m.rate * 100,
			Amount:     finalPrice * m.rate,
		})
	}
	return opts
}
