package core

import (
	"context"
	"fmt"

	"landingcore/pkg/domain"
)

const luxuryLimitPercent = 40.0

// NewLuxuryLimitRule blocks portfolios dominated by fully-featured large units.
func NewLuxuryLimitRule() Rule {
	return luxuryLimitRule{}
}

type luxuryLimitRule struct{}

func (luxuryLimitRule) Name() string { return "luxury_limit" }

func isLuxuryUnit(u Unit) bool {
	return u.HasBalcony && u.HasParking && u.Bedrooms >= 4
}

func (r luxuryLimitRule) Evaluate(_ context.Context, view RuleView) (Result, error) {
	units := view.SelectedUnits()
	if len(units) == 0 {
		return Result{}, nil
	}
	luxury := 0
	for _, u := range units {
		if isLuxuryUnit(u) {
			luxury++
		}
	}
	pct := float64(luxury) / float64(len(units)) * 100

	res := Result{}
	if pct > luxuryLimitPercent {
		res.Violations = append(res.Violations, Violation{
			Rule:        r.Name(),
			Severity:    SeverityCritical,
			Message:     "Luxury Unit Limit Exceeded",
			Description: fmt.Sprintf("Your selection has %.0f%% luxury units, exceeding the 40%% limit for balanced portfolios.", pct),
			Entity:      domain.EntitySelection,
		})
	}
	return res, nil
}
