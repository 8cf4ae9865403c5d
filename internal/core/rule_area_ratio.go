package core

import (
	"context"

	"landingcore/pkg/domain"
)

const (
	areaRatioShare     = 0.05
	areaRatioFloorSqft = 5000.0
)

// NewAreaRatioRule warns when the selected floor area is a large share of the
// project's estimated total area.
func NewAreaRatioRule() Rule {
	return areaRatioRule{}
}

type areaRatioRule struct{}

func (areaRatioRule) Name() string { return "area_ratio" }

func (r areaRatioRule) Evaluate(_ context.Context, view RuleView) (Result, error) {
	units := view.SelectedUnits()
	project := view.Project()
	if len(units) == 0 {
		return Result{}, nil
	}
	var total float64
	for _, u := range units {
		total += u.AreaSqft
	}
	// A project without inventory has no estimated area, so only the floor applies.
	var estimated float64
	if project.TotalUnits > 0 {
		estimated = float64(project.TotalUnits) * total / float64(len(units))
	}

	res := Result{}
	if total > estimated*areaRatioShare && total > areaRatioFloorSqft {
		res.Violations = append(res.Violations, Violation{
			Rule:        r.Name(),
			Severity:    SeverityWarning,
			Message:     "High Common Area Ratio",
			Description: "The selected portfolio has a high total area, potentially impacting service charges. Please review.",
			Entity:      domain.EntityProject,
			EntityID:    project.ID,
		})
	}
	return res, nil
}
