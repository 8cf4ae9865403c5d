package core

import (
	"context"
	"fmt"
	"strings"

	"landingcore/pkg/domain"
)

// NewPhaseConflictRule flags selections spanning several construction phases,
// which usually hand over on different dates.
func NewPhaseConflictRule() Rule {
	return phaseConflictRule{}
}

type phaseConflictRule struct{}

func (phaseConflictRule) Name() string { return "phase_conflict" }

func (r phaseConflictRule) Evaluate(_ context.Context, view RuleView) (Result, error) {
	seen := make(map[string]struct{})
	var phases []string
	for _, u := range view.SelectedUnits() {
		if _, ok := seen[u.Phase]; ok {
			continue
		}
		seen[u.Phase] = struct{}{}
		phases = append(phases, u.Phase)
	}

	res := Result{}
	if len(phases) > 1 {
		res.Violations = append(res.Violations, Violation{
			Rule:        r.Name(),
			Severity:    SeverityCritical,
			Message:     "Multiple Project Phases Selected",
			Description: fmt.Sprintf("You've selected units from different phases (%s), which may have different handover dates.", strings.Join(phases, ", ")),
			Entity:      domain.EntitySelection,
		})
	}
	return res, nil
}
