package core

import (
	"context"

	"landingcore/pkg/domain"
)

// NewRulesEngine constructs an empty engine.
func NewRulesEngine() *RulesEngine {
	return domain.NewRulesEngine()
}

func defaultRules() []Rule {
	return []Rule{
		NewAreaRatioRule(),
		NewLuxuryLimitRule(),
		NewPhaseConflictRule(),
	}
}

// NewDefaultRulesEngine builds a rules engine with the built-in validation chain.
func NewDefaultRulesEngine() *RulesEngine {
	engine := NewRulesEngine()
	for _, rule := range defaultRules() {
		engine.Register(rule)
	}
	return engine
}

// selectionView exposes a project and its selected units to rules.
type selectionView struct {
	project Project
	units   []Unit
}

func newSelectionView(project Project, units []Unit) selectionView {
	return selectionView{project: domain.CloneProject(project), units: append([]Unit(nil), units...)}
}

func (v selectionView) Project() Project { return domain.CloneProject(v.project) }

func (v selectionView) SelectedUnits() []Unit { return append([]Unit(nil), v.units...) }

// ValidateSelection runs the engine over a selection. A nil project or empty
// selection yields no violations.
func ValidateSelection(ctx context.Context, engine *RulesEngine, project *Project, units []Unit) (Result, error) {
	if engine == nil || project == nil || len(units) == 0 {
		return Result{}, nil
	}
	return engine.Evaluate(ctx, newSelectionView(*project, units))
}
