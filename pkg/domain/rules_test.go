package domain

import (
	"context"
	"errors"
	"testing"
)

func TestResultMergeAndCritical(t *testing.T) {
	var result Result
	result.Merge(Result{Violations: []Violation{{Rule: "warn", Severity: SeverityWarning}}})
	if result.HasCritical() {
		t.Fatalf("expected no critical violations")
	}
	result.Merge(Result{Violations: []Violation{{Rule: "block", Severity: SeverityCritical}}})
	if !result.HasCritical() {
		t.Fatalf("expected critical violation")
	}
	err := RuleViolationError{Result: result}
	if err.Error() == "" {
		t.Fatalf("expected error string")
	}
}

func TestResultMergeEmptyInput(t *testing.T) {
	original := Result{Violations: []Violation{{Rule: "existing", Severity: SeverityWarning}}}
	original.Merge(Result{})
	if len(original.Violations) != 1 || original.Violations[0].Rule != "existing" {
		t.Fatalf("expected original violations to remain, got %+v", original.Violations)
	}
}

func TestRulesEngineEvaluate(t *testing.T) {
	engine := NewRulesEngine()
	engine.Register(staticRule{"first"})
	engine.Register(staticRule{"second"})
	res, err := engine.Evaluate(context.Background(), selectionView{units: []Unit{{ID: 1}}})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(res.Violations) != 2 || res.Violations[0].Rule != "first" || res.Violations[1].Rule != "second" {
		t.Fatalf("expected violations in registration order, got %+v", res.Violations)
	}
	if got := len(engine.Rules()); got != 2 {
		t.Fatalf("expected 2 rules, got %d", got)
	}
}

func TestRulesEngineSkipsEmptySelection(t *testing.T) {
	engine := NewRulesEngine()
	engine.Register(errorRule{})
	res, err := engine.Evaluate(context.Background(), selectionView{})
	if err != nil || len(res.Violations) != 0 {
		t.Fatalf("empty selection should not be evaluated: %+v %v", res, err)
	}
}

func TestRulesEngineEvaluateError(t *testing.T) {
	engine := NewRulesEngine()
	engine.Register(staticRule{"warn"})
	engine.Register(errorRule{})
	res, err := engine.Evaluate(context.Background(), selectionView{units: []Unit{{ID: 1}}})
	if err == nil {
		t.Fatalf("expected evaluation error")
	}
	if len(res.Violations) != 0 {
		t.Fatalf("failed evaluation should not return partial results, got %+v", res)
	}
}

type staticRule struct{ name string }

func (r staticRule) Name() string { return r.name }

func (r staticRule) Evaluate(context.Context, RuleView) (Result, error) {
	return Result{Violations: []Violation{{Rule: r.name, Severity: SeverityWarning}}}, nil
}

type errorRule struct{}

func (errorRule) Name() string { return "error" }

func (errorRule) Evaluate(context.Context, RuleView) (Result, error) {
	return Result{}, errors.New("boom")
}

type selectionView struct{ units []Unit }

func (selectionView) Project() Project        { return Project{ID: 1} }
func (v selectionView) SelectedUnits() []Unit { return v.units }
