package domain

import "context"

// Severity grades violations and notifications.
type Severity string

// Severities ordered from least to most severe.
const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	// SeverityCritical blocks preview publishing.
	SeverityCritical Severity = "critical"
)

// Violation describes a single validation finding.
type Violation struct {
	Rule        string     `json:"id"`
	Severity    Severity   `json:"severity"`
	Message     string     `json:"message"`
	Description string     `json:"description"`
	Entity      EntityType `json:"entity,omitempty"`
	EntityID    int        `json:"entity_id,omitempty"`
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation `json:"violations"`
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasCritical reports whether any violation is critical.
func (r Result) HasCritical() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when critical violations block an operation.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "operation blocked by validation rules"
}

// RuleView provides read-only access to the selection under evaluation.
type RuleView interface {
	Project() Project
	SelectedUnits() []Unit
}

// Rule defines a validation step in the selection chain.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, view RuleView) (Result, error)
}

// RulesEngine orchestrates rule evaluation.
type RulesEngine struct {
	rules []Rule
}

// NewRulesEngine constructs an engine instance.
func NewRulesEngine() *RulesEngine {
	return &RulesEngine{}
}

// Register appends a rule to the engine.
func (e *RulesEngine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Rules returns the registered rules in evaluation order.
func (e *RulesEngine) Rules() []Rule {
	return append([]Rule(nil), e.rules...)
}

// Evaluate executes all registered rules and aggregates their results.
// An empty selection yields no violations.
func (e *RulesEngine) Evaluate(ctx context.Context, view RuleView) (Result, error) {
	if len(view.SelectedUnits()) == 0 {
		return Result{}, nil
	}
	var combined Result
	for _, rule := range e.rules {
		res, err := rule.Evaluate(ctx, view)
		if err != nil {
			return Result{}, err
		}
		combined.Merge(res)
	}
	return combined, nil
}
