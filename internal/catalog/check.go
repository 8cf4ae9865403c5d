package catalog

import (
	"fmt"

	"landingcore/pkg/domain"
)

// Problem is one finding of Check. Path points into the catalog, e.g.
// "units[12]".
type Problem struct {
	Path     string
	Severity domain.Severity
	Message  string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s %s: %s", p.Severity, p.Path, p.Message)
}

// Check reports record level problems the loaders accept but the engine
// cannot price or cascade correctly. Errors make a unit or project unusable;
// warnings flag inconsistent but usable data such as a stale available-unit
// counter.
func Check(c domain.Catalog) []Problem {
	var out []Problem
	add := func(sev domain.Severity, path, format string, args ...any) {
		out = append(out, Problem{Path: path, Severity: sev, Message: fmt.Sprintf(format, args...)})
	}

	areas := make(map[int]bool, len(c.Areas))
	for _, a := range c.Areas {
		areas[a.ID] = true
	}
	available := make(map[int]int, len(c.Projects))
	listed := make(map[int]int, len(c.Projects))
	for _, u := range c.Units {
		listed[u.ProjectID]++
		if u.Available() {
			available[u.ProjectID]++
		}
	}

	for i, p := range c.Projects {
		path := fmt.Sprintf("projects[%d]", i)
		if p.Name == "" {
			add(domain.SeverityError, path, "project %d has no name", p.ID)
		}
		if p.AreaID != 0 && !areas[p.AreaID] {
			add(domain.SeverityError, path, "project %d references unknown area %d", p.ID, p.AreaID)
		}
		switch p.CompletionStatus {
		case domain.CompletionOffPlan, domain.CompletionUnderConstruction:
			if p.CompletionDate.IsZero() {
				add(domain.SeverityWarning, path, "project %d is %s without a completion date", p.ID, p.CompletionStatus)
			}
		case domain.CompletionReady:
		default:
			add(domain.SeverityError, path, "project %d has unknown completion status %q", p.ID, p.CompletionStatus)
		}
		if p.TotalUnits <= 0 {
			add(domain.SeverityError, path, "project %d must have a positive total_units", p.ID)
		} else if listed[p.ID] > p.TotalUnits {
			add(domain.SeverityError, path, "project %d lists %d units but total_units is %d", p.ID, listed[p.ID], p.TotalUnits)
		}
		if p.AvailableUnits > p.TotalUnits {
			add(domain.SeverityError, path, "project %d has more available units (%d) than total units (%d)", p.ID, p.AvailableUnits, p.TotalUnits)
		}
		if p.AvailableUnits != available[p.ID] {
			add(domain.SeverityWarning, path, "project %d declares %d available units, %d are listed available", p.ID, p.AvailableUnits, available[p.ID])
		}
	}

	for i, u := range c.Units {
		path := fmt.Sprintf("units[%d]", i)
		if u.Price <= 0 {
			add(domain.SeverityError, path, "unit %d must have a positive price", u.ID)
		}
		if u.AreaSqft <= 0 {
			add(domain.SeverityError, path, "unit %d must have a positive area_sqft", u.ID)
		}
		if !u.Status.Valid() {
			add(domain.SeverityError, path, "unit %d has unknown status %q", u.ID, u.Status)
		}
		if u.Bedrooms < 0 || u.FloorLevel < 0 {
			add(domain.SeverityError, path, "unit %d has negative bedrooms or floor", u.ID)
		}
		if u.Phase == "" {
			add(domain.SeverityWarning, path, "unit %d has no phase; phase conflicts cannot be detected", u.ID)
		}
	}
	return out
}

// HasErrors reports whether any problem is an error.
func HasErrors(problems []Problem) bool {
	for _, p := range problems {
		if p.Severity == domain.SeverityError {
			return true
		}
	}
	return false
}
