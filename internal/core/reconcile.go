package core

import (
	"fmt"
	"sort"

	"landingcore/pkg/domain"
)

// ReconcileReport is the outcome of comparing a cached unit list with a fresh one.
type ReconcileReport struct {
	// Changed lists every unit whose price or status differs between the two
	// lists, plus units that disappeared, sorted by ID.
	Changed       []int
	Conflicts     []Conflict
	Notifications []Notification
}

// HasConflicts reports whether any selected unit diverged.
func (r ReconcileReport) HasConflicts() bool { return len(r.Conflicts) > 0 }

var conflictOrder = map[domain.ConflictKind]int{
	domain.ConflictRemoved:       0,
	domain.ConflictStatusChanged: 1,
	domain.ConflictPriceChanged:  2,
}

// Reconcile diffs cached against fresh and reports conflicts for the selected
// units. Selected units are compared as the buyer last saw them, so changes
// that were already applied to the cached list but not to the selection are
// still surfaced.
func Reconcile(cached, fresh, selected []Unit) ReconcileReport {
	freshByID := make(map[int]Unit, len(fresh))
	for _, u := range fresh {
		freshByID[u.ID] = u
	}

	var report ReconcileReport
	for _, old := range cached {
		now, ok := freshByID[old.ID]
		if !ok || now.Price != old.Price || now.Status != old.Status {
			report.Changed = append(report.Changed, old.ID)
		}
	}
	sort.Ints(report.Changed)

	for _, sel := range selected {
		now, ok := freshByID[sel.ID]
		if !ok {
			report.Conflicts = append(report.Conflicts, Conflict{
				UnitID:     sel.ID,
				UnitNumber: sel.Number,
				Kind:       domain.ConflictRemoved,
				Severity:   SeverityError,
				OldStatus:  sel.Status,
			})
			continue
		}
		if now.Status != sel.Status {
			sev := SeverityWarning
			if !now.Available() {
				sev = SeverityError
			}
			report.Conflicts = append(report.Conflicts, Conflict{
				UnitID:     sel.ID,
				UnitNumber: sel.Number,
				Kind:       domain.ConflictStatusChanged,
				Severity:   sev,
				OldStatus:  sel.Status,
				NewStatus:  now.Status,
			})
		}
		if now.Price != sel.Price {
			report.Conflicts = append(report.Conflicts, Conflict{
				UnitID:     sel.ID,
				UnitNumber: sel.Number,
				Kind:       domain.ConflictPriceChanged,
				Severity:   SeverityWarning,
				OldPrice:   sel.Price,
				NewPrice:   now.Price,
			})
		}
	}

	sort.SliceStable(report.Conflicts, func(i, j int) bool {
		a, b := report.Conflicts[i], report.Conflicts[j]
		if a.UnitID != b.UnitID {
			return a.UnitID < b.UnitID
		}
		return conflictOrder[a.Kind] < conflictOrder[b.Kind]
	})
	for _, c := range report.Conflicts {
		report.Notifications = append(report.Notifications, conflictNotification(c))
	}
	return report
}

func conflictNotification(c Conflict) Notification {
	switch c.Kind {
	case domain.ConflictRemoved:
		return Notification{
			Severity:    c.Severity,
			Message:     fmt.Sprintf("Unit %s is no longer listed", c.UnitNumber),
			Description: "The unit was withdrawn from the inventory and removed from your selection.",
		}
	case domain.ConflictStatusChanged:
		return Notification{
			Severity:    c.Severity,
			Message:     fmt.Sprintf("Status changed for unit %s", c.UnitNumber),
			Description: fmt.Sprintf("Old: %s, New: %s", c.OldStatus, c.NewStatus),
		}
	default:
		return Notification{
			Severity:    c.Severity,
			Message:     fmt.Sprintf("Price changed for unit %s", c.UnitNumber),
			Description: fmt.Sprintf("Old: %s, New: %s", FormatAED(c.OldPrice), FormatAED(c.NewPrice)),
		}
	}
}
