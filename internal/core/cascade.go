package core

import (
	"fmt"

	"landingcore/pkg/domain"
)

// ReservationHold is how long a reserved unit is held before the countdown lapses.
const ReservationHold = 48 * 60 * 60

// ProjectZones maps project IDs to the zone they are built in.
type ProjectZones map[int]int

// NewProjectZones indexes the zone of every project.
func NewProjectZones(projects []Project) ProjectZones {
	out := make(ProjectZones, len(projects))
	for _, p := range projects {
		out[p.ID] = p.ZoneID
	}
	return out
}

// AvailabilityCascade computes the side effects of reserving updated. It must
// be evaluated against the unit list as it was before the status change.
//
// Similar units are those of the same type key anywhere in all. When updated
// is the last available similar unit, every other available unit in the
// project's zone with at least as many bedrooms is flagged as high demand.
// Independently, the project enters limited availability once its available
// count minus the reserved unit falls below LimitedAvailabilityPercent of its
// inventory.
func AvailabilityCascade(updated Unit, all []Unit, project Project, zones ProjectZones) []SideEffect {
	var effects []SideEffect

	inZone := func(u Unit) bool {
		zone, ok := zones[u.ProjectID]
		return ok && zone == project.ZoneID
	}

	key := updated.TypeKey()
	var similar []Unit
	for _, u := range all {
		if u.TypeKey() == key && u.Available() {
			similar = append(similar, u)
		}
	}
	if len(similar) == 1 && similar[0].ID == updated.ID {
		var marked []int
		for _, u := range all {
			if u.ID == updated.ID || !u.Available() || u.Bedrooms < updated.Bedrooms || !inZone(u) {
				continue
			}
			marked = append(marked, u.ID)
		}
		if len(marked) > 0 {
			effects = append(effects, SideEffect{
				Kind:         domain.SideEffectMarkHighDemand,
				UnitIDs:      marked,
				Notification: fmt.Sprintf("Last %s unit reserved. Similar units are now in high demand!", key),
			})
		}
	}

	remaining := -1
	for _, u := range all {
		if u.ProjectID == project.ID && u.Available() {
			remaining++
		}
	}
	if project.TotalUnits > 0 && selectionPercentage(remaining, project) < LimitedAvailabilityPercent {
		effects = append(effects, SideEffect{
			Kind:         domain.SideEffectLimitedAvailability,
			Notification: fmt.Sprintf("Warning: Only %d units left. Limited availability mode active.", remaining),
		})
	}
	return effects
}
