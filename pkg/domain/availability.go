package domain

// AvailabilityMode switches the preview into scarcity messaging.
type AvailabilityMode string

// Availability modes.
const (
	AvailabilityStandard AvailabilityMode = "standard"
	AvailabilityLimited  AvailabilityMode = "limited_availability"
)

// SideEffectKind names a follow-up instruction emitted by the availability cascade.
type SideEffectKind string

// Cascade side effects.
const (
	SideEffectMarkHighDemand      SideEffectKind = "MARK_HIGH_DEMAND"
	SideEffectLimitedAvailability SideEffectKind = "TRIGGER_LIMITED_AVAILABILITY"
)

// SideEffect is an instruction to apply after a unit status change.
type SideEffect struct {
	Kind         SideEffectKind `json:"type"`
	UnitIDs      []int          `json:"payload,omitempty"`
	Notification string         `json:"notification"`
}

// AvailabilitySummary describes how much of a project is still on sale.
type AvailabilitySummary struct {
	Available int     `json:"available"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
	Limited   bool    `json:"limited"`
}

// ConflictKind classifies a divergence found during reconciliation.
type ConflictKind string

// Conflict kinds.
const (
	ConflictPriceChanged  ConflictKind = "price_changed"
	ConflictStatusChanged ConflictKind = "status_changed"
	ConflictRemoved       ConflictKind = "removed"
)

// Conflict is a divergence between the cached and fresh record of a selected unit.
type Conflict struct {
	UnitID     int          `json:"unit_id"`
	UnitNumber string       `json:"unit_number"`
	Kind       ConflictKind `json:"kind"`
	Severity   Severity     `json:"severity"`
	OldPrice   float64      `json:"old_price,omitempty"`
	NewPrice   float64      `json:"new_price,omitempty"`
	OldStatus  UnitStatus   `json:"old_status,omitempty"`
	NewStatus  UnitStatus   `json:"new_status,omitempty"`
}
