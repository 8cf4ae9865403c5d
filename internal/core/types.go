package core

import "landingcore/pkg/domain"

type (
	EntityType            = domain.EntityType
	CompletionStatus      = domain.CompletionStatus
	UnitStatus            = domain.UnitStatus
	DemandStatus          = domain.DemandStatus
	Severity              = domain.Severity
	Area                  = domain.Area
	Zone                  = domain.Zone
	Project               = domain.Project
	Unit                  = domain.Unit
	Catalog               = domain.Catalog
	Violation             = domain.Violation
	Result                = domain.Result
	Rule                  = domain.Rule
	RuleView              = domain.RuleView
	RulesEngine           = domain.RulesEngine
	RuleViolationError    = domain.RuleViolationError
	Notification          = domain.Notification
	BreakdownLine         = domain.BreakdownLine
	PriceBreakdown        = domain.PriceBreakdown
	Installment           = domain.Installment
	PaymentOptions        = domain.PaymentOptions
	FocusType             = domain.FocusType
	PersonalizationConfig = domain.PersonalizationConfig
	SelectionAnalysis     = domain.SelectionAnalysis
	AvailabilityMode      = domain.AvailabilityMode
	AvailabilitySummary   = domain.AvailabilitySummary
	SideEffect            = domain.SideEffect
	Conflict              = domain.Conflict
)

const (
	EntityArea      = domain.EntityArea
	EntityZone      = domain.EntityZone
	EntityProject   = domain.EntityProject
	EntityUnit      = domain.EntityUnit
	EntitySelection = domain.EntitySelection
)

const (
	UnitAvailable = domain.UnitAvailable
	UnitReserved  = domain.UnitReserved
	UnitSold      = domain.UnitSold
)

const (
	SeverityInfo     = domain.SeverityInfo
	SeveritySuccess  = domain.SeveritySuccess
	SeverityWarning  = domain.SeverityWarning
	SeverityError    = domain.SeverityError
	SeverityCritical = domain.SeverityCritical
)
