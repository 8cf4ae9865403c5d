package core

import (
	"sort"
	"time"
)

// CountdownView is a running reservation hold rendered for display.
type CountdownView struct {
	UnitID    int    `json:"unit_id"`
	Seconds   int    `json:"seconds"`
	Formatted string `json:"formatted"`
}

// PreviewDocument is the assembled landing page for the current selection.
type PreviewDocument struct {
	GeneratedAt     time.Time             `json:"generated_at"`
	Project         Project               `json:"project"`
	Area            *Area                 `json:"area,omitempty"`
	Zone            *Zone                 `json:"zone,omitempty"`
	Units           []Unit                `json:"units"`
	Pricing         PriceBreakdown        `json:"pricing"`
	FormattedTotal  string                `json:"formatted_total"`
	Payment         PaymentOptions        `json:"payment"`
	Analysis        SelectionAnalysis     `json:"analysis"`
	Availability    AvailabilitySummary   `json:"availability"`
	Mode            AvailabilityMode      `json:"availability_mode"`
	Personalization PersonalizationConfig `json:"personalization"`
	Violations      []Violation           `json:"validation_errors"`
	Countdowns      []CountdownView       `json:"countdowns"`
	Notifications   []Notification        `json:"notifications"`
}

// HasCritical reports whether the preview carries a blocking violation.
func (d PreviewDocument) HasCritical() bool {
	return Result{Violations: d.Violations}.HasCritical()
}

// Preview assembles the landing page document for the selected project.
func (s *Session) Preview() (PreviewDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.project == nil {
		return PreviewDocument{}, ErrNoProject
	}
	st := s.snapshotLocked()
	project := *st.Project

	doc := PreviewDocument{
		GeneratedAt:     s.nowFn(),
		Project:         project,
		Units:           st.SelectedUnits,
		Pricing:         st.Pricing,
		FormattedTotal:  FormatAED(st.Pricing.FinalPrice),
		Payment:         PaymentOptionsFor(st.Pricing.FinalPrice),
		Analysis:        AnalyzeSelection(st.SelectedUnits, &project),
		Availability:    SummarizeAvailability(project, s.catalog.ListUnits(project.ID)),
		Mode:            st.AvailabilityMode,
		Personalization: st.Personalization,
		Violations:      st.Violations,
		Notifications:   st.Notifications,
	}
	if a, ok := s.catalog.GetArea(project.AreaID); ok {
		doc.Area = &a
	}
	if z, ok := s.catalog.GetZone(project.ZoneID); ok {
		doc.Zone = &z
	}
	for id, seconds := range st.Countdowns {
		doc.Countdowns = append(doc.Countdowns, CountdownView{UnitID: id, Seconds: seconds, Formatted: FormatCountdown(seconds)})
	}
	sort.Slice(doc.Countdowns, func(i, j int) bool { return doc.Countdowns[i].UnitID < doc.Countdowns[j].UnitID })
	return doc, nil
}
