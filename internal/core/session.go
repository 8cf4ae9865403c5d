package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"landingcore/pkg/domain"
)

var (
	// ErrNoProject is returned when an event needs a selected project.
	ErrNoProject = errors.New("no project selected")
	// ErrUnitUnavailable is returned when selecting a unit that is not on sale.
	ErrUnitUnavailable = errors.New("unit is not available")
	// ErrUnitNotInProject is returned when selecting a unit of another project.
	ErrUnitNotInProject = errors.New("unit does not belong to the selected project")
)

// State is a copy of the session view-state handed to presentation layers.
type State struct {
	Project              *Project              `json:"project,omitempty"`
	SelectedUnits        []Unit                `json:"selected_units"`
	Pricing              PriceBreakdown        `json:"pricing"`
	BulkDiscountEligible bool                  `json:"bulk_discount_eligible"`
	Personalization      PersonalizationConfig `json:"personalization"`
	AvailabilityMode     AvailabilityMode      `json:"availability_mode"`
	Countdowns           map[int]int           `json:"countdowns"`
	Violations           []Violation           `json:"validation_errors"`
	Notifications        []Notification        `json:"notifications"`
}

// SessionOption customises a Session.
type SessionOption func(*Session)

// WithSessionClock overrides the time source used for pricing and notifications.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		if now != nil {
			s.nowFn = now
		}
	}
}

// WithSessionRules replaces the default validation chain.
func WithSessionRules(engine *RulesEngine) SessionOption {
	return func(s *Session) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithNotificationIDs overrides notification ID generation.
func WithNotificationIDs(fn func() string) SessionOption {
	return func(s *Session) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// Session is the builder state machine. Events are applied one at a time;
// pricing, personalization, and validation are recomputed after every event
// that touches the selection.
type Session struct {
	mu      sync.Mutex
	catalog *CatalogStore
	engine  *RulesEngine
	nowFn   func() time.Time
	newID   func() string

	project         *Project
	selected        []Unit
	pricing         PriceBreakdown
	personalization PersonalizationConfig
	mode            AvailabilityMode
	countdowns      map[int]int
	violations      []Violation
	notifications   []Notification
}

// NewSession constructs a session over the catalog store.
func NewSession(catalog *CatalogStore, opts ...SessionOption) *Session {
	if catalog == nil {
		catalog = NewCatalogStore()
	}
	s := &Session{
		catalog:         catalog,
		engine:          NewDefaultRulesEngine(),
		nowFn:           func() time.Time { return time.Now().UTC() },
		newID:           uuid.NewString,
		personalization: PersonalizationConfig{FocusType: domain.FocusStandard},
		mode:            domain.AvailabilityStandard,
		countdowns:      make(map[int]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the master data store backing the session.
func (s *Session) Catalog() *CatalogStore {
	return s.catalog
}

// LoadCatalog replaces the master data. The selected project and units are
// kept when they still exist; vanished units drop out of the selection.
func (s *Session) LoadCatalog(ctx context.Context, c Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog.Import(c)
	if s.project == nil {
		return nil
	}
	p, ok := s.catalog.GetProject(s.project.ID)
	if !ok {
		s.resetSelection()
		return nil
	}
	s.project = &p
	s.refreshSelected(false)
	return s.recompute(ctx)
}

func (s *Session) resetSelection() {
	s.project = nil
	s.selected = nil
	s.pricing = PriceBreakdown{}
	s.personalization = PersonalizationConfig{FocusType: domain.FocusStandard}
	s.violations = nil
}

// SelectProject switches the builder to a project, clearing the selection.
func (s *Session) SelectProject(ctx context.Context, id int) (Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.catalog.GetProject(id)
	if !ok {
		return Project{}, ErrNotFound{Entity: EntityProject, ID: id}
	}
	s.resetSelection()
	s.project = &p
	s.push(Notification{
		Severity:    SeveritySuccess,
		Message:     fmt.Sprintf("Project %q selected", p.Name),
		Description: fmt.Sprintf("%d units available for selection", p.AvailableUnits),
	})
	return domain.CloneProject(p), s.recompute(ctx)
}

// checkSelectable validates that a unit can be added to the selection.
func (s *Session) checkSelectable(id int) (Unit, error) {
	u, ok := s.catalog.GetUnit(id)
	if !ok {
		return Unit{}, ErrNotFound{Entity: EntityUnit, ID: id}
	}
	if u.ProjectID != s.project.ID {
		return Unit{}, fmt.Errorf("unit %d: %w", id, ErrUnitNotInProject)
	}
	if !u.Available() {
		return Unit{}, fmt.Errorf("unit %d: %w", id, ErrUnitUnavailable)
	}
	return u, nil
}

// SetSelectedUnits replaces the selection. Every unit must be available and
// belong to the selected project; duplicates collapse. Units that are already
// selected stay selected even if their status has since changed.
func (s *Session) SetSelectedUnits(ctx context.Context, ids []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.project == nil {
		return ErrNoProject
	}
	current := make(map[int]Unit, len(s.selected))
	for _, u := range s.selected {
		current[u.ID] = u
	}
	seen := make(map[int]struct{}, len(ids))
	next := make([]Unit, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if u, ok := current[id]; ok {
			next = append(next, u)
			continue
		}
		u, err := s.checkSelectable(id)
		if err != nil {
			return err
		}
		next = append(next, u)
	}
	s.selected = next
	return s.recompute(ctx)
}

// ToggleUnit adds or removes a unit and reports whether it is now selected.
func (s *Session) ToggleUnit(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.project == nil {
		return false, ErrNoProject
	}
	for i, u := range s.selected {
		if u.ID == id {
			s.selected = append(s.selected[:i:i], s.selected[i+1:]...)
			return false, s.recompute(ctx)
		}
	}
	u, err := s.checkSelectable(id)
	if err != nil {
		return false, err
	}
	s.selected = append(s.selected, u)
	return true, s.recompute(ctx)
}

// UpdateUnitStatus changes a unit's sales state. Reserving a unit starts the
// hold countdown and applies the availability cascade.
func (s *Session) UpdateUnitStatus(ctx context.Context, id int, status UnitStatus) ([]SideEffect, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid unit status %q", status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.project == nil {
		return nil, ErrNoProject
	}
	project := *s.project
	zones := s.catalog.ProjectZones()

	var effects []SideEffect
	err := s.catalog.RunInTransaction(ctx, func(tx *CatalogTx) error {
		unit, ok := tx.FindUnit(id)
		if !ok {
			return ErrNotFound{Entity: EntityUnit, ID: id}
		}
		if status == UnitReserved {
			effects = AvailabilityCascade(unit, tx.Units(0), project, zones)
		}
		if _, err := tx.UpdateUnit(id, func(u *Unit) error {
			u.Status = status
			return nil
		}); err != nil {
			return err
		}
		for _, effect := range effects {
			if effect.Kind != domain.SideEffectMarkHighDemand {
				continue
			}
			for _, markID := range effect.UnitIDs {
				if _, err := tx.UpdateUnit(markID, func(u *Unit) error {
					u.DemandStatus = domain.DemandHigh
					return nil
				}); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if status == UnitReserved {
		s.countdowns[id] = ReservationHold
	} else {
		delete(s.countdowns, id)
	}
	for _, effect := range effects {
		if effect.Kind == domain.SideEffectLimitedAvailability {
			s.mode = domain.AvailabilityLimited
		}
		s.push(Notification{Severity: SeverityWarning, Message: effect.Notification})
	}
	s.refreshSelected(false)
	return effects, s.recompute(ctx)
}

// StartCountdown sets the remaining hold time of a unit in seconds.
func (s *Session) StartCountdown(id, seconds int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countdowns[id] = seconds
}

// Tick advances every countdown by one second. A countdown that already
// reached zero is removed; the removed unit IDs are returned sorted.
func (s *Session) Tick() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var expired []int
	for id, remaining := range s.countdowns {
		if remaining > 0 {
			s.countdowns[id] = remaining - 1
			continue
		}
		delete(s.countdowns, id)
		expired = append(expired, id)
	}
	sort.Ints(expired)
	return expired
}

// push stamps and prepends a notification. Callers must hold s.mu.
func (s *Session) push(n Notification) Notification {
	if n.ID == "" {
		n.ID = s.newID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.nowFn()
	}
	s.notifications = append([]Notification{n}, s.notifications...)
	return n
}

// AddNotification prepends a notification, assigning an ID and timestamp when missing.
func (s *Session) AddNotification(n Notification) Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.push(n)
}

// RemoveNotification drops a notification by ID and reports whether it existed.
func (s *Session) RemoveNotification(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i:i], s.notifications[i+1:]...)
			return true
		}
	}
	return false
}

// ClearNotifications drops every notification.
func (s *Session) ClearNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = nil
}

// ApplyPriceUpdate records an externally changed unit price in the catalog and
// the selection, then notifies the buyer.
func (s *Session) ApplyPriceUpdate(ctx context.Context, id int, price float64) (Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyPriceUpdate(ctx, id, price)
}

// applyPriceUpdate requires s.mu.
func (s *Session) applyPriceUpdate(ctx context.Context, id int, price float64) (Notification, error) {
	var before Unit
	err := s.catalog.RunInTransaction(ctx, func(tx *CatalogTx) error {
		var ok bool
		before, ok = tx.FindUnit(id)
		if !ok {
			return ErrNotFound{Entity: EntityUnit, ID: id}
		}
		_, err := tx.UpdateUnit(id, func(u *Unit) error {
			u.Price = price
			return nil
		})
		return err
	})
	if err != nil {
		return Notification{}, err
	}
	for i := range s.selected {
		if s.selected[i].ID == id {
			s.selected[i].Price = price
		}
	}
	n := s.push(Notification{
		Severity:    SeverityWarning,
		Message:     fmt.Sprintf("Price changed for unit %s", before.Number),
		Description: fmt.Sprintf("Old: %s, New: %s", FormatAED(before.Price), FormatAED(price)),
	})
	return n, s.recompute(ctx)
}

// ApplyConcurrentSale marks a unit as sold by another buyer. The selection is
// left untouched; Refresh surfaces the conflict if the unit was selected.
func (s *Session) ApplyConcurrentSale(ctx context.Context, id int) (Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyConcurrentSale(ctx, id)
}

// applyConcurrentSale requires s.mu.
func (s *Session) applyConcurrentSale(ctx context.Context, id int) (Notification, error) {
	var sold Unit
	err := s.catalog.RunInTransaction(ctx, func(tx *CatalogTx) error {
		var err error
		sold, err = tx.UpdateUnit(id, func(u *Unit) error {
			u.Status = UnitSold
			return nil
		})
		return err
	})
	if err != nil {
		return Notification{}, err
	}
	delete(s.countdowns, id)
	projectName := ""
	if p, ok := s.catalog.GetProject(sold.ProjectID); ok {
		projectName = p.Name
	}
	return s.push(Notification{
		Severity:    SeverityError,
		Message:     fmt.Sprintf("Unit %s was just sold!", sold.Number),
		Description: fmt.Sprintf("This unit is no longer available in %s.", projectName),
	}), nil
}

// Refresh reconciles the catalog with a freshly fetched unit list. Selected
// units that were sold or withdrawn leave the selection; the others pick up
// the fresh price and status.
func (s *Session) Refresh(ctx context.Context, fresh []Unit) (ReconcileReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	report := Reconcile(s.catalog.ListUnits(0), fresh, s.selected)
	if err := s.catalog.RunInTransaction(ctx, func(tx *CatalogTx) error {
		tx.ReplaceUnits(fresh)
		return nil
	}); err != nil {
		return ReconcileReport{}, err
	}
	for i, n := range report.Notifications {
		report.Notifications[i] = s.push(n)
	}
	if s.project != nil {
		if p, ok := s.catalog.GetProject(s.project.ID); ok {
			s.project = &p
		}
	}
	s.refreshSelected(true)
	return report, s.recompute(ctx)
}

// refreshSelected reloads the selected copies from the catalog. With
// dropSold, sold units leave the selection; missing units always do.
// Callers must hold s.mu.
func (s *Session) refreshSelected(dropSold bool) {
	next := s.selected[:0:0]
	for _, sel := range s.selected {
		u, ok := s.catalog.GetUnit(sel.ID)
		if !ok {
			continue
		}
		if dropSold && u.Status == UnitSold {
			continue
		}
		next = append(next, u)
	}
	s.selected = next
}

// recompute derives pricing, personalization, and validation from the
// selection. Callers must hold s.mu.
func (s *Session) recompute(ctx context.Context) error {
	if s.project == nil || len(s.selected) == 0 {
		s.pricing = PriceBreakdown{}
		s.personalization = PersonalizationConfig{FocusType: domain.FocusStandard}
		s.violations = nil
		return nil
	}
	s.pricing = CalculatePricing(s.selected, s.project, s.nowFn())
	var area *Area
	if a, ok := s.catalog.GetArea(s.project.AreaID); ok {
		area = &a
	}
	s.personalization = Personalize(s.selected, area)
	res, err := ValidateSelection(ctx, s.engine, s.project, s.selected)
	if err != nil {
		return fmt.Errorf("validate selection: %w", err)
	}
	s.violations = res.Violations
	return nil
}

// Snapshot returns a copy of the current view-state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() State {
	st := State{
		SelectedUnits:        append([]Unit(nil), s.selected...),
		Pricing:              s.pricing.Clone(),
		BulkDiscountEligible: s.pricing.BulkDiscountEligible,
		Personalization:      s.personalization,
		AvailabilityMode:     s.mode,
		Countdowns:           make(map[int]int, len(s.countdowns)),
		Violations:           append([]Violation(nil), s.violations...),
		Notifications:        append([]Notification(nil), s.notifications...),
	}
	if s.project != nil {
		p := domain.CloneProject(*s.project)
		st.Project = &p
	}
	for id, remaining := range s.countdowns {
		st.Countdowns[id] = remaining
	}
	return st
}
