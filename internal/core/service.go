package core

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotificationNotFound is returned when dismissing an unknown notification.
var ErrNotificationNotFound = errors.New("notification not found")

type serviceOptions struct {
	clock   Clock
	logger  Logger
	audit   AuditRecorder
	metrics MetricsRecorder
	tracer  Tracer
	engine  *RulesEngine
	ids     func() string
}

func defaultServiceOptions() serviceOptions {
	return serviceOptions{
		clock:   ClockFunc(func() time.Time { return time.Now().UTC() }),
		logger:  noopLogger{},
		audit:   noopAuditRecorder{},
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
	}
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

// WithClock overrides the service clock.
func WithClock(clock Clock) ServiceOption {
	return func(o *serviceOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithAuditRecorder sets the audit sink.
func WithAuditRecorder(recorder AuditRecorder) ServiceOption {
	return func(o *serviceOptions) {
		if recorder != nil {
			o.audit = recorder
		}
	}
}

// WithMetricsRecorder sets the metrics sink.
func WithMetricsRecorder(recorder MetricsRecorder) ServiceOption {
	return func(o *serviceOptions) {
		if recorder != nil {
			o.metrics = recorder
		}
	}
}

// WithTracer sets the tracer.
func WithTracer(tracer Tracer) ServiceOption {
	return func(o *serviceOptions) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithRulesEngine replaces the default validation chain.
func WithRulesEngine(engine *RulesEngine) ServiceOption {
	return func(o *serviceOptions) {
		o.engine = engine
	}
}

// WithIDGenerator overrides notification ID generation.
func WithIDGenerator(fn func() string) ServiceOption {
	return func(o *serviceOptions) {
		o.ids = fn
	}
}

type operationMeta struct {
	entity EntityType
	action string
}

var auditedOperations = map[string]operationMeta{
	"load_catalog":             {entity: EntityProject, action: "load"},
	"select_project":           {entity: EntityProject, action: "select"},
	"set_selected_units":       {entity: EntitySelection, action: "replace"},
	"toggle_unit":              {entity: EntitySelection, action: "toggle"},
	"update_unit_status":       {entity: EntityUnit, action: "update"},
	"apply_price_update":       {entity: EntityUnit, action: "reprice"},
	"apply_concurrent_sale":    {entity: EntityUnit, action: "sell"},
	"simulate_price_update":    {entity: EntityUnit, action: "reprice"},
	"simulate_concurrent_sale": {entity: EntityUnit, action: "sell"},
	"refresh":                  {entity: EntityUnit, action: "reconcile"},
	"preview":                  {entity: EntitySelection, action: "render"},
	"validate":                 {entity: EntitySelection, action: "validate"},
	"remove_notification":      {entity: EntitySelection, action: "dismiss"},
	"clear_notifications":      {entity: EntitySelection, action: "dismiss"},
}

// Service wraps a Session with logging, auditing, metrics, and tracing.
type Service struct {
	session *Session
	clock   Clock
	logger  Logger
	audit   AuditRecorder
	metrics MetricsRecorder
	tracer  Tracer
}

// NewService constructs a service over the supplied catalog store.
func NewService(store *CatalogStore, opts ...ServiceOption) *Service {
	options := defaultServiceOptions()
	for _, opt := range opts {
		opt(&options)
	}
	sessionOpts := []SessionOption{WithSessionClock(options.clock.Now), WithSessionRules(options.engine)}
	if options.ids != nil {
		sessionOpts = append(sessionOpts, WithNotificationIDs(options.ids))
	}
	return &Service{
		session: NewSession(store, sessionOpts...),
		clock:   options.clock,
		logger:  options.logger,
		audit:   options.audit,
		metrics: options.metrics,
		tracer:  options.tracer,
	}
}

// NewInMemoryService creates a service over an empty catalog store.
func NewInMemoryService(engine *RulesEngine, opts ...ServiceOption) *Service {
	return NewService(NewCatalogStore(), append([]ServiceOption{WithRulesEngine(engine)}, opts...)...)
}

// Session returns the underlying state machine.
func (s *Service) Session() *Session {
	return s.session
}

// Catalog returns the master data store.
func (s *Service) Catalog() *CatalogStore {
	return s.session.Catalog()
}

// run instruments a single operation.
func (s *Service) run(ctx context.Context, op string, entityID int, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, op)
	start := s.clock.Now()
	err := fn(ctx)
	duration := s.clock.Now().Sub(start)
	span.End(err)
	s.metrics.Observe(ctx, op, err == nil, duration)
	if err != nil {
		s.logger.Error("operation failed", "operation", op, "entity_id", entityID, "error", err)
		s.recordAuditError(ctx, op, entityID, duration, err)
		return err
	}
	s.logger.Debug("operation completed", "operation", op, "entity_id", entityID, "duration", duration)
	s.recordAuditSuccess(ctx, op, entityID, duration)
	return nil
}

func (s *Service) recordAuditSuccess(ctx context.Context, op string, entityID int, duration time.Duration) {
	s.recordAudit(ctx, op, entityID, duration, AuditStatusSuccess, nil)
}

func (s *Service) recordAuditError(ctx context.Context, op string, entityID int, duration time.Duration, err error) {
	s.recordAudit(ctx, op, entityID, duration, AuditStatusError, err)
}

func (s *Service) recordAudit(ctx context.Context, op string, entityID int, duration time.Duration, status AuditStatus, err error) {
	meta, ok := auditedOperations[op]
	if !ok {
		return
	}
	entry := AuditEntry{
		Operation: op,
		Entity:    meta.entity,
		Action:    meta.action,
		EntityID:  entityID,
		Status:    status,
		Duration:  duration,
		Timestamp: s.clock.Now(),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	s.audit.Record(ctx, entry)
}

// LoadCatalog replaces the master data.
func (s *Service) LoadCatalog(ctx context.Context, c Catalog) error {
	err := s.run(ctx, "load_catalog", 0, func(ctx context.Context) error {
		return s.session.LoadCatalog(ctx, c)
	})
	if err == nil {
		s.logger.Info("catalog loaded", "projects", len(c.Projects), "units", len(c.Units))
	}
	return err
}

// SelectProject switches the builder to a project.
func (s *Service) SelectProject(ctx context.Context, id int) (Project, error) {
	var project Project
	err := s.run(ctx, "select_project", id, func(ctx context.Context) error {
		var err error
		project, err = s.session.SelectProject(ctx, id)
		return err
	})
	return project, err
}

// SetSelectedUnits replaces the selection.
func (s *Service) SetSelectedUnits(ctx context.Context, ids []int) error {
	return s.run(ctx, "set_selected_units", 0, func(ctx context.Context) error {
		return s.session.SetSelectedUnits(ctx, ids)
	})
}

// ToggleUnit adds or removes a unit from the selection.
func (s *Service) ToggleUnit(ctx context.Context, id int) (bool, error) {
	var selected bool
	err := s.run(ctx, "toggle_unit", id, func(ctx context.Context) error {
		var err error
		selected, err = s.session.ToggleUnit(ctx, id)
		return err
	})
	return selected, err
}

// UpdateUnitStatus changes a unit's sales state and applies the cascade.
func (s *Service) UpdateUnitStatus(ctx context.Context, id int, status UnitStatus) ([]SideEffect, error) {
	var effects []SideEffect
	err := s.run(ctx, "update_unit_status", id, func(ctx context.Context) error {
		var err error
		effects, err = s.session.UpdateUnitStatus(ctx, id, status)
		return err
	})
	for _, effect := range effects {
		s.logger.Warn("availability cascade", "type", effect.Kind, "units", effect.UnitIDs)
	}
	return effects, err
}

// ApplyPriceUpdate records an externally changed unit price.
func (s *Service) ApplyPriceUpdate(ctx context.Context, id int, price float64) (Notification, error) {
	var n Notification
	err := s.run(ctx, "apply_price_update", id, func(ctx context.Context) error {
		var err error
		n, err = s.session.ApplyPriceUpdate(ctx, id, price)
		return err
	})
	return n, err
}

// ApplyConcurrentSale marks a unit as sold elsewhere.
func (s *Service) ApplyConcurrentSale(ctx context.Context, id int) (Notification, error) {
	var n Notification
	err := s.run(ctx, "apply_concurrent_sale", id, func(ctx context.Context) error {
		var err error
		n, err = s.session.ApplyConcurrentSale(ctx, id)
		return err
	})
	return n, err
}

// SimulateExternalPriceUpdate reprices a random selected unit.
func (s *Service) SimulateExternalPriceUpdate(ctx context.Context, rnd Random) (*Notification, error) {
	var n *Notification
	err := s.run(ctx, "simulate_price_update", 0, func(ctx context.Context) error {
		var err error
		n, err = s.session.SimulateExternalPriceUpdate(ctx, rnd)
		return err
	})
	if n != nil {
		s.logger.Info("simulated price update", "message", n.Message, "detail", n.Description)
	}
	return n, err
}

// SimulateConcurrentReservation sells a random unselected unit.
func (s *Service) SimulateConcurrentReservation(ctx context.Context, rnd Random) (*Notification, error) {
	var n *Notification
	err := s.run(ctx, "simulate_concurrent_sale", 0, func(ctx context.Context) error {
		var err error
		n, err = s.session.SimulateConcurrentReservation(ctx, rnd)
		return err
	})
	if n != nil {
		s.logger.Info("simulated concurrent sale", "message", n.Message)
	}
	return n, err
}

// Refresh reconciles the catalog with a fresh unit list.
func (s *Service) Refresh(ctx context.Context, fresh []Unit) (ReconcileReport, error) {
	var report ReconcileReport
	err := s.run(ctx, "refresh", 0, func(ctx context.Context) error {
		var err error
		report, err = s.session.Refresh(ctx, fresh)
		return err
	})
	if err == nil && report.HasConflicts() {
		s.logger.Warn("selection conflicts detected", "conflicts", len(report.Conflicts), "changed", len(report.Changed))
	}
	return report, err
}

// Tick advances reservation countdowns by one second.
func (s *Service) Tick(ctx context.Context) []int {
	var expired []int
	_ = s.run(ctx, "tick", 0, func(context.Context) error {
		expired = s.session.Tick()
		return nil
	})
	if len(expired) > 0 {
		s.logger.Info("reservation holds expired", "units", expired)
	}
	return expired
}

// StartCountdown sets the hold time of a unit.
func (s *Service) StartCountdown(id, seconds int) {
	s.session.StartCountdown(id, seconds)
}

// AddNotification pushes a notification.
func (s *Service) AddNotification(n Notification) Notification {
	return s.session.AddNotification(n)
}

// RemoveNotification dismisses a notification; an unknown ID is an error.
func (s *Service) RemoveNotification(ctx context.Context, id string) error {
	return s.run(ctx, "remove_notification", 0, func(context.Context) error {
		if !s.session.RemoveNotification(id) {
			return fmt.Errorf("notification %s: %w", id, ErrNotificationNotFound)
		}
		return nil
	})
}

// ClearNotifications drops every notification.
func (s *Service) ClearNotifications(ctx context.Context) {
	_ = s.run(ctx, "clear_notifications", 0, func(context.Context) error {
		s.session.ClearNotifications()
		return nil
	})
}

// Validate returns the validation result for the current selection.
func (s *Service) Validate(ctx context.Context) (Result, error) {
	var res Result
	err := s.run(ctx, "validate", 0, func(context.Context) error {
		st := s.session.Snapshot()
		if st.Project == nil {
			return ErrNoProject
		}
		res = Result{Violations: st.Violations}
		return nil
	})
	return res, err
}

// Preview assembles the landing page document.
func (s *Service) Preview(ctx context.Context) (PreviewDocument, error) {
	var doc PreviewDocument
	err := s.run(ctx, "preview", 0, func(context.Context) error {
		var err error
		doc, err = s.session.Preview()
		return err
	})
	return doc, err
}

// Snapshot returns the current view-state.
func (s *Service) Snapshot() State {
	return s.session.Snapshot()
}
