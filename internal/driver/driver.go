// Package driver runs the builder session on a wall-clock tick: countdowns
// advance every tick and the market simulators and catalog refresh fire on
// their own cadences.
package driver

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"landingcore/internal/core"
	"landingcore/pkg/domain"
)

// Engine is the part of core.Service the loop drives.
type Engine interface {
	Tick(ctx context.Context) []int
	SimulateExternalPriceUpdate(ctx context.Context, rnd core.Random) (*core.Notification, error)
	SimulateConcurrentReservation(ctx context.Context, rnd core.Random) (*core.Notification, error)
	Refresh(ctx context.Context, fresh []core.Unit) (core.ReconcileReport, error)
	Catalog() *core.CatalogStore
}

// Loader yields a fresh catalog for the periodic refresh.
type Loader interface {
	Load(ctx context.Context) (domain.Catalog, error)
}

// UnitWriter receives the units a simulator changed, so the refresh source
// observes simulated events instead of reverting them.
type UnitWriter interface {
	WriteUnits(ctx context.Context, units []domain.Unit) error
}

// Config sets the loop cadence. Cadences count ticks; zero disables a hook.
type Config struct {
	Interval         time.Duration
	PriceEvery       int
	ReservationEvery int
	RefreshEvery     int
	// MaxTicks stops the loop after that many ticks; zero runs until the
	// context is cancelled.
	MaxTicks uint64
}

// Ticker produces tick signals and a stop function.
type Ticker func(interval time.Duration) (<-chan time.Time, func())

func wallTicker(interval time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(interval)
	return t.C, t.Stop
}

// Option customises a Driver.
type Option func(*Driver)

// WithSource enables the periodic refresh from src.
func WithSource(src Loader) Option {
	return func(d *Driver) { d.source = src }
}

// WithUnitWriter publishes simulated changes to w.
func WithUnitWriter(w UnitWriter) Option {
	return func(d *Driver) { d.writer = w }
}

// WithRandom sets the randomness used by the simulators.
func WithRandom(rnd core.Random) Option {
	return func(d *Driver) {
		if rnd != nil {
			d.rnd = rnd
		}
	}
}

// WithLogger sets the loop logger.
func WithLogger(logger core.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithTicker replaces the wall-clock ticker.
func WithTicker(t Ticker) Option {
	return func(d *Driver) {
		if t != nil {
			d.ticker = t
		}
	}
}

// Driver is the tick loop.
type Driver struct {
	engine Engine
	cfg    Config
	source Loader
	writer UnitWriter
	rnd    core.Random
	logger core.Logger
	ticker Ticker
}

// New constructs a driver for engine.
func New(engine Engine, cfg Config, opts ...Option) *Driver {
	seed := uint64(time.Now().UnixNano())
	d := &Driver{
		engine: engine,
		cfg:    cfg,
		rnd:    rand.New(rand.NewPCG(seed, seed>>1)),
		logger: discard{},
		ticker: wallTicker,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run blocks until ctx is cancelled or MaxTicks ticks have run, and returns
// the number of ticks run. Hook failures are logged and do not stop the loop.
func (d *Driver) Run(ctx context.Context) (uint64, error) {
	if d.cfg.Interval <= 0 {
		return 0, fmt.Errorf("driver interval must be positive, got %s", d.cfg.Interval)
	}
	ticks, stop := d.ticker(d.cfg.Interval)
	defer stop()

	d.logger.Info("driver started", "interval", d.cfg.Interval, "max_ticks", d.cfg.MaxTicks)
	var n uint64
	for d.cfg.MaxTicks == 0 || n < d.cfg.MaxTicks {
		select {
		case <-ctx.Done():
			d.logger.Info("driver stopped", "ticks", n)
			return n, nil
		case <-ticks:
		}
		n++
		d.step(ctx, n)
	}
	d.logger.Info("driver finished", "ticks", n)
	return n, nil
}

func due(tick uint64, every int) bool {
	return every > 0 && tick%uint64(every) == 0
}

// step runs one tick: countdowns first, then price, reservation, and refresh.
func (d *Driver) step(ctx context.Context, tick uint64) {
	d.engine.Tick(ctx)

	if due(tick, d.cfg.PriceEvery) {
		d.simulate(ctx, tick, "price", d.engine.SimulateExternalPriceUpdate)
	}
	if due(tick, d.cfg.ReservationEvery) {
		d.simulate(ctx, tick, "reservation", d.engine.SimulateConcurrentReservation)
	}
	if d.source != nil && due(tick, d.cfg.RefreshEvery) {
		d.refresh(ctx, tick)
	}
}

type simulator func(ctx context.Context, rnd core.Random) (*core.Notification, error)

// simulate runs one simulator and hands the units it changed to the writer.
func (d *Driver) simulate(ctx context.Context, tick uint64, name string, run simulator) {
	var before map[int]core.Unit
	if d.writer != nil {
		units := d.engine.Catalog().ListUnits(0)
		before = make(map[int]core.Unit, len(units))
		for _, u := range units {
			before[u.ID] = u
		}
	}
	n, err := run(ctx, d.rnd)
	if err != nil {
		d.logger.Warn(name+" simulation failed", "tick", tick, "error", err)
		return
	}
	if n == nil || d.writer == nil {
		return
	}
	var changed []domain.Unit
	for _, u := range d.engine.Catalog().ListUnits(0) {
		if old, ok := before[u.ID]; !ok || old != u {
			changed = append(changed, u)
		}
	}
	if len(changed) == 0 {
		return
	}
	if err := d.writer.WriteUnits(ctx, changed); err != nil {
		d.logger.Warn("publishing simulated units failed", "tick", tick, "error", err)
	}
}

func (d *Driver) refresh(ctx context.Context, tick uint64) {
	c, err := d.source.Load(ctx)
	if err != nil {
		d.logger.Warn("catalog refresh failed", "tick", tick, "error", err)
		return
	}
	if _, err := d.engine.Refresh(ctx, c.Units); err != nil {
		d.logger.Warn("catalog refresh failed", "tick", tick, "error", err)
	}
}

type discard struct{}

func (discard) Debug(string, ...any) {}
func (discard) Info(string, ...any)  {}
func (discard) Warn(string, ...any)  {}
func (discard) Error(string, ...any) {}
