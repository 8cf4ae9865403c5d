package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"landingcore/internal/catalog"
	"landingcore/internal/core"
	"landingcore/internal/driver"
	"landingcore/internal/logging"
	"landingcore/internal/metrics"
)

func (a *app) simulateCmd() *cobra.Command {
	var (
		sel      selection
		ticks    uint64
		interval time.Duration
		seed     uint64
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the live market simulation against a selection",
		Long: `Runs the tick loop: reservation holds count down every tick, while
external price changes, concurrent sales, and catalog refreshes fire on the
LANDINGCORE_DRIVER_* cadences. Stops after --ticks ticks or on interrupt.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			recorder := metrics.NewRecorder()
			vars := core.NewExpvarMetricsRecorder("")
			svc, src, err := a.newService(ctx, sel, core.WithMetricsRecorder(metrics.Tee{recorder, vars}))
			if err != nil {
				return err
			}
			defer src.Close()

			dcfg := driver.Config{
				Interval:         a.cfg.Driver.Interval,
				PriceEvery:       a.cfg.Driver.PriceEvery,
				ReservationEvery: a.cfg.Driver.ReservationEvery,
				RefreshEvery:     a.cfg.Driver.RefreshEvery,
				MaxTicks:         ticks,
			}
			if interval > 0 {
				dcfg.Interval = interval
			}
			// Simulated events are layered over the source so refreshes keep them.
			feed := catalog.NewOverlay(src)
			opts := []driver.Option{
				driver.WithSource(feed),
				driver.WithUnitWriter(feed),
				driver.WithLogger(logging.NewAdapter(a.logger)),
			}
			if seed != 0 {
				opts = append(opts, driver.WithRandom(rand.New(rand.NewPCG(seed, seed>>1))))
			}
			loop := driver.New(svc, dcfg, opts...)

			g, gctx := errgroup.WithContext(ctx)
			runCtx, cancelRun := context.WithCancel(gctx)
			defer cancelRun()
			var ran uint64
			g.Go(func() error {
				defer cancelRun()
				var err error
				ran, err = loop.Run(runCtx)
				return err
			})
			if addr := a.cfg.MetricsAddr; addr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", recorder.Handler())
				mux.Handle("/debug/vars", expvar.Handler())
				srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
				g.Go(func() error {
					a.logger.Sugar().Infow("metrics listener started", "addr", addr)
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						return fmt.Errorf("metrics listener: %w", err)
					}
					return nil
				})
				g.Go(func() error {
					<-runCtx.Done()
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					return srv.Shutdown(shutdownCtx)
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			snap := vars.Snapshot()
			for _, op := range snap.Operations {
				a.logger.Sugar().Infow("operation totals", "operation", op, "results", snap.Results[op], "duration_ms", snap.DurationsMS[op])
			}

			st := svc.Snapshot()
			fmt.Fprintf(a.out, "ran %d ticks\n", ran)
			fmt.Fprintf(a.out, "selected units: %d, total %s\n", len(st.SelectedUnits), core.FormatAED(st.Pricing.FinalPrice))
			for _, n := range st.Notifications {
				fmt.Fprintf(a.out, "[%s] %s", n.Severity, n.Message)
				if n.Description != "" {
					fmt.Fprintf(a.out, " (%s)", n.Description)
				}
				fmt.Fprintln(a.out)
			}
			return nil
		},
	}
	sel.bind(cmd)
	cmd.Flags().Uint64Var(&ticks, "ticks", 0, "stop after this many ticks (0 runs until interrupted)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "tick interval; overrides LANDINGCORE_DRIVER_INTERVAL")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for the market simulators (0 picks one)")
	return cmd
}
