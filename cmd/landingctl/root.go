package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"landingcore/internal/catalog"
	"landingcore/internal/config"
	"landingcore/internal/core"
	"landingcore/internal/logging"
)

// app carries the state shared by every subcommand.
type app struct {
	out      io.Writer
	cfg      config.Config
	logger   *zap.Logger
	logLevel string
	trace    bool
	traceOut io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}
	root := &cobra.Command{
		Use:           "landingctl",
		Short:         "Real-estate landing page builder engine",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if a.logLevel != "" {
				cfg.LogLevel = a.logLevel
			}
			a.cfg = cfg
			if a.trace {
				a.traceOut = cmd.ErrOrStderr()
			}
			a.logger, err = logging.New(cfg.LogLevel, false)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides LANDINGCORE_LOG_LEVEL")
	root.PersistentFlags().BoolVar(&a.trace, "trace", false, "write JSON spans and audit entries for service operations to stderr")

	root.AddCommand(
		a.priceCmd(),
		a.validateCmd(),
		a.previewCmd(),
		a.seedCmd(),
		a.simulateCmd(),
		a.reserveCmd(),
		a.previewsCmd(),
	)
	return root
}

// selection holds the flags shared by the selection based commands.
type selection struct {
	project int
	units   []int
}

func (s *selection) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&s.project, "project", 1, "project ID")
	cmd.Flags().IntSliceVar(&s.units, "units", nil, "comma separated unit IDs to select")
}

// openCatalog opens the configured catalog source.
func (a *app) openCatalog(ctx context.Context) (catalog.Source, error) {
	src, err := catalog.Open(ctx, a.cfg.Catalog.Options())
	if err != nil {
		return nil, fmt.Errorf("open %s catalog: %w", a.cfg.Catalog.Driver, err)
	}
	return src, nil
}

// newService builds a service over a freshly loaded catalog and applies the
// selection. The catalog source is returned for later refreshes; callers
// close it.
func (a *app) newService(ctx context.Context, sel selection, opts ...core.ServiceOption) (*core.Service, catalog.Source, error) {
	src, err := a.openCatalog(ctx)
	if err != nil {
		return nil, nil, err
	}
	c, err := src.Load(ctx)
	if err != nil {
		_ = src.Close()
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}
	base := []core.ServiceOption{core.WithLogger(logging.NewAdapter(a.logger))}
	if a.traceOut != nil {
		base = append(base,
			core.WithTracer(core.NewJSONTracer(a.traceOut)),
			core.WithAuditRecorder(core.NewJSONAuditRecorder(a.traceOut)),
		)
	}
	opts = append(base, opts...)
	svc := core.NewService(core.NewCatalogStore(), opts...)
	if err := svc.LoadCatalog(ctx, c); err != nil {
		_ = src.Close()
		return nil, nil, err
	}
	if _, err := svc.SelectProject(ctx, sel.project); err != nil {
		_ = src.Close()
		return nil, nil, err
	}
	if len(sel.units) > 0 {
		if err := svc.SetSelectedUnits(ctx, sel.units); err != nil {
			_ = src.Close()
			return nil, nil, err
		}
	}
	return svc, src, nil
}
