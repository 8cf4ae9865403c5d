package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"landingcore/internal/blob"
	"landingcore/internal/catalog"
	"landingcore/internal/core"
	"landingcore/internal/publish"
)

func (a *app) priceCmd() *cobra.Command {
	var sel selection
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Print the price breakdown and payment options of a selection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, src, err := a.newService(cmd.Context(), sel)
			if err != nil {
				return err
			}
			defer src.Close()

			st := svc.Snapshot()
			for _, line := range st.Pricing.Lines {
				if line.Inactive {
					continue
				}
				fmt.Fprintf(a.out, "%-36s %s\n", line.Label, core.FormatAED(line.Value))
			}
			pay := core.PaymentOptionsFor(st.Pricing.FinalPrice)
			fmt.Fprintf(a.out, "%-36s %s\n", "Cash price", core.FormatAED(pay.CashPrice))
			fmt.Fprintf(a.out, "%-36s %s x %d\n", "Monthly installment", core.FormatAED(pay.MonthlyInstallment), pay.InstallmentMonths)
			for _, step := range pay.Plan {
				fmt.Fprintf(a.out, "  %-34s %s\n", fmt.Sprintf("%s (%.0f%%)", step.Phase, step.Percentage), core.FormatAED(step.Amount))
			}
			return nil
		},
	}
	sel.bind(cmd)
	return cmd
}

func (a *app) validateCmd() *cobra.Command {
	var sel selection
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run the validation chain; exits non-zero on critical violations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, src, err := a.newService(cmd.Context(), sel)
			if err != nil {
				return err
			}
			defer src.Close()

			res, err := svc.Validate(cmd.Context())
			if err != nil {
				return err
			}
			if len(res.Violations) == 0 {
				fmt.Fprintln(a.out, "selection is valid")
				return nil
			}
			for _, v := range res.Violations {
				fmt.Fprintf(a.out, "[%s] %s: %s\n", v.Severity, v.Message, v.Description)
			}
			if res.HasCritical() {
				return core.RuleViolationError{Result: res}
			}
			return nil
		},
	}
	sel.bind(cmd)
	return cmd
}

func (a *app) previewCmd() *cobra.Command {
	var (
		sel       selection
		doPublish bool
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render the landing page preview document as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, src, err := a.newService(ctx, sel)
			if err != nil {
				return err
			}
			defer src.Close()

			doc, err := svc.Preview(ctx)
			if err != nil {
				return err
			}
			if !doPublish {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(doc)
			}
			return a.publish(cmd, doc)
		},
	}
	sel.bind(cmd)
	cmd.Flags().BoolVar(&doPublish, "publish", false, "write the preview to the configured blob store")
	return cmd
}

func (a *app) publish(cmd *cobra.Command, doc core.PreviewDocument) error {
	store, err := blob.Open(cmd.Context(), a.cfg.Blob.Options())
	if err != nil {
		return fmt.Errorf("open blob store: %w", err)
	}
	info, err := publish.New(store).Publish(cmd.Context(), doc)
	if err != nil {
		return err
	}
	a.logger.Sugar().Infow("preview published", "key", info.Key, "driver", store.Driver(), "bytes", info.Size)
	fmt.Fprintf(a.out, "published %s\n", info.Key)
	if info.URL != "" {
		fmt.Fprintf(a.out, "url %s\n", info.URL)
	}
	return nil
}

func (a *app) previewsCmd() *cobra.Command {
	var project int
	cmd := &cobra.Command{
		Use:   "previews",
		Short: "List the previews published for a project",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := blob.Open(cmd.Context(), a.cfg.Blob.Options())
			if err != nil {
				return fmt.Errorf("open blob store: %w", err)
			}
			infos, err := publish.New(store).List(cmd.Context(), project)
			if err != nil {
				return fmt.Errorf("list previews: %w", err)
			}
			if len(infos) == 0 {
				fmt.Fprintf(a.out, "no previews for project %d\n", project)
				return nil
			}
			for _, info := range infos {
				fmt.Fprintf(a.out, "%s\t%d bytes\t%s units\t%s\n", info.Key, info.Size, info.Metadata["units"], info.LastModified.Format(time.RFC3339))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&project, "project", 1, "project ID")
	return cmd
}

func (a *app) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the generated catalog into the configured catalog source",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			src, err := a.openCatalog(ctx)
			if err != nil {
				return err
			}
			defer src.Close()

			c := catalog.Generate(a.cfg.Catalog.Seed)
			problems := catalog.Check(c)
			if catalog.HasErrors(problems) {
				return fmt.Errorf("generated catalog is invalid: %v", problems)
			}
			for _, p := range problems {
				a.logger.Debug("catalog check", zap.Stringer("problem", p))
			}
			if err := catalog.Seed(ctx, src, c); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "seeded %s catalog: %d projects, %d units\n", src.Driver(), len(c.Projects), len(c.Units))
			return nil
		},
	}
}

func (a *app) reserveCmd() *cobra.Command {
	var (
		sel  selection
		unit int
	)
	cmd := &cobra.Command{
		Use:   "reserve",
		Short: "Reserve a unit and print the availability cascade",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, src, err := a.newService(cmd.Context(), sel)
			if err != nil {
				return err
			}
			defer src.Close()

			effects, err := svc.UpdateUnitStatus(cmd.Context(), unit, core.UnitReserved)
			if err != nil {
				return err
			}
			st := svc.Snapshot()
			fmt.Fprintf(a.out, "unit %d reserved, hold %s\n", unit, core.FormatCountdown(st.Countdowns[unit]))
			for _, e := range effects {
				ids := make([]string, 0, len(e.UnitIDs))
				for _, id := range e.UnitIDs {
					ids = append(ids, fmt.Sprint(id))
				}
				fmt.Fprintf(a.out, "%s: %s", e.Kind, e.Notification)
				if len(ids) > 0 {
					fmt.Fprintf(a.out, " [%s]", strings.Join(ids, ","))
				}
				fmt.Fprintln(a.out)
			}
			fmt.Fprintf(a.out, "availability mode: %s\n", st.AvailabilityMode)
			return nil
		},
	}
	sel.bind(cmd)
	cmd.Flags().IntVar(&unit, "unit", 0, "unit ID to reserve")
	_ = cmd.MarkFlagRequired("unit")
	return cmd
}
