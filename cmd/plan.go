package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/timegrid/config"
	"github.com/kilianp07/timegrid/core/interval"
	"github.com/kilianp07/timegrid/core/planner"
	"github.com/kilianp07/timegrid/infra/logger"
	"github.com/kilianp07/timegrid/infra/metrics"
	"github.com/kilianp07/timegrid/pkg/export"
)

var (
	outPath   string
	outFormat string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Place the configured bookings and print the resulting free spans",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&outPath, "out", "o", "", "write the allocation plan to this file")
	planCmd.Flags().StringVarP(&outFormat, "format", "f", "json", "plan output format (json or csv)")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logg := logger.New("plan")
	opts := []planner.Option{planner.WithTolerance(cfg.Axis.Tolerance)}
	if cfg.Metrics.PrometheusEnabled {
		rec, err := metrics.NewPromRecorder(nil)
		if err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		opts = append(opts, planner.WithRecorder(rec))
		go func() {
			if err := metrics.StartPromServer(ctx, cfg.Metrics.PrometheusAddr); err != nil {
				logg.Errorf("prom server: %v", err)
			}
		}()
	}

	p := planner.New(logg, opts...)
	defer p.Close()
	for _, r := range cfg.Resources {
		busy := make([]planner.Span, len(r.Busy))
		for i, b := range r.Busy {
			busy[i] = interval.New(b.Lower, b.Upper)
		}
		if err := p.AddResource(r.Name, cfg.Axis.Lower, cfg.Axis.Upper, busy...); err != nil {
			return fmt.Errorf("resource %s: %w", r.Name, err)
		}
	}

	var allocs []planner.Allocation
	for _, rc := range cfg.Requests {
		alloc, err := p.Place(rc.Resource, planner.Request{
			ID:         rc.ID,
			Window:     interval.New(rc.Window.Lower, rc.Window.Upper),
			Size:       rc.Size,
			Period:     rc.Period,
			AllowDrift: rc.AllowDrift,
		})
		if err != nil {
			logg.Warnf("request %s: %v", rc.ID, err)
			continue
		}
		logg.Infof("request %s on %s: %v", alloc.RequestID, alloc.Resource, alloc.Spans)
		allocs = append(allocs, alloc)
	}

	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create plan file: %w", err)
		}
		defer f.Close()
		if err := export.Write(f, outFormat, allocs); err != nil {
			return fmt.Errorf("write plan: %w", err)
		}
	}

	for _, r := range cfg.Resources {
		tl, _ := p.Timeline(r.Name)
		fmt.Fprintf(cmd.OutOrStdout(), "%s free: %v\n", r.Name, tl.Free())
	}
	return nil
}
