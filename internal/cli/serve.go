package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/evcraddock/gatehouse/internal/logging"
	"github.com/evcraddock/gatehouse/internal/store"
	"github.com/evcraddock/gatehouse/internal/sweep"
	"github.com/evcraddock/gatehouse/internal/web"
)

func newServeCmd() *cobra.Command {
	var (
		port          int
		sweepInterval time.Duration
		maxVisitHours float64
		timezone      string
		dev           bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the gatehouse API",
		Long:  "Start the HTTP API over an in-memory store loaded with the sample residents and facilities, and run the overdue sweep alongside it. Data is not persisted across restarts.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}

			// Flags override the config file.
			flags := cmd.Flags()
			if flags.Changed("port") {
				cfg.Port = port
			}
			if flags.Changed("sweep-interval") {
				cfg.SweepInterval = sweepInterval
			}
			if flags.Changed("max-visit-hours") {
				cfg.MaxVisitHours = maxVisitHours
			}
			if flags.Changed("timezone") {
				cfg.Timezone = timezone
			}
			if flags.Changed("dev") {
				cfg.Dev = dev
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().IntVar(&port, "port", defaultPort, "port to listen on")
	cmd.Flags().DurationVar(&sweepInterval, "sweep-interval", sweep.DefaultInterval, "how often to check for overdue visitors")
	cmd.Flags().Float64Var(&maxVisitHours, "max-visit-hours", 8, "hours after the scheduled time a visit becomes overdue")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA zone visit times are read in (default: local)")
	cmd.Flags().BoolVar(&dev, "dev", false, "human-readable debug logging")

	return cmd
}

// runServe runs the API and the overdue sweep until ctx is done or either
// fails. The sweep has stopped by the time it returns.
func runServe(ctx context.Context, cfg Config) error {
	logging.Setup(cfg.Dev)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	st := store.NewSeeded()
	sw := sweep.New(st,
		sweep.WithInterval(cfg.SweepInterval),
		sweep.WithMaxDuration(cfg.MaxDuration()),
		sweep.WithLocation(loc),
	)
	srv := web.NewServer(st, sw, web.WithLocation(loc))

	slog.Info("gatehouse starting",
		"port", cfg.Port,
		"sweep_interval", cfg.SweepInterval.String(),
		"max_visit_hours", cfg.MaxVisitHours,
		"timezone", loc.String(),
	)

	g, ctx := errgroup.WithContext(ctx)
	sw.Start(ctx)
	g.Go(func() error {
		<-ctx.Done()
		sw.Stop()
		return nil
	})
	g.Go(func() error { return srv.ListenAndServe(ctx, cfg.Port) })
	return g.Wait()
}
