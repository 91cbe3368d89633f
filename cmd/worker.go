package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/config"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/messaging"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the background worker",
	Long:  `Start the background worker to ingest kiosk orders from Azure Service Bus and sweep overdue reservations to no-show`,
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	db, readOnlyDB, err := initDatabases(cfg)
	if err != nil {
		return err
	}

	deps, err := initDependencies(cfg)
	if err != nil {
		return err
	}
	defer deps.close()

	svcs := buildServices(cfg, db, readOnlyDB, deps)

	// Kiosk order intake. Without a Service Bus connection the worker
	// still runs the sweep alone.
	if cfg.Azure.ConnectionString != "" {
		receiver, err := messaging.NewReceiver(cfg.Azure, cfg.Azure.IntakeQueue)
		if err != nil {
			return err
		}
		defer receiver.Close()

		g.Go(func() error {
			log.Info().Str("queue", cfg.Azure.IntakeQueue).Msg("Starting kiosk order intake")
			return receiver.ProcessMessages(ctx, svcs.Orders.ProcessKioskOrder)
		})
	} else {
		log.Warn().Msg("Service Bus not configured, kiosk order intake disabled")
	}

	// No-show sweep: overdue active reservations past the grace window
	// are transitioned periodically.
	g.Go(func() error {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return err
		}

		_, err = scheduler.NewJob(
			gocron.DurationJob(cfg.Reservations.SweepInterval),
			gocron.NewTask(func() {
				swept, err := svcs.Reservations.SweepNoShows(ctx)
				if err != nil {
					log.Error().Err(err).Msg("No-show sweep failed")
					return
				}
				if swept > 0 {
					log.Info().Int("swept", swept).Msg("No-show sweep complete")
				}
			}),
		)
		if err != nil {
			return err
		}

		log.Info().Dur("interval", cfg.Reservations.SweepInterval).Msg("Starting no-show sweep")
		scheduler.Start()

		<-ctx.Done()

		return scheduler.Shutdown()
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Worker error")
		return err
	}

	log.Info().Msg("Worker shutting down gracefully")
	return nil
}
