package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/config"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/api"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/cache"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/messaging"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/metrics"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/models"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/repositories"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/search"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/services"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/tracing"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long:  `Start the HTTP API server for orders, reservations, loyalty, reviews and admin notifications`,
	RunE:  runAPI,
}

func init() {
	rootCmd.AddCommand(apiCmd)
}

func runAPI(cmd *cobra.Command, args []string) error {
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

	server := api.NewServer(cfg, svcs, deps.elastic, deps.metrics, deps.tracer)

	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("Server error")
		}
	}()

	<-ctx.Done()

	if err := server.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	log.Info().Msg("API server stopped")
	return nil
}

// dependencies holds the shared infrastructure clients behind the services
type dependencies struct {
	cache   *cache.RedisCache
	tracer  tracing.Tracer
	elastic *search.ElasticClient
	events  messaging.ServiceBusClient
	metrics *metrics.Metrics
}

func (d *dependencies) close() {
	if d.events != nil {
		if err := d.events.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Service Bus client")
		}
	}
	if d.cache != nil {
		if err := d.cache.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis cache")
		}
	}
	if d.tracer != nil {
		d.tracer.Close()
	}
}

func initDependencies(cfg config.Config) (*dependencies, error) {
	deps := &dependencies{metrics: metrics.NewMetrics()}

	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis cache, continuing without caching")
	} else {
		deps.cache = redisCache
	}

	tracer, err := tracing.NewTracer(cfg.Tracing)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
		tracer = tracing.NewNoopTracer()
	}
	deps.tracer = tracer

	elasticClient, err := search.NewElasticClient(cfg.Elastic)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Elasticsearch client, continuing without search")
	} else {
		deps.elastic = elasticClient
	}

	events, err := messaging.NewServiceBusClient(cfg.Azure, cfg.Azure.EventsQueue, "events")
	if err != nil {
		return nil, err
	}
	deps.events = events

	return deps, nil
}

func buildServices(cfg config.Config, db, readOnlyDB *gorm.DB, deps *dependencies) api.Services {
	orderRepo := repositories.NewOrderRepository(db, readOnlyDB)
	reservationRepo := repositories.NewReservationRepository(db, readOnlyDB)
	customerRepo := repositories.NewCustomerRepository(db, readOnlyDB)
	reviewRepo := repositories.NewReviewRepository(db, readOnlyDB)
	menuRepo := repositories.NewMenuRepository(db, readOnlyDB)

	orderService := services.NewOrderService(
		orderRepo, menuRepo, deps.cache, deps.elastic, deps.events,
		deps.metrics, deps.tracer, cfg.Orders.TaxRate, cfg.Orders.DeliveryFee)
	reservationService := services.NewReservationService(
		reservationRepo, deps.events, deps.metrics, deps.tracer, cfg.Reservations)
	loyaltyService := services.NewLoyaltyService(
		customerRepo, cfg.Loyalty.ReviewAwardPoints, deps.metrics, deps.tracer)
	reviewService := services.NewReviewService(reviewRepo, loyaltyService, deps.metrics)
	notificationService := services.NewNotificationService(
		orderRepo, reservationRepo, reviewRepo, menuRepo, deps.tracer)

	return api.Services{
		Orders:        orderService,
		Reservations:  reservationService,
		Loyalty:       loyaltyService,
		Reviews:       reviewService,
		Notifications: notificationService,
	}
}

func initDatabases(cfg config.Config) (*gorm.DB, *gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DB.DSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to connect to write database")
	}

	readOnlyDB, err := gorm.Open(postgres.Open(cfg.DB.ReadOnlyDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to connect to read-only database")
	}

	// Auto-migrate only the write database
	if err := models.SetupModels(db); err != nil {
		return nil, nil, errors.Wrap(err, "failed to run migrations")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to get underlying write DB connection")
	}
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

	readSqlDB, err := readOnlyDB.DB()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to get underlying read-only DB connection")
	}
	readSqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	readSqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	readSqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

	return db, readOnlyDB, nil
}
