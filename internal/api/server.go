package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/config"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/api/handlers"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/metrics"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/search"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/services"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/tracing"
)

// Services bundles the core services the HTTP layer exposes
type Services struct {
	Orders        *services.OrderService
	Reservations  *services.ReservationService
	Loyalty       *services.LoyaltyService
	Reviews       *services.ReviewService
	Notifications *services.NotificationService
}

// Server represents the HTTP server
type Server struct {
	config     config.Config
	router     *gin.Engine
	httpServer *http.Server
	services   Services
	elastic    *search.ElasticClient
	metrics    *metrics.Metrics
	tracer     tracing.Tracer
}

// NewServer creates a new HTTP server
func NewServer(cfg config.Config, svcs Services, elastic *search.ElasticClient, m *metrics.Metrics, tracer tracing.Tracer) *Server {
	server := &Server{
		config:   cfg,
		services: svcs,
		elastic:  elastic,
		metrics:  m,
		tracer:   tracer,
	}

	router := server.setupRouter()
	server.router = router

	server.httpServer = &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	return server
}

// setupRouter configures the HTTP router
func (s *Server) setupRouter() *gin.Engine {
	if s.config.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(gin.Recovery())

	handlers.NewOrderHandler(s.services.Orders, s.tracer).RegisterRoutes(router)
	handlers.NewReservationHandler(s.services.Reservations, s.tracer).RegisterRoutes(router)
	handlers.NewLoyaltyHandler(s.services.Loyalty, s.tracer).RegisterRoutes(router)
	handlers.NewReviewHandler(s.services.Reviews, s.tracer).RegisterRoutes(router)
	handlers.NewNotificationHandler(s.services.Notifications, s.tracer).RegisterRoutes(router)
	handlers.NewSearchHandler(s.elastic, s.tracer).RegisterRoutes(router)
	handlers.NewMetricsHandler(s.metrics).RegisterRoutes(router)

	return router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Info().Str("address", s.config.Server.Address).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "HTTP server error")
	}

	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "HTTP server shutdown error")
	}

	log.Info().Msg("HTTP server shut down successfully")
	return nil
}
