package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"rekraft-backend/internal/config"
	"rekraft-backend/internal/database"
	"rekraft-backend/internal/events"
	custommiddleware "rekraft-backend/internal/middleware"
	"rekraft-backend/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// Handlers groups the route handlers mounted under /api.
type Handlers struct {
	Auth      *transport.AuthHandler
	Cart      *transport.CartHandler
	Addresses *transport.AddressHandler
	Orders    *transport.OrderHandler
	Payments  *transport.PaymentHandler
	Sell      *transport.SellHandler
	Contact   *transport.ContactHandler
	Products  *transport.ProductHandler
}

// Deps are the long-lived resources the server owns and closes.
type Deps struct {
	DB        *sqlx.DB
	Redis     *redis.Client
	Publisher events.Publisher
	Tracer    *sdktrace.TracerProvider
}

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	deps   Deps
}

func NewServer(cfg *config.Config, logger *zap.Logger, deps Deps, handlers Handlers) *Server {
	router := NewRouter(cfg, logger, deps, handlers)

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      otelhttp.NewHandler(router, "http.server"),
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		deps:   deps,
	}
}

// NewRouter builds the full route tree.
func NewRouter(cfg *config.Config, logger *zap.Logger, deps Deps, handlers Handlers) chi.Router {
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.MetricsMiddleware)
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, !cfg.IsProduction(), logger))

	router.Get("/health", healthHandler(deps, cfg.IsProduction()))
	router.Handle("/metrics", promhttp.Handler())

	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	adminOnly := custommiddleware.RequireAdmin(logger)
	limiter := func(prefix string) transport.Middleware {
		return custommiddleware.RateLimitMiddleware(deps.Redis, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.AuthRequests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         prefix,
		}, logger)
	}

	router.Route("/api", func(r chi.Router) {
		handlers.Auth.RegisterRoutes(r, authMiddleware, limiter("ratelimit:auth"))
		handlers.Cart.RegisterRoutes(r, authMiddleware)
		handlers.Addresses.RegisterRoutes(r, authMiddleware)
		handlers.Orders.RegisterRoutes(r, authMiddleware)
		handlers.Payments.RegisterRoutes(r, authMiddleware)
		handlers.Sell.RegisterRoutes(r, authMiddleware)
		handlers.Contact.RegisterRoutes(r, limiter("ratelimit:contact"))
		handlers.Products.RegisterRoutes(r, authMiddleware, adminOnly)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithError(w, http.StatusNotFound, "route not found")
	})

	return router
}

// healthHandler reports database and redis reachability. Production reports
// only up or down without driver error text.
func healthHandler(deps Deps, production bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		report := map[string]interface{}{"status": "ok"}

		if deps.DB != nil {
			dbHealth := database.Health(ctx, deps.DB)
			if dbHealth["status"] != "up" {
				status = http.StatusServiceUnavailable
				if production {
					dbHealth = map[string]string{"status": "down"}
				}
			}
			report["database"] = dbHealth
		}
		if deps.Redis != nil {
			if err := deps.Redis.Ping(ctx).Err(); err != nil {
				redisHealth := map[string]string{"status": "down"}
				if !production {
					redisHealth["error"] = err.Error()
				}
				report["redis"] = redisHealth
				status = http.StatusServiceUnavailable
			} else {
				report["redis"] = map[string]string{"status": "up"}
			}
		}
		if status != http.StatusOK {
			report["status"] = "degraded"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(report)
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.deps.Publisher != nil {
		if err := s.deps.Publisher.Close(); err != nil {
			s.logger.Error("Failed to close event publisher", zap.Error(err))
		}
	}

	if s.deps.Redis != nil {
		if err := s.deps.Redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if s.deps.DB != nil {
		if err := s.deps.DB.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	if s.deps.Tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.deps.Tracer.Shutdown(ctx); err != nil {
			s.logger.Error("Failed to flush traces", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
