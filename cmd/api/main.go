package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"rekraft-backend/internal/config"
	"rekraft-backend/internal/database"
	"rekraft-backend/internal/events"
	"rekraft-backend/internal/gateway"
	"rekraft-backend/internal/logger"
	"rekraft-backend/internal/mailer"
	"rekraft-backend/internal/otp"
	"rekraft-backend/internal/pricing"
	"rekraft-backend/internal/repository"
	"rekraft-backend/internal/server"
	"rekraft-backend/internal/service"
	"rekraft-backend/internal/telemetry"
	"rekraft-backend/internal/transport"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	// In-flight requests get 30 seconds to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")
	done <- true
}

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	if cfg.JWT.Secret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	log.Info("Starting storefront API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	ctx := context.Background()

	tracer, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database health check", zap.Any("health", database.Health(ctx, db)))

	if err := database.RunMigrations(db.DB, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database migrations completed successfully")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unreachable at startup", zap.Error(err))
	}

	if len(cfg.Kafka.Brokers) == 0 {
		log.Info("No Kafka brokers configured, domain events are logged only")
	}
	publisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)

	mail := mailer.NewSMTPMailer(cfg.Mail, log)
	if !mail.Configured() {
		log.Warn("SMTP credentials not set, outgoing email will fail")
	}
	payments := gateway.NewRazorpayClient(cfg.Payment, log)

	users := repository.NewUserRepository(db, cfg.Database.QueryTimeout)
	products := repository.NewProductRepository(db, cfg.Database.QueryTimeout)
	orders := repository.NewOrderRepository(db, cfg.Database.QueryTimeout)
	submissions := repository.NewSellRepository(db, cfg.Database.QueryTimeout)

	production := cfg.IsProduction()
	authService := service.NewAuthService(users, otp.NewStore(redisClient, otp.DefaultTTL), mail, service.AuthConfig{
		JWTSecret:   cfg.JWT.Secret,
		TokenExpiry: time.Duration(cfg.JWT.Expiry) * 24 * time.Hour,
		Production:  production,
	}, log)
	cartService := service.NewCartService(users, products)
	addressService := service.NewAddressService(users)
	orderService := service.NewOrderService(orders, products, publisher, log)
	paymentService := service.NewPaymentService(orders, payments, publisher, cfg.Payment.Currency, log)
	sellService := service.NewSellService(submissions, users, pricing.NewEstimator(time.Now), publisher, log)
	contactService := service.NewContactService(mail, log)
	catalogService := service.NewCatalogService(products, log)

	handlers := server.Handlers{
		Auth:      transport.NewAuthHandler(authService, log, production),
		Cart:      transport.NewCartHandler(cartService, log, production),
		Addresses: transport.NewAddressHandler(addressService, log, production),
		Orders:    transport.NewOrderHandler(orderService, log, production),
		Payments:  transport.NewPaymentHandler(paymentService, log, production),
		Sell:      transport.NewSellHandler(sellService, log, production),
		Contact:   transport.NewContactHandler(contactService, log, production),
		Products:  transport.NewProductHandler(catalogService, log, production),
	}

	srv := server.NewServer(cfg, log, server.Deps{
		DB:        db,
		Redis:     redisClient,
		Publisher: publisher,
		Tracer:    tracer,
	}, handlers)

	done := make(chan bool, 1)
	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	log.Info("Graceful shutdown complete")
}
