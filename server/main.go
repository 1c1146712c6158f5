package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"boletamaster/api/routes"
	"boletamaster/internal/fees"
	"boletamaster/internal/journal"
	"boletamaster/internal/shared/config"
	"boletamaster/internal/shared/database"
	"boletamaster/internal/shared/validation"
	"boletamaster/pkg/logger"
	"boletamaster/pkg/metrics"
	"boletamaster/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	appLogger := logger.GetDefault()

	// Smart environment loading
	if err := godotenv.Load(); err != nil {
		// Check if we're in production/container mode
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	// Load config
	cfg := config.Load()

	// Set Gin mode (debug/release)
	gin.SetMode(cfg.GinMode)

	if err := validation.Register(); err != nil {
		appLogger.Error("Failed to register validators", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize DB; development falls back to in-memory stores
	db, err := database.InitDB(cfg)
	if err != nil {
		if cfg.IsProduction() {
			appLogger.Error("Failed to connect to databases", slog.Any("error", err))
			os.Exit(1)
		}
		appLogger.Warn("Some backends unavailable, falling back to in-memory stores", slog.Any("error", err))
	}
	defer db.Close()

	policy, err := buildFeePolicy(cfg)
	if err != nil {
		appLogger.Error("Invalid fee configuration", slog.Any("error", err))
		os.Exit(1)
	}

	publisher := buildPublisher(cfg, appLogger)
	defer publisher.Close()

	modules := routes.NewModules(cfg, db, policy, publisher)
	appRouter := routes.NewRouter(cfg, db, modules)

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := appRouter.Bootstrap(bootCtx); err != nil {
		appLogger.Error("Failed to bootstrap admin account", slog.Any("error", err))
	}
	bootCancel()

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        setupEngine(appRouter, buildRateLimiter(cfg, db, appLogger)),
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		appLogger.Info("Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("version", Version),
			slog.String("commit", GitCommit),
			slog.String("built", BuildTime),
			slog.Bool("postgres", db.PostgreSQL != nil),
			slog.Bool("redis", db.Redis != nil),
			slog.Bool("kafka_journal", cfg.Kafka.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	case <-ctx.Done():
		appLogger.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}
	appLogger.Info("Server exited")
}

// buildRateLimiter returns nil when limiting is off or Redis is unreachable
func buildRateLimiter(cfg *config.Config, db *database.DB, appLogger *logger.Logger) *ratelimit.RateLimiter {
	rl := cfg.RateLimit
	if !rl.Enabled || db.GetRedisClient() == nil {
		appLogger.Info("Rate limiting disabled", slog.Bool("configured", rl.Enabled))
		return nil
	}
	appLogger.Info("Rate limiter initialized",
		slog.Duration("window", rl.WindowDuration),
		slog.Int("default_requests", rl.DefaultRequests),
		slog.Int("purchase_requests", rl.PurchaseRequests),
	)
	return ratelimit.NewRateLimiter(db.GetRedisClient(), &ratelimit.Config{
		Enabled:             rl.Enabled,
		WindowDuration:      rl.WindowDuration,
		DefaultRequests:     rl.DefaultRequests,
		PublicRequests:      rl.PublicRequests,
		AuthRequests:        rl.AuthRequests,
		PurchaseRequests:    rl.PurchaseRequests,
		MarketplaceRequests: rl.MarketplaceRequests,
		AdminRequests:       rl.AdminRequests,
		HealthRequests:      rl.HealthRequests,
		WhitelistedIPs:      rl.WhitelistedIPs,
	})
}

func buildFeePolicy(cfg *config.Config) (*fees.Policy, error) {
	policy, err := fees.NewPolicy(cfg.Fees.IssuanceFee)
	if err != nil {
		return nil, err
	}
	for eventType, rate := range cfg.Fees.ServiceRates {
		if err := policy.SetServiceRate(eventType, rate); err != nil {
			return nil, err
		}
	}
	return policy, nil
}

func buildPublisher(cfg *config.Config, appLogger *logger.Logger) journal.Publisher {
	if !cfg.Kafka.Enabled {
		appLogger.Info("Kafka journal disabled")
		return journal.NoopPublisher{}
	}
	kafkaCfg := journal.DefaultKafkaConfig()
	kafkaCfg.Brokers = cfg.Kafka.Brokers
	kafkaCfg.Topic = cfg.Kafka.Topic
	kafkaCfg.ClientID = cfg.Kafka.ClientID
	publisher, err := journal.NewKafkaPublisher(kafkaCfg)
	if err != nil {
		appLogger.Error("Failed to initialize Kafka journal, continuing without it", slog.Any("error", err))
		return journal.NoopPublisher{}
	}
	return publisher
}

func setupEngine(appRouter *routes.Router, rateLimiter *ratelimit.RateLimiter) *gin.Engine {
	engine := gin.New()
	appLogger := logger.GetDefault()

	engine.Use(RequestLoggerMiddleware(appLogger), gin.Recovery(), metrics.Middleware())
	engine.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
	}

	appRouter.SetupRoutes(engine)
	return engine
}

// RequestLoggerMiddleware logs every request once the handler chain returns
func RequestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.LogHTTPRequest(c, time.Since(start))
	}
}
