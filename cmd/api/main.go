// @title           Settleup API
// @version         1.0
// @description     Shared expenses, group balances and the payments that settle them.
// @BasePath        /api/v1
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/fkhayef/settleup/docs"
	"github.com/fkhayef/settleup/internal/cache"
	"github.com/fkhayef/settleup/internal/config"
	"github.com/fkhayef/settleup/internal/database"
	"github.com/fkhayef/settleup/internal/expense"
	expensesplit "github.com/fkhayef/settleup/internal/expense/split"
	"github.com/fkhayef/settleup/internal/group"
	"github.com/fkhayef/settleup/internal/metrics"
	"github.com/fkhayef/settleup/internal/notification"
	"github.com/fkhayef/settleup/internal/settlement"
	"github.com/fkhayef/settleup/internal/user"
	"github.com/fkhayef/settleup/pkg/logging"
	mw "github.com/fkhayef/settleup/pkg/middleware"
)

const memoryCacheEntries = 1024

func main() {
	// Load .env file
	envErr := godotenv.Load()

	// Load configuration
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	logger := slog.Default()

	if envErr != nil {
		logger.Info("No .env file found, using environment variables")
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	driver := database.Driver(cfg.DBDriver)
	if err := database.Migrate(driver, cfg.DSN()); err != nil {
		logger.Error("Failed to migrate database", "error", err, "driver", driver)
		os.Exit(1)
	}

	db, err := database.Open(driver, cfg.DSN())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err, "driver", driver)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("Connected to database", "driver", driver)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := newCacheStore(ctx, cfg, logger)
	defer store.Close()

	publisher := newPublisher(cfg, logger)
	defer publisher.Close()

	// Split Strategy Factory (Factory Pattern)
	splitFactory := expensesplit.NewSplitStrategyFactory()

	// Settlement feature; its service invalidates cached balances for every writer
	settlementRepo := settlement.NewRepository(db)
	settlementService := settlement.NewService(settlementRepo, store, cfg.CacheTTL, cfg.UserBalanceWorkers)
	settlementHandler := settlement.NewHandler(settlementService)

	// Notification feature
	notificationRepo := notification.NewRepository(db)
	notificationService := notification.NewService(notificationRepo, publisher)
	notificationHandler := notification.NewHandler(notificationService)

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo, settlementService)
	userHandler := user.NewHandler(userService)

	// Group feature
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(groupRepo, settlementService)
	groupHandler := group.NewHandler(groupService)

	// Expense feature (with split factory injected)
	expenseRepo := expense.NewRepository(db)
	expenseService := expense.NewService(expenseRepo, splitFactory, settlementService, notificationService)
	expenseHandler := expense.NewHandler(expenseService)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Instrument)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Mount feature routers
		r.Mount("/users", userHandler.Routes())
		r.Mount("/groups", groupHandler.Routes())
		r.Mount("/expenses", expenseHandler.Routes())
		r.Mount("/balances", settlementHandler.Routes())
		r.Mount("/notifications", notificationHandler.Routes())
	})

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	// Graceful shutdown handling
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	}()

	logger.Info("Server starting", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server failed", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-stopped
	logger.Info("Server stopped gracefully")
}

// newCacheStore connects to Redis when configured and falls back to the
// in-process cache when it is not, or when Redis cannot be reached
func newCacheStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) cache.Store {
	if cfg.RedisURL != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		store, err := cache.NewRedisStore(pingCtx, cfg.RedisURL)
		if err == nil {
			logger.Info("Redis connected, caching balances")
			return store
		}
		logger.Warn("Redis not available, using in-process cache", "error", err)
	}

	store := cache.NewMemoryStore(memoryCacheEntries)
	store.StartCleanup(ctx, cfg.CacheTTL)
	return store
}

// newPublisher connects to the broker when configured; otherwise expense
// events are only logged
func newPublisher(cfg *config.Config, logger *slog.Logger) notification.Publisher {
	if cfg.AMQPURL != "" {
		publisher, err := notification.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err == nil {
			logger.Info("Connected to message broker", "exchange", cfg.AMQPExchange)
			return publisher
		}
		logger.Warn("Message broker not available, logging events instead", "error", err)
	}
	return notification.NewLogPublisher(logger)
}
