package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mockinterview/api/internal/config"
	"mockinterview/api/internal/events"
	"mockinterview/api/internal/handlers"
	"mockinterview/api/internal/interviewer"
	"mockinterview/api/internal/jobs"
	"mockinterview/api/internal/llm"
	_ "mockinterview/api/internal/llm/gemini"
	"mockinterview/api/internal/metrics"
	"mockinterview/api/internal/prompts"
	"mockinterview/api/internal/repositories"
	"mockinterview/api/internal/routers"
	"mockinterview/api/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type dependencies struct {
	db            *gorm.DB
	provider      llm.Provider
	promptManager *prompts.PromptManager
	publisher     events.Publisher
}

func registerRoutes(router *chi.Mux, cfg *config.Config, deps dependencies, logger *zap.Logger) {
	sessions := repositories.NewSessionRepository(deps.db)
	turns := repositories.NewTurnRepository(deps.db)
	ai := interviewer.NewService(deps.provider, deps.promptManager, logger, cfg.AITimeout)

	routers.HealthRoutes(router, handlers.NewHealthHandler(deps.provider, deps.promptManager, sessions, cfg))
	routers.SessionRoutes(router, handlers.NewSessionHandler(sessions, turns, ai, deps.publisher, logger))

	if cfg.IsDevelopment() {
		routers.TestingRoutes(router, handlers.NewTestingHandler(sessions, logger))
		logger.Warn("Testing routes enabled", zap.String("environment", cfg.Environment))
	}
}

func newRouter(cfg *config.Config, deps dependencies, logger *zap.Logger) *chi.Mux {
	router := chi.NewRouter()

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))
	router.Use(answerOptions)
	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(60*time.Second))
	router.Use(metrics.Middleware)

	registerRoutes(router, cfg, deps, logger)
	return router
}

// answerOptions replies 200 to any OPTIONS request the CORS layer let through.
func answerOptions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// newProvider never fails: without a usable provider every AI call serves its fallback.
func newProvider(name string, logger *zap.Logger) llm.Provider {
	provider, err := llm.NewProvider(name)
	if err != nil {
		logger.Warn("AI provider unavailable, using fallback responses", zap.String("provider", name), zap.Error(err))
		return llm.NewDisabledProvider(name, err)
	}
	return provider
}

func newPublisher(cfg *config.Config, logger *zap.Logger) events.Publisher {
	if cfg.RedisAddr == "" {
		logger.Info("REDIS_ADDR not set, session events disabled")
		return events.NoopPublisher{}
	}
	logger.Info("Publishing session events", zap.String("redis", cfg.RedisAddr), zap.String("channel", cfg.EventsChannel))
	return events.NewRedisPublisher(cfg.RedisAddr, cfg.EventsChannel, logger)
}

func main() {
	// a missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fallback, _ := zap.NewProduction()
		fallback.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger, err := utils.NewLogger(cfg.Environment)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Environment),
		zap.String("provider", cfg.Provider),
		zap.String("database", cfg.DatabaseDriver))

	promptManager, err := prompts.NewPromptManager()
	if err != nil {
		logger.Fatal("Failed to initialize prompt manager", zap.Error(err))
	}

	db, err := repositories.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	publisher := newPublisher(cfg, logger)
	defer publisher.Close()

	deps := dependencies{
		db:            db,
		provider:      newProvider(cfg.Provider, logger),
		promptManager: promptManager,
		publisher:     publisher,
	}

	sweeper := jobs.NewSessionSweeper(repositories.NewSessionRepository(db), jobs.SweeperConfig{
		Enabled:  cfg.SweepEnabled,
		Schedule: cfg.SweepSchedule,
		MaxAge:   cfg.MaxSessionAge,
	}, logger)
	if err := sweeper.Start(); err != nil {
		logger.Fatal("Failed to start session sweeper", zap.Error(err))
	}

	serverAddr := ":" + cfg.Port

	// http server with timeouts; AI calls bound the write timeout
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      newRouter(cfg, deps, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AITimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Interview service starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shutdown the server
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Interview service shutting down...")
	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info("Interview service exited")
}
