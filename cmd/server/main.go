package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"empire-server/internal/debris"
	"empire-server/internal/fleet"
	"empire-server/internal/game"
	"empire-server/internal/middleware"
	"empire-server/internal/planet"
	"empire-server/internal/player"
	"empire-server/internal/queue"
	"empire-server/internal/server"
	"empire-server/internal/shared/clock"
	"empire-server/internal/shared/config"
	"empire-server/internal/shared/database"
	"empire-server/internal/shared/events"
	"empire-server/internal/shared/logger"
	"empire-server/internal/shared/random"
	"empire-server/internal/shared/redis"
)

func main() {
	if err := config.Init(); err != nil {
		slog.Error("Failed to initialize configuration", "error", err)
		os.Exit(1)
	}

	logger.Init()
	log := slog.With("component", "main")
	cfg := config.GlobalConfig

	db, err := database.Connect()
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}()

	if err := db.RunMigrations(); err != nil {
		log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	redisClient, err := redis.Connect()
	if err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis client", "error", err)
		}
	}()

	var dispatcher events.Dispatcher
	if redisClient != nil {
		dispatcher = events.NewRedisDispatcher(redisClient, cfg.Redis.EventChannel, slog.Default())
	} else {
		dispatcher = events.NewLogDispatcher(slog.Default())
	}

	clk := clock.System{}

	planetRepo := planet.NewRepository(db, slog.Default())
	playerRepo := player.NewRepository(db, slog.Default())
	queueRepo := queue.NewRepository(db, slog.Default())
	fleetRepo := fleet.NewRepository(db, slog.Default())
	debrisRepo := debris.NewRepository(db, slog.Default())

	planetService := planet.NewService(planetRepo, clk, random.CryptoSeed, slog.Default())
	playerService := player.NewService(playerRepo, planetService, slog.Default())
	queueService := queue.NewService(queueRepo, planetRepo, playerRepo, db, clk, dispatcher, slog.Default())
	fleetService := fleet.NewService(
		fleetRepo, planetRepo, planetService, playerRepo, debrisRepo,
		db, clk, dispatcher, random.CryptoSeed, slog.Default(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Sweep.Enabled {
		sweeper := game.NewSweeper(queueService, fleetService, fleetRepo, clk, cfg.Sweep.Interval, slog.Default())
		go sweeper.Run(ctx)
	}

	routes := server.NewRoutes(db, playerService, planetService, queueService, fleetService, debrisRepo, clk, slog.Default())
	mux := routes.Setup()

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
		Enabled:           cfg.RateLimit.Enabled,
		TrustProxy:        cfg.Server.Environment == "production",
	})
	corsMiddleware := middleware.NewCORS()

	handler := corsMiddleware.Middleware(rateLimiter.Middleware(mux))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("Server starting",
			"port", cfg.Server.Port,
			"environment", cfg.Server.Environment,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped")
}
