package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"campusmess/database"
	"campusmess/internal/config"
	"campusmess/internal/logger"
	"campusmess/internal/middleware/auth"
	"campusmess/internal/microservices/http-api/handler"
	"campusmess/internal/microservices/http-api/middleware"
	"campusmess/internal/microservices/http-api/service"
	"campusmess/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Get().Fatal().Err(err).Msg("could not load config")
	}
	logger.Init("campusmess-api", cfg.LogLevel, cfg.LogFormat)
	log := logger.Get()

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect the data store
	connectCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	store, closeStore, err := database.Open(connectCtx, cfg, log)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("could not open store")
	}

	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	limiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)
	stopCleanup := make(chan struct{})
	limiter.StartCleanup(time.Minute, stopCleanup)

	router := handler.NewRouter(handler.Services{
		Auth:   service.NewAuthService(store.Users, hasher, tokens),
		Users:  service.NewUserService(store.Users, store.Messes),
		Messes: service.NewMessService(store.Messes, store.Reviews),
		Review: service.NewReviewService(store.Reviews, store.Messes, store.Users),
		Offers: service.NewOfferService(store.Messes),
	}, handler.RouterConfig{
		Tokens:         tokens,
		AuthLimiter:    limiter,
		Ping:           store.Ping,
		Static:         web.Static(),
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
		EnableMetrics:  cfg.PrometheusEnabled,
	})

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("store", cfg.StoreDriver).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	exitCode := 0
	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	case err := <-errChan:
		log.Error().Err(err).Msg("server error")
		exitCode = 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	close(stopCleanup)
	if err := closeStore(ctx); err != nil {
		log.Error().Err(err).Msg("store shutdown")
	}
	log.Info().Msg("server stopped gracefully")
	os.Exit(exitCode)
}
