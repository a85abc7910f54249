package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/reliefpc/clinic-portal/internal/analytics"
	"github.com/reliefpc/clinic-portal/internal/backend"
	appconfig "github.com/reliefpc/clinic-portal/internal/config"
	"github.com/reliefpc/clinic-portal/internal/observability/metrics"
	"github.com/reliefpc/clinic-portal/internal/session"
	"github.com/reliefpc/clinic-portal/internal/web"
	"github.com/reliefpc/clinic-portal/pkg/logging"
)

func main() {
	// .env is optional; real deployments configure the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic-portal",
		"env", cfg.Env,
		"port", cfg.Port,
		"api", cfg.APIBaseURL,
	)

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOptions)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Error("redis not available", "addr", cfg.RedisAddr, "error", err)
		os.Exit(1)
	}

	upstreamMetrics := metrics.NewUpstreamMetrics(nil)

	apiClient, err := backend.New(backend.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
		Logger:  logger,
		Metrics: upstreamMetrics,
	})
	if err != nil {
		logger.Error("failed to build API client", "error", err)
		os.Exit(1)
	}

	sessions := session.NewStore(redisClient, cfg.SessionTTL, logger)
	cookies := session.NewCookieCodec(cfg.SessionSecret, cfg.SessionTTL)
	fetcher := analytics.NewFetcher(apiClient, logger)

	handler, err := web.NewHandler(web.HandlerConfig{
		Directory: apiClient,
		Auth:      apiClient,
		Sessions:  sessions,
		Cookies:   cookies,
		Analytics: fetcher,
		Logger:    logger,
	})
	if err != nil {
		logger.Error("failed to build handler", "error", err)
		os.Exit(1)
	}

	router := web.NewRouter(web.RouterConfig{
		Handler:        handler,
		Sessions:       sessions,
		Cookies:        cookies,
		Logger:         logger,
		MetricsHandler: promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
