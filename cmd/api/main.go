package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"hrms/internal/api"
	"hrms/internal/attendance"
	"hrms/internal/config"
	"hrms/internal/httpmiddleware"
	"hrms/internal/logging"
	"hrms/internal/store"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg := config.LoadAPI()

	log, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	for _, w := range cfg.Warnings {
		log.Warn("config", zap.String("warning", w))
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg, log); err != nil {
		log.Error("http server failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg config.API, log *zap.Logger) (attendance.Store, *store.DB, error) {
	if cfg.StoreBackend == "memory" {
		log.Warn("using in-memory store; data is lost on restart")
		return attendance.NewMemoryStore(), nil, nil
	}
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	db, err := store.NewDB(connectCtx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := db.EnsureSchema(connectCtx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return attendance.NewRepository(db.Client), db, nil
}

func runHTTP(cfg config.API, log *zap.Logger) error {
	ctx := context.Background()

	st, db, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	var limiter httpmiddleware.Limiter = httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin)
	checks := map[string]api.Check{"store": func(ctx context.Context) bool { return st.Ping(ctx) == nil }}
	if cfg.RateLimitBackend == "redis" {
		rdb := store.NewRedis(store.RedisConfig{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		defer rdb.Close()
		limiter = httpmiddleware.NewRedisWindow(rdb.Client, cfg.RateLimitPerMin)
		checks["redis"] = rdb.Healthy
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := httpmiddleware.NewHTTPMetrics(reg, "hrms_api")

	r := gin.New()
	r.Use(httpmiddleware.Recovery(log))
	r.Use(httpmiddleware.AccessLog(log, "/healthz", "/health", "/metrics"))
	r.Use(httpmiddleware.CORS(cfg.CORSOrigins))
	r.Use(httpmiddleware.SecurityHeaders())
	r.Use(metrics.Middleware())

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	api.Health(r, checks)

	limited := r.Group("/", httpmiddleware.RateLimit(limiter, log))
	api.NewHandler(attendance.NewService(st, log), log).Register(limited)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server",
			zap.String("addr", srv.Addr),
			zap.String("store", cfg.StoreBackend),
			zap.String("rate_limit", cfg.RateLimitBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("server forced shutdown", zap.Error(err))
	}
	log.Info("server exited")
	return nil
}
