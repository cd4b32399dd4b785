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

	"hrms/internal/config"
	"hrms/internal/console"
	"hrms/internal/consoleweb"
	"hrms/internal/hrclient"
	"hrms/internal/httpmiddleware"
	"hrms/internal/logging"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg := config.LoadConsole()

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

	if err := run(cfg, log); err != nil {
		log.Error("console server failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Console, log *zap.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	client := hrclient.New(cfg.APIURL,
		hrclient.WithTimeout(cfg.APITimeout),
		hrclient.WithMetrics(hrclient.NewMetrics(reg)))

	opts := console.Options{NotifyTTL: cfg.NotifyTTL, Logger: log}
	sessions := console.NewSessions(func() *console.Workspace {
		return console.NewWorkspace(client, opts)
	}, log)
	defer sessions.CloseAll()
	consoleweb.RegisterMetrics(reg, sessions)

	metrics := httpmiddleware.NewHTTPMetrics(reg, "hrms_console")

	r := gin.New()
	r.Use(httpmiddleware.Recovery(log))
	r.Use(httpmiddleware.AccessLog(log, "/healthz", "/metrics"))
	r.Use(httpmiddleware.SecurityHeaders())
	r.Use(metrics.Middleware())

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": sessions.Len()})
	})
	consoleweb.NewHandler(sessions, consoleweb.Options{
		Cookie: cfg.SessionCookie,
		Secure: cfg.IsProduction(),
		Logger: log,
	}).Register(r)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sweep(ctx, sessions, cfg.SweepInterval, cfg.SessionIdleTTL)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.APITimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting console", zap.String("addr", srv.Addr), zap.String("api", cfg.APIURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down console")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("console forced shutdown", zap.Error(err))
	}
	log.Info("console exited")
	return nil
}

// sweep closes idle sessions until ctx is done.
func sweep(ctx context.Context, sessions *console.Sessions, every, idle time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			sessions.Sweep(idle)
		}
	}
}
