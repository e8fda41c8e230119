package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BruksfildServices01/alpha-clean/internal/audit"
	"github.com/BruksfildServices01/alpha-clean/internal/cache"
	"github.com/BruksfildServices01/alpha-clean/internal/config"
	dbpkg "github.com/BruksfildServices01/alpha-clean/internal/db"
	"github.com/BruksfildServices01/alpha-clean/internal/infra/storage"
	"github.com/BruksfildServices01/alpha-clean/internal/logging"
	"github.com/BruksfildServices01/alpha-clean/internal/metrics"
	"github.com/BruksfildServices01/alpha-clean/internal/notify"
	"github.com/BruksfildServices01/alpha-clean/internal/reports"
	"github.com/BruksfildServices01/alpha-clean/internal/routes"
	"github.com/BruksfildServices01/alpha-clean/internal/whatsapp"
)

func main() {
	// .env é opcional; em produção as variáveis vêm do ambiente
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting alpha-clean api",
		"env", cfg.Env,
		"port", cfg.ServerPort,
		"timezone", cfg.ShopTimezone,
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		if cfg.JWTSecret == "changeme" {
			logger.Error("JWT_SECRET must be set in production")
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ======================================================
	// INFRA
	// ======================================================
	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	pool, err := dbpkg.NewPool(ctx, cfg)
	if err != nil {
		logger.Error("failed to open reports pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	rdb, closeRedis, err := cache.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to connect redis", "error", err)
		os.Exit(1)
	}
	defer closeRedis()

	auditStore := audit.New(db)
	dispatcher := audit.NewDispatcher(auditStore, logger)
	defer dispatcher.Close()

	var images *storage.ImageStore
	if cfg.S3Bucket != "" {
		images = storage.NewImageStore(storage.NewS3Client(cfg), cfg, logger)
	} else {
		images = storage.NewImageStore(nil, cfg, logger)
		logger.Warn("S3_BUCKET not set, service image upload disabled")
	}

	var wa *whatsapp.Client
	if cfg.WhatsAppURL != "" {
		wa, err = whatsapp.New(whatsapp.Config{
			BaseURL: cfg.WhatsAppURL,
			APIKey:  cfg.WhatsAppAPIKey,
			Timeout: 10 * time.Second,
			Logger:  logger,
		})
		if err != nil {
			logger.Error("invalid whatsapp config", "error", err)
			os.Exit(1)
		}
	}

	email := notify.NewEmailSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	var resolver *net.Resolver
	if cfg.IsProduction() {
		resolver = net.DefaultResolver
	}

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	deps := routes.Deps{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Redis:    rdb,
		Reports:  reports.NewRepository(pool),
		Audit:    auditStore,
		Events:   dispatcher,
		Images:   images,
		WhatsApp: wa,
		Email:    email,
		Metrics:  m,
	}
	if resolver != nil {
		deps.Resolver = resolver
	}
	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}
