package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Simplici0/hpp/internal/config"
	"github.com/Simplici0/hpp/internal/db"
	"github.com/Simplici0/hpp/internal/metrics"
	"github.com/Simplici0/hpp/internal/migrations"
	"github.com/Simplici0/hpp/internal/quote"
	"github.com/Simplici0/hpp/internal/seed"
	"github.com/Simplici0/hpp/internal/store"
)

const shutdownTimeout = 10 * time.Second

type server struct {
	store  *store.Store
	quotes *quote.Service
	logger *zap.Logger
}

func main() {
	cfg := config.Load()

	logger, err := initLogger(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database); err != nil {
			logger.Fatal("failed to run database migrations", zap.Error(err))
		}
	}

	if cfg.SeedDefaultRule {
		stats, err := seed.Run(database, seed.Config{CompanyID: cfg.DefaultCompanyID})
		if err != nil {
			logger.Fatal("failed to seed default pricing rule", zap.Error(err))
		}
		logger.Info("seed completed", zap.Int("inserts", stats.Inserts))
	}

	registry := prometheus.NewRegistry()
	recorder, err := metrics.NewPrometheusRecorder(registry)
	if err != nil {
		logger.Fatal("failed to set up metrics", zap.Error(err))
	}

	st := store.New(database)
	srv := &server{
		store:  st,
		quotes: quote.NewService(st, recorder, logger),
		logger: logger,
	}

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.routes(registry),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", httpSrv.Addr), zap.String("env", cfg.AppEnv))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
}

func (s *server) routes(registry *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(registry))

	r.Route("/api", func(r chi.Router) {
		r.Post("/pricing/preview", s.handlePricingPreview)
		r.Post("/pricing/validate", s.handlePricingValidate)

		r.Get("/companies/{companyID}/pricing-rules", s.handleRulesList)
		r.Post("/companies/{companyID}/pricing-rules", s.handleRulesCreate)
		r.Post("/pricing-rules/{ruleID}", s.handleRulesUpdate)

		r.Post("/orders", s.handleOrdersCreate)
		r.Get("/orders/{orderID}", s.handleOrdersGet)
		r.Post("/orders/{orderID}/items", s.handleOrderItemsCreate)
		r.Post("/order-items/{itemID}/price", s.handleOrderItemsPrice)
	})

	return r
}

func initLogger(format, level string) (*zap.Logger, error) {
	var zapCfg zap.Config

	if format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}
