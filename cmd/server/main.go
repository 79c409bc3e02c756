package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Simplici0/print.works/internal/config"
	"github.com/Simplici0/print.works/internal/db"
	"github.com/Simplici0/print.works/internal/logger"
	"github.com/Simplici0/print.works/internal/migrations"
	"github.com/Simplici0/print.works/internal/pricing"
	"github.com/Simplici0/print.works/internal/quote"
	"github.com/Simplici0/print.works/internal/seed"
)

type server struct {
	auth    *authService
	pricing pricing.Config
	store   *quote.Store
}

func main() {
	if err := run(); err != nil {
		logger.Error("server stopped", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database); err != nil {
			return fmt.Errorf("run database migrations: %w", err)
		}
	}

	stats, err := seed.Run(database, seed.Config{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	})
	if err != nil {
		return fmt.Errorf("seed database: %w", err)
	}
	if stats.Inserts > 0 || stats.Updates > 0 {
		logger.Info("seeded database",
			zap.Int("inserts", stats.Inserts),
			zap.Int("updates", stats.Updates))
	}

	pricingCfg, err := loadPricingConfig(database)
	if err != nil {
		return fmt.Errorf("load pricing config: %w", err)
	}

	srv := &server{
		auth:    newAuthService(database, cfg.SessionSecret),
		pricing: pricingCfg,
		store:   quote.NewStore(database),
	}

	addr := ":" + cfg.Port
	logger.Info("listening",
		zap.String("addr", addr),
		zap.String("env", cfg.Env),
		zap.String("db", cfg.DBPath))
	if err := http.ListenAndServe(addr, srv.routes()); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func (s *server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestLogger)

	r.Get("/healthz", handleHealth)
	r.Post("/api/login", s.handleLogin)
	r.Post("/api/logout", s.handleLogout)
	r.Post("/api/mesh/metrics", s.handleMeshMetrics)
	r.Get("/api/materials", s.handleMaterials)
	r.Get("/api/pricing", s.handlePricing)
	r.Post("/api/quote", s.handleQuote)
	r.Post("/api/quote/upload", s.handleQuoteUpload)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/api/quotes", s.handleQuoteSave)
		r.Get("/api/quotes", s.handleQuotesList)
		r.Get("/api/quotes/{id}", s.handleQuoteDetail)
		r.Get("/api/quotes/{id}/text", s.handleQuoteText)
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}
