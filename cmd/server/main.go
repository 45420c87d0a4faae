package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/config"
	"finance-tracker/internal/handlers"
	"finance-tracker/internal/rates"
	"finance-tracker/internal/scheduler"
	"finance-tracker/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (default ./config.yaml if present)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := storage.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := seedAdmin(ctx, db, cfg.AdminUser, cfg.AdminPass); err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	cache := rates.NewCache()
	refresher := rates.NewRefresher(
		cache,
		rates.NewFetcher(cfg.RatesURL, cfg.RatesConnectTimeout, cfg.RatesReadTimeout),
		rates.NewMetrics(reg),
	)

	runner, err := scheduler.NewRunner(
		scheduler.Job{
			Name:       "currency rates refresh",
			Interval:   cfg.RatesRefreshInterval,
			RunOnStart: true,
			Timeout:    cfg.RatesConnectTimeout + cfg.RatesReadTimeout,
			Run:        refresher.Refresh,
		},
		scheduler.Job{
			Name:     "session cleanup",
			Interval: cfg.SessionCleanupInterval,
			Run: func(ctx context.Context) error {
				n, err := db.CleanExpiredSessions(ctx)
				if err != nil {
					return err
				}
				if n > 0 {
					log.Printf("Removed %d expired sessions", n)
				}
				return nil
			},
		},
	)
	if err != nil {
		log.Fatalf("Failed to configure scheduler: %v", err)
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTIssuer)
	h := handlers.NewHandlers(db, cache, tokens, cfg.SecureCookie, cfg.SessionTTL)
	metrics := handlers.NewRequestMetrics(reg)
	mux := setupRouter(h, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.AuthMiddleware(handlers.Logging(metrics, mux)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runner.Run(gctx)
	})
	g.Go(func() error {
		log.Printf("Server starting on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}

func setupRouter(h *handlers.Handlers, metrics http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)

	// Finance data
	mux.HandleFunc("GET /api/data", h.Dashboard)
	mux.HandleFunc("GET /api/data/goal", h.GetGoal)
	mux.HandleFunc("POST /api/data/goal", h.SaveGoal)
	mux.HandleFunc("DELETE /api/data/goal", h.DeleteGoal)
	mux.HandleFunc("POST /api/data/transaction", h.RecordTransaction)
	mux.HandleFunc("GET /api/data/transactions/today", h.TodayTransactions)
	mux.HandleFunc("GET /api/data/summary", h.Summary)
	mux.HandleFunc("GET /api/data/export", h.ExportTransactions)

	// Exchange rates
	mux.HandleFunc("GET /api/currency", h.CurrencyRates)

	// Operations
	mux.HandleFunc("GET /healthz", h.Healthz)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}

	return mux
}

// seedAdmin creates the configured admin account when the database has no users.
func seedAdmin(ctx context.Context, db *storage.DB, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	count, err := db.UserCount(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if _, err := db.CreateUser(ctx, username, hash); err != nil {
		return err
	}
	log.Printf("Created admin user %q", username)
	return nil
}
