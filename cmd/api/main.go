package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/lamalux/pricing/internal/cache"
	"github.com/lamalux/pricing/internal/db"
	"github.com/lamalux/pricing/internal/pricing"
)

var (
	commit    string
	buildDate string
)

func main() {
	configPath := flag.String("config", "", "location of config file. If non is specified config will be loaded from the environment")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.WithFields(logrus.Fields{"commit": commit, "date": buildDate}).Info("build info")

	var (
		cfg Config
		err error
	)
	if *configPath != "" {
		logrus.Infof("loading config from file %q", *configPath)
		err = cfg.Load(*configPath)
	} else {
		logrus.Info("loading config from env")
		err = cfg.LoadFromEnv()
	}
	if err != nil {
		logrus.Fatal(err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Fatalf("log level: %v", err)
	}
	logrus.SetLevel(level)

	// DB setup
	repo, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("db err: %v", err)
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Service setup
	svc := pricing.New(repo, nil)
	if cfg.RedisAddr != "" {
		qc, err := cache.New(ctx, cache.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			TTL:      cfg.CacheTTL(),
		})
		if err != nil {
			logrus.WithError(err).Warn("quote cache disabled")
		} else {
			defer qc.Close()
			svc = pricing.New(repo, qc)
			logrus.WithField("addr", cfg.RedisAddr).Info("quote cache enabled")
		}
	}

	h := &handlers{svc: svc}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           newRouter(cfg, h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithField("driver", repo.Driver()).Infof("api listening on %v", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("api err: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("shutdown")
	}
}

func newRouter(cfg Config, h *handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(metricsMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Post("/prices/quote", h.handleQuote)
		r.Post("/prices/compare", h.handleCompare)
		r.Get("/health", h.handleHealth)
		r.Get("/options", h.handleOptions)
	})
	r.Get("/docs", handleDocs)
	r.Get("/openapi.yaml", handleOpenAPI)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
