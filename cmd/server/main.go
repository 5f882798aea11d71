package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"verigate/internal/audit"
	"verigate/internal/platform/config"
	"verigate/internal/platform/httpserver"
	"verigate/internal/platform/logger"
	platformredis "verigate/internal/platform/redis"
	"verigate/internal/ratelimit"
	"verigate/internal/verify"
	"verigate/internal/verify/gate"
	verifyhandler "verigate/internal/verify/handler"
	verifymetrics "verigate/internal/verify/metrics"
	"verigate/pkg/platform/middleware/metadata"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Log)

	// Attempt store: postgres when configured, in-memory otherwise.
	var store audit.Store
	var db *sql.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("open database failed", "error", err)
			os.Exit(1)
		}
		if err := db.Ping(); err != nil {
			log.Error("database ping failed", "error", err)
			os.Exit(1)
		}
		store = audit.NewPostgresStore(db)
	} else {
		log.Warn("DATABASE_URL not set, attempt records held in memory only")
		store = audit.NewMemoryStore()
	}

	// Rate limiter: redis-backed when configured so replicas share windows.
	var limiterStore ratelimit.Store = ratelimit.NewMemoryStore()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		limiterStore = ratelimit.NewRedisStore(redisClient.Client)
		defer redisClient.Close()
	}
	limiter := ratelimit.New(limiterStore, cfg.RateLimit.Attempts, cfg.RateLimit.Window, log)

	// Optional Kafka fan-out of attempt events.
	recorderOpts := []audit.Option{}
	publisher, err := audit.NewKafkaPublisher(cfg.Kafka)
	if err != nil {
		log.Error("kafka connect failed", "error", err)
		os.Exit(1)
	}
	if publisher != nil {
		recorderOpts = append(recorderOpts, audit.WithPublisher(publisher))
		defer publisher.Close()
	}

	recorder := audit.NewRecorder(store, log, recorderOpts...)
	workerCtx, stopWorker := context.WithCancel(context.Background())
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		recorder.Run(workerCtx)
	}()

	metrics := verifymetrics.New()
	service := verify.NewService(
		verify.NewTrafficScoreVerifier(cfg.Verify, log),
		verify.NewBiometricVerifier(cfg.Verify.FaceMatchThreshold),
		verify.NewIdentityDocumentVerifier(cfg.Verify, log),
		recorder,
		verify.WithLogger(log),
		verify.WithMetrics(metrics),
		verify.WithExternalTimeout(cfg.Verify.ExternalTimeout),
	)

	g := gate.New(service, limiter, log, cfg.Production)
	handler := verifyhandler.New(service, store, limiter, log)

	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)
	router.Use(metadata.ClientMetadata)
	handler.Register(router, g)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting verigate", "addr", cfg.Addr, "production", cfg.Production)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}

	// Stop the audit worker after the server so in-flight requests can still
	// enqueue their records; Run drains the inbox before returning.
	stopWorker()
	<-workerDone

	if db != nil {
		_ = db.Close()
	}
}
