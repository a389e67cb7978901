package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/citystory/placesearch/internal/config"
	"github.com/citystory/placesearch/internal/db"
	dbRedis "github.com/citystory/placesearch/internal/db/redis"
	"github.com/citystory/placesearch/internal/domain/moderation"
	"github.com/citystory/placesearch/internal/domain/search/request"
	"github.com/citystory/placesearch/internal/events"
	logpkg "github.com/citystory/placesearch/internal/logger"
	"github.com/citystory/placesearch/internal/metrics"
	placerepo "github.com/citystory/placesearch/internal/repository/place"
	"github.com/citystory/placesearch/internal/repository/querycache"
	chiTransport "github.com/citystory/placesearch/internal/transport/chi"
	awardsuc "github.com/citystory/placesearch/internal/usecase/awards"
	moderationuc "github.com/citystory/placesearch/internal/usecase/moderation"
	searchuc "github.com/citystory/placesearch/internal/usecase/search"
	"github.com/citystory/placesearch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting placesearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	var store db.Store
	switch cfg.Database.Driver {
	case "redis":
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
	default:
		logger.Fatal("Unknown database driver", zap.String("driver", cfg.Database.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Repositories
	placeRepo := placerepo.NewRepository(store)
	resultCache := querycache.New(store, logger, querycache.Options{
		TTL:        time.Duration(cfg.Cache.TTLSec) * time.Second,
		MaxResults: cfg.Cache.MaxCachedResults,
		KeyPrefix:  cfg.Cache.KeyPrefix,
	})

	// Event bus — cache invalidation and awards react to moderation changes.
	bus := events.NewBus(logger)
	bus.Subscribe("query_cache", resultCache.HandleModerationEvent)
	awardsSvc := awardsuc.New(store, logger)
	bus.Subscribe("awards", awardsSvc.HandleModerationEvent)
	bus.Subscribe("audit_log", func(_ context.Context, ev moderation.Event) error {
		logger.Info("moderation event",
			zap.String("event_id", ev.ID),
			zap.String("type", string(ev.Type)),
			zap.String("place_id", ev.PlaceID),
			zap.String("moderator", ev.Moderator),
		)
		return nil
	})

	// Use case services
	searchSvc := searchuc.New(placeRepo, resultCache).WithTuning(searchuc.Tuning{
		MinRank:            cfg.Search.MinRank,
		FuzzyTriggerCount:  cfg.Search.FuzzyTriggerCount,
		FuzzyDamping:       cfg.Search.FuzzyDamping,
		FuzzyMinSimilarity: cfg.Search.FuzzyMinSimilarity,
	})
	moderationSvc := moderationuc.New(placeRepo, bus, logger)

	limits := request.Limits{
		DefaultPageSize: cfg.Search.DefaultPageSize,
		MaxPageSize:     cfg.Search.MaxPageSize,
	}
	server := chiTransport.NewServer(searchSvc, moderationSvc, store, limits, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.ViewerMiddleware())
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
