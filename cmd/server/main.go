package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"

	"github.com/benvon/deerdiary/internal/config"
	"github.com/benvon/deerdiary/internal/database"
	"github.com/benvon/deerdiary/internal/diary"
	"github.com/benvon/deerdiary/internal/handlers"
	"github.com/benvon/deerdiary/internal/logger"
	"github.com/benvon/deerdiary/internal/middleware"
	"github.com/benvon/deerdiary/internal/preferences"
	"github.com/benvon/deerdiary/internal/queue"
	"github.com/benvon/deerdiary/internal/telemetry"
)

const (
	settingsReloadInterval = time.Minute
	dlqGCInterval          = time.Hour
	dlqRetention           = 24 * time.Hour
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.New(debugMode, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync(zapLogger) }()

	location := cfg.Location()
	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.String("timezone", location.String()),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
		zap.String("version", version),
	)

	tracing := false
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else if tp, err := telemetry.InitTracer(context.Background(), telemetry.APIServiceName, version, cfg.OTELEndpoint); err != nil {
			zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
		} else {
			tracing = true
			zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
					zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
				}
			}()
		}
	}

	// The document store is dialed on first use; requests made while it is down get 400
	connector := database.NewConnector(cfg.DatabaseURL, openWithSchema(zapLogger))
	defer func() {
		if err := connector.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	warmCtx, warmCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if _, err := connector.DB(warmCtx); err != nil {
		zapLogger.Warn("document_store_unavailable_at_startup", zap.Error(err))
	} else {
		zapLogger.Info("connected_to_database")
	}
	warmCancel()

	d := routerDeps{
		logger:      zapLogger,
		location:    location,
		notes:       connector,
		summaries:   connector,
		openAPIPath: filepath.Join("api", "openapi", "openapi.yaml"),
		enableHSTS:  cfg.EnableHSTS,
		tracing:     tracing,
	}
	healthDeps := []handlers.Pinger{connector, nil, nil}

	composer := diary.NewComposer(location)
	if cfg.SeedSampleEntries {
		composer.Seed(diary.SampleEntries()...)
		zapLogger.Info("seeded_sample_entries", zap.Int("entries", composer.Len()))
	}
	d.composer = composer

	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	corsReloader := middleware.NewCORSReloader(connector, cfg.FrontendURL, zapLogger, settingsReloadInterval)
	d.cors = corsReloader.Middleware()
	go corsReloader.Start(bgCtx)

	// Redis backs both the rate limiter and the theme preference
	redisLimiter, err := middleware.NewRedisRateLimiter(cfg.RedisURL)
	if err != nil {
		zapLogger.Warn("redis_unavailable_rate_limit_and_preferences_disabled", zap.Error(err))
	} else {
		defer func() {
			if err := redisLimiter.Close(); err != nil {
				zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
			}
		}()
		zapLogger.Info("connected_to_redis")
		d.themes = preferences.NewThemeStore(redisLimiter.Client())
		healthDeps[1] = redisLimiter

		store, err := redisstore.NewStore(redisLimiter.Client())
		if err != nil {
			zapLogger.Fatal("failed_to_create_redis_store_for_rate_limiter", zap.Error(err))
		}
		rateLimitReloader, err := middleware.NewRateLimitReloader(store, connector, middleware.DefaultRatelimitRate, zapLogger, settingsReloadInterval)
		if err != nil {
			zapLogger.Fatal("failed_to_create_rate_limit_reloader", zap.Error(err))
		}
		d.rateLimit = rateLimitReloader.Middleware()
		go rateLimitReloader.Start(bgCtx)
	}

	if cfg.RabbitMQURL != "" {
		jobQueue := connectRabbitMQ(cfg.RabbitMQURL, zapLogger)
		defer func() {
			if err := jobQueue.Close(); err != nil {
				zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
			}
		}()
		d.jobQueue = jobQueue
		healthDeps[2] = handlers.PingFunc(jobQueue.HealthCheck)

		gc := queue.NewGarbageCollector(jobQueue, dlqGCInterval, dlqRetention, zapLogger)
		go func() {
			if err := gc.Start(bgCtx); err != nil && !errors.Is(err, context.Canceled) {
				zapLogger.Error("dlq_garbage_collector_stopped_with_error", zap.Error(err))
			}
		}()
		zapLogger.Info("started_dlq_garbage_collector",
			zap.Duration("interval", dlqGCInterval),
			zap.Duration("retention", dlqRetention),
		)
	} else {
		zapLogger.Info("rabbitmq_not_configured_tag_summaries_disabled")
	}

	d.health = handlers.NewHealthCheckerWithDeps(healthDeps[0], healthDeps[1], healthDeps[2])

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        newRouter(d),
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   middleware.DefaultRequestTimeout + 5*time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")
	bgCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

// openWithSchema dials the store and creates missing tables on the first successful dial
func openWithSchema(zapLogger *zap.Logger) database.OpenFunc {
	return func(ctx context.Context, databaseURL string) (*database.DB, error) {
		db, err := database.NewContext(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureSchema(ctx); err != nil {
			return nil, errors.Join(err, db.Close())
		}
		zapLogger.Info("database_schema_ready")
		return db, nil
	}
}

// connectRabbitMQ retries with exponential backoff so the server survives RabbitMQ starting after it
func connectRabbitMQ(url string, zapLogger *zap.Logger) *queue.RabbitMQQueue {
	const maxRetries = 10
	const initialDelay = 2 * time.Second

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		q, err := queue.NewRabbitMQQueue(url, zapLogger)
		if err == nil {
			zapLogger.Info("connected_to_rabbitmq")
			return q
		}
		lastErr = err

		delay := min(initialDelay*time.Duration(1<<uint(attempt)), 30*time.Second)
		zapLogger.Warn("failed_to_connect_to_rabbitmq_retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
			zap.Error(err),
			zap.Duration("retry_delay", delay),
		)
		time.Sleep(delay)
	}

	zapLogger.Fatal("failed_to_connect_to_rabbitmq_after_retries",
		zap.Int("max_retries", maxRetries),
		zap.Error(lastErr),
	)
	return nil
}
