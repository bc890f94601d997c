package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/benvon/deerdiary/internal/config"
	"github.com/benvon/deerdiary/internal/database"
	"github.com/benvon/deerdiary/internal/logger"
	"github.com/benvon/deerdiary/internal/queue"
	"github.com/benvon/deerdiary/internal/telemetry"
	"github.com/benvon/deerdiary/internal/workers"
)

const (
	dlqGCInterval = time.Hour
	dlqRetention  = 24 * time.Hour
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.WorkerDebugMode || *debugFlag

	zapLogger, err := logger.New(debugMode, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync(zapLogger) }()

	if cfg.RabbitMQURL == "" {
		zapLogger.Fatal("rabbitmq_url_required_for_worker")
	}

	zapLogger.Info("starting_worker",
		zap.Bool("debug_mode", debugMode),
		zap.Int("prefetch", cfg.RabbitMQPrefetch),
	)

	if cfg.OTELEnabled && cfg.OTELEndpoint != "" {
		tp, err := telemetry.InitTracer(context.Background(), telemetry.WorkerServiceName, "", cfg.OTELEndpoint)
		if err != nil {
			zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
					zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
				}
			}()
		}
	}

	// The worker cannot do anything without the store, so it dials eagerly
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	if err := db.EnsureSchema(context.Background()); err != nil {
		zapLogger.Fatal("failed_to_ensure_database_schema", zap.Error(err))
	}
	zapLogger.Info("connected_to_database")

	jobQueue, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_rabbitmq", zap.Error(err))
	}
	defer func() {
		if err := jobQueue.Close(); err != nil {
			zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_rabbitmq")

	summarizer := workers.NewSummarizer(
		database.NewNoteRepository(db),
		database.NewTagSummaryRepository(db),
		jobQueue,
		zapLogger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	msgChan, errChan, err := jobQueue.Consume(ctx, cfg.RabbitMQPrefetch)
	if err != nil {
		zapLogger.Fatal("failed_to_start_consuming", zap.Error(err))
	}
	zapLogger.Info("worker_started")

	gc := queue.NewGarbageCollector(jobQueue, dlqGCInterval, dlqRetention, zapLogger)
	go func() {
		if err := gc.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			zapLogger.Error("dlq_garbage_collector_stopped_with_error", zap.Error(err))
		}
	}()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgChan:
				if !ok {
					zapLogger.Info("message_channel_closed")
					cancel()
					return
				}
				process(ctx, summarizer, msg, zapLogger)
			}
		}
	}()

	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-errChan:
				if !ok {
					return
				}
				zapLogger.Error("queue_error", zap.Error(err))
			}
		}
	}()

	select {
	case <-sigChan:
		zapLogger.Info("shutdown_signal_received")
	case <-ctx.Done():
	}
	cancel()
	wg.Wait()

	zapLogger.Info("worker_stopped")
}

// process runs one job inside a consumer span
func process(ctx context.Context, summarizer *workers.Summarizer, msg *queue.Message, zapLogger *zap.Logger) {
	job := msg.GetJob()
	ctx, span := telemetry.StartJobSpan(ctx, string(job.Type), job.ID.String(), job.Month)
	defer span.End()

	if err := summarizer.ProcessJob(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "job failed")
		zapLogger.Error("failed_to_process_job",
			zap.Error(err),
			zap.String("job_id", job.ID.String()),
			zap.String("job_type", string(job.Type)),
		)
	}
}
