// Package main runs the background worker: the report scheduler and the
// queue consumer that generates daily breakout-room reports.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/roomtrack/backend/config"
	"github.com/roomtrack/backend/internal/report"
	"github.com/roomtrack/backend/internal/rooms"
	"github.com/roomtrack/backend/internal/scheduler"
	"github.com/roomtrack/backend/internal/webhook"
	"github.com/roomtrack/backend/internal/worker"
	"github.com/roomtrack/backend/internal/zoomapi"
	"github.com/roomtrack/backend/pkg/database"
	"github.com/roomtrack/backend/pkg/queue"
	"github.com/roomtrack/backend/pkg/redis"
	"github.com/roomtrack/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	loc, err := cfg.Report.Location()
	if err != nil {
		logger.Fatal("report timezone", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			ReportsBucket:        cfg.AWS.ReportsBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	eventRepo := webhook.NewRepository(pool, loc)
	mapping := rooms.LoadMapping(cfg.Report.MappingFile)
	writer := report.NewWriter(cfg.Report.OutputDir)

	var samples report.SampleSource
	if cfg.Zoom.ClientID != "" && cfg.Zoom.MeetingID != "" {
		cache := zoomapi.NewRedisTokenCache(rdb.Client)
		samples = zoomapi.NewClient(cfg.Zoom, cache, loc, logger)
	} else {
		logger.Warn("zoom api not configured, camera allocation will be zero")
	}

	engine := report.NewEngine(eventRepo, samples, mapping, writer, loc, logger)
	runRepo := report.NewRunRepository(pool)
	jobQueue := queue.NewQueue(rdb.Client, logger)

	processor := worker.NewReportProcessor(engine, runRepo, s3Client, jobQueue, logger)
	sched := scheduler.New(cfg.Schedule, runRepo, jobQueue, loc, s3Client != nil, logger)

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sched.Run(runCtx)
	go processor.Run(runCtx)
	logger.Info("worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	logger.Info("worker stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
