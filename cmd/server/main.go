// Package main runs the webhook listener: it captures Zoom breakout-room
// events, streams them to monitors over WebSocket, and serves the operator
// API for report runs.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/roomtrack/backend/config"
	"github.com/roomtrack/backend/internal/auth"
	"github.com/roomtrack/backend/internal/middleware"
	"github.com/roomtrack/backend/internal/realtime"
	"github.com/roomtrack/backend/internal/report"
	"github.com/roomtrack/backend/internal/webhook"
	"github.com/roomtrack/backend/pkg/database"
	"github.com/roomtrack/backend/pkg/queue"
	"github.com/roomtrack/backend/pkg/redis"
	"github.com/roomtrack/backend/pkg/response"
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

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

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

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	redisPubSub := realtime.NewRedisPubSub(rdb.Client, logger)
	hub := realtime.NewHub(logger, redisPubSub, redisPubSub)

	eventRepo := webhook.NewRepository(pool, loc)
	webhookHandler := webhook.NewHandler(eventRepo, hub, cfg.Zoom.WebhookSecretToken, logger)

	authHandler := auth.NewHandler(cfg.Operator, jwtService, logger)

	runRepo := report.NewRunRepository(pool)
	jobQueue := queue.NewQueue(rdb.Client, logger)
	var presigner report.Presigner
	if s3Client != nil {
		presigner = s3Client
	}
	reportHandler := report.NewHandler(runRepo, jobQueue, presigner, eventRepo, hub, loc, s3Client != nil, logger)

	jwtValidate := func(token string) error {
		_, err := jwtService.Validate(token)
		return err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Webhooks (no JWT; Zoom signature validated in handler when configured)
	router.POST("/webhook", webhookHandler.Receive)

	// Auth (public)
	router.POST("/auth/login", authHandler.Login)

	// Operator API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		api.GET("/reports", reportHandler.List)
		api.POST("/reports/generate", reportHandler.Generate)
		api.GET("/reports/:date/download-url", reportHandler.DownloadURL)
		api.GET("/stats/today", reportHandler.TodayStats)
	}

	// WebSocket monitor feed (token in query; no Authorization header)
	router.GET("/ws", realtime.ServeWs(hub, logger, jwtValidate))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("listener started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("listener stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
