package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anoa.com/blogapi/internal/config"
	"anoa.com/blogapi/internal/server"
	"anoa.com/blogapi/pkg/database"
	"anoa.com/blogapi/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.Format = cfg.LogFormat
	logCfg.Output = cfg.LogOutput
	logCfg.FilePath = cfg.LogFile
	zapLog, err := logger.New(logCfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zapLog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(database.Options{
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	})
	if err != nil {
		zapLog.Fatal("database connection failed", zap.Error(err))
	}
	if err := server.Migrate(db); err != nil {
		zapLog.Fatal("migration failed", zap.Error(err))
	}

	redisClient, err := database.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		// tags are served from postgres without the cache
		zapLog.Warn("redis unavailable, tag cache disabled", zap.Error(err))
	}

	srv, err := server.NewServer(ctx, cfg, db, redisClient, zapLog)
	if err != nil {
		zapLog.Fatal("failed to build server", zap.Error(err))
	}

	if err := srv.Run(ctx); err != nil {
		zapLog.Fatal("server exited with error", zap.Error(err))
	}
	zapLog.Info("server stopped")
}
