package database

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"edudash_backend/internals/configs"
)

var DB *gorm.DB

func ConnectDB(cfg configs.AppConfig, logger zerolog.Logger) error {
	logger.Info().Msg("🔌 Connecting to PostgreSQL (Supabase)...")

	level := gormLogger.Warn
	if cfg.IsLocal() {
		level = gormLogger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // PgBouncer transaction pooling
	}), &gorm.Config{
		Logger:                 configs.NewGormLogger(logger, level),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return err
	}
	DB = db
	logger.Info().Msg("✅ DB connected.")
	return nil
}

func TunePool(logger zerolog.Logger) {
	sqlDB, err := DB.DB()
	if err != nil {
		logger.Warn().Err(err).Msg("pool tune err")
		return
	}
	// Principal hub fans out ~20 queries per refresh; keep headroom for two concurrent refreshes.
	sqlDB.SetMaxOpenConns(40)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries(logger zerolog.Logger) {
	go func() {
		time.Sleep(500 * time.Millisecond)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := Ping(ctx); err != nil {
			logger.Warn().Err(err).Msg("warm-up ping err")
		}
	}()
}

func Ping(ctx context.Context) error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close() {
	if DB == nil {
		return
	}
	if sqlDB, err := DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
