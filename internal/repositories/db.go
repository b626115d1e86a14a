// Package repositories provides the data access layer: the Postgres store
// for QR transactions and users, and the Redis cache in front of
// transaction metadata reads.
package repositories

import (
	"context"
	"log"
	"time"

	"ezpay/internal/config"
	"ezpay/internal/models"

	"ezpay/internal/repositories/cache"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database instance used across the application.
var DB *gorm.DB

// CacheService fronts transaction metadata reads; nil when Redis is
// unavailable, in which case reads fall through to Postgres.
var CacheService *cache.CacheService

// InitDB opens the Postgres connection, runs migrations and connects the
// Redis cache.
func InitDB() error {
	dsn := "host=" + config.GetEnv("DB_HOST", "localhost") +
		" user=" + config.GetEnv("DB_USER", "postgres") +
		" password=" + config.GetEnv("DB_PASSWORD", "postgres") +
		" dbname=" + config.GetEnv("DB_NAME", "ezpay") +
		" port=" + config.GetEnv("DB_PORT", "5432") +
		" sslmode=" + config.GetEnv("DB_SSLMODE", "disable")

	logLevel := logger.Warn
	if config.GetEnv("ENV", "development") == "development" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return err
	}
	DB = db

	if err := DB.AutoMigrate(
		&models.User{},
		&models.QrTransaction{},
	); err != nil {
		return err
	}

	redisCfg := &cache.RedisConfig{
		Host:     config.GetEnv("REDIS_HOST", "localhost"),
		Port:     config.GetEnv("REDIS_PORT", "6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       config.GetIntEnv("REDIS_DB", 0),
	}
	svc := cache.NewCacheService(cache.NewRedisClient(redisCfg), 24*time.Hour)
	if err := svc.HealthCheck(context.Background()); err != nil {
		log.Printf("redis unavailable, metadata reads go straight to Postgres: %v", err)
	} else {
		CacheService = svc
	}

	log.Println("database initialized")
	return nil
}
