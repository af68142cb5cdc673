package testutils

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"

	"edstudy/internal/database"
	"edstudy/internal/logger"
	"edstudy/internal/model"
	pkgDatabase "edstudy/packages/database"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewStores 全内存存储，每个测试独立
func NewStores(t *testing.T) *database.Stores {
	t.Helper()
	return database.NewMemoryStores("edstudy_", 0)
}

// SetupTestDB connects to the test Postgres described by TEST_DATABASE_DSN or
// POSTGRES_* variables, migrates the tables and returns a transaction that is
// rolled back on cleanup. Skips the test when the database is unreachable.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			getEnvOrDefault("POSTGRES_HOST", "localhost"),
			getEnvOrDefault("POSTGRES_PORT", "5433"),
			getEnvOrDefault("POSTGRES_USER", "test"),
			getEnvOrDefault("POSTGRES_PASSWORD", "test"),
			getEnvOrDefault("POSTGRES_DB", "edstudy_test"),
		)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil || sqlDB.Ping() != nil {
		t.Skip("postgres unavailable")
	}

	if err := model.InitTable(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	tx := db.Begin()
	t.Cleanup(func() {
		tx.Rollback()
		sqlDB.Close()
	})
	return tx
}

// SetupTestRedis connects to the test Redis and flushes it on cleanup.
// Skips the test when Redis is unreachable.
func SetupTestRedis(t *testing.T) *pkgDatabase.RedisClient {
	t.Helper()

	port, err := strconv.Atoi(getEnvOrDefault("REDIS_PORT", "6380"))
	if err != nil || port == 0 {
		port = 6380
	}

	client, err := pkgDatabase.InitRedis(&pkgDatabase.RedisConfig{
		Host: getEnvOrDefault("REDIS_HOST", "localhost"),
		Port: port,
	}, logger.Discard())
	if err != nil {
		t.Skipf("redis unavailable: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})
	return client
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
