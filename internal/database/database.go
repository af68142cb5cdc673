package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"edstudy/config"
	"edstudy/internal/model"
	"edstudy/internal/store"
	pkgDatabase "edstudy/packages/database"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Stores 服务使用的存储集合
type Stores struct {
	Durable   store.Backend
	Ephemeral store.Backend
	Locker    store.Locker
	Keys      store.Keys

	closers []func() error
}

// Ping 检查所有后端
func (s *Stores) Ping(ctx context.Context) error {
	if err := s.Durable.Ping(ctx); err != nil {
		return fmt.Errorf("durable store: %w", err)
	}
	if err := s.Ephemeral.Ping(ctx); err != nil {
		return fmt.Errorf("ephemeral store: %w", err)
	}
	return nil
}

func (s *Stores) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// NewMemoryStores 全内存存储，开发与测试使用
func NewMemoryStores(keyPrefix string, sessionTTL time.Duration) *Stores {
	return &Stores{
		Durable:   store.NewMemoryBackend(0),
		Ephemeral: store.NewMemoryBackend(sessionTTL),
		Locker:    store.NewMemoryLocker(),
		Keys:      store.Keys{Prefix: keyPrefix},
	}
}

// InitStores 按配置初始化存储后端
func InitStores(c *config.AppConfig, log *logrus.Entry) (*Stores, error) {
	s := NewMemoryStores(c.Store.KeyPrefix, c.Session.TTL)

	var redisClient *pkgDatabase.RedisClient
	if c.Store.Ephemeral == "redis" {
		client, err := pkgDatabase.InitRedis(&pkgDatabase.RedisConfig{
			Host:     c.Redis.Host,
			Port:     c.Redis.Port,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			PoolSize: c.Redis.PoolSize,
		}, log)
		if err != nil {
			return nil, err
		}
		redisClient = client
		s.Ephemeral = store.NewRedisBackend(client, c.Session.TTL)
		// 多实例时集合锁也必须跨进程
		s.Locker = store.NewRedisLocker(client)
		s.closers = append(s.closers, client.Close)
	} else if c.Store.Ephemeral != "memory" {
		return nil, fmt.Errorf("unknown ephemeral store driver %q", c.Store.Ephemeral)
	}

	switch c.Store.Durable {
	case "memory":
		log.Warn("durable store is in-memory, data is lost on restart")
	case "postgres":
		db, err := initPostgres(c.Database, log)
		if err != nil {
			if redisClient != nil {
				_ = redisClient.Close()
			}
			return nil, err
		}
		s.Durable = store.NewPostgresBackend(db)
		s.closers = append(s.closers, func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})
	default:
		return nil, fmt.Errorf("unknown durable store driver %q", c.Store.Durable)
	}

	return s, nil
}

func initPostgres(c config.DatabaseConfig, log *logrus.Entry) (*gorm.DB, error) {
	logLevel := c.LogLevel
	if logLevel == "" {
		logLevel = "silent"
	}

	db, err := pkgDatabase.InitPostgres(&pkgDatabase.PostgresConfig{
		Username:        c.Username,
		Password:        c.Password,
		Host:            c.Host,
		Port:            c.Port,
		Database:        c.Database,
		SSLMode:         c.SSLMode,
		LogLevel:        logLevel,
		MaxIdleConns:    c.MaxIdleConns,
		MaxOpenConns:    c.MaxOpenConns,
		ConnMaxLifetime: time.Duration(c.MaxLifetime) * time.Second,
	}, log)
	if err != nil {
		return nil, err
	}

	if err := model.InitTable(db); err != nil {
		return nil, err
	}
	return db, nil
}
