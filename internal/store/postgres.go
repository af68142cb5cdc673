package store

import (
	"context"
	"errors"
	"fmt"

	"edstudy/internal/model/record"
	"edstudy/packages/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresBackend 持久化存储，对应 records 表
type PostgresBackend struct {
	db *gorm.DB
}

func NewPostgresBackend(db *gorm.DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

func (p *PostgresBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var rec record.Record
	err := p.db.WithContext(ctx).Where("key = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询记录 %s 失败: %w", key, err)
	}
	return rec.Value, nil
}

func (p *PostgresBackend) Put(ctx context.Context, key string, value []byte) error {
	rec := record.Record{Key: key, Value: value}
	err := p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("写入记录 %s 失败: %w", key, err)
	}
	return nil
}

func (p *PostgresBackend) Delete(ctx context.Context, key string) error {
	if err := p.db.WithContext(ctx).Where("key = ?", key).Delete(&record.Record{}).Error; err != nil {
		return fmt.Errorf("删除记录 %s 失败: %w", key, err)
	}
	return nil
}

func (p *PostgresBackend) Ping(ctx context.Context) error {
	return database.PingPostgres(ctx, p.db)
}
