package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Validator 每条记录在读取时都要通过校验
type Validator interface {
	Validate() error
}

// Collection 存在单个键下的一组记录
type Collection[T Validator] struct {
	backend Backend
	locker  Locker
	key     string
	log     *logrus.Entry
}

func NewCollection[T Validator](backend Backend, locker Locker, key string, log *logrus.Entry) *Collection[T] {
	return &Collection[T]{
		backend: backend,
		locker:  locker,
		key:     key,
		log:     log.WithField("collection", key),
	}
}

func (c *Collection[T]) Key() string {
	return c.key
}

// Load 读取集合。键不存在返回空集合；整体格式错误或单条记录无效时记录告警并丢弃
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	raw, err := c.backend.Get(ctx, c.key)
	if errors.Is(err, ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		c.log.WithError(err).Warn("stored collection is not a JSON array, treating as empty")
		return []T{}, nil
	}

	out := make([]T, 0, len(items))
	for i, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			c.log.WithError(err).WithField("index", i).Warn("dropping unparsable record")
			continue
		}
		if err := v.Validate(); err != nil {
			c.log.WithError(err).WithField("index", i).Warn("dropping invalid record")
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// Save 覆盖写入整个集合
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	return c.backend.Put(ctx, c.key, raw)
}

// Update 在锁内完成读-改-写。fn 返回错误时不写入
func (c *Collection[T]) Update(ctx context.Context, fn func([]T) ([]T, error)) error {
	unlock, err := c.locker.Lock(ctx, c.key)
	if err != nil {
		return err
	}
	defer unlock()

	items, err := c.Load(ctx)
	if err != nil {
		return err
	}
	next, err := fn(items)
	if err != nil {
		return err
	}
	return c.Save(ctx, next)
}

// Clear 删除整个集合，与 Update 共用同一把锁
func (c *Collection[T]) Clear(ctx context.Context) error {
	unlock, err := c.locker.Lock(ctx, c.key)
	if err != nil {
		return err
	}
	defer unlock()
	return c.backend.Delete(ctx, c.key)
}
