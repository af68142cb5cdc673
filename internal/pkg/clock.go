package pkg

import (
	"sync"
	"time"
)

// Clock 可替换的时间源
type Clock func() time.Time

// MillisID 基于毫秒时间戳的递增 ID，同一毫秒内的并发调用不会重复
type MillisID struct {
	mu   sync.Mutex
	last int64
	now  Clock
}

func NewMillisID(now Clock) *MillisID {
	if now == nil {
		now = time.Now
	}
	return &MillisID{now: now}
}

func (g *MillisID) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
