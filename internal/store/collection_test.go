package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"edstudy/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (i item) Validate() error {
	if i.ID <= 0 {
		return errors.New("bad id")
	}
	return nil
}

func newTestCollection(b Backend) *Collection[item] {
	return NewCollection[item](b, NewMemoryLocker(), "edstudy_items", logger.Discard())
}

func TestCollection_Load(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		raw   string
		want  []item
		unset bool
	}{
		{name: "键不存在返回空集合", unset: true, want: []item{}},
		{name: "正常数组", raw: `[{"id":1,"name":"a"},{"id":2,"name":"b"}]`, want: []item{{1, "a"}, {2, "b"}}},
		{name: "不是数组视为空", raw: `{"id":1}`, want: []item{}},
		{name: "损坏的 JSON 视为空", raw: `[{"id":1`, want: []item{}},
		{name: "丢弃无效记录保留有效记录", raw: `[{"id":0,"name":"bad"},{"id":3,"name":"ok"},"str"]`, want: []item{{3, "ok"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewMemoryBackend(0)
			if !tt.unset {
				require.NoError(t, b.Put(ctx, "edstudy_items", []byte(tt.raw)))
			}
			got, err := newTestCollection(b).Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCollection_SaveAndClear(t *testing.T) {
	ctx := context.Background()
	c := newTestCollection(NewMemoryBackend(0))

	require.NoError(t, c.Save(ctx, nil))
	got, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, c.Save(ctx, []item{{1, "a"}}))
	got, err = c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []item{{1, "a"}}, got)

	require.NoError(t, c.Clear(ctx))
	got, err = c.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCollection_UpdateAbortsOnError(t *testing.T) {
	ctx := context.Background()
	c := newTestCollection(NewMemoryBackend(0))
	require.NoError(t, c.Save(ctx, []item{{1, "a"}}))

	boom := errors.New("boom")
	err := c.Update(ctx, func(items []item) ([]item, error) {
		return append(items, item{2, "b"}), boom
	})
	assert.ErrorIs(t, err, boom)

	got, _ := c.Load(ctx)
	assert.Len(t, got, 1)
}

func TestCollection_UpdateSerializes(t *testing.T) {
	ctx := context.Background()
	c := newTestCollection(NewMemoryBackend(0))

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			assert.NoError(t, c.Update(ctx, func(items []item) ([]item, error) {
				return append(items, item{ID: id}), nil
			}))
		}(i)
	}
	wg.Wait()

	got, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 50)
}

func TestMemoryLocker_ContextTimeout(t *testing.T) {
	l := NewMemoryLocker()
	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "k")
	assert.ErrorIs(t, err, ErrLockTimeout)

	unlock()
	unlock2, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	unlock2()
}

func TestMemoryBackend_TTL(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend(time.Minute)
	now := time.Now()
	b.now = func() time.Time { return now }

	require.NoError(t, b.Put(ctx, "k", []byte("v")))
	v, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	b.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err = b.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKeys(t *testing.T) {
	k := Keys{Prefix: "edstudy_"}
	assert.Equal(t, "edstudy_users", k.Users())
	assert.Equal(t, "edstudy_notices", k.Notices())
	assert.Equal(t, "edstudy_bookings", k.Bookings())
	assert.Equal(t, "edstudy_test_history:a@example.com", k.TestHistory("a@example.com"))
	assert.Equal(t, "edstudy_session:tok", k.Session("tok"))
	assert.Equal(t, "edstudy_session_index:a@example.com", k.SessionIndex("a@example.com"))
}

func TestCollection_ClearWaitsForUpdate(t *testing.T) {
	ctx := context.Background()
	c := newTestCollection(NewMemoryBackend(0))
	require.NoError(t, c.Save(ctx, []item{{ID: 1, Name: "a"}}))

	entered := make(chan struct{})
	release := make(chan struct{})
	updated := make(chan error, 1)
	go func() {
		updated <- c.Update(ctx, func(list []item) ([]item, error) {
			close(entered)
			<-release
			return append(list, item{ID: 2, Name: "b"}), nil
		})
	}()
	<-entered

	cleared := make(chan error, 1)
	go func() { cleared <- c.Clear(ctx) }()

	select {
	case <-cleared:
		t.Fatal("Clear 不应在 Update 持锁期间完成")
	case <-time.After(30 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-updated)
	require.NoError(t, <-cleared)

	// 清空发生在追加之后，旧数据不会被写回
	got, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
