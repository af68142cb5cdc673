package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"edstudy/internal/logger"
	"edstudy/internal/model/user"
	"edstudy/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver() (*Resolver, *store.MemoryBackend) {
	b := store.NewMemoryBackend(0)
	return NewResolver(b, store.NewMemoryLocker(), store.Keys{Prefix: "edstudy_"}, logger.Discard()), b
}

var member = user.User{ID: 1, Name: "홍길동", Email: "hong@example.com", PasswordHash: "secret-hash", Level: user.LevelGold}

func TestResolver_Lifecycle(t *testing.T) {
	ctx := context.Background()
	r, _ := newResolver()

	s, err := r.Create(ctx, member)
	require.NoError(t, err)
	assert.NotEmpty(t, s.Token)
	assert.Equal(t, "hong@example.com", s.Email)
	assert.True(t, r.IsAuthenticated(ctx, s.Token))

	require.NoError(t, r.Destroy(ctx, s.Token))
	assert.False(t, r.IsAuthenticated(ctx, s.Token))
}

func TestResolver_SnapshotExcludesPassword(t *testing.T) {
	ctx := context.Background()
	r, b := newResolver()

	s, err := r.Create(ctx, member)
	require.NoError(t, err)

	raw, err := b.Get(ctx, "edstudy_session:"+s.Token)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-hash")
}

func TestResolver_MalformedRecord(t *testing.T) {
	ctx := context.Background()
	r, b := newResolver()
	require.NoError(t, b.Put(ctx, "edstudy_session:broken", []byte("{not json")))

	_, err := r.Get(ctx, "broken")
	assert.ErrorIs(t, err, ErrNoSession)
	assert.False(t, r.IsAuthenticated(ctx, ""))
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r, _ := newResolver()
	s, err := r.Create(context.Background(), member)
	require.NoError(t, err)

	tests := []struct {
		name       string
		setup      func(req *http.Request)
		wantStatus int
		wantCalled bool
	}{
		{name: "无令牌", setup: func(*http.Request) {}, wantStatus: http.StatusUnauthorized},
		{name: "无效令牌", setup: func(req *http.Request) { req.Header.Set("Authorization", "Bearer nope") }, wantStatus: http.StatusUnauthorized},
		{name: "cookie 令牌", setup: func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: "session_token", Value: s.Token})
		}, wantStatus: http.StatusOK, wantCalled: true},
		{name: "Bearer 令牌", setup: func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+s.Token)
		}, wantStatus: http.StatusOK, wantCalled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			engine := gin.New()
			engine.GET("/p", r.RequireAuth("session_token"), func(c *gin.Context) {
				called = true
				assert.Equal(t, "hong@example.com", FromContext(c).Email)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/p", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCalled, called)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r, _ := newResolver()

	engine := gin.New()
	engine.GET("/p", r.OptionalAuth("session_token"), func(c *gin.Context) {
		assert.Nil(t, FromContext(c))
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/p", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestResolver_DestroyNotifiesListeners(t *testing.T) {
	ctx := context.Background()
	r, _ := newResolver()

	var ended []string
	r.OnDestroy(func(token string) { ended = append(ended, token) })

	s, err := r.Create(ctx, member)
	require.NoError(t, err)
	require.NoError(t, r.Destroy(ctx, s.Token))

	assert.Equal(t, []string{s.Token}, ended)
}

func TestResolver_DestroyUser(t *testing.T) {
	ctx := context.Background()
	r, b := newResolver()

	other := member
	other.ID, other.Email = 2, "kim@example.com"

	first, err := r.Create(ctx, member)
	require.NoError(t, err)
	second, err := r.Create(ctx, member)
	require.NoError(t, err)
	kept, err := r.Create(ctx, other)
	require.NoError(t, err)

	var ended []string
	r.OnDestroy(func(token string) { ended = append(ended, token) })

	removed, err := r.DestroyUser(ctx, "HONG@example.com")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{first.Token, second.Token}, removed)
	assert.ElementsMatch(t, removed, ended)

	assert.False(t, r.IsAuthenticated(ctx, first.Token))
	assert.False(t, r.IsAuthenticated(ctx, second.Token))
	assert.True(t, r.IsAuthenticated(ctx, kept.Token), "其他会员的会话不受影响")

	_, err = b.Get(ctx, "edstudy_session_index:hong@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestResolver_IndexDropsEndedSessions(t *testing.T) {
	ctx := context.Background()
	r, b := newResolver()

	old, err := r.Create(ctx, member)
	require.NoError(t, err)
	// 模拟过期：会话记录消失但索引还在
	require.NoError(t, b.Delete(ctx, "edstudy_session:"+old.Token))

	current, err := r.Create(ctx, member)
	require.NoError(t, err)

	raw, err := b.Get(ctx, "edstudy_session_index:hong@example.com")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), old.Token)
	assert.Contains(t, string(raw), current.Token)
}
