package route

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"edstudy/config"
	"edstudy/internal/database"
	"edstudy/internal/scoring"
	"edstudy/packages/email"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	r, _ := newTestDeps(t)
	return r
}

func newTestDeps(t *testing.T) (*gin.Engine, Deps) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c := &config.AppConfig{}
	c.JWT.Secret = "test-secret"
	config.SetDefaults(c)

	log := logrus.New()
	log.SetOutput(io.Discard)

	now := func() time.Time { return time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC) }
	stores := database.NewMemoryStores(c.Store.KeyPrefix, 0)
	deps := BuildDeps(c, stores, scoring.NewStubProvider(0, log.WithField("component", "scoring")), email.NewClient(&email.Config{}), now, log)
	return SetupRouter(deps), deps
}

func call(t *testing.T, r *gin.Engine, method, path, bearer string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w.Code, env
}

func TestMemberFlow(t *testing.T) {
	r := newTestRouter(t)

	code, env := call(t, r, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"name": "홍길동", "email": "hong@example.com", "phone": "010-1111-2222", "password": "secret12",
	})
	require.Equal(t, http.StatusOK, code, env.Message)
	var auth struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &auth))
	require.NotEmpty(t, auth.Token)

	code, _ = call(t, r, http.MethodGet, "/api/v1/auth/me", auth.Token, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = call(t, r, http.MethodPost, "/api/v1/bookings", "", gin.H{"date": "2026-10-20", "time": "10:00"})
	assert.Equal(t, http.StatusUnauthorized, code, "未登录不能预约")

	code, _ = call(t, r, http.MethodPost, "/api/v1/bookings", auth.Token, gin.H{"date": "2026-10-20", "time": "10:00"})
	assert.Equal(t, http.StatusOK, code)
	code, _ = call(t, r, http.MethodPost, "/api/v1/bookings", auth.Token, gin.H{"date": "2026-10-20", "time": "10:00"})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = call(t, r, http.MethodPost, "/api/v1/auth/logout", auth.Token, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = call(t, r, http.MethodGet, "/api/v1/auth/me", auth.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAdminFlow(t *testing.T) {
	r := newTestRouter(t)

	code, _ := call(t, r, http.MethodPost, "/api/v1/admin/notices", "", gin.H{"title": "t", "content": "c"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env := call(t, r, http.MethodPost, "/api/v1/admin/login", "", gin.H{"id": "edstudy", "password": "pass1234"})
	require.Equal(t, http.StatusOK, code)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))

	code, _ = call(t, r, http.MethodPost, "/api/v1/admin/notices", login.AccessToken, gin.H{"title": "개강 안내", "content": "11월 개강", "isPinned": true})
	require.Equal(t, http.StatusOK, code)

	code, env = call(t, r, http.MethodGet, "/api/v1/notices/latest", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "개강 안내")

	code, _ = call(t, r, http.MethodGet, "/api/v1/admin/users/export", login.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, code, "没有会员时不能导出")

	code, _ = call(t, r, http.MethodGet, "/api/v1/admin/stats", login.AccessToken, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestHealthz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	c := &config.AppConfig{}
	config.SetDefaults(c)
	deps := BuildDeps(c, database.NewMemoryStores("t_", 0), scoring.NewStubProvider(0, log.WithField("component", "scoring")), nil, nil, log)

	deps.Healthy = func() error { return errors.New("down") }
	w := httptest.NewRecorder()
	SetupRouter(deps).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestLogoutReleasesAssessment(t *testing.T) {
	r, deps := newTestDeps(t)

	code, env := call(t, r, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"name": "김민지", "email": "minji@example.com", "phone": "010-3333-4444", "password": "secret12",
	})
	require.Equal(t, http.StatusOK, code, env.Message)
	var auth struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &auth))

	code, _ = call(t, r, http.MethodPost, "/api/v1/assessment/start", auth.Token, gin.H{"mode": "record"})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 1, deps.Assessments.Active())

	code, _ = call(t, r, http.MethodPost, "/api/v1/auth/logout", auth.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, deps.Assessments.Active())
}

func TestSessionCookieSecure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	tests := []struct {
		name string
		mode string
		want bool
	}{
		{name: "debug 模式默认不带 Secure", mode: "debug", want: false},
		{name: "release 模式默认带 Secure", mode: "release", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &config.AppConfig{}
			c.Server.Mode = tt.mode
			c.JWT.Secret = "test-secret"
			config.SetDefaults(c)
			deps := BuildDeps(c, database.NewMemoryStores(c.Store.KeyPrefix, 0), scoring.NewStubProvider(0, log.WithField("component", "scoring")), nil, nil, log)

			raw, err := json.Marshal(gin.H{"name": "홍길동", "email": "hong@example.com", "phone": "010-1111-2222", "password": "secret12"})
			require.NoError(t, err)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewReader(raw))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			SetupRouter(deps).ServeHTTP(w, req)
			require.Equal(t, http.StatusOK, w.Code)

			cookies := w.Result().Cookies()
			require.Len(t, cookies, 1)
			assert.Equal(t, c.Session.CookieName, cookies[0].Name)
			assert.Equal(t, tt.want, cookies[0].Secure)
		})
	}
}
