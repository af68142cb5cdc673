package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "单层字段", in: "EDSTUDY_SERVER_PORT", want: "server.port"},
		{name: "字段名含下划线", in: "EDSTUDY_SCORING_API_KEY", want: "scoring.api_key"},
		{name: "多下划线字段", in: "EDSTUDY_ASSESSMENT_MAX_CLIP_BYTES", want: "assessment.max_clip_bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, envKey(tt.in))
		})
	}
}

func TestSetDefaults(t *testing.T) {
	c := &AppConfig{}
	SetDefaults(c)

	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, "memory", c.Store.Durable)
	assert.Equal(t, "memory", c.Store.Ephemeral)
	assert.Equal(t, "edstudy_", c.Store.KeyPrefix)
	assert.Equal(t, "session_token", c.Session.CookieName)
	assert.Equal(t, time.Duration(0), c.Session.TTL)
	assert.Equal(t, "edstudy", c.Admin.ID)
	assert.Equal(t, "pass1234", c.Admin.Password)
	assert.Equal(t, "auto", c.Scoring.Mode)
	assert.Equal(t, int64(25<<20), c.Assessment.MaxClipBytes)
	assert.Equal(t, 90*time.Second, c.Assessment.AnalysisTimeout)
	assert.Equal(t, 10, c.Assessment.HistoryLimit)
}

func TestSetDefaults_KeepsExplicitValues(t *testing.T) {
	c := &AppConfig{
		Server:     ServerConfig{Port: 9999},
		Admin:      AdminConfig{ID: "root", Password: "secret"},
		Assessment: AssessmentConfig{MaxClipBytes: 1024},
	}
	SetDefaults(c)

	assert.Equal(t, 9999, c.Server.Port)
	assert.Equal(t, "root", c.Admin.ID)
	assert.Equal(t, "secret", c.Admin.Password)
	assert.Equal(t, int64(1024), c.Assessment.MaxClipBytes)
}

func TestSetDefaults_CookieSecure(t *testing.T) {
	off := false

	tests := []struct {
		name     string
		mode     string
		explicit *bool
		want     bool
	}{
		{name: "debug 模式默认关闭", mode: "", want: false},
		{name: "release 模式默认开启", mode: "release", want: true},
		{name: "显式配置优先", mode: "release", explicit: &off, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &AppConfig{Server: ServerConfig{Mode: tt.mode}, Session: SessionConfig{CookieSecure: tt.explicit}}
			SetDefaults(c)
			if assert.NotNil(t, c.Session.CookieSecure) {
				assert.Equal(t, tt.want, *c.Session.CookieSecure)
			}
		})
	}
}
