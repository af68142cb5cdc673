package config

import (
	"time"

	"edstudy/packages/email"
)

// AppConfig 应用配置结构
type AppConfig struct {
	Server     ServerConfig     `koanf:"server"`
	GRPC       GRPCConfig       `koanf:"grpc"`
	Database   DatabaseConfig   `koanf:"database"`
	Redis      RedisConfig      `koanf:"redis"`
	Store      StoreConfig      `koanf:"store"`
	Session    SessionConfig    `koanf:"session"`
	Log        LogConfig        `koanf:"log"`
	JWT        JWTConfig        `koanf:"jwt"`
	Admin      AdminConfig      `koanf:"admin"`
	Smtp       email.Config     `koanf:"smtp"`
	Scoring    ScoringConfig    `koanf:"scoring"`
	Assessment AssessmentConfig `koanf:"assessment"`
}

type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	Mode         string        `koanf:"mode"` // debug, release, test
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	FrontendURL  string        `koanf:"frontend_url"`
}

type GRPCConfig struct {
	Enabled bool `koanf:"enabled"`
	Port    int  `koanf:"port"`
}

type DatabaseConfig struct {
	Host         string `koanf:"host"`
	Port         int    `koanf:"port"`
	Username     string `koanf:"username"`
	Password     string `koanf:"password"`
	Database     string `koanf:"database"`
	SSLMode      bool   `koanf:"sslmode"`
	LogLevel     string `koanf:"log_level"` // 数据库日志级别
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	MaxLifetime  int    `koanf:"max_lifetime"` // 秒
}

type RedisConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	PoolSize int    `koanf:"pool_size"`
}

// StoreConfig 记录存储后端
type StoreConfig struct {
	Durable   string `koanf:"durable"`   // memory, postgres
	Ephemeral string `koanf:"ephemeral"` // memory, redis
	KeyPrefix string `koanf:"key_prefix"`
}

type SessionConfig struct {
	CookieName string        `koanf:"cookie_name"`
	// CookieSecure 未配置时 debug 模式为 false，其余为 true
	CookieSecure *bool `koanf:"cookie_secure"`
	TTL        time.Duration `koanf:"ttl"` // 0 表示不过期
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json, text
	Output string `koanf:"output"` // stdout, file
	Path   string `koanf:"path"`   // 日志文件路径
}

type JWTConfig struct {
	Secret     string `koanf:"secret"`
	ExpireTime int    `koanf:"expire_time"` // 小时
}

type AdminConfig struct {
	ID       string `koanf:"id"`
	Password string `koanf:"password"`
}

type ScoringConfig struct {
	Mode            string        `koanf:"mode"` // auto, remote, stub
	APIKey          string        `koanf:"api_key"`
	BaseURL         string        `koanf:"base_url"`
	Model           string        `koanf:"model"`
	TranscribeModel string        `koanf:"transcribe_model"`
	StubDelay       time.Duration `koanf:"stub_delay"`
}

type AssessmentConfig struct {
	MaxClipBytes    int64         `koanf:"max_clip_bytes"`
	AnalysisTimeout time.Duration `koanf:"analysis_timeout"`
	HistoryLimit    int           `koanf:"history_limit"`
}
