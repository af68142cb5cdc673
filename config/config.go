// config/config.go - 配置管理文件
package config

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix 环境变量前缀，EDSTUDY_SCORING_API_KEY -> scoring.api_key
const EnvPrefix = "EDSTUDY_"

var (
	Conf *AppConfig
	once sync.Once
	k    *koanf.Koanf
)

// Load 加载配置文件
func Load(configPath string) error {
	var err error
	once.Do(func() {
		// 首先加载 .env 文件到环境变量
		if envErr := godotenv.Load(); envErr != nil {
			log.Printf("警告: 无法加载 .env 文件: %v", envErr)
		}

		k = koanf.New(".")

		// 先加载配置文件
		if err = k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			err = fmt.Errorf("加载配置文件失败: %w", err)
			return
		}

		// 再加载环境变量（覆盖配置文件）
		if err = k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			log.Printf("加载环境变量失败: %v", err)
		}

		// 解析到结构体
		Conf = &AppConfig{}
		if err = k.Unmarshal("", Conf); err != nil {
			err = fmt.Errorf("解析配置失败: %w", err)
			return
		}

		SetDefaults(Conf)
	})

	return err
}

// MustLoad 加载配置，失败则 panic
func MustLoad(configPath string) {
	if err := Load(configPath); err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}
}

// envKey 只把第一个下划线当作层级分隔，其余保留给字段名
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(s, "_", ".", 1)
}

// SetDefaults 填充缺省值
func SetDefaults(c *AppConfig) {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "debug"
	}
	if c.Server.FrontendURL == "" {
		c.Server.FrontendURL = "http://localhost:5173"
	}
	if c.GRPC.Port == 0 {
		c.GRPC.Port = 9090
	}
	if c.Store.Durable == "" {
		c.Store.Durable = "memory"
	}
	if c.Store.Ephemeral == "" {
		c.Store.Ephemeral = "memory"
	}
	if c.Store.KeyPrefix == "" {
		c.Store.KeyPrefix = "edstudy_"
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "session_token"
	}
	if c.Session.CookieSecure == nil {
		secure := c.Server.Mode != "debug"
		c.Session.CookieSecure = &secure
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.JWT.ExpireTime == 0 {
		c.JWT.ExpireTime = 12
	}
	if c.Admin.ID == "" {
		c.Admin.ID = "edstudy"
	}
	if c.Admin.Password == "" {
		c.Admin.Password = "pass1234"
	}
	if c.Scoring.Mode == "" {
		c.Scoring.Mode = "auto"
	}
	if c.Scoring.Model == "" {
		c.Scoring.Model = "gpt-4o-mini"
	}
	if c.Scoring.StubDelay == 0 {
		c.Scoring.StubDelay = 2 * time.Second
	}
	if c.Scoring.TranscribeModel == "" {
		c.Scoring.TranscribeModel = "whisper-1"
	}
	if c.Assessment.MaxClipBytes == 0 {
		c.Assessment.MaxClipBytes = 25 << 20
	}
	if c.Assessment.AnalysisTimeout == 0 {
		c.Assessment.AnalysisTimeout = 90 * time.Second
	}
	if c.Assessment.HistoryLimit == 0 {
		c.Assessment.HistoryLimit = 10
	}
}
