package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"edstudy/config"
)

const (
	TIMESTAMP = "timestamp"
	SEVERITY  = "severity"
	MESSAGE   = "message"
	COMPONENT = "component"
)

// New 根据日志配置构建 logrus 实例
func New(c config.LogConfig) (*logrus.Logger, error) {
	l := logrus.New()

	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	l.SetLevel(level)

	switch c.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  TIMESTAMP,
				logrus.FieldKeyLevel: SEVERITY,
				logrus.FieldKeyMsg:   MESSAGE,
			},
		})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	out, err := output(c)
	if err != nil {
		return nil, err
	}
	l.SetOutput(out)
	return l, nil
}

func output(c config.LogConfig) (io.Writer, error) {
	if c.Output != "file" {
		return os.Stdout, nil
	}
	if c.Path == "" {
		return nil, fmt.Errorf("log.path is required when log.output is file")
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(c.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// Component 带 component 字段的日志入口
func Component(l *logrus.Logger, name string) *logrus.Entry {
	return l.WithField(COMPONENT, name)
}

// Discard 测试用的静默日志
func Discard() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
