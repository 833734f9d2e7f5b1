// 日志管理器
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// 时间戳统一精确到毫秒
const timestampFormat = "2006-01-02 15:04:05.000"

// Config 日志配置
type Config struct {
	Level      string `mapstructure:"level"`       // debug/info/warn/error/fatal
	Format     string `mapstructure:"format"`      // text/json
	Output     string `mapstructure:"output"`      // stderr/stdout/file
	FilePath   string `mapstructure:"file_path"`   // Output=file 时必填
	MaxSize    int    `mapstructure:"max_size"`    // MB
	MaxBackups int    `mapstructure:"max_backups"` // 保留的备份文件数
	MaxAge     int    `mapstructure:"max_age"`     // 保留天数
	Compress   bool   `mapstructure:"compress"`
}

// DefaultConfig CLI 默认只输出 warn 以上，避免干扰扫描结果
func DefaultConfig() *Config {
	return &Config{
		Level:      "warn",
		Format:     "text",
		Output:     "stderr",
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     7,
	}
}

var (
	mu     sync.RWMutex
	global *logrus.Logger
)

// New 根据配置创建 logrus 实例
func New(cfg *Config) (*logrus.Logger, error) {
	if cfg == nil {
		return nil, fmt.Errorf("log config cannot be nil")
	}

	l := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		// 解析失败时退回 info
		level = logrus.InfoLevel
		l.Warnf("Invalid log level '%s', using 'info' as default", cfg.Level)
	}
	l.SetLevel(level)

	if err := setFormatter(l, cfg); err != nil {
		return nil, fmt.Errorf("failed to set log formatter: %w", err)
	}
	if err := setOutput(l, cfg); err != nil {
		return nil, fmt.Errorf("failed to set log output: %w", err)
	}
	return l, nil
}

// Init 创建日志实例并设为全局实例
func Init(cfg *Config) (*logrus.Logger, error) {
	l, err := New(cfg)
	if err != nil {
		return nil, err
	}
	mu.Lock()
	global = l
	mu.Unlock()
	return l, nil
}

// L 获取全局日志实例，未初始化时返回一个 warn 级别、输出到 stderr 的实例
func L() *logrus.Logger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		global = logrus.New()
		global.SetLevel(logrus.WarnLevel)
		global.SetOutput(os.Stderr)
	}
	return global
}

func setFormatter(l *logrus.Logger, cfg *Config) error {
	switch strings.ToLower(cfg.Format) {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: timestampFormat,
			FullTimestamp:   true,
		})
	default:
		return fmt.Errorf("unsupported log format: %s", cfg.Format)
	}
	return nil
}

func setOutput(l *logrus.Logger, cfg *Config) error {
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		l.SetOutput(os.Stderr)
	case "stdout":
		l.SetOutput(os.Stdout)
	case "file":
		w, err := fileWriter(cfg)
		if err != nil {
			return err
		}
		// debug 时同时输出到控制台
		if l.GetLevel() >= logrus.DebugLevel {
			l.SetOutput(io.MultiWriter(os.Stderr, w))
		} else {
			l.SetOutput(w)
		}
	default:
		return fmt.Errorf("unsupported log output: %s", cfg.Output)
	}
	return nil
}

// fileWriter 使用 lumberjack 进行日志轮转
func fileWriter(cfg *Config) (io.Writer, error) {
	if cfg.FilePath == "" {
		return nil, fmt.Errorf("file path is required when output is file")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}, nil
}
