// Package config 把命令行参数、环境变量和配置文件合并成一份 ScanConfig
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"p4rti/internal/logger"
	"p4rti/internal/portscan"
)

const (
	DefaultConcurrency = 1002
	DefaultTimeout     = 3 * time.Second

	// 环境变量前缀，例如 P4RTI_CONCURRENCY=200
	EnvPrefix = "P4RTI"
	// 默认配置文件名 (p4rti.yaml)
	ConfigName = "p4rti"
)

// viper 中使用的键
const (
	KeyConcurrency = "concurrency"
	KeyTimeout     = "timeout"
	KeyFull        = "full"
	KeyMode        = "mode"
	KeyVerbose     = "verbose"
	KeyProgress    = "progress"
	KeyLogLevel    = "log.level"
	KeyLogFormat   = "log.format"
	KeyLogFile     = "log.file"
)

// NewViper 创建带默认值和环境变量绑定的 viper 实例
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyConcurrency, DefaultConcurrency)
	v.SetDefault(KeyTimeout, int(DefaultTimeout/time.Second))
	v.SetDefault(KeyFull, false)
	v.SetDefault(KeyMode, portscan.SelectCommon.String())
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyProgress, false)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "text")
}

// ReadConfigFile 读取配置文件
// path 为空时在当前目录和 ~/.config/p4rti 下查找 p4rti.yaml，找不到不算错误
func ReadConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", ConfigName))
		}
	}

	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if path == "" && errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("failed to read config file: %w", err)
}

// LoadDotEnv 把 .env 文件加载进进程环境变量，已存在的变量不会被覆盖
// 不传参数时尝试当前目录下的 .env，文件不存在直接跳过
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		paths = []string{".env"}
	}
	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// Load 组装 ScanConfig
// 并发数与超时无法解析或不为正数时退回默认值，不会中止运行；
// 每一次退回都记录在返回的 warnings 里。
func Load(v *viper.Viper, target string) (portscan.ScanConfig, []string) {
	var warnings []string

	cfg := portscan.ScanConfig{
		Target:       strings.TrimSpace(target),
		Concurrency:  DefaultConcurrency,
		Timeout:      DefaultTimeout,
		PortSelector: portscan.SelectCommon,
		Verbose:      v.GetBool(KeyVerbose),
		Progress:     v.GetBool(KeyProgress),
	}

	if n, ok := parseConcurrency(v.Get(KeyConcurrency)); ok {
		cfg.Concurrency = n
	} else {
		warnings = append(warnings, fmt.Sprintf("invalid concurrency %v, using %d", v.Get(KeyConcurrency), DefaultConcurrency))
	}

	if d, ok := parseTimeout(v.Get(KeyTimeout)); ok {
		cfg.Timeout = d
	} else {
		warnings = append(warnings, fmt.Sprintf("invalid timeout %v, using %s", v.Get(KeyTimeout), DefaultTimeout))
	}

	// --full 优先于 mode
	if sel, err := portscan.ParsePortSelector(v.GetString(KeyMode)); err == nil {
		cfg.PortSelector = sel
	} else {
		warnings = append(warnings, fmt.Sprintf("%v, using %s", err, portscan.SelectCommon))
	}
	if v.GetBool(KeyFull) {
		cfg.PortSelector = portscan.SelectFull
	}
	return cfg, warnings
}

// maxTimeoutSeconds 再大 time.Duration 就会溢出
const maxTimeoutSeconds = math.MaxInt64 / int64(time.Second)

// parseInt 字符串一律按十进制解析 ("010" 是 10)，其他类型交给 cast
func parseInt(raw any) (int64, error) {
	if s, ok := raw.(string); ok {
		return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	}
	return cast.ToInt64E(raw)
}

func parseConcurrency(raw any) (int, bool) {
	n, err := parseInt(raw)
	if err != nil || n < 1 || n > math.MaxInt32 {
		return 0, false
	}
	return int(n), true
}

// parseTimeout 接受整数秒 ("3") 或 Go duration 字符串 ("500ms")
func parseTimeout(raw any) (time.Duration, bool) {
	if d, ok := raw.(time.Duration); ok {
		return d, d > 0
	}
	if n, err := parseInt(raw); err == nil {
		if n < 1 || n > maxTimeoutSeconds {
			return 0, false
		}
		return time.Duration(n) * time.Second, true
	}
	if s, ok := raw.(string); ok {
		d, err := time.ParseDuration(strings.TrimSpace(s))
		return d, err == nil && d > 0
	}
	return 0, false
}

// LogConfig 从 viper 中读取日志配置
func LogConfig(v *viper.Viper) *logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level = v.GetString(KeyLogLevel)
	cfg.Format = v.GetString(KeyLogFormat)
	if file := v.GetString(KeyLogFile); file != "" {
		cfg.Output = "file"
		cfg.FilePath = file
	}
	return cfg
}
