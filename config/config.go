package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Alert    AlertConfig    `mapstructure:"alert"`
	Audit    AuditConfig    `mapstructure:"audit"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port    int        `mapstructure:"port"`
	BaseURL string     `mapstructure:"base_url"`
	CORS    CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// StorageConfig 持久化存储配置
// Driver: memory | postgres | redis
// SessionDriver: memory | redis（会话标记，对应浏览器 sessionStorage）
type StorageConfig struct {
	Driver        string `mapstructure:"driver"`
	SessionDriver string `mapstructure:"session_driver"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Enabled 是否配置了 Redis
func (c *RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// AuthConfig 标签页令牌配置
type AuthConfig struct {
	TabTokenSecret string        `mapstructure:"tab_token_secret"`
	TabTokenTTL    time.Duration `mapstructure:"tab_token_ttl"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"` // 会话标记存活时间（标签页生命周期）
	LoginRateLimit int           `mapstructure:"login_rate_limit"`
	LoginWindow    time.Duration `mapstructure:"login_window"`
	OpenRateLimit  int           `mapstructure:"open_rate_limit"` // 每个 IP 在 OpenWindow 内可打开的标签页数
	OpenWindow     time.Duration `mapstructure:"open_window"`
	// TabReapInterval 过期标签页的回收周期
	TabReapInterval time.Duration `mapstructure:"tab_reap_interval"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SyncConfig 跨标签页同步配置
type SyncConfig struct {
	Channel           string        `mapstructure:"channel"`
	IndicatorDuration time.Duration `mapstructure:"indicator_duration"`
}

// AlertConfig 全局警报配置
type AlertConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	ConfirmWindow time.Duration `mapstructure:"confirm_window"`
}

// AuditConfig 审计流配置（Kafka，可选）
type AuditConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// Enabled 是否启用审计流
func (c *AuditConfig) Enabled() bool {
	return len(c.Brokers) > 0 && c.Topic != ""
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("DISPATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.session_driver", "memory")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "dispatch_console")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Europe/Berlin")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.tab_token_ttl", "12h")
	v.SetDefault("auth.session_ttl", "12h")
	v.SetDefault("auth.login_rate_limit", 10)
	v.SetDefault("auth.login_window", "1m")
	v.SetDefault("auth.open_rate_limit", 30)
	v.SetDefault("auth.open_window", "1m")
	v.SetDefault("auth.tab_reap_interval", "1m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("sync.channel", "dispatch-console:storage")
	v.SetDefault("sync.indicator_duration", "2s")

	v.SetDefault("alert.timeout", "10s")
	v.SetDefault("alert.confirm_window", "3s")

	v.SetDefault("audit.brokers", []string{})
	v.SetDefault("audit.topic", "dispatch-audit")
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.TabTokenSecret == "" {
		return fmt.Errorf("配置校验失败: auth.tab_token_secret 不能为空")
	}
	if len(c.Auth.TabTokenSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.tab_token_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	switch c.Storage.Driver {
	case "memory", "postgres":
	case "redis":
		if !c.Redis.Enabled() {
			return fmt.Errorf("配置校验失败: storage.driver=redis 需要配置 redis.addr")
		}
	default:
		return fmt.Errorf("配置校验失败: 未知的 storage.driver %q", c.Storage.Driver)
	}
	switch c.Storage.SessionDriver {
	case "memory":
	case "redis":
		if !c.Redis.Enabled() {
			return fmt.Errorf("配置校验失败: storage.session_driver=redis 需要配置 redis.addr")
		}
	default:
		return fmt.Errorf("配置校验失败: 未知的 storage.session_driver %q", c.Storage.SessionDriver)
	}
	if c.Auth.TabReapInterval <= 0 {
		return fmt.Errorf("配置校验失败: auth.tab_reap_interval 必须大于 0")
	}
	if c.Alert.Timeout <= 0 || c.Alert.ConfirmWindow <= 0 {
		return fmt.Errorf("配置校验失败: alert.timeout 与 alert.confirm_window 必须大于 0")
	}
	return nil
}
