package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Preview  PreviewConfig  `yaml:"preview"`
	Cache    CacheConfig    `yaml:"cache"`
	Postgres PostgresConfig `yaml:"postgres"`
	Telegram TelegramConfig `yaml:"telegram"`
	Logging  LoggingConfig  `yaml:"logging"`
	Health   HealthConfig   `yaml:"health"`
}

type PreviewConfig struct {
	BaseURL          string        `yaml:"base_url"`
	UserAgent        string        `yaml:"user_agent"`
	FetchMode        string        `yaml:"fetch_mode"` // "http" or "browser"
	FetchTimeout     time.Duration `yaml:"fetch_timeout"`
	SecondaryTimeout time.Duration `yaml:"secondary_timeout"` // key match page
	StatsTimeout     time.Duration `yaml:"stats_timeout"`     // live statistics pages
	Retries          int           `yaml:"retries"`
	Workers          int           `yaml:"workers"`
	CacheTTL         time.Duration `yaml:"cache_ttl"`
	Variant          string        `yaml:"variant"`
	ProxyList        []string      `yaml:"proxy_list"` // List of proxies to try in order
	InsecureTLS      bool          `yaml:"insecure_tls"`
	BrowserSettle    time.Duration `yaml:"browser_settle"` // Extra wait after page load in browser mode
}

type CacheConfig struct {
	Backend       string `yaml:"backend"` // "memory" or "redis"
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
	// Retention drops snapshots older than this after each run (0 keeps them all).
	Retention time.Duration `yaml:"retention"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
	// MinInterval is the minimum delay between two messages (default: 1s).
	MinInterval time.Duration `yaml:"min_interval"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
	File   string `yaml:"file"`   // Optional log file, appended to
}

type HealthConfig struct {
	Port              int           `yaml:"port"` // 0 disables the ops server
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
}

const (
	FetchModeHTTP    = "http"
	FetchModeBrowser = "browser"

	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	p := &c.Preview
	if p.BaseURL == "" {
		p.BaseURL = "https://live18.nowgoal25.com"
	}
	if p.UserAgent == "" {
		p.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/116.0.0.0 Safari/537.36"
	}
	if p.FetchMode == "" {
		p.FetchMode = FetchModeHTTP
	}
	if p.FetchTimeout <= 0 {
		p.FetchTimeout = 5 * time.Second
	}
	if p.SecondaryTimeout <= 0 {
		p.SecondaryTimeout = 6 * time.Second
	}
	if p.StatsTimeout <= 0 {
		p.StatsTimeout = 10 * time.Second
	}
	if p.Workers <= 0 {
		p.Workers = 4
	}
	if p.CacheTTL <= 0 {
		p.CacheTTL = 300 * time.Second
	}
	if p.Variant == "" {
		p.Variant = "preview"
	}

	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheBackendMemory
	}
	if c.Telegram.MinInterval <= 0 {
		c.Telegram.MinInterval = time.Second
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Health.ReadHeaderTimeout <= 0 {
		c.Health.ReadHeaderTimeout = 5 * time.Second
	}
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch c.Preview.FetchMode {
	case FetchModeHTTP, FetchModeBrowser:
	default:
		return fmt.Errorf("unknown fetch_mode %q", c.Preview.FetchMode)
	}
	switch c.Cache.Backend {
	case CacheBackendMemory:
	case CacheBackendRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("cache backend redis requires redis_addr")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}
