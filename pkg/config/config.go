package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Cache struct {
		Type  string `yaml:"type"` // memory, redis, or layered
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Provider struct {
		BaseURL          string        `yaml:"base_url"`
		PerTickerTimeout time.Duration `yaml:"per_ticker_timeout"`
		RateBurst        float64       `yaml:"rate_burst"`
		RateRefillPerSec float64       `yaml:"rate_refill_per_sec"`
	} `yaml:"provider"`
	Session struct {
		Timezone    string `yaml:"timezone"`
		OpenHour    int    `yaml:"open_hour"`
		OpenMinute  int    `yaml:"open_minute"`
		CloseHour   int    `yaml:"close_hour"`
		CloseMinute int    `yaml:"close_minute"`
	} `yaml:"session"`
	Screener struct {
		CacheTTL     time.Duration `yaml:"cache_ttl"`
		TopN         int           `yaml:"top_n"`
		Workers      int           `yaml:"workers"`
		RefreshCron  string        `yaml:"refresh_cron"`
		UniverseFile string        `yaml:"universe_file"`
	} `yaml:"screener"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("CACHE_TYPE"); v != "" {
		c.Cache.Type = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("UNIVERSE_FILE"); v != "" {
		c.Screener.UniverseFile = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Cache.Type == "" {
		c.Cache.Type = "memory"
	}
	if c.Session.Timezone == "" {
		c.Session.Timezone = "America/New_York"
		c.Session.OpenHour, c.Session.OpenMinute = 9, 30
		c.Session.CloseHour, c.Session.CloseMinute = 16, 0
	}
	if c.Screener.CacheTTL == 0 {
		c.Screener.CacheTTL = 5 * time.Minute
	}
	if c.Screener.TopN == 0 {
		c.Screener.TopN = 6
	}
	if c.Screener.Workers == 0 {
		c.Screener.Workers = 5
	}
	if c.Provider.PerTickerTimeout == 0 {
		c.Provider.PerTickerTimeout = 10 * time.Second
	}
	if c.Provider.RateBurst == 0 {
		c.Provider.RateBurst = 5
	}
	if c.Provider.RateRefillPerSec == 0 {
		c.Provider.RateRefillPerSec = 2
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	switch c.Cache.Type {
	case "memory":
	case "redis", "layered":
		if c.Cache.Redis.Addr == "" {
			return fmt.Errorf("cache.redis.addr is required when cache.type is '%s'", c.Cache.Type)
		}
	default:
		return fmt.Errorf("cache.type must be 'memory', 'redis', or 'layered', got '%s'", c.Cache.Type)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	return nil
}
