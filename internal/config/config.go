package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreBadger   = "badger"
)

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSL      bool   `yaml:"ssl"`
}

type AppConfig struct {
	Port int `yaml:"port"`

	Store       string         `yaml:"store"`
	RedisURL    string         `yaml:"redis_url"`
	DatabaseURL string         `yaml:"database_url"`
	Postgres    PostgresConfig `yaml:"postgres"`
	BadgerDir   string         `yaml:"badger_dir"`

	Notifier       string `yaml:"notifier"`
	RateLimitStore string `yaml:"rate_limit_store"`

	GameTTLSec          int   `yaml:"game_ttl_sec"`
	RateLimitWindowSec  int   `yaml:"rate_limit_window_sec"`
	RateLimitMax        int   `yaml:"rate_limit_max"`
	MaxBodyBytes        int64 `yaml:"max_body_bytes"`
	ShutdownTimeoutSec  int   `yaml:"shutdown_timeout_sec"`
	RateLimitCleanupSec int   `yaml:"rate_limit_cleanup_sec"`

	MsgTemplateDir string `yaml:"msg_template_dir"`
	TrustProxy     bool   `yaml:"trust_proxy"`
}

func defaults() *AppConfig {
	return &AppConfig{
		Port:                8000,
		Store:               StoreMemory,
		Notifier:            StoreMemory,
		RateLimitStore:      StoreMemory,
		Postgres:            PostgresConfig{Port: 5432},
		GameTTLSec:          86400,
		RateLimitWindowSec:  60,
		RateLimitMax:        100,
		MaxBodyBytes:        1 << 20,
		ShutdownTimeoutSec:  10,
		RateLimitCleanupSec: 60,
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CHESS_CONFIG_FILE, then environment variables.
func Load() (*AppConfig, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("CHESS_CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) applyEnv() error {
	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) error {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}

	setString(&c.Store, "CHESS_STORE")
	setString(&c.RedisURL, "REDIS_URL")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.BadgerDir, "BADGER_DIR")
	setString(&c.Notifier, "CHESS_NOTIFIER")
	setString(&c.RateLimitStore, "RATE_LIMIT_STORE")
	setString(&c.MsgTemplateDir, "MSG_TEMPLATE_DIR")

	setString(&c.Postgres.Host, "DB_HOST")
	setString(&c.Postgres.User, "DB_USER")
	setString(&c.Postgres.Password, "DB_PASSWORD")
	setString(&c.Postgres.Database, "DB_DATABASE")
	if v := strings.TrimSpace(os.Getenv("DB_SSL")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DB_SSL: %w", err)
		}
		c.Postgres.SSL = b
	}
	if v := strings.TrimSpace(os.Getenv("TRUST_PROXY")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TRUST_PROXY: %w", err)
		}
		c.TrustProxy = b
	}

	ints := []struct {
		dst *int
		key string
	}{
		{&c.Port, "PORT"},
		{&c.Postgres.Port, "DB_PORT"},
		{&c.GameTTLSec, "CHESS_GAME_TTL_SEC"},
		{&c.RateLimitWindowSec, "RATE_LIMIT_WINDOW_SEC"},
		{&c.RateLimitMax, "RATE_LIMIT_MAX"},
		{&c.ShutdownTimeoutSec, "SHUTDOWN_TIMEOUT_SEC"},
		{&c.RateLimitCleanupSec, "RATE_LIMIT_CLEANUP_SEC"},
	}
	for _, it := range ints {
		if err := setInt(it.dst, it.key); err != nil {
			return err
		}
	}
	if v := strings.TrimSpace(os.Getenv("MAX_BODY_BYTES")); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("MAX_BODY_BYTES: %w", err)
		}
		c.MaxBodyBytes = n
	}

	c.Store = strings.ToLower(c.Store)
	c.Notifier = strings.ToLower(c.Notifier)
	c.RateLimitStore = strings.ToLower(c.RateLimitStore)
	return nil
}

func (c *AppConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	switch c.Store {
	case StoreMemory, StoreBadger:
	case StoreRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required for the redis store")
		}
	case StorePostgres:
		if c.DatabaseURL == "" && c.Postgres.Host == "" {
			return errors.New("DATABASE_URL or DB_HOST is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown CHESS_STORE %q", c.Store)
	}
	for key, v := range map[string]string{"CHESS_NOTIFIER": c.Notifier, "RATE_LIMIT_STORE": c.RateLimitStore} {
		switch v {
		case StoreMemory:
		case StoreRedis:
			if c.RedisURL == "" {
				return fmt.Errorf("REDIS_URL is required when %s=redis", key)
			}
		default:
			return fmt.Errorf("unknown %s %q", key, v)
		}
	}
	if c.RateLimitWindowSec <= 0 || c.RateLimitMax <= 0 {
		return errors.New("RATE_LIMIT_WINDOW_SEC and RATE_LIMIT_MAX must be positive")
	}
	if c.GameTTLSec < 0 {
		return errors.New("CHESS_GAME_TTL_SEC must not be negative")
	}
	if c.MaxBodyBytes <= 0 {
		return errors.New("MAX_BODY_BYTES must be positive")
	}
	return nil
}

// PostgresDSN prefers DATABASE_URL and otherwise assembles a key/value DSN
// from the DB_* settings.
func (c *AppConfig) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	sslmode := "disable"
	if c.Postgres.SSL {
		sslmode = "require"
	}
	parts := []string{
		"host=" + c.Postgres.Host,
		"port=" + strconv.Itoa(c.Postgres.Port),
	}
	if c.Postgres.User != "" {
		parts = append(parts, "user="+c.Postgres.User)
	}
	if c.Postgres.Password != "" {
		parts = append(parts, "password="+quoteDSN(c.Postgres.Password))
	}
	if c.Postgres.Database != "" {
		parts = append(parts, "dbname="+c.Postgres.Database)
	}
	parts = append(parts, "sslmode="+sslmode, "connect_timeout=5")
	return strings.Join(parts, " ")
}

func quoteDSN(v string) string {
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func (c *AppConfig) Addr() string { return ":" + strconv.Itoa(c.Port) }

func (c *AppConfig) GameTTL() time.Duration {
	return time.Duration(c.GameTTLSec) * time.Second
}

func (c *AppConfig) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSec) * time.Second
}

func (c *AppConfig) RateLimitCleanup() time.Duration {
	return time.Duration(c.RateLimitCleanupSec) * time.Second
}

func (c *AppConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSec) * time.Second
}
