package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/lamalux/pricing/internal/db"
)

const (
	defaultPort                   = 7860
	defaultCacheTTLSeconds        = 300
	defaultLogLevel               = "info"
	defaultShutdownTimeoutSeconds = 15
)

type Config struct {
	Port                   int      `yaml:"port" toml:"port" envconfig:"PORT"`
	DatabaseURL            string   `yaml:"database_url" toml:"database_url" envconfig:"DATABASE_URL"`
	RedisAddr              string   `yaml:"redis_addr" toml:"redis_addr" envconfig:"REDIS_ADDR"`
	RedisPassword          string   `yaml:"redis_password" toml:"redis_password" envconfig:"REDIS_PASSWORD"`
	CacheTTLSeconds        int      `yaml:"cache_ttl_seconds" toml:"cache_ttl_seconds" envconfig:"CACHE_TTL_SECONDS"`
	AllowedOrigins         []string `yaml:"allowed_origins" toml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	LogLevel               string   `yaml:"log_level" toml:"log_level" envconfig:"LOG_LEVEL"`
	ShutdownTimeoutSeconds int      `yaml:"shutdown_timeout_seconds" toml:"shutdown_timeout_seconds" envconfig:"SHUTDOWN_TIMEOUT_SECONDS"`
}

// Load Config from a yaml or toml file at path.
func (c *Config) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.NewDecoder(f).Decode(c)
	} else {
		err = yaml.NewDecoder(f).Decode(c)
	}
	if err != nil {
		return err
	}

	c.applyDefaults()
	return nil
}

// Load Config from the environment.
func (c *Config) LoadFromEnv() error {
	if err := envconfig.Process("", c); err != nil {
		return err
	}

	c.applyDefaults()
	return nil
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = db.DefaultURL
	}
	if c.CacheTTLSeconds == 0 {
		c.CacheTTLSeconds = defaultCacheTTLSeconds
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.ShutdownTimeoutSeconds == 0 {
		c.ShutdownTimeoutSeconds = defaultShutdownTimeoutSeconds
	}
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}
