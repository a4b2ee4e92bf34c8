package config

import (
	"fmt"
	"os"
	"strconv"
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
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Predictor struct {
		BaseURL     string        `yaml:"base_url"`
		Timeout     time.Duration `yaml:"timeout"`
		ChatTimeout time.Duration `yaml:"chat_timeout"`
	} `yaml:"predictor"`
	Dashboard struct {
		Symbols         []string      `yaml:"symbols"`
		DefaultSymbol   string        `yaml:"default_symbol"`
		DefaultHorizon  string        `yaml:"default_horizon"`
		LookbackDefault int           `yaml:"lookback_default"`
		AutoFetch       bool          `yaml:"auto_fetch"`
		SessionTTL      time.Duration `yaml:"session_ttl"`
	} `yaml:"dashboard"`
	Session struct {
		Backend string `yaml:"backend"` // memory | redis
		Redis   struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"session"`
	Auth struct {
		Providers   []string          `yaml:"providers"`
		Credentials map[string]string `yaml:"credentials"`
	} `yaml:"auth"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
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

	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("PREDICTOR_URL"); v != "" {
		c.Predictor.BaseURL = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Dashboard.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("SESSION_BACKEND"); v != "" {
		c.Session.Backend = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port, ok := strings.Cut(v, ":")
		c.Session.Redis.Host = host
		if ok {
			if p, err := strconv.Atoi(port); err == nil {
				c.Session.Redis.Port = p
			}
		}
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Dashboard.LookbackDefault <= 0 {
		c.Dashboard.LookbackDefault = 60
	}
	if c.Dashboard.DefaultSymbol == "" {
		c.Dashboard.DefaultSymbol = "AAPL"
	}
	if c.Dashboard.DefaultHorizon == "" {
		c.Dashboard.DefaultHorizon = "1M"
	}
	if c.Dashboard.SessionTTL <= 0 {
		c.Dashboard.SessionTTL = 30 * time.Minute
	}
	if c.Session.Backend == "" {
		c.Session.Backend = "memory"
	}
	if c.Predictor.Timeout <= 0 {
		c.Predictor.Timeout = 30 * time.Second
	}
	if c.Predictor.ChatTimeout <= 0 {
		c.Predictor.ChatTimeout = c.Predictor.Timeout
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Predictor.BaseURL == "" {
		return fmt.Errorf("predictor.base_url is required")
	}
	if c.Session.Backend != "memory" && c.Session.Backend != "redis" {
		return fmt.Errorf("session.backend must be 'memory' or 'redis', got '%s'", c.Session.Backend)
	}
	if len(c.Dashboard.Symbols) == 0 {
		return fmt.Errorf("dashboard.symbols cannot be empty")
	}
	return nil
}
