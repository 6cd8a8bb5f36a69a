// File: internal/config/config.go
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type WebConfig struct {
	Port         int           `yaml:"port"`
	JWTSecret    string        `yaml:"jwt_secret"`
	StaffAPIKey  string        `yaml:"staff_api_key"` // exchanged for a session, distinct from the signing secret
	TokenTTL     time.Duration `yaml:"token_ttl"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AIConfig struct {
	Provider     string `yaml:"provider"` // gemini | openai_compat | none
	GeminiKey    string `yaml:"gemini_key"`
	OpenAIKey    string `yaml:"openai_key"`
	BaseURL      string `yaml:"base_url"` // OpenAI-compatible endpoint
	DefaultModel string `yaml:"default_model"`
}

type SweeperConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type Config struct {
	Web      WebConfig      `yaml:"web"`
	Log      LogConfig      `yaml:"log"`
	Admin    AdminConfig    `yaml:"admin"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	AI       AIConfig       `yaml:"ai"`
	Sweeper  SweeperConfig  `yaml:"sweeper"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig() (*Config, error) {
	var configPath string = ""
	var dev bool
	flag.StringVar(&configPath, "config", "config.yaml", "path to config yaml")
	flag.BoolVar(&dev, "dev", false, "development mode")
	flag.Parse()

	b, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := parseConfig(b)
	if err != nil {
		return nil, err
	}
	cfg.Runtime.Dev = dev
	return cfg, nil
}

func parseConfig(b []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Web.Port <= 0 {
		cfg.Web.Port = 8080
	}
	if cfg.Web.TokenTTL <= 0 {
		cfg.Web.TokenTTL = 24 * time.Hour
	}
	if cfg.Web.ReadTimeout <= 0 {
		cfg.Web.ReadTimeout = 15 * time.Second
	}
	if cfg.Web.WriteTimeout <= 0 {
		cfg.Web.WriteTimeout = 15 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "none"
	}
	if cfg.AI.DefaultModel == "" {
		cfg.AI.DefaultModel = "gemini-2.0-flash"
	}
	if cfg.Sweeper.Interval <= 0 {
		cfg.Sweeper.Interval = time.Minute
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)

	// Minimal validation
	if cfg.Web.JWTSecret == "" {
		return nil, errors.New("web.jwt_secret is required")
	}
	if cfg.Web.StaffAPIKey == "" {
		return nil, errors.New("web.staff_api_key is required")
	}
	if cfg.Web.StaffAPIKey == cfg.Web.JWTSecret {
		return nil, errors.New("web.staff_api_key must differ from web.jwt_secret")
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	return &cfg, nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
