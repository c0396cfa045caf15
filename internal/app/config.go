package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/Be3yH4uK315/it-recruiter-bot-service/core/config"
	coredatabase "github.com/Be3yH4uK315/it-recruiter-bot-service/core/database"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/gateway"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/session"
)

// Config is the full bot configuration: the core Telegram and logging
// settings plus the recruiter-specific sections. Values load from a
// YAML file first and environment variables second.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
	Services gateway.Config      `yaml:"services"`
	Session  session.Config      `yaml:"session"`
	Redis    session.RedisConfig `yaml:"redis"`
}

// CoreConfig exposes the embedded core configuration for the runner.
func (c *Config) CoreConfig() *coreconfig.Config { return &c.Core }

// LoadConfig reads the YAML file at path, overlays environment
// variables, and validates the result.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if err := normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func normalize(cfg *Config) error {
	backend := strings.ToLower(strings.TrimSpace(cfg.Session.Backend))
	if backend == "" {
		backend = "memory"
	}
	switch backend {
	case "memory", "redis", "postgres":
	default:
		return fmt.Errorf("invalid session.backend %q; allowed: memory, redis, postgres", cfg.Session.Backend)
	}
	cfg.Session.Backend = backend

	if cfg.Session.IdleTimeoutMinutes <= 0 {
		cfg.Session.IdleTimeoutMinutes = 30
	}
	if backend == "redis" && strings.TrimSpace(cfg.Redis.Addr) == "" {
		return fmt.Errorf("redis.addr is required when session.backend is 'redis'")
	}

	for name, u := range map[string]string{
		"services.candidate_url": cfg.Services.CandidateURL,
		"services.employer_url":  cfg.Services.EmployerURL,
		"services.search_url":    cfg.Services.SearchURL,
		"services.file_url":      cfg.Services.FileURL,
	} {
		if strings.TrimSpace(u) == "" {
			return fmt.Errorf("%s is required", name)
		}
	}
	return nil
}
