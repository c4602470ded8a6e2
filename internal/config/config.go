package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the service configuration, read from YAML with environment
// overrides for the values that differ between deployments.
type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		Path          string `yaml:"path"`
		MigrationsDir string `yaml:"migrationsDir"`
	} `yaml:"database"`
	Redis struct {
		Enabled    bool   `yaml:"enabled"`
		Addr       string `yaml:"addr"`
		Password   string `yaml:"password"`
		DB         int    `yaml:"db"`
		SessionTTL string `yaml:"sessionTtl"`
	} `yaml:"redis"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = 8080
	cfg.Database.Path = "quizdeck.db"
	cfg.Database.MigrationsDir = "./db/migrations"
	return cfg
}

// Load reads YAML config from path and applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		if value, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = value
		}
	}
	if path := os.Getenv("DB_PATH"); path != "" {
		cfg.Database.Path = path
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Enabled = true
		cfg.Redis.Addr = addr
	}
}

// SessionTTLDuration parses the configured session TTL, defaulting to no
// expiry.
func (c Config) SessionTTLDuration() time.Duration {
	if c.Redis.SessionTTL == "" {
		return 0
	}
	if d, err := time.ParseDuration(c.Redis.SessionTTL); err == nil {
		return d
	}
	return 0
}
