package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port           int `yaml:"port"`
		TimeoutSeconds int `yaml:"timeout_seconds"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Backup struct {
		Enabled       bool   `yaml:"enabled"`
		Path          string `yaml:"path"`
		IntervalHours int    `yaml:"interval_hours"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"backup"`

	Redis struct {
		Address         string `yaml:"address"`
		Password        string `yaml:"password"`
		DB              int    `yaml:"db"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"redis"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Refresh struct {
		IntervalSeconds int `yaml:"interval_seconds"`
	} `yaml:"refresh"`

	Cleanup struct {
		RetentionDays       int `yaml:"retention_days"`
		IntervalHours       int `yaml:"interval_hours"`
		InitialDelaySeconds int `yaml:"initial_delay_seconds"`
	} `yaml:"cleanup"`

	Update struct {
		Enabled bool   `yaml:"enabled"`
		URL     string `yaml:"url"`
	} `yaml:"update"`

	Rooms []string `yaml:"rooms"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/reservations.db"
	}
	if cfg.Refresh.IntervalSeconds <= 0 {
		cfg.Refresh.IntervalSeconds = 30
	}
	if cfg.Cleanup.RetentionDays <= 0 {
		cfg.Cleanup.RetentionDays = 30
	}
	if cfg.Cleanup.IntervalHours <= 0 {
		cfg.Cleanup.IntervalHours = 24
	}
	if cfg.Cleanup.InitialDelaySeconds <= 0 {
		cfg.Cleanup.InitialDelaySeconds = 15
	}
	if cfg.Backup.Path == "" {
		cfg.Backup.Path = "backups"
	}
	if cfg.Backup.IntervalHours <= 0 {
		cfg.Backup.IntervalHours = 24
	}
	if cfg.Backup.RetentionDays <= 0 {
		cfg.Backup.RetentionDays = 14
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) ServerTimeout() time.Duration {
	if c.Server.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Refresh.IntervalSeconds) * time.Second
}

func (c *Config) CleanupInterval() time.Duration {
	return time.Duration(c.Cleanup.IntervalHours) * time.Hour
}

func (c *Config) CleanupInitialDelay() time.Duration {
	return time.Duration(c.Cleanup.InitialDelaySeconds) * time.Second
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Redis.CacheTTLSeconds) * time.Second
}
