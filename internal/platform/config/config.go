package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const FileName = "visitlog.yaml"

type HTTP struct {
	Addr              string        `yaml:"addr" env:"ADDR"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"READ_HEADER_TIMEOUT"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

type Auth struct {
	JWTSecret  string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	TokenTTL   time.Duration `yaml:"token_ttl" env:"TOKEN_TTL"`
	BcryptCost int           `yaml:"bcrypt_cost" env:"BCRYPT_COST"`
}

type Presence struct {
	OperationTimeout      time.Duration `yaml:"operation_timeout" env:"OPERATION_TIMEOUT"`
	DeactivateConcurrency int           `yaml:"deactivate_concurrency" env:"DEACTIVATE_CONCURRENCY"`
}

// Report bounds report requests, which may start an exporter plugin.
type Report struct {
	ExportTimeout time.Duration `yaml:"export_timeout" env:"EXPORT_TIMEOUT"`
}

type Log struct {
	Level string `yaml:"level" env:"LEVEL"`
	JSON  bool   `yaml:"json" env:"JSON"`
}

type Config struct {
	DataDir     string   `yaml:"data_dir" env:"DATA_DIR"`
	DBPath      string   `yaml:"db_path" env:"DB_PATH"`
	Timezone    string   `yaml:"timezone" env:"TIMEZONE"`
	PluginsPath string   `yaml:"plugins_path" env:"PLUGINS_PATH"`
	HTTP        HTTP     `yaml:"http" envPrefix:"HTTP_"`
	Auth        Auth     `yaml:"auth" envPrefix:"AUTH_"`
	Presence    Presence `yaml:"presence" envPrefix:"PRESENCE_"`
	Report      Report   `yaml:"report" envPrefix:"REPORT_"`
	Log         Log      `yaml:"log" envPrefix:"LOG_"`

	location *time.Location
}

func defaults(dataDir string) Config {
	return Config{
		DataDir:  dataDir,
		Timezone: "UTC",
		HTTP: HTTP{
			Addr:              ":8080",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   5 * time.Second,
		},
		Auth: Auth{TokenTTL: 24 * time.Hour, BcryptCost: 10},
		Presence: Presence{
			OperationTimeout:      2 * time.Second,
			DeactivateConcurrency: 4,
		},
		Report: Report{ExportTimeout: 30 * time.Second},
		Log:    Log{Level: "info"},
	}
}

// Load layers defaults, the YAML file and VISITLOG_* environment variables,
// in that order. An empty configPath means <dataDir>/visitlog.yaml, which may
// be absent.
func Load(dataDir, configPath string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := defaults(dataDir)

	explicit := configPath != ""
	if !explicit {
		configPath = filepath.Join(dataDir, FileName)
	}
	raw, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config %s: %w", configPath, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "VISITLOG_"}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "visitlog.db")
	}
	if cfg.PluginsPath == "" {
		cfg.PluginsPath = filepath.Join(cfg.DataDir, "plugins")
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	c.location = loc
	if c.Presence.OperationTimeout <= 0 {
		return fmt.Errorf("presence.operation_timeout must be positive")
	}
	if c.Report.ExportTimeout <= 0 {
		return fmt.Errorf("report.export_timeout must be positive")
	}
	if c.Presence.DeactivateConcurrency < 1 {
		return fmt.Errorf("presence.deactivate_concurrency must be at least 1")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("auth.bcrypt_cost must be between 4 and 31")
	}
	return nil
}

// Location is the facility time zone used for calendar days.
func (c Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// RequireServe checks settings only the HTTP server needs.
func (c Config) RequireServe() error {
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("auth.jwt_secret must be at least 16 characters")
	}
	if c.HTTP.Addr == "" {
		return fmt.Errorf("http.addr is required")
	}
	return nil
}
