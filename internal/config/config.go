// Package config loads the server configuration from a YAML file with
// DUEL_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/duelhall/duel-server-go/internal/game"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. DUEL_SERVER_ADDRESS.
const EnvPrefix = "DUEL"

// Config is the full server configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Rules   game.Rules    `mapstructure:"rules"`
	Store   StoreConfig   `mapstructure:"store"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Replay  ReplayConfig  `mapstructure:"replay"`
}

// ServerConfig configures the HTTP and websocket listener.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StoreConfig selects where game snapshots are kept.
type StoreConfig struct {
	Driver   string `mapstructure:"driver"`
	DSN      string `mapstructure:"dsn"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// CatalogConfig points at a card catalog file. An empty path uses the
// built-in catalog.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// ReplayConfig controls where finished games are written. An empty
// directory disables replay files.
type ReplayConfig struct {
	Dir string `mapstructure:"dir"`
}

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.allowed_origins", []string{})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	r := game.DefaultRules()
	v.SetDefault("rules.max_hand_size", r.MaxHandSize)
	v.SetDefault("rules.max_in_play", r.MaxInPlay)
	v.SetDefault("rules.max_artifacts", r.MaxArtifacts)
	v.SetDefault("rules.starting_hit_points", r.StartingHitPoints)
	v.SetDefault("rules.max_hit_points", r.MaxHitPoints)
	v.SetDefault("rules.mana_cap", r.ManaCap)
	v.SetDefault("rules.starting_hand_size", r.StartingHandSize)
	v.SetDefault("rules.rope_seconds", r.RopeSeconds)
	v.SetDefault("rules.make_choices", r.MakeChoices)
	v.SetDefault("rules.default_deck", []string{})

	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.max_conns", 10)

	v.SetDefault("catalog.path", "")
	v.SetDefault("replay.dir", "")
}

// Load reads the configuration file at path. A missing file leaves the
// defaults in place; environment variables override both.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server can't run with.
func (c *Config) Validate() error {
	switch c.Server.Mode {
	case "", "debug", "release", "test":
	default:
		return fmt.Errorf("invalid server mode %q", c.Server.Mode)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging format %q", c.Logging.Format)
	}
	switch c.Store.Driver {
	case DriverMemory:
	case DriverPostgres, DriverSQLite:
		if c.Store.DSN == "" {
			return fmt.Errorf("store driver %s requires a dsn", c.Store.Driver)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	r := c.Rules
	if r.MaxHandSize <= 0 || r.MaxInPlay <= 0 || r.MaxArtifacts <= 0 {
		return fmt.Errorf("zone limits must be positive")
	}
	if r.StartingHitPoints <= 0 || r.MaxHitPoints < r.StartingHitPoints {
		return fmt.Errorf("invalid hit points: starting %d, max %d", r.StartingHitPoints, r.MaxHitPoints)
	}
	if r.StartingHandSize < 0 || r.StartingHandSize > r.MaxHandSize {
		return fmt.Errorf("starting hand size %d exceeds hand limit %d", r.StartingHandSize, r.MaxHandSize)
	}
	return nil
}
