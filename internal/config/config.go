// Package config loads lorelegacy settings from a YAML file, a .env file and
// LORELEGACY_* environment variables, in increasing order of precedence.
package config

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/KirkDiggler/lorelegacy/internal/errors"
	"github.com/KirkDiggler/lorelegacy/internal/rulebook"
)

// EnvPrefix prefixes every environment override, e.g. LORELEGACY_STORE_BACKEND
const EnvPrefix = "LORELEGACY"

// Store backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Backends lists the accepted store.backend values
var Backends = []string{BackendMemory, BackendRedis, BackendSQLite}

// LogLevels lists the accepted log_level values
var LogLevels = []string{"debug", "info", "warn", "error"}

// Config is the full application configuration
type Config struct {
	LogLevel string       `mapstructure:"log_level"`
	Store    StoreConfig  `mapstructure:"store"`
	GRPC     GRPCConfig   `mapstructure:"grpc"`
	Images   ImagesConfig `mapstructure:"images"`
}

// StoreConfig selects and configures the content store
type StoreConfig struct {
	Backend       string `mapstructure:"backend"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	SQLitePath    string `mapstructure:"sqlite_path"`
}

// GRPCConfig configures the serve command
type GRPCConfig struct {
	Port int `mapstructure:"port"`
}

// ImagesConfig overrides the image reference of each record type
type ImagesConfig struct {
	Trait  string `mapstructure:"trait"`
	Skill  string `mapstructure:"skill"`
	Spell  string `mapstructure:"spell"`
	Weapon string `mapstructure:"weapon"`
	Armor  string `mapstructure:"armor"`
}

// LoadOptions locates the configuration sources
type LoadOptions struct {
	// File is an explicit config file. Empty searches lorelegacy.yaml in
	// the working directory then ~/.config/lorelegacy.
	File string
	// DotEnv is the .env file to load, ".env" when empty. A missing file is ignored.
	DotEnv string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("store.backend", BackendMemory)
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.redis_password", "")
	v.SetDefault("store.redis_db", 0)
	v.SetDefault("store.sqlite_path", "lorelegacy.db")
	v.SetDefault("grpc.port", 50051)

	def := rulebook.DefaultImages()
	v.SetDefault("images.trait", def.Trait)
	v.SetDefault("images.skill", def.Skill)
	v.SetDefault("images.spell", def.Spell)
	v.SetDefault("images.weapon", def.Weapon)
	v.SetDefault("images.armor", def.Armor)
}

// Load reads and validates the configuration
func Load(opts LoadOptions) (*Config, error) {
	dotEnv := opts.DotEnv
	if dotEnv == "" {
		dotEnv = ".env"
	}
	if err := godotenv.Load(dotEnv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrapf(err, "failed to load %s", dotEnv)
	}

	v := viper.New()
	setDefaults(v)

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("lorelegacy")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "lorelegacy"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); opts.File != "" || !notFound {
			return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to read config")
		}
	} else {
		slog.Debug("Using config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &cfg, nil
}

// Validate checks the values Load cannot default
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateEnum("log_level", strings.ToLower(c.LogLevel), LogLevels, vb)
	errors.ValidateEnum("store.backend", c.Store.Backend, Backends, vb)
	switch c.Store.Backend {
	case BackendRedis:
		errors.ValidateRequired("store.redis_addr", c.Store.RedisAddr, vb)
	case BackendSQLite:
		errors.ValidateRequired("store.sqlite_path", c.Store.SQLitePath, vb)
	}
	errors.ValidatePositive("grpc.port", c.GRPC.Port, vb)

	return vb.Build()
}

// SlogLevel maps log_level onto slog
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// RulebookImages returns the configured image references
func (c *Config) RulebookImages() rulebook.Images {
	return rulebook.Images{
		Trait:  c.Images.Trait,
		Skill:  c.Images.Skill,
		Spell:  c.Images.Spell,
		Weapon: c.Images.Weapon,
		Armor:  c.Images.Armor,
	}
}
