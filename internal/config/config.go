package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is used when neither a flag nor PDV_CONFIG names a file.
const DefaultConfigFile = "config.yaml"

// AppConfig holds command-line level options.
type AppConfig struct {
	ConfigPath     string
	BootstrapAdmin bool
}

// Config is the full service configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	JWT        JWTConfig        `yaml:"jwt"`
	Privileged PrivilegedConfig `yaml:"privileged"`
	Store2     Store2Config     `yaml:"store2"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// AnonymousConsole opens permission-gated routes to callers with no identity.
	AnonymousConsole bool `yaml:"anonymous-console"`
}

// DatabaseConfig configures the operator store connection.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// JWTConfig configures operator session tokens.
type JWTConfig struct {
	Secret string        `yaml:"secret"`
	Expiry time.Duration `yaml:"expiry"`
}

// PrivilegedConfig configures the break-glass administrative login.
type PrivilegedConfig struct {
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// Store2Config configures where Store2 attendance sessions are read from.
type Store2Config struct {
	RedisAddr     string `yaml:"redis-addr"`
	RedisPassword string `yaml:"redis-password"`
	RedisDB       int    `yaml:"redis-db"`
	KeyPrefix     string `yaml:"key-prefix"`
	Header        string `yaml:"header"`
}

// LoggingConfig configures logrus and the optional rotating file.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max-size-mb"`
	MaxBackups int    `yaml:"max-backups"`
	MaxAgeDays int    `yaml:"max-age-days"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server:     ServerConfig{Addr: ":8317"},
		Database:   DatabaseConfig{DSN: "file:data/pdv.db"},
		JWT:        JWTConfig{Expiry: 12 * time.Hour},
		Privileged: PrivilegedConfig{Password: "elite2024", Name: "Administrador"},
		Store2:     Store2Config{KeyPrefix: "store2:session:", Header: "X-Store2-Session"},
		Logging:    LoggingConfig{Level: "info", MaxSizeMB: 20, MaxBackups: 5, MaxAgeDays: 30},
	}
}

// ResolveConfigPath returns the config file to load.
func ResolveConfigPath(path string) string {
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		return filepath.Clean(trimmed)
	}
	if env := strings.TrimSpace(os.Getenv("PDV_CONFIG")); env != "" {
		return filepath.Clean(env)
	}
	return DefaultConfigFile
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, errRead := os.ReadFile(path)
	switch {
	case errRead == nil:
		if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, errUnmarshal)
		}
	case errors.Is(errRead, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, errRead)
	}

	applyEnv(&cfg)
	if errValidate := cfg.Validate(); errValidate != nil {
		return nil, errValidate
	}
	return &cfg, nil
}

// Validate checks required settings.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("config: database.dsn is required")
	}
	if c.JWT.Expiry <= 0 {
		return fmt.Errorf("config: jwt.expiry must be positive")
	}
	if strings.TrimSpace(c.Privileged.Password) == "" {
		return fmt.Errorf("config: privileged.password must not be empty")
	}
	return nil
}

// UsesDefaultPrivilegedPassword reports whether the shipped break-glass secret is active.
func (c *Config) UsesDefaultPrivilegedPassword() bool {
	return c.Privileged.Password == Default().Privileged.Password
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Addr, "PDV_SERVER_ADDR")
	setString(&cfg.Database.DSN, "PDV_DATABASE_DSN")
	setString(&cfg.JWT.Secret, "PDV_JWT_SECRET")
	setString(&cfg.Privileged.Password, "PDV_ADMIN_PASSWORD")
	setString(&cfg.Store2.RedisAddr, "PDV_STORE2_REDIS_ADDR")
	setString(&cfg.Store2.RedisPassword, "PDV_STORE2_REDIS_PASSWORD")
	setString(&cfg.Logging.Level, "PDV_LOG_LEVEL")
	if v, ok := lookup("PDV_STORE2_REDIS_DB"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Store2.RedisDB = n
		}
	}
	if v, ok := lookup("PDV_ANONYMOUS_CONSOLE"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Server.AnonymousConsole = b
		}
	}
	if v, ok := lookup("PDV_JWT_EXPIRY"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.JWT.Expiry = d
		}
	}
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}
