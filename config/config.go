package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration. Values come from an optional YAML
// file, then .env, then the process environment, later sources winning.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	CORS     CORSConfig     `yaml:"cors"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Log      LogConfig      `yaml:"log"`
	Seed     bool           `yaml:"seed"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Mode            string        `yaml:"mode"` // gin mode: debug | release | test
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type CORSConfig struct {
	Origins []string `yaml:"origins"`
}

// DatabaseConfig selects the driver and how to reach it. URL wins over the
// individual fields when set.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // mysql | postgres | sqlite
	URL    string `yaml:"url"`

	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`

	// Path is the sqlite file; ":memory:" is allowed.
	Path string `yaml:"path"`

	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	SlowThreshold   time.Duration `yaml:"slow_threshold"`
}

type JWTConfig struct {
	Secret   string        `yaml:"secret"`
	TokenTTL time.Duration `yaml:"token_ttl"`
	Issuer   string        `yaml:"issuer"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console | json
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Mode:            "release",
			ShutdownTimeout: 15 * time.Second,
		},
		CORS: CORSConfig{Origins: []string{"*"}},
		Database: DatabaseConfig{
			Driver:          "mysql",
			Host:            "127.0.0.1",
			Port:            "3306",
			User:            "root",
			Name:            "pg_manager",
			Path:            "pg_manager.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			SlowThreshold:   time.Second,
		},
		JWT: JWTConfig{
			TokenTTL: 30 * 24 * time.Hour,
			Issuer:   "pg-manager",
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}
}

// Load builds the configuration. filename may be empty; a missing .env is
// not an error.
func Load(filename string) (*Config, error) {
	cfg := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	}

	_ = godotenv.Load()
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func (c *Config) applyEnvOverrides() {
	c.Server.Port = envOrDefault("PORT", c.Server.Port)
	c.Server.Mode = envOrDefault("GIN_MODE", c.Server.Mode)

	if raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); raw != "" {
		c.CORS.Origins = parseList(raw)
	}

	c.Database.Driver = strings.ToLower(envOrDefault("DB_DRIVER", c.Database.Driver))
	c.Database.URL = envOrDefault("DATABASE_URL", c.Database.URL)
	c.Database.Host = envOrDefault("DB_HOST", c.Database.Host)
	c.Database.Port = envOrDefault("DB_PORT", c.Database.Port)
	c.Database.User = envOrDefault("DB_USER", c.Database.User)
	c.Database.Password = envOrDefault("DB_PASS", c.Database.Password)
	c.Database.Name = envOrDefault("DB_NAME", c.Database.Name)
	c.Database.Path = envOrDefault("SQLITE_PATH", c.Database.Path)

	c.JWT.Secret = envOrDefault("JWT_SECRET", c.JWT.Secret)
	if ttl, err := time.ParseDuration(os.Getenv("JWT_TTL")); err == nil {
		c.JWT.TokenTTL = ttl
	}

	c.Log.Level = envOrDefault("LOG_LEVEL", c.Log.Level)
	c.Log.Format = envOrDefault("LOG_FORMAT", c.Log.Format)

	if seed, err := strconv.ParseBool(os.Getenv("SEED_DATA")); err == nil {
		c.Seed = seed
	}
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.JWT.Secret == "" {
		return errors.New("JWT secret is not set (JWT_SECRET)")
	}
	if c.JWT.TokenTTL <= 0 {
		return errors.New("JWT token TTL must be positive")
	}
	return nil
}

func parseList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
