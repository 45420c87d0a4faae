package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/rates"
	"finance-tracker/internal/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the server configuration.
type Config struct {
	Port         string        `mapstructure:"port"`
	SecureCookie bool          `mapstructure:"secure_cookie"`
	DBDriver     string        `mapstructure:"db_driver"`
	DBPath       string        `mapstructure:"db_path"`
	DatabaseURL  string        `mapstructure:"database_url"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	JWTIssuer    string        `mapstructure:"jwt_issuer"`
	SessionTTL   time.Duration `mapstructure:"session_duration"`
	AdminUser    string        `mapstructure:"admin_user"`
	AdminPass    string        `mapstructure:"admin_password"`

	RatesURL             string        `mapstructure:"rates_url"`
	RatesRefreshInterval time.Duration `mapstructure:"rates_refresh_interval"`
	RatesConnectTimeout  time.Duration `mapstructure:"rates_connect_timeout"`
	RatesReadTimeout     time.Duration `mapstructure:"rates_read_timeout"`

	SessionCleanupInterval time.Duration `mapstructure:"session_cleanup_interval"`
}

var defaults = map[string]any{
	"port":                     "8080",
	"secure_cookie":            false,
	"db_driver":                storage.DriverSQLite,
	"db_path":                  "finance.db",
	"database_url":             "",
	"jwt_secret":               "",
	"jwt_issuer":               "finance-tracker",
	"session_duration":         30 * 24 * time.Hour,
	"admin_user":               "",
	"admin_password":           "",
	"rates_url":                rates.DefaultURL,
	"rates_refresh_interval":   15 * time.Minute,
	"rates_connect_timeout":    rates.DefaultConnectTimeout,
	"rates_read_timeout":       rates.DefaultReadTimeout,
	"session_cleanup_interval": time.Hour,
}

// Load reads configuration from an optional .env file, an optional YAML file
// and the environment, in increasing order of precedence. An empty path looks
// for config.yaml in the working directory.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// environment overrides, e.g. PORT=9000 or RATES_REFRESH_INTERVAL=5m
	v.AutomaticEnv()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case storage.DriverSQLite:
		if c.DBPath == "" {
			return errors.New("DB_PATH is required for sqlite")
		}
	case storage.DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for postgres")
		}
	default:
		return fmt.Errorf("invalid DB_DRIVER %q (want sqlite or postgres)", c.DBDriver)
	}

	durations := map[string]time.Duration{
		"SESSION_DURATION":         c.SessionTTL,
		"RATES_REFRESH_INTERVAL":   c.RatesRefreshInterval,
		"RATES_CONNECT_TIMEOUT":    c.RatesConnectTimeout,
		"RATES_READ_TIMEOUT":       c.RatesReadTimeout,
		"SESSION_CLEANUP_INTERVAL": c.SessionCleanupInterval,
	}
	for name, d := range durations {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}

	if c.JWTSecret == "" {
		secret, err := auth.RandomSecret(32)
		if err != nil {
			return fmt.Errorf("generate jwt secret: %w", err)
		}
		log.Println("WARN: JWT_SECRET not set, using a random secret; sessions will not survive a restart")
		c.JWTSecret = secret
	}
	return nil
}

// DSN returns the data source name for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == storage.DriverPostgres {
		return c.DatabaseURL
	}
	return c.DBPath
}
