package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port          string `yaml:"port" env:"SERVER_PORT"`
		Mode          string `yaml:"mode" env:"SERVER_MODE"`
		BaseURL       string `yaml:"base_url" env:"SERVER_BASE_URL"`
		SessionName   string `yaml:"session_name" env:"SESSION_NAME"`
		SessionSecret string `yaml:"session_secret" env:"SESSION_SECRET"`
		SessionMaxAge int    `yaml:"session_max_age" env:"SESSION_MAX_AGE"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
		Seed            bool   `yaml:"seed" env:"DB_SEED"`
	} `yaml:"database"`

	Auth struct {
		BcryptCost int `yaml:"bcrypt_cost" env:"AUTH_BCRYPT_COST"`
	} `yaml:"auth"`

	OIDC struct {
		Enabled               bool     `yaml:"enabled" env:"OIDC_ENABLED"`
		IssuerURL             string   `yaml:"issuer_url" env:"OIDC_ISSUER_URL"`
		ClientID              string   `yaml:"client_id" env:"OIDC_CLIENT_ID"`
		ClientSecret          string   `yaml:"client_secret" env:"OIDC_CLIENT_SECRET"`
		RedirectURL           string   `yaml:"redirect_url" env:"OIDC_REDIRECT_URL"`
		Scopes                []string `yaml:"scopes" env:"OIDC_SCOPES"`
		AdminRole             string   `yaml:"admin_role" env:"OIDC_ADMIN_ROLE"`
		ViewRole              string   `yaml:"view_role" env:"OIDC_VIEW_ROLE"`
		StateSecret           string   `yaml:"state_secret" env:"OIDC_STATE_SECRET"`
		StateTTL              string   `yaml:"state_ttl" env:"OIDC_STATE_TTL"`
		PostLogoutRedirectURL string   `yaml:"post_logout_redirect_url" env:"OIDC_POST_LOGOUT_REDIRECT_URL"`
	} `yaml:"oidc"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file, an optional .env file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// .env is optional; variables already set in the environment win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.BaseURL = "http://localhost:8080"
	config.Server.SessionName = "collegeerp_session"
	config.Server.SessionMaxAge = 86400 * 7

	config.Database.Driver = DriverPostgres
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "collegeerp"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.Auth.BcryptCost = 12

	config.OIDC.Scopes = []string{"openid", "email", "profile"}
	config.OIDC.AdminRole = "app-admin"
	config.OIDC.ViewRole = "app-view"
	config.OIDC.StateTTL = "10m"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
			return fmt.Errorf("invalid database connection lifetime: %w", err)
		}
	case DriverMemory:
	case "":
		return fmt.Errorf("database driver is required")
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if config.Server.SessionSecret == "" {
		return fmt.Errorf("session secret is required")
	}

	if config.Auth.BcryptCost < 4 || config.Auth.BcryptCost > 31 {
		return fmt.Errorf("bcrypt cost must be between 4 and 31")
	}

	if config.OIDC.Enabled {
		if config.OIDC.IssuerURL == "" || config.OIDC.ClientID == "" || config.OIDC.RedirectURL == "" {
			return fmt.Errorf("oidc issuer_url, client_id and redirect_url are required when oidc is enabled")
		}
		if _, err := url.Parse(config.OIDC.RedirectURL); err != nil {
			return fmt.Errorf("invalid oidc redirect url: %w", err)
		}
		if _, err := time.ParseDuration(config.OIDC.StateTTL); err != nil {
			return fmt.Errorf("invalid oidc state ttl: %w", err)
		}
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(c.Database.User),
		url.QueryEscape(c.Database.Password),
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}

// OIDCStateSecret returns the key used to sign SSO state, falling back to the session secret
func (c *Config) OIDCStateSecret() string {
	if c.OIDC.StateSecret != "" {
		return c.OIDC.StateSecret
	}
	return c.Server.SessionSecret
}
