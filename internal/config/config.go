// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultDBPassword = "changeme"

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string
	Port     string
	Env      string // "development", "production", "testing"
	LogLevel string

	// Site metadata used by pages and the RSS feed
	SiteName        string
	SiteURL         string
	SiteDescription string

	// Directory holding the markdown posts
	PostsDir string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Valkey (Redis-compatible session store)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Google sign-in
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// AuthMock signs every request in as a fixed local user.
	AuthMock bool

	// TrustProxy takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable only behind a reverse proxy that sets them.
	TrustProxy bool

	// AdminEmails may open the admin page.
	AdminEmails []string

	// Optional S3-compatible bucket serving posts instead of PostsDir
	S3Endpoint    string
	S3Region      string
	S3AccessKey   string
	S3SecretKey   string
	S3PostsBucket string
	S3PostsPrefix string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is loaded first if present; real environment variables take precedence.
// Returns an error if critical values are missing in production mode.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Host:     envOrDefault("APP_HOST", "0.0.0.0"),
		Port:     envOrDefault("APP_PORT", "8080"),
		Env:      envOrDefault("APP_ENV", "development"),
		LogLevel: envOrDefault("LOG_LEVEL", "info"),

		SiteName:        envOrDefault("SITE_NAME", "skagedal.tech"),
		SiteURL:         strings.TrimRight(envOrDefault("SITE_URL", "http://localhost:8080"), "/"),
		SiteDescription: envOrDefault("SITE_DESCRIPTION", "Thoughts on software development, technology and the future."),

		PostsDir: envOrDefault("POSTS_DIR", "posts"),

		DBHost:    envOrDefault("DATABASE_HOST", "localhost"),
		DBPort:    envOrDefault("DATABASE_PORT", "5432"),
		DBUser:    envOrDefault("DATABASE_USER", "blogdans"),
		DBName:    envOrDefault("DATABASE_NAME", "blogdans"),
		DBSSLMode: envOrDefault("DATABASE_SSLMODE", "disable"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),

		AdminEmails: splitList(os.Getenv("ADMIN_EMAILS")),

		S3Endpoint:    os.Getenv("S3_ENDPOINT"),
		S3Region:      envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey:   os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:   os.Getenv("S3_SECRET_KEY"),
		S3PostsBucket: os.Getenv("S3_POSTS_BUCKET"),
		S3PostsPrefix: os.Getenv("S3_POSTS_PREFIX"),
	}
	cfg.GoogleRedirectURL = envOrDefault("GOOGLE_REDIRECT_URL", cfg.SiteURL+"/auth/google/callback")

	password, err := dbPassword()
	if err != nil {
		return nil, err
	}
	cfg.DBPassword = password

	if cfg.AuthMock, err = envBool("AUTH_MOCK"); err != nil {
		return nil, err
	}
	if cfg.TrustProxy, err = envBool("TRUST_PROXY"); err != nil {
		return nil, err
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == defaultDBPassword {
			return nil, errors.New("DATABASE_PASSWORD or DATABASE_PASSWORD_FILE must be set in production")
		}
		if cfg.AuthMock {
			return nil, errors.New("AUTH_MOCK must not be enabled in production")
		}
		if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
			return nil, errors.New("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set in production")
		}
	}

	return cfg, nil
}

// dbPassword returns DATABASE_PASSWORD, or the trimmed contents of the file
// named by DATABASE_PASSWORD_FILE (a mounted secret), or the development
// default.
func dbPassword() (string, error) {
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		return v, nil
	}
	if path := os.Getenv("DATABASE_PASSWORD_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read DATABASE_PASSWORD_FILE: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return defaultDBPassword, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// IsAdmin reports whether email belongs to a configured administrator.
func (c *Config) IsAdmin(email string) bool {
	for _, a := range c.AdminEmails {
		if strings.EqualFold(a, email) {
			return true
		}
	}
	return false
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
// envBool parses a boolean variable; unset or empty means false.
func envBool(key string) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitList parses a comma-separated list, dropping blank entries.
func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
