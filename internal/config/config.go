package config

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"
)

// Config holds application configuration
type Config struct {
	Port           string
	LogLevel       string
	DBDriver       string
	DBDSN          string
	MigrationsPath string // empty = embedded migrations

	ContentFile    string
	ParametersFile string
	SuffixesFile   string

	SessionSecret string
	DailySalt     string
	SessionTTL    time.Duration
	ClientOrigin  string
	CookieName    string
	Production    bool
}

const devSecret = "dev-secret-change-me"

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	ttl, err := getEnvInt("SESSION_TTL_HOURS", 24)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("SESSION_TTL_HOURS must be positive, got %d", ttl)
	}

	cfg := &Config{
		Port:           getEnv("PORT", "5175"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DBDriver:       getEnv("DB_DRIVER", "sqlite3"),
		DBDSN:          getEnv("DB_DSN", "./data/parasight.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", ""),
		ContentFile:    getEnv("CONTENT_FILE", ""),
		ParametersFile: getEnv("PARAMETERS_FILE", ""),
		SuffixesFile:   getEnv("SUFFIXES_FILE", ""),
		SessionSecret:  getEnv("SESSION_SECRET", devSecret),
		DailySalt:      getEnv("DAILY_SALT", "parasight"),
		SessionTTL:     time.Duration(ttl) * time.Hour,
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		CookieName:     getEnv("COOKIE_NAME", "parasight_session"),
		Production:     strings.EqualFold(os.Getenv("APP_ENV"), "production"),
	}
	if cfg.Production && cfg.SessionSecret == devSecret {
		return nil, errors.New("SESSION_SECRET must be set in production")
	}
	return cfg, nil
}

// SessionKey derives the token signing key from SessionSecret.
func (c *Config) SessionKey() ([]byte, error) {
	key := make([]byte, 32)
	r := hkdf.New(sha256.New, []byte(c.SessionSecret), []byte(c.DailySalt), []byte("parasight session v1"))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}
	return key, nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
