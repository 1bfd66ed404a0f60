package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// RedisConfig is shared by every component that talks to Redis.
type RedisConfig struct {
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

type LogConfig struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// PatientAPIConfig configures cmd/patient-api.
type PatientAPIConfig struct {
	RedisConfig
	LogConfig

	APIPort         string `env:"API_PORT" envDefault:"5000"`
	RecordKeyPrefix string `env:"RECORD_KEY_PREFIX" envDefault:"usuarios"`

	AuthSigningKey    string        `env:"AUTH_SIGNING_KEY"`
	AuthPublicKeyFile string        `env:"AUTH_PUBLIC_KEY_FILE"`
	AuthIssuer        string        `env:"AUTH_ISSUER"`
	AuthAudience      string        `env:"AUTH_AUDIENCE"`
	AuthRequiredRole  string        `env:"AUTH_REQUIRED_ROLE"`
	AuthTokenTTL      time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"1h"`

	UnlockRateLimit int           `env:"UNLOCK_RATE_LIMIT" envDefault:"0"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

func (c *PatientAPIConfig) Validate() error {
	if c.AuthSigningKey == "" && c.AuthPublicKeyFile == "" {
		return errors.New("one of AUTH_SIGNING_KEY or AUTH_PUBLIC_KEY_FILE is required")
	}
	if c.RecordKeyPrefix == "" {
		return errors.New("RECORD_KEY_PREFIX must not be empty")
	}
	if c.UnlockRateLimit < 0 {
		return errors.New("UNLOCK_RATE_LIMIT must not be negative")
	}
	return nil
}

// AuthPublicKeyPEM reads the RSA public key file, if one is configured.
func (c *PatientAPIConfig) AuthPublicKeyPEM() ([]byte, error) {
	if c.AuthPublicKeyFile == "" {
		return nil, nil
	}
	pemBytes, err := os.ReadFile(c.AuthPublicKeyFile)
	if err != nil {
		return nil, fmt.Errorf("read AUTH_PUBLIC_KEY_FILE: %w", err)
	}
	return pemBytes, nil
}

// SeedConfig configures cmd/seed-records.
type SeedConfig struct {
	RedisConfig
	LogConfig

	RecordKeyPrefix string `env:"RECORD_KEY_PREFIX" envDefault:"usuarios"`
}

// Session backends understood by AccountWebConfig.SessionBackend.
const (
	SessionBackendCookie = "cookie"
	SessionBackendRedis  = "redis"
)

// AccountWebConfig configures cmd/account-web.
type AccountWebConfig struct {
	RedisConfig
	LogConfig

	WebPort string `env:"WEB_PORT" envDefault:"5001"`

	DBDriver string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBDSN    string `env:"DATABASE_URL" envDefault:"site.db"`

	SessionBackend string        `env:"SESSION_BACKEND" envDefault:"cookie"`
	SessionSecret  string        `env:"SESSION_SECRET"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	CookieSecure   bool          `env:"COOKIE_SECURE" envDefault:"false"`

	LoginRateLimit  int           `env:"LOGIN_RATE_LIMIT" envDefault:"0"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

func (c *AccountWebConfig) Validate() error {
	switch c.DBDriver {
	case "sqlite", "pgx":
	default:
		return fmt.Errorf("DB_DRIVER %q is not supported (want sqlite or pgx)", c.DBDriver)
	}
	switch c.SessionBackend {
	case SessionBackendCookie:
		if c.SessionSecret == "" {
			return errors.New("SESSION_SECRET is required for the cookie session backend")
		}
	case SessionBackendRedis:
	default:
		return fmt.Errorf("SESSION_BACKEND %q is not supported (want cookie or redis)", c.SessionBackend)
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.LoginRateLimit < 0 {
		return errors.New("LOGIN_RATE_LIMIT must not be negative")
	}
	return nil
}

// NeedsRedis reports whether any configured component talks to Redis.
func (c *AccountWebConfig) NeedsRedis() bool {
	return c.SessionBackend == SessionBackendRedis || c.LoginRateLimit > 0
}

// LoadPatientAPI reads .env (when present) and the environment.
func LoadPatientAPI() (*PatientAPIConfig, error) {
	cfg := &PatientAPIConfig{}
	if err := load(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadAccountWeb reads .env (when present) and the environment.
func LoadAccountWeb() (*AccountWebConfig, error) {
	cfg := &AccountWebConfig{}
	if err := load(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadSeed reads .env (when present) and the environment.
func LoadSeed() (*SeedConfig, error) {
	cfg := &SeedConfig{}
	if err := load(cfg); err != nil {
		return nil, err
	}
	if cfg.RecordKeyPrefix == "" {
		return nil, errors.New("RECORD_KEY_PREFIX must not be empty")
	}
	return cfg, nil
}

func load(target any) error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
