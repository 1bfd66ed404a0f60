package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPatientAPI_Defaults(t *testing.T) {
	t.Setenv("AUTH_SIGNING_KEY", "k")

	cfg, err := LoadPatientAPI()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.APIPort)
	assert.Equal(t, "usuarios", cfg.RecordKeyPrefix)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, time.Hour, cfg.AuthTokenTTL)
	assert.Equal(t, 0, cfg.UnlockRateLimit)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
}

func TestLoadPatientAPI_Overrides(t *testing.T) {
	t.Setenv("AUTH_SIGNING_KEY", "k")
	t.Setenv("API_PORT", "8081")
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("AUTH_ISSUER", "nfc-admin")
	t.Setenv("UNLOCK_RATE_LIMIT", "5")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")

	cfg, err := LoadPatientAPI()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.APIPort)
	assert.Equal(t, "redis:6380", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "nfc-admin", cfg.AuthIssuer)
	assert.Equal(t, 5, cfg.UnlockRateLimit)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
}

func TestLoadPatientAPI_RequiresKey(t *testing.T) {
	t.Setenv("AUTH_SIGNING_KEY", "")
	t.Setenv("AUTH_PUBLIC_KEY_FILE", "")

	_, err := LoadPatientAPI()
	assert.Error(t, err)
}

func TestLoadPatientAPI_BadValue(t *testing.T) {
	t.Setenv("AUTH_SIGNING_KEY", "k")
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := LoadPatientAPI()
	assert.Error(t, err)
}

func TestAuthPublicKeyPEM(t *testing.T) {
	cfg := &PatientAPIConfig{}
	pemBytes, err := cfg.AuthPublicKeyPEM()
	require.NoError(t, err)
	assert.Nil(t, pemBytes)

	path := filepath.Join(t.TempDir(), "key.pem")
	require.NoError(t, os.WriteFile(path, []byte("PEM"), 0o600))
	cfg.AuthPublicKeyFile = path
	pemBytes, err = cfg.AuthPublicKeyPEM()
	require.NoError(t, err)
	assert.Equal(t, []byte("PEM"), pemBytes)

	cfg.AuthPublicKeyFile = filepath.Join(t.TempDir(), "missing.pem")
	_, err = cfg.AuthPublicKeyPEM()
	assert.Error(t, err)
}

func TestLoadAccountWeb_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s")

	cfg, err := LoadAccountWeb()
	require.NoError(t, err)

	assert.Equal(t, "5001", cfg.WebPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "site.db", cfg.DBDSN)
	assert.Equal(t, SessionBackendCookie, cfg.SessionBackend)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.CookieSecure)
	assert.False(t, cfg.NeedsRedis())
}

func TestAccountWebConfig_Validate(t *testing.T) {
	valid := func() AccountWebConfig {
		return AccountWebConfig{
			DBDriver:       "pgx",
			SessionBackend: SessionBackendCookie,
			SessionSecret:  "s",
			SessionTTL:     time.Hour,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *AccountWebConfig)
		wantErr bool
	}{
		{"valid", func(c *AccountWebConfig) {}, false},
		{"redis backend needs no secret", func(c *AccountWebConfig) {
			c.SessionBackend = SessionBackendRedis
			c.SessionSecret = ""
		}, false},
		{"unknown driver", func(c *AccountWebConfig) { c.DBDriver = "mysql" }, true},
		{"cookie backend without secret", func(c *AccountWebConfig) { c.SessionSecret = "" }, true},
		{"unknown backend", func(c *AccountWebConfig) { c.SessionBackend = "memcached" }, true},
		{"zero ttl", func(c *AccountWebConfig) { c.SessionTTL = 0 }, true},
		{"negative rate limit", func(c *AccountWebConfig) { c.LoginRateLimit = -1 }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAccountWebConfig_NeedsRedis(t *testing.T) {
	cfg := AccountWebConfig{SessionBackend: SessionBackendRedis}
	assert.True(t, cfg.NeedsRedis())

	cfg = AccountWebConfig{SessionBackend: SessionBackendCookie, LoginRateLimit: 3}
	assert.True(t, cfg.NeedsRedis())
}

func TestLoadSeed(t *testing.T) {
	t.Setenv("RECORD_KEY_PREFIX", "pacientes")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := LoadSeed()
	require.NoError(t, err)
	assert.Equal(t, "pacientes", cfg.RecordKeyPrefix)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
}
