package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every key Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "LOG_LEVEL", "CATALOG_BASE_URL", "CATALOG_TIMEOUT", "CATALOG_RPS",
		"CATALOG_BURST", "CATALOG_USER_AGENT", "SERVER_PORT", "SERVER_READ_TIMEOUT",
		"SERVER_WRITE_TIMEOUT", "SERVER_IDLE_TIMEOUT", "ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func noEnvFile(t *testing.T) string {
	t.Helper()
	return "-env-file=" + filepath.Join(t.TempDir(), "missing.env")
}

func validConfig() *Config {
	return &Config{
		App:     AppConfig{Environment: "development"},
		Logger:  LoggerConfig{Level: "info"},
		Catalog: CatalogConfig{BaseURL: "http://catalog.local:8081", RPS: 10, Burst: 20},
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("CATALOG_BASE_URL", "http://catalog.local:8081/")

	cfg, err := Load([]string{noEnvFile(t)})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "http://catalog.local:8081", cfg.Catalog.BaseURL, "trailing slash is trimmed")
	assert.Equal(t, 30*time.Second, cfg.Catalog.Timeout)
	assert.InDelta(t, 10.0, cfg.Catalog.RPS, 0.001)
	assert.Equal(t, 20, cfg.Catalog.Burst)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
}

func TestLoad_FlagsBeatEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("CATALOG_BASE_URL", "http://from-env")
	t.Setenv("SERVER_PORT", "9000")

	cfg, err := Load([]string{
		noEnvFile(t),
		"-catalog-url=https://from-flag",
		"-port=9100",
		"-catalog-timeout=5s",
		"-allowed-origins=http://a.test, http://b.test",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://from-flag", cfg.Catalog.BaseURL)
	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
}

func TestLoad_EnvFileFillsGaps(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("# catalog\nCATALOG_BASE_URL=\"http://dotenv.local\"\nCATALOG_BURST=5\n"), 0o600))

	cfg, err := Load([]string{"-env-file=" + envFile})
	require.NoError(t, err)

	assert.Equal(t, "http://dotenv.local", cfg.Catalog.BaseURL)
	assert.Equal(t, 5, cfg.Catalog.Burst)
}

func TestLoad_MissingBaseURL(t *testing.T) {
	clearEnv(t)

	_, err := Load([]string{noEnvFile(t)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CATALOG_BASE_URL")
}

func TestLoad_BadDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("CATALOG_BASE_URL", "http://catalog.local")

	_, err := Load([]string{noEnvFile(t), "-read-timeout=soon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read timeout")
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"PRODUCTION", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env
			if tt.valid {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestValidate_CatalogURL(t *testing.T) {
	tests := []struct {
		url   string
		valid bool
	}{
		{"http://10.0.2.2:8080", true},
		{"https://api.flora.example/v1", true},
		{"catalog.local", false},
		{"ftp://catalog.local", false},
		{"http://", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			cfg := validConfig()
			cfg.Catalog.BaseURL = tt.url
			if tt.valid {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestValidate_RateLimits(t *testing.T) {
	cfg := validConfig()
	cfg.Catalog.RPS = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Catalog.Burst = -1
	assert.Error(t, cfg.Validate())
}

func TestValidate_LogLevelCaseInsensitive(t *testing.T) {
	cfg := validConfig()
	cfg.Logger.Level = "DEBUG"
	assert.NoError(t, cfg.Validate())

	cfg.Logger.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("NOT_A_PAIR\n"), 0o600))

	err := loadEnvFile(envFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestLoadEnvFile_ExistingEnvVarsNotOverwritten(t *testing.T) {
	t.Setenv("FLORA_TEST_KEY", "from-env")
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("FLORA_TEST_KEY=from-file\n"), 0o600))

	require.NoError(t, loadEnvFile(envFile))
	assert.Equal(t, "from-env", os.Getenv("FLORA_TEST_KEY"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b ,"))
	assert.Nil(t, splitList(""))
}
