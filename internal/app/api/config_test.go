package api

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "ENVIRONMENT", "LOG_LEVEL", "POSTGRES_DSN", "TEMPORAL_ADDRESS", "TEMPORAL_NAMESPACE",
	"TEMPORAL_DISABLED", "DEFAULT_PAGE_SIZE", "KEYCLOAK_BASE_URL", "KEYCLOAK_REALM",
	"KEYCLOAK_CLIENT_ID", "KEYCLOAK_CLIENT_SECRET", "JWT_PUBLIC_KEY", "JWT_ISSUER",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfigFrom()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 20, cfg.DefaultPageSize)
	assert.Empty(t, cfg.PostgresDSN)
	assert.False(t, cfg.TemporalDisabled)
	assert.False(t, cfg.Keycloak.Enabled())
	assert.Equal(t, "dog-registry", cfg.Keycloak.Realm)
}

func TestLoadConfig_EnvFileDoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PORT=9000\nDEFAULT_PAGE_SIZE=50\nKEYCLOAK_BASE_URL=http://keycloak:8080/\nKEYCLOAK_CLIENT_ID=registry-admin\n"), 0o600))
	t.Setenv("PORT", "7000")
	t.Setenv("TEMPORAL_DISABLED", "true")

	cfg, err := LoadConfigFrom(envFile, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, 50, cfg.DefaultPageSize)
	assert.True(t, cfg.TemporalDisabled)
	assert.True(t, cfg.Keycloak.Enabled())
	assert.Equal(t, "http://keycloak:8080", cfg.Keycloak.BaseURL)
	assert.Equal(t, "registry-admin", cfg.Keycloak.ClientID)
}

func TestLoadConfig_Validation(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEFAULT_PAGE_SIZE", "500")
	_, err := LoadConfigFrom()
	require.ErrorContains(t, err, "DEFAULT_PAGE_SIZE")

	clearEnv(t)
	t.Setenv("KEYCLOAK_BASE_URL", "http://keycloak:8080")
	_, err = LoadConfigFrom()
	require.ErrorContains(t, err, "KEYCLOAK_CLIENT_ID")
}
