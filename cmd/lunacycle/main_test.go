package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/terraincognita07/lunacycle/internal/config"
	"github.com/terraincognita07/lunacycle/internal/vault"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Port:            8080,
		Timezone:        "UTC",
		DBPath:          filepath.Join(dir, "luna.db"),
		SecretKey:       "0123456789abcdef0123456789abcdef",
		DefaultLanguage: "en",
		AI:              config.AIConfig{Provider: config.AIProviderNone},
		Tokens:          config.TokenConfig{ShareTTL: time.Hour, SessionTTL: time.Hour},
		Vault:           config.VaultConfig{FilePath: filepath.Join(dir, "vault.json"), AutosaveDelay: time.Hour},
		Reminder:        config.ReminderConfig{Interval: time.Hour},
	}
}

func TestRunCommand(t *testing.T) {
	cfg := testConfig(t)

	handled, err := runCommand(cfg, nil)
	assert.False(t, handled)
	assert.NoError(t, err)

	handled, err = runCommand(cfg, []string{"serve"})
	assert.False(t, handled)
	assert.NoError(t, err)

	handled, err = runCommand(cfg, []string{"migrate"})
	assert.True(t, handled)
	assert.Error(t, err)
}

func TestListenAddress(t *testing.T) {
	assert.Equal(t, ":3000", listenAddress(3000))
	assert.Equal(t, ":8080", listenAddress(0))
	assert.Equal(t, ":8080", listenAddress(70000))
}

func TestLoadLocationFallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, loadLocation("", zap.NewNop()))
	assert.Equal(t, time.UTC, loadLocation("Mars/Olympus", zap.NewNop()))
	assert.Equal(t, "Europe/Berlin", loadLocation("Europe/Berlin", zap.NewNop()).String())
}

func TestBuildApplicationServesAndMirrorsVault(t *testing.T) {
	cfg := testConfig(t)

	application, err := buildApplication(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, application.autosaver)

	response, err := application.app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, response.StatusCode)

	request := httptest.NewRequest(http.MethodPut, "/api/days/2025-03-01", bytes.NewBufferString(`{"period":true}`))
	request.Header.Set("Content-Type", "application/json")
	response, err = application.app.Test(request, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, response.StatusCode)

	// Close flushes the debounced write scheduled by the save above.
	application.Close()

	document, found, err := vault.NewFileStore(cfg.Vault.FilePath).Read()
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, document.Logs, 1)
	assert.Equal(t, "2025-03-01", document.Logs[0].Date)
}
