package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockFlow(t *testing.T) {
	ta := newTestApp(t)

	response := ta.do(t, http.MethodPost, "/api/unlock", map[string]string{"pin": "1234"})
	assert.Equal(t, http.StatusConflict, response.StatusCode)

	response = ta.do(t, http.MethodPut, "/api/settings/lock", map[string]string{"pin": "1234"})
	require.Equal(t, http.StatusOK, response.StatusCode)
	ownerSession := responseCookie(response, sessionCookieName)
	require.NotNil(t, ownerSession)
	assert.True(t, ownerSession.HttpOnly)

	response = ta.do(t, http.MethodGet, "/api/overview", nil)
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)

	response = ta.do(t, http.MethodGet, "/api/overview", nil, ownerSession)
	assert.Equal(t, http.StatusOK, response.StatusCode)

	response = ta.do(t, http.MethodPost, "/api/unlock", map[string]string{"pin": "9999"})
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)

	response = ta.do(t, http.MethodPost, "/api/unlock", map[string]string{"pin": "1234"})
	require.Equal(t, http.StatusOK, response.StatusCode)
	session := responseCookie(response, sessionCookieName)
	require.NotNil(t, session)

	response = ta.do(t, http.MethodGet, "/api/settings", nil, session)
	require.Equal(t, http.StatusOK, response.StatusCode)
	settings := settingsResponse{}
	decodeJSON(t, response, &settings)
	assert.True(t, settings.Locked)

	response = ta.do(t, http.MethodPut, "/api/settings/lock", map[string]string{"pin": ""}, session)
	require.Equal(t, http.StatusOK, response.StatusCode)

	response = ta.do(t, http.MethodGet, "/api/overview", nil)
	assert.Equal(t, http.StatusOK, response.StatusCode)
}

func TestLockRejectsNonNumericPIN(t *testing.T) {
	ta := newTestApp(t)

	response := ta.do(t, http.MethodPut, "/api/settings/lock", map[string]string{"pin": "abcd"})
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
	assert.Equal(t, "validation failed", readAPIError(t, response))
}

func TestUnlockIsRateLimited(t *testing.T) {
	ta := newTestApp(t)
	response := ta.do(t, http.MethodPut, "/api/settings/lock", map[string]string{"pin": "1234"})
	require.Equal(t, http.StatusOK, response.StatusCode)

	for attempt := 0; attempt < unlockAttemptLimit; attempt++ {
		response = ta.do(t, http.MethodPost, "/api/unlock", map[string]string{"pin": "0000"})
		require.Equal(t, http.StatusUnauthorized, response.StatusCode)
	}

	response = ta.do(t, http.MethodPost, "/api/unlock", map[string]string{"pin": "1234"})
	assert.Equal(t, http.StatusTooManyRequests, response.StatusCode)
}

func TestSettingsEndpoints(t *testing.T) {
	ta := newTestApp(t)

	response := ta.do(t, http.MethodPut, "/api/settings", map[string]any{
		"averageCycleLength":   30,
		"averagePeriodLength":  4,
		"notificationsEnabled": true,
	})
	require.Equal(t, http.StatusOK, response.StatusCode)
	settings := settingsResponse{}
	decodeJSON(t, response, &settings)
	assert.Equal(t, settingsResponse{AverageCycleLength: 30, AveragePeriodLength: 4, NotificationsEnabled: true}, settings)

	response = ta.do(t, http.MethodPut, "/api/settings", map[string]any{"averageCycleLength": 5, "averagePeriodLength": 4})
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
}
