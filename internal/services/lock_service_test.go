package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestLockService(t *testing.T, clock Clock) (*LockService, *memorySettingsRepo) {
	t.Helper()
	repo := newMemorySettingsRepo()
	service, err := NewLockService(repo, []byte(testSecret), time.Hour, clock)
	require.NoError(t, err)
	return service, repo
}

func TestLockServiceOpenWithoutPIN(t *testing.T) {
	service, _ := newTestLockService(t, nil)

	enabled, err := service.Enabled()
	require.NoError(t, err)
	assert.False(t, enabled)
	assert.NoError(t, service.ValidateSession(""))

	_, _, err = service.Unlock("1234")
	assert.ErrorIs(t, err, ErrLockNotEnabled)
}

func TestLockServiceUnlockFlow(t *testing.T) {
	service, repo := newTestLockService(t, nil)
	require.NoError(t, service.SetPIN("2468"))
	assert.True(t, repo.settings.Locked())
	assert.NotEqual(t, "2468", repo.settings.PinHash)

	assert.ErrorIs(t, service.ValidateSession(""), ErrSessionInvalid)

	_, _, err := service.Unlock("0000")
	assert.ErrorIs(t, err, ErrInvalidPIN)

	token, expiresAt, err := service.Unlock("2468")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)
	assert.NoError(t, service.ValidateSession(token))
	assert.ErrorIs(t, service.ValidateSession(token+"x"), ErrSessionInvalid)

	require.NoError(t, service.SetPIN("13579"))
	assert.ErrorIs(t, service.ValidateSession(token), ErrSessionInvalid)

	require.NoError(t, service.ClearPIN())
	assert.NoError(t, service.ValidateSession(token))
}

func TestLockServiceSessionExpires(t *testing.T) {
	now := time.Date(2025, 3, 5, 8, 0, 0, 0, time.UTC)
	service, _ := newTestLockService(t, func() time.Time { return now })
	require.NoError(t, service.SetPIN("1234"))

	token, _, err := service.Unlock("1234")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	assert.ErrorIs(t, service.ValidateSession(token), ErrSessionExpired)
}

func TestLockServiceRejectsWeakPIN(t *testing.T) {
	service, repo := newTestLockService(t, nil)

	for _, pin := range []string{"", "123", "123456789", "12a4"} {
		assert.ErrorIs(t, service.SetPIN(pin), ErrWeakPIN, pin)
	}
	assert.Zero(t, repo.saves)
}

func TestLockServiceResetPIN(t *testing.T) {
	service, _ := newTestLockService(t, nil)
	require.NoError(t, service.SetPIN("1234"))

	pin, err := service.ResetPIN()
	require.NoError(t, err)
	require.NoError(t, ValidatePIN(pin))
	assert.Len(t, pin, resetPINLength)

	_, _, err = service.Unlock(pin)
	assert.NoError(t, err)
}

func TestNewLockServiceRequiresSecret(t *testing.T) {
	_, err := NewLockService(newMemorySettingsRepo(), nil, time.Hour, nil)
	assert.Error(t, err)
}
