package services

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/terraincognita07/lunacycle/internal/models"
	"github.com/terraincognita07/lunacycle/internal/security"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPINLength      = 4
	maxPINLength      = 8
	resetPINLength    = 6
	sessionKeyPurpose = "session"
	signingKeySize    = 32

	defaultSessionTTL = 12 * time.Hour
)

var (
	ErrInvalidPIN       = errors.New("invalid pin")
	ErrWeakPIN          = errors.New("pin must be 4 to 8 digits")
	ErrLockNotEnabled   = errors.New("lock is not enabled")
	ErrSessionInvalid   = errors.New("session invalid")
	ErrSessionExpired   = errors.New("session expired")
	ErrLockUpdateFailed = errors.New("update lock failed")
)

type sessionClaims struct {
	PinVersion string `json:"pv"`
	jwt.RegisteredClaims
}

// LockService guards the journal behind an optional PIN.
type LockService struct {
	changeNotifier

	settings   SettingsRepository
	signingKey []byte
	ttl        time.Duration
	clock      Clock
}

func NewLockService(settings SettingsRepository, secretKey []byte, ttl time.Duration, clock Clock) (*LockService, error) {
	signingKey, err := security.DeriveKey(secretKey, sessionKeyPurpose, signingKeySize)
	if err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &LockService{
		settings:   settings,
		signingKey: signingKey,
		ttl:        ttl,
		clock:      clock,
	}, nil
}

func (service *LockService) Enabled() (bool, error) {
	settings, err := service.settings.Load()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrSettingsLoadFailed, err)
	}
	return settings.Locked(), nil
}

func ValidatePIN(pin string) error {
	if len(pin) < minPINLength || len(pin) > maxPINLength {
		return ErrWeakPIN
	}
	for _, symbol := range pin {
		if symbol < '0' || symbol > '9' {
			return ErrWeakPIN
		}
	}
	return nil
}

// SetPIN replaces the current PIN. Existing sessions stop validating because
// they are bound to the previous hash.
func (service *LockService) SetPIN(pin string) error {
	pin = strings.TrimSpace(pin)
	if err := ValidatePIN(pin); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("%w: hash pin: %v", ErrLockUpdateFailed, err)
	}
	return service.updateLock(models.LockMethodPIN, string(hash))
}

func (service *LockService) ClearPIN() error {
	return service.updateLock(models.LockMethodNone, "")
}

// ResetPIN installs a random temporary PIN and returns it.
func (service *LockService) ResetPIN() (string, error) {
	pin, err := security.RandomDigits(resetPINLength)
	if err != nil {
		return "", fmt.Errorf("%w: generate pin: %v", ErrLockUpdateFailed, err)
	}
	if err := service.SetPIN(pin); err != nil {
		return "", err
	}
	return pin, nil
}

// Unlock checks the PIN and issues a session token.
func (service *LockService) Unlock(pin string) (string, time.Time, error) {
	settings, err := service.settings.Load()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", ErrSettingsLoadFailed, err)
	}
	if !settings.Locked() {
		return "", time.Time{}, ErrLockNotEnabled
	}
	if bcrypt.CompareHashAndPassword([]byte(settings.PinHash), []byte(strings.TrimSpace(pin))) != nil {
		return "", time.Time{}, ErrInvalidPIN
	}

	now := service.clock.now()
	expiresAt := now.Add(service.ttl)
	claims := sessionClaims{
		PinVersion: pinVersion(settings.PinHash),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(service.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return token, expiresAt, nil
}

// ValidateSession accepts any request while no PIN is configured.
func (service *LockService) ValidateSession(rawToken string) error {
	settings, err := service.settings.Load()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSettingsLoadFailed, err)
	}
	if !settings.Locked() {
		return nil
	}

	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return ErrSessionInvalid
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return service.signingKey, nil
	}, jwt.WithTimeFunc(service.clock.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrSessionExpired
		}
		return ErrSessionInvalid
	}
	if !token.Valid || claims.PinVersion != pinVersion(settings.PinHash) {
		return ErrSessionInvalid
	}
	return nil
}

func (service *LockService) updateLock(method string, hash string) error {
	settings, err := service.settings.Load()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSettingsLoadFailed, err)
	}
	settings.LockMethod = method
	settings.PinHash = hash
	if err := service.settings.Save(&settings); err != nil {
		return fmt.Errorf("%w: %v", ErrLockUpdateFailed, err)
	}
	service.notifyChanged()
	return nil
}

func pinVersion(hash string) string {
	sum := sha256.Sum256([]byte(hash))
	return hex.EncodeToString(sum[:8])
}
