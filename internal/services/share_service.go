package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/terraincognita07/lunacycle/internal/cycle"
	"github.com/terraincognita07/lunacycle/internal/security"
)

const (
	shareKeyPurpose = "share"
	shareIssuer     = "lunacycle"

	defaultShareTTL = 7 * 24 * time.Hour
)

var (
	ErrShareTokenInvalid = errors.New("share token invalid")
	ErrShareTokenExpired = errors.New("share token expired")
)

// OverviewProvider yields today's overview.
type OverviewProvider interface {
	Overview(ctx context.Context) (Overview, error)
}

// PartnerSnapshot is the frozen view a partner receives through a share link.
type PartnerSnapshot struct {
	Phase         cycle.Phase `json:"phase"`
	DaysUntilNext int         `json:"daysUntilNext"`
	Symptoms      []string    `json:"symptoms"`
	AverageCycle  int         `json:"avgCycle"`
}

type ShareLink struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Snapshot  PartnerSnapshot `json:"snapshot"`
}

type shareClaims struct {
	Snapshot PartnerSnapshot `json:"snap"`
	jwt.RegisteredClaims
}

type ShareService struct {
	overview   OverviewProvider
	signingKey []byte
	ttl        time.Duration
	clock      Clock
}

func NewShareService(overview OverviewProvider, secretKey []byte, ttl time.Duration, clock Clock) (*ShareService, error) {
	signingKey, err := security.DeriveKey(secretKey, shareKeyPurpose, signingKeySize)
	if err != nil {
		return nil, fmt.Errorf("derive share key: %w", err)
	}
	if ttl <= 0 {
		ttl = defaultShareTTL
	}
	return &ShareService{
		overview:   overview,
		signingKey: signingKey,
		ttl:        ttl,
		clock:      clock,
	}, nil
}

// Create signs today's snapshot into a share token.
func (service *ShareService) Create(ctx context.Context) (ShareLink, error) {
	overview, err := service.overview.Overview(ctx)
	if err != nil {
		return ShareLink{}, err
	}

	snapshot := PartnerSnapshot{
		Phase:         overview.Phase,
		DaysUntilNext: overview.DaysUntilNext,
		Symptoms:      append([]string{}, overview.TodaySymptoms...),
		AverageCycle:  overview.AverageCycleLength,
	}

	now := service.clock.now()
	expiresAt := now.Add(service.ttl)
	claims := shareClaims{
		Snapshot: snapshot,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    shareIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(service.signingKey)
	if err != nil {
		return ShareLink{}, fmt.Errorf("sign share token: %w", err)
	}
	return ShareLink{Token: token, ExpiresAt: expiresAt, Snapshot: snapshot}, nil
}

func (service *ShareService) Resolve(rawToken string) (PartnerSnapshot, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return PartnerSnapshot{}, ErrShareTokenInvalid
	}

	claims := &shareClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return service.signingKey, nil
	}, jwt.WithIssuer(shareIssuer), jwt.WithExpirationRequired(), jwt.WithTimeFunc(service.clock.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return PartnerSnapshot{}, ErrShareTokenExpired
		}
		return PartnerSnapshot{}, ErrShareTokenInvalid
	}
	if !token.Valid {
		return PartnerSnapshot{}, ErrShareTokenInvalid
	}

	snapshot := claims.Snapshot
	if snapshot.Symptoms == nil {
		snapshot.Symptoms = []string{}
	}
	return snapshot, nil
}
