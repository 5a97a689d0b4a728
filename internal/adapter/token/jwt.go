package token

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const issuer = "helping-hand"

// ErrRevocationLookup means the revocation store could not be queried.
var ErrRevocationLookup = errors.New("revocation lookup failed")

// Claims carries the principal behind a session token.
// Subject holds the account id and ID the revocable token id.
type Claims struct {
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

// Session is a verified token.
type Session struct {
	Kind      domain.PrincipalKind
	ID        int64
	TokenID   string
	ExpiresAt time.Time
}

// Manager issues HS256 session tokens and checks them against a revocation store.
type Manager struct {
	secret []byte
	ttl    time.Duration
	store  RevocationStore
	now    func() time.Time
	logger *logger.Logger
}

func NewManager(secret string, ttl time.Duration, store RevocationStore, log *logger.Logger) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		store:  store,
		now:    time.Now,
		logger: log.Named("TokenManager"),
	}
}

// Issue signs a new token for p.
func (m *Manager) Issue(p domain.Principal) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := Claims{
		Kind: string(p.Kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(p.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies signature, expiry and revocation. Every failure wraps
// domain.ErrUnauthenticated.
func (m *Manager) Parse(ctx context.Context, tokenString string) (Session, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Session{}, fmt.Errorf("%w: token has expired", domain.ErrUnauthenticated)
		}
		return Session{}, fmt.Errorf("%w: token is invalid", domain.ErrUnauthenticated)
	}

	kind := domain.PrincipalKind(claims.Kind)
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || !kind.Valid() || claims.ID == "" {
		return Session{}, fmt.Errorf("%w: token claims are incomplete", domain.ErrUnauthenticated)
	}

	revoked, err := m.store.IsRevoked(ctx, claims.ID)
	if err != nil {
		m.logger.Error("Revocation lookup failed", zap.Error(err))
		return Session{}, fmt.Errorf("%w: %w", ErrRevocationLookup, err)
	}
	if revoked {
		return Session{}, fmt.Errorf("%w: token has been revoked", domain.ErrUnauthenticated)
	}

	return Session{Kind: kind, ID: id, TokenID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Revoke invalidates the session until its natural expiry.
func (m *Manager) Revoke(ctx context.Context, s Session) error {
	ttl := s.ExpiresAt.Sub(m.now())
	if ttl <= 0 {
		return nil
	}
	if err := m.store.Revoke(ctx, s.TokenID, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	m.logger.Info("Token revoked", zap.String("kind", string(s.Kind)), zap.Int64("id", s.ID))
	return nil
}
