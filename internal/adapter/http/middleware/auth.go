package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/adapter/token"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/logger"
	"go.uber.org/zap"
)

var errNoToken = fmt.Errorf("%w: authorization token is not provided", domain.ErrUnauthenticated)

// TokenParser verifies a bearer token.
type TokenParser interface {
	Parse(ctx context.Context, tokenString string) (token.Session, error)
}

// PrincipalResolver loads the account behind a verified session.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, kind domain.PrincipalKind, id int64) (domain.Principal, error)
}

// Authenticator turns an Authorization header into a principal on the request context.
type Authenticator struct {
	tokens     TokenParser
	principals PrincipalResolver
	logger     *logger.Logger
}

func NewAuthenticator(tokens TokenParser, principals PrincipalResolver, log *logger.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, principals: principals, logger: log.Named("Authenticator")}
}

func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errNoToken
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", fmt.Errorf("%w: authorization token format is invalid, expected 'Bearer <token>'", domain.ErrUnauthenticated)
	}
	return parts[1], nil
}

func (a *Authenticator) authenticate(r *http.Request) (domain.Principal, token.Session, error) {
	tokenString, err := bearerToken(r)
	if err != nil {
		return domain.Principal{}, token.Session{}, err
	}
	session, err := a.tokens.Parse(r.Context(), tokenString)
	if err != nil {
		return domain.Principal{}, token.Session{}, err
	}
	principal, err := a.principals.ResolvePrincipal(r.Context(), session.Kind, session.ID)
	if err != nil {
		return domain.Principal{}, token.Session{}, err
	}
	return principal, session, nil
}

// Required rejects requests without a valid token with 401.
func (a *Authenticator) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, session, err := a.authenticate(r)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthenticated) {
				a.logger.Debug("Request not authenticated", zap.String("path", r.URL.Path), zap.Error(err))
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}
			a.logger.Error("Authentication lookup failed", zap.String("path", r.URL.Path), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal, session)))
	})
}

// Optional attaches the principal when a valid token is present and lets
// anonymous requests through otherwise.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, session, err := a.authenticate(r)
		if err != nil {
			if !errors.Is(err, errNoToken) {
				a.logger.Debug("Ignoring invalid token on public route", zap.String("path", r.URL.Path), zap.Error(err))
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal, session)))
	})
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
