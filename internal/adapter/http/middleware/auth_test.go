package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/adapter/token"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeParser struct {
	sessions map[string]token.Session
	err      error
}

func (f *fakeParser) Parse(_ context.Context, tokenString string) (token.Session, error) {
	if f.err != nil {
		return token.Session{}, f.err
	}
	s, ok := f.sessions[tokenString]
	if !ok {
		return token.Session{}, fmt.Errorf("%w: token is invalid", domain.ErrUnauthenticated)
	}
	return s, nil
}

type fakeResolver struct {
	err error
}

func (f *fakeResolver) ResolvePrincipal(_ context.Context, kind domain.PrincipalKind, id int64) (domain.Principal, error) {
	if f.err != nil {
		return domain.Principal{}, f.err
	}
	return domain.Principal{Kind: kind, ID: id, Username: "alice"}, nil
}

func newTestAuthenticator(parserErr, resolverErr error) *Authenticator {
	parser := &fakeParser{
		sessions: map[string]token.Session{"good": {Kind: domain.PrincipalUser, ID: 7, TokenID: "jti-1"}},
		err:      parserErr,
	}
	return NewAuthenticator(parser, &fakeResolver{err: resolverErr}, logger.NewNopLogger())
}

func principalEcho(t *testing.T, called *bool, want bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		p, ok := PrincipalFromContext(r.Context())
		assert.Equal(t, want, ok)
		if want {
			assert.Equal(t, int64(7), p.ID)
			s, ok := SessionFromContext(r.Context())
			require.True(t, ok)
			assert.Equal(t, "jti-1", s.TokenID)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRequired(t *testing.T) {
	testCases := []struct {
		name        string
		header      string
		parserErr   error
		resolverErr error
		wantStatus  int
	}{
		{"valid token", "Bearer good", nil, nil, http.StatusNoContent},
		{"lowercase scheme", "bearer good", nil, nil, http.StatusNoContent},
		{"missing header", "", nil, nil, http.StatusUnauthorized},
		{"wrong scheme", "Basic good", nil, nil, http.StatusUnauthorized},
		{"unknown token", "Bearer bad", nil, nil, http.StatusUnauthorized},
		{"account gone", "Bearer good", nil, fmt.Errorf("%w: account no longer exists", domain.ErrUnauthenticated), http.StatusUnauthorized},
		{"store down", "Bearer good", fmt.Errorf("%w: %w", token.ErrRevocationLookup, errors.New("dial tcp")), nil, http.StatusInternalServerError},
		{"database down", "Bearer good", nil, domain.ErrRepository, http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			h := newTestAuthenticator(tc.parserErr, tc.resolverErr).Required(principalEcho(t, &called, true))

			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantStatus == http.StatusNoContent, called)
			if tc.wantStatus != http.StatusNoContent {
				assert.Contains(t, rec.Body.String(), `"error"`)
			}
		})
	}
}

func TestOptional(t *testing.T) {
	t.Run("anonymous passes through", func(t *testing.T) {
		called := false
		h := newTestAuthenticator(nil, nil).Optional(principalEcho(t, &called, false))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/listings/1", nil))
		assert.True(t, called)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("invalid token is ignored", func(t *testing.T) {
		called := false
		h := newTestAuthenticator(nil, nil).Optional(principalEcho(t, &called, false))
		req := httptest.NewRequest(http.MethodGet, "/api/listings/1", nil)
		req.Header.Set("Authorization", "Bearer bad")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.True(t, called)
	})

	t.Run("valid token attaches principal", func(t *testing.T) {
		called := false
		h := newTestAuthenticator(nil, nil).Optional(principalEcho(t, &called, true))
		req := httptest.NewRequest(http.MethodGet, "/api/listings/1", nil)
		req.Header.Set("Authorization", "Bearer good")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.True(t, called)
	})
}
