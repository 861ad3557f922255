package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/useradmin/internal/auth/domain"
	apperrors "github.com/allisson/useradmin/internal/errors"
)

const (
	testIssuer   = "http://localhost:8080/realms/templates-aspire-react"
	testAudience = "server"
)

// fakeIdentityProvider serves a JWKS document and signs tokens with its key.
type fakeIdentityProvider struct {
	key    *rsa.PrivateKey
	kid    string
	server *httptest.Server
	hits   atomic.Int32
}

func newFakeIdentityProvider(t *testing.T) *fakeIdentityProvider {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	idp := &fakeIdentityProvider{key: key, kid: "key-1"}
	idp.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idp.hits.Add(1)
		set := jose.JSONWebKeySet{Keys: []jose.JSONWebKey{
			{Key: &idp.key.PublicKey, KeyID: idp.kid, Algorithm: "RS256", Use: "sig"},
		}}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(set)
	}))
	t.Cleanup(idp.server.Close)
	return idp
}

func (f *fakeIdentityProvider) sign(t *testing.T, claims *authDomain.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = f.kid
	signed, err := token.SignedString(f.key)
	require.NoError(t, err)
	return signed
}

func validClaims() *authDomain.Claims {
	now := time.Now()
	return &authDomain.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   "2f1c0d7e-0000-4000-8000-000000000001",
			Audience:  jwt.ClaimStrings{testAudience, "account"},
			ExpiresAt: jwt.NewNumericDate(now.Add(5 * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		PreferredUsername: "admin",
		RealmAccess:       authDomain.RealmAccess{Roles: []string{"administrator", "offline_access"}},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTokenValidator_Validate(t *testing.T) {
	ctx := context.Background()
	idp := newFakeIdentityProvider(t)

	newValidator := func() TokenValidator {
		keys := NewKeySet(idp.server.URL, idp.server.Client(), discardLogger())
		return NewTokenValidator(keys, []string{"https://other.example.com/realms/x", testIssuer}, testAudience)
	}

	t.Run("Success", func(t *testing.T) {
		claims, err := newValidator().Validate(ctx, idp.sign(t, validClaims()))

		require.NoError(t, err)
		assert.Equal(t, "admin", claims.PreferredUsername)
		assert.True(t, claims.HasRealmRole("administrator"))
		assert.False(t, claims.HasRealmRole("operator"))
	})

	t.Run("Error_Expired", func(t *testing.T) {
		claims := validClaims()
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

		_, err := newValidator().Validate(ctx, idp.sign(t, claims))

		assert.ErrorIs(t, err, authDomain.ErrInvalidToken)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("Error_MissingExpiry", func(t *testing.T) {
		claims := validClaims()
		claims.ExpiresAt = nil

		_, err := newValidator().Validate(ctx, idp.sign(t, claims))

		assert.ErrorIs(t, err, authDomain.ErrInvalidToken)
	})

	t.Run("Error_WrongAudience", func(t *testing.T) {
		claims := validClaims()
		claims.Audience = jwt.ClaimStrings{"account"}

		_, err := newValidator().Validate(ctx, idp.sign(t, claims))

		assert.ErrorIs(t, err, authDomain.ErrInvalidToken)
	})

	t.Run("Error_UnknownIssuer", func(t *testing.T) {
		claims := validClaims()
		claims.Issuer = "https://evil.example.com/realms/x"

		_, err := newValidator().Validate(ctx, idp.sign(t, claims))

		require.ErrorIs(t, err, authDomain.ErrInvalidToken)
		assert.Contains(t, err.Error(), "evil.example.com")
	})

	t.Run("Error_SignedByAnotherKey", func(t *testing.T) {
		other, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		token := jwt.NewWithClaims(jwt.SigningMethodRS256, validClaims())
		token.Header["kid"] = idp.kid
		signed, err := token.SignedString(other)
		require.NoError(t, err)

		_, err = newValidator().Validate(ctx, signed)

		assert.ErrorIs(t, err, authDomain.ErrInvalidToken)
	})

	t.Run("Error_HMACRejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims())
		token.Header["kid"] = idp.kid
		signed, err := token.SignedString([]byte("shared-secret"))
		require.NoError(t, err)

		_, err = newValidator().Validate(ctx, signed)

		assert.ErrorIs(t, err, authDomain.ErrInvalidToken)
	})

	t.Run("Error_Garbage", func(t *testing.T) {
		_, err := newValidator().Validate(ctx, "not.a.jwt")

		assert.ErrorIs(t, err, authDomain.ErrInvalidToken)
	})
}

func TestKeySet_Key(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_CachesKeys", func(t *testing.T) {
		idp := newFakeIdentityProvider(t)
		keys := NewKeySet(idp.server.URL, idp.server.Client(), discardLogger())

		for range 3 {
			key, err := keys.Key(ctx, idp.kid)
			require.NoError(t, err)
			assert.Equal(t, &idp.key.PublicKey, key)
		}
		assert.Equal(t, int32(1), idp.hits.Load())
	})

	t.Run("Error_UnknownKidThrottlesRefetch", func(t *testing.T) {
		idp := newFakeIdentityProvider(t)
		keys := NewKeySet(idp.server.URL, idp.server.Client(), discardLogger())

		_, err := keys.Key(ctx, "rotated-away")
		assert.ErrorIs(t, err, authDomain.ErrUnknownKey)
		_, err = keys.Key(ctx, "rotated-away")
		assert.ErrorIs(t, err, authDomain.ErrUnknownKey)

		assert.Equal(t, int32(1), idp.hits.Load())
	})

	t.Run("Success_RefetchesAfterInterval", func(t *testing.T) {
		idp := newFakeIdentityProvider(t)
		keys := NewKeySet(idp.server.URL, idp.server.Client(), discardLogger())
		keys.minRefreshInterval = 0

		_, err := keys.Key(ctx, "rotated-away")
		assert.ErrorIs(t, err, authDomain.ErrUnknownKey)
		_, err = keys.Key(ctx, "rotated-away")
		assert.ErrorIs(t, err, authDomain.ErrUnknownKey)

		assert.Equal(t, int32(2), idp.hits.Load())
	})

	t.Run("Error_EndpointFails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()
		keys := NewKeySet(server.URL, server.Client(), discardLogger())

		_, err := keys.Key(ctx, "key-1")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status 503")
	})
}
