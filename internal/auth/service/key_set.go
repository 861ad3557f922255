// Package service verifies bearer tokens against the identity provider's
// published signing keys.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	authDomain "github.com/allisson/useradmin/internal/auth/domain"
	apperrors "github.com/allisson/useradmin/internal/errors"
)

// DefaultMinRefreshInterval throttles refetches triggered by unknown key ids.
const DefaultMinRefreshInterval = time.Minute

// KeySet caches the JWKS document of the identity provider. Keys are fetched
// lazily and refreshed when a token names a key id not seen yet.
type KeySet struct {
	url                string
	client             *http.Client
	logger             *slog.Logger
	minRefreshInterval time.Duration
	group              singleflight.Group

	mu        sync.RWMutex
	keys      map[string]any
	lastFetch time.Time
}

// NewKeySet creates a KeySet reading from url.
func NewKeySet(url string, client *http.Client, logger *slog.Logger) *KeySet {
	if client == nil {
		client = http.DefaultClient
	}
	return &KeySet{
		url:                url,
		client:             client,
		logger:             logger,
		minRefreshInterval: DefaultMinRefreshInterval,
		keys:               make(map[string]any),
	}
}

// Keyfunc returns a jwt.Keyfunc resolving the token's kid within ctx.
func (k *KeySet) Keyfunc(ctx context.Context) jwt.Keyfunc {
	return func(token *jwt.Token) (any, error) {
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, apperrors.Wrap(authDomain.ErrInvalidToken, "missing kid header")
		}
		return k.Key(ctx, kid)
	}
}

// Key returns the public key with the given id, fetching the key set when the
// id is unknown and the last fetch is old enough.
func (k *KeySet) Key(ctx context.Context, kid string) (any, error) {
	k.mu.RLock()
	key, ok := k.keys[kid]
	stale := time.Since(k.lastFetch) >= k.minRefreshInterval
	k.mu.RUnlock()
	if ok {
		return key, nil
	}
	if !stale {
		return nil, authDomain.ErrUnknownKey
	}

	if err := k.Refresh(ctx); err != nil {
		return nil, err
	}

	k.mu.RLock()
	defer k.mu.RUnlock()
	if key, ok := k.keys[kid]; ok {
		return key, nil
	}
	return nil, authDomain.ErrUnknownKey
}

// Refresh fetches the key set. Concurrent callers share a single request.
func (k *KeySet) Refresh(ctx context.Context) error {
	_, err, _ := k.group.Do("refresh", func() (any, error) {
		keys, err := k.fetch(ctx)
		if err != nil {
			return nil, err
		}

		k.mu.Lock()
		k.keys = keys
		k.lastFetch = time.Now()
		k.mu.Unlock()

		k.logger.Debug("signing keys refreshed", slog.Int("keys", len(keys)))
		return nil, nil
	})
	return err
}

func (k *KeySet) fetch(ctx context.Context) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.url, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build jwks request")
	}

	resp, err := k.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to fetch jwks")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("failed to fetch jwks: unexpected status %d", resp.StatusCode)
	}

	var set jose.JSONWebKeySet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode jwks")
	}

	keys := make(map[string]any, len(set.Keys))
	for _, jwk := range set.Keys {
		if jwk.KeyID == "" || !jwk.IsPublic() || (jwk.Use != "" && jwk.Use != "sig") {
			continue
		}
		keys[jwk.KeyID] = jwk.Key
	}
	return keys, nil
}
