package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/useradmin/internal/auth/domain"
	"github.com/allisson/useradmin/internal/keycloak"
)

// FakeKeycloak is an in-memory Keycloak serving the admin API subset used by
// the keycloak client, the client credentials token endpoint and the realm
// JWKS document. Every realm group in Groups exists; users live in memory.
type FakeKeycloak struct {
	Server   *httptest.Server
	Realm    string
	Audience string

	key *rsa.PrivateKey
	kid string

	mu      sync.Mutex
	users   map[string]keycloak.UserRepresentation
	members map[string]map[string]bool
	groups  []keycloak.GroupRepresentation
}

// NewFakeKeycloak starts a fake for realm with the administrators and
// operators groups. The server is closed when t finishes.
func NewFakeKeycloak(t *testing.T, realm string) *FakeKeycloak {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	f := &FakeKeycloak{
		Realm:    realm,
		Audience: "server",
		key:      key,
		kid:      "fake-key",
		users:    make(map[string]keycloak.UserRepresentation),
		members:  make(map[string]map[string]bool),
		groups: []keycloak.GroupRepresentation{
			{ID: uuid.NewString(), Name: "administrators", Path: "/administrators"},
			{ID: uuid.NewString(), Name: "operators", Path: "/operators"},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /realms/master/protocol/openid-connect/token", f.handleToken)
	mux.HandleFunc("GET /realms/{realm}/protocol/openid-connect/certs", f.handleCerts)
	mux.HandleFunc("POST /admin/realms/{realm}/users", f.handleCreateUser)
	mux.HandleFunc("PUT /admin/realms/{realm}/users/{id}", f.handleUpdateUser)
	mux.HandleFunc("DELETE /admin/realms/{realm}/users/{id}", f.handleDeleteUser)
	mux.HandleFunc("GET /admin/realms/{realm}/users/{id}/groups", f.handleUserGroups)
	mux.HandleFunc("PUT /admin/realms/{realm}/users/{id}/groups/{group}", f.handleJoinGroup)
	mux.HandleFunc("DELETE /admin/realms/{realm}/users/{id}/groups/{group}", f.handleLeaveGroup)
	mux.HandleFunc("GET /admin/realms/{realm}/groups", f.handleGroups)

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the base URL, with a trailing slash.
func (f *FakeKeycloak) URL() string {
	return f.Server.URL + "/"
}

// TokenURL returns the client credentials endpoint of the master realm.
func (f *FakeKeycloak) TokenURL() string {
	return f.Server.URL + "/realms/master/protocol/openid-connect/token"
}

// Issuer returns the issuer of tokens minted by IssueToken.
func (f *FakeKeycloak) Issuer() string {
	return f.Server.URL + "/realms/" + f.Realm
}

// IssueToken signs an access token for username holding the given realm roles.
func (f *FakeKeycloak) IssueToken(t *testing.T, username string, roles ...string) string {
	t.Helper()

	now := time.Now()
	claims := &authDomain.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    f.Issuer(),
			Subject:   uuid.NewString(),
			Audience:  jwt.ClaimStrings{f.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(5 * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		PreferredUsername: username,
		RealmAccess:       authDomain.RealmAccess{Roles: roles},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = f.kid
	signed, err := token.SignedString(f.key)
	require.NoError(t, err)
	return signed
}

// User returns the stored representation of id.
func (f *FakeKeycloak) User(id string) (keycloak.UserRepresentation, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	return u, ok
}

// GroupNames returns the names of the groups id belongs to.
func (f *FakeKeycloak) GroupNames(id string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var names []string
	for _, g := range f.groups {
		if f.members[id][g.ID] {
			names = append(names, g.Name)
		}
	}
	return names
}

func (f *FakeKeycloak) handleToken(w http.ResponseWriter, r *http.Request) {
	writeFakeJSON(w, http.StatusOK, map[string]any{
		"access_token": "fake-admin-token",
		"token_type":   "Bearer",
		"expires_in":   300,
	})
}

func (f *FakeKeycloak) handleCerts(w http.ResponseWriter, r *http.Request) {
	writeFakeJSON(w, http.StatusOK, jose.JSONWebKeySet{Keys: []jose.JSONWebKey{
		{Key: &f.key.PublicKey, KeyID: f.kid, Algorithm: "RS256", Use: "sig"},
	}})
}

func (f *FakeKeycloak) authorized(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("Authorization") != "Bearer fake-admin-token" {
		w.WriteHeader(http.StatusUnauthorized)
		return false
	}
	return true
}

func (f *FakeKeycloak) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}
	var user keycloak.UserRepresentation
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if strings.EqualFold(existing.Username, user.Username) {
			writeFakeJSON(w, http.StatusConflict, map[string]string{"errorMessage": "User exists with same username"})
			return
		}
	}

	user.ID = uuid.NewString()
	f.users[user.ID] = user
	f.members[user.ID] = make(map[string]bool)
	for _, name := range user.Groups {
		if g, ok := keycloak.FindGroupByName(f.groups, name); ok {
			f.members[user.ID][g.ID] = true
		}
	}

	w.Header().Set("Location", f.Server.URL+r.URL.Path+"/"+user.ID)
	w.WriteHeader(http.StatusCreated)
}

func (f *FakeKeycloak) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}
	var patch keycloak.UserRepresentation
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[r.PathValue("id")]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if patch.Username != "" {
		user.Username = patch.Username
	}
	if patch.FirstName != "" {
		user.FirstName = patch.FirstName
	}
	if patch.LastName != "" {
		user.LastName = patch.LastName
	}
	if patch.Email != "" {
		user.Email = patch.Email
	}
	if len(patch.Credentials) > 0 {
		user.Credentials = patch.Credentials
	}
	f.users[user.ID] = user
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeKeycloak) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id := r.PathValue("id")
	if _, ok := f.users[id]; !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	delete(f.users, id)
	delete(f.members, id)
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeKeycloak) handleUserGroups(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id := r.PathValue("id")
	if _, ok := f.users[id]; !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	groups := []keycloak.GroupRepresentation{}
	for _, g := range f.groups {
		if f.members[id][g.ID] {
			groups = append(groups, g)
		}
	}
	writeFakeJSON(w, http.StatusOK, groups)
}

func (f *FakeKeycloak) handleJoinGroup(w http.ResponseWriter, r *http.Request) {
	f.setMembership(w, r, true)
}

func (f *FakeKeycloak) handleLeaveGroup(w http.ResponseWriter, r *http.Request) {
	f.setMembership(w, r, false)
}

func (f *FakeKeycloak) setMembership(w http.ResponseWriter, r *http.Request, member bool) {
	if !f.authorized(w, r) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id := r.PathValue("id")
	if _, ok := f.users[id]; !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if member {
		f.members[id][r.PathValue("group")] = true
	} else {
		delete(f.members[id], r.PathValue("group"))
	}
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeKeycloak) handleGroups(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}
	search := r.URL.Query().Get("search")
	groups := []keycloak.GroupRepresentation{}
	for _, g := range f.groups {
		if search == "" || strings.Contains(g.Name, search) {
			groups = append(groups, g)
		}
	}
	writeFakeJSON(w, http.StatusOK, groups)
}

func writeFakeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
