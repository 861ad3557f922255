// Package keycloak is a small client for the Keycloak admin REST API. It
// authenticates with the client credentials grant and retries transient failures.
package keycloak

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/allisson/useradmin/internal/metrics"
)

// Config holds the admin client settings.
type Config struct {
	// AuthServerURL is the Keycloak base URL, e.g. http://localhost:8080/.
	AuthServerURL string
	// TokenURL is the client credentials token endpoint.
	TokenURL string
	// Realm is the realm the admin client belongs to.
	Realm string
	// DestinationRealm is the realm whose users are managed.
	DestinationRealm string
	ClientID         string
	ClientSecret     string
	Timeout          time.Duration
	RetryMax         int
}

// APIError is returned for any non-2xx admin API response.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("keycloak %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Client calls the admin API of a single destination realm.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	realm      string
	logger     *slog.Logger
	metrics    metrics.BusinessMetrics
}

// NewClient creates a Client. The token is fetched lazily and cached until it expires.
func NewClient(cfg Config, logger *slog.Logger, businessMetrics metrics.BusinessMetrics) (*Client, error) {
	baseURL, err := url.Parse(cfg.AuthServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid keycloak auth server url: %w", err)
	}
	if !strings.HasSuffix(baseURL.Path, "/") {
		baseURL.Path += "/"
	}
	if cfg.DestinationRealm == "" {
		return nil, fmt.Errorf("keycloak destination realm is required")
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryMax
	retryClient.RetryWaitMin = 100 * time.Millisecond
	retryClient.RetryWaitMax = 2 * time.Second
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.Logger = logger
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	credentials := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, retryClient.StandardClient())

	return &Client{
		httpClient: credentials.Client(tokenCtx),
		baseURL:    baseURL,
		realm:      cfg.DestinationRealm,
		logger:     logger,
		metrics:    businessMetrics,
	}, nil
}

// CreateUser creates a user and returns the Location header of the response.
func (c *Client) CreateUser(ctx context.Context, user UserRepresentation) (string, error) {
	resp, err := c.do(ctx, "create_user", http.MethodPost, c.adminPath("users"), user)
	if err != nil {
		return "", err
	}
	defer drain(resp)
	return resp.Header.Get("Location"), nil
}

// UpdateUser replaces the given fields of a user.
func (c *Client) UpdateUser(ctx context.Context, userID string, user UserRepresentation) error {
	return c.exec(ctx, "update_user", http.MethodPut, c.adminPath("users", userID), user)
}

// DeleteUser removes a user.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	return c.exec(ctx, "delete_user", http.MethodDelete, c.adminPath("users", userID), nil)
}

// GetUserGroups lists the groups a user belongs to.
func (c *Client) GetUserGroups(ctx context.Context, userID string) ([]GroupRepresentation, error) {
	var groups []GroupRepresentation
	err := c.getJSON(ctx, "get_user_groups", c.adminPath("users", userID, "groups"), nil, &groups)
	return groups, err
}

// GetGroups searches the realm groups by name.
func (c *Client) GetGroups(ctx context.Context, search string) ([]GroupRepresentation, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}
	var groups []GroupRepresentation
	err := c.getJSON(ctx, "get_groups", c.adminPath("groups"), query, &groups)
	return groups, err
}

// JoinGroup adds a user to a group.
func (c *Client) JoinGroup(ctx context.Context, userID, groupID string) error {
	return c.exec(ctx, "join_group", http.MethodPut, c.adminPath("users", userID, "groups", groupID), nil)
}

// LeaveGroup removes a user from a group.
func (c *Client) LeaveGroup(ctx context.Context, userID, groupID string) error {
	return c.exec(ctx, "leave_group", http.MethodDelete, c.adminPath("users", userID, "groups", groupID), nil)
}

// UserIDFromLocation extracts the last path segment of a Location header.
func UserIDFromLocation(location string) string {
	if location == "" {
		return ""
	}
	if u, err := url.Parse(location); err == nil {
		location = u.Path
	}
	location = strings.TrimRight(location, "/")
	if i := strings.LastIndex(location, "/"); i >= 0 {
		return location[i+1:]
	}
	return location
}

func (c *Client) adminPath(segments ...string) string {
	escaped := make([]string, 0, len(segments)+3)
	escaped = append(escaped, "admin", "realms", url.PathEscape(c.realm))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	return strings.Join(escaped, "/")
}

func (c *Client) exec(ctx context.Context, op, method, path string, body any) error {
	resp, err := c.do(ctx, op, method, path, body)
	if err != nil {
		return err
	}
	drain(resp)
	return nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, query url.Values, out any) error {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	resp, err := c.do(ctx, op, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer drain(resp)

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode keycloak response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body any) (*http.Response, error) {
	endpoint, err := c.baseURL.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid keycloak path %s: %w", path, err)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode keycloak request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build keycloak request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.metrics.RecordExternalCall(ctx, "keycloak", op, duration, "error")
		return nil, fmt.Errorf("keycloak %s %s: %w", method, endpoint.Path, err)
	}
	c.metrics.RecordExternalCall(ctx, "keycloak", op, duration, strconv.Itoa(resp.StatusCode))

	c.logger.Debug("keycloak request",
		slog.String("operation", op),
		slog.String("path", endpoint.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", duration),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer drain(resp)
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       endpoint.Path,
			Body:       strings.TrimSpace(string(raw)),
		}
	}
	return resp, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
