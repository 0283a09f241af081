package csrfclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/sync/singleflight"
)

const (
	// HeaderName carries the token on mutating requests.
	HeaderName = "X-CSRF-Token"

	DefaultEndpoint = "/api/csrf-token"
	AdminEndpoint   = "/api/admin/csrf"

	// CacheTTL is an hour shorter than the server lifetime. The server renews
	// a token to its full lifetime on every issuance, so a cached token never
	// outlives the server's copy.
	CacheTTL = 23 * time.Hour

	maxResponseBytes = 4 << 10
)

type cachedToken struct {
	value     string
	expiresAt time.Time
}

// Client fetches CSRF tokens and keeps the most recent one in memory.
type Client struct {
	baseURL  *url.URL
	endpoint string
	http     *http.Client
	clock    clock.Clock
	coalesce bool
	group    singleflight.Group

	mu    sync.Mutex
	cache *cachedToken
}

// New returns a Client for the service at baseURL, e.g. "https://acme.example.com".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Join(ErrInvalidBaseURL, err)
	}

	c := &Client{
		baseURL:  u,
		endpoint: DefaultEndpoint,
		http:     &http.Client{Timeout: 10 * time.Second},
		clock:    clock.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GetToken returns the cached token while it is fresh and fetches a new one
// otherwise. A failed fetch leaves the cache untouched. The lock is not held
// during the request.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	if v, ok := c.cached(); ok {
		return v, nil
	}

	if !c.coalesce {
		return c.refresh(ctx)
	}

	ch := c.group.DoChan("token", func() (any, error) {
		if v, ok := c.cached(); ok {
			return v, nil
		}
		// detached so one caller's cancellation does not fail the others
		return c.refresh(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return "", errors.Join(ErrTokenIssuanceFailed, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// ClearToken drops the cached token. Call it on logout so the next session
// does not reuse a token bound to the previous one.
func (c *Client) ClearToken() {
	c.mu.Lock()
	c.cache = nil
	c.mu.Unlock()
}

// AttachToken returns req unchanged for GET requests. For any other method
// it returns a clone carrying the X-CSRF-Token header.
func (c *Client) AttachToken(req *http.Request) (*http.Request, error) {
	if req.Method == "" || req.Method == http.MethodGet {
		return req, nil
	}

	tok, err := c.GetToken(req.Context())
	if err != nil {
		return nil, err
	}

	out := req.Clone(req.Context())
	out.Header.Set(HeaderName, tok)
	return out, nil
}

func (c *Client) cached() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cache != nil && c.clock.Now().Before(c.cache.expiresAt) {
		return c.cache.value, true
	}
	return "", false
}

func (c *Client) refresh(ctx context.Context) (string, error) {
	tok, err := c.fetch(ctx)
	if err != nil {
		return "", errors.Join(ErrTokenIssuanceFailed, err)
	}

	c.mu.Lock()
	c.cache = &cachedToken{value: tok, expiresAt: c.clock.Now().Add(CacheTTL)}
	c.mu.Unlock()
	return tok, nil
}

func (c *Client) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.JoinPath(c.endpoint).String(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("issuance endpoint returned %d: %s", resp.StatusCode, errorMessage(body))
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode issuance response: %w", err)
	}
	if strings.TrimSpace(payload.Token) == "" {
		return "", errors.New("issuance response has no token")
	}
	return payload.Token, nil
}

func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}
