package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/reprise-labs/reprise/internal/core/domain"
	"github.com/reprise-labs/reprise/internal/core/ports"
)

// DefaultBaseURL is the production Web API root.
const DefaultBaseURL = "https://api.spotify.com/v1"

// TokenSource supplies a valid access token for each request. The auth
// adapter implements it; tests use a static token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client talks to the Spotify Web API and implements both the catalog and
// the library ports over one HTTP client.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	tokens      TokenSource
	maxRetries  int
	baseBackoff time.Duration

	mu           sync.Mutex
	artistGenres map[string][]string
	userID       string
}

// compile-time interface assertions
var (
	_ ports.CatalogProvider = (*Client)(nil)
	_ ports.LibraryProvider = (*Client)(nil)
)

// NewClient constructs a Spotify client.
func NewClient(httpClient *http.Client, baseURL string, tokens TokenSource) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	maxRetries, baseBackoff := getRetryConfig()
	return &Client{
		httpClient:   httpClient,
		baseURL:      strings.TrimRight(baseURL, "/"),
		tokens:       tokens,
		maxRetries:   maxRetries,
		baseBackoff:  baseBackoff,
		artistGenres: make(map[string][]string),
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.send(ctx, http.MethodGet, path, query, nil, out)
}

// tokenInvalidator is implemented by token sources that can discard a held
// token early, forcing a refresh on the next Token call.
type tokenInvalidator interface {
	Invalidate()
}

// send performs one API call with auth, retry and status mapping. On a 401
// the held token is invalidated and the call retried once with a fresh one;
// a second 401 surfaces as domain.ErrAuthExpired. Retry exhaustion on rate
// limits surfaces as domain.TooManyRequestsError from the retry layer.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var raw []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("spotify adapter: encode request: %w", err)
		}
		raw = encoded
	}

	for authAttempt := 0; ; authAttempt++ {
		var payload io.Reader
		if raw != nil {
			payload = bytes.NewReader(raw)
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
		if err != nil {
			return fmt.Errorf("spotify adapter: %w", err)
		}
		if raw != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("spotify adapter: token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.doRequestWithRetry(req)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusUnauthorized {
			_ = resp.Body.Close()
			if inv, ok := c.tokens.(tokenInvalidator); ok && authAttempt == 0 {
				log.Printf("WARN spotify adapter: token rejected, refreshing and retrying %s %s", method, path)
				inv.Invalidate()
				continue
			}
			return fmt.Errorf("spotify adapter: %s %s: %w", method, path, domain.ErrAuthExpired)
		}

		defer resp.Body.Close()
		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			return fmt.Errorf("spotify adapter: %s %s: status %d", method, path, resp.StatusCode)
		}

		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("spotify adapter: decode response: %w", err)
		}
		return nil
	}
}
