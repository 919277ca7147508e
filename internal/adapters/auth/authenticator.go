package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
)

const defaultTokenURL = "https://accounts.spotify.com/api/token"

// Config holds the OAuth client credentials and the long-lived refresh token
// obtained from the one-time authorization flow.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string

	// TokenURL overrides the token endpoint; tests point it at a local
	// server.
	TokenURL string

	// CachePath is where the current access token is persisted between
	// runs. Empty disables persistence.
	CachePath string
}

// Authenticator exchanges the refresh token for short-lived access tokens
// and hands out a valid one on every call.
type Authenticator struct {
	cfg    Config
	client *resty.Client

	mu    sync.Mutex
	token *oauth2.Token
}

// NewAuthenticator constructs an Authenticator.
func NewAuthenticator(cfg Config) *Authenticator {
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	return &Authenticator{
		cfg:    cfg,
		client: resty.New().SetTimeout(10 * time.Second),
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Token returns a valid access token, refreshing through the token endpoint
// when the held one is missing or expired.
func (a *Authenticator) Token(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token == nil {
		a.token = a.loadCached()
	}
	if a.token.Valid() {
		return a.token.AccessToken, nil
	}

	var result tokenResponse
	resp, err := a.client.R().
		SetContext(ctx).
		SetBasicAuth(a.cfg.ClientID, a.cfg.ClientSecret).
		SetFormData(map[string]string{
			"grant_type":    "refresh_token",
			"refresh_token": a.cfg.RefreshToken,
		}).
		SetResult(&result).
		Post(a.cfg.TokenURL)
	if err != nil {
		return "", fmt.Errorf("auth: token refresh: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("auth: token refresh: status %d", resp.StatusCode())
	}
	if result.AccessToken == "" {
		return "", fmt.Errorf("auth: token refresh: empty access token")
	}

	a.token = &oauth2.Token{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		Expiry:      time.Now().Add(time.Duration(result.ExpiresIn) * time.Second),
	}
	a.saveCached()

	return a.token.AccessToken, nil
}

// Invalidate discards the held token, forcing a refresh on the next Token
// call. The Spotify client calls this when the remote rejects a token that
// still looked valid locally.
func (a *Authenticator) Invalidate() {
	a.mu.Lock()
	a.token = &oauth2.Token{}
	a.mu.Unlock()
}

func (a *Authenticator) loadCached() *oauth2.Token {
	if a.cfg.CachePath == "" {
		return nil
	}

	raw, err := os.ReadFile(a.cfg.CachePath)
	if err != nil {
		return nil
	}

	var token oauth2.Token
	if err := json.Unmarshal(raw, &token); err != nil {
		log.Printf("WARN auth: unreadable token cache %s: %v", a.cfg.CachePath, err)
		return nil
	}
	return &token
}

func (a *Authenticator) saveCached() {
	if a.cfg.CachePath == "" {
		return
	}

	raw, err := json.Marshal(a.token)
	if err != nil {
		return
	}
	if err := os.WriteFile(a.cfg.CachePath, raw, 0o600); err != nil {
		log.Printf("WARN auth: token cache write failed: %v", err)
	}
}
