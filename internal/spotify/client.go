package spotify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultAccountsURL = "https://accounts.spotify.com"
	defaultAPIURL      = "https://api.spotify.com/v1"

	requestTimeout = 10 * time.Second
)

// Client issues catalog sessions. Credentials live here; the short-lived
// access token lives on the Session so nothing is cached across requests.
type Client struct {
	httpClient   *http.Client
	clientID     string
	clientSecret string
	accountsURL  string
	apiURL       string
	market       string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURLs overrides the accounts and API endpoints (used by tests).
func WithBaseURLs(accountsURL, apiURL string) Option {
	return func(c *Client) {
		c.accountsURL = strings.TrimRight(accountsURL, "/")
		c.apiURL = strings.TrimRight(apiURL, "/")
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient constructs a Spotify client for the given market.
func NewClient(clientID, clientSecret, market string, opts ...Option) *Client {
	c := &Client{
		httpClient:   &http.Client{Timeout: requestTimeout},
		clientID:     clientID,
		clientSecret: clientSecret,
		accountsURL:  defaultAccountsURL,
		apiURL:       defaultAPIURL,
		market:       market,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session holds one access token, fetched once per inbound request and never
// refreshed mid-request.
type Session struct {
	client *Client
	token  string
}

// StartSession performs the client-credentials token exchange.
func (c *Client) StartSession(ctx context.Context) (*Session, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return nil, fmt.Errorf("spotify: credentials not configured")
	}

	auth := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.accountsURL+"/api/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("spotify: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("spotify: token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("spotify: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("spotify: token status %d: %s", resp.StatusCode, string(body))
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("spotify: token decode error: %w", err)
	}

	return &Session{client: c, token: tr.AccessToken}, nil
}

// search runs one keyword search and returns up to limit track items.
func (s *Session) search(ctx context.Context, query string, limit int) ([]spotifyTrack, error) {
	searchURL, err := url.Parse(s.client.apiURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("spotify: invalid search url: %w", err)
	}

	q := searchURL.Query()
	q.Set("q", query)
	q.Set("type", "track")
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("market", s.client.market)
	searchURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("spotify: failed to create search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("spotify: search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("spotify: search status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("spotify: search decode error: %w", err)
	}

	return body.Tracks.Items, nil
}
