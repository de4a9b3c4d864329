package toggl

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Reporter is implemented by *Client; the UI and exporters depend on it so
// tests can swap in canned data.
type Reporter interface {
	FetchCSV(ctx context.Context, req ReportRequest) (string, error)
	Me(ctx context.Context) (*User, error)
}

var _ Reporter = (*Client)(nil)

const (
	// DefaultBaseURL is the public Toggl Track API.
	DefaultBaseURL = "https://api.track.toggl.com"

	defaultUserAgent = "togglreport/0.1"
	requestTimeout   = 30 * time.Second
	mePath           = "/api/v9/me"
	sharedReportPath = "/reports/api/v3/shared/"
)

// Client talks to the Toggl API, directly or through the relay.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	creds     Credentials
	userAgent string
	relay     bool
}

// Option customises a Client.
type Option func(*Client)

// WithRelay sends every request to the relay root with the API path in the
// endpoint query parameter.
func WithRelay() Option {
	return func(c *Client) { c.relay = true }
}

// WithHTTPClient replaces the default client with its 30s timeout.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient builds a Client for baseURL. An empty baseURL means DefaultBaseURL.
func NewClient(baseURL string, creds Credentials, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: requestTimeout},
		creds:     creds,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Credentials returns the credentials the client was built with.
func (c *Client) Credentials() Credentials {
	return c.creds
}

// FetchCSV exports the shared report for the requested window as CSV text.
func (c *Client) FetchCSV(ctx context.Context, req ReportRequest) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	if !c.creds.Complete() {
		return "", ErrMissingCredentials
	}
	path := sharedReportPath + url.PathEscape(strings.TrimSpace(c.creds.ReportID)) + "/csv"
	body, err := c.do(ctx, http.MethodPost, path, req)
	if err != nil {
		return "", err
	}
	zerolog.Ctx(ctx).Debug().
		Str("start", req.StartDate).
		Str("end", req.EndDate).
		Int("bytes", len(body)).
		Msg("fetched report csv")
	return string(body), nil
}

// Me returns the user the token belongs to.
func (c *Client) Me(ctx context.Context) (*User, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(c.creds.Token) == "" {
		return nil, ErrMissingCredentials
	}
	body, err := c.do(ctx, http.MethodGet, mePath, nil)
	if err != nil {
		return nil, err
	}
	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &user, nil
}

// Validate checks the token and then the report id. Rejections map to
// ErrInvalidToken and ErrInvalidReportID; other failures are returned as is.
func (c *Client) Validate(ctx context.Context) (*User, error) {
	if !c.creds.Complete() {
		return nil, ErrMissingCredentials
	}
	user, err := c.Me(ctx)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Unauthorized() {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		return nil, err
	}

	today := time.Now().Format("2006-01-02")
	_, err = c.FetchCSV(ctx, ReportRequest{StartDate: today, EndDate: today, OrderField: "date", OrderDesc: true})
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && (se.Unauthorized() || se.Code == http.StatusNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidReportID, err)
		}
		return nil, err
	}
	return user, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	rel := &url.URL{Path: c.baseURL.Path + path}
	if c.relay {
		rel = &url.URL{Path: c.baseURL.Path + "/", RawQuery: url.Values{"endpoint": {path}}.Encode()}
	}
	return c.doURL(ctx, method, rel, path, payload)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, apiPath string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", authHeader(c.creds.Token))
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Path: apiPath, Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	return data, nil
}

func authHeader(token string) string {
	raw := strings.TrimSpace(token) + ":api_token"
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(raw))
}

func parseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = DefaultBaseURL
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base url: missing host in %q", raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
