package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"

	"cine-booking-cli/logger"
	"cine-booking-cli/model"
)

const (
	defaultUserAgent   = "cine-booking-cli"
	defaultHTTPTimeout = 12 * time.Second
	maxErrorBody       = 8 << 10
	requestIDHeader    = "X-Request-ID"
)

// Client wraps HTTP access to the booking API. The session cookie lives in
// the client's jar; the identity it last saw is cached for local checks.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	log        *logger.Logger

	mu       sync.RWMutex
	identity *model.User
}

// NewClient creates a new API client. If httpClient is nil, a default client
// is used; a client without a cookie jar gets one.
func NewClient(baseURL string, httpClient *http.Client, log *logger.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	hc := *httpClient
	if hc.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err == nil {
			hc.Jar = jar
		}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Client{
		httpClient: &hc,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  defaultUserAgent,
		log:        log.WithComponent("api"),
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Identity returns the user this client last saw authenticated.
func (c *Client) Identity() (model.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.identity == nil {
		return model.User{}, false
	}
	return *c.identity, true
}

func (c *Client) setIdentity(user *model.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if user == nil {
		c.identity = nil
		return
	}
	copied := *user
	c.identity = &copied
}

// Cookies returns the session cookies held for the API origin.
func (c *Client) Cookies() []*http.Cookie {
	u, err := url.Parse(c.baseURL)
	if err != nil || c.httpClient.Jar == nil {
		return nil
	}
	return c.httpClient.Jar.Cookies(u)
}

// SetCookies seeds the jar, typically with cookies persisted by a previous run.
func (c *Client) SetCookies(cookies []*http.Cookie) {
	u, err := url.Parse(c.baseURL)
	if err != nil || c.httpClient.Jar == nil || len(cookies) == 0 {
		return
	}
	// the jar scopes cookies by path; the API root covers every endpoint
	scoped := make([]*http.Cookie, 0, len(cookies))
	for _, cookie := range cookies {
		copied := *cookie
		if copied.Path == "" {
			copied.Path = "/"
		}
		scoped = append(scoped, &copied)
	}
	c.httpClient.Jar.SetCookies(u, scoped)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// doJSON performs one request. Nothing is retried: every failure goes back to
// the caller, which decides whether the user tries again.
func (c *Client) doJSON(ctx context.Context, method string, path string, body any, out any) error {
	endpoint := c.baseURL + path

	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request for %s: %w", endpoint, err)
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.log.WithRequestID(requestID)
	started := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		log.LogHTTPFailure(ctx, method, path, time.Since(started), err)
		if errors.Is(err, context.Canceled) {
			return err
		}
		return &ConnectionError{Endpoint: endpoint, Err: err}
	}
	defer res.Body.Close()
	log.LogHTTPRequest(ctx, method, path, res.StatusCode, time.Since(started))

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return &APIError{
			StatusCode: res.StatusCode,
			Status:     res.Status,
			Endpoint:   endpoint,
			Body:       strings.TrimSpace(string(snippet)),
			Message:    errorMessage(snippet),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response from %s: %w", endpoint, err)
	}
	return nil
}

func errorMessage(body []byte) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return strings.TrimSpace(envelope.Error)
}
