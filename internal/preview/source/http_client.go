// Package source fetches match pages over HTTP or through a headless browser.
package source

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	DefaultBaseURL   = "https://live18.nowgoal25.com"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/116.0.0.0 Safari/537.36"
)

// retryBackoff is the first pause between retries; it doubles each attempt.
const retryBackoff = 500 * time.Millisecond

// StatusError is returned for non-200 responses.
type StatusError struct {
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.Path, e.StatusCode)
}

// IsTimeout reports whether err is a deadline or network timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// ClientOptions configures an HTTP Client. Zero values take defaults.
type ClientOptions struct {
	BaseURL     string
	UserAgent   string
	Timeout     time.Duration
	Retries     int
	Proxies     []string
	InsecureTLS bool
}

// Client fetches match pages. One Client is meant to be shared by the main
// and the secondary fetches of a preview so connections are reused.
type Client struct {
	baseURL           string
	userAgent         string
	timeout           time.Duration
	retries           int
	insecureTLS       bool
	client            *http.Client
	proxyList         []string
	currentProxyIndex int
	proxyMu           sync.Mutex
}

// NewClient creates a match page client.
func NewClient(opts ClientOptions) *Client {
	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:     baseURL,
		userAgent:   userAgent,
		timeout:     timeout,
		retries:     opts.Retries,
		insecureTLS: opts.InsecureTLS,
		client:      &http.Client{Timeout: timeout, Transport: newTransport(opts.InsecureTLS, nil)},
		proxyList:   opts.Proxies,
	}
}

func newTransport(insecureTLS bool, proxyURL *url.URL) *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	}
	if insecureTLS {
		transport.TLSClientConfig.InsecureSkipVerify = true
	}
	if proxyURL != nil {
		transport.Proxy = http.ProxyURL(proxyURL)
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}
	return transport
}

// Get fetches path (e.g. /match/h2h-123) and returns the body. The caller's
// context bounds the whole call including retries. With proxies configured
// they are tried in order before the direct connection.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	if len(c.proxyList) > 0 {
		if body, ok := c.getWithProxyRetry(ctx, path); ok {
			return body, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		slog.Warn("All proxies failed, trying direct connection", "path", path)
	}
	return c.getDirect(ctx, path)
}

// getDirect retries 5xx responses with exponential backoff.
func (c *Client) getDirect(ctx context.Context, path string) ([]byte, error) {
	backoff := retryBackoff
	for attempt := 0; ; attempt++ {
		body, err := c.do(ctx, c.client, path)
		if err == nil || attempt >= c.retries || !retryable(err) {
			return body, err
		}
		slog.Debug("Retrying request", "path", path, "attempt", attempt+1, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

func retryable(err error) bool {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	switch statusErr.StatusCode {
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// getWithProxyRetry tries each proxy, starting with the last one that worked.
func (c *Client) getWithProxyRetry(ctx context.Context, path string) ([]byte, bool) {
	c.proxyMu.Lock()
	startIndex := c.currentProxyIndex
	c.proxyMu.Unlock()

	for attempt := 0; attempt < len(c.proxyList); attempt++ {
		if ctx.Err() != nil {
			return nil, false
		}
		proxyIndex := (startIndex + attempt) % len(c.proxyList)
		proxyURLStr := c.proxyList[proxyIndex]

		proxyURL, err := url.Parse(proxyURLStr)
		if err != nil {
			continue
		}
		client := &http.Client{
			Timeout:   c.timeout,
			Transport: newTransport(c.insecureTLS, proxyURL),
		}

		body, err := c.do(ctx, client, path)
		if err != nil {
			slog.Debug("Proxy request failed", "proxy", maskProxyURL(proxyURLStr), "error", err)
			continue
		}

		c.proxyMu.Lock()
		c.currentProxyIndex = proxyIndex
		c.proxyMu.Unlock()
		slog.Debug("Using working proxy", "proxy", maskProxyURL(proxyURLStr))
		return body, true
	}
	return nil, false
}

func (c *Client) do(ctx context.Context, client *http.Client, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", path, err)
	}
	return c.handleResponse(resp, body, path)
}

// setHeaders sets HTTP headers for requests
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
}

// handleResponse processes HTTP response and returns body or error
func (c *Client) handleResponse(resp *http.Response, body []byte, path string) ([]byte, error) {
	if resp.StatusCode == http.StatusOK {
		return body, nil
	}

	bodyStr := string(body)
	if len(bodyStr) > 500 {
		bodyStr = bodyStr[:500] + "..."
	}
	slog.Warn("HTTP error response",
		"path", path,
		"status", resp.StatusCode,
		"body_preview", bodyStr)

	return nil, &StatusError{Path: path, StatusCode: resp.StatusCode}
}

// maskProxyURL masks password in proxy URL for logging
func maskProxyURL(proxyURL string) string {
	parsed, err := url.Parse(proxyURL)
	if err != nil {
		return "***"
	}
	if parsed.User == nil {
		return parsed.String()
	}
	password, ok := parsed.User.Password()
	if !ok {
		return parsed.String()
	}
	// url.UserPassword would percent-escape the mask
	user := url.User(parsed.User.Username()).String()
	parsed.User = nil
	rest := strings.TrimPrefix(parsed.String(), parsed.Scheme+"://")
	return parsed.Scheme + "://" + user + ":" + strings.Repeat("*", len(password)) + "@" + rest
}
