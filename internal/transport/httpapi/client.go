// Package httpapi is the HTTP client for the knowledge-base search API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/kbsearch/internal/metrics"
)

// Client defaults.
const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 30 * time.Second
	// BasePath prefixes every endpoint path.
	BasePath = "/api"
)

// maxErrorBody bounds how much of a failed response is read for detail extraction.
const maxErrorBody = 1 << 20

// Config holds the client settings. Zero values select defaults.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	UserAgent  string
	// APIKey, when set, is sent as a Bearer token.
	APIKey string
	Logger *zap.Logger
}

// Client performs JSON and multipart calls against the API.
// Safe for concurrent use. No call is ever retried.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	userAgent  string
	apiKey     string
	logger     *zap.Logger
}

// New creates a Client.
func New(cfg Config) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    cfg.Timeout,
		httpClient: cfg.HTTPClient,
		userAgent:  cfg.UserAgent,
		apiKey:     cfg.APIKey,
		logger:     cfg.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// BaseURL returns the configured server root.
func (c *Client) BaseURL() string { return c.baseURL }

// Timeout returns the per-call timeout.
func (c *Client) Timeout() time.Duration { return c.timeout }

// CloseIdleConnections closes idle keep-alive connections of the HTTP client.
func (c *Client) CloseIdleConnections() { c.httpClient.CloseIdleConnections() }

// Do sends one request to BasePath+path. A non-nil body is JSON-encoded unless
// WithMultipart supplies the body. On 2xx the response is decoded into out
// (nil discards it). Every failure is returned as *Error.
func (c *Client) Do(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	rc := requestConfig{query: url.Values{}, header: http.Header{}, route: path}
	for _, o := range opts {
		o(&rc)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.newRequest(callCtx, method, path, body, &rc)
	if err != nil {
		return &Error{Message: err.Error(), cause: err}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, rc.route, 0, start)
		apiErr := c.classify(ctx, callCtx, err)
		c.logger.Debug("API request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(apiErr),
		)
		return apiErr
	}
	defer resp.Body.Close()

	c.observe(method, rc.route, resp.StatusCode, start)
	c.logger.Debug("API request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return statusError(resp.StatusCode, data)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctxErr := c.classifyContext(ctx, callCtx); ctxErr != nil {
			return ctxErr
		}
		return &Error{
			Message:    fmt.Sprintf("decode response: %v", err),
			StatusCode: resp.StatusCode,
			cause:      err,
		}
	}
	return nil
}

func (c *Client) newRequest(
	ctx context.Context, method, path string, body any, rc *requestConfig,
) (*http.Request, error) {
	target := c.baseURL + BasePath + path
	if len(rc.query) > 0 {
		target += "?" + rc.query.Encode()
	}

	var (
		reader      io.Reader
		contentType string
	)
	switch {
	case rc.multipart != nil:
		reader, contentType = rc.multipart.stream()
	case body != nil:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader, contentType = bytes.NewReader(data), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		if rcl, ok := reader.(io.Closer); ok {
			_ = rcl.Close()
		}
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	for k, vs := range rc.header {
		req.Header[k] = vs
	}
	return req, nil
}

// classify turns a transport failure into an Error, distinguishing our own
// timeout from caller cancellation.
func (c *Client) classify(parent, callCtx context.Context, err error) *Error {
	if ctxErr := c.classifyContext(parent, callCtx); ctxErr != nil {
		return ctxErr
	}
	return networkError(err)
}

func (c *Client) classifyContext(parent, callCtx context.Context) *Error {
	switch {
	case errors.Is(parent.Err(), context.Canceled):
		return &Error{Message: "request canceled", cause: parent.Err()}
	case parent.Err() != nil:
		return &Error{Message: "timeout exceeded", Timeout: true, cause: parent.Err()}
	case errors.Is(callCtx.Err(), context.DeadlineExceeded):
		return &Error{
			Message: fmt.Sprintf("timeout of %dms exceeded", c.timeout.Milliseconds()),
			Timeout: true,
			cause:   callCtx.Err(),
		}
	default:
		return nil
	}
}

func (c *Client) observe(method, route string, status int, start time.Time) {
	metrics.APIRequestsTotal.WithLabelValues(method, route, metrics.StatusLabel(status)).Inc()
	metrics.APIRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}
