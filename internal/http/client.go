// Package http wraps the wire-level request/response cycle: auth injection,
// JSON encoding, bounded retry with exponential backoff, and normalization
// of HTTP failures into the tp error taxonomy.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	nethttp "net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/timofei-ponomarev/tp-client/internal/constants"
	"github.com/timofei-ponomarev/tp-client/pkg/tp"
)

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request represents an HTTP request to the API.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// Response represents an HTTP response from the API.
type Response struct {
	StatusCode int
	Headers    nethttp.Header
	Body       []byte
}

// Client executes HTTP calls against one Targetprocess instance under a
// bounded retry policy. Backoff state is local to each call.
type Client struct {
	baseURL     string
	retryClient *retryablehttp.Client
	policy      tp.RetryPolicy
	accessToken string
	username    string
	password    string
	userAgent   string
	logger      Logger
	debug       bool
}

// Option configures the client.
type Option func(*Client)

// WithAccessToken authenticates requests via the access_token query
// parameter.
func WithAccessToken(token string) Option {
	return func(c *Client) {
		c.accessToken = token
	}
}

// WithBasicAuth authenticates requests via basic auth.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryPolicy overrides the default retry policy.
func WithRetryPolicy(policy tp.RetryPolicy) Option {
	return func(c *Client) {
		if policy.MaxAttempts >= 1 {
			c.policy.MaxAttempts = policy.MaxAttempts
		}

		if policy.InitialDelay >= 0 {
			c.policy.InitialDelay = policy.InitialDelay
		}

		if policy.BackoffFactor >= 1 {
			c.policy.BackoffFactor = policy.BackoffFactor
		}
	}
}

// NewClient creates a new HTTP client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	client := &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: "tp-client/1.0",
		policy: tp.RetryPolicy{
			MaxAttempts:   constants.DefaultRetryAttempts,
			InitialDelay:  constants.DefaultRetryInitialDelay,
			BackoffFactor: constants.DefaultRetryBackoffFactor,
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = client.policy.MaxAttempts - 1
	retryClient.RetryWaitMin = client.policy.InitialDelay
	retryClient.CheckRetry = checkRetry
	retryClient.Backoff = client.backoff
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout

	client.retryClient = retryClient

	return client
}

// checkRetry classifies failures. Bad requests and failed authentication
// are terminal; every other non-2xx status and every transport error is
// retryable up to the policy limit.
func checkRetry(ctx context.Context, resp *nethttp.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err != nil {
		return true, nil
	}

	if resp.StatusCode == nethttp.StatusBadRequest || resp.StatusCode == nethttp.StatusUnauthorized {
		return false, nil
	}

	return resp.StatusCode >= nethttp.StatusBadRequest, nil
}

// backoff implements the policy's exponential delay: no delay before the
// first attempt, InitialDelay before the second, multiplied by
// BackoffFactor for each attempt after that.
func (c *Client) backoff(_, _ time.Duration, attemptNum int, _ *nethttp.Response) time.Duration {
	delay := float64(c.policy.InitialDelay) * math.Pow(c.policy.BackoffFactor, float64(attemptNum))

	return time.Duration(delay)
}

// Do executes a request and returns the response. Non-2xx responses are
// returned together with a classified error: *tp.APIError for terminal
// statuses, *tp.RetriesExhaustedError once the retry budget is spent.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL, err := c.buildURL(req)
	if err != nil {
		return nil, err
	}

	var bodyBytes []byte

	if req.Body != nil {
		bodyBytes, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if c.accessToken == "" && c.username != "" {
		httpReq.SetBasicAuth(c.username, c.password)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    redactToken(fullURL),
		})
	}

	httpResp, err := c.retryClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}

		return nil, &tp.RetriesExhaustedError{
			Context:  req.Method + " " + req.Path,
			Attempts: c.policy.MaxAttempts,
			Err:      err,
		}
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	response := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status": httpResp.StatusCode,
			"bytes":  len(respBody),
		})
	}

	if httpResp.StatusCode >= nethttp.StatusBadRequest {
		return response, c.classifyError(req, httpResp.StatusCode, respBody)
	}

	return response, nil
}

// classifyError normalizes a non-2xx response. Retryable statuses only
// reach this point once the retry budget is spent, so they surface as
// *tp.RetriesExhaustedError wrapping the underlying *tp.APIError.
func (c *Client) classifyError(req *Request, status int, body []byte) error {
	apiErr := &tp.APIError{
		StatusCode: status,
		Message:    extractErrorMessage(status, body),
	}

	if apiErr.Retryable() {
		return &tp.RetriesExhaustedError{
			Context:  req.Method + " " + req.Path,
			Attempts: c.policy.MaxAttempts,
			Err:      apiErr,
		}
	}

	return apiErr
}

// extractErrorMessage pulls a human-readable message from the error body,
// trying the known message fields in order, falling back to the status text.
func extractErrorMessage(status int, body []byte) string {
	var errBody tp.ErrorBody

	if err := json.Unmarshal(body, &errBody); err == nil {
		if text := errBody.Text(); text != "" {
			return text
		}
	}

	return nethttp.StatusText(status)
}

// buildURL joins base URL, path, caller query, and the access token.
func (c *Client) buildURL(req *Request) (string, error) {
	parsed, err := url.Parse(c.baseURL + req.Path)
	if err != nil {
		return "", fmt.Errorf("building URL for %s: %w", req.Path, err)
	}

	query := parsed.Query()

	for key, values := range req.Query {
		for _, value := range values {
			query.Add(key, value)
		}
	}

	if c.accessToken != "" {
		query.Set("access_token", c.accessToken)
	}

	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}

// redactToken masks the access token in logged URLs.
func redactToken(fullURL string) string {
	parsed, err := url.Parse(fullURL)
	if err != nil {
		return fullURL
	}

	query := parsed.Query()
	if query.Get("access_token") != "" {
		query.Set("access_token", "***")
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodGet, Path: path, Query: query})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPost, Path: path, Body: body})
}
