// Package client implements the tp.Client service facade: entity type
// validation, query assembly, retried HTTP execution, and response
// normalization.
package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/timofei-ponomarev/tp-client/internal/constants"
	internalhttp "github.com/timofei-ponomarev/tp-client/internal/http"
	"github.com/timofei-ponomarev/tp-client/pkg/tp"
)

// Client implements the tp.Client interface.
type Client struct {
	httpClient    *internalhttp.Client
	logger        tp.Logger
	responseCache tp.Cache

	// Capability cache state. Written only by refresh completion, read by
	// every validation; the pending refresh cell gives concurrent
	// validators one shared refresh instead of duplicate remote calls.
	mu             sync.Mutex
	entityTypes    []string
	typesFetchedAt time.Time
	typesTTL       time.Duration
	refresh        *typeRefresh
}

// New creates a new Targetprocess API client.
func New(ctx context.Context, config *tp.Config) (*Client, error) {
	if config.APIEndpoint == "" {
		return nil, tp.ErrAPIEndpointRequired
	}

	httpOpts := buildHTTPOptions(config)

	httpClient := internalhttp.NewClient(config.APIEndpoint, httpOpts...)

	responseCache, err := tp.NewCacheFromConfig(config.Cache)
	if err != nil {
		return nil, fmt.Errorf("building response cache: %w", err)
	}

	typesTTL := config.EntityTypesTTL
	if typesTTL <= 0 {
		typesTTL = constants.DefaultEntityTypesTTL
	}

	client := &Client{
		httpClient:    httpClient,
		logger:        config.Logger,
		responseCache: responseCache,
		typesTTL:      typesTTL,
	}

	// Best-effort priming: a failed discovery call falls back to the
	// compiled-in type list and is not fatal.
	if config.PrimeEntityTypes {
		_, _ = client.GetValidEntityTypes(ctx)
	}

	return client, nil
}

// buildHTTPOptions builds HTTP client options from config.
func buildHTTPOptions(config *tp.Config) []internalhttp.Option {
	var httpOpts []internalhttp.Option

	if config.AccessToken != "" {
		httpOpts = append(httpOpts, internalhttp.WithAccessToken(config.AccessToken))
	} else if config.Username != "" {
		httpOpts = append(httpOpts, internalhttp.WithBasicAuth(config.Username, config.Password))
	}

	if config.Logger != nil {
		httpOpts = append(httpOpts, internalhttp.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, internalhttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, internalhttp.WithUserAgent(config.UserAgent))
	}

	if config.Retry.MaxAttempts > 0 {
		httpOpts = append(httpOpts, internalhttp.WithRetryPolicy(config.Retry))
	}

	return httpOpts
}

// loggerAdapter adapts tp.Logger to the internal http.Logger.
type loggerAdapter struct {
	logger tp.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}

func (c *Client) warn(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Warn(msg, fields)
	}
}
