package tpclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/timofei-ponomarev/tp-client/internal/client"
	"github.com/timofei-ponomarev/tp-client/pkg/tp"
)

// New creates a new Targetprocess API client from the given configuration.
func New(ctx context.Context, config *tp.Config) (tp.Client, error) {
	if config == nil {
		return nil, tp.ErrConfigRequired
	}

	if config.APIEndpoint == "" {
		return nil, tp.ErrAPIEndpointRequired
	}

	config.APIEndpoint = NormalizeEndpoint(config.APIEndpoint)

	apiClient, err := client.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return apiClient, nil
}

// NormalizeEndpoint trims a trailing slash and adds "https://" when no
// scheme is present.
func NormalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSuffix(endpoint, "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return endpoint
}

// NewWithToken creates a new client with an API endpoint and access token.
func NewWithToken(ctx context.Context, endpoint, token string) (tp.Client, error) {
	return New(ctx, &tp.Config{
		APIEndpoint: endpoint,
		AccessToken: token,
	})
}

// NewWithBasicAuth creates a new client using username/password
// authentication.
func NewWithBasicAuth(ctx context.Context, endpoint, username, password string) (tp.Client, error) {
	return New(ctx, &tp.Config{
		APIEndpoint: endpoint,
		Username:    username,
		Password:    password,
	})
}
