package client

import (
	"time"

	"github.com/timofei-ponomarev/tp-client/internal/constants"
	internalhttp "github.com/timofei-ponomarev/tp-client/internal/http"
	"github.com/timofei-ponomarev/tp-client/pkg/tp"
)

// NewTestClient creates a client against the given base URL with no auth,
// no retry delay, and a no-op response cache. Test-only constructor.
func NewTestClient(baseURL string, opts ...internalhttp.Option) *Client {
	httpOpts := append([]internalhttp.Option{
		internalhttp.WithRetryPolicy(tp.RetryPolicy{
			MaxAttempts:   constants.DefaultRetryAttempts,
			InitialDelay:  time.Millisecond,
			BackoffFactor: constants.DefaultRetryBackoffFactor,
		}),
	}, opts...)

	return &Client{
		httpClient:    internalhttp.NewClient(baseURL, httpOpts...),
		responseCache: tp.NewNoOpCache(),
		typesTTL:      constants.DefaultEntityTypesTTL,
	}
}
