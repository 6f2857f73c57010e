package tp

import (
	"context"
	"time"
)

// Client is the interface to a configured Targetprocess instance.
//
// Every operation validates the requested entity type against the
// capability cache, builds the wire query, executes the HTTP call under the
// bounded retry policy, and normalizes the result into a typed value or one
// of the error kinds in this package.
type Client interface {
	// SearchEntities returns entities of the given type matching params.
	SearchEntities(ctx context.Context, entityType string, params *QueryParams) (*EntityList, error)

	// SearchAllEntities follows Next links until the result set is
	// exhausted and returns the concatenated items.
	SearchAllEntities(ctx context.Context, entityType string, params *QueryParams) ([]Entity, error)

	// GetEntity retrieves a single entity by numeric ID.
	GetEntity(ctx context.Context, entityType string, id int, include []string) (Entity, error)

	// CreateEntity creates a new entity. The body is passed through as-is.
	CreateEntity(ctx context.Context, entityType string, body interface{}) (Entity, error)

	// UpdateEntity applies a partial update to an existing entity.
	UpdateEntity(ctx context.Context, entityType string, id int, body interface{}) (Entity, error)

	// FetchMetadata retrieves the instance's declared type descriptors.
	FetchMetadata(ctx context.Context) (*MetadataDocument, error)

	// GetValidEntityTypes returns the currently known entity type names,
	// refreshing the capability cache when stale.
	GetValidEntityTypes(ctx context.Context) ([]string, error)

	// ValidateEntityType checks a type name against the capability cache
	// and returns its canonical casing.
	ValidateEntityType(ctx context.Context, entityType string) (string, error)

	// CreateComment attaches a comment to an entity.
	CreateComment(ctx context.Context, request *CommentCreateRequest) (Entity, error)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// RetryPolicy bounds the retry loop around every remote call. It is
// immutable per client instance.
type RetryPolicy struct {
	// MaxAttempts is the total attempt budget, including the first try.
	MaxAttempts int

	// InitialDelay is the wait before the second attempt. There is no
	// delay before the first attempt.
	InitialDelay time.Duration

	// BackoffFactor multiplies the delay after each failed attempt.
	BackoffFactor float64
}

// Config represents client configuration for building a tp.Client.
//
// Authentication is either an access token (sent as the access_token query
// parameter) or username/password basic auth; the token wins when both are
// set. Per-request timeouts are the caller's responsibility via context.
type Config struct {
	// APIEndpoint is the base URL of the Targetprocess instance
	// (e.g. "https://example.tpondemand.com"). tpclient.New normalizes
	// this value by trimming a trailing slash and adding "https://" when
	// no scheme is present.
	APIEndpoint string

	// AccessToken authenticates requests via the access_token query
	// parameter.
	AccessToken string

	// Username and Password authenticate requests via basic auth when no
	// access token is set.
	Username string
	Password string

	// Retry overrides the default retry policy (3 attempts, 1s initial
	// delay, x2 backoff) when MaxAttempts > 0.
	Retry RetryPolicy

	// EntityTypesTTL bounds the age of the cached entity type list.
	// Zero means the default of one hour.
	EntityTypesTTL time.Duration

	// PrimeEntityTypes eagerly populates the capability cache at
	// construction. Failures are non-fatal; the cache falls back to the
	// compiled-in type list.
	PrimeEntityTypes bool

	// Cache configures the response cache used for metadata documents.
	// Nil means an in-memory cache with defaults.
	Cache *CacheConfig

	// Debug enables verbose HTTP request/response logging when a Logger
	// is provided.
	Debug bool

	// Logger is an optional structured logger used by the HTTP layer.
	Logger Logger

	// UserAgent overrides the default User-Agent header.
	UserAgent string
}
