package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
const DefaultHTTPTimeout = 30 * time.Second

// Retry defaults.
const (
	// DefaultRetryAttempts is the total attempt budget, first try included.
	DefaultRetryAttempts = 3

	// DefaultRetryInitialDelay is the wait before the second attempt.
	DefaultRetryInitialDelay = 1 * time.Second

	// DefaultRetryBackoffFactor multiplies the delay after each failed attempt.
	DefaultRetryBackoffFactor = 2.0
)

// Capability cache defaults.
const (
	// DefaultEntityTypesTTL bounds the age of the cached entity type list.
	DefaultEntityTypesTTL = 1 * time.Hour

	// MetadataCacheKey is the response-cache key for metadata documents.
	MetadataCacheKey = "index-meta"
)

// Paging defaults.
const (
	// StandardPageSize is the default take for searches.
	StandardPageSize = 25

	// MaxPageSize is the largest take the API honors per request.
	MaxPageSize = 1000
)

// APIBasePath is the Targetprocess REST API v1 prefix.
const APIBasePath = "/api/v1"

// JSONIndentSize is the indent used for yaml output.
const JSONIndentSize = 2
