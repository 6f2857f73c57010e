package client

import (
	"context"
	"strings"
	"time"

	"github.com/timofei-ponomarev/tp-client/pkg/tp"
)

// StaticEntityTypes is the compiled-in fallback list used when the remote
// discovery call is unavailable or returns nothing usable. Instance-specific
// custom types are only known through a successful metadata fetch.
var StaticEntityTypes = []string{
	"Assignable",
	"Bug",
	"Build",
	"Comment",
	"Epic",
	"Feature",
	"General",
	"Impediment",
	"Iteration",
	"Project",
	"Release",
	"Request",
	"Task",
	"Team",
	"TeamIteration",
	"TestCase",
	"TestPlan",
	"TestPlanRun",
	"User",
	"UserStory",
}

// typeRefresh is the shared pending-refresh cell. It is published under the
// mutex before the remote call starts, so concurrent validators await the
// same result instead of triggering duplicate discovery calls. The done
// channel is closed exactly once, after types is set.
type typeRefresh struct {
	done  chan struct{}
	types []string
}

// ValidateEntityType checks the requested type against the capability cache
// and returns its canonical casing. A type absent from the (possibly
// fallback) known list fails with *tp.InvalidEntityTypeError.
func (c *Client) ValidateEntityType(ctx context.Context, entityType string) (string, error) {
	types := c.entityTypeList(ctx)

	for _, known := range types {
		if strings.EqualFold(known, entityType) {
			return known, nil
		}
	}

	return "", &tp.InvalidEntityTypeError{Type: entityType, Valid: types}
}

// GetValidEntityTypes returns the currently known entity type names,
// refreshing the capability cache when stale.
func (c *Client) GetValidEntityTypes(ctx context.Context) ([]string, error) {
	return c.entityTypeList(ctx), nil
}

// entityTypeList returns the cached type list, refreshing it when missing
// or older than the TTL. Refresh failures are recovered locally via the
// static fallback list and never surface to callers.
func (c *Client) entityTypeList(ctx context.Context) []string {
	c.mu.Lock()

	if c.entityTypes != nil && time.Since(c.typesFetchedAt) < c.typesTTL {
		types := c.entityTypes
		c.mu.Unlock()

		return types
	}

	if c.refresh != nil {
		pending := c.refresh
		c.mu.Unlock()

		<-pending.done

		return pending.types
	}

	pending := &typeRefresh{done: make(chan struct{})}
	c.refresh = pending
	c.mu.Unlock()

	types := c.fetchEntityTypes(ctx)

	c.mu.Lock()
	c.entityTypes = types
	// The fallback counts as a successful refresh so failures do not
	// cause refresh storms.
	c.typesFetchedAt = time.Now()
	c.refresh = nil
	c.mu.Unlock()

	pending.types = types
	close(pending.done)

	return types
}

// fetchEntityTypes performs the remote discovery call, falling back to the
// static list on any failure or empty result.
func (c *Client) fetchEntityTypes(ctx context.Context) []string {
	doc, err := c.FetchMetadata(ctx)
	if err != nil {
		c.warn("entity type discovery failed, using static list", map[string]interface{}{
			"error": err.Error(),
		})

		return StaticEntityTypes
	}

	names := doc.TypeNames()
	if len(names) == 0 {
		c.warn("entity type discovery returned no types, using static list", nil)

		return StaticEntityTypes
	}

	return names
}
