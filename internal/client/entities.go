package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/timofei-ponomarev/tp-client/internal/constants"
	internalhttp "github.com/timofei-ponomarev/tp-client/internal/http"
	"github.com/timofei-ponomarev/tp-client/pkg/tp"
)

// entityCollectionPath builds the collection path for an entity type.
// Targetprocess pluralizes collections by appending "s" to the type name.
func entityCollectionPath(entityType string) string {
	return constants.APIBasePath + "/" + entityType + "s"
}

// SearchEntities implements tp.Client.SearchEntities.
func (c *Client) SearchEntities(ctx context.Context, entityType string, params *tp.QueryParams) (*tp.EntityList, error) {
	canonical, err := c.ValidateEntityType(ctx, entityType)
	if err != nil {
		return nil, err
	}

	query := url.Values{}

	if params != nil {
		query, err = params.ToValues()
		if err != nil {
			return nil, err
		}
	}

	query.Set("format", "json")

	// The API silently truncates oversized takes; cap here so the effective
	// page size is visible on the wire.
	if take, atoiErr := strconv.Atoi(query.Get("take")); atoiErr == nil && take > constants.MaxPageSize {
		query.Set("take", strconv.Itoa(constants.MaxPageSize))
	}

	resp, err := c.httpClient.Get(ctx, entityCollectionPath(canonical), query)
	if err != nil {
		return nil, fmt.Errorf("searching %s entities: %w", canonical, err)
	}

	var result tp.EntityList

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, &tp.ParseError{Context: "parsing " + canonical + " search response", Err: err}
	}

	return &result, nil
}

// SearchAllEntities implements tp.Client.SearchAllEntities. It follows Next
// links until the result set is exhausted. The type name is canonicalized
// once up front so that every page, not just the first, uses the canonical
// collection path.
func (c *Client) SearchAllEntities(ctx context.Context, entityType string, params *tp.QueryParams) ([]tp.Entity, error) {
	canonical, err := c.ValidateEntityType(ctx, entityType)
	if err != nil {
		return nil, err
	}

	page, err := c.SearchEntities(ctx, canonical, params)
	if err != nil {
		return nil, err
	}

	items := page.Items

	for page.Next != "" {
		page, err = c.searchNext(ctx, canonical, page.Next)
		if err != nil {
			return nil, err
		}

		items = append(items, page.Items...)
	}

	return items, nil
}

// searchNext fetches the next page of a search. Next links are absolute
// URLs carrying the continuation query; only their query is reused so that
// auth injection and the base URL stay under this client's control.
func (c *Client) searchNext(ctx context.Context, entityType, next string) (*tp.EntityList, error) {
	parsed, err := url.Parse(next)
	if err != nil {
		return nil, &tp.ParseError{Context: "parsing next page link", Err: err}
	}

	query := parsed.Query()
	query.Set("format", "json")
	query.Del("access_token")

	resp, err := c.httpClient.Get(ctx, entityCollectionPath(entityType), query)
	if err != nil {
		return nil, fmt.Errorf("fetching next %s page: %w", entityType, err)
	}

	var result tp.EntityList

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, &tp.ParseError{Context: "parsing " + entityType + " search response", Err: err}
	}

	return &result, nil
}

// GetEntity implements tp.Client.GetEntity.
func (c *Client) GetEntity(ctx context.Context, entityType string, id int, include []string) (tp.Entity, error) {
	canonical, err := c.ValidateEntityType(ctx, entityType)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("format", "json")

	if len(include) > 0 {
		formatted, err := tp.FormatInclude(include)
		if err != nil {
			return nil, err
		}

		query.Set("include", formatted)
	}

	path := entityCollectionPath(canonical) + "/" + strconv.Itoa(id)

	resp, err := c.httpClient.Get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("getting %s %d: %w", canonical, id, err)
	}

	return decodeEntity(resp.Body, canonical)
}

// CreateEntity implements tp.Client.CreateEntity. The body is passed
// through as-is; retried creates may duplicate effects if the remote system
// does not deduplicate.
func (c *Client) CreateEntity(ctx context.Context, entityType string, body interface{}) (tp.Entity, error) {
	canonical, err := c.ValidateEntityType(ctx, entityType)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Post(ctx, entityCollectionPath(canonical), body)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", canonical, err)
	}

	return decodeEntity(resp.Body, canonical)
}

// UpdateEntity implements tp.Client.UpdateEntity. Updates are POSTs to the
// entity path with a partial body.
func (c *Client) UpdateEntity(ctx context.Context, entityType string, id int, body interface{}) (tp.Entity, error) {
	canonical, err := c.ValidateEntityType(ctx, entityType)
	if err != nil {
		return nil, err
	}

	path := entityCollectionPath(canonical) + "/" + strconv.Itoa(id)

	resp, err := c.httpClient.Do(ctx, &internalhttp.Request{
		Method: "POST",
		Path:   path,
		Body:   body,
	})
	if err != nil {
		return nil, fmt.Errorf("updating %s %d: %w", canonical, id, err)
	}

	return decodeEntity(resp.Body, canonical)
}

// decodeEntity decodes a single-entity response body.
func decodeEntity(body []byte, entityType string) (tp.Entity, error) {
	var entity tp.Entity

	err := json.Unmarshal(body, &entity)
	if err != nil {
		return nil, &tp.ParseError{Context: "parsing " + entityType + " response", Err: err}
	}

	return entity, nil
}
