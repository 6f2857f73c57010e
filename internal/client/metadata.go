package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/timofei-ponomarev/tp-client/internal/constants"
	"github.com/timofei-ponomarev/tp-client/pkg/tp"
)

// FetchMetadata implements tp.Client.FetchMetadata. Successful documents
// are kept in the response cache for the entity-types TTL.
func (c *Client) FetchMetadata(ctx context.Context) (*tp.MetadataDocument, error) {
	if entry, err := c.responseCache.Get(ctx, constants.MetadataCacheKey); err == nil {
		doc, err := decodeMetadata(entry.Data)
		if err == nil {
			return doc, nil
		}
	}

	query := url.Values{}
	query.Set("format", "json")

	resp, err := c.httpClient.Get(ctx, constants.APIBasePath+"/Index/meta", query)
	if err != nil {
		return nil, fmt.Errorf("fetching metadata: %w", err)
	}

	doc, err := decodeMetadata(resp.Body)
	if err != nil {
		return nil, err
	}

	_ = c.responseCache.Set(ctx, constants.MetadataCacheKey, &tp.CacheEntry{
		Data:      resp.Body,
		ExpiresAt: time.Now().Add(c.typesTTL),
	})

	return doc, nil
}

// decodeMetadata decodes the metadata document, attempting the one-shot
// textual repair before giving up.
func decodeMetadata(body []byte) (*tp.MetadataDocument, error) {
	var doc tp.MetadataDocument

	err := json.Unmarshal(body, &doc)
	if err == nil {
		return &doc, nil
	}

	repairErr := json.Unmarshal(repairMetadataJSON(body), &doc)
	if repairErr != nil {
		return nil, &tp.ParseError{Context: "parsing metadata response", Err: err}
	}

	return &doc, nil
}

// repairMetadataJSON patches the one malformation the metadata endpoint has
// been observed to produce: adjacent objects with the separating comma
// missing. It is a narrow patch, not a general JSON repair facility.
func repairMetadataJSON(body []byte) []byte {
	repaired := strings.ReplaceAll(string(body), "}{", "},{")
	repaired = strings.ReplaceAll(repaired, "}\n{", "},\n{")

	return []byte(repaired)
}
