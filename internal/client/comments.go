package client

import (
	"context"
	"fmt"

	"github.com/timofei-ponomarev/tp-client/internal/constants"
	"github.com/timofei-ponomarev/tp-client/pkg/tp"
)

// CreateComment implements tp.Client.CreateComment.
func (c *Client) CreateComment(ctx context.Context, request *tp.CommentCreateRequest) (tp.Entity, error) {
	resp, err := c.httpClient.Post(ctx, constants.APIBasePath+"/Comments", request)
	if err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	return decodeEntity(resp.Body, "Comment")
}
