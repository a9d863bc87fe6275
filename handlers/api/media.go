// handlers/api/media.go
package api

import (
	"context"
	"fmt"

	"xfront/models"
)

type paginatedMediaResponse struct {
	Media      []models.Media `json:"media"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalMedia int            `json:"total_media"`
}

// FetchUserMedia retrieves one page of the caller's own media registry.
func (c *Client) FetchUserMedia(ctx context.Context, page, pageSize int) (*models.PaginatedMedia, error) {
	var resp paginatedMediaResponse
	path := fmt.Sprintf("/media/user_media?page=%d&page_size=%d", page, pageSize)
	err := c.doJSON(ctx, "GET", path, nil, &resp,
		"Failed to fetch media due to a network or server error.")
	if err != nil {
		return nil, err
	}
	return models.NewPaginatedMedia(resp.Media, resp.Page, resp.PageSize, resp.TotalMedia), nil
}

// FetchAllMedia retrieves one page of every digest the caller may read.
func (c *Client) FetchAllMedia(ctx context.Context, page, pageSize int) (*models.PaginatedMedia, error) {
	var resp paginatedMediaResponse
	path := fmt.Sprintf("/media/all_media/?page=%d&page_size=%d", page, pageSize)
	err := c.doJSON(ctx, "GET", path, nil, &resp,
		"Failed to fetch media due to a network or server error.")
	if err != nil {
		return nil, err
	}
	return models.NewPaginatedMedia(resp.Media, resp.Page, resp.PageSize, resp.TotalMedia), nil
}

// FetchMediaAccessURL returns a time-limited signed URL for a media item.
func (c *Client) FetchMediaAccessURL(ctx context.Context, mediaID int) (string, error) {
	var resp struct {
		SignedURL string `json:"signed_url"`
	}
	path := fmt.Sprintf("/media/access/%d", mediaID)
	err := c.doJSON(ctx, "GET", path, nil, &resp,
		"Failed to fetch media access link due to a network or server error.")
	if err != nil {
		return "", err
	}
	return resp.SignedURL, nil
}

// FetchUploadURL returns a presigned upload URL for a new media item.
func (c *Client) FetchUploadURL(ctx context.Context, mediaName string) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	err := c.doJSON(ctx, "GET", "/media/upload-url/"+pathSegment(mediaName), nil, &resp,
		"Failed to fetch upload link due to a network or server error.")
	if err != nil {
		return "", err
	}
	return resp.URL, nil
}

// RegisterMediaResponse is the backend's acknowledgement of a registered
// upload.
type RegisterMediaResponse struct {
	MediaID   int     `json:"media_id"`
	CreatedAt string  `json:"created_at"`
	SizeInMB  float64 `json:"size_in_mb"`
}

// RegisterMedia registers an uploaded media item with the backend registry.
func (c *Client) RegisterMedia(ctx context.Context, mediaName string) (*RegisterMediaResponse, error) {
	var resp RegisterMediaResponse
	err := c.doJSON(ctx, "GET", "/media/register_media/"+pathSegment(mediaName), nil, &resp,
		"Failed to register media due to a network or server error.")
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteMedia removes a media item and its stored files.
func (c *Client) DeleteMedia(ctx context.Context, mediaID int, mediaName string) error {
	path := fmt.Sprintf("/media/%d/%s", mediaID, pathSegment(mediaName))
	return c.doJSON(ctx, "DELETE", path, nil, nil,
		"Failed to delete media due to a network or server error.")
}
