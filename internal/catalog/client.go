// Package catalog reads pose records from the external pose catalog.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/isdelr/yoga-collections-be/internal/common"
	"github.com/isdelr/yoga-collections-be/internal/models"
)

// maxBodyBytes bounds how much of an upstream response is read.
const maxBodyBytes = 4 << 20

// Client is an HTTP client for the pose catalog.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a catalog client for baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Random returns one pose picked by the catalog.
func (c *Client) Random(ctx context.Context) (models.Pose, error) {
	var pose models.Pose
	if err := c.get(ctx, "/poses/random", &pose); err != nil {
		return models.Pose{}, err
	}
	return pose, nil
}

// Search returns the poses whose description matches keyword.
func (c *Client) Search(ctx context.Context, keyword string) ([]models.Pose, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, common.Validation("keyword is required")
	}

	poses := []models.Pose{}
	if err := c.get(ctx, "/poses/search/"+url.PathEscape(keyword), &poses); err != nil {
		return nil, err
	}
	if poses == nil {
		poses = []models.Pose{}
	}
	return poses, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog %s: %w: %w", path, common.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return fmt.Errorf("catalog %s: %w: status %d", path, common.ErrUpstream, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("catalog %s: %w: decode: %w", path, common.ErrUpstream, err)
	}
	return nil
}
