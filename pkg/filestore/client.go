package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// URLCache remembers resolved download URLs. Implementations may fail; the
// client then falls back to asking the file service.
type URLCache interface {
	Get(ctx context.Context, objectKey string) (string, bool, error)
	Set(ctx context.Context, objectKey, downloadURL string) error
}

// Client talks to the file-storage service, which owns uploaded bytes and
// issues download URLs for stored object keys.
type Client struct {
	baseURL string
	httpDo  *http.Client
	cache   URLCache
	log     *slog.Logger
}

type downloadURLResponse struct {
	DownloadURL string `json:"download_url"`
}

// NewClient builds a client. cache may be nil.
func NewClient(baseURL string, timeout time.Duration, cache URLCache, log *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpDo:  &http.Client{Timeout: timeout},
		cache:   cache,
		log:     log.With("component", "filestore_client"),
	}
}

// ResolveDownloadURL returns a retrievable URL for objectKey. ok is false
// whenever the file service could not produce one; the cause is logged.
func (c *Client) ResolveDownloadURL(ctx context.Context, objectKey string) (string, bool) {
	if c.cache != nil {
		cached, hit, err := c.cache.Get(ctx, objectKey)
		if err != nil {
			c.log.WarnContext(ctx, "download url cache read failed", "error", err)
		} else if hit {
			return cached, true
		}
	}

	downloadURL, err := c.fetchDownloadURL(ctx, objectKey)
	if err != nil {
		c.log.ErrorContext(ctx, "error requesting download url", "object_key", objectKey, "error", err)
		return "", false
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, objectKey, downloadURL); err != nil {
			c.log.WarnContext(ctx, "download url cache write failed", "error", err)
		}
	}
	return downloadURL, true
}

func (c *Client) fetchDownloadURL(ctx context.Context, objectKey string) (string, error) {
	endpoint := fmt.Sprintf("%s/files/download-url?%s", c.baseURL, url.Values{"object_key": {objectKey}}.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpDo.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("file service http %d", resp.StatusCode)
	}

	var out downloadURLResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode download url response: %w", err)
	}
	if out.DownloadURL == "" {
		return "", fmt.Errorf("file service returned no download_url")
	}
	return out.DownloadURL, nil
}
