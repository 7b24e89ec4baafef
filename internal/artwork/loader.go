package artwork

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"time"

	_ "golang.org/x/image/webp"
)

// Loader fetches and decodes an image.
type Loader interface {
	Load(ctx context.Context, url string) (image.Image, error)
}

// HTTPLoader loads artwork over HTTP.
type HTTPLoader struct {
	client *http.Client
}

const loadTimeout = 10 * time.Second

// NewHTTPLoader returns a loader using client, or a client with a sane timeout
// when client is nil.
func NewHTTPLoader(client *http.Client) *HTTPLoader {
	if client == nil {
		client = &http.Client{Timeout: loadTimeout}
	}
	return &HTTPLoader{client: client}
}

// Load downloads and decodes the image at url.
func (l *HTTPLoader) Load(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}
	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}
