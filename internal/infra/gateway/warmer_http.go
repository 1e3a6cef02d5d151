package gateway

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/CatGalleryCrawler/internal/domain"
)

// HTTPImageWarmer warms an image by issuing a GET against its URL and
// draining the body, so the upstream CDN caches it before any gallery client
// asks for it.
type HTTPImageWarmer struct {
	client *http.Client
}

func NewHTTPImageWarmer() *HTTPImageWarmer {
	return &HTTPImageWarmer{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (g *HTTPImageWarmer) Warm(ctx context.Context, cat *domain.CatImage) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cat.ImageURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create warm request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to warm image %s: %w", cat.ID, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("Failed to close warm response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("warm request for %s returned status %d", cat.ID, resp.StatusCode)
	}

	n, err := io.Copy(io.Discard, resp.Body)
	if err != nil {
		return fmt.Errorf("failed to drain image body for %s: %w", cat.ID, err)
	}

	slog.Debug("Image warmed", "cat_id", cat.ID, "bytes", n)
	return nil
}
