package provider

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/CatGalleryCrawler/internal/domain"
	"github.com/CatGalleryCrawler/pkg/pager"
	"github.com/sony/gobreaker"
)

const (
	// maxPages bounds a single crawl so a misbehaving upstream cannot keep
	// us walking windows forever.
	maxPages = 50

	// maxConsecutiveHandlerErrors aborts a crawl whose downstream keeps
	// failing page after page.
	maxConsecutiveHandlerErrors = 5
)

// CataasProvider fetches skip/limit windows from a cataas-style JSON API.
type CataasProvider struct {
	name        string
	baseURL     string
	pageSize    int
	client      *http.Client
	transformer domain.Transformer
	cb          *gobreaker.CircuitBreaker
}

func NewCataasProvider(name, baseURL string, pageSize int, transformer domain.Transformer) *CataasProvider {
	cbSettings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("CircuitBreaker state changed", "name", name, "from", from, "to", to)
		},
	}

	return &CataasProvider{
		name:     name,
		baseURL:  baseURL,
		pageSize: pageSize,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		transformer: transformer,
		cb:          gobreaker.NewCircuitBreaker(cbSettings),
	}
}

func (p *CataasProvider) GetName() string {
	return p.name
}

// FetchPage fetches the window identified by key (nil means the first page)
// and derives the neighbor keys from the fetched count.
func (p *CataasProvider) FetchPage(ctx context.Context, key *pager.Key) (pager.Result[domain.CatImage], error) {
	req := pager.BuildRequest(key, p.pageSize)

	k := pager.Key(0)
	if key != nil {
		k = *key
	}

	cats, err := p.fetchWindow(ctx, req)
	if err != nil {
		return pager.Result[domain.CatImage]{}, err
	}

	return pager.BuildResult(k, cats), nil
}

// Crawl walks pages sequentially from start, calling handler for every
// non-empty page. A failing handler skips its page; too many consecutive
// failures abort the crawl. A fetch error after at least one successful page
// ends the crawl with partial results rather than an error.
func (p *CataasProvider) Crawl(ctx context.Context, start *pager.Key, handler func(key pager.Key, cats []domain.CatImage) error) error {
	key := start
	pagesFetched := 0
	handlerFailures := 0

	slog.Debug("Starting paginated crawl", "provider", p.name, "page_size", p.pageSize)

	for pagesFetched < maxPages {
		k := pager.Key(0)
		if key != nil {
			k = *key
		}

		res, err := p.FetchPage(ctx, key)
		if err != nil {
			if pagesFetched > 0 {
				slog.Warn("Error fetching page, keeping partial results",
					"provider", p.name, "page", k, "error", err, "pages_fetched", pagesFetched)
				return nil
			}
			return err
		}
		pagesFetched++

		if len(res.Items) == 0 {
			slog.Debug("Empty page, crawl complete", "provider", p.name, "page", k)
			return nil
		}

		slog.Info("Fetched page",
			"provider", p.name,
			"page", k,
			"items_on_page", len(res.Items))

		if err := handler(k, res.Items); err != nil {
			handlerFailures++
			slog.Error("Page handler failed", "provider", p.name, "page", k, "error", err)
			if handlerFailures >= maxConsecutiveHandlerErrors {
				return fmt.Errorf("too many consecutive handler errors: %w", err)
			}
		} else {
			handlerFailures = 0
		}

		if res.NextKey == nil {
			return nil
		}
		key = res.NextKey
	}

	slog.Warn("Reached max pages limit", "provider", p.name, "max_pages", maxPages)
	return nil
}

func (p *CataasProvider) fetchWindow(ctx context.Context, window pager.Request) ([]domain.CatImage, error) {
	var body io.ReadCloser

	// Retry configuration
	maxRetries := 3
	backoff := 500 * time.Millisecond

	reqURL := p.buildURL(window)

	_, err := p.cb.Execute(func() (interface{}, error) {
		for i := 0; i <= maxRetries; i++ {
			if i > 0 {
				slog.Info("Retrying request", "provider", p.name, "skip", window.Skip, "attempt", i, "max_retries", maxRetries)
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(backoff):
					backoff *= 2
				}
			}

			req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
			if reqErr != nil {
				return nil, fmt.Errorf("failed to create request: %w", reqErr)
			}

			resp, respErr := p.client.Do(req)
			if respErr != nil {
				slog.Warn("Request failed", "provider", p.name, "skip", window.Skip, "error", respErr)
				continue
			}

			if resp.StatusCode >= 500 {
				if err := resp.Body.Close(); err != nil {
					slog.Warn("Failed to close response body", "error", err)
				}
				slog.Warn("Server error", "provider", p.name, "skip", window.Skip, "status_code", resp.StatusCode)
				continue
			}

			if resp.StatusCode != http.StatusOK {
				if err := resp.Body.Close(); err != nil {
					slog.Warn("Failed to close response body", "error", err)
				}
				// 4xx is a contract problem, retrying will not help
				return nil, fmt.Errorf("provider %s returned status %d", p.name, resp.StatusCode)
			}

			body = resp.Body
			return nil, nil
		}
		return nil, fmt.Errorf("max retries exceeded")
	})

	if err != nil {
		return nil, fmt.Errorf("circuit breaker execute failed: %w", err)
	}
	defer func() {
		if err := body.Close(); err != nil {
			slog.Warn("Failed to close response body", "error", err)
		}
	}()

	cats, err := p.transformer.Transform(body)
	if err != nil {
		return nil, fmt.Errorf("failed to transform cats from %s: %w", p.name, err)
	}

	return cats, nil
}

func (p *CataasProvider) buildURL(window pager.Request) string {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(window.Skip))
	q.Set("limit", strconv.Itoa(window.Limit))
	return fmt.Sprintf("%s/api/cats?%s", p.baseURL, q.Encode())
}
