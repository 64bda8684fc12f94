package menuapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/forkflame/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Client handles communication with the public food-menu API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new food-menu API client
func NewClient(baseURL string, requestTimeout time.Duration) *Client {
	if requestTimeout <= 0 {
		requestTimeout = 10 * time.Second
	}

	// The public API is unauthenticated; stay well clear of abuse limits.
	// 5 requests/second with room for one burst of parallel category fetches.
	limiter := rate.NewLimiter(rate.Limit(5), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// SetDebug enables verbose request logging
func (c *Client) SetDebug(enabled bool) {
	c.debug = enabled
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "ForkFlame/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMenuAPIFailure, err)
	}

	return resp, nil
}

// FetchCategory retrieves the raw food list for one category and maps it to
// catalog items stamped with the category discriminator.
// One built-in retry for transient failures; further recovery is the
// aggregator's concern.
func (c *Client) FetchCategory(ctx context.Context, category domain.Category) ([]domain.CatalogItem, error) {
	if _, err := domain.ParseCategory(string(category)); err != nil {
		return nil, err
	}
	return c.fetchPath(ctx, category.Path(), category)
}

// FetchFeatured retrieves the best-foods subset.
func (c *Client) FetchFeatured(ctx context.Context) ([]domain.CatalogItem, error) {
	items, err := c.fetchPath(ctx, domain.CategoryFeatured.Path(), domain.CategoryFeatured)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFeaturedUnavailable, err)
	}
	return items, nil
}

// fetchPath performs the GET with up to one retry and decodes the body.
func (c *Client) fetchPath(ctx context.Context, path string, category domain.Category) ([]domain.CatalogItem, error) {
	reqURL := c.baseURL + path

	var lastErr error
	for attempt := 1; attempt <= 2; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if c.debug {
				log.Printf("[MENUAPI] request error (attempt %d) for %s: %v", attempt, path, err)
			}
			lastErr = err
			time.Sleep(time.Duration(attempt) * 250 * time.Millisecond)
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			if c.debug {
				log.Printf("[MENUAPI] status %d (attempt %d) for %s", resp.StatusCode, attempt, path)
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrMenuAPIFailure, resp.StatusCode)
			time.Sleep(time.Duration(attempt) * 250 * time.Millisecond)
			continue
		}

		var raw []rawFood
		if err := json.Unmarshal(body, &raw); err != nil {
			// Malformed body is not transient; bail without a retry.
			return nil, fmt.Errorf("failed to decode %s response: %w", path, err)
		}

		if c.debug {
			log.Printf("[MENUAPI] %s returned %d items", path, len(raw))
		}
		return mapRawFoods(raw, category), nil
	}

	return nil, lastErr
}
