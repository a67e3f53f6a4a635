// Package catalog implements the upstream reviews API client. The widget
// treats the upstream schema as opaque: it decodes exactly the fields it
// renders and forwards everything else untouched.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/afmejia23/reviews-and-ratings/internal/domain"
	"github.com/afmejia23/reviews-and-ratings/pkg/httpclient"
)

// HTTPDoer is the interface for executing HTTP requests.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client calls the catalog reviews API.
type Client struct {
	httpClient HTTPDoer
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a catalog reviews client.
func NewClient(httpClient HTTPDoer, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     logger,
	}
}

type countResponse struct {
	Count int `json:"count"`
}

type ratingResponse struct {
	Average float64 `json:"average"`
}

type listResponse struct {
	Reviews []domain.Review `json:"reviews"`
}

// TotalCount returns the number of published reviews for a product.
func (c *Client) TotalCount(ctx context.Context, productID string) (int, error) {
	endpoint := fmt.Sprintf("%s/products/%s/reviews/count", c.baseURL, url.PathEscape(productID))

	var body countResponse
	if err := c.getJSON(ctx, endpoint, "review count", &body); err != nil {
		return 0, err
	}
	return body.Count, nil
}

// AverageRating returns the product's average rating. Which reviews count
// toward the average (moderation, verified-only) is the upstream's contract.
func (c *Client) AverageRating(ctx context.Context, productID string) (float64, error) {
	endpoint := fmt.Sprintf("%s/products/%s/reviews/rating", c.baseURL, url.PathEscape(productID))

	var body ratingResponse
	if err := c.getJSON(ctx, endpoint, "average rating", &body); err != nil {
		return 0, err
	}
	return body.Average, nil
}

// ListReviews fetches one page of reviews. Pages are never cached: the
// request always goes to the upstream.
func (c *Client) ListReviews(ctx context.Context, productID string, offset, limit int, sort domain.SortKey) ([]domain.Review, error) {
	endpoint := fmt.Sprintf("%s/products/%s/reviews", c.baseURL, url.PathEscape(productID))

	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))
	q.Set("sort", string(sort))
	endpoint += "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build review list request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetch review list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "review list")
	}

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode review list: %w", err)
	}
	return body.Reviews, nil
}

// SubmitReviewInput is the submission payload forwarded to the upstream.
type SubmitReviewInput struct {
	Rating       int    `json:"rating"`
	Title        string `json:"title"`
	Body         string `json:"body"`
	ReviewerName string `json:"reviewer_name"`
	ReviewerID   string `json:"reviewer_id,omitempty"`
}

// SubmitReview forwards a new review to the upstream and returns it as
// accepted there. Whether it is immediately published or held for moderation
// is decided upstream.
func (c *Client) SubmitReview(ctx context.Context, productID string, input SubmitReviewInput) (domain.Review, error) {
	endpoint := fmt.Sprintf("%s/products/%s/reviews", c.baseURL, url.PathEscape(productID))

	payload, err := json.Marshal(input)
	if err != nil {
		return domain.Review{}, fmt.Errorf("marshal review submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return domain.Review{}, fmt.Errorf("build review submission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return domain.Review{}, fmt.Errorf("submit review: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return domain.Review{}, httpclient.ParseResponseError(resp, "review submission")
	}

	var review domain.Review
	if err := json.NewDecoder(resp.Body).Decode(&review); err != nil {
		return domain.Review{}, fmt.Errorf("decode submitted review: %w", err)
	}
	return review, nil
}

// Ping checks upstream reachability for readiness probes.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("ping catalog api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("catalog api unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, operation string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", operation, err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return httpclient.ParseResponseError(resp, operation)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode %s: %w", operation, err)
	}
	return nil
}
