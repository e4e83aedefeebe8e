// Package reviewsclient reads the reviews gateway's own endpoint.
package reviewsclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pnll1991/expedicion-andina/internal/domain"
	"github.com/pnll1991/expedicion-andina/pkg/httpclient"
)

const (
	reviewsPath  = "/api/google-reviews"
	maxBodyBytes = 1 << 20
)

// Client fetches the aggregate rating for a place from a running gateway.
type Client struct {
	doer    httpclient.Doer
	baseURL string
}

// New creates a client for the gateway at baseURL using a single-shot HTTP
// client with the given timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return NewWithDoer(httpclient.New(httpclient.SingleShotConfig(timeout)), baseURL)
}

// NewWithDoer creates a client around an existing Doer.
func NewWithDoer(doer httpclient.Doer, baseURL string) *Client {
	return &Client{
		doer:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// FetchReviews calls GET /api/google-reviews for placeID. Any JSON body is
// decoded, including the defaulted payload of a 500. Non-JSON answers (a 400,
// a proxy error page) are returned as *httpclient.StatusError.
func (c *Client) FetchReviews(ctx context.Context, placeID string) (*domain.AggregateRating, error) {
	target := c.baseURL + reviewsPath + "?placeId=" + url.QueryEscape(placeID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build reviews request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetch reviews: %w", err)
	}

	if resp.StatusCode == http.StatusBadRequest || !isJSON(resp.Header.Get("Content-Type")) {
		return nil, httpclient.ParseResponseError(resp, "reviews gateway")
	}
	defer func() { _ = resp.Body.Close() }()

	var out domain.AggregateRating
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode reviews (http %d): %w", resp.StatusCode, err)
	}
	return &out, nil
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "application/json"
}
