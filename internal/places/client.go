package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pnll1991/expedicion-andina/pkg/httpclient"
	"github.com/pnll1991/expedicion-andina/pkg/tracing"
)

const (
	detailsPath = "/maps/api/place/details/json"

	// detailsFields limits the upstream response to what the site renders.
	detailsFields = "rating,user_ratings_total,reviews"

	// StatusOK is the Places API status of a successful lookup.
	StatusOK = "OK"

	// maxBodyBytes bounds how much of an upstream response is decoded.
	maxBodyBytes = 2 << 20
)

// DetailsResponse is the subset of a Place Details answer the service reads.
type DetailsResponse struct {
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message,omitempty"`
	Result       *Result `json:"result,omitempty"`
}

// Result carries the aggregate rating and the reviews Google chose to return.
type Result struct {
	Rating           float64  `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	Reviews          []Review `json:"reviews"`
}

// Review is one upstream review in Google's field naming.
type Review struct {
	AuthorName              string `json:"author_name"`
	ProfilePhotoURL         string `json:"profile_photo_url"`
	Rating                  int    `json:"rating"`
	Text                    string `json:"text"`
	Time                    int64  `json:"time"`
	RelativeTimeDescription string `json:"relative_time_description"`
}

// Client calls the Google Place Details endpoint. It makes exactly one HTTP
// request per Details call; retry policy belongs to the Doer.
type Client struct {
	doer    httpclient.Doer
	baseURL string
	apiKey  string
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewClient creates a Places client. An empty apiKey yields a client that
// reports itself unconfigured and never touches the network.
func NewClient(doer httpclient.Doer, baseURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		doer:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		logger:  logger,
		tracer:  tracing.Tracer("github.com/pnll1991/expedicion-andina/internal/places"),
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Details fetches rating, rating count and reviews for placeID. A non-nil
// error means no usable answer was received (network, breaker, 5xx or an
// undecodable body). Bodies of other statuses are decoded and their Places
// status returned as data.
func (c *Client) Details(ctx context.Context, placeID string) (*DetailsResponse, error) {
	if !c.Configured() {
		return nil, errors.New("places: api key not configured")
	}

	ctx, span := c.tracer.Start(ctx, "places.details",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("places.place_id", placeID)),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.detailsURL(placeID), http.NoBody)
	if err != nil {
		return nil, c.fail(span, fmt.Errorf("build details request: %w", redact(err)))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		return nil, c.fail(span, fmt.Errorf("call place details: %w", redact(err)))
	}
	defer func() { _ = resp.Body.Close() }()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	// A 5xx is a failure whether or not a circuit breaker sits in the Doer.
	if httpclient.IsServerError(resp.StatusCode) {
		return nil, c.fail(span, httpclient.ParseResponseError(resp, "google places"))
	}

	// The Places API reports failures in the body's status field, so any
	// response that decodes is handed back for the caller to classify.
	var out DetailsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&out); err != nil {
		return nil, c.fail(span, fmt.Errorf("decode place details (http %d): %w", resp.StatusCode, err))
	}

	span.SetAttributes(attribute.String("places.status", out.Status))
	if out.Result != nil {
		span.SetAttributes(attribute.Int("places.review_count", len(out.Result.Reviews)))
	}
	c.logger.DebugContext(ctx, "place details received",
		slog.String("place_id", placeID),
		slog.String("status", out.Status),
		slog.Int("http_status", resp.StatusCode),
	)

	return &out, nil
}

func (c *Client) detailsURL(placeID string) string {
	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", detailsFields)
	q.Set("key", c.apiKey)
	return c.baseURL + detailsPath + "?" + q.Encode()
}

func (c *Client) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// redact strips the query string, and with it the API key, from a *url.Error
// anywhere in err's chain. The outer messages were formatted with the key
// already in them, so the redacted *url.Error is returned in their place.
func redact(err error) error {
	var uerr *url.Error
	if !errors.As(err, &uerr) {
		return err
	}
	if u, perr := url.Parse(uerr.URL); perr == nil {
		u.RawQuery = ""
		uerr.URL = u.String()
	} else {
		uerr.URL = "<redacted>"
	}
	return uerr
}
