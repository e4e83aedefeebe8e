package carousel

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/pnll1991/expedicion-andina/internal/domain"
)

// CountLabel renders the review count in Spanish, or "" when there are none.
func CountLabel(total int) string {
	switch {
	case total <= 0:
		return ""
	case total == 1:
		return "1 reseña"
	default:
		return strconv.Itoa(total) + " reseñas"
	}
}

// Summary is the compact rating badge: overall rating, stars and count.
type Summary struct {
	mapsURL string
	logger  *slog.Logger

	mu      sync.Mutex
	rating  float64
	total   int
	loading bool
	closed  bool
	cancel  context.CancelFunc
	loaded  chan struct{}
}

func newSummary(rating float64, total int, o options) *Summary {
	if rating == 0 {
		rating = domain.DefaultRating
	}
	if total < 0 {
		total = 0
	}
	return &Summary{
		mapsURL: o.mapsURL,
		logger:  o.logger,
		rating:  rating,
		total:   total,
		loaded:  make(chan struct{}),
	}
}

// SummaryFromSuppliedData builds a summary without any network call.
func SummaryFromSuppliedData(rating float64, total int, opts ...Option) *Summary {
	s := newSummary(rating, total, buildOptions(opts))
	close(s.loaded)
	return s
}

// SummaryFromPlaceID shows defaults and starts one fetch for placeID. Only the
// rating and the count are read from the answer.
func SummaryFromPlaceID(ctx context.Context, placeID string, fetcher Fetcher, opts ...Option) *Summary {
	s := newSummary(0, 0, buildOptions(opts))

	fetchCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.loading = true

	go func() {
		defer cancel()

		data, err := fetcher.FetchReviews(fetchCtx, placeID)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		s.loading = false
		switch {
		case err != nil:
			s.logger.DebugContext(fetchCtx, "summary fetch failed, keeping defaults",
				slog.String("place_id", placeID),
				slog.String("error", err.Error()),
			)
		case data != nil:
			if data.Rating != 0 {
				s.rating = data.Rating
			}
			if data.TotalReviews != 0 {
				s.total = data.TotalReviews
			}
		}
		close(s.loaded)
	}()
	return s
}

// MountSummary applies the same branching as Mount.
func MountSummary(ctx context.Context, props Props, fetcher Fetcher, opts ...Option) *Summary {
	opts = append(opts, WithGoogleMapsURL(props.GoogleMapsURL))
	if props.PlaceID != "" && props.Rating == 0 && fetcher != nil {
		return SummaryFromPlaceID(ctx, props.PlaceID, fetcher, opts...)
	}
	return SummaryFromSuppliedData(props.Rating, props.TotalReviews, opts...)
}

// Rating is the overall rating, 5.0 until a non-zero value is known.
func (s *Summary) Rating() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rating
}

// TotalReviews is the review count, 0 when unknown.
func (s *Summary) TotalReviews() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// Loading reports whether the fetch is still in flight.
func (s *Summary) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// RatingText is the rating with one decimal, e.g. "4.5".
func (s *Summary) RatingText() string {
	return fmt.Sprintf("%.1f", s.Rating())
}

// Stars splits the rating into the summary star row.
func (s *Summary) Stars() StarBreakdown {
	return Stars(s.Rating())
}

// CountLabel is the Spanish review count shown under the rating.
func (s *Summary) CountLabel() string {
	return CountLabel(s.TotalReviews())
}

// GoogleMapsURL is where the count links to.
func (s *Summary) GoogleMapsURL() string {
	return s.mapsURL
}

// Loaded is closed once the rating is settled.
func (s *Summary) Loaded() <-chan struct{} {
	return s.loaded
}

// Close abandons an in-flight fetch.
func (s *Summary) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
}
