package carousel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pnll1991/expedicion-andina/internal/domain"
)

func TestSummaryFromSuppliedData(t *testing.T) {
	s := SummaryFromSuppliedData(4.5, 1)
	waitLoaded(t, s.Loaded())

	assert.False(t, s.Loading())
	assert.Equal(t, "4.5", s.RatingText())
	assert.Equal(t, StarBreakdown{Full: 4, Half: true}, s.Stars())
	assert.Equal(t, "1 reseña", s.CountLabel())
	assert.Equal(t, DefaultGoogleMapsURL, s.GoogleMapsURL())
}

func TestSummaryFromSuppliedData_Defaults(t *testing.T) {
	s := SummaryFromSuppliedData(0, 0)

	assert.Equal(t, domain.DefaultRating, s.Rating())
	assert.Equal(t, StarBreakdown{Full: 5}, s.Stars())
	assert.Empty(t, s.CountLabel())
}

func TestSummaryFromPlaceID_Merges(t *testing.T) {
	fetcher := &stubFetcher{
		release: make(chan struct{}),
		data:    &domain.AggregateRating{Rating: 4.3, TotalReviews: 88},
	}

	s := SummaryFromPlaceID(context.Background(), "p", fetcher, WithLogger(discardLogger()))
	defer s.Close()
	assert.True(t, s.Loading())

	close(fetcher.release)
	waitLoaded(t, s.Loaded())

	assert.False(t, s.Loading())
	assert.Equal(t, 4.3, s.Rating())
	assert.Equal(t, "88 reseñas", s.CountLabel())
}

func TestSummaryFromPlaceID_FailureKeepsDefaults(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("boom")}

	s := SummaryFromPlaceID(context.Background(), "p", fetcher, WithLogger(discardLogger()))
	waitLoaded(t, s.Loaded())

	assert.Equal(t, domain.DefaultRating, s.Rating())
	assert.Zero(t, s.TotalReviews())
}

func TestMountSummary_Branching(t *testing.T) {
	fetcher := &stubFetcher{data: &domain.AggregateRating{Rating: 3.9}}

	supplied := MountSummary(context.Background(), Props{PlaceID: "p", Rating: 4.7}, fetcher)
	assert.Equal(t, 4.7, supplied.Rating())
	assert.Zero(t, fetcher.calls.Load())

	fetched := MountSummary(context.Background(), Props{PlaceID: "p", GoogleMapsURL: "https://maps.example/y"}, fetcher)
	waitLoaded(t, fetched.Loaded())
	assert.Equal(t, 3.9, fetched.Rating())
	assert.Equal(t, "https://maps.example/y", fetched.GoogleMapsURL())
	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestSummaryClose_DiscardsLateResult(t *testing.T) {
	fetcher := &stubFetcher{
		release:   make(chan struct{}),
		ignoreCtx: true,
		data:      &domain.AggregateRating{Rating: 2.0},
	}

	s := SummaryFromPlaceID(context.Background(), "p", fetcher)
	s.Close()
	close(fetcher.release)

	assert.Never(t, func() bool { return s.Rating() != domain.DefaultRating }, 100*time.Millisecond, 10*time.Millisecond)
	assert.True(t, s.Loading())
}

func TestSummaryFromPlaceID_ReleasesFetchContext(t *testing.T) {
	fetcher := &stubFetcher{data: &domain.AggregateRating{Rating: 4.0}}

	s := SummaryFromPlaceID(context.Background(), "p", fetcher, WithLogger(discardLogger()))
	waitLoaded(t, s.Loaded())

	assert.Eventually(t, func() bool {
		return errors.Is(fetcher.ctx().Err(), context.Canceled)
	}, time.Second, 5*time.Millisecond)
}
