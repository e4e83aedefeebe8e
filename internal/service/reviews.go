package service

import (
	"context"
	"log/slog"

	"github.com/pnll1991/expedicion-andina/internal/domain"
	"github.com/pnll1991/expedicion-andina/internal/places"
	apperrors "github.com/pnll1991/expedicion-andina/pkg/errors"
)

// Messages placed in the degraded payload. Clients match on them verbatim.
const (
	MsgUnconfigured = "Google Places API key not configured"
	MsgRejected     = "Could not fetch reviews"
	MsgTransport    = "Failed to fetch reviews"
)

// PlacesAPI is the upstream the service reads reviews from.
// *places.Client satisfies it.
type PlacesAPI interface {
	Configured() bool
	Details(ctx context.Context, placeID string) (*places.DetailsResponse, error)
}

// ReviewService turns one Place Details lookup into the site's review payload.
type ReviewService struct {
	places PlacesAPI
	logger *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(p PlacesAPI, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		places: p,
		logger: logger,
	}
}

// GetReviews returns the aggregate rating and up to ten reviews for placeID.
//
// The returned view is nil only for a missing placeID. Every upstream problem
// is absorbed: the view holds defaults plus an explanation and err carries the
// kind, so callers respond with the view and apperrors.HTTPStatus(err).
func (s *ReviewService) GetReviews(ctx context.Context, placeID string) (*domain.AggregateRating, error) {
	if placeID == "" {
		return nil, apperrors.MissingParameter("placeId")
	}

	if !s.places.Configured() {
		placesRequestsTotal.WithLabelValues(outcomeUnconfigured).Inc()
		view := domain.DefaultAggregate()
		view.Message = MsgUnconfigured
		return view, apperrors.Unconfigured(MsgUnconfigured)
	}

	resp, err := s.places.Details(ctx, placeID)
	if err != nil {
		placesRequestsTotal.WithLabelValues(outcomeTransport).Inc()
		s.logger.ErrorContext(ctx, "failed to fetch google reviews",
			slog.String("place_id", placeID),
			slog.String("error", err.Error()),
		)
		view := domain.DefaultAggregate()
		view.Error = MsgTransport
		return view, apperrors.TransportFailure(MsgTransport, err)
	}

	if resp.Status != places.StatusOK || resp.Result == nil {
		placesRequestsTotal.WithLabelValues(outcomeRejected).Inc()
		s.logger.WarnContext(ctx, "google places returned no usable result",
			slog.String("place_id", placeID),
			slog.String("status", resp.Status),
			slog.String("error_message", resp.ErrorMessage),
		)
		view := domain.DefaultAggregate()
		view.Error = MsgRejected
		return view, apperrors.UpstreamRejected(MsgRejected, nil)
	}

	placesRequestsTotal.WithLabelValues(outcomeOK).Inc()
	return toAggregate(resp.Result), nil
}

// toAggregate maps an upstream result, defaulting a zero rating to 5.0.
func toAggregate(r *places.Result) *domain.AggregateRating {
	view := domain.DefaultAggregate()
	if r.Rating != 0 {
		view.Rating = r.Rating
	}
	view.TotalReviews = r.UserRatingsTotal

	reviews := make([]domain.Review, 0, len(r.Reviews))
	for _, rv := range r.Reviews {
		reviews = append(reviews, domain.Review{
			AuthorName:              rv.AuthorName,
			AuthorPhoto:             domain.PhotoURL(rv.ProfilePhotoURL),
			Rating:                  rv.Rating,
			Text:                    rv.Text,
			Time:                    rv.Time,
			RelativeTimeDescription: rv.RelativeTimeDescription,
		})
	}
	view.Reviews = domain.Truncate(reviews)
	return view
}
