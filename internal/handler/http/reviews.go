package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/pnll1991/expedicion-andina/internal/service"
	apperrors "github.com/pnll1991/expedicion-andina/pkg/errors"
	"github.com/pnll1991/expedicion-andina/pkg/httputil"
	"github.com/pnll1991/expedicion-andina/pkg/logger"
	"github.com/pnll1991/expedicion-andina/pkg/validator"
)

// ReviewsHandler serves the Google reviews passthrough.
type ReviewsHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewsHandler creates a new reviews HTTP handler.
func NewReviewsHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewsHandler {
	return &ReviewsHandler{
		service: svc,
		logger:  logger,
	}
}

// GetReviewsQuery holds the query parameters of GET /api/google-reviews.
type GetReviewsQuery struct {
	PlaceID string `query:"placeId" validate:"required"`
}

// errorBody is the flat error shape browsers already expect from this endpoint.
type errorBody struct {
	Error string `json:"error"`
}

// GetReviews handles GET /api/google-reviews?placeId=...
//
// Only a missing placeId fails the request (400). Every upstream problem still
// yields a defaulted payload; a transport failure marks it with status 500.
func (h *ReviewsHandler) GetReviews(w http.ResponseWriter, r *http.Request) {
	q := GetReviewsQuery{PlaceID: r.URL.Query().Get("placeId")}
	if err := validator.Validate(q); err != nil {
		var valErr *validator.ValidationError
		if errors.As(err, &valErr) {
			field, _ := valErr.First()
			err = apperrors.MissingParameter(field)
		}
		writeMissing(w, err)
		return
	}

	view, err := h.service.GetReviews(r.Context(), q.PlaceID)
	if view == nil {
		if errors.Is(err, apperrors.ErrMissingParameter) {
			writeMissing(w, err)
			return
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if err != nil {
		logger.FromContext(r.Context()).DebugContext(r.Context(), "serving degraded reviews",
			slog.String("error", err.Error()),
		)
	}
	httputil.WriteJSON(w, apperrors.HTTPStatus(err), view)
}

func writeMissing(w http.ResponseWriter, err error) {
	msg := "placeId is required"
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		msg = appErr.Message
	}
	httputil.WriteJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}
