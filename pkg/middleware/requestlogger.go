package middleware

import (
	"log/slog"
	"net/http"

	"github.com/pnll1991/expedicion-andina/pkg/logger"
)

// PlaceIDParam is the query parameter naming the Google place being looked up.
const PlaceIDParam = "placeId"

// RequestLogger stores a request-scoped logger in the context, enriched with
// correlation_id, place_id, trace_id and span_id. Handlers fetch it with
// logger.FromContext.
//
// Mount it after RequestLogging and Tracing so both ids are already present.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if placeID := r.URL.Query().Get(PlaceIDParam); placeID != "" {
				ctx = logger.WithPlaceID(ctx, placeID)
			}

			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
