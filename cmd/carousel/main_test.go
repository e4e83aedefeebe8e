package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pnll1991/expedicion-andina/internal/carousel"
	"github.com/pnll1991/expedicion-andina/internal/domain"
)

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	render(&buf, carousel.Snapshot{
		RatingText:    "4.5",
		Stars:         carousel.Stars(4.5),
		TotalLabel:    "2 reseñas",
		GoogleMapsURL: carousel.DefaultGoogleMapsURL,
		Current:       domain.Review{AuthorName: "Lucía", Text: "Hermoso", RelativeTimeDescription: "hace 1 día"},
		CurrentStars:  4,
		Dots:          []carousel.Dot{{Index: 0, Active: true}, {Index: 1}},
		ShowControls:  true,
	})

	out := buf.String()
	assert.Contains(t, out, "★★★★⯨  4.5  2 reseñas en Google")
	assert.Contains(t, out, `"Hermoso"`)
	assert.Contains(t, out, "Lucía ★★★★☆ hace 1 día")
	assert.Contains(t, out, "< ●· >")
}

func TestRun_FetchesAndNavigates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rating":4.9,"totalReviews":2,"reviews":[
			{"authorName":"Sofía","authorPhoto":null,"rating":5,"text":"uno","time":1,"relativeTimeDescription":"ayer"},
			{"authorName":"Tomás","authorPhoto":null,"rating":4,"text":"dos","time":2,"relativeTimeDescription":"hoy"}]}`))
	}))
	defer srv.Close()

	// Give the fetch time to land before navigating.
	in, writer := io.Pipe()
	go func() {
		time.Sleep(200 * time.Millisecond)
		_, _ = writer.Write([]byte("n\nq\n"))
	}()

	var out syncBuffer
	err := run(context.Background(), in, &out, slog.New(slog.NewTextHandler(io.Discard, nil)), previewConfig{
		apiURL:   srv.URL,
		placeID:  "ChIJ-andes",
		interval: time.Hour,
		timeout:  time.Second,
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "4.9")
	assert.True(t, strings.Contains(text, "Tomás"), text)
}
