// Package carousel holds the state of the site's review carousel and rating
// summary: initial data or a one-shot fetch, auto-advance and navigation.
package carousel

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pnll1991/expedicion-andina/internal/domain"
)

// Fetcher loads the aggregate rating for a place.
// *reviewsclient.Client satisfies it.
type Fetcher interface {
	FetchReviews(ctx context.Context, placeID string) (*domain.AggregateRating, error)
}

// Supplied is data handed to the carousel up front.
type Supplied struct {
	Rating       float64
	TotalReviews int
	Reviews      []domain.Review
}

// Props mirror the inputs of the embedded widget.
type Props struct {
	PlaceID       string
	Rating        float64
	TotalReviews  int
	Reviews       []domain.Review
	GoogleMapsURL string
}

// Dot is one position indicator.
type Dot struct {
	Index  int
	Active bool
}

// Snapshot is everything needed to render the carousel at one instant.
type Snapshot struct {
	Rating        float64
	RatingText    string
	Stars         StarBreakdown
	TotalReviews  int
	TotalLabel    string
	GoogleMapsURL string
	Loading       bool

	Current      domain.Review
	CurrentStars int
	Active       int
	Count        int
	Dots         []Dot
	ShowControls bool
}

// Controller drives one carousel instance. All methods are safe for
// concurrent use.
type Controller struct {
	opts options

	// notifyMu orders onChange calls against Close so none fire after it.
	notifyMu sync.Mutex

	mu      sync.Mutex
	rating  float64
	total   int
	display []domain.Review
	active  int
	loading bool
	closed  bool
	cancel  context.CancelFunc
	loaded  chan struct{}

	ticker Ticker
	stop   chan struct{}
	gen    int
	wg     sync.WaitGroup
}

func newController(data Supplied, o options) *Controller {
	c := &Controller{
		opts:   o,
		rating: data.Rating,
		total:  data.TotalReviews,
		loaded: make(chan struct{}),
	}
	if c.rating == 0 {
		c.rating = domain.DefaultRating
	}
	if c.total < 0 {
		c.total = 0
	}
	return c
}

// FromSuppliedData builds a controller from data already at hand. It never
// touches the network.
func FromSuppliedData(data Supplied, opts ...Option) *Controller {
	c := newController(data, buildOptions(opts))
	close(c.loaded)

	c.mu.Lock()
	c.setReviewsLocked(data.Reviews)
	c.mu.Unlock()
	return c
}

// FromPlaceID builds a controller showing defaults and starts exactly one
// fetch for placeID. A failed fetch leaves the defaults in place.
func FromPlaceID(ctx context.Context, placeID string, fetcher Fetcher, opts ...Option) *Controller {
	c := newController(Supplied{}, buildOptions(opts))

	fetchCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	c.cancel = cancel
	c.loading = true
	c.setReviewsLocked(nil)
	c.mu.Unlock()

	go c.fetch(fetchCtx, cancel, fetcher, placeID)
	return c
}

// Mount fetches when a place id is given and no rating was supplied, and uses
// the supplied data otherwise.
func Mount(ctx context.Context, props Props, fetcher Fetcher, opts ...Option) *Controller {
	opts = append(opts, WithGoogleMapsURL(props.GoogleMapsURL))
	if props.PlaceID != "" && props.Rating == 0 && fetcher != nil {
		return FromPlaceID(ctx, props.PlaceID, fetcher, opts...)
	}
	return FromSuppliedData(Supplied{
		Rating:       props.Rating,
		TotalReviews: props.TotalReviews,
		Reviews:      props.Reviews,
	}, opts...)
}

func (c *Controller) fetch(ctx context.Context, cancel context.CancelFunc, fetcher Fetcher, placeID string) {
	defer cancel()

	data, err := fetcher.FetchReviews(ctx, placeID)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.loading = false
	if err != nil {
		c.opts.logger.DebugContext(ctx, "review fetch failed, keeping defaults",
			slog.String("place_id", placeID),
			slog.String("error", err.Error()),
		)
	} else if data != nil {
		if data.Rating != 0 {
			c.rating = data.Rating
		}
		if data.TotalReviews != 0 {
			c.total = data.TotalReviews
		}
		if len(data.Reviews) > 0 {
			c.setReviewsLocked(data.Reviews)
		}
	}
	close(c.loaded)
	c.mu.Unlock()

	c.notify()
}

// SetReviews replaces the real reviews. An empty slice brings back the
// fallback reviews.
func (c *Controller) SetReviews(reviews []domain.Review) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.setReviewsLocked(reviews)
}

// setReviewsLocked installs the effective sequence, resets an out of range
// index and restarts auto-advance when the length changed.
func (c *Controller) setReviewsLocked(reviews []domain.Review) {
	prev := len(c.display)

	if len(reviews) == 0 {
		c.display = fallbackReviews(c.opts.now().Unix())
	} else {
		c.display = append([]domain.Review(nil), reviews...)
	}

	if c.active >= len(c.display) {
		c.active = 0
	}
	if prev != len(c.display) {
		c.restartTickerLocked()
	}
}

func (c *Controller) restartTickerLocked() {
	c.stopTickerLocked()
	if c.closed || len(c.display) < 2 {
		return
	}

	c.gen++
	t := c.opts.newTicker(c.opts.interval)
	stop := make(chan struct{})
	c.ticker, c.stop = t, stop

	c.wg.Add(1)
	go c.runTicker(t, stop, c.gen)
}

func (c *Controller) stopTickerLocked() {
	if c.ticker == nil {
		return
	}
	c.ticker.Stop()
	close(c.stop)
	c.ticker, c.stop = nil, nil
	c.gen++
}

func (c *Controller) runTicker(t Ticker, stop <-chan struct{}, gen int) {
	defer c.wg.Done()
	for {
		select {
		case <-stop:
			return
		case <-t.C():
			if c.advance(gen) {
				c.notify()
			}
		}
	}
}

func (c *Controller) advance(gen int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.gen || len(c.display) < 2 {
		return false
	}
	c.active = (c.active + 1) % len(c.display)
	return true
}

func (c *Controller) notify() {
	if c.opts.onChange == nil {
		return
	}
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.opts.onChange(snap)
}

// Next shows the following review, wrapping to the first.
func (c *Controller) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = (c.active + 1) % len(c.display)
}

// Previous shows the preceding review, wrapping to the last.
func (c *Controller) Previous() {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.display)
	c.active = (c.active - 1 + n) % n
}

// GoTo jumps to review i. Out of range indexes are ignored.
func (c *Controller) GoTo(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i >= 0 && i < len(c.display) {
		c.active = i
	}
}

// Loading reports whether the initial fetch is still in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Loaded is closed once the initial data is settled: immediately for supplied
// data, when the fetch completes otherwise. It stays open if Close wins.
func (c *Controller) Loaded() <-chan struct{} {
	return c.loaded
}

// View returns the current render state.
func (c *Controller) View() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	n := len(c.display)
	dots := make([]Dot, n)
	for i := range dots {
		dots[i] = Dot{Index: i, Active: i == c.active}
	}
	current := c.display[c.active]

	return Snapshot{
		Rating:        c.rating,
		RatingText:    fmt.Sprintf("%.1f", c.rating),
		Stars:         Stars(c.rating),
		TotalReviews:  c.total,
		TotalLabel:    CountLabel(c.total),
		GoogleMapsURL: c.opts.mapsURL,
		Loading:       c.loading,
		Current:       current,
		CurrentStars:  FilledStars(current.Rating),
		Active:        c.active,
		Count:         n,
		Dots:          dots,
		ShowControls:  n > 1,
	}
}

// Close stops auto-advance and abandons an in-flight fetch. No onChange call
// starts after Close returns. Close is idempotent.
func (c *Controller) Close() {
	c.notifyMu.Lock()
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.notifyMu.Unlock()
		return
	}
	c.closed = true
	c.stopTickerLocked()
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()
	c.notifyMu.Unlock()

	c.wg.Wait()
}
