package carousel

import (
	"log/slog"
	"time"
)

// DefaultInterval is the auto-advance period.
const DefaultInterval = 5 * time.Second

// DefaultGoogleMapsURL is where the review count links to.
const DefaultGoogleMapsURL = "https://maps.app.goo.gl/DjfZtzKqLkPWHVVg8"

type options struct {
	interval  time.Duration
	newTicker TickerFunc
	logger    *slog.Logger
	onChange  func(Snapshot)
	now       func() time.Time
	mapsURL   string
}

func defaultOptions() options {
	return options{
		interval:  DefaultInterval,
		newTicker: NewRealTicker,
		logger:    slog.Default(),
		now:       time.Now,
		mapsURL:   DefaultGoogleMapsURL,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures a Controller or a Summary.
type Option func(*options)

// WithInterval overrides the auto-advance period. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.interval = d
		}
	}
}

// WithTicker replaces the ticker factory.
func WithTicker(f TickerFunc) Option {
	return func(o *options) {
		if f != nil {
			o.newTicker = f
		}
	}
}

// WithLogger sets the logger used for swallowed fetch failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithOnChange registers fn to be called after every change the controller
// makes on its own: an auto-advance tick or a completed fetch. fn runs on the
// controller's goroutines and must not call Close.
func WithOnChange(fn func(Snapshot)) Option {
	return func(o *options) { o.onChange = fn }
}

// WithClock sets the time source used to stamp fallback reviews.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithGoogleMapsURL sets the link target of the review count.
func WithGoogleMapsURL(u string) Option {
	return func(o *options) {
		if u != "" {
			o.mapsURL = u
		}
	}
}
