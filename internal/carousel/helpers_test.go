package carousel

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pnll1991/expedicion-andina/internal/domain"
)

type manualTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }
func (m *manualTicker) Stop()               { m.stopped.Store(true) }

type tickerFactory struct {
	mu        sync.Mutex
	made      []*manualTicker
	intervals []time.Duration
}

func (f *tickerFactory) New(d time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &manualTicker{ch: make(chan time.Time, 1)}
	f.made = append(f.made, t)
	f.intervals = append(f.intervals, d)
	return t
}

func (f *tickerFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.made)
}

func (f *tickerFactory) first() *manualTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.made[0]
}

func (f *tickerFactory) last() *manualTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.made[len(f.made)-1]
}

type stubFetcher struct {
	data      *domain.AggregateRating
	err       error
	release   chan struct{}
	ignoreCtx bool
	calls     atomic.Int32

	mu      sync.Mutex
	lastCtx context.Context
}

func (f *stubFetcher) FetchReviews(ctx context.Context, _ string) (*domain.AggregateRating, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.lastCtx = ctx
	f.mu.Unlock()
	if f.release != nil {
		if f.ignoreCtx {
			<-f.release
		} else {
			select {
			case <-f.release:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return f.data, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// harness wires a controller to a manual ticker and a change channel.
type harness struct {
	tickers *tickerFactory
	changes chan Snapshot
}

func newHarness() *harness {
	return &harness{tickers: &tickerFactory{}, changes: make(chan Snapshot, 16)}
}

func (h *harness) opts() []Option {
	return []Option{
		WithTicker(h.tickers.New),
		WithLogger(discardLogger()),
		WithOnChange(func(s Snapshot) { h.changes <- s }),
	}
}

// tick fires the current ticker and waits for the resulting change.
func (h *harness) tick(t *testing.T) Snapshot {
	t.Helper()
	h.tickers.last().ch <- time.Now()
	return h.wait(t)
}

func (h *harness) wait(t *testing.T) Snapshot {
	t.Helper()
	select {
	case s := <-h.changes:
		return s
	case <-time.After(2 * time.Second):
		require.FailNow(t, "no change observed")
		return Snapshot{}
	}
}

func reviewsNamed(names ...string) []domain.Review {
	out := make([]domain.Review, len(names))
	for i, n := range names {
		out[i] = domain.Review{AuthorName: n, Rating: 5, Text: "texto de " + n}
	}
	return out
}

func names(reviews []domain.Review) []string {
	out := make([]string, len(reviews))
	for i, r := range reviews {
		out[i] = r.AuthorName
	}
	return out
}

func waitLoaded(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		require.FailNow(t, "fetch did not settle")
	}
}

func (f *stubFetcher) ctx() context.Context {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastCtx
}
