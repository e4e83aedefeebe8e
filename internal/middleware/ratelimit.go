package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	apperrors "github.com/pnll1991/expedicion-andina/pkg/errors"
	"github.com/pnll1991/expedicion-andina/pkg/httputil"
	pkgmw "github.com/pnll1991/expedicion-andina/pkg/middleware"
)

// RateLimitConfig configures the per-client limiter guarding the Places quota.
type RateLimitConfig struct {
	RPS   int
	Burst int

	// TrustForwardedFor keys clients by X-Forwarded-For / X-Real-IP. Enable it
	// only behind a proxy that overwrites those headers.
	TrustForwardedFor bool

	// TTL evicts clients idle for longer. Defaults to 3 minutes.
	TTL time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitorStore keeps one token bucket per client IP.
type visitorStore struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	nowFunc  func() time.Time
}

func newVisitorStore(rps, burst int, ttl time.Duration) *visitorStore {
	return &visitorStore{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(rps),
		burst:    burst,
		ttl:      ttl,
		nowFunc:  time.Now,
	}
}

// get returns the limiter for ip, creating it on first sight.
func (s *visitorStore) get(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	v, ok := s.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// cleanup evicts visitors idle for longer than the TTL.
func (s *visitorStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	for ip, v := range s.visitors {
		if now.Sub(v.lastSeen) > s.ttl {
			delete(s.visitors, ip)
		}
	}
}

func (s *visitorStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors)
}

func (s *visitorStore) cleanupLoop() {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()
	for range ticker.C {
		s.cleanup()
	}
}

// RateLimit enforces a per-IP token bucket and answers 429 with the standard
// error envelope and a Retry-After hint once a client exhausts its burst.
func RateLimit(cfg RateLimitConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	if cfg.TTL <= 0 {
		cfg.TTL = 3 * time.Minute
	}
	store := newVisitorStore(cfg.RPS, cfg.Burst, cfg.TTL)
	go store.cleanupLoop()

	return rateLimit(store, cfg.TrustForwardedFor, logger)
}

func rateLimit(store *visitorStore, trustForwarded bool, logger *slog.Logger) func(http.Handler) http.Handler {
	retryAfter := "1"
	if store.limit > 0 && store.limit < 1 {
		retryAfter = strconv.Itoa(int(1 / float64(store.limit)))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r, trustForwarded)

			if !store.get(ip).Allow() {
				logger.WarnContext(r.Context(), "rate limit exceeded",
					slog.String("ip", ip),
					slog.String("path", r.URL.Path),
				)
				w.Header().Set("Retry-After", retryAfter)
				httputil.WriteError(w, r, apperrors.RateLimited(), logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP identifies the caller. Forwarding headers are consulted only when
// trusted; the first valid address in X-Forwarded-For wins.
func clientIP(r *http.Request, trustForwarded bool) string {
	if trustForwarded {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			for _, part := range strings.Split(xff, ",") {
				if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
					return ip.String()
				}
			}
		}
		if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
			return ip.String()
		}
	}
	return pkgmw.ClientIP(r)
}
