package server

import (
	"math"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"resumematch/internal/errors"

	"golang.org/x/time/rate"
)

// idleBucketTTL is how long an unused bucket survives before it is evicted
const idleBucketTTL = 10 * time.Minute

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LimiterManager holds one token bucket per client key. Keys are prefixed
// with their type, "api:" or "ip:".
type LimiterManager struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int

	logger *errors.Logger
	stop   chan struct{}
	closed sync.Once
}

// LimiterStats is the rate limiting section of GET /stats
type LimiterStats struct {
	Enabled        bool    `json:"enabled"`
	ActiveClients  int     `json:"active_limiters"`
	RatePerSecond  float64 `json:"rate_per_second"`
	RatePerMinute  float64 `json:"rate_per_minute"`
	BurstCapacity  int     `json:"burst_capacity"`
	IdleEvictAfter string  `json:"idle_evict_after"`
}

// NewLimiterManager allows requestsPerMin per key with bursts up to burstCapacity.
// Idle buckets are evicted in the background until Close is called.
func NewLimiterManager(requestsPerMin int, burstCapacity int, logger *errors.Logger) *LimiterManager {
	m := &LimiterManager{
		buckets: make(map[string]*bucket),
		limit:   rate.Every(time.Minute / time.Duration(max(requestsPerMin, 1))),
		burst:   burstCapacity,
		logger:  logger,
		stop:    make(chan struct{}),
	}
	go m.evictLoop()
	return m
}

// Reserve takes a token for key. When none is available it returns false and
// how long the client should wait; the token is handed back in that case.
func (m *LimiterManager) Reserve(key string) (bool, time.Duration) {
	now := time.Now()

	m.mu.Lock()
	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.buckets[key] = b
	}
	b.lastSeen = now
	m.mu.Unlock()

	r := b.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Minute
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Allow reports whether a request for key may proceed now
func (m *LimiterManager) Allow(key string) bool {
	ok, _ := m.Reserve(key)
	return ok
}

// Stats reports the current number of tracked clients and the configured budget
func (m *LimiterManager) Stats() LimiterStats {
	m.mu.Lock()
	active := len(m.buckets)
	m.mu.Unlock()

	perSecond := float64(m.limit)
	return LimiterStats{
		Enabled:        true,
		ActiveClients:  active,
		RatePerSecond:  perSecond,
		RatePerMinute:  perSecond * 60,
		BurstCapacity:  m.burst,
		IdleEvictAfter: idleBucketTTL.String(),
	}
}

func (m *LimiterManager) evictLoop() {
	ticker := time.NewTicker(idleBucketTTL)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			m.evictIdle(now.Add(-idleBucketTTL))
		case <-m.stop:
			return
		}
	}
}

// evictIdle drops buckets last used before cutoff
func (m *LimiterManager) evictIdle(cutoff time.Time) {
	m.mu.Lock()
	evicted := 0
	for key, b := range m.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(m.buckets, key)
			evicted++
		}
	}
	remaining := len(m.buckets)
	m.mu.Unlock()

	if m.logger != nil && evicted > 0 {
		m.logger.Debug("Evicted idle rate limit buckets", "evicted", evicted, "remaining", remaining)
	}
}

// Close stops background eviction. It may be called more than once.
func (m *LimiterManager) Close() {
	m.closed.Do(func() { close(m.stop) })
}

// rateLimitMiddleware answers 429 with a Retry-After header once a client
// has spent its budget
func (s *Server) rateLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	if s.RateLimit == nil || !s.RateLimit.Enabled || s.RateLimiter == nil {
		return func(next http.HandlerFunc) http.HandlerFunc { return next }
	}

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			key, keyType := getRateLimitKey(r, s.RateLimit.ByAPIKey, s.RateLimit.ByIP)
			if key == "" {
				next(w, r)
				return
			}

			allowed, wait := s.RateLimiter.Reserve(key)
			if allowed {
				next(w, r)
				return
			}

			s.metrics.RecordRateLimitHit(r.Context(), keyType)
			s.Logger.Info("Rate limit exceeded",
				"key_type", keyType,
				"endpoint", r.URL.Path,
				"client_ip", getClientIP(r),
				"retry_after", wait.Round(time.Second).String(),
				"request_id", requestIDFrom(r.Context()))
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			writeErrorResponse(w, "Rate limit exceeded", "", "Too many requests", http.StatusTooManyRequests)
		}
	}
}

// getRateLimitKey picks the bucket for r. An API key wins over the client
// address when both are enabled.
func getRateLimitKey(r *http.Request, byAPIKey, byIP bool) (key string, keyType string) {
	if byAPIKey {
		if apiKey := apiKeyFromRequest(r); apiKey != "" {
			return "api:" + apiKey, "api"
		}
	}
	if byIP {
		return "ip:" + getClientIP(r), "ip"
	}
	return "", ""
}

// getClientIP prefers the first valid X-Forwarded-For entry, then X-Real-IP,
// then the connection's remote address
func getClientIP(r *http.Request) string {
	for candidate := range strings.SplitSeq(r.Header.Get("X-Forwarded-For"), ",") {
		if addr, err := netip.ParseAddr(strings.TrimSpace(candidate)); err == nil {
			return addr.String()
		}
	}

	if addr, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return addr.String()
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
