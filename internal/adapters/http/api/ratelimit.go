package api

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/okian/wordscore/pkg/metrics"
)

// RateLimiter keeps one token bucket per client IP and drops buckets that
// have been idle for idleTTL. Clients are keyed by the connection address
// unless forwarding headers are trusted.
type RateLimiter struct {
	mu           sync.Mutex
	clientKey    func(*http.Request) string
	entries      map[string]*limiterEntry
	rps          rate.Limit
	burst        int
	idleTTL      time.Duration
	cleanupEvery time.Duration
	now          func() time.Time
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows rps requests per second per client with bursts of
// up to burst requests.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		entries:      make(map[string]*limiterEntry),
		rps:          rate.Limit(rps),
		burst:        burst,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
		now:          time.Now,
		clientKey:    RemoteIP,
	}
}

// TrustForwardedFor keys clients by GetClientIP instead of the connection
// address. Only enable it behind a proxy that overwrites those headers.
func (l *RateLimiter) TrustForwardedFor(trust bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if trust {
		l.clientKey = GetClientIP
	} else {
		l.clientKey = RemoteIP
	}
}

func (l *RateLimiter) keyFor(r *http.Request) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.clientKey(r)
}

// Allow takes one token from key's bucket. When none is left it returns
// false and how long the client should wait.
func (l *RateLimiter) Allow(key string) (bool, time.Duration) {
	now := l.now()
	lim := l.get(key, now)
	res := lim.ReserveN(now, 1)
	if !res.OK() {
		return false, time.Second
	}
	if d := res.DelayFrom(now); d > 0 {
		res.CancelAt(now)
		return false, d
	}
	return true, 0
}

func (l *RateLimiter) get(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if ent, ok := l.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}
	lim := rate.NewLimiter(l.rps, l.burst)
	l.entries[key] = &limiterEntry{lim: lim, lastSeen: now}
	return lim
}

// Cleanup drops buckets idle for longer than the idle TTL.
func (l *RateLimiter) Cleanup() {
	cutoff := l.now().Add(-l.idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()

	for k, ent := range l.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(l.entries, k)
		}
	}
}

// Len returns the number of tracked clients.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// StartJanitor runs Cleanup periodically until ctx is done.
func (l *RateLimiter) StartJanitor(ctx context.Context) {
	t := time.NewTicker(l.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				l.Cleanup()
			}
		}
	}()
}

// Wrap rejects requests over the limit with 429 and Retry-After.
func (l *RateLimiter) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok, wait := l.Allow(l.keyFor(r))
		if !ok {
			metrics.RecordRateLimited(r.Method)
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			writeError(w, http.StatusTooManyRequests, "rate_limited", ErrRateLimited)
			return
		}
		next(w, r)
	}
}
