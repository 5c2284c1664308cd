package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limit allows Events per Window, all of which may be spent at once.
// A zero Limit never blocks.
type Limit struct {
	Events int
	Window time.Duration
}

func (l Limit) limiter() *rate.Limiter {
	if l.Events <= 0 || l.Window <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(l.Window/time.Duration(l.Events)), l.Events)
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per key and action.
type RateLimiter struct {
	limits   map[string]Limit
	fallback Limit

	mu      sync.Mutex
	buckets map[string]*bucket
}

// NewRateLimiter builds a limiter with per-action limits. Actions without an
// entry use fallback.
func NewRateLimiter(limits map[string]Limit, fallback Limit) *RateLimiter {
	return &RateLimiter{
		limits:   limits,
		fallback: fallback,
		buckets:  make(map[string]*bucket),
	}
}

func (rl *RateLimiter) get(key, action string) *bucket {
	id := key + ":" + action

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[id]
	if !ok {
		limit, ok := rl.limits[action]
		if !ok {
			limit = rl.fallback
		}
		b = &bucket{limiter: limit.limiter()}
		rl.buckets[id] = b
	}
	b.lastSeen = time.Now()
	return b
}

// Allow consumes a token if one is available. Otherwise it reports how
// long until the next one.
func (rl *RateLimiter) Allow(key, action string) (bool, time.Duration) {
	b := rl.get(key, action)

	now := time.Now()
	r := b.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Minute
	}
	if wait := r.DelayFrom(now); wait > 0 {
		r.CancelAt(now)
		return false, wait
	}
	return true, 0
}

// Tokens returns the tokens currently available for key and action.
func (rl *RateLimiter) Tokens(key, action string) float64 {
	return rl.get(key, action).limiter.Tokens()
}

// Cleanup removes buckets idle for longer than idle.
func (rl *RateLimiter) Cleanup(idle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	n := 0
	for id, b := range rl.buckets {
		if now.Sub(b.lastSeen) > idle {
			delete(rl.buckets, id)
			n++
		}
	}
	return n
}
