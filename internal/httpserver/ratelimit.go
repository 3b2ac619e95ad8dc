package httpserver

import (
	"net"
	"sync"
	"time"
)

// rateLimiter is a per-client token bucket. Stale buckets are pruned lazily
// on calls to allow.
type rateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*bucket
	rate      int           // tokens per interval
	interval  time.Duration // refill interval
	lastPrune time.Time
	now       func() time.Time
}

type bucket struct {
	tokens   int
	lastSeen time.Time
}

const staleAfter = 5 * time.Minute

func newRateLimiter(rate int, interval time.Duration) *rateLimiter {
	return &rateLimiter{
		visitors: make(map[string]*bucket),
		rate:     rate,
		interval: interval,
		now:      time.Now,
	}
}

// allow spends one token for addr (an IP or host:port) if one is left.
func (rl *rateLimiter) allow(addr string) bool {
	ip := addr
	if host, _, err := net.SplitHostPort(addr); err == nil {
		ip = host
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastPrune) > time.Minute {
		for k, b := range rl.visitors {
			if now.Sub(b.lastSeen) > staleAfter {
				delete(rl.visitors, k)
			}
		}
		rl.lastPrune = now
	}

	b, ok := rl.visitors[ip]
	if !ok {
		rl.visitors[ip] = &bucket{tokens: rl.rate - 1, lastSeen: now}
		return true
	}

	// Refill tokens based on elapsed time.
	refill := int(now.Sub(b.lastSeen) / rl.interval)
	if refill > 0 {
		b.tokens = min(b.tokens+refill*rl.rate, rl.rate)
		b.lastSeen = now
	}

	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}
