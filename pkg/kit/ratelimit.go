package kit

import (
	"net"
	"sync"
	"time"
)

// IPRateLimiter admits at most limit events per window for each remote host.
type IPRateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[string][]time.Time
	swept  time.Time
	now    func() time.Time
}

func NewIPRateLimiter(limit int, window time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		limit:  limit,
		window: window,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

// AllowAddr records a connection from addr and reports whether it is admitted.
func (l *IPRateLimiter) AllowAddr(addr net.Addr) bool {
	return l.Allow(hostOf(addr))
}

func (l *IPRateLimiter) Allow(key string) bool {
	now := l.now()
	return !l.recordAndCheck(key, now, now.Add(-l.window))
}

func (l *IPRateLimiter) recordAndCheck(key string, now, cutoff time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.swept) >= l.window {
		l.sweep(cutoff)
		l.swept = now
	}

	ts := l.hits[key]
	ts = prune(ts, cutoff)

	if len(ts) >= l.limit {
		l.hits[key] = ts
		return true
	}

	l.hits[key] = append(ts, now)
	return false
}

// sweep drops hosts whose events have all aged out of the window.
func (l *IPRateLimiter) sweep(cutoff time.Time) {
	for k, ts := range l.hits {
		if ts = prune(ts, cutoff); len(ts) == 0 {
			delete(l.hits, k)
		} else {
			l.hits[k] = ts
		}
	}
}

func prune(ts []time.Time, cutoff time.Time) []time.Time {
	n := 0
	for _, t := range ts {
		if t.After(cutoff) {
			ts[n] = t
			n++
		}
	}
	return ts[:n]
}

func hostOf(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err == nil && host != "" {
		return host
	}
	return addr.String()
}
