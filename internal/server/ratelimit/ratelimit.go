// Package ratelimit limits requests per client and endpoint with token buckets.
package ratelimit

import (
	"strings"
	"sync"
	"time"
)

// bucket is a token bucket. Tokens refill continuously at rate per second
// up to capacity.
type bucket struct {
	capacity   float64
	rate       float64
	tokens     float64
	lastRefill time.Time
	lastAccess time.Time
}

func newBucket(capacity int, rate float64, now time.Time) *bucket {
	return &bucket{
		capacity:   float64(capacity),
		rate:       rate,
		tokens:     float64(capacity),
		lastRefill: now,
		lastAccess: now,
	}
}

func (b *bucket) refill(now time.Time) {
	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed > 0 {
		b.tokens = min(b.capacity, b.tokens+elapsed*b.rate)
		b.lastRefill = now
	}
}

// take consumes one token if available.
func (b *bucket) take(now time.Time) bool {
	b.refill(now)
	b.lastAccess = now
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// untilNext is the wait before one token is available again.
func (b *bucket) untilNext() time.Duration {
	if b.tokens >= 1 || b.rate <= 0 {
		return 0
	}
	return time.Duration((1 - b.tokens) / b.rate * float64(time.Second))
}

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Rule limits one method and path. A path ending in "/" matches by prefix.
// A non-positive Limit means unlimited.
type Rule struct {
	Method string
	Path   string
	Limit  int
	Window time.Duration
	// Burst is the bucket capacity; defaults to Limit.
	Burst int
}

func (r Rule) matches(method, path string) bool {
	if r.Method != "" && r.Method != method {
		return false
	}
	if strings.HasSuffix(r.Path, "/") {
		return strings.HasPrefix(path, r.Path)
	}
	return r.Path == path
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled bool
	// Default applies to requests no rule matches.
	Default Rule
	Rules   []Rule
	// Whitelist holds client IDs that are never limited.
	Whitelist map[string]bool
	// IdleTTL is how long an unused bucket is kept.
	IdleTTL time.Duration
	// CleanupInterval is how often idle buckets are dropped; zero disables
	// the background sweep.
	CleanupInterval time.Duration
}

// DefaultConfig returns limits sized for model-backed scoring: a handful of
// scores per client per hour, generous reads and an unlimited health check.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Default: Rule{Limit: 600, Window: time.Minute},
		Rules: []Rule{
			{Method: "GET", Path: "/health"},
			{Method: "POST", Path: "/score/pdf", Limit: 10, Window: time.Hour, Burst: 2},
		},
		Whitelist:       map[string]bool{},
		IdleTTL:         time.Hour,
		CleanupInterval: 5 * time.Minute,
	}
}

// Limiter manages buckets per client, method and path
type Limiter struct {
	cfg Config
	now func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a limiter and starts its cleanup loop when configured.
func NewLimiter(cfg Config) *Limiter {
	l := &Limiter{
		cfg:     cfg,
		now:     time.Now,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	if cfg.Enabled && cfg.CleanupInterval > 0 {
		go l.cleanup(cfg.CleanupInterval)
	}
	return l
}

func (l *Limiter) rule(method, path string) Rule {
	for _, r := range l.cfg.Rules {
		if r.matches(method, path) {
			return r
		}
	}
	return l.cfg.Default
}

// Allow checks and records one request.
func (l *Limiter) Allow(clientID, method, path string) Info {
	if !l.cfg.Enabled || l.cfg.Whitelist[clientID] {
		return Info{Allowed: true}
	}
	rule := l.rule(method, path)
	if rule.Limit <= 0 || rule.Window <= 0 {
		return Info{Allowed: true}
	}
	capacity := rule.Burst
	if capacity <= 0 {
		capacity = rule.Limit
	}

	key := clientID + " " + method + " " + path
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[key]
	if !ok {
		b = newBucket(capacity, float64(rule.Limit)/rule.Window.Seconds(), now)
		l.buckets[key] = b
	}
	allowed := b.take(now)
	info := Info{Allowed: allowed, Limit: rule.Limit, Remaining: int(b.tokens)}
	if !allowed {
		info.RetryAfter = b.untilNext()
	}
	return info
}

// Sweep drops buckets idle for longer than IdleTTL and returns how many
// remain.
func (l *Limiter) Sweep() int {
	ttl := l.cfg.IdleTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	cutoff := l.now().Add(-ttl)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.lastAccess.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
	return len(l.buckets)
}

func (l *Limiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.Sweep()
		case <-l.stop:
			return
		}
	}
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}
