// Package ratelimit provides per-client rate limiting backed by token buckets
// from golang.org/x/time/rate.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultCleanupInterval is how often idle client buckets are swept.
	DefaultCleanupInterval = 10 * time.Minute
	// idleTTL is how long an unused client bucket is kept.
	idleTTL = time.Hour
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string  // Endpoint path pattern (supports prefix matching)
	Method string  // HTTP method (GET, POST, etc.)
	RPS    float64 // Sustained requests per second; 0 means unlimited
	Burst  int     // Burst capacity (defaults to 1 if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	RPS             float64 // Default sustained rate for pipeline endpoints
	Burst           int
	CleanupInterval time.Duration
	EndpointConfigs []EndpointConfig
}

// DefaultEndpointConfigs returns endpoint limits derived from the default
// rate. Every model-backed endpoint shares rps and burst; cheap endpoints are
// not limited.
func DefaultEndpointConfigs(rps float64, burst int) []EndpointConfig {
	return []EndpointConfig{
		{Path: "/evaluate", Method: "POST", RPS: rps, Burst: burst},
		{Path: "/recommend", Method: "POST", RPS: rps, Burst: burst},
		{Path: "/eval", Method: "POST", RPS: rps, Burst: burst},
		{Path: "/eval/stream", Method: "POST", RPS: rps, Burst: burst},
		{Path: "/scrape", Method: "POST", RPS: rps, Burst: burst},
		{Path: "/stores", Method: "POST", RPS: rps, Burst: burst},
	}
}

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type bucket struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// Limiter manages rate limiting for multiple clients.
type Limiter struct {
	config      Config
	mu          sync.Mutex
	buckets     map[string]*bucket // client:method:path -> bucket
	cleanupStop chan struct{}
	stopOnce    sync.Once
	now         func() time.Time
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config Config) *Limiter {
	if config.EndpointConfigs == nil {
		config.EndpointConfigs = DefaultEndpointConfigs(config.RPS, config.Burst)
	}

	l := &Limiter{
		config:  config,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}

	if config.Enabled && config.CleanupInterval > 0 {
		l.cleanupStop = make(chan struct{})
		go l.cleanup(config.CleanupInterval)
	}
	return l
}

// Allow checks if a request from the given client is allowed for the specified endpoint.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled {
		return true, Info{Allowed: true}
	}

	endpoint := MatchEndpoint(path, method, l.config.EndpointConfigs)
	if endpoint == nil || endpoint.RPS <= 0 {
		return true, Info{Allowed: true}
	}

	burst := endpoint.Burst
	if burst <= 0 {
		burst = 1
	}

	now := l.now()
	lim := l.getLimiter(clientID+":"+method+":"+endpoint.Path, endpoint.RPS, burst, now)

	r := lim.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, Info{
			Allowed:    false,
			Limit:      burst,
			Remaining:  0,
			RetryAfter: delay,
		}
	}

	return true, Info{
		Allowed:   true,
		Limit:     burst,
		Remaining: int(math.Max(0, math.Floor(lim.TokensAt(now)))),
	}
}

func (l *Limiter) getLimiter(key string, rps float64, burst int, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
		l.buckets[key] = b
	}
	b.lastAccess = now
	return b.limiter
}

func (l *Limiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanupBuckets(l.now().Add(-idleTTL))
		case <-l.cleanupStop:
			return
		}
	}
}

// cleanupBuckets removes buckets not used since cutoff.
func (l *Limiter) cleanupBuckets(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, b := range l.buckets {
		if b.lastAccess.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		if l.cleanupStop != nil {
			close(l.cleanupStop)
		}
	})
}
