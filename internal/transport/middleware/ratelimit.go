package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimitConfig configures a token bucket.
type RateLimitConfig struct {
	RequestsPerMinute int // Sustained rate
	BurstSize         int // Bucket capacity (default: same as RPM)
}

// TokenBucket controls the rate of requests using a token bucket algorithm.
type TokenBucket struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	now        func() time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a full bucket.
func NewTokenBucket(cfg RateLimitConfig) *TokenBucket {
	return newTokenBucket(cfg, time.Now)
}

func newTokenBucket(cfg RateLimitConfig, now func() time.Time) *TokenBucket {
	rpm := float64(cfg.RequestsPerMinute)
	if rpm <= 0 {
		rpm = 60
	}

	burst := float64(cfg.BurstSize)
	if burst <= 0 {
		burst = rpm
	}

	return &TokenBucket{
		tokens:     burst,
		maxTokens:  burst,
		refillRate: rpm / 60.0,
		lastRefill: now(),
		now:        now,
	}
}

// TryAcquire takes a token without blocking and reports whether one was available.
func (b *TokenBucket) TryAcquire() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill()

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// RetryAfter returns how long until the next token is available.
func (b *TokenBucket) RetryAfter() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refill()
	if b.tokens >= 1 {
		return 0
	}
	return time.Duration((1 - b.tokens) / b.refillRate * float64(time.Second))
}

// Available returns the current number of available tokens.
func (b *TokenBucket) Available() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refill()
	return b.tokens
}

// refill adds tokens based on elapsed time (must be called with lock held).
func (b *TokenBucket) refill() {
	now := b.now()
	elapsed := now.Sub(b.lastRefill).Seconds()
	b.lastRefill = now

	b.tokens += elapsed * b.refillRate
	if b.tokens > b.maxTokens {
		b.tokens = b.maxTokens
	}
}

func (b *TokenBucket) idleSince() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastRefill
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	cfg     RateLimitConfig
	now     func() time.Time
	buckets sync.Map // map[string]*TokenBucket
	stop    chan struct{}
	once    sync.Once
}

// NewRateLimiter creates a per-client limiter that drops buckets idle for
// longer than cleanupInterval. Call Stop on shutdown.
func NewRateLimiter(cfg RateLimitConfig, cleanupInterval time.Duration) *RateLimiter {
	rl := &RateLimiter{cfg: cfg, now: time.Now, stop: make(chan struct{})}
	go rl.cleanup(cleanupInterval)
	return rl
}

// Stop terminates the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// Limit returns middleware answering 429 with Retry-After once a client's
// bucket is empty.
func (rl *RateLimiter) Limit() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b := rl.bucket(clientKey(r))
			if !b.TryAcquire() {
				secs := int(math.Ceil(b.RetryAfter().Seconds()))
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) bucket(key string) *TokenBucket {
	if b, ok := rl.buckets.Load(key); ok {
		return b.(*TokenBucket)
	}
	b, _ := rl.buckets.LoadOrStore(key, newTokenBucket(rl.cfg, rl.now))
	return b.(*TokenBucket)
}

func (rl *RateLimiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.evictIdle(interval)
		}
	}
}

func (rl *RateLimiter) evictIdle(maxIdle time.Duration) {
	now := rl.now()
	rl.buckets.Range(func(key, value any) bool {
		if now.Sub(value.(*TokenBucket).idleSince()) > maxIdle {
			rl.buckets.Delete(key)
		}
		return true
	})
}

// clientKey is the remote IP without its port.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
