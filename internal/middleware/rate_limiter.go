package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"bistro/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	tokenRequestsPerMinute = 20
	purgeInterval          = 5 * time.Minute
)

// windowEntry tracks request counts per client IP within one fixed window.
type windowEntry struct {
	count     int
	windowEnd time.Time
}

// WindowLimiter is a per-IP fixed-window request counter.
type WindowLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	entries map[string]*windowEntry
	now     func() time.Time
}

func NewWindowLimiter(limit int, window time.Duration) *WindowLimiter {
	return &WindowLimiter{
		limit:   limit,
		window:  window,
		entries: make(map[string]*windowEntry),
		now:     time.Now,
	}
}

// Allow counts one request for ip and reports whether it is within the limit,
// plus the time the current window ends.
func (l *WindowLimiter) Allow(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[ip]
	if !ok || now.After(e.windowEnd) {
		e = &windowEntry{windowEnd: now.Add(l.window)}
		l.entries[ip] = e
	}
	e.count++
	return e.count <= l.limit, e.windowEnd
}

// Purge drops expired windows and returns how many were removed.
func (l *WindowLimiter) Purge() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	n := 0
	for ip, e := range l.entries {
		if now.After(e.windowEnd) {
			delete(l.entries, ip)
			n++
		}
	}
	return n
}

// RunPurge removes expired entries periodically until ctx is done, so IPs that
// never return do not accumulate.
func (l *WindowLimiter) RunPurge(ctx context.Context) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := l.Purge(); n > 0 {
				log.Debug().Int("entries_purged", n).Msg("rate limiter purged")
			}
		}
	}
}

// Middleware rejects requests over the limit with 429 and a Retry-After.
func (l *WindowLimiter) Middleware(msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, windowEnd := l.Allow(c.ClientIP())
		if !ok {
			retry := int(time.Until(windowEnd).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}

// RateLimiter is the general API limiter: limit requests per window per IP.
func RateLimiter(ctx context.Context, limit int, window time.Duration) gin.HandlerFunc {
	l := NewWindowLimiter(limit, window)
	go l.RunPurge(ctx)
	return l.Middleware("too many requests")
}

// TokenRateLimiter limits POST /jwt to 20 requests per minute per IP.
func TokenRateLimiter(ctx context.Context) gin.HandlerFunc {
	l := NewWindowLimiter(tokenRequestsPerMinute, time.Minute)
	go l.RunPurge(ctx)
	return l.Middleware("too many token requests")
}
