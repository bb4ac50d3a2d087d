package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/SoyuzCL/pos-panchita/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ── Fixed-window limiter ─────────────────────────────────────────────────────

type windowEntry struct {
	count     int
	windowEnd time.Time
}

// Limiter counts requests per client IP in fixed windows.
type Limiter struct {
	limit   int
	window  time.Duration
	message string

	mu      sync.Mutex
	entries map[string]*windowEntry
	now     func() time.Time
}

func NewLimiter(limit int, window time.Duration, message string) *Limiter {
	return &Limiter{
		limit:   limit,
		window:  window,
		message: message,
		entries: make(map[string]*windowEntry),
		now:     time.Now,
	}
}

// NewLoginLimiter allows 20 login attempts per minute per IP.
func NewLoginLimiter() *Limiter {
	return NewLimiter(20, time.Minute, "Demasiados intentos de inicio de sesión. Intente en 1 minuto.")
}

// allow records one hit for key and reports whether it is within the limit.
func (l *Limiter) allow(key string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok || now.After(e.windowEnd) {
		e = &windowEntry{windowEnd: now.Add(l.window)}
		l.entries[key] = e
	}
	e.count++
	return e.count <= l.limit, e.windowEnd
}

func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, windowEnd := l.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", windowEnd.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.message))
			return
		}
		c.Next()
	}
}

// ── Purge loop ───────────────────────────────────────────────────────────────
// Drops expired windows so IPs that never return do not accumulate.

const purgeInterval = 5 * time.Minute

// RunPurge blocks until ctx is cancelled, purging every purgeInterval.
func (l *Limiter) RunPurge(ctx context.Context) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := l.purge(); n > 0 {
				log.Debug().Int("entries_purged", n).Msg("rate limiter purged")
			}
		}
	}
}

func (l *Limiter) purge() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	purged := 0
	for k, e := range l.entries {
		if now.After(e.windowEnd) {
			delete(l.entries, k)
			purged++
		}
	}
	return purged
}
