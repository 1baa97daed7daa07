package middleware

import (
	"crypto/subtle"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	domainErrors "github.com/edukar/edukar-store/internal/domain/errors"
)

const (
	webhookRealm = "culqi"
	// clientIdleTTL is how long an unused per-client limiter is kept.
	clientIdleTTL = 10 * time.Minute
)

// WebhookAuth requires HTTP Basic credentials when a username is configured
// and lets every request through otherwise.
func WebhookAuth(username, password string) gin.HandlerFunc {
	if username == "" {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		userOK := subtle.ConstantTimeCompare([]byte(user), []byte(username)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(password)) == 1
		if !ok || !userOK || !passOK {
			c.Header("WWW-Authenticate", `Basic realm="`+webhookRealm+`"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": domainErrors.ErrUnauthorizedWebhook.Error()})
			return
		}
		c.Next()
	}
}

// RateLimit allows each client IP limit requests per second with the given burst.
// A non-positive limit disables limiting.
func RateLimit(limit float64, burst int) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiters := newClientLimiters(limit, burst, clientIdleTTL, time.Now)
	return func(c *gin.Context) {
		if !limiters.allow(c.ClientIP()) {
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// clientLimiters keeps one token bucket per client and drops the ones
// idle longer than idle. Sweeps run lazily, at most once per idle period.
type clientLimiters struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	idle      time.Duration
	now       func() time.Time
	lastSweep time.Time
	clients   map[string]*clientLimiter
}

func newClientLimiters(limit float64, burst int, idle time.Duration, now func() time.Time) *clientLimiters {
	if burst < 1 {
		burst = 1
	}
	return &clientLimiters{
		limit:     rate.Limit(limit),
		burst:     burst,
		idle:      idle,
		now:       now,
		lastSweep: now(),
		clients:   make(map[string]*clientLimiter),
	}
}

func (l *clientLimiters) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idle {
		for k, cl := range l.clients {
			if now.Sub(cl.lastAccess) >= l.idle {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	cl, ok := l.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = cl
	}
	cl.lastAccess = now
	return cl.limiter.AllowN(now, 1)
}

func (l *clientLimiters) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}
