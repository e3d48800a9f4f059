package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/wasssssim/verger-du-coin/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const purgeInterval = 5 * time.Minute

type window struct {
	count int
	end   time.Time
}

// ipLimiter counts requests per client IP in fixed windows of period.
type ipLimiter struct {
	mu     sync.Mutex
	name   string
	limit  int
	period time.Duration
	byIP   map[string]*window
}

func newIPLimiter(name string, limit int, period time.Duration) *ipLimiter {
	l := &ipLimiter{name: name, limit: limit, period: period, byIP: make(map[string]*window)}
	trackForPurge(l)
	return l
}

// allow records one request from ip and reports whether it fits the window,
// along with the time the window resets.
func (l *ipLimiter) allow(ip string, now time.Time) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.byIP[ip]
	if !ok || now.After(w.end) {
		w = &window{end: now.Add(l.period)}
		l.byIP[ip] = w
	}
	w.count++
	return w.count <= l.limit, w.end
}

// purge drops expired windows and returns how many were removed.
func (l *ipLimiter) purge(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for ip, w := range l.byIP {
		if now.After(w.end) {
			delete(l.byIP, ip)
			n++
		}
	}
	return n
}

func (l *ipLimiter) middleware(msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		ok, reset := l.allow(c.ClientIP(), now)
		if !ok {
			retry := int(math.Ceil(reset.Sub(now).Seconds()))
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter limits token requests to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return newIPLimiter("login", 20, time.Minute).middleware("Too many login attempts, retry in a minute")
}

// RateLimiter allows limit requests per window per IP.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return newIPLimiter("api", limit, window).middleware("Request was throttled")
}

// Every limiter shares one purge goroutine, started with the first limiter.
var (
	limitersMu sync.Mutex
	limiters   []*ipLimiter
	purgeOnce  sync.Once
)

func trackForPurge(l *ipLimiter) {
	limitersMu.Lock()
	limiters = append(limiters, l)
	limitersMu.Unlock()
	purgeOnce.Do(func() { go purgeExpired() })
}

func purgeExpired() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for now := range ticker.C {
		limitersMu.Lock()
		current := append([]*ipLimiter(nil), limiters...)
		limitersMu.Unlock()

		for _, l := range current {
			if n := l.purge(now); n > 0 {
				log.Debug().Str("limiter", l.name).Int("purged", n).Msg("rate limiter windows purged")
			}
		}
	}
}
