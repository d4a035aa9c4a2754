package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"taskManager/internal/logger"

	"go.uber.org/zap"
)

type clientInfo struct {
	count   int
	resetAt time.Time
}

// limiter counts requests per client IP. Expired windows are swept at most
// once per window so idle clients do not accumulate.
type limiter struct {
	rpm       int
	window    time.Duration
	now       func() time.Time
	mtx       sync.Mutex
	clients   map[string]*clientInfo
	lastSweep time.Time
}

func newLimiter(rpm int, window time.Duration, now func() time.Time) *limiter {
	return &limiter{
		rpm:       rpm,
		window:    window,
		now:       now,
		clients:   make(map[string]*clientInfo),
		lastSweep: now(),
	}
}

// sweep must be called with mtx held.
func (l *limiter) sweep(ts time.Time) {
	if ts.Sub(l.lastSweep) < l.window {
		return
	}
	for ip, info := range l.clients {
		if ts.After(info.resetAt) {
			delete(l.clients, ip)
		}
	}
	l.lastSweep = ts
}

// RateLimit allows rpm requests per client IP in a fixed one-minute window.
// A non-positive rpm disables limiting.
func RateLimit(rpm int) func(http.Handler) http.Handler {
	return rateLimit(rpm, time.Minute, time.Now)
}

func rateLimit(rpm int, window time.Duration, now func() time.Time) func(http.Handler) http.Handler {
	if rpm <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return newLimiter(rpm, window, now).middleware
}

func (l *limiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		ts := l.now()

		l.mtx.Lock()
		l.sweep(ts)
		info, ok := l.clients[ip]
		switch {
		case !ok:
			info = &clientInfo{count: 1, resetAt: ts.Add(l.window)}
			l.clients[ip] = info
		case ts.After(info.resetAt):
			info.count = 1
			info.resetAt = ts.Add(l.window)
		case info.count >= l.rpm:
			retryAfter := int(info.resetAt.Sub(ts).Seconds()) + 1
			l.mtx.Unlock()

			logger.Warn("HTTP: rate limit exceeded",
				zap.String("request_id", GetRequestID(r.Context())),
				zap.String("client_ip", ip))

			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED",
				"Too many requests. Try again later.",
				map[string]any{"retry_after": retryAfter})
			return
		default:
			info.count++
		}

		remaining := l.rpm - info.count
		resetUnix := info.resetAt.Unix()
		l.mtx.Unlock()

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.rpm))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(remaining, 0)))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetUnix, 10))

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
