package middleware

import (
	"context"
	"net"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Limiter decides whether a request identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit rejects clients over the limit with 429. Limiter errors let the
// request through.
func RateLimit(limiter Limiter, log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				log.Warnf("Rate limiter unavailable: %v", err)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				log.WithField("client", key).Warn("Rate limit exceeded")
				writeError(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey prefers the authenticated subject over the remote address
func clientKey(r *http.Request) string {
	if id := UserIDFromContext(r.Context()); id != "" {
		return "user:" + id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
