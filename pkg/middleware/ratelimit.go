package middleware

import (
	"net"
	"net/http"

	"media-review/pkg/ratelimit"
	"media-review/pkg/utils"

	"go.uber.org/zap"
)

// RateLimit throttles by client IP. A limiter backend failure lets the
// request through.
func RateLimit(limiter ratelimit.Limiter, msgs utils.Messages, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Error("Rate limiter unavailable", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				logger.Warn("Rate limit exceeded",
					zap.String("ip", key),
					zap.String("path", r.URL.Path),
				)
				utils.ResponseTooManyRequests(w, msgs.TooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port; RealIP has already rewritten RemoteAddr behind a proxy.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
