package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/olafwrieden/azurechat-v3/pkg/auth"
)

// RateLimit rejects callers that exceed limiter, keyed by the authenticated
// user when there is one and by client IP otherwise.
func RateLimit(limiter auth.RateLimiter, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ip:" + clientIP(r)
			if user, err := auth.GetUserFromContext(r.Context()); err == nil {
				key = "user:" + user.UserID
			}

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				// Client went away.
				return
			}
			if !allowed {
				logger.Debug("Rate limit exceeded", zap.String("key", key))
				w.Header().Set("Retry-After", "1")
				respondWithError(w, r, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
