package middleware

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/olafwrieden/azurechat-v3/interfaces/rpc"
	"github.com/olafwrieden/azurechat-v3/pkg/auth"
	apperrors "github.com/olafwrieden/azurechat-v3/pkg/errors"
)

// Authenticate validates the bearer token and stores the caller in the
// request context.
func Authenticate(validator *auth.JWTValidator, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				respondWithError(w, r, http.StatusUnauthorized, "Missing authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.Debug("Rejected token",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				switch {
				case errors.Is(err, auth.ErrExpiredToken):
					respondWithError(w, r, http.StatusUnauthorized, "Token has expired")
				case errors.Is(err, auth.ErrInvalidSignature):
					respondWithError(w, r, http.StatusUnauthorized, "Invalid token signature")
				default:
					respondWithError(w, r, http.StatusUnauthorized, "Invalid token")
				}
				return
			}

			ctx := auth.SetUserInContext(r.Context(), &auth.UserContext{
				UserID: claims.UserID,
				Email:  claims.Email,
				Roles:  claims.Roles,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken reads the bearer token from the Authorization header, falling
// back to the auth_token cookie
func extractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := r.Cookie("auth_token"); err == nil {
		return cookie.Value
	}
	return ""
}

// clientIP returns the caller address. RealIP has already rewritten
// RemoteAddr from the forwarding headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// respondWithError writes the REST error body, or the procedure error
// envelope on procedure routes
func respondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if rpc.IsProcedurePath(r.URL.Path) {
		_ = json.NewEncoder(w).Encode(rpc.ErrorResponse{Error: rpc.ErrorBody{
			Message:    message,
			Code:       rpc.CodeForStatus(status),
			HTTPStatus: status,
			Type:       apperrors.StatusToErrorType(status),
			RequestID:  middleware.GetReqID(r.Context()),
		}})
		return
	}
	_ = json.NewEncoder(w).Encode(apperrors.ErrorResponse{
		Error:     true,
		Type:      apperrors.StatusToErrorType(status),
		Message:   message,
		RequestID: middleware.GetReqID(r.Context()),
	})
}
