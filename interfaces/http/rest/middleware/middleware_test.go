package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/olafwrieden/azurechat-v3/interfaces/rpc"
	"github.com/olafwrieden/azurechat-v3/pkg/auth"
	apperrors "github.com/olafwrieden/azurechat-v3/pkg/errors"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"bearer header", "Bearer abc", "", "abc"},
		{"lower case scheme", "bearer abc", "", "abc"},
		{"other scheme", "Basic abc", "fromcookie", ""},
		{"cookie fallback", "", "fromcookie", "fromcookie"},
		{"nothing", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: "auth_token", Value: tt.cookie})
			}
			assert.Equal(t, tt.want, extractToken(r))
		})
	}
}

func TestAuthenticate(t *testing.T) {
	validator, err := auth.NewJWTValidator(auth.JWTConfig{SecretKey: "secret"})
	require.NoError(t, err)

	var seen *auth.UserContext
	h := Authenticate(validator, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.GetUserFromContext(r.Context())
	}))

	t.Run("valid token", func(t *testing.T) {
		generator, err := auth.NewJWTGenerator("secret", "", nil, time.Minute)
		require.NoError(t, err)
		token, err := generator.GenerateToken("user-7", "", []string{"admin"})
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "user-7", seen.UserID)
		assert.Equal(t, []string{"admin"}, seen.Roles)
	})

	t.Run("wrong secret", func(t *testing.T) {
		generator, err := auth.NewJWTGenerator("other", "", nil, time.Minute)
		require.NoError(t, err)
		token, err := generator.GenerateToken("user-7", "", nil)
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid token signature")
	})

	t.Run("missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Missing authorization header")
	})
}

func TestAuthenticate_ErrorShapeFollowsRoute(t *testing.T) {
	validator, err := auth.NewJWTValidator(auth.JWTConfig{SecretKey: "secret"})
	require.NoError(t, err)
	h := Authenticate(validator, zap.NewNop())(http.HandlerFunc(okHandler))

	t.Run("procedure route", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rpc/"+rpc.ThreadsGetMany, nil))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		var body rpc.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Missing authorization header", body.Error.Message)
		assert.Equal(t, rpc.CodeUnauthorized, body.Error.Code)
		assert.Equal(t, http.StatusUnauthorized, body.Error.HTTPStatus)
		assert.Equal(t, string(apperrors.ErrorTypeUnauthorized), body.Error.Type)
	})

	t.Run("rest route", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/threads", nil))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		var body apperrors.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Error)
		assert.Equal(t, "Missing authorization header", body.Message)
	})
}

func TestRateLimit_ProcedureRouteUsesEnvelope(t *testing.T) {
	limiter := auth.NewKeyedLimiter(0.001, 1)
	t.Cleanup(limiter.Stop)
	h := RateLimit(limiter, zap.NewNop())(http.HandlerFunc(okHandler))

	call := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/rpc/"+rpc.ThreadsCreate, nil))
		return rec
	}

	assert.Equal(t, http.StatusOK, call().Code)
	rec := call()
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	var body rpc.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, rpc.CodeTooManyRequests, body.Error.Code)
}

func TestRateLimit_KeysByUser(t *testing.T) {
	limiter := auth.NewKeyedLimiter(0.001, 1)
	t.Cleanup(limiter.Stop)
	h := RateLimit(limiter, zap.NewNop())(http.HandlerFunc(okHandler))

	call := func(userID string) int {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if userID != "" {
			r = r.WithContext(auth.SetUserInContext(r.Context(), &auth.UserContext{UserID: userID}))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("alice"))
	assert.Equal(t, http.StatusTooManyRequests, call("alice"))
	// Same address, different user
	assert.Equal(t, http.StatusOK, call("bob"))
	assert.Equal(t, http.StatusOK, call(""))
	assert.Equal(t, http.StatusTooManyRequests, call(""))
}

func TestLogger_ProbesLogAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := Logger(zap.New(core))(http.HandlerFunc(okHandler))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/threads", nil))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, "/api/v1/threads", entries[1].ContextMap()["path"])
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.1.2.3:5555"
	assert.Equal(t, "10.1.2.3", clientIP(r))

	r.RemoteAddr = "10.1.2.3"
	assert.Equal(t, "10.1.2.3", clientIP(r))
}
