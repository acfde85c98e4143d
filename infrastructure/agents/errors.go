package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sony/gobreaker"

	apperrors "github.com/olafwrieden/azurechat-v3/pkg/errors"
)

// remoteError is a non-2xx answer from the agent service
type remoteError struct {
	status  int
	code    string
	message string
}

func (e *remoteError) Error() string {
	if e.code != "" {
		return fmt.Sprintf("agent service returned %d (%s): %s", e.status, e.code, e.message)
	}
	return fmt.Sprintf("agent service returned %d: %s", e.status, e.message)
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newRemoteError(status int, body []byte) *remoteError {
	re := &remoteError{status: status}
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && (env.Error.Message != "" || env.Error.Code != "") {
		re.code = env.Error.Code
		re.message = env.Error.Message
	} else {
		re.message = strings.TrimSpace(string(body))
		if len(re.message) > 256 {
			re.message = re.message[:256]
		}
	}
	if re.message == "" {
		re.message = http.StatusText(status)
	}
	return re
}

// mapError converts transport, breaker and remote failures to AppErrors
func mapError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return apperrors.NewUnavailableError(serviceName).WithCause(err)
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return apperrors.NewTimeoutError("agents." + op).WithCause(err)
	}

	var re *remoteError
	if !errors.As(err, &re) {
		return apperrors.NewExternalError(serviceName, err)
	}

	var appErr *apperrors.AppError
	switch re.status {
	case http.StatusNotFound:
		appErr = apperrors.NewNotFoundError("thread")
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		appErr = apperrors.NewValidationError(re.message)
	case http.StatusUnauthorized:
		// our credentials were rejected; callers cannot fix that
		appErr = apperrors.NewExternalError(serviceName, nil)
		appErr.Message = "agent service rejected credentials"
	case http.StatusForbidden:
		appErr = apperrors.NewForbiddenError(re.message)
	case http.StatusConflict:
		appErr = apperrors.NewConflictError(re.message)
	case http.StatusTooManyRequests:
		appErr = apperrors.NewRateLimitError("agent service rate limit exceeded")
	default:
		appErr = apperrors.NewExternalError(serviceName, nil)
	}
	appErr.Cause = re
	if re.code != "" {
		appErr.Code = re.code
	}
	return appErr.WithDetails(map[string]interface{}{
		"operation":     op,
		"remote_status": re.status,
	})
}
