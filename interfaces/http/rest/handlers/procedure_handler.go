package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/olafwrieden/azurechat-v3/application/commands"
	"github.com/olafwrieden/azurechat-v3/application/commands/bus"
	"github.com/olafwrieden/azurechat-v3/application/queries"
	querybus "github.com/olafwrieden/azurechat-v3/application/queries/bus"
	"github.com/olafwrieden/azurechat-v3/interfaces/rpc"
	apperrors "github.com/olafwrieden/azurechat-v3/pkg/errors"
)

// maxInputBytes bounds a procedure input
const maxInputBytes = 1 << 20

type procedure func(ctx context.Context, input []byte) (interface{}, error)

// ProcedureHandler serves the named thread procedures at /rpc/{procedure}.
// Queries take their input from ?input=, mutations from the request body.
type ProcedureHandler struct {
	procedures map[string]procedure
	errors     *apperrors.ErrorHandler
	logger     *zap.Logger
}

// NewProcedureHandler creates a new procedure handler
func NewProcedureHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *apperrors.ErrorHandler,
	logger *zap.Logger,
) *ProcedureHandler {
	return &ProcedureHandler{
		procedures: map[string]procedure{
			rpc.ThreadsCreate:   send[commands.CreateThreadCommand](commandBus),
			rpc.ThreadsGetMany:  ask[queries.ListThreadsQuery](queryBus),
			rpc.ThreadsGetByID:  ask[queries.GetThreadQuery](queryBus),
			rpc.ThreadsBookmark: send[commands.ToggleBookmarkCommand](commandBus),
			rpc.ThreadsRename:   send[commands.RenameThreadCommand](commandBus),
			rpc.ThreadsDelete:   send[commands.DeleteThreadCommand](commandBus),
		},
		errors: errorHandler,
		logger: logger,
	}
}

func send[C bus.Command](commandBus *bus.CommandBus) procedure {
	return func(ctx context.Context, input []byte) (interface{}, error) {
		var cmd C
		if err := decodeInput(input, &cmd); err != nil {
			return nil, err
		}
		return commandBus.Send(ctx, cmd)
	}
}

func ask[Q querybus.Query](queryBus *querybus.QueryBus) procedure {
	return func(ctx context.Context, input []byte) (interface{}, error) {
		var query Q
		if err := decodeInput(input, &query); err != nil {
			return nil, err
		}
		return queryBus.Ask(ctx, query)
	}
}

// decodeInput treats a missing input as the zero value
func decodeInput(input []byte, v interface{}) error {
	if len(input) == 0 {
		return nil
	}
	if err := json.Unmarshal(input, v); err != nil {
		return apperrors.NewValidationError("Invalid procedure input").WithCause(err)
	}
	return nil
}

// Call handles GET and POST /rpc/{procedure}
func (h *ProcedureHandler) Call(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "procedure")

	kind, known := rpc.Lookup(name)
	call, registered := h.procedures[name]
	if !known || !registered {
		h.respondError(w, r, apperrors.NewNotFoundError("procedure "+name).WithCode(rpc.CodeNotFound))
		return
	}
	if r.Method != kind.Method() {
		w.Header().Set("Allow", kind.Method())
		h.respondError(w, r, &apperrors.AppError{
			Type:       apperrors.ErrorTypeValidation,
			Message:    name + " is a " + kind.String() + " and must be called with " + kind.Method(),
			HTTPStatus: http.StatusMethodNotAllowed,
		})
		return
	}

	input, err := readInput(r, kind)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	result, err := call(r.Context(), input)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.logger.Debug("Procedure completed",
		zap.String("procedure", name),
		zap.String("kind", kind.String()),
	)
	respondJSON(w, http.StatusOK, rpc.Response{Result: rpc.Result{Data: result}})
}

func readInput(r *http.Request, kind rpc.Kind) ([]byte, error) {
	if kind == rpc.Query {
		return []byte(r.URL.Query().Get("input")), nil
	}
	if r.Body == nil {
		return nil, nil
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxInputBytes+1))
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid request body").WithCause(err)
	}
	if len(data) > maxInputBytes {
		return nil, apperrors.NewValidationError("Procedure input too large")
	}
	return data, nil
}

func (h *ProcedureHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := h.errors.Describe(r, err)
	respondJSON(w, status, rpc.ErrorResponse{Error: rpc.ErrorBody{
		Message:    resp.Message,
		Code:       rpc.CodeForStatus(status),
		HTTPStatus: status,
		Type:       resp.Type,
		RequestID:  middleware.GetReqID(r.Context()),
		Details:    resp.Details,
	}})
}
