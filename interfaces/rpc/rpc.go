// Package rpc holds the procedure names and wire envelopes shared by the
// procedure routes and the API client.
package rpc

import (
	"encoding/json"
	"net/http"
	"strings"
)

// PathPrefix is where the procedure routes are mounted
const PathPrefix = "/rpc"

// IsProcedurePath reports whether path addresses a procedure route
func IsProcedurePath(path string) bool {
	return strings.HasPrefix(path, PathPrefix+"/")
}

// Procedure names
const (
	ThreadsCreate   = "threads.create"
	ThreadsGetMany  = "threads.getMany"
	ThreadsGetByID  = "threads.getById"
	ThreadsBookmark = "threads.bookmark"
	ThreadsRename   = "threads.rename"
	ThreadsDelete   = "threads.delete"
)

// Kind tells reads from writes
type Kind int

const (
	Query Kind = iota
	Mutation
)

var procedures = map[string]Kind{
	ThreadsCreate:   Mutation,
	ThreadsGetMany:  Query,
	ThreadsGetByID:  Query,
	ThreadsBookmark: Mutation,
	ThreadsRename:   Mutation,
	ThreadsDelete:   Mutation,
}

// Lookup reports the kind of a known procedure
func Lookup(name string) (Kind, bool) {
	k, ok := procedures[name]
	return k, ok
}

// Method is the HTTP method a procedure of kind k is called with
func (k Kind) Method() string {
	if k == Query {
		return http.MethodGet
	}
	return http.MethodPost
}

func (k Kind) String() string {
	if k == Query {
		return "query"
	}
	return "mutation"
}

// Response wraps a successful procedure result
type Response struct {
	Result Result `json:"result"`
}

// Result carries the procedure output
type Result struct {
	Data interface{} `json:"data"`
}

// RawResponse is Response as seen by a client that decodes data itself
type RawResponse struct {
	Result struct {
		Data json.RawMessage `json:"data"`
	} `json:"result"`
}

// ErrorResponse wraps a failed procedure call
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes a procedure failure
type ErrorBody struct {
	Message    string                 `json:"message"`
	Code       string                 `json:"code"`
	HTTPStatus int                    `json:"httpStatus"`
	Type       string                 `json:"type,omitempty"`
	RequestID  string                 `json:"requestId,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

// Error codes
const (
	CodeBadRequest         = "BAD_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotSupported = "METHOD_NOT_SUPPORTED"
	CodeTimeout            = "TIMEOUT"
	CodeConflict           = "CONFLICT"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"
	CodeInternal           = "INTERNAL_SERVER_ERROR"
	CodeBadGateway         = "BAD_GATEWAY"
	CodeUnavailable        = "SERVICE_UNAVAILABLE"
	CodeGatewayTimeout     = "GATEWAY_TIMEOUT"
)

// CodeForStatus maps an HTTP status to its procedure error code
func CodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return CodeBadRequest
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusMethodNotAllowed:
		return CodeMethodNotSupported
	case http.StatusRequestTimeout:
		return CodeTimeout
	case http.StatusConflict:
		return CodeConflict
	case http.StatusTooManyRequests:
		return CodeTooManyRequests
	case http.StatusBadGateway:
		return CodeBadGateway
	case http.StatusServiceUnavailable:
		return CodeUnavailable
	case http.StatusGatewayTimeout:
		return CodeGatewayTimeout
	default:
		return CodeInternal
	}
}

// Path returns the route of a procedure below prefix
func Path(prefix, name string) string {
	return strings.TrimRight(prefix, "/") + "/" + name
}
