// Package response writes the API's JSON envelope. Every body has the shape
// {"data": ..., "error": ...} with exactly one of the two set.
package response

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/trailmap/trailmap/pkg/errors"
)

// Response is the envelope written for every request.
type Response struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
}

// Error describes a failed request. Code is stable and machine readable;
// Message and Details are for people.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Success wraps data in an envelope.
func Success(data any) Response { return Response{Data: data} }

// Fail builds an error envelope.
func Fail(code, message, details string) Response {
	return Response{Error: &Error{Code: code, Message: message, Details: details}}
}

// JSON writes resp with the given status.
func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func fail(w http.ResponseWriter, status int, code, message, details string) {
	JSON(w, status, Fail(code, message, details))
}

// OK writes data with status 200.
func OK(w http.ResponseWriter, data any) { JSON(w, http.StatusOK, Success(data)) }

// Created writes data with status 201.
func Created(w http.ResponseWriter, data any) { JSON(w, http.StatusCreated, Success(data)) }

// BadRequest writes a 400.
func BadRequest(w http.ResponseWriter, message, details string) {
	fail(w, http.StatusBadRequest, "BAD_REQUEST", message, details)
}

// Unauthorized writes a 401.
func Unauthorized(w http.ResponseWriter, message, details string) {
	fail(w, http.StatusUnauthorized, "UNAUTHORIZED", message, details)
}

// NotFound writes a 404.
func NotFound(w http.ResponseWriter, message, details string) {
	fail(w, http.StatusNotFound, "NOT_FOUND", message, details)
}

// Conflict writes a 409.
func Conflict(w http.ResponseWriter, message, details string) {
	fail(w, http.StatusConflict, "CONFLICT", message, details)
}

// Unprocessable writes a 422 for an operation the remote refused.
func Unprocessable(w http.ResponseWriter, message, details string) {
	fail(w, http.StatusUnprocessableEntity, "REMOTE_REJECTED", message, details)
}

// BadGateway writes a 502.
func BadGateway(w http.ResponseWriter, details string) {
	fail(w, http.StatusBadGateway, "BAD_GATEWAY", "Remote service failed", details)
}

// GatewayTimeout writes a 504.
func GatewayTimeout(w http.ResponseWriter, details string) {
	fail(w, http.StatusGatewayTimeout, "TIMEOUT", "Remote service timed out", details)
}

// InternalError writes a 500. err is never shown to the caller.
func InternalError(w http.ResponseWriter, _ error) {
	fail(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", "An unexpected error occurred")
}

// ServiceUnavailable writes a 503.
func ServiceUnavailable(w http.ResponseWriter, details string) {
	fail(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Service unavailable", details)
}

// ErrorFromType picks the status for err by its type.
//
// Remote failures are reported as gateway errors: a transport failure is
// 502, a call that ran out of time is 504 and an envelope answered with
// ok=false is 422. An index the identity map cannot resolve is 409 because
// a re-list would fix it.
func ErrorFromType(w http.ResponseWriter, err error) {
	var (
		validation *errors.ValidationError
		parse      *errors.ParseError
		notFound   *errors.NotFoundError
		identity   *errors.IdentityError
		remote     *errors.RemoteError
	)
	switch {
	case errors.As(err, &validation):
		BadRequest(w, validation.Error(), "")
	case errors.As(err, &parse):
		BadRequest(w, parse.Error(), "")
	case errors.As(err, &notFound):
		NotFound(w, notFound.Error(), "")
	case errors.As(err, &identity):
		Conflict(w, identity.Error(), "refresh the hikes and retry")
	case errors.As(err, &remote):
		Unprocessable(w, remote.Error(), "")
	case errors.IsTimeout(err), errors.Is(err, context.DeadlineExceeded):
		GatewayTimeout(w, err.Error())
	case errors.IsTransport(err):
		BadGateway(w, err.Error())
	case errors.Is(err, errors.ErrRemoteDisabled):
		ServiceUnavailable(w, err.Error())
	default:
		InternalError(w, err)
	}
}
