// Package apierror provides standardized error response structures for the API
// and the error kinds services use to report rule violations.
// All errors returned to clients go through this package so that internal
// details (SQL errors, stack traces) never leak.
package apierror

import (
	"errors"
	"net/http"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// GenericMessage is the only text a client ever sees for persistence failures.
const GenericMessage = "Error interno del servidor"

// ── Kinds ────────────────────────────────────────────────────────────────────

type Kind string

const (
	InvalidInput        Kind = "invalid_input"
	Unauthorized        Kind = "unauthorized"
	Forbidden           Kind = "forbidden"
	NotFound            Kind = "not_found"
	Conflict            Kind = "conflict"
	ActiveSessionExists Kind = "active_session_exists"
	NoActiveSession     Kind = "no_active_session"
	InsufficientFunds   Kind = "insufficient_funds"
	InsufficientStock   Kind = "insufficient_stock"
	PersistenceFailure  Kind = "persistence_failure"
)

// Error is a classified failure carrying a message safe to show to the user.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// E builds a classified error.
func E(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap builds a classified error keeping the cause for logs.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf returns the kind of err. Anything unclassified is a persistence failure.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return PersistenceFailure
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf returns the user-facing message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != PersistenceFailure {
		return e.Message
	}
	return GenericMessage
}

// HTTPStatus maps a kind to its response status.
// Step-up credential rejections are 400, not 401: the caller's own session is valid.
func HTTPStatus(kind Kind) int {
	switch kind {
	case InvalidInput, Unauthorized, NoActiveSession, InsufficientFunds, InsufficientStock:
		return http.StatusBadRequest
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict, ActiveSessionExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
