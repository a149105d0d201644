package remote

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNetwork    = errors.New("record store unreachable")
	ErrServer     = errors.New("record store request failed")
	ErrValidation = errors.New("record store rejected payload")
	ErrNotFound   = errors.New("record not found")
)

// StatusError describes a non-success response from the record store.
type StatusError struct {
	Op         string // "list", "create", "delete"
	StatusCode int
	Code       int    // store-specific error code, 0 if absent
	Message    string // store-provided message, may be empty
	kind       error
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%v: %s: status %d", e.kind, e.Op, e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns the taxonomy sentinel, so errors.Is works against
// ErrServer, ErrValidation and ErrNotFound.
func (e *StatusError) Unwrap() error {
	return e.kind
}

// classify maps an HTTP status for the given operation onto the taxonomy.
func classify(op string, status int) error {
	switch {
	case op == opDelete && status == http.StatusNotFound:
		return ErrNotFound
	case op == opCreate && (status == http.StatusBadRequest || status == http.StatusUnprocessableEntity):
		return ErrValidation
	default:
		return ErrServer
	}
}
