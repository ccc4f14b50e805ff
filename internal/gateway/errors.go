package gateway

import (
	"errors"
	"net/http"

	"github.com/movaengine/runner/internal/pathutil"
)

// Error kinds produced while validating a request and building its argument
// vector. Handlers discriminate these once, at the HTTP boundary, to pick a
// status code; components below the boundary only wrap and return them.
var (
	// ErrNotAllowed marks a command identifier absent from the allow-list.
	ErrNotAllowed = errors.New("command not in allow-list")

	// ErrMissingArgument marks a required placeholder with no caller value.
	ErrMissingArgument = errors.New("missing required argument")

	// ErrInvalidArgument marks a value that fails its placeholder's rules.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidIdentifier marks an identifier value with illegal characters.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrRateLimited marks a request rejected by the sliding-window limiter.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// ErrPathViolation is re-exported so handlers and tests discriminate path
// failures without importing pathutil.
var ErrPathViolation = pathutil.ErrPathViolation

// statusFor maps an error kind to its HTTP status. Unknown errors are
// internal faults.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotAllowed):
		return http.StatusForbidden
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrMissingArgument),
		errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrInvalidIdentifier),
		errors.Is(err, ErrPathViolation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
