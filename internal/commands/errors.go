// ABOUTME: Maps store and session errors to the error strings the UI receives
// ABOUTME: Each string is prefixed with its error kind

package commands

import (
	"errors"

	"github.com/2389/lpe-reminder/internal/session"
	"github.com/2389/lpe-reminder/internal/store"
)

// ErrInvalidArgument is returned for malformed or missing command arguments.
var ErrInvalidArgument = errors.New("invalid argument")

// Error kinds as seen by the UI.
const (
	KindInit               = "InitError"
	KindNotFound           = "NotFound"
	KindConstraint         = "ConstraintViolation"
	KindPreconditionFailed = "PreconditionFailed"
	KindInvalidArgument    = "InvalidArgument"
	KindBackend            = "BackendFailure"
)

// Kind classifies err into one of the error kinds.
func Kind(err error) string {
	switch {
	case errors.Is(err, store.ErrInit):
		return KindInit
	case errors.Is(err, store.ErrNotFound):
		return KindNotFound
	case errors.Is(err, store.ErrConstraintViolation):
		return KindConstraint
	case errors.Is(err, session.ErrNoCurrentUser):
		return KindPreconditionFailed
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	default:
		return KindBackend
	}
}

// ErrorString renders err as "<kind>: <message>". A nil error yields "".
func ErrorString(err error) string {
	if err == nil {
		return ""
	}
	return Kind(err) + ": " + err.Error()
}
