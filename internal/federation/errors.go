// Package federation holds the error taxonomy shared by everything that processes activities, and the
// mapping from those errors to the outcome returned to the sending server.
package federation

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMalformedRequest is returned for bodies that are not JSON documents.
	ErrMalformedRequest = errors.New("malformed request")
	// ErrAuthentication is returned when the sender could not be authenticated.
	ErrAuthentication      = errors.New("authentication failure")
	ErrUnknownActivityType = errors.New("unknown activity type")
	// ErrReferentNotFound is returned when an entity referenced by an activity does not exist locally.
	ErrReferentNotFound = errors.New("referent not found")
	// ErrValidation is returned when the fields of an activity are missing or invalid.
	ErrValidation = errors.New("validation failure")

	ErrMissingProperty        = fmt.Errorf("%w: missing property", ErrValidation)
	ErrUnprocessablePropValue = fmt.Errorf("%w: unprocessable property value", ErrValidation)
	ErrFetch                  = errors.New("fetch failed")
)

// Outcome is the uniform result of processing an inbound request.
type Outcome uint8

const (
	OK Outcome = iota
	BadRequest
	Unauthorized
	NotFound
	InternalError
)

func (o Outcome) Status() int {
	switch o {
	case OK:
		return http.StatusOK
	case BadRequest:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (o Outcome) String() string {
	switch o {
	case OK:
		return "OK"
	case BadRequest:
		return "BadRequest"
	case Unauthorized:
		return "Unauthorized"
	case NotFound:
		return "NotFound"
	default:
		return "InternalError"
	}
}

// OutcomeFor maps an error returned while processing an activity to the outcome reported to the sender.
// Unknown activity types surface as NotFound, so that senders do not treat unsupported parts of a growing
// protocol as errors.
func OutcomeFor(err error) Outcome {
	switch {
	case err == nil:
		return OK
	case errors.Is(err, ErrMalformedRequest), errors.Is(err, ErrValidation):
		return BadRequest
	case errors.Is(err, ErrAuthentication):
		return Unauthorized
	case errors.Is(err, ErrUnknownActivityType), errors.Is(err, ErrReferentNotFound):
		return NotFound
	default:
		return InternalError
	}
}
