package research

import (
	"errors"
	"net/http"
)

// Domain errors for research operations.
var (
	ErrInvalidQuery     = errors.New("research query requires a city")
	ErrInvalidEventType = errors.New("unrecognized event type")
	ErrNoAnswer         = errors.New("agent produced no parseable answer")
)

// MapHTTPStatus maps research domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidQuery) || errors.Is(err, ErrInvalidEventType) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrNoAnswer) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
