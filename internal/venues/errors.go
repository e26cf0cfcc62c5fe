package venues

import (
	"errors"
	"net/http"
)

// Domain errors for venue operations.
var (
	ErrNotFound      = errors.New("venue not found")
	ErrDuplicate     = errors.New("venue already exists")
	ErrInvalidVenue  = errors.New("invalid venue")
	ErrInvalidUpdate = errors.New("update contains no changes")
	ErrInvalidStatus = errors.New("invalid venue status")
	ErrArchived      = errors.New("venue is archived")
	ErrNotArchived   = errors.New("venue is not archived")
	ErrArchiveReason = errors.New("archive requires a reason")
)

// MapHTTPStatus maps venue domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrArchived) || errors.Is(err, ErrNotArchived) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidVenue) ||
		errors.Is(err, ErrInvalidUpdate) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrArchiveReason) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
