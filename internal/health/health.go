// Package health implements the health-check revalidator: it re-verifies
// the stalest active venues against the web and confirms, corrects,
// archives, or leaves them untouched when evidence is inconclusive.
package health

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/scoutd/scout/internal/agentloop"
)

// Per-venue check outcomes.
const (
	StatusConfirmed    = "confirmed_active"
	StatusCorrected    = "corrected"
	StatusClosed       = "closed"
	StatusInconclusive = "inconclusive"
)

// Domain errors for health-check operations.
var (
	ErrInvalidLimit = errors.New("health check limit must be positive")
)

// MapHTTPStatus maps health domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidLimit) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Result records the outcome of checking a single venue. Corrected
// fields, when present, were already merged into the record.
type Result struct {
	VenueID  uuid.UUID          `json:"venue_id"`
	Name     string             `json:"name"`
	Status   string             `json:"status"`
	Evidence string             `json:"evidence,omitempty"`
	Sources  []agentloop.Source `json:"sources,omitempty"`
}

// Summary aggregates a revalidation batch. Inconclusive checks are soft
// failures: the venue was not mutated and will surface again as stale.
type Summary struct {
	Checked      int           `json:"checked"`
	Confirmed    []uuid.UUID   `json:"confirmed"`
	Corrected    []uuid.UUID   `json:"corrected"`
	Closed       []uuid.UUID   `json:"closed"`
	Inconclusive []uuid.UUID   `json:"inconclusive"`
	Results      []Result      `json:"results"`
	Elapsed      time.Duration `json:"elapsed"`
}
