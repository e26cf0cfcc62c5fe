package research

import (
	"strings"

	"github.com/scoutd/scout/internal/agentloop"
	"github.com/scoutd/scout/internal/identity"
)

// Candidate is a single venue recommendation extracted from an agent
// answer. It is ephemeral: reconciliation decides whether it becomes a
// new record, a merge, or a review flag. ReportedActive marks explicit
// evidence that a venue previously recorded as closed is open again.
type Candidate struct {
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	Neighborhood   string   `json:"neighborhood,omitempty"`
	City           string   `json:"city"`
	VenueType      string   `json:"venue_type,omitempty"`
	Website        *string  `json:"website,omitempty"`
	Phone          *string  `json:"phone,omitempty"`
	Email          *string  `json:"email,omitempty"`
	ContactName    *string  `json:"contact_name,omitempty"`
	PriceRange     *string  `json:"price_range,omitempty"`
	EstimatedCost  *string  `json:"estimated_cost,omitempty"`
	CapacityMin    *int     `json:"capacity_min,omitempty"`
	CapacityMax    *int     `json:"capacity_max,omitempty"`
	PrivateSpace   *bool    `json:"private_space,omitempty"`
	AVAvailable    *bool    `json:"av_available,omitempty"`
	OutdoorSpace   *bool    `json:"outdoor_space,omitempty"`
	CuisineStyle   *string  `json:"cuisine_or_style,omitempty"`
	BestFor        []string `json:"best_for,omitempty"`
	Highlights     *string  `json:"highlights,omitempty"`
	SourceURL      *string  `json:"source_url,omitempty"`
	Confidence     string   `json:"confidence,omitempty"`
	ReportedActive bool     `json:"reported_active,omitempty"`
}

// Identity returns the candidate's identity projection for matching.
func (c Candidate) Identity() identity.Identity {
	return identity.Identity{Name: c.Name, Address: c.Address}
}

// Valid reports whether the candidate carries enough identity to be
// reconciled. The registry requires a venue name, so a name-less
// candidate can never be created or matched reliably.
func (c Candidate) Valid() bool {
	return strings.TrimSpace(c.Name) != ""
}

// Report is the full output of a research run. Candidates are already
// validated; malformed entries are dropped into Warnings. Outcome is an
// agentloop outcome: partial reports carry whatever the loop salvaged
// before its budget ran out.
type Report struct {
	Query      Query              `json:"query"`
	Candidates []Candidate        `json:"candidates"`
	Warnings   []string           `json:"warnings,omitempty"`
	Notes      string             `json:"notes,omitempty"`
	Outcome    string             `json:"outcome"`
	Steps      int                `json:"steps"`
	Sources    []agentloop.Source `json:"sources,omitempty"`
}

// answer is the JSON document the agent is instructed to return.
type answer struct {
	Venues        []Candidate `json:"venues"`
	ResearchNotes string      `json:"research_notes,omitempty"`
}
