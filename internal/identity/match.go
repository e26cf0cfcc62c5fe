package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a match result.
type Kind int

const (
	// NoMatch indicates no existing record resembles the target.
	NoMatch Kind = iota
	// LikelyMatch indicates a similar record scored above the review floor.
	LikelyMatch
	// ExactMatch indicates a record with an identical identity key.
	ExactMatch
)

// String returns the lowercase name of the match kind.
func (k Kind) String() string {
	switch k {
	case ExactMatch:
		return "exact"
	case LikelyMatch:
		return "likely"
	default:
		return "none"
	}
}

// Ref is an existing record's identity projection presented to the matcher.
// LastVerifiedAt breaks score ties in favor of the most recently verified record.
type Ref struct {
	ID             uuid.UUID
	Name           string
	Address        string
	LastVerifiedAt *time.Time
}

// Policy holds the similarity thresholds that bound the matcher's heuristics.
// Scores at or above AutoMerge are safe to merge without review; scores at or
// above ReviewFloor but below AutoMerge are ambiguous.
type Policy struct {
	AutoMerge   float64
	ReviewFloor float64
}

// DefaultPolicy returns the default matching thresholds.
func DefaultPolicy() Policy {
	return Policy{
		AutoMerge:   0.90,
		ReviewFloor: 0.60,
	}
}

// Result is the outcome of matching a target identity against existing records.
// Ref is zero-valued when Kind is NoMatch.
type Result struct {
	Kind  Kind
	Ref   Ref
	Score float64
}

// AutoMerge reports whether the result is safe to merge without human review.
func (r Result) AutoMerge(p Policy) bool {
	return r.Kind == ExactMatch || (r.Kind == LikelyMatch && r.Score >= p.AutoMerge)
}

// Match compares a target identity against existing records. Equal identity
// keys win as ExactMatch immediately. Otherwise the highest-scoring record at
// or above the review floor is reported as LikelyMatch; ties are broken by
// most recent verification. Records below the floor yield NoMatch.
func Match(target Identity, records []Ref, policy Policy) Result {
	targetKey := target.Key()

	best := Result{Kind: NoMatch}
	for _, rec := range records {
		if Key(rec.Name, rec.Address) == targetKey {
			return Result{Kind: ExactMatch, Ref: rec, Score: 1}
		}

		score := Similarity(target, Identity{Name: rec.Name, Address: rec.Address})
		if score < policy.ReviewFloor {
			continue
		}

		if score > best.Score || (score == best.Score && moreRecent(rec, best.Ref)) {
			best = Result{Kind: LikelyMatch, Ref: rec, Score: score}
		}
	}

	return best
}

// Similarity scores how likely two identities denote the same venue, in [0, 1].
// The name carries more weight than the street line; when either side lacks
// an address, the name score stands alone.
func Similarity(a, b Identity) float64 {
	nameScore := fieldSimilarity(NormalizeName(a.Name), NormalizeName(b.Name))

	addrA := NormalizeAddress(a.Address)
	addrB := NormalizeAddress(b.Address)
	if addrA == "" || addrB == "" {
		return nameScore
	}

	streetScore := fieldSimilarity(addrA, addrB)
	return 0.6*nameScore + 0.4*streetScore
}

// fieldSimilarity blends token overlap with normalized edit distance.
func fieldSimilarity(a, b string) float64 {
	if a == "" && b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	return 0.5*tokenOverlap(a, b) + 0.5*editSimilarity(a, b)
}

// tokenOverlap returns the Jaccard index of the two token sets.
func tokenOverlap(a, b string) float64 {
	setA := map[string]bool{}
	for _, t := range strings.Fields(a) {
		setA[t] = true
	}
	setB := map[string]bool{}
	for _, t := range strings.Fields(b) {
		setB[t] = true
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	shared := 0
	for t := range setA {
		if setB[t] {
			shared++
		}
	}

	union := len(setA) + len(setB) - shared
	return float64(shared) / float64(union)
}

// editSimilarity returns 1 - levenshtein/maxLen over the raw normalized strings.
func editSimilarity(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 0
	}
	return 1 - float64(levenshtein(a, b))/float64(longest)
}

// levenshtein computes edit distance with a two-row table.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func moreRecent(a, b Ref) bool {
	if a.LastVerifiedAt == nil {
		return false
	}
	if b.LastVerifiedAt == nil {
		return true
	}
	return a.LastVerifiedAt.After(*b.LastVerifiedAt)
}
