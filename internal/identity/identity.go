// Package identity implements heuristic venue identity matching.
// It decides whether two venue descriptions denote the same real-world place
// using normalized string equality and a blended token-overlap/edit-distance
// similarity. Matching is pure policy: no store access, no side effects.
package identity

import (
	"strings"
	"unicode"
)

// Identity holds the fields used to identify a venue.
type Identity struct {
	Name    string
	Address string
}

// Key returns the normalized identity key for a name and address.
// Records with equal keys are treated as the same venue.
func Key(name, address string) string {
	return NormalizeName(name) + "|" + NormalizeAddress(address)
}

// Key returns the identity key for this identity.
func (id Identity) Key() string {
	return Key(id.Name, id.Address)
}

// nameStopTokens are dropped from venue names during normalization.
// City shorthands and corporate suffixes carry no identity signal.
var nameStopTokens = map[string]bool{
	"the": true,
	"nyc": true,
	"llc": true,
	"inc": true,
	"co":  true,
}

// unitMarkers introduce unit/suite designations in addresses. The marker and
// the token that follows it are both dropped.
var unitMarkers = map[string]bool{
	"suite": true,
	"ste":   true,
	"unit":  true,
	"apt":   true,
	"fl":    true,
	"floor": true,
	"rm":    true,
	"room":  true,
}

// streetAbbreviations folds common long-form street suffixes to their
// abbreviated form so "344 Bowery Street" and "344 Bowery St" compare equal.
var streetAbbreviations = map[string]string{
	"street":    "st",
	"avenue":    "ave",
	"boulevard": "blvd",
	"road":      "rd",
	"place":     "pl",
	"drive":     "dr",
	"lane":      "ln",
	"square":    "sq",
	"west":      "w",
	"east":      "e",
	"north":     "n",
	"south":     "s",
}

// NormalizeName lowercases, strips punctuation, and drops stop tokens from a
// venue name.
func NormalizeName(name string) string {
	tokens := tokenize(name)
	kept := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if nameStopTokens[t] {
			continue
		}
		kept = append(kept, t)
	}
	return strings.Join(kept, " ")
}

// NormalizeAddress lowercases, strips punctuation, removes unit/suite
// designations, and folds street suffix abbreviations. Only the street line
// (text before the first comma) participates.
func NormalizeAddress(address string) string {
	street := StreetLine(address)
	tokens := tokenize(street)

	kept := make([]string, 0, len(tokens))
	skipNext := false
	for _, t := range tokens {
		if skipNext {
			skipNext = false
			continue
		}
		if unitMarkers[t] {
			skipNext = true
			continue
		}
		if strings.HasPrefix(t, "#") {
			continue
		}
		if abbr, ok := streetAbbreviations[t]; ok {
			t = abbr
		}
		kept = append(kept, t)
	}
	return strings.Join(kept, " ")
}

// StreetLine returns the portion of an address before the first comma.
func StreetLine(address string) string {
	if i := strings.Index(address, ","); i >= 0 {
		return address[:i]
	}
	return address
}

// tokenize lowercases the input and splits it into tokens, stripping all
// punctuation except a leading # (which marks unit numbers).
func tokenize(s string) []string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		case r == '#':
			sb.WriteRune(' ')
			sb.WriteRune(r)
		default:
			sb.WriteRune(' ')
		}
	}
	return strings.Fields(sb.String())
}
