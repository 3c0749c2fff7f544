package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier derived from content.
// Used for cache keys so that identical queries hit the same entry.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// MatchOrigin identifies which matcher stage produced a ConceptMatch.
// Stage order also defines precedence when duplicate concepts are deduplicated.
type MatchOrigin string

const (
	// OriginExternalMatcher marks matches from the pluggable concept-matching service.
	OriginExternalMatcher MatchOrigin = "external_matcher"
	// OriginSynonym marks matches from the built-in synonym table.
	OriginSynonym MatchOrigin = "synonym"
	// OriginLayDictionary marks matches from the lay-term table.
	OriginLayDictionary MatchOrigin = "lay_dictionary"
	// OriginExternalLookup marks matches resolved through the terminology lookup service.
	OriginExternalLookup MatchOrigin = "external_lookup"
)

// ConceptMatch is one candidate mapping of a phrase to a controlled-vocabulary term.
// Confidence is assigned once by the producing stage and never mutated;
// later stages only filter and sort.
type ConceptMatch struct {
	// Concept is the canonical controlled-vocabulary name, e.g. "Tremor".
	Concept string
	// SourcePhrase is the substring of the input that triggered the match.
	// Whole-query lookups set it to the full normalized query.
	SourcePhrase string
	// Confidence is in [0,1] for table and service matches. Lay-dictionary
	// decay is not floor-clamped and can go below 0 for long candidate lists;
	// the aggregate floor filter removes those.
	Confidence float64
	// Origin records the stage that produced this match.
	Origin MatchOrigin
	// ConceptID is an external identifier (MeSH UID) when sourced from a
	// lookup service. Empty otherwise.
	ConceptID string
}

// MappingMethod describes which sources contributed to a MappingResult.
type MappingMethod string

const (
	// MethodExternalMatcher means every match came from the external concept matcher.
	MethodExternalMatcher MappingMethod = "external_matcher"
	// MethodHybrid means synonym, lay-dictionary, or lookup sources contributed.
	MethodHybrid MappingMethod = "hybrid"
)

// MappingResult is the aggregate output of the mapping stage for one query.
// It is constructed fresh per call and immutable once returned.
type MappingResult struct {
	// OriginalQuery is the caller's text, untouched.
	OriginalQuery string
	// Matches is sorted descending by confidence with concept names unique.
	Matches []ConceptMatch
	// UnmatchedFragments holds residual significant tokens in original
	// left-to-right order.
	UnmatchedFragments []string
	// OverallConfidence is the mean confidence of the deduplicated candidate
	// pool before the confidence-floor filter is applied to Matches, or 0 if
	// the pool is empty. A low-confidence candidate that the floor removes
	// still moves this value.
	OverallConfidence float64
	// Method is MethodExternalMatcher only when the pool came exclusively
	// from the external matcher; otherwise MethodHybrid.
	Method MappingMethod
}

// DateRange bounds a publication-date clause. Bounds are passed through
// verbatim; no validation that Start <= End.
type DateRange struct {
	Start string
	End   string
}

// QueryOptions configures boolean query synthesis.
type QueryOptions struct {
	// MaxConceptTerms caps the concepts folded into the boolean expression.
	// Values below 0 are treated as 0, which routes to the free-text fallback.
	MaxConceptTerms int
	// IncludeSubheadings conjoins the fixed clinical subheading disjunction.
	IncludeSubheadings bool
	// DateRange conjoins a publication-date range clause when non-nil.
	DateRange *DateRange
}

// DefaultQueryOptions returns the documented defaults.
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{
		MaxConceptTerms:    3,
		IncludeSubheadings: true,
	}
}

// Article is one literature record fetched from the search collaborator.
type Article struct {
	PMID      string
	Title     string
	Abstract  string
	Authors   []string
	Journal   string
	PubDate   time.Time
	MeshTerms []string
	DOI       string
}
