package mapping

import "context"

// ExternalMatch is one hit reported by the pluggable concept-matching service.
type ExternalMatch struct {
	// Term is the controlled-vocabulary name the service matched.
	Term string
	// ID is the service's identifier for the term, if any.
	ID string
	// Similarity is the service-reported score in [0,1]. Zero means the
	// service omitted a score.
	Similarity float64
	// MatchedPhrase is the input substring the service matched, if reported.
	MatchedPhrase string
}

// ConceptMatcher is the optional external concept-matching collaborator.
// Implementations must be safe for concurrent use.
type ConceptMatcher interface {
	// MatchConcepts sends text to the matching endpoint and returns its hits.
	// Transport and decode failures are returned as errors; the mapper
	// swallows them.
	MatchConcepts(ctx context.Context, text string) ([]ExternalMatch, error)
}

// Term is one resolved controlled-vocabulary term from the lookup service.
type Term struct {
	// UID is the external identifier, e.g. a MeSH UID.
	UID string
	// Name is the display term.
	Name string
}

// TermLookup is the conditional terminology-lookup collaborator.
// Implementations must be safe for concurrent use.
type TermLookup interface {
	// LookupTerms searches the terminology service with the full query text
	// and resolves up to five candidate identifiers to display terms.
	LookupTerms(ctx context.Context, text string) ([]Term, error)
}
