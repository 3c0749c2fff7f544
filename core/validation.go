// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "fmt"

// ValidateMatch validates a ConceptMatch according to domain rules.
//
// Validation rules:
//   - Concept must not be empty
//   - Origin must be a known MatchOrigin
//
// NOT validated:
//   - Confidence (lay-dictionary decay legitimately produces values below 0;
//     the aggregator's floor filter is the only gate)
//   - SourcePhrase (whole-query lookups and service matches may omit it)
func ValidateMatch(match *ConceptMatch) error {
	if match == nil {
		return fmt.Errorf("%w: match is nil", ErrInvalidMatch)
	}

	if match.Concept == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMatch, ErrEmptyConcept)
	}

	if err := ValidateOrigin(match.Origin); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMatch, err)
	}

	return nil
}

// ValidateOrigin validates that a MatchOrigin has a known value.
func ValidateOrigin(origin MatchOrigin) error {
	switch origin {
	case OriginExternalMatcher, OriginSynonym, OriginLayDictionary, OriginExternalLookup:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidOrigin, origin)
}

// ClampMaxConceptTerms normalizes a MaxConceptTerms value.
// Negative values clamp to 0, which routes synthesis to the free-text fallback.
func ClampMaxConceptTerms(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
