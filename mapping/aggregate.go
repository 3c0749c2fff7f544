package mapping

import (
	"sort"

	"github.com/poiesic/medquery/core"
)

// aggregate turns the raw candidate pool into the final ranked match list.
//
// Duplicate concepts keep the first-seen match, so stage order doubles as
// tie-break precedence: external matcher > synonym > lay dictionary > lookup.
// The overall confidence is the mean over the deduplicated pool before the
// floor filter, which means an excluded low-confidence candidate still moves
// the reported value. That mirrors the original behavior on purpose.
func aggregate(pool []core.ConceptMatch, minConfidence float64) ([]core.ConceptMatch, float64) {
	if len(pool) == 0 {
		return []core.ConceptMatch{}, 0
	}

	// (a) first-seen dedupe by concept name
	seen := make(map[string]bool, len(pool))
	deduped := make([]core.ConceptMatch, 0, len(pool))
	for _, match := range pool {
		if seen[match.Concept] {
			continue
		}
		seen[match.Concept] = true
		deduped = append(deduped, match)
	}

	// (b) pre-filter mean
	var sum float64
	for _, match := range deduped {
		sum += match.Confidence
	}
	overall := sum / float64(len(deduped))

	// (c) confidence floor
	kept := make([]core.ConceptMatch, 0, len(deduped))
	for _, match := range deduped {
		if match.Confidence < minConfidence {
			continue
		}
		kept = append(kept, match)
	}

	// (d) rank; stable so equal confidences keep insertion order
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Confidence > kept[j].Confidence
	})

	return kept, overall
}
