package mapping

import (
	"testing"

	"github.com/poiesic/medquery/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_FirstSeenWinsDedupe(t *testing.T) {
	// The external matcher saw Tremor at 0.8 before the synonym table did at
	// 0.95. Stage order is precedence, so the earlier, lower-confidence match
	// survives.
	pool := []core.ConceptMatch{
		{Concept: "Tremor", Confidence: 0.8, Origin: core.OriginExternalMatcher},
		{Concept: "Tremor", Confidence: 0.95, Origin: core.OriginSynonym},
		{Concept: "Anxiety", Confidence: 0.85, Origin: core.OriginLayDictionary},
	}

	matches, overall := aggregate(pool, 0.3)

	require.Len(t, matches, 2)
	var tremor *core.ConceptMatch
	for i := range matches {
		if matches[i].Concept == "Tremor" {
			tremor = &matches[i]
		}
	}
	require.NotNil(t, tremor)
	assert.Equal(t, core.OriginExternalMatcher, tremor.Origin)
	assert.Equal(t, 0.8, tremor.Confidence)

	// Mean over the deduplicated pool: (0.8 + 0.85) / 2.
	assert.InDelta(t, 0.825, overall, 1e-9)
}

func TestAggregate_SortIsStable(t *testing.T) {
	pool := []core.ConceptMatch{
		{Concept: "A", Confidence: 0.85, Origin: core.OriginLayDictionary},
		{Concept: "B", Confidence: 0.95, Origin: core.OriginSynonym},
		{Concept: "C", Confidence: 0.85, Origin: core.OriginLayDictionary},
	}

	matches, _ := aggregate(pool, 0.3)

	require.Len(t, matches, 3)
	assert.Equal(t, "B", matches[0].Concept)
	assert.Equal(t, "A", matches[1].Concept, "ties keep insertion order")
	assert.Equal(t, "C", matches[2].Concept)
}

func TestAggregate_FloorFilterAfterMean(t *testing.T) {
	pool := []core.ConceptMatch{
		{Concept: "A", Confidence: 0.95, Origin: core.OriginSynonym},
		{Concept: "B", Confidence: 0.95, Origin: core.OriginSynonym},
		{Concept: "C", Confidence: 0.7, Origin: core.OriginExternalLookup},
	}

	matches, overall := aggregate(pool, 0.8)

	require.Len(t, matches, 2)
	assert.InDelta(t, (0.95+0.95+0.7)/3, overall, 1e-9)
}

func TestAggregate_EmptyPool(t *testing.T) {
	matches, overall := aggregate(nil, 0.3)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
	assert.Equal(t, 0.0, overall)
}

func TestMethodFor(t *testing.T) {
	t.Run("all external matcher", func(t *testing.T) {
		pool := []core.ConceptMatch{
			{Concept: "A", Origin: core.OriginExternalMatcher},
			{Concept: "B", Origin: core.OriginExternalMatcher},
		}
		assert.Equal(t, core.MethodExternalMatcher, methodFor(pool))
	})

	t.Run("mixed sources are hybrid", func(t *testing.T) {
		pool := []core.ConceptMatch{
			{Concept: "A", Origin: core.OriginExternalMatcher},
			{Concept: "B", Origin: core.OriginSynonym},
		}
		assert.Equal(t, core.MethodHybrid, methodFor(pool))
	})

	t.Run("empty pool is hybrid", func(t *testing.T) {
		assert.Equal(t, core.MethodHybrid, methodFor(nil))
	})
}
