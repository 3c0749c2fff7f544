package query

import (
	"testing"

	"github.com/poiesic/medquery/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankedResult() *core.MappingResult {
	return &core.MappingResult{
		OriginalQuery: "my hands shake when I'm nervous",
		Matches: []core.ConceptMatch{
			{Concept: "Tremor", Confidence: 0.95, Origin: core.OriginSynonym},
			{Concept: "Anxiety", Confidence: 0.85, Origin: core.OriginLayDictionary},
			{Concept: "Essential Tremor", Confidence: 0.75, Origin: core.OriginLayDictionary},
		},
		OverallConfidence: 0.85,
		Method:            core.MethodHybrid,
	}
}

func TestSynthesize(t *testing.T) {
	t.Run("concept disjunction widened by free text", func(t *testing.T) {
		opts := core.QueryOptions{MaxConceptTerms: 3}
		q := Synthesize(rankedResult(), opts)

		assert.Contains(t, q, `"Tremor"[MeSH Terms]`)
		assert.Contains(t, q, `"Anxiety"[MeSH Terms]`)
		assert.Contains(t, q, `"Essential Tremor"[MeSH Terms]`)
		assert.Contains(t, q, `"my hands shake when I'm nervous"[All Fields]`)
		assert.NotContains(t, q, "[Subheading]")
	})

	t.Run("max concept terms caps the disjunction", func(t *testing.T) {
		opts := core.QueryOptions{MaxConceptTerms: 1}
		q := Synthesize(rankedResult(), opts)

		assert.Contains(t, q, `"Tremor"[MeSH Terms]`, "highest-confidence concept survives")
		assert.NotContains(t, q, `"Anxiety"[MeSH Terms]`)
		assert.NotContains(t, q, `"Essential Tremor"[MeSH Terms]`)
	})

	t.Run("subheadings conjoined as a fixed disjunction", func(t *testing.T) {
		opts := core.QueryOptions{MaxConceptTerms: 3, IncludeSubheadings: true}
		q := Synthesize(rankedResult(), opts)

		assert.Contains(t, q,
			` AND ("therapy"[Subheading] OR "diagnosis"[Subheading] OR "etiology"[Subheading] OR "pathophysiology"[Subheading])`)
	})

	t.Run("date range passes bounds through verbatim", func(t *testing.T) {
		opts := core.QueryOptions{
			MaxConceptTerms: 3,
			DateRange:       &core.DateRange{Start: "2020/01/01", End: "2024/12/31"},
		}
		q := Synthesize(rankedResult(), opts)

		assert.Contains(t, q,
			` AND ("2020/01/01"[Date - Publication] : "2024/12/31"[Date - Publication])`)
	})

	t.Run("no concepts falls back to free text only", func(t *testing.T) {
		result := &core.MappingResult{OriginalQuery: "rare unmappable complaint"}
		opts := core.QueryOptions{
			MaxConceptTerms:    3,
			IncludeSubheadings: true,
			DateRange:          &core.DateRange{Start: "2020", End: "2024"},
		}
		q := Synthesize(result, opts)

		// Fallback ignores subheading and date constraints.
		assert.Equal(t, `"rare unmappable complaint"[All Fields]`, q)
	})

	t.Run("empty query falls back to an empty free-text clause", func(t *testing.T) {
		result := &core.MappingResult{OriginalQuery: ""}
		q := Synthesize(result, core.DefaultQueryOptions())
		assert.Equal(t, `""[All Fields]`, q)
	})

	t.Run("negative max concept terms clamps to fallback", func(t *testing.T) {
		opts := core.QueryOptions{MaxConceptTerms: -5}
		q := Synthesize(rankedResult(), opts)
		assert.Equal(t, `"my hands shake when I'm nervous"[All Fields]`, q)
	})

	t.Run("synthesis is deterministic", func(t *testing.T) {
		opts := core.DefaultQueryOptions()
		opts.DateRange = &core.DateRange{Start: "2019/06/01", End: "2025/06/01"}
		first := Synthesize(rankedResult(), opts)
		second := Synthesize(rankedResult(), opts)
		require.Equal(t, first, second)
	})
}
