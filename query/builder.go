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


// Package query builds PubMed boolean search expressions from mapping
// results. Synthesis is stateless and deterministic: the same MappingResult
// and QueryOptions always produce byte-identical output.
package query

import (
	"strings"

	"github.com/poiesic/medquery/core"
)

// subheadings is the fixed disjunction conjoined when IncludeSubheadings is
// set. It narrows results to clinically actionable contexts; a deliberate
// precision/recall trade-off.
var subheadings = []string{"therapy", "diagnosis", "etiology", "pathophysiology"}

// Synthesize builds a boolean search expression from a mapping result.
//
// The top MaxConceptTerms matches become a disjunction of MeSH clauses,
// widened with a free-text clause on the original query. With no surviving
// concepts the expression is the free-text fallback alone, with no subheading
// or date constraints. Terms are wrapped in quotes but not otherwise escaped;
// quote characters inside concept names are a known edge case.
func Synthesize(result *core.MappingResult, opts core.QueryOptions) string {
	limit := core.ClampMaxConceptTerms(opts.MaxConceptTerms)
	matches := result.Matches
	if len(matches) > limit {
		matches = matches[:limit]
	}

	if len(matches) == 0 {
		return freeTextClause(result.OriginalQuery)
	}

	clauses := make([]string, 0, len(matches))
	for _, match := range matches {
		clauses = append(clauses, meshClause(match.Concept))
	}

	var b strings.Builder
	b.WriteString("((")
	b.WriteString(strings.Join(clauses, " OR "))
	b.WriteString(") OR ")
	b.WriteString(freeTextClause(result.OriginalQuery))
	b.WriteString(")")

	if opts.IncludeSubheadings {
		b.WriteString(" AND ")
		b.WriteString(subheadingClause())
	}

	if opts.DateRange != nil {
		b.WriteString(" AND ")
		b.WriteString(dateClause(opts.DateRange))
	}

	return b.String()
}

func meshClause(concept string) string {
	return `"` + concept + `"[MeSH Terms]`
}

func freeTextClause(text string) string {
	return `"` + text + `"[All Fields]`
}

func subheadingClause() string {
	clauses := make([]string, 0, len(subheadings))
	for _, sh := range subheadings {
		clauses = append(clauses, `"`+sh+`"[Subheading]`)
	}
	return "(" + strings.Join(clauses, " OR ") + ")"
}

func dateClause(r *core.DateRange) string {
	// Bounds pass through verbatim; ordering is the caller's responsibility.
	return `("` + r.Start + `"[Date - Publication] : "` + r.End + `"[Date - Publication])`
}
