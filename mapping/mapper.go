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


package mapping

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/medquery/core"
	"github.com/poiesic/medquery/lexicon"
)

const (
	// synonymConfidence is the fixed score for exact-synonym table hits.
	synonymConfidence = 0.95
	// layBaseConfidence and layConfidenceStep give lay-dictionary candidates
	// a linear decay by list position: 0.85 - 0.10*index. The value is not
	// floor-clamped; long candidate lists go negative and are culled by the
	// aggregate floor filter.
	layBaseConfidence = 0.85
	layConfidenceStep = 0.10
	// lookupConfidence is the fixed score for terminology-lookup matches.
	lookupConfidence = 0.7
	// defaultMatcherConfidence is assumed when the external matcher omits a
	// similarity score.
	defaultMatcherConfidence = 0.8
	// lookupTriggerThreshold gates the terminology lookup: it runs only when
	// the first three stages produced fewer matches than this.
	lookupTriggerThreshold = 3
)

// DefaultMinConfidence is the confidence floor applied to returned matches.
const DefaultMinConfidence = 0.3

// Options holds per-call mapping configuration.
type Options struct {
	// UseExternalMatcher enables the external concept-matcher stage.
	// A Mapper without a configured ConceptMatcher ignores it.
	UseExternalMatcher bool
	// UseExternalLookup enables the conditional terminology-lookup stage.
	UseExternalLookup bool
	// MinConfidence is the floor below which matches are dropped from the
	// returned set. The pre-filter pool still feeds OverallConfidence.
	MinConfidence float64
}

// DefaultOptions returns the documented defaults: lookup enabled, matcher
// disabled, confidence floor 0.3.
func DefaultOptions() Options {
	return Options{
		UseExternalLookup: true,
		MinConfidence:     DefaultMinConfidence,
	}
}

// Mapper maps patient questions to controlled-vocabulary concepts.
// The lexicon tables are read-only and shared; a Mapper is safe for
// concurrent use.
type Mapper struct {
	synonyms []lexicon.SynonymEntry
	layTerms []lexicon.LayEntry
	matcher  ConceptMatcher
	lookup   TermLookup
	logger   *slog.Logger
}

// Option configures a Mapper.
type Option func(*Mapper) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mapper) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// WithConceptMatcher sets the external concept-matching client.
// Without one, the matcher stage is skipped even when enabled.
func WithConceptMatcher(matcher ConceptMatcher) Option {
	return func(m *Mapper) error {
		m.matcher = matcher
		return nil
	}
}

// WithTermLookup sets the terminology-lookup client.
// Without one, the lookup stage is skipped even when enabled.
func WithTermLookup(lookup TermLookup) Option {
	return func(m *Mapper) error {
		m.lookup = lookup
		return nil
	}
}

// WithTables overrides the embedded lexicon tables. Intended for tests.
func WithTables(synonyms []lexicon.SynonymEntry, layTerms []lexicon.LayEntry) Option {
	return func(m *Mapper) error {
		m.synonyms = synonyms
		m.layTerms = layTerms
		return nil
	}
}

// NewMapper creates a mapper over the embedded lexicon tables.
func NewMapper(opts ...Option) (*Mapper, error) {
	synonyms, layTerms := lexicon.MustLoad()

	m := &Mapper{
		synonyms: synonyms,
		layTerms: layTerms,
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Normalize lowercases and trims a query. All table scans and external calls
// operate on this form.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// MapQuery maps a question to ranked concept matches. It never returns an
// error: upstream failures degrade to an empty contribution and the result is
// always best-effort.
func (m *Mapper) MapQuery(ctx context.Context, text string, opts Options) *core.MappingResult {
	return m.MapQueryWithMonitor(ctx, text, opts, nil)
}

// MapQueryWithMonitor maps a question with per-stage monitoring.
// The monitor receives the accumulated candidate pool after each stage.
func (m *Mapper) MapQueryWithMonitor(ctx context.Context, text string, opts Options, monitor MapMonitor) *core.MappingResult {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(text)
	normalized := Normalize(text)

	// 1. External concept matcher (optional)
	var pool []core.ConceptMatch
	if opts.UseExternalMatcher && m.matcher != nil {
		hits, err := m.matcher.MatchConcepts(ctx, normalized)
		if err != nil {
			m.logger.Warn("external concept matcher failed, continuing without it", "err", err)
		}
		for _, hit := range hits {
			confidence := hit.Similarity
			if confidence == 0 {
				confidence = defaultMatcherConfidence
			}
			source := hit.MatchedPhrase
			if source == "" {
				source = normalized
			}
			pool = append(pool, core.ConceptMatch{
				Concept:      hit.Term,
				SourcePhrase: source,
				Confidence:   confidence,
				Origin:       core.OriginExternalMatcher,
				ConceptID:    hit.ID,
			})
		}
	}
	monitor.AfterExternalMatcher(pool)

	// 2. Synonym table scan. Every entry is checked; a query can hit several.
	for _, entry := range m.synonyms {
		if strings.Contains(normalized, entry.Term) {
			pool = append(pool, core.ConceptMatch{
				Concept:      entry.Concept,
				SourcePhrase: entry.Term,
				Confidence:   synonymConfidence,
				Origin:       core.OriginSynonym,
			})
		}
	}
	monitor.AfterSynonymScan(pool)

	// 3. Lay-term table scan: one match per candidate with position decay.
	for _, entry := range m.layTerms {
		if !strings.Contains(normalized, entry.Phrase) {
			continue
		}
		for i, concept := range entry.Concepts {
			pool = append(pool, core.ConceptMatch{
				Concept:      concept,
				SourcePhrase: entry.Phrase,
				Confidence:   layBaseConfidence - layConfidenceStep*float64(i),
				Origin:       core.OriginLayDictionary,
			})
		}
	}
	monitor.AfterLayScan(pool)

	// 4. Terminology lookup, only when the pool is still thin.
	if len(pool) < lookupTriggerThreshold && opts.UseExternalLookup && m.lookup != nil {
		terms, err := m.lookup.LookupTerms(ctx, normalized)
		if err != nil {
			m.logger.Warn("terminology lookup failed, continuing without it", "err", err)
		}
		for _, term := range terms {
			pool = append(pool, core.ConceptMatch{
				Concept:      term.Name,
				SourcePhrase: normalized,
				Confidence:   lookupConfidence,
				Origin:       core.OriginExternalLookup,
				ConceptID:    term.UID,
			})
		}
	}
	monitor.AfterLookup(pool)

	matches, overall := aggregate(pool, opts.MinConfidence)

	result := &core.MappingResult{
		OriginalQuery:      text,
		Matches:            matches,
		UnmatchedFragments: extractResidual(normalized, pool),
		OverallConfidence:  overall,
		Method:             methodFor(pool),
	}
	monitor.Finish(result)

	return result
}

// methodFor reports how the pool was produced: external_matcher only when
// every candidate came from the external matcher, hybrid otherwise.
func methodFor(pool []core.ConceptMatch) core.MappingMethod {
	if len(pool) == 0 {
		return core.MethodHybrid
	}
	for _, match := range pool {
		if match.Origin != core.OriginExternalMatcher {
			return core.MethodHybrid
		}
	}
	return core.MethodExternalMatcher
}
