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


package lexicon

import (
	_ "embed"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed synonyms.yaml
var synonymsYAML []byte

//go:embed layterms.yaml
var laytermsYAML []byte

// SynonymEntry maps one abbreviation or shorthand to its canonical concept.
type SynonymEntry struct {
	Term    string
	Concept string
}

// LayEntry maps one colloquial phrase to an ordered list of candidate
// concepts, most likely first.
type LayEntry struct {
	Phrase   string
	Concepts []string
}

var (
	cachedSynonyms []SynonymEntry
	cachedLayTerms []LayEntry
	loadOnce       sync.Once
	loadErr        error
)

func load() {
	var syn map[string]string
	if err := yaml.Unmarshal(synonymsYAML, &syn); err != nil {
		loadErr = fmt.Errorf("parsing synonyms.yaml: %w", err)
		return
	}

	var lay map[string][]string
	if err := yaml.Unmarshal(laytermsYAML, &lay); err != nil {
		loadErr = fmt.Errorf("parsing layterms.yaml: %w", err)
		return
	}

	// Entries are sorted by key so table scans are deterministic. Map
	// iteration order would otherwise make dedup tie-breaks flap between runs.
	synonyms := make([]SynonymEntry, 0, len(syn))
	for term, concept := range syn {
		synonyms = append(synonyms, SynonymEntry{Term: term, Concept: concept})
	}
	sort.Slice(synonyms, func(i, j int) bool { return synonyms[i].Term < synonyms[j].Term })

	layTerms := make([]LayEntry, 0, len(lay))
	for phrase, concepts := range lay {
		layTerms = append(layTerms, LayEntry{Phrase: phrase, Concepts: concepts})
	}
	sort.Slice(layTerms, func(i, j int) bool { return layTerms[i].Phrase < layTerms[j].Phrase })

	cachedSynonyms = synonyms
	cachedLayTerms = layTerms
	slog.Debug("lexicon tables loaded",
		slog.Int("synonyms", len(synonyms)),
		slog.Int("lay_terms", len(layTerms)),
	)
}

// Load parses and caches the embedded tables. Returns the cached result on
// subsequent calls. Safe for concurrent use.
func Load() ([]SynonymEntry, []LayEntry, error) {
	loadOnce.Do(load)
	return cachedSynonyms, cachedLayTerms, loadErr
}

// MustLoad loads the tables or returns empty slices on error. A parse failure
// is logged as a warning; mapping degrades to the external stages only.
func MustLoad() ([]SynonymEntry, []LayEntry) {
	synonyms, layTerms, err := Load()
	if err != nil {
		slog.Warn("lexicon loading failed, continuing without tables",
			slog.String("error", err.Error()),
		)
		return nil, nil
	}
	return synonyms, layTerms
}
