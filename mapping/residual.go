package mapping

import (
	"strings"

	"github.com/poiesic/medquery/core"
	"github.com/poiesic/medquery/lexicon"
)

// extractResidual surfaces the parts of the normalized query no stage
// captured. For every pool match the first textual occurrence of its source
// phrase is removed (plain substring cut, so a phrase appearing twice is only
// removed once per match that carries it). What remains is tokenized and
// filtered: tokens of length <= 2 and stop words are dropped, then trailing
// punctuation is stripped from the survivors.
//
// The result keeps original left-to-right order for readability; it is
// informational only and never alters the synthesized query.
func extractResidual(normalized string, pool []core.ConceptMatch) []string {
	working := normalized
	for _, match := range pool {
		if match.SourcePhrase == "" {
			continue
		}
		if idx := strings.Index(working, match.SourcePhrase); idx >= 0 {
			working = working[:idx] + working[idx+len(match.SourcePhrase):]
		}
	}

	residual := []string{}
	seen := make(map[string]bool)
	for _, token := range strings.Fields(working) {
		if len(token) <= 2 {
			continue
		}
		if lexicon.IsStopWord(token) {
			continue
		}
		token = lexicon.TrimTrailingPunct(token)
		if token == "" || seen[token] {
			continue
		}
		seen[token] = true
		residual = append(residual, token)
	}

	return residual
}
