package lexicon

import "strings"

// Stop words dropped by the residual extractor: articles, pronouns,
// auxiliary verbs, and common discourse fillers.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"if": true, "then": true, "than": true, "that": true, "this": true,
	"these": true, "those": true, "there": true, "here": true,
	"i": true, "me": true, "my": true, "mine": true, "myself": true,
	"you": true, "your": true, "yours": true, "yourself": true,
	"he": true, "him": true, "his": true, "she": true, "her": true, "hers": true,
	"it": true, "its": true, "we": true, "us": true, "our": true, "ours": true,
	"they": true, "them": true, "their": true, "theirs": true,
	"am": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true,
	"do": true, "does": true, "did": true, "doing": true, "done": true,
	"have": true, "has": true, "had": true, "having": true,
	"can": true, "could": true, "will": true, "would": true,
	"shall": true, "should": true, "may": true, "might": true, "must": true,
	"what": true, "when": true, "where": true, "which": true, "who": true,
	"whom": true, "whose": true, "why": true, "how": true,
	"about": true, "with": true, "without": true, "for": true, "from": true,
	"into": true, "onto": true, "over": true, "under": true, "after": true,
	"before": true, "because": true, "while": true, "during": true,
	"not": true, "no": true, "nor": true, "so": true, "too": true, "very": true,
	"just": true, "also": true, "really": true, "like": true, "well": true,
	"get": true, "got": true, "getting": true, "feel": true, "feels": true,
	"feeling": true, "felt": true, "keep": true, "keeps": true,
	"please": true, "thanks": true, "okay": true, "yeah": true, "um": true,
	"uh": true, "hmm": true, "sometimes": true, "always": true, "never": true,
	"something": true, "anything": true, "everything": true, "nothing": true,
}

// IsStopWord reports whether the token is in the stop-word set.
// The check is case-sensitive; callers pass already-lowercased tokens.
func IsStopWord(token string) bool {
	return stopWords[token]
}

// TrimTrailingPunct strips trailing punctuation from a token.
func TrimTrailingPunct(token string) string {
	return strings.TrimRight(token, ".,!?;:'\"-()[]{}")
}
