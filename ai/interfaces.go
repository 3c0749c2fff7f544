package ai

import (
	"context"

	"github.com/poiesic/medquery/core"
)

// AnswerSynthesizer turns retrieved literature into a plain-language answer
// to a patient's question. Implementations must be thread-safe for
// concurrent use.
type AnswerSynthesizer interface {
	// SynthesizeAnswer composes an answer to the question grounded in the
	// given articles. Statements drawn from an article cite its PMID inline
	// as [PMID]. Returns an error if generation fails; an empty article
	// slice is not an error, the answer just says the evidence is missing.
	SynthesizeAnswer(ctx context.Context, question string, articles []*core.Article) (string, error)
}
