package mock

import (
	"context"
	"fmt"
	"strings"

	"github.com/poiesic/medquery/core"
)

// MockAnswerSynthesizer is a test double for ai.AnswerSynthesizer.
// It allows custom behavior injection via function fields.
type MockAnswerSynthesizer struct {
	// SynthesizeAnswerFunc is called by SynthesizeAnswer if set.
	// If nil, uses a deterministic canned answer.
	SynthesizeAnswerFunc func(ctx context.Context, question string, articles []*core.Article) (string, error)

	callCount int
}

// NewMockAnswerSynthesizer creates a mock synthesizer with default behavior.
// Note: Returns concrete type to allow test assertions on call counts.
func NewMockAnswerSynthesizer() *MockAnswerSynthesizer {
	return &MockAnswerSynthesizer{}
}

// SynthesizeAnswer returns a deterministic answer that cites every article
// it was given, so tests can assert on citation plumbing.
func (m *MockAnswerSynthesizer) SynthesizeAnswer(ctx context.Context, question string, articles []*core.Article) (string, error) {
	m.callCount++

	if m.SynthesizeAnswerFunc != nil {
		return m.SynthesizeAnswerFunc(ctx, question, articles)
	}

	if len(articles) == 0 {
		return "No research articles were found for this question.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Mock answer to %q based on %d article(s):", question, len(articles))
	for _, article := range articles {
		fmt.Fprintf(&b, " %s [%s].", article.Title, article.PMID)
	}
	return b.String(), nil
}

// CallCount returns the number of times SynthesizeAnswer was called.
func (m *MockAnswerSynthesizer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockAnswerSynthesizer) Reset() {
	m.callCount = 0
	m.SynthesizeAnswerFunc = nil
}
