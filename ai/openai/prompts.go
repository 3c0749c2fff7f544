package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/medquery/core"
)

const synthesisPromptTemplate = `You answer health questions for patients using only the research article excerpts provided in the user message.

Rules:
- Use plain language a patient can follow. Define medical terms when you must use them.
- Ground every factual statement in the provided excerpts, citing the source inline as [PMID], e.g. [31234567].
- If the excerpts do not answer the question, say so plainly. Do not fill gaps from outside knowledge.
- Do not diagnose, do not recommend treatment changes, and close by advising the reader to discuss the topic with their clinician.
- Keep the answer under 300 words.`

// maxAbstractChars caps how much of one abstract goes into the prompt.
const maxAbstractChars = 1500

// buildSystemPrompt returns the instructions for the synthesis model.
func buildSystemPrompt() string {
	return synthesisPromptTemplate
}

// buildUserPrompt renders the question and the article excerpts the answer
// must draw from.
func buildUserPrompt(question string, articles []*core.Article) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Question: %s\n\n", question)

	if len(articles) == 0 {
		b.WriteString("No research articles were found for this question.\n")
		return b.String()
	}

	b.WriteString("Research articles:\n")
	for i, article := range articles {
		abstract := article.Abstract
		if len(abstract) > maxAbstractChars {
			abstract = abstract[:maxAbstractChars] + "…"
		}
		if abstract == "" {
			abstract = "(no abstract available)"
		}

		fmt.Fprintf(&b, "\n--- Article %d ---\n", i+1)
		fmt.Fprintf(&b, "PMID: %s\n", article.PMID)
		fmt.Fprintf(&b, "Title: %s\n", article.Title)
		if article.Journal != "" {
			fmt.Fprintf(&b, "Journal: %s (%d)\n", article.Journal, article.PubDate.Year())
		}
		fmt.Fprintf(&b, "Abstract: %s\n", abstract)
	}

	return b.String()
}
