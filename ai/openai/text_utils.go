package openai

import "strings"

// scrubString collapses whitespace runs and trims the ends of text before it
// goes into a prompt.
func scrubString(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
