// Package prompt builds the chat messages sent to LLM providers for
// summarization and synthesis. The templates are fixed: the token-budget
// calculation depends on rendering them with an empty body, so any change
// here changes every cache key derived from the budget.
package prompt

import (
	"fmt"
	"strings"
)

// Message is a single role/content entry in a chat request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SummarizationMessages renders the prompt for one summarization call
// asking for a summary of roughly targetSummarySize tokens.
func SummarizationMessages(text string, targetSummarySize int) []Message {
	return []Message{
		{
			Role:    "system",
			Content: "You are a precise summarizer that creates concise summaries of text.",
		},
		{
			Role: "user",
			Content: fmt.Sprintf(
				"Summarize the following text, keeping the most important points. "+
					"The summary should be about %d tokens long:\n\n%s",
				targetSummarySize, text),
		},
	}
}

// SynthesisMessages renders the prompt that merges several independently
// generated summaries into one, for a higher-capability model.
func SynthesisMessages(summaries []string) []Message {
	var joined strings.Builder
	for i, summary := range summaries {
		fmt.Fprintf(&joined, "Summary %d: %s\n\n", i+1, summary)
	}

	content := fmt.Sprintf(
		"A less powerful model generated %d summaries of a document.\n\n"+
			"Because of the way that the summaries are generated, they may not be perfect. "+
			"Please review them and synthesize them into a single more detailed summary "+
			"that you think is best.\n\nThe summaries are as follows: %s",
		len(summaries), joined.String())

	return []Message{
		{
			Role:    "user",
			Content: strings.TrimSpace(content),
		},
	}
}
