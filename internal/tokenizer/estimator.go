package tokenizer

import "github.com/localrivet/condense/internal/prompt"

// estimatorCharsPerToken is the usual rough ratio for Latin-script text.
const estimatorCharsPerToken = 4

// Estimator is a Counter that approximates token counts from character
// counts without any encoding tables. It exists as a deterministic,
// offline fallback for when a tiktoken encoding cannot be loaded, and as
// a test double.
type Estimator struct{}

// NewEstimator creates an Estimator.
func NewEstimator() *Estimator {
	return &Estimator{}
}

// Count estimates the number of tokens in text.
func (e *Estimator) Count(text string) int {
	if text == "" {
		return 0
	}
	tokens := len([]rune(text)) / estimatorCharsPerToken
	if tokens == 0 {
		return 1
	}
	return tokens
}

// CountMessages estimates the token count of a chat request.
func (e *Estimator) CountMessages(msgs []prompt.Message) int {
	total := tokensPerReply
	for _, msg := range msgs {
		total += tokensPerMessage
		total += e.Count(msg.Role)
		total += e.Count(msg.Content)
	}
	return total
}

// Cut splits text at the estimated maxTokens boundary, on a rune boundary.
func (e *Estimator) Cut(text string, maxTokens int) (string, string) {
	if maxTokens <= 0 {
		return "", text
	}
	runes := []rune(text)
	cut := maxTokens * estimatorCharsPerToken
	if cut >= len(runes) {
		return text, ""
	}
	return string(runes[:cut]), string(runes[cut:])
}
