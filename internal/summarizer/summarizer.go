// Package summarizer implements the recursive summarization engine: the
// memoized, retry-wrapped external summarization call, the three-way
// recursion that reduces arbitrarily long text to a target token budget,
// and the final synthesis pass that merges independent summaries.
package summarizer

import (
	"context"

	"github.com/localrivet/condense/internal/budget"
)

const (
	// DelimOpen and DelimClose bracket raw provider completions so
	// genuine pass-through text can be told apart from provider output.
	// They are cosmetic and are stripped before any result is returned.
	DelimOpen  = "[[["
	DelimClose = "]]]"

	// SynthesisPromptLimit is the hard ceiling, in tokens, on the rendered
	// synthesis prompt. Exceeding it is a precondition violation, not a
	// retryable condition.
	SynthesisPromptLimit = 8192
)

// Summarizer defines the recursive summarization operations exposed to
// callers such as the MCP tool server and the pipeline facade.
type Summarizer interface {
	// Summarize reduces text to at most params.TargetSummarySize tokens.
	Summarize(ctx context.Context, text string, params budget.Parameters, boundary, model string) (string, error)

	// Synthesize merges independently produced summaries into a single
	// best summary with one additional model call.
	Synthesize(ctx context.Context, summaries []string, model string) (string, error)
}
