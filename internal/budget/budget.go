// Package budget computes how many tokens of input text may be submitted
// in a single summarization call, given a model's context window and a
// target summary size.
package budget

import (
	"fmt"

	"github.com/localrivet/condense/internal/errortypes"
	"github.com/localrivet/condense/internal/prompt"
	"github.com/localrivet/condense/internal/tokenizer"
)

// Parameters is an immutable value object carrying the token budget of a
// summarization run. Its String form is part of every cache key, so the
// format must stay stable across releases.
type Parameters struct {
	// TargetSummarySize is the desired output size of a summary, in tokens.
	TargetSummarySize int

	// SummaryInputSize is the maximum input token count admissible for one
	// direct summarization call: the context window minus the rendered
	// prompt overhead minus the target size. Always positive for a usable
	// configuration.
	SummaryInputSize int
}

// String returns the canonical representation used in cache keys.
func (p Parameters) String() string {
	return fmt.Sprintf("target:%d|input:%d", p.TargetSummarySize, p.SummaryInputSize)
}

// Compute derives the Parameters for a summarization run. The prompt
// template is rendered with an empty body and counted to establish the
// fixed overhead of every call; what remains of the context window after
// overhead and target size is the input budget.
//
// Returns a budget error when the overhead plus the target size does not
// fit in the context window.
func Compute(targetSummarySize, modelContextSize int, counter tokenizer.Counter) (Parameters, error) {
	basePromptSize := counter.CountMessages(prompt.SummarizationMessages("", targetSummarySize))
	summaryInputSize := modelContextSize - (basePromptSize + targetSummarySize)
	if summaryInputSize <= 0 {
		return Parameters{}, errortypes.BudgetError(
			fmt.Errorf("prompt overhead %d + target size %d exceeds context window %d",
				basePromptSize, targetSummarySize, modelContextSize),
			"invalid summarization budget")
	}

	return Parameters{
		TargetSummarySize: targetSummarySize,
		SummaryInputSize:  summaryInputSize,
	}, nil
}
