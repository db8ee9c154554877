package budget

import (
	"testing"

	"github.com/localrivet/condense/internal/errortypes"
	"github.com/localrivet/condense/internal/prompt"
	"github.com/localrivet/condense/internal/tokenizer"
)

func TestComputeValidBudget(t *testing.T) {
	counter := tokenizer.NewEstimator()

	params, err := Compute(500, 16000, counter)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}

	if params.TargetSummarySize != 500 {
		t.Errorf("TargetSummarySize = %d, want 500", params.TargetSummarySize)
	}

	overhead := counter.CountMessages(prompt.SummarizationMessages("", 500))
	want := 16000 - overhead - 500
	if params.SummaryInputSize != want {
		t.Errorf("SummaryInputSize = %d, want %d", params.SummaryInputSize, want)
	}
	if params.SummaryInputSize <= 0 {
		t.Error("SummaryInputSize must be positive for a usable budget")
	}
}

func TestComputeInvalidBudget(t *testing.T) {
	counter := tokenizer.NewEstimator()

	tests := []struct {
		name        string
		target      int
		contextSize int
	}{
		{"target exceeds context", 16000, 1000},
		{"no room after overhead", 100, 100},
		{"zero context window", 500, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.target, tt.contextSize, counter)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !errortypes.IsBudgetError(err) {
				t.Errorf("Expected a budget error, got %v", err)
			}
		})
	}
}

func TestParametersString(t *testing.T) {
	p := Parameters{TargetSummarySize: 500, SummaryInputSize: 15000}
	want := "target:500|input:15000"
	if got := p.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
