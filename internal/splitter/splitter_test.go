package splitter

import (
	"strings"
	"testing"

	"github.com/localrivet/condense/internal/tokenizer"
)

func TestSplitRejectsBadBudget(t *testing.T) {
	counter := tokenizer.NewEstimator()

	if _, err := Split("some text", 0, ".", counter); err == nil {
		t.Error("Expected error for zero budget")
	}
	if _, err := Split("some text", -5, ".", counter); err == nil {
		t.Error("Expected error for negative budget")
	}
}

func TestSplitEmptyText(t *testing.T) {
	segments, err := Split("", 100, ".", tokenizer.NewEstimator())
	if err != nil {
		t.Fatalf("Split returned error: %v", err)
	}
	if segments != nil {
		t.Errorf("Expected nil segments for empty text, got %v", segments)
	}
}

func TestSplitTextWithinBudget(t *testing.T) {
	text := "A short sentence. And another."
	segments, err := Split(text, 100, ".", tokenizer.NewEstimator())
	if err != nil {
		t.Fatalf("Split returned error: %v", err)
	}
	if len(segments) != 1 || segments[0] != text {
		t.Errorf("Expected the whole text as one segment, got %v", segments)
	}
}

func TestSplitIsLossless(t *testing.T) {
	counter := tokenizer.NewEstimator()

	var b strings.Builder
	for i := 0; i < 50; i++ {
		b.WriteString("This sentence is here to fill out the document with words. ")
	}
	text := b.String()

	segments, err := Split(text, 20, ".", counter)
	if err != nil {
		t.Fatalf("Split returned error: %v", err)
	}
	if len(segments) < 2 {
		t.Fatalf("Expected multiple segments, got %d", len(segments))
	}

	if strings.Join(segments, "") != text {
		t.Error("Concatenated segments do not reproduce the input")
	}

	for i, seg := range segments {
		if seg == "" {
			t.Errorf("Segment %d is empty", i)
		}
		if got := counter.Count(seg); got > 20 {
			t.Errorf("Segment %d counts %d tokens, budget is 20", i, got)
		}
	}
}

func TestSplitBreaksOnlyAtBoundary(t *testing.T) {
	counter := tokenizer.NewEstimator()
	text := "First sentence of the document here. Second sentence of the document here. Third sentence of the document here."

	segments, err := Split(text, 12, ".", counter)
	if err != nil {
		t.Fatalf("Split returned error: %v", err)
	}

	// Every segment except the last must end with the boundary.
	for i, seg := range segments[:len(segments)-1] {
		if !strings.HasSuffix(seg, ".") && !strings.HasSuffix(seg, ". ") {
			t.Errorf("Segment %d does not end at a boundary: %q", i, seg)
		}
	}
}

func TestSplitHardCutsOversizedSentence(t *testing.T) {
	counter := tokenizer.NewEstimator()

	// One long run with no boundary anywhere near the budget.
	text := strings.Repeat("word ", 200) + "."

	segments, err := Split(text, 10, ".", counter)
	if err != nil {
		t.Fatalf("Split returned error: %v", err)
	}
	if len(segments) < 2 {
		t.Fatalf("Expected hard-cut segments, got %d", len(segments))
	}
	if strings.Join(segments, "") != text {
		t.Error("Hard cut lost text")
	}
	for i, seg := range segments {
		if got := counter.Count(seg); got > 10 {
			t.Errorf("Segment %d counts %d tokens, budget is 10", i, got)
		}
	}
}

func TestSplitWithoutBoundary(t *testing.T) {
	counter := tokenizer.NewEstimator()
	text := strings.Repeat("x", 400)

	segments, err := Split(text, 10, "", counter)
	if err != nil {
		t.Fatalf("Split returned error: %v", err)
	}
	if strings.Join(segments, "") != text {
		t.Error("Split without boundary lost text")
	}
	if len(segments) != 10 {
		t.Errorf("Expected 10 even segments, got %d", len(segments))
	}
}
