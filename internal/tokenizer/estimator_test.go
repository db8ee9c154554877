package tokenizer

import (
	"strings"
	"testing"

	"github.com/localrivet/condense/internal/prompt"
)

func TestEstimatorCount(t *testing.T) {
	e := NewEstimator()

	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"shorter than one token", "ab", 1},
		{"exactly one token", "abcd", 1},
		{"two tokens", "abcdefgh", 2},
		{"forty chars", strings.Repeat("x", 40), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Count(tt.text); got != tt.want {
				t.Errorf("Count(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestEstimatorCountMessages(t *testing.T) {
	e := NewEstimator()

	msgs := []prompt.Message{
		{Role: "user", Content: strings.Repeat("a", 40)},
	}

	// 3 reply tokens + 3 message tokens + 1 role token + 10 content tokens
	want := 3 + 3 + 1 + 10
	if got := e.CountMessages(msgs); got != want {
		t.Errorf("CountMessages = %d, want %d", got, want)
	}

	// Adding a message must increase the count.
	more := append(msgs, prompt.Message{Role: "system", Content: "hi"})
	if e.CountMessages(more) <= e.CountMessages(msgs) {
		t.Error("Expected CountMessages to grow with more messages")
	}
}

func TestEstimatorCut(t *testing.T) {
	e := NewEstimator()
	text := strings.Repeat("x", 40)

	head, tail := e.Cut(text, 5)
	if len(head) != 20 || len(tail) != 20 {
		t.Errorf("Cut split at %d/%d, want 20/20", len(head), len(tail))
	}
	if head+tail != text {
		t.Error("Cut lost text")
	}

	// Budget covering the whole text returns it unchanged.
	head, tail = e.Cut(text, 100)
	if head != text || tail != "" {
		t.Errorf("Cut with large budget = %q/%q, want full text and empty tail", head, tail)
	}

	// Zero budget refuses to cut.
	head, tail = e.Cut(text, 0)
	if head != "" || tail != text {
		t.Error("Cut with zero budget should return the text uncut")
	}
}

func TestEstimatorCutRuneBoundary(t *testing.T) {
	e := NewEstimator()
	text := strings.Repeat("é", 40)

	head, tail := e.Cut(text, 5)
	if head+tail != text {
		t.Error("Cut of multibyte text lost bytes")
	}
	if len([]rune(head)) != 20 {
		t.Errorf("Cut head is %d runes, want 20", len([]rune(head)))
	}
}
