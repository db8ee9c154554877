package prompt

import (
	"strings"
	"testing"
)

func TestSummarizationMessages(t *testing.T) {
	msgs := SummarizationMessages("the document body", 500)

	if len(msgs) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != "system" || msgs[1].Role != "user" {
		t.Errorf("Roles = %q, %q, want system, user", msgs[0].Role, msgs[1].Role)
	}
	if !strings.Contains(msgs[1].Content, "500 tokens") {
		t.Error("User message does not state the target size")
	}
	if !strings.Contains(msgs[1].Content, "the document body") {
		t.Error("User message does not carry the text")
	}
}

func TestSummarizationMessagesEmptyBodyIsStable(t *testing.T) {
	// The budget calculation renders the template with an empty body and
	// subtracts its size; the empty render must therefore be a strict
	// prefix-shaped variant of the full render.
	empty := SummarizationMessages("", 500)
	full := SummarizationMessages("body", 500)

	if empty[0].Content != full[0].Content {
		t.Error("System message must not depend on the body")
	}
	if !strings.HasPrefix(full[1].Content, empty[1].Content) {
		t.Error("Rendering with a body must only append to the empty render")
	}
}

func TestSynthesisMessages(t *testing.T) {
	msgs := SynthesisMessages([]string{"first summary", "second summary", "third summary"})

	if len(msgs) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Role != "user" {
		t.Errorf("Role = %q, want user", msgs[0].Role)
	}

	content := msgs[0].Content
	if !strings.Contains(content, "generated 3 summaries") {
		t.Error("Message does not state the summary count")
	}
	for i, want := range []string{"Summary 1: first summary", "Summary 2: second summary", "Summary 3: third summary"} {
		if !strings.Contains(content, want) {
			t.Errorf("Missing numbered summary %d: %q", i+1, want)
		}
	}
}
