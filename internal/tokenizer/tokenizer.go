// Package tokenizer provides model-aware token counting for raw text and
// chat message lists. Every budget, split, and recursion decision in the
// condense service is made in terms of the counts produced here.
package tokenizer

import (
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"

	"github.com/localrivet/condense/internal/errortypes"
	"github.com/localrivet/condense/internal/prompt"
)

// Message framing overhead used by OpenAI-style chat models: every message
// costs a fixed number of tokens for role framing, and every reply is
// primed with a fixed number of tokens.
const (
	tokensPerMessage = 3
	tokensPerReply   = 3
)

// Counter counts tokens the way a specific model would consume them.
// Implementations must be pure and deterministic for a fixed model.
type Counter interface {
	// Count returns the number of tokens in text.
	Count(text string) int

	// CountMessages returns the number of tokens a chat request consumes,
	// including per-message role framing and reply priming overhead.
	CountMessages(msgs []prompt.Message) int

	// Cut splits text at the maxTokens boundary, returning the head
	// (at most maxTokens tokens, non-empty when text is non-empty and
	// maxTokens > 0) and the remaining tail. Concatenating head and tail
	// reproduces text.
	Cut(text string, maxTokens int) (head, tail string)
}

// Tiktoken is a Counter backed by the tiktoken BPE encodings.
type Tiktoken struct {
	enc *tiktoken.Tiktoken
}

var (
	encoderCache   = map[string]*tiktoken.Tiktoken{}
	encoderCacheMu sync.Mutex
)

// New creates a Tiktoken counter for the given model identifier.
func New(model string) (*Tiktoken, error) {
	encoderCacheMu.Lock()
	defer encoderCacheMu.Unlock()

	if enc, ok := encoderCache[model]; ok {
		return &Tiktoken{enc: enc}, nil
	}

	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, errortypes.ConfigError(err, "no tiktoken encoding for model "+model)
	}
	encoderCache[model] = enc
	return &Tiktoken{enc: enc}, nil
}

// Count returns the number of tokens in text.
func (t *Tiktoken) Count(text string) int {
	if text == "" {
		return 0
	}
	// Allow all special tokens so inputs containing sequences like
	// "<|endoftext|>" are counted instead of rejected.
	return len(t.enc.Encode(text, []string{"all"}, nil))
}

// CountMessages returns the token count of a chat request.
func (t *Tiktoken) CountMessages(msgs []prompt.Message) int {
	total := tokensPerReply
	for _, msg := range msgs {
		total += tokensPerMessage
		total += t.Count(msg.Role)
		total += t.Count(msg.Content)
	}
	return total
}

// Cut splits text at the maxTokens token boundary.
func (t *Tiktoken) Cut(text string, maxTokens int) (string, string) {
	if maxTokens <= 0 {
		return "", text
	}
	tokens := t.enc.Encode(text, []string{"all"}, nil)
	if len(tokens) <= maxTokens {
		return text, ""
	}
	return t.enc.Decode(tokens[:maxTokens]), t.enc.Decode(tokens[maxTokens:])
}
