package telemetry

import "sync"

// Usage is a snapshot of accumulated token consumption.
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

// UsageAccumulator tracks the token usage reported by provider responses
// over a run. It replaces ad hoc process-wide counters: each engine owns
// one and callers read it explicitly.
type UsageAccumulator struct {
	usage Usage
	mu    sync.Mutex
}

// NewUsageAccumulator creates an empty UsageAccumulator.
func NewUsageAccumulator() *UsageAccumulator {
	return &UsageAccumulator{}
}

// Add records the usage counters of one provider response.
func (u *UsageAccumulator) Add(promptTokens, completionTokens, totalTokens int) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.usage.PromptTokens += int64(promptTokens)
	u.usage.CompletionTokens += int64(completionTokens)
	u.usage.TotalTokens += int64(totalTokens)
}

// Snapshot returns the accumulated usage so far.
func (u *UsageAccumulator) Snapshot() Usage {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.usage
}

// Reset clears the accumulated usage.
func (u *UsageAccumulator) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.usage = Usage{}
}
