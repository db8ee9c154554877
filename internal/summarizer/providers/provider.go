// Package providers contains implementations of different LLM providers
// for chat completion calls.
package providers

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/localrivet/condense/internal/errortypes"
	"github.com/localrivet/condense/internal/prompt"
)

const (
	// Provider constants
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGoogle    = "google"
	ProviderXAI       = "xai"

	// Default settings
	DefaultTimeout   = 60 * time.Second
	DefaultMaxTokens = 4096
)

// Completion is the result of one model call: the completion text plus the
// token usage counters the provider reported for the call.
type Completion struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Provider defines the interface for LLM chat-completion services.
//
// Errors are classified through errortypes: connectivity and rate-limit
// failures come back as transient (retryable); anything the provider
// rejects structurally, such as authentication or an invalid request,
// comes back as a non-retryable call failure.
type Provider interface {
	// Complete sends the messages to the given model and returns the
	// completion with its usage counters.
	Complete(ctx context.Context, model string, messages []prompt.Message) (*Completion, error)

	// Name returns the provider name
	Name() string
}

// Config holds common configuration for LLM providers
type Config struct {
	APIKey  string
	ModelID string

	// BaseURL overrides the provider's default endpoint; used by tests.
	BaseURL string
}

// APIKeyFromEnv retrieves the API key for the specified provider from the
// environment.
func APIKeyFromEnv(providerName string) string {
	switch providerName {
	case ProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	case ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case ProviderGoogle:
		return os.Getenv("GOOGLE_API_KEY")
	case ProviderXAI:
		return os.Getenv("XAI_API_KEY")
	default:
		return ""
	}
}

// classifyHTTPError maps an HTTP error status to the retry taxonomy:
// rate limiting and server-side failures are transient, everything else
// is a non-retryable call failure.
func classifyHTTPError(providerName string, status int, body []byte) error {
	err := fmt.Errorf("%s API returned status %d: %s", providerName, status, truncateBody(body))
	if status == 429 || status >= 500 {
		return errortypes.TransientError(err, "transient provider error").
			WithField("provider", providerName).
			WithField("status", status)
	}
	return errortypes.CallFailedError(err, "provider rejected the call").
		WithField("provider", providerName).
		WithField("status", status)
}

// truncateBody keeps error payloads loggable.
func truncateBody(body []byte) string {
	const limit = 512
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
