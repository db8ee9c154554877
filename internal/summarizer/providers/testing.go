package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/localrivet/condense/internal/prompt"
)

// MockResponseConfig holds configuration for mock API responses
type MockResponseConfig struct {
	StatusCode   int
	ResponseBody interface{}
	Headers      map[string]string
}

// MockServer creates a test server that returns the configured response
func MockServer(t *testing.T, config MockResponseConfig) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range config.Headers {
			w.Header().Set(k, v)
		}

		if _, exists := config.Headers["Content-Type"]; !exists {
			w.Header().Set("Content-Type", "application/json")
		}

		w.WriteHeader(config.StatusCode)

		if config.ResponseBody != nil {
			var respBytes []byte
			var err error

			switch body := config.ResponseBody.(type) {
			case string:
				respBytes = []byte(body)
			case []byte:
				respBytes = body
			default:
				respBytes, err = json.Marshal(body)
				if err != nil {
					t.Fatalf("Failed to marshal mock response: %v", err)
				}
			}

			if _, err := w.Write(respBytes); err != nil {
				t.Fatalf("Failed to write response body: %v", err)
			}
		}
	}))
}

// TestProvider is a scriptable implementation of Provider for testing.
// Respond decides the outcome of each call; when nil, the provider echoes
// a fixed completion. Calls are counted and captured.
type TestProvider struct {
	ProviderName string

	// Respond maps the received messages to a completion or error.
	Respond func(model string, messages []prompt.Message) (*Completion, error)

	mu       sync.Mutex
	calls    int
	captured [][]prompt.Message
}

// NewTestProvider creates a TestProvider named "test".
func NewTestProvider(respond func(model string, messages []prompt.Message) (*Completion, error)) *TestProvider {
	return &TestProvider{
		ProviderName: "test",
		Respond:      respond,
	}
}

// Name returns the provider name
func (p *TestProvider) Name() string {
	if p.ProviderName == "" {
		return "test"
	}
	return p.ProviderName
}

// Complete records the call and returns the scripted outcome.
func (p *TestProvider) Complete(_ context.Context, model string, messages []prompt.Message) (*Completion, error) {
	p.mu.Lock()
	p.calls++
	p.captured = append(p.captured, messages)
	p.mu.Unlock()

	if p.Respond == nil {
		return &Completion{Content: "summary", TotalTokens: 1}, nil
	}
	return p.Respond(model, messages)
}

// Calls returns the number of Complete invocations so far.
func (p *TestProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// Captured returns the message lists passed to Complete, in order.
func (p *TestProvider) Captured() [][]prompt.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.captured
}
