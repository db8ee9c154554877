package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/localrivet/condense/internal/errortypes"
	"github.com/localrivet/condense/internal/prompt"
)

const (
	xaiAPIURL = "https://api.x.ai/v1/chat/completions"
)

// XAIProvider implements the Provider interface for X.AI's Grok
// (OpenAI-compatible wire format).
type XAIProvider struct {
	Config
	httpClient *http.Client
}

// XAIRequest represents a request to X.AI's API (OpenAI compatible)
type XAIRequest struct {
	Model     string           `json:"model"`
	Messages  []prompt.Message `json:"messages"`
	MaxTokens int              `json:"max_tokens,omitempty"`
}

// XAIResponse represents a response from X.AI's API (OpenAI compatible)
type XAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewXAIProvider creates a new instance of the X.AI provider
func NewXAIProvider(config Config) *XAIProvider {
	return &XAIProvider{
		Config: config,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// Name returns the provider name
func (p *XAIProvider) Name() string {
	return ProviderXAI
}

// Complete implements the Provider interface for X.AI
func (p *XAIProvider) Complete(ctx context.Context, model string, messages []prompt.Message) (*Completion, error) {
	if p.APIKey == "" {
		return nil, errortypes.ConfigError(errors.New("X.AI API key not provided"), "cannot call provider")
	}

	if model == "" {
		model = p.ModelID
	}
	if model == "" {
		model = "grok-beta"
	}

	reqBody := XAIRequest{
		Model:    model,
		Messages: messages,
	}

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return nil, errortypes.InternalError(err, "error marshaling request")
	}

	apiURL := p.BaseURL
	if apiURL == "" {
		apiURL = xaiAPIURL
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		apiURL,
		strings.NewReader(string(reqJSON)),
	)
	if err != nil {
		return nil, errortypes.InternalError(err, "error creating request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.APIKey))

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, errortypes.NetworkError(err, "error sending request to X.AI API")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errortypes.NetworkError(err, "error reading response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyHTTPError(ProviderXAI, resp.StatusCode, respBody)
	}

	var xaiResponse XAIResponse
	if err := json.Unmarshal(respBody, &xaiResponse); err != nil {
		return nil, errortypes.TransientError(err, "error unmarshaling X.AI response")
	}

	if xaiResponse.Error != nil {
		return nil, errortypes.CallFailedError(
			fmt.Errorf("X.AI API error: %s: %s", xaiResponse.Error.Type, xaiResponse.Error.Message),
			"provider rejected the call")
	}

	if len(xaiResponse.Choices) == 0 || xaiResponse.Choices[0].Message.Content == "" {
		return nil, errortypes.TransientError(errors.New("empty response from X.AI API"), "no completion returned")
	}

	return &Completion{
		Content:          xaiResponse.Choices[0].Message.Content,
		PromptTokens:     xaiResponse.Usage.PromptTokens,
		CompletionTokens: xaiResponse.Usage.CompletionTokens,
		TotalTokens:      xaiResponse.Usage.TotalTokens,
	}, nil
}
