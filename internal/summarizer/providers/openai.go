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
	openaiAPIURL = "https://api.openai.com/v1/chat/completions"
)

// OpenAIProvider implements the Provider interface for OpenAI's models
type OpenAIProvider struct {
	Config
	httpClient *http.Client
}

// OpenAIRequest represents a request to OpenAI's API
type OpenAIRequest struct {
	Model     string           `json:"model"`
	Messages  []prompt.Message `json:"messages"`
	MaxTokens int              `json:"max_tokens,omitempty"`
}

// OpenAIResponse represents a response from OpenAI's API
type OpenAIResponse struct {
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

// NewOpenAIProvider creates a new instance of the OpenAI provider
func NewOpenAIProvider(config Config) *OpenAIProvider {
	return &OpenAIProvider{
		Config: config,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return ProviderOpenAI
}

// Complete implements the Provider interface for OpenAI
func (p *OpenAIProvider) Complete(ctx context.Context, model string, messages []prompt.Message) (*Completion, error) {
	if p.APIKey == "" {
		return nil, errortypes.ConfigError(errors.New("OpenAI API key not provided"), "cannot call provider")
	}

	if model == "" {
		model = p.ModelID
	}
	if model == "" {
		model = "gpt-3.5-turbo-1106"
	}

	reqBody := OpenAIRequest{
		Model:    model,
		Messages: messages,
	}

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return nil, errortypes.InternalError(err, "error marshaling request")
	}

	apiURL := p.BaseURL
	if apiURL == "" {
		apiURL = openaiAPIURL
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
		return nil, errortypes.NetworkError(err, "error sending request to OpenAI API")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errortypes.NetworkError(err, "error reading response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyHTTPError(ProviderOpenAI, resp.StatusCode, respBody)
	}

	var openaiResponse OpenAIResponse
	if err := json.Unmarshal(respBody, &openaiResponse); err != nil {
		return nil, errortypes.TransientError(err, "error unmarshaling OpenAI response")
	}

	if openaiResponse.Error != nil {
		return nil, errortypes.CallFailedError(
			fmt.Errorf("OpenAI API error: %s: %s", openaiResponse.Error.Type, openaiResponse.Error.Message),
			"provider rejected the call")
	}

	if len(openaiResponse.Choices) == 0 || openaiResponse.Choices[0].Message.Content == "" {
		return nil, errortypes.TransientError(errors.New("empty response from OpenAI API"), "no completion returned")
	}

	return &Completion{
		Content:          openaiResponse.Choices[0].Message.Content,
		PromptTokens:     openaiResponse.Usage.PromptTokens,
		CompletionTokens: openaiResponse.Usage.CompletionTokens,
		TotalTokens:      openaiResponse.Usage.TotalTokens,
	}, nil
}
