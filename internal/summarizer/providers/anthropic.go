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
	anthropicAPIURL = "https://api.anthropic.com/v1/messages"
)

// AnthropicProvider implements the Provider interface for Anthropic's Claude
type AnthropicProvider struct {
	Config
	httpClient *http.Client
	version    string
}

// AnthropicMessage represents the request structure for Anthropic's API
type AnthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AnthropicRequest represents a request to Anthropic's API
type AnthropicRequest struct {
	Model     string             `json:"model"`
	System    string             `json:"system,omitempty"`
	Messages  []AnthropicMessage `json:"messages"`
	MaxTokens int                `json:"max_tokens"`
}

// AnthropicResponse represents a response from Anthropic's API
type AnthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewAnthropicProvider creates a new instance of the Anthropic provider
func NewAnthropicProvider(config Config) *AnthropicProvider {
	return &AnthropicProvider{
		Config: config,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		version: "2023-06-01", // API version, can be made configurable
	}
}

// Name returns the provider name
func (p *AnthropicProvider) Name() string {
	return ProviderAnthropic
}

// Complete implements the Provider interface for Anthropic. System messages
// become the request's system field; everything else maps one to one.
func (p *AnthropicProvider) Complete(ctx context.Context, model string, messages []prompt.Message) (*Completion, error) {
	if p.APIKey == "" {
		return nil, errortypes.ConfigError(errors.New("Anthropic API key not provided"), "cannot call provider")
	}

	if model == "" {
		model = p.ModelID
	}
	if model == "" {
		model = "claude-3-haiku-20240307"
	}

	reqBody := AnthropicRequest{
		Model:     model,
		MaxTokens: DefaultMaxTokens,
	}
	for _, msg := range messages {
		if msg.Role == "system" {
			reqBody.System = msg.Content
			continue
		}
		reqBody.Messages = append(reqBody.Messages, AnthropicMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return nil, errortypes.InternalError(err, "error marshaling request")
	}

	apiURL := p.BaseURL
	if apiURL == "" {
		apiURL = anthropicAPIURL
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
	req.Header.Set("X-API-Key", p.APIKey)
	req.Header.Set("Anthropic-Version", p.version)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, errortypes.NetworkError(err, "error sending request to Anthropic API")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errortypes.NetworkError(err, "error reading response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyHTTPError(ProviderAnthropic, resp.StatusCode, respBody)
	}

	var anthResponse AnthropicResponse
	if err := json.Unmarshal(respBody, &anthResponse); err != nil {
		return nil, errortypes.TransientError(err, "error unmarshaling Anthropic response")
	}

	if anthResponse.Error != nil {
		return nil, errortypes.CallFailedError(
			fmt.Errorf("Anthropic API error: %s: %s", anthResponse.Error.Type, anthResponse.Error.Message),
			"provider rejected the call")
	}

	if len(anthResponse.Content) == 0 || anthResponse.Content[0].Text == "" {
		return nil, errortypes.TransientError(errors.New("empty response from Anthropic API"), "no completion returned")
	}

	return &Completion{
		Content:          anthResponse.Content[0].Text,
		PromptTokens:     anthResponse.Usage.InputTokens,
		CompletionTokens: anthResponse.Usage.OutputTokens,
		TotalTokens:      anthResponse.Usage.InputTokens + anthResponse.Usage.OutputTokens,
	}, nil
}
