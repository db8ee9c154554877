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
	googleAPIURL = "https://generativelanguage.googleapis.com/v1beta/models"
)

// GoogleProvider implements the Provider interface for Google's Gemini models
type GoogleProvider struct {
	Config
	httpClient *http.Client
}

// GooglePart is one text part of a Gemini content entry.
type GooglePart struct {
	Text string `json:"text"`
}

// GoogleContent represents content in Google's Gemini API format
type GoogleContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []GooglePart `json:"parts"`
}

// GoogleRequest represents a request to Google's Gemini API
type GoogleRequest struct {
	SystemInstruction *GoogleContent  `json:"system_instruction,omitempty"`
	Contents          []GoogleContent `json:"contents"`
}

// GoogleResponse represents a response from Google's Gemini API
type GoogleResponse struct {
	Candidates []struct {
		Content struct {
			Parts []GooglePart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// NewGoogleProvider creates a new instance of the Google provider
func NewGoogleProvider(config Config) *GoogleProvider {
	return &GoogleProvider{
		Config: config,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// Name returns the provider name
func (p *GoogleProvider) Name() string {
	return ProviderGoogle
}

// Complete implements the Provider interface for Google. Gemini uses the
// "model" role where chat APIs use "assistant", and carries the system
// prompt in a dedicated instruction field.
func (p *GoogleProvider) Complete(ctx context.Context, model string, messages []prompt.Message) (*Completion, error) {
	if p.APIKey == "" {
		return nil, errortypes.ConfigError(errors.New("Google API key not provided"), "cannot call provider")
	}

	if model == "" {
		model = p.ModelID
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}

	var reqBody GoogleRequest
	for _, msg := range messages {
		content := GoogleContent{Parts: []GooglePart{{Text: msg.Content}}}
		switch msg.Role {
		case "system":
			reqBody.SystemInstruction = &GoogleContent{Parts: content.Parts}
		case "assistant":
			content.Role = "model"
			reqBody.Contents = append(reqBody.Contents, content)
		default:
			content.Role = "user"
			reqBody.Contents = append(reqBody.Contents, content)
		}
	}

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return nil, errortypes.InternalError(err, "error marshaling request")
	}

	apiURL := p.BaseURL
	if apiURL == "" {
		apiURL = googleAPIURL
	}
	requestURL := fmt.Sprintf("%s/%s:generateContent?key=%s", apiURL, model, p.APIKey)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		requestURL,
		strings.NewReader(string(reqJSON)),
	)
	if err != nil {
		return nil, errortypes.InternalError(err, "error creating request")
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, errortypes.NetworkError(err, "error sending request to Google API")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errortypes.NetworkError(err, "error reading response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyHTTPError(ProviderGoogle, resp.StatusCode, respBody)
	}

	var googleResponse GoogleResponse
	if err := json.Unmarshal(respBody, &googleResponse); err != nil {
		return nil, errortypes.TransientError(err, "error unmarshaling Google response")
	}

	if googleResponse.Error != nil {
		return nil, errortypes.CallFailedError(
			fmt.Errorf("Google API error: %s: %s", googleResponse.Error.Status, googleResponse.Error.Message),
			"provider rejected the call")
	}

	if len(googleResponse.Candidates) == 0 || len(googleResponse.Candidates[0].Content.Parts) == 0 {
		return nil, errortypes.TransientError(errors.New("empty response from Google API"), "no completion returned")
	}

	var content strings.Builder
	for _, part := range googleResponse.Candidates[0].Content.Parts {
		content.WriteString(part.Text)
	}
	if content.Len() == 0 {
		return nil, errortypes.TransientError(errors.New("empty response from Google API"), "no completion returned")
	}

	return &Completion{
		Content:          content.String(),
		PromptTokens:     googleResponse.UsageMetadata.PromptTokenCount,
		CompletionTokens: googleResponse.UsageMetadata.CandidatesTokenCount,
		TotalTokens:      googleResponse.UsageMetadata.TotalTokenCount,
	}, nil
}
