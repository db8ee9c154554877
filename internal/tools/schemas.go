// Package tools defines the MCP tool names and request/response schemas
// for the condense service.
package tools

const (
	// ToolCondenseText is the name of the condense_text MCP tool
	ToolCondenseText = "condense_text"

	// ToolCondenseUsage is the name of the condense_usage MCP tool
	ToolCondenseUsage = "condense_usage"

	// DefaultTargetSize is the summary size, in tokens, used when a
	// condense_text request does not specify one
	DefaultTargetSize = 500
)

// CondenseTextRequest defines the input schema for condense_text tool
type CondenseTextRequest struct {
	// Text is the document to condense
	Text string `json:"text"`

	// TargetSize is the desired summary size in tokens
	// If not specified, DefaultTargetSize will be used
	TargetSize int `json:"target_size,omitempty"`
}

// CondenseTextResponse defines the output schema for condense_text tool
type CondenseTextResponse struct {
	// Status indicates the result of the operation ("success" or "error")
	Status string `json:"status"`

	// Summary is the condensed text
	Summary string `json:"summary,omitempty"`

	// InputTokens is the token count of the submitted text
	InputTokens int `json:"input_tokens,omitempty"`

	// SummaryTokens is the token count of the produced summary
	SummaryTokens int `json:"summary_tokens,omitempty"`

	// Error contains an error message if Status is "error"
	Error string `json:"error,omitempty"`
}

// CondenseUsageRequest defines the input schema for condense_usage tool
type CondenseUsageRequest struct{}

// CondenseUsageResponse defines the output schema for condense_usage tool
type CondenseUsageResponse struct {
	// Status indicates the result of the operation ("success" or "error")
	Status string `json:"status"`

	// PromptTokens is the accumulated prompt token usage
	PromptTokens int64 `json:"prompt_tokens"`

	// CompletionTokens is the accumulated completion token usage
	CompletionTokens int64 `json:"completion_tokens"`

	// TotalTokens is the accumulated total token usage
	TotalTokens int64 `json:"total_tokens"`

	// Report is a human-readable metrics report
	Report string `json:"report,omitempty"`

	// Error contains an error message if Status is "error"
	Error string `json:"error,omitempty"`
}
