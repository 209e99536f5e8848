package llm

import (
	"context"
	"fmt"
)

// Provider defines the interface for LLM providers
// All providers MUST support structured output (JSON Schema) for reliable response parsing
type Provider interface {
	// Generate runs one model call and returns the raw structured-output text.
	// The provider MUST enforce the OutputSchema so malformed JSON is rejected
	// by the provider itself, not just hoped for.
	Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error)

	// Name returns the provider name (e.g., "openai")
	Name() string
}

// GenerationRequest contains all parameters needed for generation
type GenerationRequest struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
	// ImageDataURL is an optional base64 data URL attached as a multimodal
	// image part alongside the user prompt. Empty means text-only.
	ImageDataURL string
	// Structured output schema - REQUIRED for reliable JSON parsing
	OutputSchema *OutputSchema
}

// OutputSchema defines the expected JSON output structure
type OutputSchema struct {
	Name        string
	Description string
	Schema      map[string]any // JSON Schema object
}

// Usage holds token counts for one generation.
type Usage struct {
	TotalTokens  int64 `json:"total_tokens"`
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

// GenerationResponse contains the result from the LLM
type GenerationResponse struct {
	RawOutput string `json:"-"` // Raw JSON text output
	Usage     Usage  `json:"usage"`
}

// RequestError is a non-2xx response from the model provider. The status
// code is propagated to the caller unchanged.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("model provider returned status %d: %s", e.StatusCode, e.Message)
}
