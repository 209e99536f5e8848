package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/vibematch/vibematch-api/internal/llm"
	"github.com/vibematch/vibematch-api/internal/logger"
	"github.com/vibematch/vibematch-api/internal/models"
	"github.com/vibematch/vibematch-api/internal/observability"
)

const expectedCandidateCount = 3

// Generation is the parsed output of one model call.
type Generation struct {
	Candidates []models.CandidateRecommendation
	Usage      llm.Usage
}

// Generator runs the model with the recommendation schema and parses the
// structured output into candidates.
type Generator struct {
	provider llm.Provider
	model    string
}

// NewGenerator wires a provider and model name.
func NewGenerator(provider llm.Provider, model string) *Generator {
	return &Generator{provider: provider, model: model}
}

// Generate calls the model and returns the candidate list. The schema makes
// malformed JSON unlikely, but the raw text still goes through tolerant
// extraction since structured output is a provider promise, not a law.
func (g *Generator) Generate(ctx context.Context, systemPrompt, userPrompt, imageDataURL string) (*Generation, error) {
	trace := observability.GetClient().StartTrace(ctx, "recommend-songs", map[string]interface{}{
		"model":      g.model,
		"multimodal": imageDataURL != "",
	})
	gen := trace.Generation(g.model, map[string]interface{}{"provider": g.provider.Name()})

	resp, err := g.provider.Generate(ctx, &llm.GenerationRequest{
		Model:        g.model,
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		ImageDataURL: imageDataURL,
		OutputSchema: &llm.OutputSchema{
			Name:        "song_recommendations",
			Description: "Exactly 3 song recommendations for the given photo or request",
			Schema:      llm.GetRecommendationsSchema(),
		},
	})
	if err != nil {
		gen.FinishWithError(err)
		trace.Finish()
		var reqErr *llm.RequestError
		if errors.As(err, &reqErr) {
			// A 401 here is our key being rejected, never the user's fault.
			if reqErr.StatusCode == http.StatusUnauthorized {
				return nil, &UpstreamAuthError{Reason: "model provider rejected the API key"}
			}
			return nil, &UpstreamRequestError{StatusCode: reqErr.StatusCode, Details: reqErr.Message}
		}
		return nil, err
	}

	gen.Finish(g.model, resp.Usage)
	trace.Finish()

	candidates, err := parseCandidates(resp.RawOutput)
	if err != nil {
		return nil, &MalformedResponseError{Err: err}
	}

	if len(candidates) != expectedCandidateCount {
		// Tolerated: downstream stages handle any count defensively.
		logger.Warn("model returned unexpected recommendation count", logger.Fields{
			"count": len(candidates),
			"model": g.model,
		})
	}

	return &Generation{Candidates: candidates, Usage: resp.Usage}, nil
}

func parseCandidates(raw string) ([]models.CandidateRecommendation, error) {
	block, ok := llm.ExtractJSONObject(raw)
	if !ok {
		return nil, fmt.Errorf("no JSON object in model output")
	}

	var parsed struct {
		Recommendations []models.CandidateRecommendation `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(block), &parsed); err != nil {
		return nil, fmt.Errorf("invalid recommendations JSON: %w", err)
	}
	if parsed.Recommendations == nil {
		return nil, fmt.Errorf("model output missing recommendations array")
	}

	return parsed.Recommendations, nil
}
