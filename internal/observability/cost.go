package observability

import "github.com/vibematch/vibematch-api/internal/llm"

// Pricing constants
const (
	tokensPerKilo = 1000.0

	// GPT-4o pricing
	gpt4oInputPrice  = 0.005
	gpt4oOutputPrice = 0.015

	// GPT-4o-mini pricing
	gpt4oMiniInputPrice  = 0.00015
	gpt4oMiniOutputPrice = 0.0006

	// GPT-4.1-mini pricing
	gpt41MiniInputPrice  = 0.0004
	gpt41MiniOutputPrice = 0.0016
)

// ModelPricing contains pricing information per 1K tokens
type ModelPricing struct {
	InputPricePer1K  float64 // Price per 1K input tokens in USD
	OutputPricePer1K float64 // Price per 1K output tokens in USD
}

// PricingTable contains pricing for the vision-capable models we allow
var PricingTable = map[string]ModelPricing{
	"gpt-4o": {
		InputPricePer1K:  gpt4oInputPrice,
		OutputPricePer1K: gpt4oOutputPrice,
	},
	"gpt-4o-mini": {
		InputPricePer1K:  gpt4oMiniInputPrice,
		OutputPricePer1K: gpt4oMiniOutputPrice,
	},
	"gpt-4.1-mini": {
		InputPricePer1K:  gpt41MiniInputPrice,
		OutputPricePer1K: gpt41MiniOutputPrice,
	},
}

// CalculateOpenAICost calculates the cost in USD for an OpenAI API call.
// Unknown models cost 0 rather than guessing.
func CalculateOpenAICost(model string, usage llm.Usage) float64 {
	pricing, ok := PricingTable[model]
	if !ok {
		return 0
	}

	inputCost := float64(usage.InputTokens) / tokensPerKilo * pricing.InputPricePer1K
	outputCost := float64(usage.OutputTokens) / tokensPerKilo * pricing.OutputPricePer1K
	return inputCost + outputCost
}
