package llm

import "directdm/models"

type modelPrice struct {
	Input  float64 // USD per million input tokens
	Output float64 // USD per million output tokens
}

// Pricing per million tokens. Models missing from the table cost 0; that is
// a deliberate fallback so a new model never blocks replies over accounting.
var pricing = map[string]map[string]modelPrice{
	models.LLM_PROVIDER_GEMINI: {
		"gemini-2.0-flash-exp": {Input: 0.0, Output: 0.0}, // free during preview
		"gemini-1.5-pro":       {Input: 1.25, Output: 5.0},
	},
	models.LLM_PROVIDER_CLAUDE: {
		"claude-3-5-sonnet-20241022": {Input: 3.0, Output: 15.0},
		"claude-3-5-haiku-20241022":  {Input: 1.0, Output: 5.0},
	},
}

// Cost returns the approximate USD cost of one call. Unknown provider or
// model returns 0.
func Cost(provider, model string, inputTokens, outputTokens int) float64 {
	p, ok := pricing[provider][model]
	if !ok {
		return 0
	}
	inputCost := float64(inputTokens) / 1_000_000 * p.Input
	outputCost := float64(outputTokens) / 1_000_000 * p.Output
	return inputCost + outputCost
}
