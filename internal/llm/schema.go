package llm

const (
	moodTagsMin = 1
	moodTagsMax = 4
)

// GetRecommendationsSchema returns the JSON schema for the recommendation output.
// Note: OpenAI requires additionalProperties: false and every property listed
// in 'required'.
func GetRecommendationsSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"recommendations": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title": map[string]any{
							"type":        "string",
							"description": "Exact song title as released.",
						},
						"artist": map[string]any{
							"type":        "string",
							"description": "Primary artist name.",
						},
						"reason": map[string]any{
							"type":        "string",
							"description": "1-2 sentences tying the song to the input.",
						},
						"mood_tags": map[string]any{
							"type":     "array",
							"items":    map[string]any{"type": "string"},
							"minItems": moodTagsMin,
							"maxItems": moodTagsMax,
						},
						"search_query": map[string]any{
							"type":        "string",
							"description": "Catalog search hint: track title followed by artist name.",
						},
					},
					"required":             []string{"title", "artist", "reason", "mood_tags", "search_query"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"recommendations"},
		"additionalProperties": false,
	}
}
