package tutor

import "github.com/Emily9121/WifeyMOOC/internal/llm"

// ExplanationSchema defines the JSON schema for a wrong-answer explanation.
var ExplanationSchema = &llm.Schema{
	Name:        "answer-explanation",
	Description: "A short explanation of why a quiz answer is wrong and what the right answer is",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "One sentence naming the mistake",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "2-4 sentences explaining the correct answer",
			},
			"tip": map[string]any{
				"type":        "string",
				"description": "A short memory aid for next time",
			},
		},
		"required":             []any{"summary", "explanation", "tip"},
		"additionalProperties": false,
	},
}
