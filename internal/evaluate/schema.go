package evaluate

func scoreResponseSchema() map[string]any {
	dimension := map[string]any{
		"type":    "number",
		"minimum": 0,
		"maximum": 1,
	}
	return map[string]any{
		"type": "object",
		"required": []any{
			"intent",
			"vocabulary",
			"spelling",
			"grammar",
			"remark",
			"suggestion",
		},
		"properties": map[string]any{
			"intent":     dimension,
			"vocabulary": dimension,
			"spelling":   dimension,
			"grammar":    dimension,
			"remark": map[string]any{
				"type": "string",
			},
			"suggestion": map[string]any{
				"type": "string",
			},
			"misspellings": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"word", "correct"},
					"properties": map[string]any{
						"word":    map[string]any{"type": "string"},
						"correct": map[string]any{"type": "string"},
						"kind": map[string]any{
							"type": "string",
							"enum": []any{"phonetic", "typo"},
						},
					},
					"additionalProperties": false,
				},
			},
			"phonetic_attempts": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"concepts_missed": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"additionalProperties": false,
	}
}
