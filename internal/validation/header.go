package validation

// HeaderSchema describes the front matter accepted in an exam header file.
func HeaderSchema() map[string]any {
	text := map[string]any{"type": "string"}
	return map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type":    "object",
		"properties": map[string]any{
			"title":       text,
			"description": text,
			"author":      text,
			"course":      text,
			"date":        map[string]any{"type": []any{"string", "null"}},
		},
		"additionalProperties": false,
	}
}

// ValidateHeader checks decoded header front matter against HeaderSchema.
func ValidateHeader(payload map[string]any) error {
	return ValidatePayload(HeaderSchema(), payload)
}
