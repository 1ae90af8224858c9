package rewrite

// suggestionSchema constrains a single rewrite proposal returned by the
// generation provider. A null document is the provider's explicit signal
// that no grounded suggestion exists for the target.
const suggestionSchema = `{
	"oneOf": [
		{"type": "null"},
		{
			"type": "object",
			"required": ["before", "after"],
			"properties": {
				"before": {"type": "string"},
				"after": {"type": "string"},
				"reasoning": {"type": "string"},
				"confidence": {"type": "number", "minimum": 0, "maximum": 1}
			}
		}
	]
}`

// improvementsSchema constrains the batched bullet improvement response.
const improvementsSchema = `{
	"type": "object",
	"required": ["improvements"],
	"properties": {
		"improvements": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["before", "after"],
				"properties": {
					"before": {"type": "string"},
					"after": {"type": "string"},
					"reasoning": {"type": "string"}
				}
			}
		}
	}
}`
