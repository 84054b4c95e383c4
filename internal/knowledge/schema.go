package knowledge

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const recordSchema = `{
	"type": "object",
	"required": ["name", "role", "about", "services", "process", "contacts", "faq"],
	"properties": {
		"name": {"type": "string"},
		"role": {"type": "string"},
		"about": {"type": "string"},
		"services": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["category"],
				"properties": {
					"category": {"type": "string"},
					"description": {"type": "string"},
					"price": {"type": "string"},
					"duration": {"type": "string"},
					"items": {
						"type": "array",
						"items": {
							"type": "object",
							"required": ["name", "price"],
							"properties": {
								"name": {"type": "string"},
								"price": {"type": "string"}
							}
						}
					}
				}
			}
		},
		"process": {"type": "array", "items": {"type": "string"}},
		"contacts": {
			"type": "object",
			"required": ["email", "telegram"],
			"properties": {
				"email": {"type": "string"},
				"telegram": {"type": "string"}
			}
		},
		"faq": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["question", "answer"],
				"properties": {
					"question": {"type": "string"},
					"answer": {"type": "string"}
				}
			}
		}
	}
}`

// validate checks raw against the record schema and reports every violation in
// a single error.
func validate(raw []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(recordSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("knowledge: validate document: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("knowledge: document does not match schema: %s", strings.Join(msgs, "; "))
}
