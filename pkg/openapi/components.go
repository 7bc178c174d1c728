package openapi

import "maps"

// NewComponents creates Components with the shared error responses every
// handler may reference.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type:     "object",
				Required: []string{"error"},
				Properties: map[string]*Schema{
					"error": {Type: "string", Description: "Error message"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":           ResponseJSON("Invalid request", "Error"),
			"Unauthorized":         ResponseJSON("Completion service token missing", "Error"),
			"NotFound":             ResponseJSON("Resource not found", "Error"),
			"PayloadTooLarge":      ResponseJSON("Upload exceeds the configured limit", "Error"),
			"UnsupportedMediaType": ResponseJSON("Unsupported file format", "Error"),
		},
	}
}

// Components holds reusable schemas and responses.
type Components struct {
	Schemas   map[string]*Schema   `json:"schemas,omitempty"`
	Responses map[string]*Response `json:"responses,omitempty"`
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}
