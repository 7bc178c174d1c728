package classifier

import "github.com/JaimeStill/stance/pkg/openapi"

var labelEnum = []any{LabelAntiVaccine, LabelProVaccine, LabelDoubt, LabelOther, LabelError}

var schemas = map[string]*openapi.Schema{
	"ClassifyRequest": {
		Type:     "object",
		Required: []string{"comment"},
		Properties: map[string]*openapi.Schema{
			"comment": {Type: "string", Description: "Comment text, sent unmodified", Example: "La vacuna del VPH previene el cáncer"},
		},
	},
	"ClassifyResponse": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"comment": {Type: "string"},
			"label": {
				Type:        "string",
				Description: "Model reply, trimmed. Usually one of the listed values; other text is passed through.",
				Example:     LabelProVaccine,
				Enum:        labelEnum,
			},
			"model": {Type: "string", Example: "gpt-4o"},
			"error": {Type: "string", Description: "Set when label is Error because the completion call failed"},
		},
	},
	"Category": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"label":       {Type: "string", Example: LabelAntiVaccine},
			"name":        {Type: "string", Example: "antivacuna"},
			"description": {Type: "string"},
		},
	},
}

var categoriesOp = &openapi.Operation{
	Summary: "List categories",
	Responses: map[int]*openapi.Response{
		200: {
			Description: "Category legend in label order",
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("Category")}},
			},
		},
	},
}

var classifyOp = &openapi.Operation{
	Summary:     "Classify a comment",
	Description: "Uses the bearer token when present, otherwise the configured token.",
	RequestBody: openapi.RequestBodyJSON("ClassifyRequest"),
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Assigned label", "ClassifyResponse"),
		400: openapi.ResponseRef("BadRequest"),
		401: openapi.ResponseRef("Unauthorized"),
	},
}
