package comments

import "github.com/JaimeStill/stance/pkg/openapi"

func stringArray() *openapi.Schema {
	return &openapi.Schema{Type: "array", Items: &openapi.Schema{Type: "string"}}
}

var schemas = map[string]*openapi.Schema{
	"Table": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"columns": stringArray(),
			"rows":    {Type: "array", Items: stringArray()},
		},
	},
	"PreviewResponse": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"filename":           {Type: "string", Example: "comentarios.csv"},
			"row_count":          {Type: "integer"},
			"has_comment_column": {Type: "boolean"},
			"preview":            openapi.SchemaRef("Table"),
			"missing_column":     {Type: "string", Example: CommentColumn},
		},
	},
	"RowFailure": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"row":   {Type: "integer", Description: "1-based data row number"},
			"error": {Type: "string"},
		},
	},
	"Report": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":           {Type: "string", Format: "uuid"},
			"model":        {Type: "string"},
			"rows":         {Type: "integer"},
			"failures":     {Type: "array", Items: openapi.SchemaRef("RowFailure")},
			"drifted":      {Type: "integer", Description: "Rows whose label is outside the rubric"},
			"duration":     {Type: "integer", Description: "Run duration in nanoseconds"},
			"completed_at": {Type: "string", Format: "date-time"},
		},
	},
	"ClassifyTableResponse": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"report":     openapi.SchemaRef("Report"),
			"preview":    openapi.SchemaRef("Table"),
			"export_key": {Type: "string", Example: "exports/3f1c3a52-4a8f-4c39-9a51-0d6f6e0f3a11.csv"},
		},
	},
}

func csvResponse(description string, headers map[string]*openapi.Header) *openapi.Response {
	return &openapi.Response{
		Description: description,
		Headers:     headers,
		Content: map[string]*openapi.MediaType{
			ExportContentType: {Schema: &openapi.Schema{Type: "string"}},
		},
	}
}

var tableUpload = openapi.RequestBodyFile("file", "Comment table as .csv or .xlsx")

var previewOp = &openapi.Operation{
	Summary:     "Preview a comment table",
	RequestBody: tableUpload,
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Table summary and first rows", "PreviewResponse"),
		400: openapi.ResponseRef("BadRequest"),
		413: openapi.ResponseRef("PayloadTooLarge"),
		415: openapi.ResponseRef("UnsupportedMediaType"),
	},
}

var classifyTableOp = &openapi.Operation{
	Summary:     "Classify every row of a comment table",
	Description: "Appends the " + PredictedColumn + " column. Failed rows are labeled Error and listed in the report.",
	Parameters: []*openapi.Parameter{
		openapi.QueryParam("format", "Return the classified table as a CSV attachment", "csv"),
	},
	RequestBody: tableUpload,
	Responses: map[int]*openapi.Response{
		200: {
			Description: "Report with preview, or the CSV attachment when format=csv",
			Headers: map[string]*openapi.Header{
				HeaderReportID:  {Description: "Report ID (CSV only)", Schema: &openapi.Schema{Type: "string", Format: "uuid"}},
				HeaderRows:      {Description: "Rows classified (CSV only)", Schema: &openapi.Schema{Type: "integer"}},
				HeaderFailed:    {Description: "Rows labeled Error (CSV only)", Schema: &openapi.Schema{Type: "integer"}},
				HeaderDrifted:   {Description: "Rows outside the rubric (CSV only)", Schema: &openapi.Schema{Type: "integer"}},
				HeaderExportKey: {Description: "Stored export key when storage is enabled (CSV only)", Schema: &openapi.Schema{Type: "string"}},
			},
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: openapi.SchemaRef("ClassifyTableResponse")},
				ExportContentType:  {Schema: &openapi.Schema{Type: "string"}},
			},
		},
		400: openapi.ResponseRef("BadRequest"),
		401: openapi.ResponseRef("Unauthorized"),
		413: openapi.ResponseRef("PayloadTooLarge"),
		415: openapi.ResponseRef("UnsupportedMediaType"),
	},
}

var exportOp = &openapi.Operation{
	Summary:    "Download a stored export",
	Parameters: []*openapi.Parameter{openapi.PathParam("id", "Report ID")},
	Responses: map[int]*openapi.Response{
		200: csvResponse("Classified table", nil),
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
	},
}
