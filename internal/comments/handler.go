package comments

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/stance/internal/classifier"
	"github.com/JaimeStill/stance/pkg/formatting"
	"github.com/JaimeStill/stance/pkg/handlers"
	"github.com/JaimeStill/stance/pkg/routes"
	"github.com/JaimeStill/stance/pkg/storage"
)

// Report summary headers set on CSV responses.
const (
	HeaderReportID  = "X-Stance-Report-Id"
	HeaderRows      = "X-Stance-Rows"
	HeaderFailed    = "X-Stance-Failed"
	HeaderDrifted   = "X-Stance-Drifted"
	HeaderExportKey = "X-Stance-Export-Key"
)

// ExposedHeaders lists the response headers browser clients need to read.
var ExposedHeaders = []string{
	"Content-Disposition",
	HeaderReportID,
	HeaderRows,
	HeaderFailed,
	HeaderDrifted,
	HeaderExportKey,
}

// ExportKey returns the blob key an exported report is stored under.
func ExportKey(id uuid.UUID) string {
	return "exports/" + id.String() + ".csv"
}

// PreviewResponse describes an uploaded table without classifying it.
type PreviewResponse struct {
	Filename      string `json:"filename"`
	RowCount      int    `json:"row_count"`
	HasComment    bool   `json:"has_comment_column"`
	Preview       *Table `json:"preview"`
	MissingColumn string `json:"missing_column,omitempty"`
}

// ClassifyResponse is the JSON result of a table classification.
type ClassifyResponse struct {
	Report    *Report `json:"report"`
	Preview   *Table  `json:"preview"`
	ExportKey string  `json:"export_key,omitempty"`
}

// HandlerConfig holds request limits and defaults for the table handler.
type HandlerConfig struct {
	MaxUploadSize int64
	PreviewRows   int
	Token         string
}

// Handler exposes table preview, batch classification, and export download.
type Handler struct {
	runner *Runner
	store  storage.System
	cfg    HandlerConfig
	logger *slog.Logger
}

// NewHandler creates a Handler. store may be disabled, in which case exports
// are neither written nor served.
func NewHandler(runner *Runner, store storage.System, cfg HandlerConfig, logger *slog.Logger) *Handler {
	return &Handler{
		runner: runner,
		store:  store,
		cfg:    cfg,
		logger: logger.With("handler", "comments"),
	}
}

// Routes returns the table and export route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags:    []string{"Tables"},
		Schemas: schemas,
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/tables/preview", Handler: h.Preview, OpenAPI: previewOp},
			{Method: "POST", Pattern: "/tables/classify", Handler: h.Classify, OpenAPI: classifyTableOp},
			{Method: "GET", Pattern: "/exports/{id}", Handler: h.Export, OpenAPI: exportOp},
		},
	}
}

// Preview loads the uploaded table and returns its first rows.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	table, filename, err := h.readTable(w, r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	resp := PreviewResponse{
		Filename:   filename,
		RowCount:   table.Len(),
		HasComment: table.HasColumn(CommentColumn),
		Preview:    table.Preview(h.cfg.PreviewRows),
	}
	if !resp.HasComment {
		resp.MissingColumn = CommentColumn
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Classify labels every row of the uploaded table. With ?format=csv the
// augmented table is returned as an attachment; otherwise a JSON report
// with a preview is returned.
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	table, filename, err := h.readTable(w, r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	creds := classifier.RequestCredentials(r, h.cfg.Token)
	report, err := h.runner.ClassifyTable(r.Context(), table, creds)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	data, err := EncodeCSV(table)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	exportKey := h.storeExport(r, report, data)

	h.logger.InfoContext(
		r.Context(), "table classified",
		"filename", filename,
		"report_id", report.ID,
		"rows", report.Rows,
		"failed", report.Failed(),
		"export_key", exportKey,
	)

	if r.URL.Query().Get("format") == "csv" {
		writeReportHeaders(w, report, exportKey)
		writeCSVAttachment(w, data)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ClassifyResponse{
		Report:    report,
		Preview:   table.Preview(h.cfg.PreviewRows),
		ExportKey: exportKey,
	})
}

// Export streams a previously stored export by report ID.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	if !h.store.Enabled() {
		handlers.RespondError(w, h.logger, MapHTTPStatus(ErrExportsUnavailable), ErrExportsUnavailable)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		err = fmt.Errorf("%w: %w", storage.ErrInvalidKey, err)
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	body, err := h.store.Download(r.Context(), ExportKey(id))
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", ExportContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ExportFilename))
	w.WriteHeader(http.StatusOK)
	io.Copy(w, body)
}

// storeExport uploads data when storage is enabled and returns its key.
// Upload failures are logged and do not fail the request.
func (h *Handler) storeExport(r *http.Request, report *Report, data []byte) string {
	if !h.store.Enabled() {
		return ""
	}

	key := ExportKey(report.ID)
	if err := h.store.Upload(r.Context(), key, bytes.NewReader(data), ExportContentType); err != nil {
		h.logger.WarnContext(r.Context(), "export upload failed", "key", key, "error", err)
		return ""
	}
	return key
}

// readTable parses the multipart "file" field and loads it as a table.
func (h *Handler) readTable(w http.ResponseWriter, r *http.Request) (*Table, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadSize)

	if err := r.ParseMultipartForm(h.cfg.MaxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, "", fmt.Errorf(
				"%w: limit is %s",
				ErrFileTooLarge, formatting.FormatBytes(maxErr.Limit, 0),
			)
		}
		if errors.Is(err, multipart.ErrMessageTooLarge) {
			return nil, "", fmt.Errorf("%w: %w", ErrFileTooLarge, err)
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, "", fmt.Errorf("%w: %w", ErrMissingFile, err)
		}
		return nil, "", fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", ErrMissingFile
	}
	defer file.Close()

	table, err := Load(file, header.Filename)
	if err != nil {
		return nil, header.Filename, err
	}
	return table, header.Filename, nil
}

func writeReportHeaders(w http.ResponseWriter, report *Report, exportKey string) {
	h := w.Header()
	h.Set(HeaderReportID, report.ID.String())
	h.Set(HeaderRows, strconv.Itoa(report.Rows))
	h.Set(HeaderFailed, strconv.Itoa(report.Failed()))
	h.Set(HeaderDrifted, strconv.Itoa(report.Drifted))
	if exportKey != "" {
		h.Set(HeaderExportKey, exportKey)
	}
}

func writeCSVAttachment(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", ExportContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ExportFilename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
