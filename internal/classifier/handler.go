package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/stance/pkg/handlers"
	"github.com/JaimeStill/stance/pkg/routes"
)

// maxCommentBody bounds the JSON body accepted by the classify endpoint.
const maxCommentBody = 1 << 20

// ClassifyRequest is the body of POST /classify.
type ClassifyRequest struct {
	Comment string `json:"comment"`
}

// ClassifyResponse carries the label for one comment. Error is set when the
// label is the failure sentinel because the upstream call failed.
type ClassifyResponse struct {
	Comment string `json:"comment"`
	Label   string `json:"label"`
	Model   string `json:"model"`
	Error   string `json:"error,omitempty"`
}

// Handler exposes single-comment classification and the category legend.
type Handler struct {
	classifier *Classifier
	token      string
	logger     *slog.Logger
}

// NewHandler creates a Handler. token is used when a request carries no
// bearer token of its own.
func NewHandler(c *Classifier, token string, logger *slog.Logger) *Handler {
	return &Handler{
		classifier: c,
		token:      token,
		logger:     logger.With("handler", "classifier"),
	}
}

// Routes returns the classifier route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags:    []string{"Classifier"},
		Schemas: schemas,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/categories", Handler: h.Categories, OpenAPI: categoriesOp},
			{Method: "POST", Pattern: "/classify", Handler: h.Classify, OpenAPI: classifyOp},
		},
	}
}

// Categories writes the label legend.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Categories())
}

// Classify labels the comment in the request body. An upstream failure is
// reported with status 200, label "Error" and the failure in the error field.
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCommentBody)).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	if strings.TrimSpace(req.Comment) == "" {
		handlers.RespondError(w, h.logger, MapHTTPStatus(ErrEmptyComment), ErrEmptyComment)
		return
	}

	label, err := h.classifier.Classify(r.Context(), req.Comment, RequestCredentials(r, h.token))

	resp := ClassifyResponse{
		Comment: req.Comment,
		Label:   label,
		Model:   h.classifier.Model(),
	}

	var callErr *CallError
	switch {
	case errors.As(err, &callErr):
		resp.Error = callErr.Error()
	case err != nil:
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// RequestCredentials prefers the request's bearer token over fallback.
func RequestCredentials(r *http.Request, fallback string) Credentials {
	if token := handlers.BearerToken(r); token != "" {
		return Credentials{Token: token}
	}
	return Credentials{Token: fallback}
}
