package serve

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dtnitsch/seo-tagger/internal/common"
	"github.com/dtnitsch/seo-tagger/models"
	"github.com/dtnitsch/seo-tagger/pkg/ingest"
	"github.com/dtnitsch/seo-tagger/pkg/tagger"
)

// GenerateRequest is the body of POST /generate. Empty override fields are
// treated as not supplied.
type GenerateRequest struct {
	Content  string `json:"content"`
	Title    string `json:"title,omitempty"`
	Author   string `json:"author,omitempty"`
	Category string `json:"category,omitempty"`
	Audience string `json:"audience,omitempty"`
	Date     string `json:"date,omitempty"`
	Source   string `json:"source,omitempty"`
}

// GenerateResponse is the body returned for a generated document.
type GenerateResponse struct {
	Metadata       models.Metadata `json:"metadata"`
	Document       string          `json:"document"`
	Strategy       string          `json:"strategy"`
	FallbackReason string          `json:"fallback_reason,omitempty"`
	Path           string          `json:"path,omitempty"`
	RunID          string          `json:"run_id,omitempty"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Handler serves the tagging pipeline over HTTP.
type Handler struct {
	app *common.App
	// write saves generated documents to the output directory.
	write        bool
	maxBodyBytes int64
}

// NewHandler creates a handler around app.
func NewHandler(app *common.App, write bool) *Handler {
	return &Handler{
		app:          app,
		write:        write,
		maxBodyBytes: app.Config.Server.MaxBodyBytes,
	}
}

// Routes returns the mux with every endpoint registered.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /generate", h.handleGenerate)
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.Handle("GET /metrics", h.app.Metrics.Handler())
	return mux
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"ai":     h.app.AIActive,
	})
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	var req GenerateRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "too_large",
				fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeJSONError(w, http.StatusBadRequest, "invalid_json", "Failed to decode request: "+err.Error())
		return
	}

	doc, err := toDocument(req)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, common.ErrorType(err), err.Error())
		return
	}

	p, err := h.app.Publish(r.Context(), doc, common.PublishOptions{Stdout: !h.write})
	if err != nil {
		if common.IsInputError(err) {
			writeJSONError(w, http.StatusBadRequest, common.ErrorType(err), err.Error())
			return
		}
		h.app.Logger.Error("Failed to generate document", "source", doc.Source, "error", err)
		writeJSONError(w, http.StatusInternalServerError, common.ErrorType(err), "Failed to generate document")
		return
	}

	writeJSON(w, http.StatusOK, GenerateResponse{
		Metadata:       p.Output.Metadata,
		Document:       string(p.Output.Document),
		Strategy:       p.Output.Strategy,
		FallbackReason: p.Output.FallbackReason,
		Path:           p.Path,
		RunID:          p.RunID,
	})
}

// toDocument splits any front matter off the content and layers the request
// fields over it.
func toDocument(req GenerateRequest) (models.Document, error) {
	source := req.Source
	if source == "" {
		source = "http"
	}
	doc, err := ingest.Markdown(req.Content, source)
	if err != nil {
		return models.Document{}, err
	}

	var o models.Overrides
	if s := strings.TrimSpace(req.Title); s != "" {
		o.Title = models.StringPtr(s)
	}
	if s := strings.TrimSpace(req.Author); s != "" {
		o.Author = models.StringPtr(s)
	}
	if s := strings.TrimSpace(req.Category); s != "" {
		o.Category = models.StringPtr(s)
	}
	if s := strings.TrimSpace(req.Audience); s != "" {
		o.Audience = models.StringPtr(s)
	}
	if s := strings.TrimSpace(req.Date); s != "" {
		d, err := ingest.ParseDate(s)
		if err != nil {
			return models.Document{}, &tagger.OverrideError{Field: "date", Reason: "must be YYYY-MM-DD or RFC 3339"}
		}
		o.Date = &d
	}
	doc.Overrides = o.Merge(doc.Overrides)
	return doc, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}
