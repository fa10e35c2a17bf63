package documents

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/JaimeStill/lading/pkg/handlers"
	"github.com/JaimeStill/lading/pkg/openapi"
	"github.com/JaimeStill/lading/pkg/pagination"
	"github.com/JaimeStill/lading/pkg/routes"
)

// Handler provides HTTP endpoints for document operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// StatusRequest is the body of a status transition.
type StatusRequest struct {
	Status Status `json:"status"`
}

// NewHandler creates a Handler with the given system, logger, pagination config, and upload size limit.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "documents"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for document endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/documents",
		Routes: []routes.Route{
			{
				Method:    "GET",
				Pattern:   "",
				Handler:   h.List,
				Summary:   "List documents",
				Paged:     true,
				Responses: []string{openapi.BadRequest},
			},
			{
				Method:    "GET",
				Pattern:   "/{id}",
				Handler:   h.Find,
				Summary:   "Find a document",
				Responses: []string{openapi.BadRequest, openapi.NotFound},
			},
			{
				Method:    "GET",
				Pattern:   "/{id}/content",
				Handler:   h.Content,
				Summary:   "Download the stored PDF",
				Responses: []string{openapi.BadRequest, openapi.NotFound},
			},
			{
				Method:    "POST",
				Pattern:   "",
				Handler:   h.Upload,
				Summary:   "Upload a PDF",
				Status:    http.StatusCreated,
				Responses: []string{openapi.BadRequest, openapi.Conflict, openapi.PayloadTooLarge, openapi.UnsupportedMediaType},
			},
			{
				Method:    "POST",
				Pattern:   "/search",
				Handler:   h.Search,
				Summary:   "Search documents",
				Responses: []string{openapi.BadRequest},
			},
			{
				Method:    "PUT",
				Pattern:   "/{id}/status",
				Handler:   h.SetStatus,
				Summary:   "Set review status",
				Status:    http.StatusNoContent,
				Responses: []string{openapi.BadRequest, openapi.NotFound},
			},
			{
				Method:    "DELETE",
				Pattern:   "/{id}",
				Handler:   h.Delete,
				Summary:   "Delete a document and its PDF",
				Responses: []string{openapi.BadRequest, openapi.NotFound},
			},
		},
	}
}

// List returns a paginated list of documents with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single document by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.PathID(w, r, h.logger)
	if !ok {
		return
	}

	doc, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, doc)
}

// Content streams the archived PDF.
func (h *Handler) Content(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.PathID(w, r, h.logger)
	if !ok {
		return
	}

	data, err := h.sys.Content(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.Header().Set("Content-Type", ContentTypePDF)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Search accepts a JSON body with pagination and filter criteria and returns matching documents.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !handlers.DecodeJSON(w, r, h.logger, &req) {
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Upload accepts a multipart form with a PDF "file" part and an optional
// shipment "reference". The page count is read with pdfcpu when possible.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+(1<<20))

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadSize {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	if len(data) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	if ct := http.DetectContentType(data); ct != ContentTypePDF {
		err := fmt.Errorf("%w: detected %s", ErrNotPDF, ct)
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	cmd := CreateCommand{
		Data:      data,
		Filename:  header.Filename,
		Reference: strings.TrimSpace(r.FormValue("reference")),
		PageCount: pdfPageCount(h.logger, data),
	}

	doc, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, doc)
}

// SetStatus moves a document to the status named in the JSON body.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.PathID(w, r, h.logger)
	if !ok {
		return
	}

	var req StatusRequest
	if !handlers.DecodeJSON(w, r, h.logger, &req) {
		return
	}

	if err := h.sys.SetStatus(r.Context(), id, req.Status); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete removes a document by its UUID path parameter.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.PathID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func pdfPageCount(logger *slog.Logger, data []byte) *int {
	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		logger.Warn("failed to extract PDF page count", "error", err)
		return nil
	}

	return &count
}
