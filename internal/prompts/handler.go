package prompts

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/lading/internal/dcsa"
	"github.com/JaimeStill/lading/pkg/handlers"
	"github.com/JaimeStill/lading/pkg/openapi"
	"github.com/JaimeStill/lading/pkg/pagination"
	"github.com/JaimeStill/lading/pkg/routes"
)

// Handler provides HTTP endpoints for prompt operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// TypeContent is the response type for document-type-scoped content endpoints.
type TypeContent struct {
	DocumentType dcsa.DocumentType `json:"document_type"`
	Content      string            `json:"content"`
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "prompts"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for prompt endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/prompts",
		Routes: []routes.Route{
			{
				Method:    "GET",
				Pattern:   "",
				Handler:   h.List,
				Summary:   "List prompt overrides",
				Paged:     true,
				Responses: []string{openapi.BadRequest},
			},
			{
				Method:  "GET",
				Pattern: "/types",
				Handler: h.Types,
				Summary: "List extractable document types",
			},
			{
				Method:    "GET",
				Pattern:   "/{id}",
				Handler:   h.Find,
				Summary:   "Find a prompt override",
				Responses: []string{openapi.BadRequest, openapi.NotFound},
			},
			{
				Method:    "GET",
				Pattern:   "/{type}/instructions",
				Handler:   h.Instructions,
				Summary:   "Effective instructions for a type",
				Responses: []string{openapi.BadRequest},
			},
			{
				Method:    "GET",
				Pattern:   "/{type}/spec",
				Handler:   h.Spec,
				Summary:   "Field specification for a type",
				Responses: []string{openapi.BadRequest},
			},
			{
				Method:    "POST",
				Pattern:   "",
				Handler:   h.Create,
				Summary:   "Create a prompt override",
				Status:    http.StatusCreated,
				Responses: []string{openapi.BadRequest, openapi.Conflict},
			},
			{
				Method:    "PUT",
				Pattern:   "/{id}",
				Handler:   h.Update,
				Summary:   "Update a prompt override",
				Responses: []string{openapi.BadRequest, openapi.NotFound, openapi.Conflict},
			},
			{
				Method:    "DELETE",
				Pattern:   "/{id}",
				Handler:   h.Delete,
				Summary:   "Delete a prompt override",
				Responses: []string{openapi.BadRequest, openapi.NotFound},
			},
			{
				Method:    "POST",
				Pattern:   "/search",
				Handler:   h.Search,
				Summary:   "Search prompt overrides",
				Responses: []string{openapi.BadRequest},
			},
			{
				Method:    "POST",
				Pattern:   "/{id}/activate",
				Handler:   h.Activate,
				Summary:   "Activate a prompt override",
				Responses: []string{openapi.BadRequest, openapi.NotFound},
			},
			{
				Method:    "POST",
				Pattern:   "/{id}/deactivate",
				Handler:   h.Deactivate,
				Summary:   "Deactivate a prompt override",
				Responses: []string{openapi.BadRequest, openapi.NotFound},
			},
		},
	}
}

// List returns a paginated list of prompts with optional query parameter filters.
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

// Types returns the document types a prompt override can target.
func (h *Handler) Types(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, dcsa.DocumentTypes())
}

// Find returns a single prompt by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.PathID(w, r, h.logger)
	if !ok {
		return
	}

	prompt, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, prompt)
}

// Instructions returns the effective instructions for a document type.
// Returns the active DB override if one exists, otherwise the hardcoded default.
func (h *Handler) Instructions(w http.ResponseWriter, r *http.Request) {
	docType := dcsa.DocumentType(r.PathValue("type"))
	if !docType.Valid() {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidDocumentType)
		return
	}

	text, err := h.sys.Instructions(r.Context(), docType)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, TypeContent{DocumentType: docType, Content: text})
}

// Spec returns the output specification for a document type.
func (h *Handler) Spec(w http.ResponseWriter, r *http.Request) {
	docType := dcsa.DocumentType(r.PathValue("type"))
	if !docType.Valid() {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidDocumentType)
		return
	}

	text, err := h.sys.Spec(r.Context(), docType)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, TypeContent{DocumentType: docType, Content: text})
}

// Create processes a JSON body to create a new prompt override.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if !handlers.DecodeJSON(w, r, h.logger, &cmd) {
		return
	}

	prompt, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, prompt)
}

// Update processes a JSON body to update an existing prompt override.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.PathID(w, r, h.logger)
	if !ok {
		return
	}

	var cmd UpdateCommand
	if !handlers.DecodeJSON(w, r, h.logger, &cmd) {
		return
	}

	prompt, err := h.sys.Update(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, prompt)
}

// Delete removes a prompt by its UUID path parameter.
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

// Search accepts a JSON body with pagination and filter criteria and returns matching prompts.
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

// Activate sets a prompt as the active override for its document type,
// atomically deactivating any currently active prompt for the same type.
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.PathID(w, r, h.logger)
	if !ok {
		return
	}

	prompt, err := h.sys.Activate(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, prompt)
}

// Deactivate clears the active flag on a prompt, allowing the document type
// to fall back to hard-coded default instructions.
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.PathID(w, r, h.logger)
	if !ok {
		return
	}

	prompt, err := h.sys.Deactivate(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, prompt)
}
