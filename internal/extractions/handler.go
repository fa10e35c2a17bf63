package extractions

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/lading/pkg/handlers"
	"github.com/JaimeStill/lading/pkg/openapi"
	"github.com/JaimeStill/lading/pkg/pagination"
	"github.com/JaimeStill/lading/pkg/routes"
)

// Handler provides HTTP endpoints for extraction operations.
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

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "extractions"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for extraction endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/extractions",
		Routes: []routes.Route{
			{
				Method:    "GET",
				Pattern:   "",
				Handler:   h.List,
				Summary:   "List extractions",
				Paged:     true,
				Responses: []string{openapi.BadRequest},
			},
			{
				Method:    "GET",
				Pattern:   "/{id}",
				Handler:   h.Find,
				Summary:   "Find an extraction",
				Responses: []string{openapi.BadRequest, openapi.NotFound},
			},
			{
				Method:    "GET",
				Pattern:   "/document/{id}",
				Handler:   h.ListByDocument,
				Summary:   "List a document's extractions",
				Responses: []string{openapi.BadRequest},
			},
			{
				Method:    "POST",
				Pattern:   "/search",
				Handler:   h.Search,
				Summary:   "Search extractions",
				Responses: []string{openapi.BadRequest},
			},
			{
				Method:    "POST",
				Pattern:   "/document/{id}/extract",
				Handler:   h.Extract,
				Summary:   "Run the pipeline over a document",
				Status:    http.StatusCreated,
				Responses: []string{openapi.BadRequest, openapi.NotFound, openapi.BadGateway},
			},
			{
				Method:    "POST",
				Pattern:   "/{id}/approve",
				Handler:   h.Approve,
				Summary:   "Approve an extraction",
				Responses: []string{openapi.BadRequest, openapi.NotFound, openapi.Conflict},
			},
			{
				Method:    "PUT",
				Pattern:   "/{id}",
				Handler:   h.Update,
				Summary:   "Correct extracted data",
				Responses: []string{openapi.BadRequest, openapi.NotFound, openapi.Conflict},
			},
			{
				Method:    "DELETE",
				Pattern:   "/{id}",
				Handler:   h.Delete,
				Summary:   "Delete an extraction",
				Responses: []string{openapi.BadRequest, openapi.NotFound},
			},
		},
	}
}

// List returns a paginated list of extractions with optional query parameter filters.
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

// Find returns a single extraction by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.PathID(w, r, h.logger)
	if !ok {
		return
	}

	e, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, e)
}

// ListByDocument returns every stored group of a document in page order.
func (h *Handler) ListByDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.PathID(w, r, h.logger)
	if !ok {
		return
	}

	items, err := h.sys.ListByDocument(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	if items == nil {
		items = []Extraction{}
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}

// Search accepts a JSON body with pagination and filter criteria and returns matching extractions.
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

// Extract runs the pipeline for the document in the path and returns 201
// with the run report.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.PathID(w, r, h.logger)
	if !ok {
		return
	}

	report, err := h.sys.Extract(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, report)
}

// Approve confirms an extraction by decoding an ApproveCommand JSON body.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.PathID(w, r, h.logger)
	if !ok {
		return
	}

	var cmd ApproveCommand
	if !handlers.DecodeJSON(w, r, h.logger, &cmd) {
		return
	}

	e, err := h.sys.Approve(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, e)
}

// Update replaces extracted data with a reviewer correction by decoding an
// UpdateCommand JSON body.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.PathID(w, r, h.logger)
	if !ok {
		return
	}

	var cmd UpdateCommand
	if !handlers.DecodeJSON(w, r, h.logger, &cmd) {
		return
	}

	e, err := h.sys.Update(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, e)
}

// Delete removes an extraction by its UUID path parameter.
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
