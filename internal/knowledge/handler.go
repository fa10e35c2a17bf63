package knowledge

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/lading/pkg/handlers"
	"github.com/JaimeStill/lading/pkg/openapi"
	"github.com/JaimeStill/lading/pkg/pagination"
	"github.com/JaimeStill/lading/pkg/routes"
)

// Handler provides HTTP endpoints for knowledge base operations.
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
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "knowledge"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for knowledge endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/knowledge",
		Routes: []routes.Route{
			{
				Method:    "GET",
				Pattern:   "",
				Handler:   h.List,
				Summary:   "List knowledge examples",
				Paged:     true,
				Responses: []string{openapi.BadRequest},
			},
			{
				Method:  "GET",
				Pattern: "/stats",
				Handler: h.Stats,
				Summary: "Knowledge base statistics",
			},
			{
				Method:    "GET",
				Pattern:   "/{id}",
				Handler:   h.Find,
				Summary:   "Find an example",
				Responses: []string{openapi.BadRequest, openapi.NotFound},
			},
			{
				Method:    "POST",
				Pattern:   "",
				Handler:   h.Add,
				Summary:   "Add a validated example",
				Status:    http.StatusCreated,
				Responses: []string{openapi.BadRequest},
			},
			{
				Method:    "POST",
				Pattern:   "/search",
				Handler:   h.Search,
				Summary:   "Search examples",
				Responses: []string{openapi.BadRequest},
			},
			{
				Method:    "POST",
				Pattern:   "/prune",
				Handler:   h.Prune,
				Summary:   "Prune stale examples",
				Responses: []string{openapi.BadRequest},
			},
			{
				Method:    "DELETE",
				Pattern:   "/{id}",
				Handler:   h.Delete,
				Summary:   "Delete an example",
				Responses: []string{openapi.BadRequest, openapi.NotFound},
			},
		},
	}
}

// List returns a paginated list of examples with optional query parameter filters.
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

// Search accepts a JSON body with pagination and filter criteria.
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

// Find returns a single example by its UUID path parameter.
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

// Add stores a manually validated example.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	var cmd AddCommand
	if !handlers.DecodeJSON(w, r, h.logger, &cmd) {
		return
	}

	e, err := h.sys.AddExample(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, e)
}

// Stats returns knowledge base aggregates.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.sys.Stats(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, stats)
}

// Prune removes stale examples. An empty body applies the configured policy.
func (h *Handler) Prune(w http.ResponseWriter, r *http.Request) {
	var cmd PruneCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil && !errors.Is(err, io.EOF) {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidExample)
		return
	}

	deleted, err := h.sys.Prune(r.Context(), cmd.MinConfidence, cmd.MaxAgeDays)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, PruneResult{Deleted: deleted})
}

// Delete removes an example by its UUID path parameter.
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
