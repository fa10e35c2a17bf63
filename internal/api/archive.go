package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"

	"github.com/JaimeStill/lading/pkg/handlers"
	"github.com/JaimeStill/lading/pkg/openapi"
	"github.com/JaimeStill/lading/pkg/routes"
	"github.com/JaimeStill/lading/pkg/storage"
)

// archiveHandler exposes the raw PDF archive for audit and recovery.
type archiveHandler struct {
	store       storage.System
	logger      *slog.Logger
	maxListSize int32
}

func newArchiveHandler(
	store storage.System,
	logger *slog.Logger,
	maxListSize int32,
) *archiveHandler {
	return &archiveHandler{
		store:       store,
		logger:      logger.With("handler", "archive"),
		maxListSize: maxListSize,
	}
}

func (h *archiveHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/archive",
		Routes: []routes.Route{
			{
				Method:    "GET",
				Pattern:   "",
				Handler:   h.list,
				Summary:   "List archived PDFs",
				Responses: []string{openapi.BadRequest},
			},
			{
				Method:    "GET",
				Pattern:   "/download/{key...}",
				Handler:   h.download,
				Summary:   "Download an archived PDF",
				Responses: []string{openapi.BadRequest, openapi.NotFound},
			},
			{
				Method:    "GET",
				Pattern:   "/blobs/{key...}",
				Handler:   h.find,
				Summary:   "Archived PDF metadata",
				Responses: []string{openapi.BadRequest, openapi.NotFound},
			},
		},
	}
}

func (h *archiveHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	maxResults, err := storage.ParseMaxResults(q.Get("max_results"), h.maxListSize)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	prefix := q.Get("prefix")
	if prefix == "" {
		prefix = "documents/"
	}

	result, err := h.store.List(r.Context(), prefix, q.Get("marker"), maxResults)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *archiveHandler) find(w http.ResponseWriter, r *http.Request) {
	meta, err := h.store.Find(r.Context(), r.PathValue("key"))
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, meta)
}

func (h *archiveHandler) download(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	meta, err := h.store.Find(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	body, err := h.store.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", meta.ContentType)
	if meta.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(meta.ContentLength, 10))
	}
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", path.Base(key)),
	)
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("archive download interrupted", "key", key, "error", err)
	}
}
