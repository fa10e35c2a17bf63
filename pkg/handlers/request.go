package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// PathID parses the {id} wildcard. A malformed value is answered with 400
// and reported as false.
func PathID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (uuid.UUID, bool) {
	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		RespondError(w, logger, http.StatusBadRequest, fmt.Errorf("invalid id %q", raw))
		return uuid.Nil, false
	}
	return id, true
}

// DecodeJSON reads the request body into dst. A malformed body is answered
// with 400 and reported as false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		RespondError(w, logger, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}
