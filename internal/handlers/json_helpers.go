package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"univoice/internal/workflow"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithWorkflowError maps workflow sentinel errors to HTTP statuses.
// Anything outside the taxonomy is a persistence failure: logged in full,
// reported to the client without detail.
func respondWithWorkflowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, workflow.ErrForbidden):
		respondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, workflow.ErrValidation):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, workflow.ErrPreconditionFailed):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, workflow.ErrAlreadyAssigned):
		respondWithError(w, http.StatusConflict, err.Error())
	default:
		slog.Error("Workflow operation failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
