package handlers

import (
	"net/http"
	"strconv"

	"univoice/internal/repository"
)

// AuditHandler handles audit log requests
type AuditHandler struct {
	auditRepo *repository.AuditRepository
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditRepo *repository.AuditRepository) *AuditHandler {
	return &AuditHandler{
		auditRepo: auditRepo,
	}
}

// List lists recent audit log entries (admin only)
// @Summary List audit logs
// @Description Get recent audit log entries (admin only)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum entries" default(50)
// @Success 200 {array} models.AuditLog "Audit log entries"
// @Failure 403 {object} map[string]string "Forbidden - admin only"
// @Router /admin/audit-logs/list [get]
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 500 {
			limit = l
		}
	}

	logs, err := h.auditRepo.ListRecent(limit)
	if err != nil {
		respondWithWorkflowError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, logs)
}
