package handlers

import (
	"net/http"

	"univoice/internal/middleware"
	"univoice/internal/repository"
)

// ReportHandler handles the president's oversight report surface
type ReportHandler struct {
	reportRepo *repository.ReportRepository
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportRepo *repository.ReportRepository) *ReportHandler {
	return &ReportHandler{
		reportRepo: reportRepo,
	}
}

// List lists oversight reports addressed to the caller (president only)
// @Summary List oversight reports
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.StereotypedReport "Reports"
// @Failure 403 {object} map[string]string "Forbidden - president only"
// @Router /reports/list [get]
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	reports, err := h.reportRepo.ListByRecipient(userID)
	if err != nil {
		respondWithWorkflowError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, reports)
}

// ListForComplaint lists reports filed for one complaint (president only)
// @Summary List reports for a complaint
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param complaint_id query int true "Complaint ID"
// @Success 200 {array} models.StereotypedReport "Reports"
// @Router /reports/by-complaint [get]
func (h *ReportHandler) ListForComplaint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	complaintID, ok := queryID(r, "complaint_id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid complaint id")
		return
	}

	reports, err := h.reportRepo.ListByComplaint(complaintID)
	if err != nil {
		respondWithWorkflowError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, reports)
}
