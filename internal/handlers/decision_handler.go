package handlers

import (
	"net/http"

	"univoice/internal/middleware"
	"univoice/internal/repository"
	"univoice/internal/workflow"
)

// DecisionHandler handles the decision/escalation chain endpoints
type DecisionHandler struct {
	decisionRepo *repository.DecisionRepository
	workflowSvc  *workflow.Service
}

// NewDecisionHandler creates a new decision handler
func NewDecisionHandler(decisionRepo *repository.DecisionRepository, workflowSvc *workflow.Service) *DecisionHandler {
	return &DecisionHandler{
		decisionRepo: decisionRepo,
		workflowSvc:  workflowSvc,
	}
}

// Inbox lists decisions addressed to the caller
// @Summary List received decisions
// @Tags Decisions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Decision "Decisions"
// @Router /decisions/inbox [get]
func (h *DecisionHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	decisions, err := h.decisionRepo.ListByReceiver(userID)
	if err != nil {
		respondWithWorkflowError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, decisions)
}

type replyRequest struct {
	DecisionID uint   `json:"decision_id" validate:"required"`
	Body       string `json:"body" validate:"required"`
}

// Reply answers a decision addressed to the caller
// @Summary Reply to a decision
// @Description Record a reply in the escalation chain; moves the complaint to in_progress when still possible
// @Tags Decisions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body replyRequest true "Reply"
// @Success 201 {object} models.Decision "Recorded reply"
// @Failure 403 {object} map[string]string "Decision not addressed to caller"
// @Failure 404 {object} map[string]string "Decision not found"
// @Router /decisions/reply [post]
func (h *DecisionHandler) Reply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	actor, ok := actorFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req replyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.DecisionID == 0 {
		respondWithError(w, http.StatusBadRequest, "decision_id is required")
		return
	}

	reply, err := h.workflowSvc.ReplyToDecision(actor, req.DecisionID, req.Body)
	if err != nil {
		respondWithWorkflowError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, reply)
}
