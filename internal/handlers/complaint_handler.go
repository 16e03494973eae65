package handlers

import (
	"net/http"
	"strconv"
	"time"

	"univoice/internal/middleware"
	"univoice/internal/models"
	"univoice/internal/repository"
	"univoice/internal/workflow"
	"univoice/pkg/validator"
)

// ComplaintHandler handles complaint intake and lifecycle requests
type ComplaintHandler struct {
	complaintRepo *repository.ComplaintRepository
	meetingRepo   *repository.MeetingRepository
	workflowSvc   *workflow.Service
}

// NewComplaintHandler creates a new complaint handler
func NewComplaintHandler(
	complaintRepo *repository.ComplaintRepository,
	meetingRepo *repository.MeetingRepository,
	workflowSvc *workflow.Service,
) *ComplaintHandler {
	return &ComplaintHandler{
		complaintRepo: complaintRepo,
		meetingRepo:   meetingRepo,
		workflowSvc:   workflowSvc,
	}
}

// actorFromRequest builds the workflow actor from the authenticated context
func actorFromRequest(r *http.Request) (workflow.Actor, bool) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		return workflow.Actor{}, false
	}
	roles, _ := middleware.GetUserRoles(r)
	return workflow.Actor{UserID: userID, Roles: roles}, true
}

// queryID reads a uint id from the named query parameter
func queryID(r *http.Request, name string) (uint, bool) {
	raw := r.URL.Query().Get(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

type createComplaintRequest struct {
	Title          string `json:"title" validate:"required,min=3,max=200"`
	Description    string `json:"description" validate:"required,min=10"`
	Visibility     string `json:"visibility" validate:"required,oneof=standard anonymous"`
	HandlerID      uint   `json:"handler_id" validate:"required"`
	NeedsCommittee bool   `json:"needs_committee"`
	NeedsVideoChat bool   `json:"needs_video_chat"`
}

// Create files a new complaint
// @Summary File a complaint
// @Description Create a new pending complaint assigned to a handler
// @Tags Complaints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createComplaintRequest true "Complaint data"
// @Success 201 {object} models.Complaint "Created complaint"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /complaints/create [post]
func (h *ComplaintHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createComplaintRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validator.ValidateStruct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	complaint := &models.Complaint{
		Title:          req.Title,
		Description:    req.Description,
		Visibility:     req.Visibility,
		SubmitterID:    userID,
		HandlerID:      req.HandlerID,
		NeedsCommittee: req.NeedsCommittee,
		NeedsVideoChat: req.NeedsVideoChat,
	}
	if err := h.complaintRepo.Create(complaint); err != nil {
		respondWithWorkflowError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, complaint)
}

// Get returns a single complaint
// @Summary Get a complaint
// @Description Get a complaint by id; callers may read complaints they submitted or handle
// @Tags Complaints
// @Produce json
// @Security BearerAuth
// @Param id query int true "Complaint ID"
// @Success 200 {object} models.Complaint "Complaint"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Not found"
// @Router /complaints/get [get]
func (h *ComplaintHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := queryID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid complaint id")
		return
	}

	complaint, err := h.complaintRepo.GetByID(id)
	if err != nil {
		respondWithWorkflowError(w, err)
		return
	}
	if complaint == nil {
		respondWithError(w, http.StatusNotFound, "Complaint not found")
		return
	}
	if complaint.SubmitterID != userID && complaint.HandlerID != userID &&
		(complaint.ResolverID == nil || *complaint.ResolverID != userID) {
		respondWithError(w, http.StatusForbidden, "Not your complaint")
		return
	}

	respondWithJSON(w, http.StatusOK, complaint)
}

// ListAssigned lists complaints assigned to the caller as handler
// @Summary List assigned complaints
// @Tags Complaints
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Complaint "Complaints"
// @Router /complaints/assigned [get]
func (h *ComplaintHandler) ListAssigned(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	complaints, err := h.complaintRepo.ListByHandler(userID)
	if err != nil {
		respondWithWorkflowError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, complaints)
}

// ListMine lists complaints filed by the caller
// @Summary List my complaints
// @Tags Complaints
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Complaint "Complaints"
// @Router /complaints/mine [get]
func (h *ComplaintHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	complaints, err := h.complaintRepo.ListBySubmitter(userID)
	if err != nil {
		respondWithWorkflowError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, complaints)
}

type categorizeRequest struct {
	ComplaintID uint   `json:"complaint_id" validate:"required"`
	Category    string `json:"category" validate:"required,oneof=academic administrative"`
}

// Categorize sets a pending complaint's category
// @Summary Categorize a complaint
// @Description Set the category of a pending complaint; repeatable while pending
// @Tags Workflow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body categorizeRequest true "Category assignment"
// @Success 200 {object} map[string]string "Categorized"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Not the assigned handler"
// @Failure 409 {object} map[string]string "Complaint no longer pending"
// @Router /complaints/categorize [post]
func (h *ComplaintHandler) Categorize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	actor, ok := actorFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req categorizeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validator.ValidateStruct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.workflowSvc.Categorize(actor, req.ComplaintID, req.Category); err != nil {
		respondWithWorkflowError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Complaint categorized"})
}

type complaintActionRequest struct {
	ComplaintID uint   `json:"complaint_id" validate:"required"`
	Reason      string `json:"reason,omitempty"`
	Details     string `json:"details,omitempty"`
}

// Validate advances a pending, categorized complaint to validated
// @Summary Validate a complaint
// @Tags Workflow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body complaintActionRequest true "Complaint reference"
// @Success 200 {object} map[string]string "Validated"
// @Failure 409 {object} map[string]string "Precondition failed"
// @Router /complaints/validate [post]
func (h *ComplaintHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	actor, ok := actorFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req complaintActionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ComplaintID == 0 {
		respondWithError(w, http.StatusBadRequest, "complaint_id is required")
		return
	}

	if err := h.workflowSvc.Validate(actor, req.ComplaintID); err != nil {
		respondWithWorkflowError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Complaint validated"})
}

// Reject moves a pending or validated complaint to rejected
// @Summary Reject a complaint
// @Tags Workflow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body complaintActionRequest true "Complaint reference with optional reason"
// @Success 200 {object} map[string]string "Rejected"
// @Failure 409 {object} map[string]string "Complaint can no longer be rejected"
// @Router /complaints/reject [post]
func (h *ComplaintHandler) Reject(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	actor, ok := actorFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req complaintActionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ComplaintID == 0 {
		respondWithError(w, http.StatusBadRequest, "complaint_id is required")
		return
	}

	if err := h.workflowSvc.Reject(actor, req.ComplaintID, req.Reason); err != nil {
		respondWithWorkflowError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Complaint rejected"})
}

// Resolve moves a complaint to resolved with resolution details
// @Summary Resolve a complaint
// @Description Record resolution details, close the escalation record and file an oversight report
// @Tags Workflow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body complaintActionRequest true "Complaint reference with details"
// @Success 200 {object} map[string]string "Resolved"
// @Failure 409 {object} map[string]string "Complaint already terminal"
// @Router /complaints/resolve [post]
func (h *ComplaintHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	actor, ok := actorFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req complaintActionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ComplaintID == 0 {
		respondWithError(w, http.StatusBadRequest, "complaint_id is required")
		return
	}

	if err := h.workflowSvc.Resolve(actor, req.ComplaintID, req.Details); err != nil {
		respondWithWorkflowError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Complaint resolved"})
}

type assignResolverRequest struct {
	ComplaintID uint   `json:"complaint_id" validate:"required"`
	ResolverID  uint   `json:"resolver_id" validate:"required"`
	ScheduledAt string `json:"scheduled_at,omitempty"`
}

// AssignResolver assigns a resolver, scheduling a video chat when required
// @Summary Assign a resolver
// @Description Assign a resolver to a pending complaint; scheduled_at (RFC 3339) is required when the complaint needs a video chat
// @Tags Workflow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body assignResolverRequest true "Resolver assignment"
// @Success 200 {object} map[string]string "Assigned"
// @Failure 409 {object} map[string]string "Resolver already assigned"
// @Router /complaints/assign-resolver [post]
func (h *ComplaintHandler) AssignResolver(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	actor, ok := actorFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req assignResolverRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validator.ValidateStruct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var scheduledAt *time.Time
	if req.ScheduledAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "scheduled_at must be RFC 3339")
			return
		}
		scheduledAt = &parsed
	}

	if err := h.workflowSvc.AssignResolver(actor, req.ComplaintID, req.ResolverID, scheduledAt); err != nil {
		respondWithWorkflowError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Resolver assigned"})
}

// GetMeeting returns the scheduled meeting for a complaint
// @Summary Get the scheduled meeting
// @Tags Workflow
// @Produce json
// @Security BearerAuth
// @Param complaint_id query int true "Complaint ID"
// @Success 200 {object} models.ScheduledMeeting "Meeting"
// @Failure 404 {object} map[string]string "No meeting scheduled"
// @Router /complaints/meeting [get]
func (h *ComplaintHandler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	complaintID, ok := queryID(r, "complaint_id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid complaint id")
		return
	}

	meeting, err := h.meetingRepo.GetByComplaintID(complaintID)
	if err != nil {
		respondWithWorkflowError(w, err)
		return
	}
	if meeting == nil {
		respondWithError(w, http.StatusNotFound, "No meeting scheduled")
		return
	}
	if meeting.ResolverID != userID && meeting.SubmitterID != userID {
		respondWithError(w, http.StatusForbidden, "Not a meeting participant")
		return
	}

	respondWithJSON(w, http.StatusOK, meeting)
}
