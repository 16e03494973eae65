package handlers

import (
	"net/http"

	"univoice/internal/middleware"
	"univoice/internal/repository"
	"univoice/internal/workflow"
)

// CommitteeHandler handles committee formation and read requests
type CommitteeHandler struct {
	committeeSvc  *workflow.CommitteeService
	committeeRepo *repository.CommitteeRepository
	complaintRepo *repository.ComplaintRepository
	userRepo      *repository.UserRepository
}

// NewCommitteeHandler creates a new committee handler
func NewCommitteeHandler(
	committeeSvc *workflow.CommitteeService,
	committeeRepo *repository.CommitteeRepository,
	complaintRepo *repository.ComplaintRepository,
	userRepo *repository.UserRepository,
) *CommitteeHandler {
	return &CommitteeHandler{
		committeeSvc:  committeeSvc,
		committeeRepo: committeeRepo,
		complaintRepo: complaintRepo,
		userRepo:      userRepo,
	}
}

type formCommitteeRequest struct {
	ComplaintID uint   `json:"complaint_id" validate:"required"`
	MemberIDs   []uint `json:"member_ids" validate:"required"`
}

// Form creates the review committee for a complaint
// @Summary Form a committee
// @Description Atomically create a committee with the given members for a complaint that requires one
// @Tags Committees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body formCommitteeRequest true "Committee formation"
// @Success 201 {object} map[string]uint "Committee id"
// @Failure 400 {object} map[string]string "Ineligible member or too few members"
// @Failure 409 {object} map[string]string "Committee already exists"
// @Router /committees/form [post]
func (h *CommitteeHandler) Form(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	actor, ok := actorFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req formCommitteeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ComplaintID == 0 {
		respondWithError(w, http.StatusBadRequest, "complaint_id is required")
		return
	}

	committeeID, err := h.committeeSvc.FormCommittee(actor, req.ComplaintID, req.MemberIDs)
	if err != nil {
		respondWithWorkflowError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]uint{"committee_id": committeeID})
}

// Get returns the committee for a complaint with members and messages
// @Summary Get a committee
// @Tags Committees
// @Produce json
// @Security BearerAuth
// @Param complaint_id query int true "Complaint ID"
// @Success 200 {object} map[string]interface{} "Committee with members and messages"
// @Failure 404 {object} map[string]string "No committee"
// @Router /committees/get [get]
func (h *CommitteeHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	committee, err := h.committeeRepo.GetByComplaintID(complaintID)
	if err != nil {
		respondWithWorkflowError(w, err)
		return
	}
	if committee == nil {
		respondWithError(w, http.StatusNotFound, "No committee for this complaint")
		return
	}

	members, err := h.committeeRepo.GetMembers(committee.ID)
	if err != nil {
		respondWithWorkflowError(w, err)
		return
	}

	isMember := false
	for _, m := range members {
		if m.UserID == userID {
			isMember = true
			break
		}
	}
	if !isMember {
		respondWithError(w, http.StatusForbidden, "Not a committee member")
		return
	}

	messages, err := h.committeeRepo.GetMessages(committee.ID)
	if err != nil {
		respondWithWorkflowError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"committee": committee,
		"members":   members,
		"messages":  messages,
	})
}

// Candidates lists users eligible for committee membership
// @Summary List committee candidates
// @Description List active users holding a committee-eligible role, excluding the caller
// @Tags Committees
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User "Eligible candidates"
// @Router /committees/candidates [get]
func (h *CommitteeHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	candidates, err := h.userRepo.EligibleCommitteeCandidates(userID)
	if err != nil {
		respondWithWorkflowError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, candidates)
}
