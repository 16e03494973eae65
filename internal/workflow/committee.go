package workflow

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"univoice/internal/config"
	"univoice/internal/database"
	"univoice/internal/models"
	"univoice/internal/repository"
)

// CommitteeService forms review committees. Formation is all-or-nothing:
// the committee row, its members, the complaint back-link, the member
// notifications and the seeded system message share one transaction, so a
// partial committee can never exist.
type CommitteeService struct {
	db            *sql.DB
	complaintRepo *repository.ComplaintRepository
	committeeRepo *repository.CommitteeRepository
	userRepo      *repository.UserRepository
	notifier      *Notifier
	cfg           *config.WorkflowConfig
}

// NewCommitteeService creates a new committee formation service
func NewCommitteeService(
	db *sql.DB,
	complaintRepo *repository.ComplaintRepository,
	committeeRepo *repository.CommitteeRepository,
	userRepo *repository.UserRepository,
	notifier *Notifier,
	cfg *config.WorkflowConfig,
) *CommitteeService {
	return &CommitteeService{
		db:            db,
		complaintRepo: complaintRepo,
		committeeRepo: committeeRepo,
		userRepo:      userRepo,
		notifier:      notifier,
		cfg:           cfg,
	}
}

// FormCommittee creates the committee for a complaint and returns its id.
//
// Member ids are validated against the server-computed candidate set
// (active users holding an eligible role, the forming handler excluded);
// client-supplied ids are never trusted directly.
func (s *CommitteeService) FormCommittee(actor Actor, complaintID uint, memberIDs []uint) (uint, error) {
	members := dedupe(memberIDs)
	if len(members) < s.cfg.CommitteeMinMembers {
		return 0, fmt.Errorf("%w: at least %d committee member(s) required", ErrValidation, s.cfg.CommitteeMinMembers)
	}

	candidates, err := s.userRepo.EligibleCommitteeCandidates(actor.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to compute candidate set: %w", err)
	}
	eligible := make(map[uint]bool, len(candidates))
	for _, candidate := range candidates {
		eligible[candidate.ID] = true
	}
	for _, id := range members {
		if !eligible[id] {
			return 0, fmt.Errorf("%w: user %d is not an eligible committee member", ErrValidation, id)
		}
	}

	var committeeID uint
	err = database.WithinTx(s.db, func(tx *sql.Tx) error {
		complaint, err := s.complaintRepo.GetForUpdate(tx, complaintID)
		if err != nil {
			return err
		}
		if complaint == nil {
			return fmt.Errorf("%w: complaint %d", ErrNotFound, complaintID)
		}
		if complaint.HandlerID != actor.UserID {
			return fmt.Errorf("%w: complaint %d is not assigned to you", ErrForbidden, complaintID)
		}
		if !complaint.NeedsCommittee {
			return fmt.Errorf("%w: complaint %d does not require a committee", ErrPreconditionFailed, complaintID)
		}
		if complaint.CommitteeID != nil {
			return fmt.Errorf("%w: complaint %d already has a committee", ErrAlreadyAssigned, complaintID)
		}

		committee := &models.Committee{
			HandlerID:   actor.UserID,
			ComplaintID: complaintID,
		}
		if err := s.committeeRepo.Create(tx, committee); err != nil {
			return err
		}

		handlerMember := &models.CommitteeMember{
			CommitteeID: committee.ID,
			UserID:      actor.UserID,
			IsHandler:   true,
		}
		if err := s.committeeRepo.AddMember(tx, handlerMember); err != nil {
			return err
		}

		for _, memberID := range members {
			member := &models.CommitteeMember{
				CommitteeID: committee.ID,
				UserID:      memberID,
			}
			if err := s.committeeRepo.AddMember(tx, member); err != nil {
				return err
			}
		}

		if err := s.complaintRepo.SetCommitteeID(tx, complaintID, committee.ID); err != nil {
			return err
		}

		summary, err := s.summaryMessage(complaint)
		if err != nil {
			return err
		}
		message := &models.CommitteeMessage{
			CommitteeID: committee.ID,
			Body:        summary,
		}
		if err := s.committeeRepo.CreateMessage(tx, message); err != nil {
			return err
		}

		// Notifications are part of the atomic contract here.
		invite := fmt.Sprintf("You have been appointed to the review committee for complaint #%d (%s).",
			complaint.ID, complaint.Title)
		for _, memberID := range members {
			if err := s.notifier.SendTx(tx, memberID, &complaint.ID, invite); err != nil {
				return err
			}
		}
		submitterNote := fmt.Sprintf("A review committee has been formed for your complaint #%d.", complaint.ID)
		if err := s.notifier.SendTx(tx, complaint.SubmitterID, &complaint.ID, submitterNote); err != nil {
			return err
		}

		committeeID = committee.ID
		return nil
	})
	if err != nil {
		if !isWorkflowError(err) {
			slog.Error("Committee formation failed", "complaint_id", complaintID, "error", err)
		}
		return 0, err
	}

	slog.Info("Committee formed", "complaint_id", complaintID, "committee_id", committeeID, "members", len(members))
	return committeeID, nil
}

// summaryMessage renders the system message seeded into a new committee's
// channel. The submitter's identity and email appear only for standard
// visibility complaints.
func (s *CommitteeService) summaryMessage(complaint *models.Complaint) (string, error) {
	submitterLine := "Anonymous"
	if complaint.Visibility == models.VisibilityStandard {
		submitter, err := s.userRepo.GetByID(complaint.SubmitterID)
		if err != nil {
			return "", err
		}
		if submitter != nil {
			submitterLine = fmt.Sprintf("%s (%s)", submitter.FullName(), submitter.Email)
		}
	}

	category := "uncategorized"
	if complaint.Category != nil {
		category = *complaint.Category
	}

	return fmt.Sprintf(
		"Committee convened for complaint #%d: %s\nCategory: %s\nSubmitted by: %s\n\n%s",
		complaint.ID, complaint.Title, category, submitterLine, complaint.Description,
	), nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// isWorkflowError reports whether err is one of the guard sentinels, as
// opposed to a persistence failure.
func isWorkflowError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrPreconditionFailed) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrAlreadyAssigned)
}
