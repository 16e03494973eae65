package workflow

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"univoice/internal/config"
	"univoice/internal/database"
	"univoice/internal/models"
	"univoice/internal/repository"
)

// Service owns the complaint state machine. Every operation opens one
// transaction, reads the complaint with an exclusive row lock, evaluates its
// guards against the locked snapshot and either commits all effects or rolls
// back all of them.
type Service struct {
	db             *sql.DB
	complaintRepo  *repository.ComplaintRepository
	decisionRepo   *repository.DecisionRepository
	escalationRepo *repository.EscalationRepository
	userRepo       *repository.UserRepository
	meetingRepo    *repository.MeetingRepository
	auditRepo      *repository.AuditRepository
	notifier       *Notifier
	reports        *ReportService
	cfg            *config.WorkflowConfig
}

// NewService creates a new workflow service
func NewService(
	db *sql.DB,
	complaintRepo *repository.ComplaintRepository,
	decisionRepo *repository.DecisionRepository,
	escalationRepo *repository.EscalationRepository,
	userRepo *repository.UserRepository,
	meetingRepo *repository.MeetingRepository,
	auditRepo *repository.AuditRepository,
	notifier *Notifier,
	reports *ReportService,
	cfg *config.WorkflowConfig,
) *Service {
	return &Service{
		db:             db,
		complaintRepo:  complaintRepo,
		decisionRepo:   decisionRepo,
		escalationRepo: escalationRepo,
		userRepo:       userRepo,
		meetingRepo:    meetingRepo,
		auditRepo:      auditRepo,
		notifier:       notifier,
		reports:        reports,
		cfg:            cfg,
	}
}

// Categorize sets the complaint's category while it is still pending. The
// operation is repeatable; re-categorization overwrites, and the submitter
// is notified only when the value actually changed.
func (s *Service) Categorize(actor Actor, complaintID uint, category string) error {
	if !IsValidCategory(category) {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}

	var (
		submitterID uint
		oldCategory string
		changed     bool
	)
	err := database.WithinTx(s.db, func(tx *sql.Tx) error {
		complaint, err := s.lockComplaint(tx, complaintID, actor)
		if err != nil {
			return err
		}
		if complaint.Status != models.StatusPending {
			return fmt.Errorf("%w: complaint %d is no longer pending", ErrPreconditionFailed, complaintID)
		}

		oldCategory = "none"
		if complaint.Category != nil {
			oldCategory = *complaint.Category
		}
		changed = complaint.Category == nil || *complaint.Category != category
		submitterID = complaint.SubmitterID

		if !changed {
			return nil
		}
		return s.complaintRepo.SetCategory(tx, complaintID, category)
	})
	if err != nil {
		return err
	}

	if changed {
		s.notifier.Send(submitterID, &complaintID,
			fmt.Sprintf("Your complaint #%d was categorized as %s (was: %s).", complaintID, category, oldCategory))
		s.audit(actor, "complaint.categorize", complaintID, fmt.Sprintf("%s -> %s", oldCategory, category))
	}
	return nil
}

// Validate advances a pending, categorized complaint to validated.
func (s *Service) Validate(actor Actor, complaintID uint) error {
	var submitterID uint
	err := database.WithinTx(s.db, func(tx *sql.Tx) error {
		complaint, err := s.lockComplaint(tx, complaintID, actor)
		if err != nil {
			return err
		}
		if complaint.Status != models.StatusPending {
			return fmt.Errorf("%w: complaint %d is not pending", ErrPreconditionFailed, complaintID)
		}
		if complaint.Category == nil || *complaint.Category == "" {
			return fmt.Errorf("%w: complaint %d has no category yet", ErrPreconditionFailed, complaintID)
		}

		submitterID = complaint.SubmitterID
		return s.complaintRepo.SetStatus(tx, complaintID, models.StatusValidated)
	})
	if err != nil {
		return err
	}

	s.notifier.Send(submitterID, &complaintID,
		fmt.Sprintf("Your complaint #%d has been validated and will be processed.", complaintID))
	s.audit(actor, "complaint.validate", complaintID, "")
	return nil
}

// AssignResolver assigns a resolver to a pending complaint. When the
// complaint requires a video chat, scheduledAt is mandatory and must lie at
// least the configured lead time in the future; one scheduled meeting with a
// generated join code is created in the same transaction.
func (s *Service) AssignResolver(actor Actor, complaintID, resolverID uint, scheduledAt *time.Time) error {
	resolver, err := s.userRepo.GetByID(resolverID)
	if err != nil {
		return err
	}
	if resolver == nil || !resolver.IsActive {
		return fmt.Errorf("%w: user %d cannot be assigned as resolver", ErrValidation, resolverID)
	}

	var (
		submitterID uint
		joinCode    string
	)
	err = database.WithinTx(s.db, func(tx *sql.Tx) error {
		complaint, err := s.lockComplaint(tx, complaintID, actor)
		if err != nil {
			return err
		}
		if complaint.Status != models.StatusPending {
			return fmt.Errorf("%w: complaint %d is not pending", ErrPreconditionFailed, complaintID)
		}
		if complaint.ResolverID != nil {
			return fmt.Errorf("%w: complaint %d already has a resolver", ErrAlreadyAssigned, complaintID)
		}
		if complaint.NeedsVideoChat {
			if scheduledAt == nil {
				return fmt.Errorf("%w: a meeting time is required for this complaint", ErrValidation)
			}
			if time.Until(*scheduledAt) < s.cfg.MeetingLeadTime {
				return fmt.Errorf("%w: the meeting must be at least %s in the future",
					ErrValidation, s.cfg.MeetingLeadTime)
			}
		}

		if err := s.complaintRepo.SetResolver(tx, complaintID, resolverID); err != nil {
			return err
		}

		if complaint.NeedsVideoChat {
			joinCode = uuid.NewString()
			meeting := &models.ScheduledMeeting{
				ComplaintID: complaintID,
				ResolverID:  resolverID,
				SubmitterID: complaint.SubmitterID,
				JoinCode:    joinCode,
				ScheduledAt: *scheduledAt,
			}
			if err := s.meetingRepo.Create(tx, meeting); err != nil {
				return err
			}
		}

		submitterID = complaint.SubmitterID
		return nil
	})
	if err != nil {
		return err
	}

	s.notifier.Send(resolverID, &complaintID,
		fmt.Sprintf("You have been assigned to resolve complaint #%d.", complaintID))
	s.notifier.Send(submitterID, &complaintID,
		fmt.Sprintf("A resolver has been assigned to your complaint #%d.", complaintID))
	s.notifier.Send(actor.UserID, &complaintID,
		fmt.Sprintf("Resolver assignment for complaint #%d is recorded.", complaintID))
	if joinCode != "" {
		slog.Info("Video chat scheduled", "complaint_id", complaintID, "join_code", joinCode)
	}
	s.audit(actor, "complaint.assign_resolver", complaintID, fmt.Sprintf("resolver %d", resolverID))
	return nil
}

// Reject moves a pending or validated complaint to rejected.
func (s *Service) Reject(actor Actor, complaintID uint, reason string) error {
	if err := s.checkFreeText(reason); err != nil {
		return err
	}

	var submitterID uint
	err := database.WithinTx(s.db, func(tx *sql.Tx) error {
		complaint, err := s.lockComplaint(tx, complaintID, actor)
		if err != nil {
			return err
		}
		if complaint.Status != models.StatusPending && complaint.Status != models.StatusValidated {
			return fmt.Errorf("%w: complaint %d can no longer be rejected", ErrPreconditionFailed, complaintID)
		}

		submitterID = complaint.SubmitterID
		return s.complaintRepo.SetStatus(tx, complaintID, models.StatusRejected)
	})
	if err != nil {
		return err
	}

	message := fmt.Sprintf("Your complaint #%d has been rejected.", complaintID)
	if reason != "" {
		message += " Reason: " + reason
	}
	s.notifier.Send(submitterID, &complaintID, message)
	s.audit(actor, "complaint.reject", complaintID, reason)
	return nil
}

// Resolve moves a non-terminal complaint to resolved, records the resolution
// details, marks the escalation record resolved (insert-or-update under the
// complaint row lock) and files an oversight report. The report type is
// decision_received when a final decision exists for the complaint,
// resolved otherwise.
func (s *Service) Resolve(actor Actor, complaintID uint, details string) error {
	if strings.TrimSpace(details) == "" {
		return fmt.Errorf("%w: resolution details are required", ErrValidation)
	}
	if err := s.checkFreeText(details); err != nil {
		return err
	}

	president, err := s.reports.President()
	if err != nil {
		return err
	}

	var (
		submitterID uint
		report      *models.StereotypedReport
	)
	err = database.WithinTx(s.db, func(tx *sql.Tx) error {
		complaint, err := s.lockComplaint(tx, complaintID, actor)
		if err != nil {
			return err
		}
		if complaint.IsTerminal() {
			return fmt.Errorf("%w: complaint %d is already %s", ErrPreconditionFailed, complaintID, complaint.Status)
		}

		if err := s.complaintRepo.MarkResolved(tx, complaintID, details); err != nil {
			return err
		}

		if err := s.resolveEscalation(tx, complaint, actor, details); err != nil {
			return err
		}

		if president != nil {
			hasFinal, err := s.decisionRepo.HasFinalDecision(tx, complaintID)
			if err != nil {
				return err
			}
			reportType := models.ReportTypeResolved
			if hasFinal {
				reportType = models.ReportTypeDecisionReceived
			}

			handler, err := s.userRepo.GetByID(complaint.HandlerID)
			if err != nil {
				return err
			}
			if handler == nil {
				return fmt.Errorf("%w: handler %d", ErrNotFound, complaint.HandlerID)
			}

			// Snapshot reflects the state being committed.
			complaint.Status = models.StatusResolved
			report, err = s.reports.FileTx(tx, president, complaint, handler, reportType, details)
			if err != nil {
				return err
			}
		} else {
			slog.Info("No president on record, skipping oversight report", "complaint_id", complaintID)
		}

		submitterID = complaint.SubmitterID
		return nil
	})
	if err != nil {
		return err
	}

	s.notifier.Send(submitterID, &complaintID,
		fmt.Sprintf("Your complaint #%d has been resolved: %s", complaintID, details))
	if report != nil {
		s.notifier.Send(report.RecipientID, &complaintID,
			fmt.Sprintf("Oversight report filed for complaint #%d (%s).", complaintID, report.ReportType))
	}
	s.audit(actor, "complaint.resolve", complaintID, details)
	return nil
}

// ReplyToDecision answers a decision addressed to the caller. The reply, the
// status change, the notifications and (when a president exists) the
// oversight report share one transaction; any failure rolls back every
// insert and update.
func (s *Service) ReplyToDecision(actor Actor, decisionID uint, body string) (*models.Decision, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: a response text is required", ErrValidation)
	}
	if err := s.checkFreeText(body); err != nil {
		return nil, err
	}

	original, err := s.decisionRepo.GetByID(decisionID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, fmt.Errorf("%w: decision %d", ErrNotFound, decisionID)
	}
	if original.ReceiverID != actor.UserID {
		return nil, fmt.Errorf("%w: decision %d is not addressed to you", ErrForbidden, decisionID)
	}

	president, err := s.reports.President()
	if err != nil {
		return nil, err
	}

	reply := &models.Decision{
		ComplaintID:  original.ComplaintID,
		EscalationID: original.EscalationID,
		SenderID:     actor.UserID,
		ReceiverID:   original.SenderID,
		Body:         body,
		Status:       models.DecisionPending,
	}
	err = database.WithinTx(s.db, func(tx *sql.Tx) error {
		complaint, err := s.complaintRepo.GetForUpdate(tx, original.ComplaintID)
		if err != nil {
			return err
		}
		if complaint == nil {
			return fmt.Errorf("%w: complaint %d", ErrNotFound, original.ComplaintID)
		}

		if err := s.decisionRepo.Create(tx, reply); err != nil {
			return err
		}

		// The chain drives status to in_progress, never backward and
		// never out of a terminal status.
		if CanAdvance(complaint.Status, models.StatusInProgress) {
			if err := s.complaintRepo.SetStatus(tx, complaint.ID, models.StatusInProgress); err != nil {
				return err
			}
		}

		response := fmt.Sprintf("Your decision on complaint #%d has received a response.", complaint.ID)
		if err := s.notifier.SendTx(tx, original.SenderID, &complaint.ID, response); err != nil {
			return err
		}
		progress := fmt.Sprintf("Your complaint #%d is being worked on.", complaint.ID)
		if err := s.notifier.SendTx(tx, complaint.SubmitterID, &complaint.ID, progress); err != nil {
			return err
		}

		if president != nil {
			handler, err := s.userRepo.GetByID(complaint.HandlerID)
			if err != nil {
				return err
			}
			if handler == nil {
				return fmt.Errorf("%w: handler %d", ErrNotFound, complaint.HandlerID)
			}
			report, err := s.reports.FileTx(tx, president, complaint, handler, models.ReportTypeHandlerResponse, body)
			if err != nil {
				return err
			}
			notice := fmt.Sprintf("Oversight report filed for complaint #%d (%s).", complaint.ID, report.ReportType)
			if err := s.notifier.SendTx(tx, president.ID, &complaint.ID, notice); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit(actor, "decision.reply", original.ComplaintID, fmt.Sprintf("decision %d", decisionID))
	return reply, nil
}

// lockComplaint reads the complaint under an exclusive row lock and checks
// the caller is its assigned handler.
func (s *Service) lockComplaint(tx *sql.Tx, complaintID uint, actor Actor) (*models.Complaint, error) {
	complaint, err := s.complaintRepo.GetForUpdate(tx, complaintID)
	if err != nil {
		return nil, err
	}
	if complaint == nil {
		return nil, fmt.Errorf("%w: complaint %d", ErrNotFound, complaintID)
	}
	if complaint.HandlerID != actor.UserID {
		return nil, fmt.Errorf("%w: complaint %d is not assigned to you", ErrForbidden, complaintID)
	}
	return complaint, nil
}

// resolveEscalation marks the complaint's escalation record resolved,
// creating it when absent. The complaint row lock held by the caller
// serializes this read-modify-write.
func (s *Service) resolveEscalation(tx *sql.Tx, complaint *models.Complaint, actor Actor, details string) error {
	escalation, err := s.escalationRepo.GetByComplaintIDTx(tx, complaint.ID)
	if err != nil {
		return err
	}
	if escalation != nil {
		return s.escalationRepo.MarkResolved(tx, escalation.ID, details)
	}

	record := &models.Escalation{
		ComplaintID:       complaint.ID,
		EscalatedBy:       actor.UserID,
		EscalatedTo:       actor.UserID,
		Status:            models.EscalationResolved,
		ResolutionDetails: &details,
		OriginalHandlerID: complaint.HandlerID,
	}
	return s.escalationRepo.Create(tx, record)
}

// checkFreeText bounds caller-supplied free text.
func (s *Service) checkFreeText(text string) error {
	if len(text) > s.cfg.MaxResponseLength {
		return fmt.Errorf("%w: text exceeds %d characters", ErrValidation, s.cfg.MaxResponseLength)
	}
	return nil
}

// audit appends an audit row, ignoring errors; a lost audit entry must not
// fail a transition that already committed.
func (s *Service) audit(actor Actor, action string, complaintID uint, details string) {
	userID := actor.UserID
	entry := &models.AuditLog{
		UserID:   &userID,
		Action:   action,
		Resource: fmt.Sprintf("complaint:%d", complaintID),
		Details:  details,
	}
	if err := s.auditRepo.Create(entry); err != nil {
		slog.Warn("Failed to record audit entry", "action", action, "complaint_id", complaintID, "error", err)
	}
}
