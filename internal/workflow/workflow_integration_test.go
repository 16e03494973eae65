package workflow

import (
	"errors"
	"sync"
	"testing"
	"time"

	"univoice/internal/config"
	"univoice/internal/models"
	"univoice/internal/repository"
	"univoice/internal/testutil"
)

type testEnv struct {
	fixtures         *testutil.Fixtures
	complaintRepo    *repository.ComplaintRepository
	committeeRepo    *repository.CommitteeRepository
	decisionRepo     *repository.DecisionRepository
	escalationRepo   *repository.EscalationRepository
	notificationRepo *repository.NotificationRepository
	reportRepo       *repository.ReportRepository
	meetingRepo      *repository.MeetingRepository
	workflowSvc      *Service
	committeeSvc     *CommitteeService
}

func setupEnv(t *testing.T, tc *testutil.TestContainers) *testEnv {
	t.Helper()

	fixtures := testutil.SetupFixtures(t, tc.DB)

	userRepo := repository.NewUserRepository(tc.DB)
	complaintRepo := repository.NewComplaintRepository(tc.DB)
	committeeRepo := repository.NewCommitteeRepository(tc.DB)
	decisionRepo := repository.NewDecisionRepository(tc.DB)
	escalationRepo := repository.NewEscalationRepository(tc.DB)
	notificationRepo := repository.NewNotificationRepository(tc.DB)
	reportRepo := repository.NewReportRepository(tc.DB)
	meetingRepo := repository.NewMeetingRepository(tc.DB)
	auditRepo := repository.NewAuditRepository(tc.DB)

	cfg := &config.WorkflowConfig{
		CommitteeMinMembers: 1,
		MeetingLeadTime:     5 * time.Minute,
		MaxResponseLength:   1000,
	}

	notifier := NewNotifier(notificationRepo, userRepo, nil)
	reportSvc := NewReportService(reportRepo, userRepo)

	return &testEnv{
		fixtures:         fixtures,
		complaintRepo:    complaintRepo,
		committeeRepo:    committeeRepo,
		decisionRepo:     decisionRepo,
		escalationRepo:   escalationRepo,
		notificationRepo: notificationRepo,
		reportRepo:       reportRepo,
		meetingRepo:      meetingRepo,
		workflowSvc: NewService(tc.DB, complaintRepo, decisionRepo, escalationRepo,
			userRepo, meetingRepo, auditRepo, notifier, reportSvc, cfg),
		committeeSvc: NewCommitteeService(tc.DB, complaintRepo, committeeRepo,
			userRepo, notifier, cfg),
	}
}

func (e *testEnv) handlerActor() Actor {
	return Actor{UserID: e.fixtures.Handler.ID, Roles: []string{"staff"}}
}

func (e *testEnv) notificationCount(t *testing.T, complaintID uint) int {
	t.Helper()
	count, err := e.notificationRepo.CountForComplaint(complaintID)
	if err != nil {
		t.Fatalf("Failed to count notifications: %v", err)
	}
	return count
}

func TestWorkflowEngine(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tc := testutil.SetupTestContainers(t)
	defer tc.Cleanup(t)

	env := setupEnv(t, tc)
	f := env.fixtures
	handler := env.handlerActor()

	t.Run("full lifecycle with committee", func(t *testing.T) {
		complaint := f.CreateComplaint(t, f.Student.ID, f.Handler.ID, models.VisibilityStandard, true, false)

		// Categorize while pending: category set, status unchanged, one
		// notification to the submitter.
		if err := env.workflowSvc.Categorize(handler, complaint.ID, models.CategoryAcademic); err != nil {
			t.Fatalf("Categorize failed: %v", err)
		}
		got, err := env.complaintRepo.GetByID(complaint.ID)
		if err != nil || got == nil {
			t.Fatalf("Failed to reload complaint: %v", err)
		}
		if got.Status != models.StatusPending {
			t.Errorf("Expected status pending, got %s", got.Status)
		}
		if got.Category == nil || *got.Category != models.CategoryAcademic {
			t.Errorf("Expected category academic, got %v", got.Category)
		}
		if n := env.notificationCount(t, complaint.ID); n != 1 {
			t.Errorf("Expected 1 notification after categorize, got %d", n)
		}

		// Re-categorizing with the same value is idempotent: no duplicate
		// change notification.
		if err := env.workflowSvc.Categorize(handler, complaint.ID, models.CategoryAcademic); err != nil {
			t.Fatalf("Repeat categorize failed: %v", err)
		}
		if n := env.notificationCount(t, complaint.ID); n != 1 {
			t.Errorf("Expected still 1 notification after identical categorize, got %d", n)
		}

		// Validate advances to validated with one more notification.
		if err := env.workflowSvc.Validate(handler, complaint.ID); err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		got, _ = env.complaintRepo.GetByID(complaint.ID)
		if got.Status != models.StatusValidated {
			t.Errorf("Expected status validated, got %s", got.Status)
		}
		if n := env.notificationCount(t, complaint.ID); n != 2 {
			t.Errorf("Expected 2 notifications after validate, got %d", n)
		}

		// Committee formation: committee row, back-link, member invites plus
		// submitter note, one seeded system message.
		committeeID, err := env.committeeSvc.FormCommittee(handler, complaint.ID,
			[]uint{f.Dean.ID, f.Registrar.ID})
		if err != nil {
			t.Fatalf("FormCommittee failed: %v", err)
		}

		got, _ = env.complaintRepo.GetByID(complaint.ID)
		if got.CommitteeID == nil || *got.CommitteeID != committeeID {
			t.Errorf("Expected committee_id %d, got %v", committeeID, got.CommitteeID)
		}

		members, err := env.committeeRepo.GetMembers(committeeID)
		if err != nil {
			t.Fatalf("Failed to load members: %v", err)
		}
		if len(members) != 3 {
			t.Errorf("Expected 3 members (handler + 2 selected), got %d", len(members))
		}
		handlerFlagged := false
		for _, m := range members {
			if m.UserID == f.Handler.ID && m.IsHandler {
				handlerFlagged = true
			}
		}
		if !handlerFlagged {
			t.Error("Forming handler should be a member flagged is_handler")
		}

		messages, err := env.committeeRepo.GetMessages(committeeID)
		if err != nil {
			t.Fatalf("Failed to load messages: %v", err)
		}
		if len(messages) != 1 {
			t.Errorf("Expected 1 seeded system message, got %d", len(messages))
		}

		// 2 before + 2 member invites + 1 submitter note.
		if n := env.notificationCount(t, complaint.ID); n != 5 {
			t.Errorf("Expected 5 notifications after committee formation, got %d", n)
		}

		// A second formation attempt observes the existing committee.
		_, err = env.committeeSvc.FormCommittee(handler, complaint.ID, []uint{f.Dean.ID})
		if !errors.Is(err, ErrAlreadyAssigned) {
			t.Errorf("Expected ErrAlreadyAssigned, got %v", err)
		}
		committees := 0
		if err := tc.DB.QueryRow("SELECT COUNT(*) FROM committees WHERE complaint_id = $1", complaint.ID).Scan(&committees); err != nil {
			t.Fatalf("Failed to count committees: %v", err)
		}
		if committees != 1 {
			t.Errorf("Expected exactly 1 committee, got %d", committees)
		}
	})

	t.Run("validate requires a category", func(t *testing.T) {
		complaint := f.CreateComplaint(t, f.Student.ID, f.Handler.ID, models.VisibilityStandard, false, false)

		err := env.workflowSvc.Validate(handler, complaint.ID)
		if !errors.Is(err, ErrPreconditionFailed) {
			t.Errorf("Expected ErrPreconditionFailed, got %v", err)
		}
	})

	t.Run("categorize guards", func(t *testing.T) {
		complaint := f.CreateComplaint(t, f.Student.ID, f.Handler.ID, models.VisibilityStandard, false, false)

		if err := env.workflowSvc.Categorize(handler, complaint.ID, "financial"); !errors.Is(err, ErrValidation) {
			t.Errorf("Expected ErrValidation for unknown category, got %v", err)
		}

		stranger := Actor{UserID: f.Dean.ID, Roles: []string{"dean"}}
		if err := env.workflowSvc.Categorize(stranger, complaint.ID, models.CategoryAcademic); !errors.Is(err, ErrForbidden) {
			t.Errorf("Expected ErrForbidden for non-handler, got %v", err)
		}

		if err := env.workflowSvc.Categorize(handler, 999999, models.CategoryAcademic); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound for missing complaint, got %v", err)
		}

		f.SetComplaintStatus(t, complaint.ID, models.StatusValidated)
		if err := env.workflowSvc.Categorize(handler, complaint.ID, models.CategoryAcademic); !errors.Is(err, ErrPreconditionFailed) {
			t.Errorf("Expected ErrPreconditionFailed after leaving pending, got %v", err)
		}
	})

	t.Run("ineligible member rolls back everything", func(t *testing.T) {
		complaint := f.CreateComplaint(t, f.Student.ID, f.Handler.ID, models.VisibilityAnonymous, true, false)

		_, err := env.committeeSvc.FormCommittee(handler, complaint.ID,
			[]uint{f.Dean.ID, f.Student.ID})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("Expected ErrValidation, got %v", err)
		}

		got, _ := env.complaintRepo.GetByID(complaint.ID)
		if got.CommitteeID != nil {
			t.Error("Complaint should have no committee after rejected formation")
		}
		committees := 0
		if err := tc.DB.QueryRow("SELECT COUNT(*) FROM committees WHERE complaint_id = $1", complaint.ID).Scan(&committees); err != nil {
			t.Fatalf("Failed to count committees: %v", err)
		}
		if committees != 0 {
			t.Errorf("Expected 0 committees, got %d", committees)
		}
		if n := env.notificationCount(t, complaint.ID); n != 0 {
			t.Errorf("Expected 0 notifications after rollback, got %d", n)
		}
	})

	t.Run("concurrent formation creates exactly one committee", func(t *testing.T) {
		complaint := f.CreateComplaint(t, f.Student.ID, f.Handler.ID, models.VisibilityStandard, true, false)

		// Both callers race for the row lock; the loser must observe the
		// winner's committee.
		results := make([]error, 2)
		var wg sync.WaitGroup
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, results[i] = env.committeeSvc.FormCommittee(handler, complaint.ID,
					[]uint{f.Dean.ID, f.Registrar.ID})
			}(i)
		}
		wg.Wait()

		succeeded, alreadyAssigned := 0, 0
		for _, err := range results {
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrAlreadyAssigned):
				alreadyAssigned++
			default:
				t.Fatalf("Unexpected error from concurrent formation: %v", err)
			}
		}
		if succeeded != 1 || alreadyAssigned != 1 {
			t.Errorf("Expected 1 success and 1 ErrAlreadyAssigned, got %d and %d",
				succeeded, alreadyAssigned)
		}

		committees := 0
		if err := tc.DB.QueryRow("SELECT COUNT(*) FROM committees WHERE complaint_id = $1", complaint.ID).Scan(&committees); err != nil {
			t.Fatalf("Failed to count committees: %v", err)
		}
		if committees != 1 {
			t.Errorf("Expected exactly 1 committee, got %d", committees)
		}

		got, _ := env.complaintRepo.GetByID(complaint.ID)
		if got.CommitteeID == nil {
			t.Error("Complaint should be linked to the surviving committee")
		}
	})

	t.Run("committee requires the needs_committee flag", func(t *testing.T) {
		complaint := f.CreateComplaint(t, f.Student.ID, f.Handler.ID, models.VisibilityStandard, false, false)

		_, err := env.committeeSvc.FormCommittee(handler, complaint.ID, []uint{f.Dean.ID})
		if !errors.Is(err, ErrPreconditionFailed) {
			t.Errorf("Expected ErrPreconditionFailed, got %v", err)
		}
	})

	t.Run("reject is blocked on terminal complaints", func(t *testing.T) {
		complaint := f.CreateComplaint(t, f.Student.ID, f.Handler.ID, models.VisibilityStandard, false, false)
		f.SetComplaintStatus(t, complaint.ID, models.StatusRejected)

		err := env.workflowSvc.Reject(handler, complaint.ID, "duplicate")
		if !errors.Is(err, ErrPreconditionFailed) {
			t.Errorf("Expected ErrPreconditionFailed, got %v", err)
		}
	})

	t.Run("reject from validated notifies the submitter", func(t *testing.T) {
		complaint := f.CreateComplaint(t, f.Student.ID, f.Handler.ID, models.VisibilityStandard, false, false)
		f.SetComplaintCategory(t, complaint.ID, models.CategoryAdministrative)
		f.SetComplaintStatus(t, complaint.ID, models.StatusValidated)

		if err := env.workflowSvc.Reject(handler, complaint.ID, "out of scope"); err != nil {
			t.Fatalf("Reject failed: %v", err)
		}

		got, _ := env.complaintRepo.GetByID(complaint.ID)
		if got.Status != models.StatusRejected {
			t.Errorf("Expected status rejected, got %s", got.Status)
		}
		if n := env.notificationCount(t, complaint.ID); n != 1 {
			t.Errorf("Expected 1 notification, got %d", n)
		}
	})

	t.Run("resolve files a report and closes the escalation", func(t *testing.T) {
		complaint := f.CreateComplaint(t, f.Student.ID, f.Handler.ID, models.VisibilityStandard, false, false)
		f.SetComplaintCategory(t, complaint.ID, models.CategoryAcademic)
		f.SetComplaintStatus(t, complaint.ID, models.StatusInProgress)

		if err := env.workflowSvc.Resolve(handler, complaint.ID, "Projector replaced."); err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}

		got, _ := env.complaintRepo.GetByID(complaint.ID)
		if got.Status != models.StatusResolved {
			t.Errorf("Expected status resolved, got %s", got.Status)
		}
		if got.ResolutionDetails == nil || *got.ResolutionDetails != "Projector replaced." {
			t.Errorf("Expected resolution details, got %v", got.ResolutionDetails)
		}
		if got.ResolvedAt == nil {
			t.Error("Expected resolved_at to be set")
		}

		escalation, err := env.escalationRepo.GetByComplaintID(complaint.ID)
		if err != nil {
			t.Fatalf("Failed to load escalation: %v", err)
		}
		if escalation == nil || escalation.Status != models.EscalationResolved {
			t.Errorf("Expected resolved escalation record, got %+v", escalation)
		}

		reports, err := env.reportRepo.ListByComplaint(complaint.ID)
		if err != nil {
			t.Fatalf("Failed to load reports: %v", err)
		}
		if len(reports) != 1 {
			t.Fatalf("Expected exactly 1 report, got %d", len(reports))
		}
		if reports[0].ReportType != models.ReportTypeResolved {
			t.Errorf("Expected report type resolved, got %s", reports[0].ReportType)
		}
		if reports[0].RecipientID != f.President.ID {
			t.Errorf("Expected report addressed to president %d, got %d", f.President.ID, reports[0].RecipientID)
		}
	})

	t.Run("resolve reports decision_received when a final decision exists", func(t *testing.T) {
		complaint := f.CreateComplaint(t, f.Student.ID, f.Handler.ID, models.VisibilityStandard, false, false)
		f.SetComplaintCategory(t, complaint.ID, models.CategoryAcademic)
		f.SetComplaintStatus(t, complaint.ID, models.StatusInProgress)
		f.CreateDecision(t, complaint.ID, f.Dean.ID, f.Handler.ID, "Refund the fee.", models.DecisionFinal)

		if err := env.workflowSvc.Resolve(handler, complaint.ID, "Fee refunded."); err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}

		reports, err := env.reportRepo.ListByComplaint(complaint.ID)
		if err != nil {
			t.Fatalf("Failed to load reports: %v", err)
		}
		if len(reports) != 1 {
			t.Fatalf("Expected exactly 1 report, got %d", len(reports))
		}
		if reports[0].ReportType != models.ReportTypeDecisionReceived {
			t.Errorf("Expected report type decision_received, got %s", reports[0].ReportType)
		}
	})

	t.Run("resolve on terminal complaint mutates nothing", func(t *testing.T) {
		complaint := f.CreateComplaint(t, f.Student.ID, f.Handler.ID, models.VisibilityStandard, false, false)
		f.SetComplaintStatus(t, complaint.ID, models.StatusRejected)

		err := env.workflowSvc.Resolve(handler, complaint.ID, "Issue fixed")
		if !errors.Is(err, ErrPreconditionFailed) {
			t.Fatalf("Expected ErrPreconditionFailed, got %v", err)
		}

		reports, _ := env.reportRepo.ListByComplaint(complaint.ID)
		if len(reports) != 0 {
			t.Errorf("Expected no reports, got %d", len(reports))
		}
		got, _ := env.complaintRepo.GetByID(complaint.ID)
		if got.Status != models.StatusRejected || got.ResolutionDetails != nil {
			t.Errorf("Complaint should be untouched, got %+v", got)
		}
	})

	t.Run("reply to decision drives the chain", func(t *testing.T) {
		complaint := f.CreateComplaint(t, f.Student.ID, f.Handler.ID, models.VisibilityStandard, false, false)
		f.SetComplaintCategory(t, complaint.ID, models.CategoryAdministrative)
		f.SetComplaintStatus(t, complaint.ID, models.StatusValidated)
		decision := f.CreateDecision(t, complaint.ID, f.Dean.ID, f.Handler.ID, "Please revisit this case.", models.DecisionPending)

		// Only the receiver may reply.
		stranger := Actor{UserID: f.Registrar.ID, Roles: []string{"registrar"}}
		if _, err := env.workflowSvc.ReplyToDecision(stranger, decision.ID, "not mine"); !errors.Is(err, ErrForbidden) {
			t.Errorf("Expected ErrForbidden, got %v", err)
		}

		reply, err := env.workflowSvc.ReplyToDecision(handler, decision.ID, "We are revisiting it now.")
		if err != nil {
			t.Fatalf("ReplyToDecision failed: %v", err)
		}
		if reply.SenderID != f.Handler.ID || reply.ReceiverID != f.Dean.ID {
			t.Errorf("Reply should go back to the original sender, got %+v", reply)
		}
		if reply.Status != models.DecisionPending {
			t.Errorf("Expected pending reply, got %s", reply.Status)
		}

		got, _ := env.complaintRepo.GetByID(complaint.ID)
		if got.Status != models.StatusInProgress {
			t.Errorf("Expected status in_progress, got %s", got.Status)
		}

		reports, _ := env.reportRepo.ListByComplaint(complaint.ID)
		if len(reports) != 1 || reports[0].ReportType != models.ReportTypeHandlerResponse {
			t.Errorf("Expected 1 handler_response report, got %+v", reports)
		}

		// Original sender, submitter and president are notified atomically.
		if n := env.notificationCount(t, complaint.ID); n != 3 {
			t.Errorf("Expected 3 notifications, got %d", n)
		}

		if _, err := env.workflowSvc.ReplyToDecision(handler, 999999, "hello"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("reply on a terminal complaint keeps the status", func(t *testing.T) {
		complaint := f.CreateComplaint(t, f.Student.ID, f.Handler.ID, models.VisibilityStandard, false, false)
		f.SetComplaintStatus(t, complaint.ID, models.StatusResolved)
		decision := f.CreateDecision(t, complaint.ID, f.Dean.ID, f.Handler.ID, "Final note.", models.DecisionPending)

		if _, err := env.workflowSvc.ReplyToDecision(handler, decision.ID, "Acknowledged."); err != nil {
			t.Fatalf("ReplyToDecision failed: %v", err)
		}

		got, _ := env.complaintRepo.GetByID(complaint.ID)
		if got.Status != models.StatusResolved {
			t.Errorf("Terminal status must not move, got %s", got.Status)
		}
	})

	t.Run("assign resolver with video chat scheduling", func(t *testing.T) {
		complaint := f.CreateComplaint(t, f.Student.ID, f.Handler.ID, models.VisibilityStandard, false, true)

		// A video-chat complaint requires a scheduled time.
		err := env.workflowSvc.AssignResolver(handler, complaint.ID, f.Resolver.ID, nil)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("Expected ErrValidation without a time, got %v", err)
		}

		// The time must respect the lead time.
		tooSoon := time.Now().Add(1 * time.Minute)
		err = env.workflowSvc.AssignResolver(handler, complaint.ID, f.Resolver.ID, &tooSoon)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("Expected ErrValidation for a too-near time, got %v", err)
		}

		scheduledAt := time.Now().Add(30 * time.Minute)
		if err := env.workflowSvc.AssignResolver(handler, complaint.ID, f.Resolver.ID, &scheduledAt); err != nil {
			t.Fatalf("AssignResolver failed: %v", err)
		}

		got, _ := env.complaintRepo.GetByID(complaint.ID)
		if got.ResolverID == nil || *got.ResolverID != f.Resolver.ID {
			t.Errorf("Expected resolver %d, got %v", f.Resolver.ID, got.ResolverID)
		}

		meeting, err := env.meetingRepo.GetByComplaintID(complaint.ID)
		if err != nil {
			t.Fatalf("Failed to load meeting: %v", err)
		}
		if meeting == nil {
			t.Fatal("Expected a scheduled meeting")
		}
		if meeting.JoinCode == "" {
			t.Error("Meeting should carry a join code")
		}
		if meeting.ResolverID != f.Resolver.ID || meeting.SubmitterID != f.Student.ID {
			t.Errorf("Meeting participants wrong: %+v", meeting)
		}

		// Resolver assignment is exactly-once.
		later := time.Now().Add(1 * time.Hour)
		err = env.workflowSvc.AssignResolver(handler, complaint.ID, f.Dean.ID, &later)
		if !errors.Is(err, ErrAlreadyAssigned) {
			t.Errorf("Expected ErrAlreadyAssigned, got %v", err)
		}
	})

	t.Run("assign resolver without video chat needs no meeting", func(t *testing.T) {
		complaint := f.CreateComplaint(t, f.Student.ID, f.Handler.ID, models.VisibilityStandard, false, false)

		if err := env.workflowSvc.AssignResolver(handler, complaint.ID, f.Resolver.ID, nil); err != nil {
			t.Fatalf("AssignResolver failed: %v", err)
		}

		meeting, err := env.meetingRepo.GetByComplaintID(complaint.ID)
		if err != nil {
			t.Fatalf("Failed to query meeting: %v", err)
		}
		if meeting != nil {
			t.Errorf("Expected no meeting, got %+v", meeting)
		}

		// Resolver, submitter and handler are notified.
		if n := env.notificationCount(t, complaint.ID); n != 3 {
			t.Errorf("Expected 3 notifications, got %d", n)
		}
	})
}
