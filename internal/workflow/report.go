package workflow

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"univoice/internal/models"
	"univoice/internal/repository"
)

// Directory resolves role-based singleton lookups. The president is looked
// up by role at report time; absence is a handled case, not an error.
type Directory interface {
	FindFirstByRole(roleName string) (*models.User, error)
}

// ReportService produces stereotyped oversight reports addressed to the
// president.
type ReportService struct {
	reportRepo *repository.ReportRepository
	directory  Directory
}

// NewReportService creates a new report service
func NewReportService(reportRepo *repository.ReportRepository, directory Directory) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		directory:  directory,
	}
}

// President returns the current president, or nil when the role is unheld.
func (s *ReportService) President() (*models.User, error) {
	return s.directory.FindFirstByRole(models.RolePresident)
}

// FileTx renders and persists a report inside tx, addressed to the given
// president. Returns the stored report.
func (s *ReportService) FileTx(tx *sql.Tx, president *models.User, complaint *models.Complaint, handler *models.User, reportType, context string) (*models.StereotypedReport, error) {
	report := &models.StereotypedReport{
		ComplaintID: complaint.ID,
		HandlerID:   handler.ID,
		RecipientID: president.ID,
		ReportType:  reportType,
		Content:     RenderReport(complaint, handler, reportType, context, time.Now()),
	}
	if err := s.reportRepo.CreateTx(tx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// File renders and persists a report outside a transaction, skipping
// silently (logged) when no president exists.
func (s *ReportService) File(complaint *models.Complaint, handler *models.User, reportType, context string) (*models.StereotypedReport, error) {
	president, err := s.President()
	if err != nil {
		return nil, err
	}
	if president == nil {
		slog.Info("No president on record, skipping oversight report", "complaint_id", complaint.ID)
		return nil, nil
	}

	report := &models.StereotypedReport{
		ComplaintID: complaint.ID,
		HandlerID:   handler.ID,
		RecipientID: president.ID,
		ReportType:  reportType,
		Content:     RenderReport(complaint, handler, reportType, context, time.Now()),
	}
	if err := s.reportRepo.Create(report); err != nil {
		return nil, err
	}
	return report, nil
}

// RenderReport produces the fixed-format textual body of a stereotyped
// report from a complaint and handler snapshot. Pure derivation; safe to
// call without touching storage.
func RenderReport(complaint *models.Complaint, handler *models.User, reportType, context string, now time.Time) string {
	category := "uncategorized"
	if complaint.Category != nil {
		category = *complaint.Category
	}

	var b strings.Builder
	b.WriteString("COMPLAINT OVERSIGHT REPORT\n")
	fmt.Fprintf(&b, "Generated: %s\n", now.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Report type: %s\n", reportType)
	fmt.Fprintf(&b, "Complaint #%d: %s\n", complaint.ID, complaint.Title)
	fmt.Fprintf(&b, "Category: %s\n", category)
	fmt.Fprintf(&b, "Status: %s\n", complaint.Status)
	fmt.Fprintf(&b, "Handled by: %s\n", handler.FullName())

	switch reportType {
	case models.ReportTypeResolved:
		b.WriteString("The complaint has been resolved by the assigned handler.\n")
	case models.ReportTypeDecisionReceived:
		b.WriteString("The complaint has been resolved following a final decision from higher authority.\n")
	case models.ReportTypeHandlerResponse:
		b.WriteString("The assigned handler has responded to a decision in the escalation chain.\n")
	}

	if context != "" {
		fmt.Fprintf(&b, "Details: %s\n", context)
	}
	return b.String()
}
