package repository

import (
	"database/sql"
	"fmt"

	"univoice/internal/models"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts a stereotyped report outside any transaction
func (r *ReportRepository) Create(report *models.StereotypedReport) error {
	query := `
		INSERT INTO stereotyped_reports (complaint_id, handler_id, recipient_id, report_type, report_content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(query,
		report.ComplaintID,
		report.HandlerID,
		report.RecipientID,
		report.ReportType,
		report.Content,
	).Scan(&report.ID, &report.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// CreateTx inserts a stereotyped report inside tx
func (r *ReportRepository) CreateTx(tx *sql.Tx, report *models.StereotypedReport) error {
	query := `
		INSERT INTO stereotyped_reports (complaint_id, handler_id, recipient_id, report_type, report_content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := tx.QueryRow(query,
		report.ComplaintID,
		report.HandlerID,
		report.RecipientID,
		report.ReportType,
		report.Content,
	).Scan(&report.ID, &report.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// ListByRecipient retrieves reports addressed to a user, newest first
func (r *ReportRepository) ListByRecipient(userID uint) ([]models.StereotypedReport, error) {
	reports := []models.StereotypedReport{}
	query := `
		SELECT id, complaint_id, handler_id, recipient_id, report_type, report_content, created_at
		FROM stereotyped_reports
		WHERE recipient_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var report models.StereotypedReport
		err := rows.Scan(
			&report.ID,
			&report.ComplaintID,
			&report.HandlerID,
			&report.RecipientID,
			&report.ReportType,
			&report.Content,
			&report.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// ListByComplaint retrieves reports generated for a complaint
func (r *ReportRepository) ListByComplaint(complaintID uint) ([]models.StereotypedReport, error) {
	reports := []models.StereotypedReport{}
	query := `
		SELECT id, complaint_id, handler_id, recipient_id, report_type, report_content, created_at
		FROM stereotyped_reports
		WHERE complaint_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(query, complaintID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var report models.StereotypedReport
		err := rows.Scan(
			&report.ID,
			&report.ComplaintID,
			&report.HandlerID,
			&report.RecipientID,
			&report.ReportType,
			&report.Content,
			&report.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}
