package repository

import (
	"database/sql"
	"fmt"

	"univoice/internal/models"
)

type EscalationRepository struct {
	db *sql.DB
}

func NewEscalationRepository(db *sql.DB) *EscalationRepository {
	return &EscalationRepository{db: db}
}

func scanEscalation(row *sql.Row) (*models.Escalation, error) {
	var e models.Escalation
	err := row.Scan(
		&e.ID,
		&e.ComplaintID,
		&e.EscalatedBy,
		&e.EscalatedTo,
		&e.Status,
		&e.ResolutionDetails,
		&e.OriginalHandlerID,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan escalation: %w", err)
	}
	return &e, nil
}

// GetByComplaintID retrieves the escalation record for a complaint
func (r *EscalationRepository) GetByComplaintID(complaintID uint) (*models.Escalation, error) {
	query := `
		SELECT id, complaint_id, escalated_by, escalated_to, status,
			resolution_details, original_handler_id, created_at, updated_at
		FROM escalations
		WHERE complaint_id = $1
	`
	return scanEscalation(r.db.QueryRow(query, complaintID))
}

// GetByComplaintIDTx retrieves the escalation record inside tx. The caller
// already holds the complaint row lock, which serializes escalation writes
// for that complaint.
func (r *EscalationRepository) GetByComplaintIDTx(tx *sql.Tx, complaintID uint) (*models.Escalation, error) {
	query := `
		SELECT id, complaint_id, escalated_by, escalated_to, status,
			resolution_details, original_handler_id, created_at, updated_at
		FROM escalations
		WHERE complaint_id = $1
	`
	return scanEscalation(tx.QueryRow(query, complaintID))
}

// Create inserts an escalation row inside tx
func (r *EscalationRepository) Create(tx *sql.Tx, escalation *models.Escalation) error {
	query := `
		INSERT INTO escalations (complaint_id, escalated_by, escalated_to, status,
			resolution_details, original_handler_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := tx.QueryRow(query,
		escalation.ComplaintID,
		escalation.EscalatedBy,
		escalation.EscalatedTo,
		escalation.Status,
		escalation.ResolutionDetails,
		escalation.OriginalHandlerID,
	).Scan(&escalation.ID, &escalation.CreatedAt, &escalation.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create escalation: %w", err)
	}
	return nil
}

// MarkResolved updates an existing escalation to resolved inside tx
func (r *EscalationRepository) MarkResolved(tx *sql.Tx, id uint, details string) error {
	query := `
		UPDATE escalations
		SET status = $1, resolution_details = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`
	if _, err := tx.Exec(query, models.EscalationResolved, details, id); err != nil {
		return fmt.Errorf("failed to resolve escalation: %w", err)
	}
	return nil
}
