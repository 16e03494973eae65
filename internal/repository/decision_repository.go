package repository

import (
	"database/sql"
	"fmt"

	"univoice/internal/models"
)

type DecisionRepository struct {
	db *sql.DB
}

func NewDecisionRepository(db *sql.DB) *DecisionRepository {
	return &DecisionRepository{db: db}
}

// GetByID retrieves a decision by ID
func (r *DecisionRepository) GetByID(id uint) (*models.Decision, error) {
	var d models.Decision
	query := `
		SELECT id, complaint_id, escalation_id, sender_id, receiver_id, body, status, created_at
		FROM decisions
		WHERE id = $1
	`
	err := r.db.QueryRow(query, id).Scan(
		&d.ID,
		&d.ComplaintID,
		&d.EscalationID,
		&d.SenderID,
		&d.ReceiverID,
		&d.Body,
		&d.Status,
		&d.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get decision: %w", err)
	}
	return &d, nil
}

// Create inserts a decision row inside tx
func (r *DecisionRepository) Create(tx *sql.Tx, decision *models.Decision) error {
	query := `
		INSERT INTO decisions (complaint_id, escalation_id, sender_id, receiver_id, body, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := tx.QueryRow(query,
		decision.ComplaintID,
		decision.EscalationID,
		decision.SenderID,
		decision.ReceiverID,
		decision.Body,
		decision.Status,
	).Scan(&decision.ID, &decision.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create decision: %w", err)
	}
	return nil
}

// HasFinalDecision reports, inside tx, whether a final decision exists for
// the complaint
func (r *DecisionRepository) HasFinalDecision(tx *sql.Tx, complaintID uint) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM decisions WHERE complaint_id = $1 AND status = $2`
	if err := tx.QueryRow(query, complaintID, models.DecisionFinal).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count final decisions: %w", err)
	}
	return count > 0, nil
}

// ListByReceiver retrieves decisions addressed to a user, newest first
func (r *DecisionRepository) ListByReceiver(userID uint) ([]models.Decision, error) {
	decisions := []models.Decision{}
	query := `
		SELECT id, complaint_id, escalation_id, sender_id, receiver_id, body, status, created_at
		FROM decisions
		WHERE receiver_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d models.Decision
		err := rows.Scan(
			&d.ID,
			&d.ComplaintID,
			&d.EscalationID,
			&d.SenderID,
			&d.ReceiverID,
			&d.Body,
			&d.Status,
			&d.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}
