package repository

import (
	"database/sql"
	"fmt"

	"univoice/internal/models"
)

type CommitteeRepository struct {
	db *sql.DB
}

func NewCommitteeRepository(db *sql.DB) *CommitteeRepository {
	return &CommitteeRepository{db: db}
}

// Create inserts a committee row inside tx
func (r *CommitteeRepository) Create(tx *sql.Tx, committee *models.Committee) error {
	query := `
		INSERT INTO committees (handler_id, complaint_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := tx.QueryRow(query, committee.HandlerID, committee.ComplaintID).
		Scan(&committee.ID, &committee.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create committee: %w", err)
	}
	return nil
}

// AddMember inserts a membership row inside tx
func (r *CommitteeRepository) AddMember(tx *sql.Tx, member *models.CommitteeMember) error {
	query := `
		INSERT INTO committee_members (committee_id, user_id, is_handler)
		VALUES ($1, $2, $3)
	`
	if _, err := tx.Exec(query, member.CommitteeID, member.UserID, member.IsHandler); err != nil {
		return fmt.Errorf("failed to add committee member: %w", err)
	}
	return nil
}

// CreateMessage appends a message to the committee's channel inside tx
func (r *CommitteeRepository) CreateMessage(tx *sql.Tx, msg *models.CommitteeMessage) error {
	query := `
		INSERT INTO committee_messages (committee_id, sender_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := tx.QueryRow(query, msg.CommitteeID, msg.SenderID, msg.Body).
		Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create committee message: %w", err)
	}
	return nil
}

// GetByComplaintID retrieves the committee formed for a complaint
func (r *CommitteeRepository) GetByComplaintID(complaintID uint) (*models.Committee, error) {
	var committee models.Committee
	query := `
		SELECT id, handler_id, complaint_id, created_at
		FROM committees
		WHERE complaint_id = $1
	`
	err := r.db.QueryRow(query, complaintID).Scan(
		&committee.ID,
		&committee.HandlerID,
		&committee.ComplaintID,
		&committee.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get committee: %w", err)
	}
	return &committee, nil
}

// GetMembers retrieves all members of a committee
func (r *CommitteeRepository) GetMembers(committeeID uint) ([]models.CommitteeMember, error) {
	members := []models.CommitteeMember{}
	query := `
		SELECT committee_id, user_id, is_handler, created_at
		FROM committee_members
		WHERE committee_id = $1
		ORDER BY user_id
	`
	rows, err := r.db.Query(query, committeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query committee members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.CommitteeMember
		if err := rows.Scan(&m.CommitteeID, &m.UserID, &m.IsHandler, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan committee member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// GetMessages retrieves the committee's message log, oldest first
func (r *CommitteeRepository) GetMessages(committeeID uint) ([]models.CommitteeMessage, error) {
	messages := []models.CommitteeMessage{}
	query := `
		SELECT id, committee_id, sender_id, body, created_at
		FROM committee_messages
		WHERE committee_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(query, committeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query committee messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.CommitteeMessage
		if err := rows.Scan(&m.ID, &m.CommitteeID, &m.SenderID, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan committee message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
