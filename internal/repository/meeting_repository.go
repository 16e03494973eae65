package repository

import (
	"database/sql"
	"fmt"
	"time"

	"univoice/internal/models"
)

type MeetingRepository struct {
	db *sql.DB
}

func NewMeetingRepository(db *sql.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// Create inserts a scheduled meeting inside tx
func (r *MeetingRepository) Create(tx *sql.Tx, meeting *models.ScheduledMeeting) error {
	query := `
		INSERT INTO scheduled_meetings (complaint_id, resolver_id, submitter_id, join_code, scheduled_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := tx.QueryRow(query,
		meeting.ComplaintID,
		meeting.ResolverID,
		meeting.SubmitterID,
		meeting.JoinCode,
		meeting.ScheduledAt,
	).Scan(&meeting.ID, &meeting.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create scheduled meeting: %w", err)
	}
	return nil
}

// GetByComplaintID retrieves the meeting scheduled for a complaint
func (r *MeetingRepository) GetByComplaintID(complaintID uint) (*models.ScheduledMeeting, error) {
	var m models.ScheduledMeeting
	query := `
		SELECT id, complaint_id, resolver_id, submitter_id, join_code, scheduled_at, reminder_sent, created_at
		FROM scheduled_meetings
		WHERE complaint_id = $1
		ORDER BY scheduled_at DESC
		LIMIT 1
	`
	err := r.db.QueryRow(query, complaintID).Scan(
		&m.ID,
		&m.ComplaintID,
		&m.ResolverID,
		&m.SubmitterID,
		&m.JoinCode,
		&m.ScheduledAt,
		&m.ReminderSent,
		&m.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scheduled meeting: %w", err)
	}
	return &m, nil
}

// DueForReminder retrieves meetings starting within the lead window whose
// reminder has not been sent yet
func (r *MeetingRepository) DueForReminder(leadTime time.Duration) ([]models.ScheduledMeeting, error) {
	meetings := []models.ScheduledMeeting{}
	query := `
		SELECT id, complaint_id, resolver_id, submitter_id, join_code, scheduled_at, reminder_sent, created_at
		FROM scheduled_meetings
		WHERE reminder_sent = FALSE
			AND scheduled_at > CURRENT_TIMESTAMP
			AND scheduled_at <= CURRENT_TIMESTAMP + $1 * INTERVAL '1 second'
		ORDER BY scheduled_at
	`
	rows, err := r.db.Query(query, int(leadTime.Seconds()))
	if err != nil {
		return nil, fmt.Errorf("failed to query due meetings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.ScheduledMeeting
		err := rows.Scan(
			&m.ID,
			&m.ComplaintID,
			&m.ResolverID,
			&m.SubmitterID,
			&m.JoinCode,
			&m.ScheduledAt,
			&m.ReminderSent,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scheduled meeting: %w", err)
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

// MarkReminderSent flags a meeting's reminder as delivered
func (r *MeetingRepository) MarkReminderSent(id uint) error {
	query := `UPDATE scheduled_meetings SET reminder_sent = TRUE WHERE id = $1`
	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	return nil
}
