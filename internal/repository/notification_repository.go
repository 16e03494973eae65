package repository

import (
	"database/sql"
	"fmt"

	"univoice/internal/models"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification outside any transaction
func (r *NotificationRepository) Create(notification *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, complaint_id, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(query, notification.UserID, notification.ComplaintID, notification.Description).
		Scan(&notification.ID, &notification.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// CreateTx inserts a notification inside tx, for flows where the
// notification is part of the atomic contract
func (r *NotificationRepository) CreateTx(tx *sql.Tx, notification *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, complaint_id, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := tx.QueryRow(query, notification.UserID, notification.ComplaintID, notification.Description).
		Scan(&notification.ID, &notification.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListByUser retrieves a user's notifications, newest first
func (r *NotificationRepository) ListByUser(userID uint, unreadOnly bool) ([]models.Notification, error) {
	notifications := []models.Notification{}
	query := `
		SELECT id, user_id, complaint_id, description, is_read, created_at
		FROM notifications
		WHERE user_id = $1 AND ($2 = FALSE OR is_read = FALSE)
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, userID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var n models.Notification
		err := rows.Scan(&n.ID, &n.UserID, &n.ComplaintID, &n.Description, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead marks one of the user's notifications as read
func (r *NotificationRepository) MarkRead(id, userID uint) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check notification update: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountForComplaint returns the number of notifications recorded for a
// complaint. Used by tests asserting side-effect fan-out.
func (r *NotificationRepository) CountForComplaint(complaintID uint) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE complaint_id = $1`
	if err := r.db.QueryRow(query, complaintID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}
