package workflow

import (
	"database/sql"
	"log/slog"

	"univoice/internal/email"
	"univoice/internal/models"
	"univoice/internal/repository"
)

// Notifier appends notification rows for the inbox view. Outside the two
// fully atomic flows (committee formation, reply-to-decision) a failed
// notification is logged and swallowed so it cannot undo a transition that
// already succeeded.
type Notifier struct {
	notificationRepo *repository.NotificationRepository
	userRepo         *repository.UserRepository
	emailService     *email.Service
}

// NewNotifier creates a new notifier. emailService may be nil to disable the
// mail mirror.
func NewNotifier(
	notificationRepo *repository.NotificationRepository,
	userRepo *repository.UserRepository,
	emailService *email.Service,
) *Notifier {
	return &Notifier{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		emailService:     emailService,
	}
}

// Send records a notification, logging and swallowing any failure.
func (n *Notifier) Send(userID uint, complaintID *uint, description string) {
	notification := &models.Notification{
		UserID:      userID,
		ComplaintID: complaintID,
		Description: description,
	}
	if err := n.notificationRepo.Create(notification); err != nil {
		slog.Error("Failed to record notification", "user_id", userID, "error", err)
		return
	}
	n.mirror(userID, description)
}

// SendTx records a notification inside tx. A failure propagates and rolls
// back the owning transaction; used only by flows whose contract is
// all-or-nothing.
func (n *Notifier) SendTx(tx *sql.Tx, userID uint, complaintID *uint, description string) error {
	notification := &models.Notification{
		UserID:      userID,
		ComplaintID: complaintID,
		Description: description,
	}
	return n.notificationRepo.CreateTx(tx, notification)
}

// mirror sends a best-effort plain-text copy by mail.
func (n *Notifier) mirror(userID uint, description string) {
	if n.emailService == nil || !n.emailService.Enabled() {
		return
	}
	user, err := n.userRepo.GetByID(userID)
	if err != nil || user == nil {
		slog.Warn("Skipping notification mail, user lookup failed", "user_id", userID, "error", err)
		return
	}
	if err := n.emailService.SendPlain(user.Email, "UniVoice notification", description); err != nil {
		slog.Warn("Failed to mirror notification by mail", "user_id", userID, "error", err)
	}
}
