package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"univoice/internal/middleware"
	"univoice/internal/repository"
)

// NotificationHandler handles the notification inbox
type NotificationHandler struct {
	notificationRepo *repository.NotificationRepository
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationRepo *repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{
		notificationRepo: notificationRepo,
	}
}

// List lists the caller's notifications
// @Summary List notifications
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "Only unread notifications"
// @Success 200 {array} models.Notification "Notifications"
// @Router /notifications/list [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	notifications, err := h.notificationRepo.ListByUser(userID, unreadOnly)
	if err != nil {
		respondWithWorkflowError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, notifications)
}

type markReadRequest struct {
	ID uint `json:"id" validate:"required"`
}

// MarkRead marks one of the caller's notifications as read
// @Summary Mark a notification read
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body markReadRequest true "Notification reference"
// @Success 200 {object} map[string]string "Marked read"
// @Failure 404 {object} map[string]string "Notification not found"
// @Router /notifications/mark-read [post]
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req markReadRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ID == 0 {
		respondWithError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := h.notificationRepo.MarkRead(req.ID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondWithError(w, http.StatusNotFound, "Notification not found")
			return
		}
		respondWithWorkflowError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Notification marked read"})
}
