package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"univoice/internal/config"
	"univoice/internal/repository"
	"univoice/internal/workflow"
)

// Scheduler handles periodic tasks. Currently that is one task: the meeting
// reminder sweep, which notifies resolver and submitter shortly before a
// scheduled video chat.
type Scheduler struct {
	meetingRepo *repository.MeetingRepository
	notifier    *workflow.Notifier
	config      *config.SchedulerConfig
	stopChan    chan bool
}

// NewScheduler creates a new scheduler
func NewScheduler(
	meetingRepo *repository.MeetingRepository,
	notifier *workflow.Notifier,
	cfg *config.SchedulerConfig,
) *Scheduler {
	return &Scheduler{
		meetingRepo: meetingRepo,
		notifier:    notifier,
		config:      cfg,
		stopChan:    make(chan bool),
	}
}

// Start starts all scheduled tasks
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler",
		"meeting_reminders_enabled", s.config.EnableMeetingReminders,
		"interval_mins", s.config.ReminderIntervalMins)

	if s.config.EnableMeetingReminders {
		interval := time.Duration(s.config.ReminderIntervalMins) * time.Minute
		go s.scheduleIntervalTask(interval, "meeting_reminders", s.sendMeetingReminders)
	}

	slog.Info("Scheduler started")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	slog.Info("Stopping scheduler")
	close(s.stopChan)
}

// scheduleIntervalTask runs a task at regular intervals
func (s *Scheduler) scheduleIntervalTask(interval time.Duration, taskName string, task func()) {
	slog.Info("Starting interval task", "task", taskName, "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run immediately on start
	task()

	for {
		select {
		case <-ticker.C:
			task()
		case <-s.stopChan:
			return
		}
	}
}

// sendMeetingReminders notifies both participants of meetings starting within
// the reminder lead time. Each meeting is reminded once; the reminder flag is
// only set after the notifications were recorded.
func (s *Scheduler) sendMeetingReminders() {
	meetings, err := s.meetingRepo.DueForReminder(s.config.ReminderLeadTime)
	if err != nil {
		slog.Error("Failed to query meetings due for reminder", "error", err)
		return
	}
	if len(meetings) == 0 {
		return
	}

	remindersSent := 0
	for _, meeting := range meetings {
		message := fmt.Sprintf("Your video chat for complaint #%d starts at %s. Join code: %s",
			meeting.ComplaintID, meeting.ScheduledAt.Format("2006-01-02 15:04"), meeting.JoinCode)

		complaintID := meeting.ComplaintID
		s.notifier.Send(meeting.ResolverID, &complaintID, message)
		s.notifier.Send(meeting.SubmitterID, &complaintID, message)

		if err := s.meetingRepo.MarkReminderSent(meeting.ID); err != nil {
			slog.Error("Failed to mark reminder sent", "meeting_id", meeting.ID, "error", err)
			continue
		}
		remindersSent++
	}

	slog.Info("Meeting reminders completed", "reminders_sent", remindersSent)
}
