package models

import (
	"time"
)

// Complaint status values. Status only ever moves forward along
// pending -> validated -> in_progress -> {resolved|rejected}.
const (
	StatusPending    = "pending"
	StatusValidated  = "validated"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusRejected   = "rejected"
)

// Complaint categories.
const (
	CategoryAcademic       = "academic"
	CategoryAdministrative = "administrative"
)

// Complaint visibility values.
const (
	VisibilityStandard  = "standard"
	VisibilityAnonymous = "anonymous"
)

// Decision status values.
const (
	DecisionPending = "pending"
	DecisionFinal   = "final"
)

// Escalation status values.
const (
	EscalationOpen     = "open"
	EscalationResolved = "resolved"
)

// Stereotyped report types.
const (
	ReportTypeResolved         = "resolved"
	ReportTypeDecisionReceived = "decision_received"
	ReportTypeHandlerResponse  = "handler_response"
)

// RolePresident is the role whose single holder receives oversight reports.
const RolePresident = "president"

// EligibleCommitteeRoles is the closed set of staff roles permitted to serve
// as committee members.
var EligibleCommitteeRoles = []string{
	"department_head",
	"dean",
	"vice_president",
	"president",
	"registrar",
	"associate_registrar",
	"service_director",
	"student_affairs_director",
}

// User represents a portal user
type User struct {
	ID           uint       `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Role represents a user role
type Role struct {
	ID          uint      `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// UserRole represents the many-to-many relationship between users and roles
type UserRole struct {
	UserID    uint      `json:"user_id" db:"user_id"`
	RoleID    uint      `json:"role_id" db:"role_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Complaint represents a submitted complaint and its workflow state
type Complaint struct {
	ID                uint       `json:"id" db:"id"`
	Title             string     `json:"title" db:"title"`
	Description       string     `json:"description" db:"description"`
	Category          *string    `json:"category,omitempty" db:"category"`
	Status            string     `json:"status" db:"status"`
	Visibility        string     `json:"visibility" db:"visibility"`
	SubmitterID       uint       `json:"submitter_id" db:"submitter_id"`
	HandlerID         uint       `json:"handler_id" db:"handler_id"`
	CommitteeID       *uint      `json:"committee_id,omitempty" db:"committee_id"`
	ResolverID        *uint      `json:"resolver_id,omitempty" db:"resolver_id"`
	NeedsCommittee    bool       `json:"needs_committee" db:"needs_committee"`
	NeedsVideoChat    bool       `json:"needs_video_chat" db:"needs_video_chat"`
	ResolutionDetails *string    `json:"resolution_details,omitempty" db:"resolution_details"`
	ResolvedAt        *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// IsTerminal reports whether the complaint has reached a final status.
func (c *Complaint) IsTerminal() bool {
	return c.Status == StatusResolved || c.Status == StatusRejected
}

// Committee represents an ad hoc review committee, formed at most once per
// complaint
type Committee struct {
	ID          uint      `json:"id" db:"id"`
	HandlerID   uint      `json:"handler_id" db:"handler_id"`
	ComplaintID uint      `json:"complaint_id" db:"complaint_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// CommitteeMember represents membership of a user in a committee
type CommitteeMember struct {
	CommitteeID uint      `json:"committee_id" db:"committee_id"`
	UserID      uint      `json:"user_id" db:"user_id"`
	IsHandler   bool      `json:"is_handler" db:"is_handler"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// CommitteeMessage represents an append-only entry in a committee's
// communication channel. SenderID is null for system-seeded messages.
type CommitteeMessage struct {
	ID          uint      `json:"id" db:"id"`
	CommitteeID uint      `json:"committee_id" db:"committee_id"`
	SenderID    *uint     `json:"sender_id,omitempty" db:"sender_id"`
	Body        string    `json:"body" db:"body"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Decision represents one directed message in an escalation reply chain
type Decision struct {
	ID           uint      `json:"id" db:"id"`
	ComplaintID  uint      `json:"complaint_id" db:"complaint_id"`
	EscalationID *uint     `json:"escalation_id,omitempty" db:"escalation_id"`
	SenderID     uint      `json:"sender_id" db:"sender_id"`
	ReceiverID   uint      `json:"receiver_id" db:"receiver_id"`
	Body         string    `json:"body" db:"body"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Escalation represents the durable hand-off record for a complaint referred
// to higher authority; keyed uniquely by complaint id
type Escalation struct {
	ID                uint      `json:"id" db:"id"`
	ComplaintID       uint      `json:"complaint_id" db:"complaint_id"`
	EscalatedBy       uint      `json:"escalated_by" db:"escalated_by"`
	EscalatedTo       uint      `json:"escalated_to" db:"escalated_to"`
	Status            string    `json:"status" db:"status"`
	ResolutionDetails *string   `json:"resolution_details,omitempty" db:"resolution_details"`
	OriginalHandlerID uint      `json:"original_handler_id" db:"original_handler_id"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// Notification represents an inbox entry addressed to a user
type Notification struct {
	ID          uint      `json:"id" db:"id"`
	UserID      uint      `json:"user_id" db:"user_id"`
	ComplaintID *uint     `json:"complaint_id,omitempty" db:"complaint_id"`
	Description string    `json:"description" db:"description"`
	IsRead      bool      `json:"is_read" db:"is_read"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// StereotypedReport represents a fixed-format oversight summary sent to the
// president on significant transitions
type StereotypedReport struct {
	ID          uint      `json:"id" db:"id"`
	ComplaintID uint      `json:"complaint_id" db:"complaint_id"`
	HandlerID   uint      `json:"handler_id" db:"handler_id"`
	RecipientID uint      `json:"recipient_id" db:"recipient_id"`
	ReportType  string    `json:"report_type" db:"report_type"`
	Content     string    `json:"report_content" db:"report_content"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// ScheduledMeeting represents a video-chat appointment between resolver and
// submitter, created during resolver assignment
type ScheduledMeeting struct {
	ID           uint      `json:"id" db:"id"`
	ComplaintID  uint      `json:"complaint_id" db:"complaint_id"`
	ResolverID   uint      `json:"resolver_id" db:"resolver_id"`
	SubmitterID  uint      `json:"submitter_id" db:"submitter_id"`
	JoinCode     string    `json:"join_code" db:"join_code"`
	ScheduledAt  time.Time `json:"scheduled_at" db:"scheduled_at"`
	ReminderSent bool      `json:"reminder_sent" db:"reminder_sent"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// AuditLog represents an audit log entry
type AuditLog struct {
	ID        uint      `json:"id" db:"id"`
	UserID    *uint     `json:"user_id,omitempty" db:"user_id"`
	Action    string    `json:"action" db:"action"`
	Resource  string    `json:"resource" db:"resource"`
	Details   string    `json:"details,omitempty" db:"details"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// UserWithRoles extends User with roles information
type UserWithRoles struct {
	User
	Roles []Role `json:"roles"`
}
