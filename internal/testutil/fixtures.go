package testutil

import (
	"database/sql"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"univoice/internal/models"
)

// Fixtures holds test data shared by the workflow integration tests
type Fixtures struct {
	DB        *sql.DB
	Student   *models.User
	Handler   *models.User
	Resolver  *models.User
	Dean      *models.User
	Registrar *models.User
	President *models.User
}

// SetupFixtures creates roles and users used across the workflow tests.
// Handler and resolver hold the staff role; dean, registrar and president
// hold committee-eligible roles.
func SetupFixtures(t *testing.T, db *sql.DB) *Fixtures {
	t.Helper()

	fixtures := &Fixtures{DB: db}

	studentRole := createRole(t, db, "student")
	staffRole := createRole(t, db, "staff")
	deanRole := createRole(t, db, "dean")
	registrarRole := createRole(t, db, "registrar")
	presidentRole := createRole(t, db, models.RolePresident)

	fixtures.Student = createUser(t, db, "student@test.edu", "Sam", "Student", []uint{studentRole.ID})
	fixtures.Handler = createUser(t, db, "handler@test.edu", "Hanna", "Handler", []uint{staffRole.ID})
	fixtures.Resolver = createUser(t, db, "resolver@test.edu", "Rita", "Resolver", []uint{staffRole.ID})
	fixtures.Dean = createUser(t, db, "dean@test.edu", "Dana", "Dean", []uint{deanRole.ID})
	fixtures.Registrar = createUser(t, db, "registrar@test.edu", "Renee", "Registrar", []uint{registrarRole.ID})
	fixtures.President = createUser(t, db, "president@test.edu", "Pat", "President", []uint{presidentRole.ID})

	return fixtures
}

// createRole creates a role in the database or returns the existing one
func createRole(t *testing.T, db *sql.DB, name string) *models.Role {
	t.Helper()

	var role models.Role
	err := db.QueryRow(
		"SELECT id, name FROM roles WHERE name = $1",
		name,
	).Scan(&role.ID, &role.Name)
	if err == nil {
		return &role
	}

	err = db.QueryRow(
		"INSERT INTO roles (name) VALUES ($1) RETURNING id, name",
		name,
	).Scan(&role.ID, &role.Name)
	if err != nil {
		t.Fatalf("Failed to create role %s: %v", name, err)
	}

	return &role
}

// createUser creates an active user with the given roles
func createUser(t *testing.T, db *sql.DB, email, firstName, lastName string, roleIDs []uint) *models.User {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	var user models.User
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, first_name, last_name, is_active, created_at, updated_at
	`, email, string(hashedPassword), firstName, lastName).Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", email, err)
	}

	for _, roleID := range roleIDs {
		if _, err := db.Exec("INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)", user.ID, roleID); err != nil {
			t.Fatalf("Failed to assign role %d to user %s: %v", roleID, email, err)
		}
	}

	return &user
}

// CreateComplaint inserts a complaint with the given flags for testing
func (f *Fixtures) CreateComplaint(t *testing.T, submitterID, handlerID uint, visibility string, needsCommittee, needsVideoChat bool) *models.Complaint {
	t.Helper()

	var c models.Complaint
	err := f.DB.QueryRow(`
		INSERT INTO complaints (title, description, status, visibility, submitter_id,
			handler_id, needs_committee, needs_video_chat)
		VALUES ($1, $2, 'pending', $3, $4, $5, $6, $7)
		RETURNING id, title, description, status, visibility, submitter_id, handler_id,
			needs_committee, needs_video_chat, created_at, updated_at
	`, "Noisy construction near lecture hall", "Construction noise makes the morning lectures inaudible.",
		visibility, submitterID, handlerID, needsCommittee, needsVideoChat).Scan(
		&c.ID, &c.Title, &c.Description, &c.Status, &c.Visibility, &c.SubmitterID,
		&c.HandlerID, &c.NeedsCommittee, &c.NeedsVideoChat, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("Failed to create complaint: %v", err)
	}

	return &c
}

// CreateDecision inserts a decision addressed to a user for testing
func (f *Fixtures) CreateDecision(t *testing.T, complaintID, senderID, receiverID uint, body, status string) *models.Decision {
	t.Helper()

	var d models.Decision
	err := f.DB.QueryRow(`
		INSERT INTO decisions (complaint_id, sender_id, receiver_id, body, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, complaint_id, sender_id, receiver_id, body, status, created_at
	`, complaintID, senderID, receiverID, body, status).Scan(
		&d.ID, &d.ComplaintID, &d.SenderID, &d.ReceiverID, &d.Body, &d.Status, &d.CreatedAt,
	)
	if err != nil {
		t.Fatalf("Failed to create decision: %v", err)
	}

	return &d
}

// SetComplaintStatus forces a complaint into a given status for test setup
func (f *Fixtures) SetComplaintStatus(t *testing.T, complaintID uint, status string) {
	t.Helper()

	if _, err := f.DB.Exec("UPDATE complaints SET status = $1 WHERE id = $2", status, complaintID); err != nil {
		t.Fatalf("Failed to set complaint status: %v", err)
	}
}

// SetComplaintCategory forces a complaint's category for test setup
func (f *Fixtures) SetComplaintCategory(t *testing.T, complaintID uint, category string) {
	t.Helper()

	if _, err := f.DB.Exec("UPDATE complaints SET category = $1 WHERE id = $2", category, complaintID); err != nil {
		t.Fatalf("Failed to set complaint category: %v", err)
	}
}
