package repository

import (
	"database/sql"
	"fmt"

	"univoice/internal/models"
)

const complaintColumns = `
	id, title, description, category, status, visibility, submitter_id,
	handler_id, committee_id, resolver_id, needs_committee, needs_video_chat,
	resolution_details, resolved_at, created_at, updated_at
`

type ComplaintRepository struct {
	db *sql.DB
}

func NewComplaintRepository(db *sql.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

func scanComplaint(row *sql.Row) (*models.Complaint, error) {
	var c models.Complaint
	err := row.Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&c.Category,
		&c.Status,
		&c.Visibility,
		&c.SubmitterID,
		&c.HandlerID,
		&c.CommitteeID,
		&c.ResolverID,
		&c.NeedsCommittee,
		&c.NeedsVideoChat,
		&c.ResolutionDetails,
		&c.ResolvedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan complaint: %w", err)
	}
	return &c, nil
}

// Create inserts a new pending complaint
func (r *ComplaintRepository) Create(c *models.Complaint) error {
	query := `
		INSERT INTO complaints (title, description, status, visibility, submitter_id,
			handler_id, needs_committee, needs_video_chat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(query,
		c.Title, c.Description, models.StatusPending, c.Visibility, c.SubmitterID,
		c.HandlerID, c.NeedsCommittee, c.NeedsVideoChat,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create complaint: %w", err)
	}
	c.Status = models.StatusPending
	return nil
}

// GetByID retrieves a complaint by ID without locking
func (r *ComplaintRepository) GetByID(id uint) (*models.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id = $1`
	return scanComplaint(r.db.QueryRow(query, id))
}

// GetForUpdate retrieves a complaint inside tx with an exclusive row lock.
// Every guard-then-mutate sequence reads through this so that concurrent
// operations on the same complaint serialize at the database.
func (r *ComplaintRepository) GetForUpdate(tx *sql.Tx, id uint) (*models.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id = $1 FOR UPDATE`
	return scanComplaint(tx.QueryRow(query, id))
}

// SetCategory updates the complaint's category inside tx
func (r *ComplaintRepository) SetCategory(tx *sql.Tx, id uint, category string) error {
	query := `UPDATE complaints SET category = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	if _, err := tx.Exec(query, category, id); err != nil {
		return fmt.Errorf("failed to set category: %w", err)
	}
	return nil
}

// SetStatus updates the complaint's status inside tx
func (r *ComplaintRepository) SetStatus(tx *sql.Tx, id uint, status string) error {
	query := `UPDATE complaints SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	if _, err := tx.Exec(query, status, id); err != nil {
		return fmt.Errorf("failed to set status: %w", err)
	}
	return nil
}

// SetResolver assigns a resolver to the complaint inside tx
func (r *ComplaintRepository) SetResolver(tx *sql.Tx, id, resolverID uint) error {
	query := `UPDATE complaints SET resolver_id = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	if _, err := tx.Exec(query, resolverID, id); err != nil {
		return fmt.Errorf("failed to set resolver: %w", err)
	}
	return nil
}

// SetCommitteeID links the committee to the complaint inside tx. The link is
// written exactly once; callers guard on committee_id being null first.
func (r *ComplaintRepository) SetCommitteeID(tx *sql.Tx, id, committeeID uint) error {
	query := `UPDATE complaints SET committee_id = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2 AND committee_id IS NULL`
	result, err := tx.Exec(query, committeeID, id)
	if err != nil {
		return fmt.Errorf("failed to set committee: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check committee link: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("complaint %d already has a committee", id)
	}
	return nil
}

// MarkResolved sets the terminal resolved state with details inside tx
func (r *ComplaintRepository) MarkResolved(tx *sql.Tx, id uint, details string) error {
	query := `
		UPDATE complaints
		SET status = $1, resolution_details = $2, resolved_at = CURRENT_TIMESTAMP,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`
	if _, err := tx.Exec(query, models.StatusResolved, details, id); err != nil {
		return fmt.Errorf("failed to mark resolved: %w", err)
	}
	return nil
}

// ListBySubmitter retrieves complaints filed by a user
func (r *ComplaintRepository) ListBySubmitter(submitterID uint) ([]models.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE submitter_id = $1 ORDER BY created_at DESC`
	return r.queryComplaints(query, submitterID)
}

// ListByHandler retrieves complaints assigned to a handler
func (r *ComplaintRepository) ListByHandler(handlerID uint) ([]models.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE handler_id = $1 ORDER BY created_at DESC`
	return r.queryComplaints(query, handlerID)
}

func (r *ComplaintRepository) queryComplaints(query string, args ...interface{}) ([]models.Complaint, error) {
	complaints := []models.Complaint{}
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query complaints: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Complaint
		err := rows.Scan(
			&c.ID,
			&c.Title,
			&c.Description,
			&c.Category,
			&c.Status,
			&c.Visibility,
			&c.SubmitterID,
			&c.HandlerID,
			&c.CommitteeID,
			&c.ResolverID,
			&c.NeedsCommittee,
			&c.NeedsVideoChat,
			&c.ResolutionDetails,
			&c.ResolvedAt,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan complaint: %w", err)
		}
		complaints = append(complaints, c)
	}
	return complaints, rows.Err()
}
