package repository

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"univoice/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, email, password_hash, first_name, last_name, is_active,
			last_login_at, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	err := r.db.QueryRow(query, id).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.IsActive,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetUserRoles retrieves all roles assigned to a user
func (r *UserRepository) GetUserRoles(userID uint) ([]models.Role, error) {
	roles := []models.Role{}
	query := `
		SELECT r.id, r.name, r.description, r.created_at, r.updated_at
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.name
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user roles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// FindFirstByRole retrieves the first active user holding the given role,
// ordered by user id. Returns nil when no such user exists.
func (r *UserRepository) FindFirstByRole(roleName string) (*models.User, error) {
	var user models.User
	query := `
		SELECT u.id, u.email, u.password_hash, u.first_name, u.last_name,
			u.is_active, u.last_login_at, u.created_at, u.updated_at
		FROM users u
		JOIN user_roles ur ON ur.user_id = u.id
		JOIN roles r ON r.id = ur.role_id
		WHERE r.name = $1 AND u.is_active = TRUE
		ORDER BY u.id
		LIMIT 1
	`
	err := r.db.QueryRow(query, roleName).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.IsActive,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by role: %w", err)
	}
	return &user, nil
}

// EligibleCommitteeCandidates retrieves the active users holding one of the
// eligible committee roles, excluding the given user. The role set is the
// closed allow-list declared in models.
func (r *UserRepository) EligibleCommitteeCandidates(excludeUserID uint) ([]models.User, error) {
	users := []models.User{}
	query := `
		SELECT DISTINCT u.id, u.email, u.password_hash, u.first_name, u.last_name,
			u.is_active, u.last_login_at, u.created_at, u.updated_at
		FROM users u
		JOIN user_roles ur ON ur.user_id = u.id
		JOIN roles r ON r.id = ur.role_id
		WHERE r.name = ANY($1) AND u.is_active = TRUE AND u.id <> $2
		ORDER BY u.id
	`
	rows, err := r.db.Query(query, pq.Array(models.EligibleCommitteeRoles), excludeUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to query eligible candidates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.PasswordHash,
			&user.FirstName,
			&user.LastName,
			&user.IsActive,
			&user.LastLoginAt,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateLastLogin updates the user's last login timestamp
func (r *UserRepository) UpdateLastLogin(userID uint) error {
	query := `UPDATE users SET last_login_at = CURRENT_TIMESTAMP WHERE id = $1`
	if _, err := r.db.Exec(query, userID); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}
