// Package store provides database access methods for all blog entities.
// Each store struct wraps a *sql.DB and exposes typed query methods. The
// stores are the persistence-integration layer: they fire the entity
// lifecycle hooks and enforce the optimistic version check.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/models"
)

// UserStore handles all user-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, email, password_hash, display_name, bio, role, version, created_at, updated_at, deleted`

// scanUser scans a row into a User struct.
func scanUser(scanner interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := scanner.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Bio, &u.Role,
		&u.Version, &u.CreatedAt, &u.UpdatedAt, &u.Deleted,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByEmail retrieves a non-deleted user by email. Returns nil if not found.
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1 AND deleted = FALSE`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindByID retrieves a non-deleted user by UUID. Returns nil if not found.
func (s *UserStore) FindByID(id uuid.UUID) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1 AND deleted = FALSE`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// List returns all non-deleted users ordered by creation date.
func (s *UserStore) List() ([]*models.User, error) {
	rows, err := s.db.Query(`SELECT ` + userColumns + ` FROM users WHERE deleted = FALSE ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Create inserts a new user with a bcrypt-hashed password and writes the
// assigned identity back into the entity.
func (s *UserStore) Create(u *models.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	u.OnCreate()

	err = s.db.QueryRow(`
		INSERT INTO users (email, password_hash, display_name, bio, role, created_at, updated_at, deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, version
	`, u.Email, u.PasswordHash, u.DisplayName, u.Bio, u.Role,
		u.CreatedAt, u.UpdatedAt, u.Deleted,
	).Scan(&u.ID, &u.Version)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update persists profile fields under the optimistic version check.
// The password hash is managed separately.
func (s *UserStore) Update(u *models.User) error {
	u.OnUpdate()

	res, err := s.db.Exec(`
		UPDATE users SET
			email = $1, display_name = $2, bio = $3, role = $4, deleted = $5,
			updated_at = $6, version = version + 1
		WHERE id = $7 AND version = $8
	`, u.Email, u.DisplayName, u.Bio, u.Role, u.Deleted,
		u.UpdatedAt, u.ID, u.Version,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user rows affected: %w", err)
	}
	if affected == 0 {
		return ErrVersionConflict
	}
	u.Version++
	return nil
}

// VerifyPassword compares a plaintext password against the stored hash.
func (s *UserStore) VerifyPassword(u *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SoftDelete flags a user as deleted. The row is retained.
func (s *UserStore) SoftDelete(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE users SET deleted = TRUE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("soft delete user: %w", err)
	}
	return nil
}
