package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin account and a small starter category tree. It is a no-op when
// users already exist.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	// Hash the default admin password.
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	// Insert default admin user.
	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4)
	`, "admin@inkwell.local", string(hash), "Admin", "admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	// Insert a starter category tree: a root with one child.
	var rootID string
	err = db.QueryRow(`
		INSERT INTO categories (name, slug, description)
		VALUES ('General', 'general', 'Uncategorized posts')
		RETURNING id
	`).Scan(&rootID)
	if err != nil {
		return fmt.Errorf("seed insert root category: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO categories (name, slug, description, parent_id)
		VALUES ('Announcements', 'announcements', 'Site news', $1)
	`, rootID)
	if err != nil {
		return fmt.Errorf("seed insert child category: %w", err)
	}

	slog.Info("database seeded with default admin user and starter categories",
		"email", "admin@inkwell.local",
		"password", "admin",
	)

	return nil
}
