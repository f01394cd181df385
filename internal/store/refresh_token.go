// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// RefreshTokenStore persists refresh tokens and their use counters.
// The entity decides whether a use is allowed; the store records the
// outcome.
type RefreshTokenStore struct {
	db *sql.DB
}

// NewRefreshTokenStore returns a new RefreshTokenStore.
func NewRefreshTokenStore(db *sql.DB) *RefreshTokenStore {
	return &RefreshTokenStore{db: db}
}

const tokenColumns = `id, token_hash, user_id, expires_at, revoked_at, use_count, max_uses, last_used_at, version, created_at, updated_at, deleted`

// scanToken scans a row into a RefreshToken struct.
func scanToken(scanner interface{ Scan(...any) error }) (*models.RefreshToken, error) {
	var t models.RefreshToken
	err := scanner.Scan(
		&t.ID, &t.TokenHash, &t.UserID, &t.ExpiresAt, &t.RevokedAt,
		&t.UseCount, &t.MaxUses, &t.LastUsedAt,
		&t.Version, &t.CreatedAt, &t.UpdatedAt, &t.Deleted,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create fires the pre-persist hook and inserts the token.
func (s *RefreshTokenStore) Create(t *models.RefreshToken) error {
	t.OnCreate()

	err := s.db.QueryRow(`
		INSERT INTO refresh_tokens (token_hash, user_id, expires_at, max_uses, created_at, updated_at, deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, version
	`, t.TokenHash, t.UserID, t.ExpiresAt, t.MaxUses,
		t.CreatedAt, t.UpdatedAt, t.Deleted,
	).Scan(&t.ID, &t.Version)
	if err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

// FindByHash retrieves a non-deleted token by its hash. Returns nil if
// not found.
func (s *RefreshTokenStore) FindByHash(hash string) (*models.RefreshToken, error) {
	row := s.db.QueryRow(`SELECT `+tokenColumns+` FROM refresh_tokens WHERE token_hash = $1 AND deleted = FALSE`, hash)
	t, err := scanToken(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return t, nil
}

// MarkUsed persists the use counters after a successful entity-level
// Use, guarded by the optimistic version check so two concurrent
// refreshes cannot both count as one.
func (s *RefreshTokenStore) MarkUsed(t *models.RefreshToken) error {
	t.OnUpdate()

	res, err := s.db.Exec(`
		UPDATE refresh_tokens SET
			use_count = $1, last_used_at = $2, revoked_at = $3,
			updated_at = $4, version = version + 1
		WHERE id = $5 AND version = $6
	`, t.UseCount, t.LastUsedAt, t.RevokedAt,
		t.UpdatedAt, t.ID, t.Version,
	)
	if err != nil {
		return fmt.Errorf("mark refresh token used: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark refresh token rows affected: %w", err)
	}
	if affected == 0 {
		return ErrVersionConflict
	}
	t.Version++
	return nil
}

// RevokeAllForUser revokes every live token belonging to a user, e.g.
// after a password change. Returns the number of tokens revoked.
func (s *RefreshTokenStore) RevokeAllForUser(userID uuid.UUID, now time.Time) (int64, error) {
	res, err := s.db.Exec(`
		UPDATE refresh_tokens SET revoked_at = $1, updated_at = $1, version = version + 1
		WHERE user_id = $2 AND revoked_at IS NULL AND deleted = FALSE
	`, now, userID)
	if err != nil {
		return 0, fmt.Errorf("revoke tokens for user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("revoke tokens rows affected: %w", err)
	}
	return affected, nil
}

// DeleteExpired physically removes tokens that expired before the cutoff.
// Expired credentials carry no audit value, so this is a hard delete.
func (s *RefreshTokenStore) DeleteExpired(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM refresh_tokens WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens rows affected: %w", err)
	}
	return affected, nil
}
