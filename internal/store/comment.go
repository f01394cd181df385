// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// CommentStore handles reader comments. New comments start unapproved
// and only show up in the public listing after moderation.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore returns a new CommentStore.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const commentColumns = `id, post_id, parent_id, author_name, author_email, body, approved, version, created_at, updated_at, deleted`

func scanComment(scanner interface{ Scan(...any) error }) (*models.Comment, error) {
	var c models.Comment
	err := scanner.Scan(
		&c.ID, &c.PostID, &c.ParentID, &c.AuthorName, &c.AuthorEmail,
		&c.Body, &c.Approved, &c.Version, &c.CreatedAt, &c.UpdatedAt, &c.Deleted,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListApproved returns approved, non-deleted comments on a post, oldest
// first so threads read top to bottom.
func (s *CommentStore) ListApproved(postID uuid.UUID) ([]*models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT `+commentColumns+`
		FROM comments
		WHERE post_id = $1 AND approved = TRUE AND deleted = FALSE
		ORDER BY created_at
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list approved comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// ListPending returns unapproved, non-deleted comments across all posts,
// oldest first, for the moderation queue.
func (s *CommentStore) ListPending() ([]*models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT ` + commentColumns + `
		FROM comments
		WHERE approved = FALSE AND deleted = FALSE
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list pending comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// FindByID retrieves a non-deleted comment by ID. Returns nil if not found.
func (s *CommentStore) FindByID(id uuid.UUID) (*models.Comment, error) {
	row := s.db.QueryRow(`SELECT `+commentColumns+` FROM comments WHERE id = $1 AND deleted = FALSE`, id)
	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return c, nil
}

// Create fires the pre-persist hook and inserts the comment.
func (s *CommentStore) Create(c *models.Comment) error {
	c.OnCreate()
	err := s.db.QueryRow(`
		INSERT INTO comments (post_id, parent_id, author_name, author_email, body, approved, created_at, updated_at, deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, version
	`, c.PostID, c.ParentID, c.AuthorName, c.AuthorEmail,
		c.Body, c.Approved, c.CreatedAt, c.UpdatedAt, c.Deleted,
	).Scan(&c.ID, &c.Version)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// Approve fires the entity hook and persists the approval under the
// optimistic version check.
func (s *CommentStore) Approve(c *models.Comment) error {
	c.Approve()
	c.OnUpdate()

	res, err := s.db.Exec(`
		UPDATE comments SET approved = TRUE, updated_at = $1, version = version + 1
		WHERE id = $2 AND version = $3
	`, c.UpdatedAt, c.ID, c.Version)
	if err != nil {
		return fmt.Errorf("approve comment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("approve comment rows affected: %w", err)
	}
	if affected == 0 {
		return ErrVersionConflict
	}
	c.Version++
	return nil
}

// SoftDelete flags a comment and its direct replies as deleted.
func (s *CommentStore) SoftDelete(id uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE comments SET deleted = TRUE, updated_at = now()
		WHERE id = $1 OR parent_id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("soft delete comment: %w", err)
	}
	return nil
}
