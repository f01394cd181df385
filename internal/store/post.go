// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/slug"
)

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, title, slug, body, excerpt, status, published_at, author_id, category_id, view_count, version, created_at, updated_at, deleted`

// scanPost scans a row into a Post struct.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Body, &p.Excerpt, &p.Status, &p.PublishedAt,
		&p.AuthorID, &p.CategoryID, &p.ViewCount, &p.Version, &p.CreatedAt, &p.UpdatedAt, &p.Deleted,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindBySlug retrieves a non-deleted post by slug. Returns nil if not found.
func (s *PostStore) FindBySlug(postSlug string) (*models.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE slug = $1 AND deleted = FALSE`, postSlug)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// ListPublished returns published, non-deleted posts newest first.
func (s *PostStore) ListPublished(limit, offset int) ([]*models.Post, error) {
	rows, err := s.db.Query(`
		SELECT `+postColumns+`
		FROM posts
		WHERE status = 'published' AND deleted = FALSE
		ORDER BY published_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListByCategory returns published posts in the given category or any of
// its descendants, newest first.
func (s *PostStore) ListByCategory(categoryID uuid.UUID) ([]*models.Post, error) {
	rows, err := s.db.Query(`
		WITH RECURSIVE subtree AS (
			SELECT id FROM categories WHERE id = $1
			UNION ALL
			SELECT c.id FROM categories c
			JOIN subtree s ON c.parent_id = s.id
		)
		SELECT `+postColumns+`
		FROM posts
		WHERE category_id IN (SELECT id FROM subtree)
		  AND status = 'published' AND deleted = FALSE
		ORDER BY published_at DESC
	`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list posts by category: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Create fires the pre-persist hook and inserts the post. An empty slug
// is derived from the title. ID and Version are written back from the
// database.
func (s *PostStore) Create(p *models.Post) error {
	p.OnCreate()
	if p.Slug == "" {
		p.Slug = slug.Generate(p.Title)
	}

	err := s.db.QueryRow(`
		INSERT INTO posts (title, slug, body, excerpt, status, published_at, author_id, category_id, created_at, updated_at, deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, version
	`, p.Title, p.Slug, p.Body, p.Excerpt, p.Status, p.PublishedAt,
		p.AuthorID, p.CategoryID, p.CreatedAt, p.UpdatedAt, p.Deleted,
	).Scan(&p.ID, &p.Version)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// Update fires the pre-update hook and persists the post under the
// optimistic version check.
func (s *PostStore) Update(p *models.Post) error {
	p.OnUpdate()

	res, err := s.db.Exec(`
		UPDATE posts SET
			title = $1, slug = $2, body = $3, excerpt = $4, status = $5,
			published_at = $6, category_id = $7, deleted = $8,
			updated_at = $9, version = version + 1
		WHERE id = $10 AND version = $11
	`, p.Title, p.Slug, p.Body, p.Excerpt, p.Status,
		p.PublishedAt, p.CategoryID, p.Deleted,
		p.UpdatedAt, p.ID, p.Version,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update post rows affected: %w", err)
	}
	if affected == 0 {
		return ErrVersionConflict
	}
	p.Version++
	return nil
}

// SoftDelete flags a post as deleted. The row is retained.
func (s *PostStore) SoftDelete(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE posts SET deleted = TRUE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("soft delete post: %w", err)
	}
	return nil
}

// IncrementViews bumps the view counter without touching the audit
// fields; a page view is not an edit.
func (s *PostStore) IncrementViews(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE posts SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment post views: %w", err)
	}
	return nil
}
