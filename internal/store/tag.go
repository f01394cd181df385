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

// TagStore handles tags and the post_tags join table. UsageCount on the
// returned tags is computed from the join table, never stored.
type TagStore struct {
	db *sql.DB
}

// NewTagStore returns a new TagStore.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

// scanTag scans a row that includes the computed usage count.
func scanTag(scanner interface{ Scan(...any) error }) (*models.Tag, error) {
	var t models.Tag
	err := scanner.Scan(
		&t.ID, &t.Name, &t.Slug, &t.Version, &t.CreatedAt, &t.UpdatedAt, &t.Deleted,
		&t.UsageCount,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

const tagSelect = `
	SELECT t.id, t.name, t.slug, t.version, t.created_at, t.updated_at, t.deleted,
	       COUNT(pt.post_id) AS usage_count
	FROM tags t
	LEFT JOIN post_tags pt ON pt.tag_id = t.id
`

// List returns all non-deleted tags with usage counts, most used first.
func (s *TagStore) List() ([]*models.Tag, error) {
	rows, err := s.db.Query(tagSelect + `
		WHERE t.deleted = FALSE
		GROUP BY t.id
		ORDER BY usage_count DESC, t.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []*models.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// FindBySlug retrieves a non-deleted tag by slug. Returns nil if not found.
func (s *TagStore) FindBySlug(tagSlug string) (*models.Tag, error) {
	row := s.db.QueryRow(tagSelect+`
		WHERE t.slug = $1 AND t.deleted = FALSE
		GROUP BY t.id
	`, tagSlug)
	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by slug: %w", err)
	}
	return t, nil
}

// ListForPost returns the non-deleted tags attached to a post.
func (s *TagStore) ListForPost(postID uuid.UUID) ([]*models.Tag, error) {
	rows, err := s.db.Query(tagSelect+`
		WHERE t.deleted = FALSE
		  AND t.id IN (SELECT tag_id FROM post_tags WHERE post_id = $1)
		GROUP BY t.id
		ORDER BY t.name
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list tags for post: %w", err)
	}
	defer rows.Close()

	var tags []*models.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// Create fires the pre-persist hook and inserts the tag. An empty slug
// is derived from the name.
func (s *TagStore) Create(t *models.Tag) error {
	t.OnCreate()
	if t.Slug == "" {
		t.Slug = slug.Generate(t.Name)
	}
	err := s.db.QueryRow(`
		INSERT INTO tags (name, slug, created_at, updated_at, deleted)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, version
	`, t.Name, t.Slug, t.CreatedAt, t.UpdatedAt, t.Deleted,
	).Scan(&t.ID, &t.Version)
	if err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

// Attach links a tag to a post. Attaching an already linked pair is a
// no-op.
func (s *TagStore) Attach(postID, tagID uuid.UUID) error {
	_, err := s.db.Exec(`
		INSERT INTO post_tags (post_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, postID, tagID)
	if err != nil {
		return fmt.Errorf("attach tag: %w", err)
	}
	return nil
}

// Detach unlinks a tag from a post.
func (s *TagStore) Detach(postID, tagID uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM post_tags WHERE post_id = $1 AND tag_id = $2`, postID, tagID)
	if err != nil {
		return fmt.Errorf("detach tag: %w", err)
	}
	return nil
}

// SoftDelete flags a tag as deleted and unlinks it from every post.
func (s *TagStore) SoftDelete(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE tags SET deleted = TRUE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("soft delete tag: %w", err)
	}
	_, err = s.db.Exec(`DELETE FROM post_tags WHERE tag_id = $1`, id)
	if err != nil {
		return fmt.Errorf("soft delete tag links: %w", err)
	}
	return nil
}
