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

// CategoryStore manages categories in the database. It invokes the
// entity lifecycle hooks before inserts and updates, and applies the
// optimistic version check on every update.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, color_code, display_order, parent_id, version, created_at, updated_at, deleted`

// scanCategory scans a row into a Category struct. The parent pointer is
// resolved separately by the tree builders.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, *uuid.UUID, error) {
	var c models.Category
	var parentID *uuid.UUID
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.ColorCode, &c.DisplayOrder,
		&parentID, &c.Version, &c.CreatedAt, &c.UpdatedAt, &c.Deleted,
	)
	if err != nil {
		return nil, nil, err
	}
	return &c, parentID, nil
}

// List returns all non-deleted categories ordered by display_order. The
// returned nodes are not linked; use Tree for a linked hierarchy.
func (s *CategoryStore) List() ([]*models.Category, error) {
	rows, err := s.db.Query(`
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE deleted = FALSE
		ORDER BY display_order, name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []*models.Category
	for rows.Next() {
		c, _, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// Tree loads all non-deleted categories and links them into their
// parent/children hierarchy, returning the roots. Linking goes through
// AddChild so the in-memory invariants (mutual consistency, acyclicity)
// hold for whatever is in the table.
func (s *CategoryStore) Tree() ([]*models.Category, error) {
	rows, err := s.db.Query(`
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE deleted = FALSE
		ORDER BY display_order, name
	`)
	if err != nil {
		return nil, fmt.Errorf("load category tree: %w", err)
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]*models.Category)
	parents := make(map[uuid.UUID]uuid.UUID)
	var ordered []*models.Category

	for rows.Next() {
		c, parentID, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		byID[c.ID] = c
		if parentID != nil {
			parents[c.ID] = *parentID
		}
		ordered = append(ordered, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var roots []*models.Category
	for _, c := range ordered {
		parentID, ok := parents[c.ID]
		if !ok {
			roots = append(roots, c)
			continue
		}
		parent, ok := byID[parentID]
		if !ok {
			// Parent soft-deleted out from under the child; treat as root.
			roots = append(roots, c)
			continue
		}
		if err := parent.AddChild(c); err != nil {
			return nil, fmt.Errorf("link category %s under %s: %w", c.Slug, parent.Slug, err)
		}
	}
	return roots, nil
}

// FlatTree returns categories depth-first in display order, useful for
// indented dropdowns. Depth is available on each node via Depth().
func (s *CategoryStore) FlatTree() ([]*models.Category, error) {
	roots, err := s.Tree()
	if err != nil {
		return nil, err
	}
	var result []*models.Category
	var walk func(nodes []*models.Category)
	walk = func(nodes []*models.Category) {
		for _, c := range nodes {
			result = append(result, c)
			if c.HasChildren() {
				walk(c.Children)
			}
		}
	}
	walk(roots)
	return result, nil
}

// FindByID retrieves a non-deleted category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1 AND deleted = FALSE`, id)
	c, _, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a non-deleted category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(categorySlug string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE slug = $1 AND deleted = FALSE`, categorySlug)
	c, _, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// Create fires the pre-persist hook and inserts the category. An empty
// slug is derived from the name. The database assigns the identity; ID
// and Version are written back.
func (s *CategoryStore) Create(c *models.Category) error {
	c.OnCreate()
	if c.Slug == "" {
		c.Slug = slug.Generate(c.Name)
	}

	var parentID *uuid.UUID
	if c.Parent != nil {
		parentID = &c.Parent.ID
	}
	err := s.db.QueryRow(`
		INSERT INTO categories (name, slug, description, color_code, display_order, parent_id, created_at, updated_at, deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, version
	`, c.Name, c.Slug, c.Description, c.ColorCode, c.DisplayOrder, parentID,
		c.CreatedAt, c.UpdatedAt, c.Deleted,
	).Scan(&c.ID, &c.Version)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// Update fires the pre-update hook and persists the category, guarded by
// the optimistic version check. Returns ErrVersionConflict when the row
// was modified since this instance was loaded.
func (s *CategoryStore) Update(c *models.Category) error {
	c.OnUpdate()

	var parentID *uuid.UUID
	if c.Parent != nil {
		parentID = &c.Parent.ID
	}
	res, err := s.db.Exec(`
		UPDATE categories SET
			name = $1, slug = $2, description = $3, color_code = $4,
			display_order = $5, parent_id = $6, deleted = $7,
			updated_at = $8, version = version + 1
		WHERE id = $9 AND version = $10
	`, c.Name, c.Slug, c.Description, c.ColorCode,
		c.DisplayOrder, parentID, c.Deleted,
		c.UpdatedAt, c.ID, c.Version,
	)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update category rows affected: %w", err)
	}
	if affected == 0 {
		return ErrVersionConflict
	}
	c.Version++
	return nil
}

// SoftDelete flags a single category as deleted. The row is retained.
func (s *CategoryStore) SoftDelete(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE categories SET deleted = TRUE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("soft delete category: %w", err)
	}
	return nil
}

// Restore clears the deleted flag on a single category.
func (s *CategoryStore) Restore(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE categories SET deleted = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("restore category: %w", err)
	}
	return nil
}

// SoftDeleteSubtree flags a category and every descendant as deleted in
// one bulk statement, returning the number of affected rows. This is the
// cascade counterpart of the entity-level soft delete.
func (s *CategoryStore) SoftDeleteSubtree(id uuid.UUID) (int64, error) {
	res, err := s.db.Exec(`
		WITH RECURSIVE subtree AS (
			SELECT id FROM categories WHERE id = $1
			UNION ALL
			SELECT c.id FROM categories c
			JOIN subtree s ON c.parent_id = s.id
		)
		UPDATE categories SET deleted = TRUE, updated_at = now()
		WHERE id IN (SELECT id FROM subtree)
	`, id)
	if err != nil {
		return 0, fmt.Errorf("soft delete subtree: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("soft delete subtree rows affected: %w", err)
	}
	return affected, nil
}
