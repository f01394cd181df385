// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "errors"

// DefaultColorCode is the neutral display color assigned to categories
// that don't specify one.
const DefaultColorCode = "#6c757d"

var (
	// ErrNilChild is returned when a nil category is passed to AddChild.
	ErrNilChild = errors.New("child category cannot be nil")

	// ErrCategoryCycle is returned when linking a child would create a
	// cycle: the child is the category itself or one of its ancestors.
	ErrCategoryCycle = errors.New("would create a cycle: child cannot be an ancestor of this category")
)

// Category is a hierarchical content category. Each node owns its
// Children slice outright and holds a non-owning back-reference to its
// Parent; AddChild and RemoveChild keep the two sides consistent, so
// they can never drift apart. Posts can have at most one category.
type Category struct {
	Entity

	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	ColorCode    string `json:"color_code"`
	DisplayOrder int    `json:"display_order"`

	Parent   *Category   `json:"-"`
	Children []*Category `json:"children,omitempty"`
	Posts    []*Post     `json:"-"`
}

// NewCategory returns a category with initialized collections and the
// default display color.
func NewCategory(name, slug string) *Category {
	return &Category{
		Name:      name,
		Slug:      slug,
		ColorCode: DefaultColorCode,
		Children:  []*Category{},
		Posts:     []*Post{},
	}
}

// AddChild links child under c, updating both sides of the relation.
// If child currently belongs to another parent it is detached first, so
// a node is never a member of two children sets at once.
//
// The call fails without mutating any state when child is nil, or when
// linking it would close a cycle (child is c itself, or c is already a
// descendant of child).
func (c *Category) AddChild(child *Category) error {
	if child == nil {
		return ErrNilChild
	}
	if child == c || c.IsDescendantOf(child) {
		return ErrCategoryCycle
	}
	if c.containsChild(child) {
		return nil
	}
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	c.Children = append(c.Children, child)
	child.Parent = c
	return nil
}

// RemoveChild unlinks child from c and clears its parent reference.
// A nil child or one that is not currently a member is a no-op.
func (c *Category) RemoveChild(child *Category) {
	if child == nil {
		return
	}
	for i, existing := range c.Children {
		if existing == child || existing.Equals(&child.Entity) {
			c.Children = append(c.Children[:i], c.Children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

// IsDescendantOf reports whether c sits somewhere below ancestor in the
// tree, following parent links. A category is not a descendant of itself.
func (c *Category) IsDescendantOf(ancestor *Category) bool {
	if ancestor == nil {
		return false
	}
	for node := c.Parent; node != nil; node = node.Parent {
		if node == ancestor || node.Equals(&ancestor.Entity) {
			return true
		}
	}
	return false
}

// HasChildren reports whether the category has any child categories.
// A nil Children slice counts as empty.
func (c *Category) HasChildren() bool {
	return len(c.Children) > 0
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.Parent == nil
}

// Depth returns the number of parent links between c and its root.
// Roots have depth 0. Depth is derived, never stored.
func (c *Category) Depth() int {
	depth := 0
	for node := c.Parent; node != nil; node = node.Parent {
		depth++
	}
	return depth
}

// containsChild reports whether child is already a direct member of
// c.Children, by pointer or by persisted identity.
func (c *Category) containsChild(child *Category) bool {
	for _, existing := range c.Children {
		if existing == child || existing.Equals(&child.Entity) {
			return true
		}
	}
	return false
}
