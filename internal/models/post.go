// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

// Post represents a blog article. A post belongs to at most one category
// and one author; tags are attached through the post_tags join table.
type Post struct {
	Entity

	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Body        string     `json:"body"`
	Excerpt     *string    `json:"excerpt,omitempty"`
	Status      PostStatus `json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	AuthorID    uuid.UUID  `json:"author_id"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	ViewCount   int64      `json:"view_count"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// Publish transitions the post to published, stamping PublishedAt on the
// first publication only. Republishing keeps the original timestamp.
func (p *Post) Publish(now time.Time) {
	p.Status = PostStatusPublished
	if p.PublishedAt == nil {
		p.PublishedAt = &now
	}
}

// Archive transitions the post to archived. PublishedAt is kept so the
// post can be republished with its original date.
func (p *Post) Archive() {
	p.Status = PostStatusArchived
}
