package models

import "github.com/google/uuid"

// Comment is a reader comment on a post. Replies nest one level via
// ParentID; deeper threads are flattened by the store.
type Comment struct {
	Entity

	PostID      uuid.UUID  `json:"post_id"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	AuthorName  string     `json:"author_name"`
	AuthorEmail string     `json:"-"` // Kept out of public payloads
	Body        string     `json:"body"`
	Approved    bool       `json:"approved"`
}

// Approve marks the comment as visible. Idempotent.
func (c *Comment) Approve() {
	c.Approved = true
}

// IsReply returns true if the comment answers another comment.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}
