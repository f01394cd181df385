// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// newEntityHash is the identity hash shared by all unsaved entities.
// Unsaved entities are never equal to each other, so a shared hash is
// safe for hash-table usage as long as Equals is consulted.
const newEntityHash = 31

// Entity carries the audit metadata shared by every persistent model:
// surrogate identity, optimistic-lock version, creation/update timestamps
// and a soft-delete flag. Concrete models embed it.
//
// The stores own persistence; Entity only guarantees consistent audit
// state. OnCreate and OnUpdate are invoked by the store immediately
// before the first insert and before every subsequent update.
type Entity struct {
	ID        uuid.UUID `json:"id"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Deleted   bool      `json:"deleted"`
}

// IsNew reports whether the entity has never been persisted.
// The ID is assigned by the database on first insert.
func (e *Entity) IsNew() bool {
	return e.ID == uuid.Nil
}

// IsDeleted reports whether the entity is soft-deleted.
func (e *Entity) IsDeleted() bool {
	return e.Deleted
}

// MarkDeleted soft-deletes the entity. The row is retained; physical
// removal is a store concern. Idempotent.
func (e *Entity) MarkDeleted() {
	e.Deleted = true
}

// Restore clears the soft-delete flag. Idempotent.
func (e *Entity) Restore() {
	e.Deleted = false
}

// SetDeleted normalizes the soft-delete flag. A nil value coerces to
// false so callers never observe an absent flag.
func (e *Entity) SetDeleted(deleted *bool) {
	if deleted == nil {
		e.Deleted = false
		return
	}
	e.Deleted = *deleted
}

// OnCreate is the pre-persist hook. It sets CreatedAt exactly once and
// aligns UpdatedAt with it, so a freshly created entity has equal
// timestamps. An already-set CreatedAt is never overwritten.
func (e *Entity) OnCreate() {
	now := time.Now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
}

// OnUpdate is the pre-update hook. It refreshes UpdatedAt and leaves
// CreatedAt untouched.
func (e *Entity) OnUpdate() {
	e.UpdatedAt = time.Now()
}

// Equals implements identity-based equality: two entities are equal iff
// they are the same instance, or both have been persisted and carry the
// same ID. An unsaved entity is never equal to any other entity, even one
// with identical field values — an unsaved record has no durable identity
// yet.
func (e *Entity) Equals(other *Entity) bool {
	if e == other {
		return e != nil
	}
	if e == nil || other == nil {
		return false
	}
	if e.ID == uuid.Nil || other.ID == uuid.Nil {
		return false
	}
	return e.ID == other.ID
}

// IdentityHash returns a hash consistent with Equals: derived from the ID
// when persisted, a fixed constant otherwise.
func (e *Entity) IdentityHash() int {
	if e.ID == uuid.Nil {
		return newEntityHash
	}
	return int(binary.BigEndian.Uint64(e.ID[:8]))
}

// String renders the audit fields. Concrete models prepend their own
// identifying fields and must never include secrets.
func (e *Entity) String() string {
	return fmt.Sprintf("id=%s version=%d createdAt=%s updatedAt=%s deleted=%t",
		e.ID, e.Version, e.CreatedAt.Format(time.RFC3339), e.UpdatedAt.Format(time.RFC3339), e.Deleted)
}
