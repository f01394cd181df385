// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultMaxUses caps how often a single refresh token can be used
	// before the client must re-authenticate.
	DefaultMaxUses = 50

	// MinUseInterval is the shortest allowed gap between two uses of the
	// same token. Faster reuse indicates a misbehaving or cloned client.
	MinUseInterval = 10 * time.Second
)

var (
	// ErrTokenExpired is returned when a token is used past ExpiresAt.
	ErrTokenExpired = errors.New("refresh token has expired")

	// ErrTokenRevoked is returned when a revoked token is used.
	ErrTokenRevoked = errors.New("refresh token has been revoked")

	// ErrTokenExhausted is returned when a token has hit its use limit.
	ErrTokenExhausted = errors.New("refresh token use limit reached")

	// ErrTokenThrottled is returned when a token is reused too quickly.
	ErrTokenThrottled = errors.New("refresh token used too recently")
)

// RefreshToken is a long-lived credential that lets a client obtain new
// access tokens. Only the hash of the token value is stored. The entity
// tracks its own use counters; the store persists them.
type RefreshToken struct {
	Entity

	TokenHash  string     `json:"-"` // Never serialize the hash
	UserID     uuid.UUID  `json:"user_id"`
	ExpiresAt  time.Time  `json:"expires_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	UseCount   int        `json:"use_count"`
	MaxUses    int        `json:"max_uses"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

// IsExpired reports whether the token is past its expiry at the given
// instant.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// IsRevoked reports whether the token has been revoked.
func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsActive reports whether the token can still be used at the given
// instant: not expired, not revoked, not soft-deleted.
func (t *RefreshToken) IsActive(now time.Time) bool {
	return !t.IsExpired(now) && !t.IsRevoked() && !t.IsDeleted()
}

// Use records one use of the token at the given instant. It rejects
// expired, revoked, exhausted, and too-rapid uses with distinct errors,
// leaving the counters untouched on failure.
func (t *RefreshToken) Use(now time.Time) error {
	if t.IsRevoked() {
		return ErrTokenRevoked
	}
	if t.IsExpired(now) {
		return ErrTokenExpired
	}
	if t.MaxUses > 0 && t.UseCount >= t.MaxUses {
		return ErrTokenExhausted
	}
	if t.LastUsedAt != nil && now.Sub(*t.LastUsedAt) < MinUseInterval {
		return ErrTokenThrottled
	}
	t.UseCount++
	t.LastUsedAt = &now
	return nil
}

// Revoke marks the token as revoked at the given instant. Idempotent:
// the original revocation time is kept.
func (t *RefreshToken) Revoke(now time.Time) {
	if t.RevokedAt == nil {
		t.RevokedAt = &now
	}
}

// String renders the token without its hash.
func (t *RefreshToken) String() string {
	return fmt.Sprintf("RefreshToken{user=%s uses=%d/%d expires=%s %s}",
		t.UserID, t.UseCount, t.MaxUses, t.ExpiresAt.Format(time.RFC3339), t.Entity.String())
}
