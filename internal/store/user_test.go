// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// newTestUser builds an unsaved user for store tests.
func newTestUser(email string, role models.Role) *models.User {
	return &models.User{
		Email:       email,
		DisplayName: "Test User",
		Role:        role,
	}
}

func TestUserStoreCreate(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "test-create@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user := newTestUser(email, models.RoleAuthor)
	if err := s.Create(user, "testpass123"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if user.Version != 1 {
		t.Errorf("version: got %d, want 1", user.Version)
	}
	if user.IsDeleted() {
		t.Error("new user must not be deleted")
	}
	if user.PasswordHash == "" {
		t.Error("expected non-empty password hash")
	}
	if user.PasswordHash == "testpass123" {
		t.Error("password hash must not be plaintext")
	}
	if user.CreatedAt.IsZero() || !user.CreatedAt.Equal(user.UpdatedAt) {
		t.Error("first persist must set equal audit timestamps")
	}
}

func TestUserStoreFindByEmail(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "test-findbyemail@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	// Not found case.
	user, err := s.FindByEmail(email)
	if err != nil {
		t.Fatalf("FindByEmail (not found): %v", err)
	}
	if user != nil {
		t.Error("expected nil for non-existent user")
	}

	// Create and find.
	created := newTestUser(email, models.RoleAuthor)
	if err := s.Create(created, "pass"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	user, err = s.FindByEmail(email)
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}
	if !user.Equals(&created.Entity) {
		t.Errorf("identity mismatch: got %s, want %s", user.ID, created.ID)
	}
}

func TestUserStoreFindByID(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "test-findbyid@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	// Not found.
	user, err := s.FindByID(uuid.New())
	if err != nil {
		t.Fatalf("FindByID (not found): %v", err)
	}
	if user != nil {
		t.Error("expected nil for random UUID")
	}

	// Create and find.
	created := newTestUser(email, models.RoleAdmin)
	if err := s.Create(created, "pass"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	user, err = s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}
	if user.Email != email {
		t.Errorf("email: got %q, want %q", user.Email, email)
	}
}

func TestUserStoreList(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email1 := "test-list-a@store-test.local"
	email2 := "test-list-b@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email1, email2) })

	s.Create(newTestUser(email1, models.RoleAuthor), "pass")
	s.Create(newTestUser(email2, models.RoleReader), "pass")

	users, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	// Should contain at least our 2 test users (plus any existing seed data).
	if len(users) < 2 {
		t.Errorf("expected at least 2 users, got %d", len(users))
	}
}

func TestUserStoreVerifyPassword(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "test-checkpass@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user := newTestUser(email, models.RoleAuthor)
	if err := s.Create(user, "correct-password"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !s.VerifyPassword(user, "correct-password") {
		t.Error("expected VerifyPassword to return true for correct password")
	}
	if s.VerifyPassword(user, "wrong-password") {
		t.Error("expected VerifyPassword to return false for wrong password")
	}
	if s.VerifyPassword(user, "") {
		t.Error("expected VerifyPassword to return false for empty password")
	}
}

func TestUserStoreUpdateVersionConflict(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "test-conflict@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user := newTestUser(email, models.RoleAuthor)
	if err := s.Create(user, "pass"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	stale, err := s.FindByID(user.ID)
	if err != nil || stale == nil {
		t.Fatalf("FindByID: %v", err)
	}

	user.Bio = "winner"
	if err := s.Update(user); err != nil {
		t.Fatalf("first Update: %v", err)
	}

	stale.Bio = "loser"
	if err := s.Update(stale); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("stale Update error = %v, want ErrVersionConflict", err)
	}
}

func TestUserStoreSoftDelete(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "test-delete@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user := newTestUser(email, models.RoleReader)
	if err := s.Create(user, "pass"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.SoftDelete(user.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	found, _ := s.FindByID(user.ID)
	if found != nil {
		t.Error("expected nil after soft delete")
	}

	// Row survives for audit purposes.
	var deleted bool
	if err := db.QueryRow("SELECT deleted FROM users WHERE id = $1", user.ID).Scan(&deleted); err != nil {
		t.Fatalf("row lookup: %v", err)
	}
	if !deleted {
		t.Error("soft delete must retain the row")
	}
}

func TestUserStoreDuplicateEmail(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "test-dupe@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	if err := s.Create(newTestUser(email, models.RoleAuthor), "pass"); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	if err := s.Create(newTestUser(email, models.RoleAuthor), "pass"); err == nil {
		t.Error("expected error for duplicate email, got nil")
	}
}
