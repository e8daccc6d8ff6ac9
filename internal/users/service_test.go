package users

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openTestDatabase(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestRegisterAndAuthenticate(t *testing.T) {
	db := openTestDatabase(t, "users_register")
	fixedNow := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service, err := NewService(ServiceConfig{
		Database: db,
		Clock:    func() time.Time { return fixedNow },
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	user, err := service.Register(context.Background(), "alice", "secret1", "alice@example.com")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.ID == 0 || user.Username != "alice" {
		t.Fatalf("unexpected registered user: %+v", user)
	}
	if user.PasswordHash == "secret1" {
		t.Fatal("password stored in plain text")
	}

	authenticated, err := service.Authenticate(context.Background(), "alice", "secret1")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if authenticated.ID != user.ID {
		t.Fatalf("expected same account, got %d and %d", authenticated.ID, user.ID)
	}
	if authenticated.LastLoginAt == nil || !authenticated.LastLoginAt.Equal(fixedNow) {
		t.Fatalf("expected last login refreshed to %v, got %v", fixedNow, authenticated.LastLoginAt)
	}
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	db := openTestDatabase(t, "users_duplicate")
	service, err := NewService(ServiceConfig{Database: db})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	if _, err := service.Register(context.Background(), "alice", "secret1", ""); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err = service.Register(context.Background(), "alice", "different", "")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected username taken, got %v", err)
	}
}

func TestRegisterRequiresCredentials(t *testing.T) {
	db := openTestDatabase(t, "users_required")
	service, err := NewService(ServiceConfig{Database: db})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	if _, err := service.Register(context.Background(), "  ", "secret", ""); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected missing credentials for blank username, got %v", err)
	}
	if _, err := service.Register(context.Background(), "bob", "", ""); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected missing credentials for blank password, got %v", err)
	}
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	db := openTestDatabase(t, "users_badcreds")
	service, err := NewService(ServiceConfig{Database: db})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	if _, err := service.Register(context.Background(), "alice", "secret1", ""); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := service.Authenticate(context.Background(), "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for wrong password, got %v", err)
	}
	// Unknown usernames answer identically so the endpoint is not a
	// username oracle.
	if _, err := service.Authenticate(context.Background(), "mallory", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}
}

func TestGetByIDMissingAccount(t *testing.T) {
	db := openTestDatabase(t, "users_missing")
	service, err := NewService(ServiceConfig{Database: db})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	if _, err := service.GetByID(context.Background(), 42); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
}
