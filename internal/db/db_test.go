package db

import (
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:db-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := Open("sqlite", dsn, false)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = Close(gdb) })
	return gdb
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open("oracle", "", false); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestEnsureUserCreatesUserAndProfile(t *testing.T) {
	gdb := setupTestDB(t)

	user, err := EnsureUser(gdb, " stylist ", "secret-pass", "")
	if err != nil {
		t.Fatalf("ensure user: %v", err)
	}
	if user == nil || user.ID == "" {
		t.Fatal("expected user with generated id")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret-pass")); err != nil {
		t.Fatalf("expected bcrypt hash: %v", err)
	}

	var profile Profile
	if err := gdb.First(&profile, "user_id = ?", user.ID).Error; err != nil {
		t.Fatalf("expected profile: %v", err)
	}
	if profile.DisplayName != "stylist" {
		t.Fatalf("expected display name to default to username, got %q", profile.DisplayName)
	}

	again, err := EnsureUser(gdb, "stylist", "other", "Someone")
	if err != nil {
		t.Fatalf("ensure existing user: %v", err)
	}
	if again.ID != user.ID {
		t.Fatalf("expected existing user to be returned")
	}

	var count int64
	gdb.Model(&User{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected one user, got %d", count)
	}
}

func TestEnsureUserSkipsBlankCredentials(t *testing.T) {
	gdb := setupTestDB(t)

	user, err := EnsureUser(gdb, "", "", "")
	if err != nil || user != nil {
		t.Fatalf("expected no-op, got %v, %v", user, err)
	}
}

func TestPostImageOrderDefaultsToZero(t *testing.T) {
	three := 3
	if (PostImage{}).Order() != 0 {
		t.Fatal("expected missing order index to be 0")
	}
	if (PostImage{OrderIndex: &three}).Order() != 3 {
		t.Fatal("expected explicit order index")
	}
}
