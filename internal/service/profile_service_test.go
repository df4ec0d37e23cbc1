package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/outfitcult/internal/logger"
)

func TestProfileService_UpdateReplacesAvatar(t *testing.T) {
	gdb := setupServiceTestDB(t)
	store := newMemoryStorage()
	user := createTestUser(t, gdb, "profiled")
	svc := NewProfileService(gdb, store, logger.Discard())

	first := testPNG(t, "avatar.png")
	profile, err := svc.Update(context.Background(), user.ID, ProfileInput{DisplayName: "  Jo  ", Avatar: &first})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if profile.DisplayName != "Jo" {
		t.Fatalf("expected trimmed display name, got %q", profile.DisplayName)
	}
	firstKey := profile.AvatarKey
	if firstKey == "" || !strings.HasSuffix(profile.AvatarURL, firstKey) {
		t.Fatalf("avatar not stored: %+v", profile)
	}

	second := testPNG(t, "avatar2.png")
	profile, err = svc.Update(context.Background(), user.ID, ProfileInput{DisplayName: "Jo", Avatar: &second})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if profile.AvatarKey == firstKey {
		t.Fatalf("avatar not replaced")
	}
	if len(store.deletes) != 1 || store.deletes[0] != firstKey {
		t.Fatalf("expected old avatar deleted, got %v", store.deletes)
	}

	loaded, err := svc.Get(user.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.AvatarKey != profile.AvatarKey {
		t.Fatalf("persisted avatar mismatch")
	}
}

func TestProfileService_UpdateValidates(t *testing.T) {
	gdb := setupServiceTestDB(t)
	store := newMemoryStorage()
	user := createTestUser(t, gdb, "validated")
	svc := NewProfileService(gdb, store, logger.Discard())

	_, err := svc.Update(context.Background(), user.ID, ProfileInput{DisplayName: strings.Repeat("x", 81)})
	verr, ok := AsValidationError(err)
	if !ok || verr.Fields["display_name"] == "" {
		t.Fatalf("expected display name error, got %v", err)
	}

	_, err = svc.Update(context.Background(), user.ID, ProfileInput{DisplayName: " "})
	if _, ok := AsValidationError(err); !ok {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}
	if store.uploads != 0 {
		t.Fatalf("no upload expected, got %d", store.uploads)
	}
}

func TestProfileService_GetMissing(t *testing.T) {
	svc := NewProfileService(setupServiceTestDB(t), newMemoryStorage(), logger.Discard())
	if _, err := svc.Get("nobody"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}
