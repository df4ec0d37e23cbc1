package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/outfitcult/internal/db"
	"gorm.io/gorm"
)

func seedPost(t *testing.T, gdb *gorm.DB, userID *string, slug, status string, created time.Time) *db.Post {
	t.Helper()
	post := db.Post{
		UserID:      userID,
		Title:       slug,
		Description: "d",
		Content:     "c",
		Slug:        slug,
		Status:      status,
		CreatedAt:   created,
	}
	if err := gdb.Create(&post).Error; err != nil {
		t.Fatalf("seed post %s: %v", slug, err)
	}
	return &post
}

func TestPostService_PublicQueriesSkipDrafts(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	seedPost(t, gdb, nil, "visible", db.PostStatusPublished, base)
	seedPost(t, gdb, nil, "hidden", db.PostStatusDraft, base.Add(time.Hour))

	list, err := svc.ListPublished(0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Slug != "visible" {
		t.Fatalf("expected only the published post, got %+v", list)
	}

	if _, err := svc.GetPublishedBySlug("hidden"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected draft to be not found, got %v", err)
	}
	if _, err := svc.GetPublishedBySlug("missing"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestPostService_BlogIndexSplitsFeatured(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 12; i++ {
		seedPost(t, gdb, nil, fmt.Sprintf("post-%02d", i), db.PostStatusPublished, base.Add(time.Duration(i)*time.Hour))
	}

	index, err := svc.BlogIndex()
	if err != nil {
		t.Fatalf("blog index: %v", err)
	}
	if index.Featured == nil || index.Featured.Slug != "post-11" {
		t.Fatalf("expected newest post featured, got %+v", index.Featured)
	}
	if len(index.Recent) != 9 {
		t.Fatalf("expected 9 recent posts, got %d", len(index.Recent))
	}
	if index.Recent[0].Slug != "post-10" || index.Recent[8].Slug != "post-02" {
		t.Fatalf("unexpected recent order: first %s last %s", index.Recent[0].Slug, index.Recent[8].Slug)
	}

	latest, err := svc.Latest(6)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(latest) != 6 {
		t.Fatalf("expected 6 latest posts, got %d", len(latest))
	}
}

func TestPostService_BlogIndexEmpty(t *testing.T) {
	svc := NewPostService(setupServiceTestDB(t))
	index, err := svc.BlogIndex()
	if err != nil {
		t.Fatalf("blog index: %v", err)
	}
	if index.Featured != nil || len(index.Recent) != 0 {
		t.Fatalf("expected empty index, got %+v", index)
	}
}

func TestPostService_DetailLoadsProfileAndImages(t *testing.T) {
	gdb := setupServiceTestDB(t)
	user := createTestUser(t, gdb, "stylist")
	authoring := newTestAuthoring(gdb, newMemoryStorage())

	input := draftWithImages(t, "Layered Look", 2)
	input.AuthorID = &user.ID
	if _, err := authoring.Create(context.Background(), input); err != nil {
		t.Fatalf("create: %v", err)
	}

	post, err := NewPostService(gdb).GetPublishedBySlug("layered-look")
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if post.Profile == nil || post.Profile.DisplayName != "Display stylist" {
		t.Fatalf("expected profile to be loaded, got %+v", post.Profile)
	}
	if len(post.Images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(post.Images))
	}
}

func TestPostService_DashboardListsOwnPostsNewestFirst(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	me := createTestUser(t, gdb, "me")
	other := createTestUser(t, gdb, "someone")
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	seedPost(t, gdb, &me.ID, "older", db.PostStatusPublished, base)
	seedPost(t, gdb, &me.ID, "newer-draft", db.PostStatusDraft, base.Add(time.Hour))
	seedPost(t, gdb, &other.ID, "not-mine", db.PostStatusPublished, base.Add(2*time.Hour))

	posts, err := svc.ListByAuthor(me.ID)
	if err != nil {
		t.Fatalf("list by author: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if posts[0].Slug != "newer-draft" || posts[1].Slug != "older" {
		t.Fatalf("unexpected order: %s, %s", posts[0].Slug, posts[1].Slug)
	}
}

func TestPostService_DeleteLeavesImages(t *testing.T) {
	gdb := setupServiceTestDB(t)
	user := createTestUser(t, gdb, "deleter")
	authoring := newTestAuthoring(gdb, newMemoryStorage())
	svc := NewPostService(gdb)

	input := draftWithImages(t, "Short Lived", 2)
	input.AuthorID = &user.ID
	post, err := authoring.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(post.ID, user.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetOwned(post.ID, user.ID); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected deleted post to be gone, got %v", err)
	}

	images, err := NewPostImageService(gdb).ListByPost(post.ID)
	if err != nil {
		t.Fatalf("list images: %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("expected orphaned images to remain, got %d", len(images))
	}

	if err := svc.Delete(post.ID, user.ID); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected second delete to report not found, got %v", err)
	}
}

func TestPostService_DeleteIsOwnerScoped(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	owner := createTestUser(t, gdb, "owner")
	intruder := createTestUser(t, gdb, "intruder")

	post := seedPost(t, gdb, &owner.ID, "kept", db.PostStatusPublished, time.Now())
	if err := svc.Delete(post.ID, intruder.ID); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
	if _, err := svc.GetOwned(post.ID, owner.ID); err != nil {
		t.Fatalf("post should survive: %v", err)
	}
}

func TestPostImageService_NextOrderIndex(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostImageService(gdb)

	next, err := svc.NextOrderIndex("none")
	if err != nil || next != 0 {
		t.Fatalf("expected 0 for no images, got %d (%v)", next, err)
	}

	order := 4
	if err := svc.Create(&db.PostImage{PostID: "p", ImageURL: "u", OrderIndex: &order}); err != nil {
		t.Fatalf("create image: %v", err)
	}
	next, err = svc.NextOrderIndex("p")
	if err != nil || next != 5 {
		t.Fatalf("expected 5, got %d (%v)", next, err)
	}
}

func TestPostService_NewPostTopsDashboard(t *testing.T) {
	gdb := setupServiceTestDB(t)
	user := createTestUser(t, gdb, "fresh")
	seedPost(t, gdb, &user.ID, "earlier", db.PostStatusPublished, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC))

	post, err := newTestAuthoring(gdb, newMemoryStorage()).Create(context.Background(), DraftInput{
		Title:       "My Look",
		Description: "d",
		Content:     "c",
		AuthorID:    &user.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if post.Slug != "my-look" || len(post.Images) != 0 {
		t.Fatalf("unexpected post %+v", post)
	}

	posts, err := NewPostService(gdb).ListByAuthor(user.ID)
	if err != nil {
		t.Fatalf("list by author: %v", err)
	}
	if len(posts) != 2 || posts[0].ID != post.ID {
		t.Fatalf("expected new post first, got %+v", posts)
	}
}
