package service

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/outfitcult/internal/db"
	"gorm.io/gorm"
)

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"My Look", "my-look"},
		{"  Spring   Outfit  ", "spring-outfit"},
		{"Denim & Boots!", "denim--boots"},
		{"Already-slugged_title", "already-slugged_title"},
		{"Café Style", "caf-style"},
		{"", ""},
		{"\tTabs\nand newlines\t", "tabs-and-newlines"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSlugifyOutputShape(t *testing.T) {
	allowed := regexp.MustCompile(`^[a-z0-9_-]*$`)
	inputs := []string{
		strings.Repeat("Long Title ", 40),
		"UPPER lower 123",
		"<script>alert(1)</script>",
		"../../etc/passwd",
	}
	for _, in := range inputs {
		got := Slugify(in)
		if len(got) > MaxSlugLength {
			t.Errorf("Slugify(%q) longer than %d: %d", in, MaxSlugLength, len(got))
		}
		if !allowed.MatchString(got) {
			t.Errorf("Slugify(%q) = %q contains disallowed characters", in, got)
		}
	}
}

func TestUniqueSlugKeepsLengthWithSuffix(t *testing.T) {
	gdb := setupServiceTestDB(t)
	base := strings.Repeat("a", MaxSlugLength)
	seedPost(t, gdb, nil, base, db.PostStatusPublished, time.Now())

	got, err := uniqueSlug(gdb, base)
	if err != nil {
		t.Fatalf("unique slug: %v", err)
	}
	if len(got) != MaxSlugLength || !strings.HasSuffix(got, "-2") {
		t.Fatalf("unexpected slug %q (%d chars)", got, len(got))
	}
}

func TestUniqueSlugFallsBackForEmptyBase(t *testing.T) {
	gdb := setupServiceTestDB(t)
	got, err := uniqueSlug(gdb, "")
	if err != nil || got != "post" {
		t.Fatalf("expected post, got %q (%v)", got, err)
	}
}

// takeSlugOnce makes the next post insert collide: right before it runs, a
// rival row with the same slug is written on the same connection.
func takeSlugOnce(t *testing.T, gdb *gorm.DB) *bool {
	t.Helper()
	taken := false
	err := gdb.Callback().Create().Before("gorm:create").Register("test:take_slug", func(d *gorm.DB) {
		post, ok := d.Statement.Dest.(*db.Post)
		if taken || !ok {
			return
		}
		taken = true
		rival := db.Post{Title: "rival", Description: "d", Content: "c", Slug: post.Slug, Status: db.PostStatusPublished}
		if err := d.Session(&gorm.Session{NewDB: true}).Create(&rival).Error; err != nil {
			d.AddError(err)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
	return &taken
}

func TestCreateWithUniqueSlugRetriesOnConflict(t *testing.T) {
	gdb := setupServiceTestDB(t)
	taken := takeSlugOnce(t, gdb)

	post := db.Post{Title: "Race Look", Description: "d", Content: "c", Status: db.PostStatusPublished}
	if err := createWithUniqueSlug(gdb, &post, "race-look"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if !*taken {
		t.Fatal("expected the first insert to collide")
	}
	if post.Slug != "race-look-2" {
		t.Fatalf("expected race-look-2, got %q", post.Slug)
	}

	var stored db.Post
	if err := gdb.First(&stored, "id = ?", post.ID).Error; err != nil {
		t.Fatalf("load post: %v", err)
	}
	if stored.Slug != "race-look-2" {
		t.Fatalf("unexpected stored slug %q", stored.Slug)
	}
}

func TestCreateWithUniqueSlugKeepsOuterTransactionUsable(t *testing.T) {
	gdb := setupServiceTestDB(t)
	takeSlugOnce(t, gdb)

	post := db.Post{Title: "Race Look", Description: "d", Content: "c", Status: db.PostStatusPublished}
	err := gdb.Transaction(func(tx *gorm.DB) error {
		if err := createWithUniqueSlug(tx, &post, "race-look"); err != nil {
			return err
		}
		order := 0
		return NewPostImageService(tx).Create(&db.PostImage{PostID: post.ID, ImageURL: "u", OrderIndex: &order})
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}

	images, err := NewPostImageService(gdb).ListByPost(post.ID)
	if err != nil || len(images) != 1 {
		t.Fatalf("expected the image row to commit with the post, got %d (%v)", len(images), err)
	}
}
