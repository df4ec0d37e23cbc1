package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/outfitcult/internal/db"
	"gorm.io/gorm"
)

// MaxSlugLength caps derived slugs.
const MaxSlugLength = 100

var (
	slugSpaces  = regexp.MustCompile(`\s+`)
	slugInvalid = regexp.MustCompile(`[^\w-]`)
)

// Slugify lower-cases title, turns whitespace runs into hyphens, strips
// everything that is not a word character or hyphen, and truncates the
// result to MaxSlugLength.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugSpaces.ReplaceAllString(slug, "-")
	slug = slugInvalid.ReplaceAllString(slug, "")
	if len(slug) > MaxSlugLength {
		slug = slug[:MaxSlugLength]
	}
	return slug
}

// maxSlugAttempts bounds insert retries after a concurrent writer took the slug.
const maxSlugAttempts = 5

// uniqueSlug returns base, or base with a "-N" suffix when the slug is
// already taken. The result never exceeds MaxSlugLength.
func uniqueSlug(tx *gorm.DB, base string) (string, error) {
	slug, _, err := nextFreeSlug(tx, base, 1)
	return slug, err
}

// nextFreeSlug checks candidates starting at suffix n (1 means no suffix)
// and returns the first free one with its n.
func nextFreeSlug(tx *gorm.DB, base string, from int) (string, int, error) {
	if base == "" {
		base = "post"
	}

	for n := from; n <= 1000; n++ {
		candidate := base
		if n > 1 {
			suffix := fmt.Sprintf("-%d", n)
			trimmed := base
			if len(trimmed)+len(suffix) > MaxSlugLength {
				trimmed = trimmed[:MaxSlugLength-len(suffix)]
			}
			candidate = trimmed + suffix
		}

		var count int64
		if err := tx.Model(&db.Post{}).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", 0, err
		}
		if count == 0 {
			return candidate, n, nil
		}
	}
	return "", 0, fmt.Errorf("no free slug for %q", base)
}

// createWithUniqueSlug inserts post under a free slug derived from base.
// A unique-index conflict from a concurrent insert moves on to the next
// suffix. Each attempt runs in its own savepoint so an enclosing
// transaction stays usable.
func createWithUniqueSlug(tx *gorm.DB, post *db.Post, base string) error {
	from := 1
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		slug, n, err := nextFreeSlug(tx, base, from)
		if err != nil {
			return err
		}
		post.Slug = slug

		err = tx.Transaction(func(inner *gorm.DB) error {
			return inner.Create(post).Error
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		from = n + 1
	}
	return fmt.Errorf("slug %q still taken after %d attempts", base, maxSlugAttempts)
}
