package view

import (
	"bytes"
	"html/template"
	"sort"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/outfitcult/internal/db"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// PlaceholderImage is shown when a post has no featured image.
const PlaceholderImage = "/static/placeholder.svg"

const anonymousAuthor = "Anonymous"

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// FormatDate renders t as "January 2, 2006".
func FormatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

// AuthorDisplay picks the free-text author name, then the profile display
// name, then "Anonymous".
func AuthorDisplay(post *db.Post) string {
	if post == nil {
		return anonymousAuthor
	}
	if post.AuthorName != "" {
		return post.AuthorName
	}
	if post.Profile != nil && post.Profile.DisplayName != "" {
		return post.Profile.DisplayName
	}
	return anonymousAuthor
}

// AuthorAvatar returns the profile avatar URL, or "" when the post has none.
func AuthorAvatar(post *db.Post) string {
	if post == nil || post.Profile == nil {
		return ""
	}
	return post.Profile.AvatarURL
}

// ImageOrPlaceholder returns url unless it is empty.
func ImageOrPlaceholder(url string) string {
	if url == "" {
		return PlaceholderImage
	}
	return url
}

// SortImages returns a copy ordered by order index; a missing index counts
// as 0 and ties keep their original order.
func SortImages(images []db.PostImage) []db.PostImage {
	sorted := make([]db.PostImage, len(images))
	copy(sorted, images)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order() < sorted[j].Order()
	})
	return sorted
}

// RenderContent converts markdown to sanitized HTML. Raw HTML in the
// source never reaches the page unsanitized.
func RenderContent(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes())), nil
}
