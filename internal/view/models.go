package view

import (
	"html/template"

	"github.com/outfitcult/internal/db"
)

// Card is a post in a listing grid.
type Card struct {
	Title        string
	Description  string
	URL          string
	ImageURL     string
	Author       string
	AuthorAvatar string
	Date         string
}

// Image is one entry of a detail page gallery.
type Image struct {
	URL    string
	Alt    string
	Width  int
	Height int
}

// Detail is the full post page.
type Detail struct {
	Card
	Content template.HTML
	Images  []Image
}

// DashboardItem is a row in the author's own post list.
type DashboardItem struct {
	ID        string
	Title     string
	URL       string
	Status    string
	Published bool
	Date      string
}

// PostURL is the single public address of a post.
func PostURL(slug string) string {
	return "/blog/" + slug
}

func NewCard(post *db.Post) Card {
	return Card{
		Title:        post.Title,
		Description:  post.Description,
		URL:          PostURL(post.Slug),
		ImageURL:     ImageOrPlaceholder(post.FeaturedImageURL),
		Author:       AuthorDisplay(post),
		AuthorAvatar: AuthorAvatar(post),
		Date:         FormatDate(post.CreatedAt),
	}
}

func NewCards(posts []db.Post) []Card {
	cards := make([]Card, 0, len(posts))
	for i := range posts {
		cards = append(cards, NewCard(&posts[i]))
	}
	return cards
}

// NewDetail renders the post content and orders its images.
func NewDetail(post *db.Post) (Detail, error) {
	content, err := RenderContent(post.Content)
	if err != nil {
		return Detail{}, err
	}

	images := make([]Image, 0, len(post.Images))
	for _, img := range SortImages(post.Images) {
		alt := img.AltText
		if alt == "" {
			alt = post.Title
		}
		images = append(images, Image{URL: img.ImageURL, Alt: alt, Width: img.Width, Height: img.Height})
	}

	return Detail{Card: NewCard(post), Content: content, Images: images}, nil
}

func NewDashboardItem(post *db.Post) DashboardItem {
	return DashboardItem{
		ID:        post.ID,
		Title:     post.Title,
		URL:       PostURL(post.Slug),
		Status:    post.Status,
		Published: post.IsPublished(),
		Date:      FormatDate(post.CreatedAt),
	}
}

func NewDashboardItems(posts []db.Post) []DashboardItem {
	items := make([]DashboardItem, 0, len(posts))
	for i := range posts {
		items = append(items, NewDashboardItem(&posts[i]))
	}
	return items
}
