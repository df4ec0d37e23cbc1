package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// Post 定义了文章模型
type Post struct {
	ID               string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID           *string   `gorm:"type:varchar(36);index" json:"user_id,omitempty"`
	AuthorName       string    `gorm:"size:100" json:"author_name,omitempty"`
	Title            string    `gorm:"size:200;not null" json:"title"`
	Description      string    `gorm:"size:500" json:"description"`
	Content          string    `gorm:"type:text" json:"content"`
	Slug             string    `gorm:"size:100;uniqueIndex" json:"slug"`
	FeaturedImageURL string    `json:"featured_image_url"`
	FeaturedImageKey string    `json:"-"`
	Status           string    `gorm:"size:16;index;default:published" json:"status"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Profile *Profile    `gorm:"foreignKey:UserID;references:UserID" json:"profile,omitempty"`
	Images  []PostImage `gorm:"foreignKey:PostID" json:"images,omitempty"`
}

// BeforeCreate assigns the opaque identifier.
func (p *Post) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// IsPublished reports whether public views may show the post.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// OwnedBy reports whether userID owns the post.
func (p *Post) OwnedBy(userID string) bool {
	return p.UserID != nil && *p.UserID == userID
}

// PostImage 是文章的附加图片，依附于已存在的文章。
type PostImage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PostID     string    `gorm:"type:varchar(36);index;not null" json:"post_id"`
	ImageURL   string    `gorm:"not null" json:"image_url"`
	ImageKey   string    `json:"-"`
	AltText    string    `gorm:"size:200" json:"alt_text,omitempty"`
	OrderIndex *int      `json:"order_index,omitempty"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	CreatedAt  time.Time `json:"created_at"`
}

// Order returns the display order, treating a missing index as 0.
func (i PostImage) Order() int {
	if i.OrderIndex == nil {
		return 0
	}
	return *i.OrderIndex
}
