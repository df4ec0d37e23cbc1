package service

import (
	"github.com/outfitcult/internal/db"
	"gorm.io/gorm"
)

// PostImageService handles additional images attached to posts.
type PostImageService struct {
	db *gorm.DB
}

// NewPostImageService creates a PostImageService instance.
func NewPostImageService(gdb *gorm.DB) *PostImageService {
	return &PostImageService{db: gdb}
}

// WithTx returns a copy bound to tx.
func (s *PostImageService) WithTx(tx *gorm.DB) *PostImageService {
	return &PostImageService{db: tx}
}

// ListByPost returns the images of a post in insertion order.
func (s *PostImageService) ListByPost(postID string) ([]db.PostImage, error) {
	var items []db.PostImage
	if err := s.db.Where("post_id = ?", postID).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Create inserts one image row.
func (s *PostImageService) Create(item *db.PostImage) error {
	return s.db.Create(item).Error
}

// NextOrderIndex returns the order index that follows the existing images.
func (s *PostImageService) NextOrderIndex(postID string) (int, error) {
	maxOrder := -1
	if err := s.db.Model(&db.PostImage{}).
		Where("post_id = ?", postID).
		Select("COALESCE(MAX(order_index), -1)").
		Scan(&maxOrder).Error; err != nil {
		return 0, err
	}
	return maxOrder + 1, nil
}
