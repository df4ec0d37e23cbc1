package service

import (
	"errors"

	"github.com/outfitcult/internal/db"
	"gorm.io/gorm"
)

var ErrPostNotFound = errors.New("post not found")

// PostService wraps post related database operations.
type PostService struct {
	db *gorm.DB
}

// BlogIndex is the /blog page: the most recent post plus the next nine.
type BlogIndex struct {
	Featured *db.Post
	Recent   []db.Post
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

func (s *PostService) published() *gorm.DB {
	return s.db.Model(&db.Post{}).
		Preload("Profile").
		Where("status = ?", db.PostStatusPublished)
}

// ListPublished returns published posts ordered by created time descending.
func (s *PostService) ListPublished(offset, limit int) ([]db.Post, error) {
	query := s.published().Order("created_at desc")
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var posts []db.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Latest returns the newest published posts for the home page strip.
func (s *PostService) Latest(limit int) ([]db.Post, error) {
	return s.ListPublished(0, limit)
}

// BlogIndex splits the newest published post from the following nine.
func (s *PostService) BlogIndex() (*BlogIndex, error) {
	head, err := s.ListPublished(0, 1)
	if err != nil {
		return nil, err
	}
	index := &BlogIndex{}
	if len(head) == 0 {
		return index, nil
	}
	index.Featured = &head[0]

	recent, err := s.ListPublished(1, 9)
	if err != nil {
		return nil, err
	}
	index.Recent = recent
	return index, nil
}

// GetPublishedBySlug fetches a published post with its author profile and images.
func (s *PostService) GetPublishedBySlug(slug string) (*db.Post, error) {
	var post db.Post
	err := s.published().
		Preload("Images", func(tx *gorm.DB) *gorm.DB { return tx.Order("id asc") }).
		Where("slug = ?", slug).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetPublished fetches a published post by identifier.
func (s *PostService) GetPublished(id string) (*db.Post, error) {
	var post db.Post
	if err := s.published().Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// ListByAuthor returns every post owned by userID regardless of status.
func (s *PostService) ListByAuthor(userID string) ([]db.Post, error) {
	var posts []db.Post
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// GetOwned fetches a post owned by userID with its images.
func (s *PostService) GetOwned(id, userID string) (*db.Post, error) {
	var post db.Post
	err := s.db.Preload("Images", func(tx *gorm.DB) *gorm.DB { return tx.Order("id asc") }).
		Where("id = ? AND user_id = ?", id, userID).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Delete removes a post owned by userID in a single statement. Its post
// images are not touched.
func (s *PostService) Delete(id, userID string) error {
	result := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&db.Post{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}
