package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/outfitcult/internal/db"
	"github.com/outfitcult/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrUploadFailed  = errors.New("image upload failed")
	ErrPersistFailed = errors.New("saving post failed")
)

// DraftInput is what an author submits to create or edit a post.
type DraftInput struct {
	Title       string
	Description string
	Content     string
	AuthorID    *string
	AuthorName  string
	Featured    *storage.File
	Images      []storage.File
	AltTexts    []string
}

// AuthoringService turns submitted drafts into published posts with images.
type AuthoringService struct {
	db       *gorm.DB
	store    storage.Storage
	images   *PostImageService
	rollback bool
	now      func() time.Time
	log      *slog.Logger
}

// AuthoringOption configures an AuthoringService.
type AuthoringOption func(*AuthoringService)

// WithRollback controls whether a failed publish removes what it already
// created. Without it rows committed before the failure stay and uploaded
// blobs are left in storage.
func WithRollback(enabled bool) AuthoringOption {
	return func(s *AuthoringService) { s.rollback = enabled }
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) AuthoringOption {
	return func(s *AuthoringService) { s.now = now }
}

// NewAuthoringService creates an AuthoringService. Rollback is on by default.
func NewAuthoringService(gdb *gorm.DB, store storage.Storage, log *slog.Logger, opts ...AuthoringOption) *AuthoringService {
	s := &AuthoringService{
		db:       gdb,
		store:    store,
		images:   NewPostImageService(gdb),
		rollback: true,
		now:      time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates the draft, uploads the featured image, inserts the post
// as published and then uploads and links each additional image in
// selection order. The sequence is not cancelled when the caller goes away.
func (s *AuthoringService) Create(ctx context.Context, input DraftInput) (*db.Post, error) {
	if err := normalizeDraft(&input); err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)

	var uploaded []string
	post, err := s.create(ctx, input, &uploaded)
	if err != nil {
		s.log.Error("create post failed",
			"title", input.Title,
			"uploaded", len(uploaded),
			"rollback", s.rollback,
			"error", err,
		)
		if s.rollback {
			s.removeBlobs(ctx, uploaded)
		}
		return nil, err
	}

	s.log.Info("post published", "post_id", post.ID, "slug", post.Slug, "images", len(input.Images))
	return post, nil
}

func (s *AuthoringService) create(ctx context.Context, input DraftInput, uploaded *[]string) (*db.Post, error) {
	var featuredURL, featuredKey string
	if input.Featured != nil {
		key, err := s.upload(ctx, input.Featured)
		if err != nil {
			return nil, err
		}
		*uploaded = append(*uploaded, key)
		featuredKey = key
		featuredURL = s.store.PublicURL(key)
	}

	post := db.Post{
		UserID:           input.AuthorID,
		AuthorName:       input.AuthorName,
		Title:            input.Title,
		Description:      input.Description,
		Content:          input.Content,
		FeaturedImageURL: featuredURL,
		FeaturedImageKey: featuredKey,
		Status:           db.PostStatusPublished,
		CreatedAt:        s.now(),
	}

	persist := func(tx *gorm.DB) error {
		if err := createWithUniqueSlug(tx, &post, Slugify(input.Title)); err != nil {
			return fmt.Errorf("%w: %w", ErrPersistFailed, err)
		}

		return s.attachImages(ctx, s.images.WithTx(tx), post.ID, 0, input, uploaded)
	}

	var err error
	if s.rollback {
		err = s.db.WithContext(ctx).Transaction(persist)
	} else {
		err = persist(s.db.WithContext(ctx))
	}
	if err != nil {
		return nil, err
	}

	post.Images, err = s.images.ListByPost(post.ID)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// attachImages uploads each image and links it to postID, one after the
// other. The order index is start plus the position in the selection.
func (s *AuthoringService) attachImages(ctx context.Context, images *PostImageService, postID string, start int, input DraftInput, uploaded *[]string) error {
	for i := range input.Images {
		file := &input.Images[i]
		key, err := s.upload(ctx, file)
		if err != nil {
			return err
		}
		*uploaded = append(*uploaded, key)

		order := start + i
		row := db.PostImage{
			PostID:     postID,
			ImageURL:   s.store.PublicURL(key),
			ImageKey:   key,
			AltText:    altText(input.AltTexts, i),
			OrderIndex: &order,
			Width:      file.Width,
			Height:     file.Height,
		}
		if err := images.Create(&row); err != nil {
			return fmt.Errorf("%w: image %d: %w", ErrPersistFailed, i+1, err)
		}
	}
	return nil
}

// Update edits a post owned by ownerID. The slug stays unchanged; new
// additional images are appended after the existing ones.
func (s *AuthoringService) Update(ctx context.Context, id, ownerID string, input DraftInput) (*db.Post, error) {
	if err := normalizeDraft(&input); err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)

	var existing db.Post
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	var uploaded []string
	replacedKey := ""

	updates := map[string]interface{}{
		"title":       input.Title,
		"description": input.Description,
		"content":     input.Content,
	}

	fail := func(err error) (*db.Post, error) {
		s.log.Error("update post failed", "post_id", id, "rollback", s.rollback, "error", err)
		if s.rollback {
			s.removeBlobs(ctx, uploaded)
		}
		return nil, err
	}

	if input.Featured != nil {
		key, err := s.upload(ctx, input.Featured)
		if err != nil {
			return fail(err)
		}
		uploaded = append(uploaded, key)
		replacedKey = existing.FeaturedImageKey
		updates["featured_image_url"] = s.store.PublicURL(key)
		updates["featured_image_key"] = key
	}

	persist := func(tx *gorm.DB) error {
		if err := tx.Model(&db.Post{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrPersistFailed, err)
		}
		images := s.images.WithTx(tx)
		start, err := images.NextOrderIndex(existing.ID)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrPersistFailed, err)
		}
		return s.attachImages(ctx, images, existing.ID, start, input, &uploaded)
	}

	var err error
	if s.rollback {
		err = s.db.WithContext(ctx).Transaction(persist)
	} else {
		err = persist(s.db.WithContext(ctx))
	}
	if err != nil {
		return fail(err)
	}

	if replacedKey != "" {
		s.removeBlobs(ctx, []string{replacedKey})
	}

	var post db.Post
	if err := s.db.WithContext(ctx).
		Preload("Images", func(tx *gorm.DB) *gorm.DB { return tx.Order("id asc") }).
		First(&post, "id = ?", existing.ID).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *AuthoringService) upload(ctx context.Context, file *storage.File) (string, error) {
	key := storage.ObjectName(file.Name, s.now())
	path, err := s.store.Upload(ctx, key, file.Reader(), file.Size(), file.ContentType)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrUploadFailed, file.Name, err)
	}
	return path, nil
}

func (s *AuthoringService) removeBlobs(ctx context.Context, paths []string) {
	var result *multierror.Error
	for _, path := range paths {
		if err := s.store.Delete(ctx, path); err != nil {
			result = multierror.Append(result, fmt.Errorf("delete %s: %w", path, err))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		s.log.Warn("blob cleanup incomplete", "error", err)
	}
}

func altText(alts []string, i int) string {
	if i < len(alts) {
		return alts[i]
	}
	return ""
}
