package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/outfitcult/internal/db"
	"github.com/outfitcult/internal/storage"
	"gorm.io/gorm"
)

// ErrProfileNotFound 在作者资料不存在时返回
var ErrProfileNotFound = errors.New("profile not found")

var nowFunc = time.Now

// MaxDisplayNameLength 限制展示名长度
const MaxDisplayNameLength = 80

// ProfileService 维护作者的展示名与头像
type ProfileService struct {
	db    *gorm.DB
	store storage.Storage
	log   *slog.Logger
}

// ProfileInput 描述资料页提交的字段，Avatar 为空表示保留原头像
type ProfileInput struct {
	DisplayName string
	Avatar      *storage.File
}

// NewProfileService 构造 ProfileService
func NewProfileService(gdb *gorm.DB, store storage.Storage, log *slog.Logger) *ProfileService {
	return &ProfileService{db: gdb, store: store, log: log}
}

// Get 返回指定用户的资料
func (s *ProfileService) Get(userID string) (*db.Profile, error) {
	var profile db.Profile
	if err := s.db.First(&profile, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &profile, nil
}

// Update 修改展示名，可选替换头像。资料不存在时会新建一条。
func (s *ProfileService) Update(ctx context.Context, userID string, input ProfileInput) (*db.Profile, error) {
	input.DisplayName = strings.TrimSpace(input.DisplayName)

	fields := map[string]string{}
	switch {
	case input.DisplayName == "":
		fields["display_name"] = "Display name is required"
	case len([]rune(input.DisplayName)) > MaxDisplayNameLength:
		fields["display_name"] = fmt.Sprintf("Display name must be less than %d characters", MaxDisplayNameLength)
	}
	if input.Avatar != nil {
		if err := storage.ValidateImage(input.Avatar); err != nil {
			fields["avatar"] = err.Error()
		}
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	ctx = context.WithoutCancel(ctx)

	profile, err := s.Get(userID)
	if errors.Is(err, ErrProfileNotFound) {
		profile = &db.Profile{UserID: userID}
	} else if err != nil {
		return nil, err
	}

	oldKey := ""
	newKey := ""
	if input.Avatar != nil {
		key := storage.ObjectName(input.Avatar.Name, nowFunc())
		path, err := s.store.Upload(ctx, key, input.Avatar.Reader(), input.Avatar.Size(), input.Avatar.ContentType)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrUploadFailed, input.Avatar.Name, err)
		}
		oldKey = profile.AvatarKey
		newKey = path
		profile.AvatarKey = path
		profile.AvatarURL = s.store.PublicURL(path)
	}
	profile.DisplayName = input.DisplayName

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		if newKey != "" {
			if derr := s.store.Delete(ctx, newKey); derr != nil {
				s.log.Warn("avatar cleanup failed", "path", newKey, "error", derr)
			}
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}

	if oldKey != "" {
		if err := s.store.Delete(ctx, oldKey); err != nil {
			s.log.Warn("old avatar cleanup failed", "path", oldKey, "error", err)
		}
	}
	return profile, nil
}
