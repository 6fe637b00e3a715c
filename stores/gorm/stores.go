package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	uh "github.com/userhub/userhub"
)

// AutoMigrate runs database migrations for the userhub tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&UserModel{})
}

// UserStore implements uh.UserStore using GORM.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, user *uh.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	model := UserToModel(user)
	if err := s.db.WithContext(ctx).Create(model).Error; err != nil {
		// The unique index on email is the backstop for concurrent
		// registrations; requires gorm.Config{TranslateError: true}.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return uh.ErrEmailTaken
		}
		return err
	}
	user.CreatedAt = model.CreatedAt
	user.UpdatedAt = model.UpdatedAt
	return nil
}

func (s *UserStore) ByID(ctx context.Context, id string) (*uh.User, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *UserStore) ByEmail(ctx context.Context, email string) (*uh.User, error) {
	return s.first(ctx, "email = ?", email)
}

func (s *UserStore) ByVerificationToken(ctx context.Context, token string) (*uh.User, error) {
	if token == "" {
		return nil, uh.ErrUserNotFound
	}
	return s.first(ctx, "verification_token = ?", token)
}

func (s *UserStore) SetSessionToken(ctx context.Context, id string, token string) error {
	return s.updateColumns(ctx, id, map[string]any{"session_token": token})
}

func (s *UserStore) MarkVerified(ctx context.Context, id string) error {
	return s.updateColumns(ctx, id, map[string]any{
		"verified":           true,
		"verification_token": "",
	})
}

func (s *UserStore) SetAvatarURL(ctx context.Context, id string, avatarURL string) error {
	return s.updateColumns(ctx, id, map[string]any{"avatar_url": avatarURL})
}

func (s *UserStore) first(ctx context.Context, query string, arg any) (*uh.User, error) {
	var model UserModel
	if err := s.db.WithContext(ctx).First(&model, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, uh.ErrUserNotFound
		}
		return nil, err
	}
	return model.ToUser(), nil
}

func (s *UserStore) updateColumns(ctx context.Context, id string, values map[string]any) error {
	result := s.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return uh.ErrUserNotFound
	}
	return nil
}
