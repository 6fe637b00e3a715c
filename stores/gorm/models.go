package gorm

import (
	"time"

	uh "github.com/userhub/userhub"
)

// UserModel is the GORM model for account records.
type UserModel struct {
	ID                string    `gorm:"primaryKey;size:64"`
	Email             string    `gorm:"uniqueIndex;size:320;not null"`
	Name              string    `gorm:"size:120"`
	PasswordHash      string    `gorm:"size:255;not null"`
	AvatarURL         string    `gorm:"size:512"`
	VerificationToken string    `gorm:"index;size:64"`
	Verified          bool      `gorm:"default:false"`
	SessionToken      string    `gorm:"size:1024"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string {
	return "users"
}

func (m *UserModel) ToUser() *uh.User {
	return &uh.User{
		ID:                m.ID,
		Email:             m.Email,
		Name:              m.Name,
		PasswordHash:      m.PasswordHash,
		AvatarURL:         m.AvatarURL,
		VerificationToken: m.VerificationToken,
		Verified:          m.Verified,
		SessionToken:      m.SessionToken,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func UserToModel(user *uh.User) *UserModel {
	return &UserModel{
		ID:                user.ID,
		Email:             user.Email,
		Name:              user.Name,
		PasswordHash:      user.PasswordHash,
		AvatarURL:         user.AvatarURL,
		VerificationToken: user.VerificationToken,
		Verified:          user.Verified,
		SessionToken:      user.SessionToken,
		CreatedAt:         user.CreatedAt,
		UpdatedAt:         user.UpdatedAt,
	}
}
