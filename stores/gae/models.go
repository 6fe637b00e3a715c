package gae

import (
	"time"

	"cloud.google.com/go/datastore"

	uh "github.com/userhub/userhub"
)

// Kind constants for Datastore entities.
const (
	KindUser      = "User"
	KindUserEmail = "UserEmail"
)

// UserEntity is the Datastore entity for account records.
type UserEntity struct {
	Key               *datastore.Key `datastore:"__key__"`
	Email             string         `datastore:"email"`
	Name              string         `datastore:"name,noindex"`
	PasswordHash      string         `datastore:"password_hash,noindex"`
	AvatarURL         string         `datastore:"avatar_url,noindex"`
	VerificationToken string         `datastore:"verification_token"`
	Verified          bool           `datastore:"verified"`
	SessionToken      string         `datastore:"session_token,noindex"`
	CreatedAt         time.Time      `datastore:"created_at"`
	UpdatedAt         time.Time      `datastore:"updated_at"`
}

func (e *UserEntity) ToUser() *uh.User {
	return &uh.User{
		ID:                e.Key.Name,
		Email:             e.Email,
		Name:              e.Name,
		PasswordHash:      e.PasswordHash,
		AvatarURL:         e.AvatarURL,
		VerificationToken: e.VerificationToken,
		Verified:          e.Verified,
		SessionToken:      e.SessionToken,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

func UserToEntity(user *uh.User, key *datastore.Key) *UserEntity {
	return &UserEntity{
		Key:               key,
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

// UserEmailEntity reserves an email address for a user. The key is the
// lowercased email.
type UserEmailEntity struct {
	Key       *datastore.Key `datastore:"__key__"`
	UserID    string         `datastore:"user_id"`
	CreatedAt time.Time      `datastore:"created_at"`
}
