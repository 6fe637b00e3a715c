package userhub

import (
	"context"
	"errors"
	"time"
)

// Store-level sentinel errors. Store implementations must return these so
// the route layer can map them onto the HTTP error taxonomy.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already in use")
)

// User is the persisted account record.
//
// PasswordHash never holds plaintext; all comparisons go through bcrypt.
// VerificationToken is non-empty exactly while the account is unverified.
// SessionToken tracks the single active session: login overwrites it
// unconditionally, logout clears it to empty.
type User struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	Name              string    `json:"name"`
	PasswordHash      string    `json:"password_hash"`
	AvatarURL         string    `json:"avatar_url"`
	VerificationToken string    `json:"verification_token"`
	Verified          bool      `json:"verified"`
	SessionToken      string    `json:"session_token"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// UserStore is the persistence contract for User records.
//
// Create must enforce email uniqueness and return ErrEmailTaken on a
// duplicate; that constraint is the backstop for concurrent
// registrations with the same email. Lookup methods return
// ErrUserNotFound when no record matches.
type UserStore interface {
	// Create persists a new user. The store assigns user.ID.
	Create(ctx context.Context, user *User) error

	// ByID retrieves a user by its store-assigned identifier.
	ByID(ctx context.Context, id string) (*User, error)

	// ByEmail retrieves a user by its unique email.
	ByEmail(ctx context.Context, email string) (*User, error)

	// ByVerificationToken retrieves the user holding the given
	// (still uncleared) verification token.
	ByVerificationToken(ctx context.Context, token string) (*User, error)

	// SetSessionToken overwrites the user's active session token.
	// An empty token logs the user out.
	SetSessionToken(ctx context.Context, id string, token string) error

	// MarkVerified sets Verified and clears the verification token.
	MarkVerified(ctx context.Context, id string) error

	// SetAvatarURL updates the user's avatar URL.
	SetAvatarURL(ctx context.Context, id string, avatarURL string) error
}

// userDTO is the public projection of a User. Password hash and tokens
// are never echoed.
type userDTO struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func toDTO(u *User) userDTO {
	return userDTO{Email: u.Email, Name: u.Name}
}
