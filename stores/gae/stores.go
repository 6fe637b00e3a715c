package gae

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/datastore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	uh "github.com/userhub/userhub"
)

// UserStore implements uh.UserStore using Google Cloud Datastore.
type UserStore struct {
	client    *datastore.Client
	namespace string
}

// NewUserStore creates a new Datastore-backed UserStore.
func NewUserStore(client *datastore.Client, namespace string) *UserStore {
	return &UserStore{client: client, namespace: namespace}
}

func (s *UserStore) namespacedKey(kind, name string) *datastore.Key {
	key := datastore.NameKey(kind, name, nil)
	key.Namespace = s.namespace
	return key
}

func (s *UserStore) Create(ctx context.Context, user *uh.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	userKey := s.namespacedKey(KindUser, user.ID)
	emailKey := s.namespacedKey(KindUserEmail, strings.ToLower(user.Email))

	// The email reservation entity written in the same transaction is
	// the uniqueness backstop for concurrent registrations.
	_, err := s.client.RunInTransaction(ctx, func(tx *datastore.Transaction) error {
		var existing UserEmailEntity
		err := tx.Get(emailKey, &existing)
		if err == nil {
			return uh.ErrEmailTaken
		}
		if err != datastore.ErrNoSuchEntity {
			return err
		}

		if _, err := tx.Put(emailKey, &UserEmailEntity{Key: emailKey, UserID: user.ID, CreatedAt: now}); err != nil {
			return err
		}
		_, err = tx.Put(userKey, UserToEntity(user, userKey))
		return err
	})
	return err
}

func (s *UserStore) ByID(ctx context.Context, id string) (*uh.User, error) {
	key := s.namespacedKey(KindUser, id)
	var entity UserEntity
	if err := s.client.Get(ctx, key, &entity); err != nil {
		if err == datastore.ErrNoSuchEntity {
			return nil, uh.ErrUserNotFound
		}
		return nil, err
	}
	return entity.ToUser(), nil
}

func (s *UserStore) ByEmail(ctx context.Context, email string) (*uh.User, error) {
	emailKey := s.namespacedKey(KindUserEmail, strings.ToLower(email))
	var reservation UserEmailEntity
	if err := s.client.Get(ctx, emailKey, &reservation); err != nil {
		if err == datastore.ErrNoSuchEntity {
			return nil, uh.ErrUserNotFound
		}
		return nil, err
	}
	return s.ByID(ctx, reservation.UserID)
}

func (s *UserStore) ByVerificationToken(ctx context.Context, token string) (*uh.User, error) {
	if token == "" {
		return nil, uh.ErrUserNotFound
	}

	query := datastore.NewQuery(KindUser).
		Namespace(s.namespace).
		FilterField("verification_token", "=", token).
		Limit(1)

	it := s.client.Run(ctx, query)
	var entity UserEntity
	if _, err := it.Next(&entity); err != nil {
		if err == iterator.Done {
			return nil, uh.ErrUserNotFound
		}
		return nil, err
	}
	return entity.ToUser(), nil
}

func (s *UserStore) SetSessionToken(ctx context.Context, id string, token string) error {
	return s.mutate(ctx, id, func(e *UserEntity) {
		e.SessionToken = token
	})
}

func (s *UserStore) MarkVerified(ctx context.Context, id string) error {
	return s.mutate(ctx, id, func(e *UserEntity) {
		e.Verified = true
		e.VerificationToken = ""
	})
}

func (s *UserStore) SetAvatarURL(ctx context.Context, id string, avatarURL string) error {
	return s.mutate(ctx, id, func(e *UserEntity) {
		e.AvatarURL = avatarURL
	})
}

// mutate runs a get-modify-put on the user entity in a transaction.
func (s *UserStore) mutate(ctx context.Context, id string, apply func(*UserEntity)) error {
	key := s.namespacedKey(KindUser, id)
	_, err := s.client.RunInTransaction(ctx, func(tx *datastore.Transaction) error {
		var entity UserEntity
		if err := tx.Get(key, &entity); err != nil {
			if err == datastore.ErrNoSuchEntity {
				return uh.ErrUserNotFound
			}
			return err
		}
		apply(&entity)
		entity.UpdatedAt = time.Now()
		_, err := tx.Put(key, &entity)
		return err
	})
	return err
}
