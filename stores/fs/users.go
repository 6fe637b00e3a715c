// Package fs provides a file-backed UserStore that keeps one JSON file
// per user. It is meant for development and tests; use the gorm or
// datastore stores for real deployments.
package fs

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	uh "github.com/userhub/userhub"
)

// UserStore stores users as JSON files under StoragePath/users, with an
// email index under StoragePath/emails enforcing uniqueness.
type UserStore struct {
	StoragePath string

	mu sync.Mutex
}

func NewUserStore(storagePath string) *UserStore {
	return &UserStore{StoragePath: storagePath}
}

func (s *UserStore) userPath(id string) string {
	return filepath.Join(s.StoragePath, "users", id+".json")
}

// emailPath hashes the email so arbitrary addresses map to safe
// filenames.
func (s *UserStore) emailPath(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(email)))
	return filepath.Join(s.StoragePath, "emails", hex.EncodeToString(sum[:]))
}

func (s *UserStore) Create(_ context.Context, user *uh.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := os.MkdirAll(filepath.Join(s.StoragePath, "users"), 0755); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(s.StoragePath, "emails"), 0755); err != nil {
		return err
	}

	// O_EXCL on the email index is the uniqueness backstop: of two
	// concurrent registrations for one email, exactly one wins.
	indexPath := s.emailPath(user.Email)
	f, err := os.OpenFile(indexPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return uh.ErrEmailTaken
		}
		return err
	}
	if _, err := f.WriteString(user.ID); err != nil {
		f.Close()
		os.Remove(indexPath)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(indexPath)
		return err
	}

	if err := s.save(user); err != nil {
		os.Remove(indexPath)
		return err
	}
	return nil
}

func (s *UserStore) ByID(_ context.Context, id string) (*uh.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(id)
}

func (s *UserStore) ByEmail(_ context.Context, email string) (*uh.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.emailPath(email))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, uh.ErrUserNotFound
		}
		return nil, err
	}
	return s.load(string(data))
}

func (s *UserStore) ByVerificationToken(_ context.Context, token string) (*uh.User, error) {
	if token == "" {
		return nil, uh.ErrUserNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(filepath.Join(s.StoragePath, "users"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, uh.ErrUserNotFound
		}
		return nil, err
	}
	for _, entry := range entries {
		id := strings.TrimSuffix(entry.Name(), ".json")
		user, err := s.load(id)
		if err != nil {
			continue
		}
		if user.VerificationToken == token {
			return user, nil
		}
	}
	return nil, uh.ErrUserNotFound
}

func (s *UserStore) SetSessionToken(_ context.Context, id string, token string) error {
	return s.update(id, func(user *uh.User) {
		user.SessionToken = token
	})
}

func (s *UserStore) MarkVerified(_ context.Context, id string) error {
	return s.update(id, func(user *uh.User) {
		user.Verified = true
		user.VerificationToken = ""
	})
}

func (s *UserStore) SetAvatarURL(_ context.Context, id string, avatarURL string) error {
	return s.update(id, func(user *uh.User) {
		user.AvatarURL = avatarURL
	})
}

func (s *UserStore) update(id string, mutate func(*uh.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.load(id)
	if err != nil {
		return err
	}
	mutate(user)
	user.UpdatedAt = time.Now()
	return s.save(user)
}

func (s *UserStore) load(id string) (*uh.User, error) {
	data, err := os.ReadFile(s.userPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, uh.ErrUserNotFound
		}
		return nil, err
	}
	var user uh.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) save(user *uh.User) error {
	data, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomicFile(s.userPath(user.ID), data)
}

// writeAtomicFile writes data via a temp file and rename so a crash
// never leaves a half-written record.
func writeAtomicFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
