package userhub

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// avatarSize is the fixed square edge avatars are resized to. Aspect
// ratio is not preserved; a non-square upload is stretched.
const avatarSize = 250

// uploadFieldName is the multipart form field carrying the image.
const uploadFieldName = "avatar"

// Upload describes a multipart file staged on disk by the upload
// middleware.
type Upload struct {
	// Path is the temporary location of the staged file.
	Path string
	// OriginalName is the client-supplied filename, used to derive the
	// destination extension.
	OriginalName string
}

type uploadContextKey struct{}

// UploadFromContext returns the staged upload attached by stageUpload.
func UploadFromContext(ctx context.Context) (*Upload, bool) {
	up, ok := ctx.Value(uploadContextKey{}).(*Upload)
	return up, ok
}

// stageUpload receives the multipart file and stages it at a temporary
// path before the handler runs. The staged file keeps the original
// extension so the image codec can be picked from it later.
func (a *Auth) stageUpload(next apiHandler) apiHandler {
	return func(w http.ResponseWriter, r *http.Request) error {
		file, header, err := r.FormFile(uploadFieldName)
		if err != nil {
			return NewValidationError("avatar file is required")
		}
		defer file.Close()

		ext := filepath.Ext(header.Filename)
		tmp, err := os.CreateTemp(a.Config.UploadDir, "avatar-*"+ext)
		if err != nil {
			return fmt.Errorf("failed to stage upload: %w", err)
		}
		if _, err := io.Copy(tmp, file); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return fmt.Errorf("failed to stage upload: %w", err)
		}
		if err := tmp.Close(); err != nil {
			os.Remove(tmp.Name())
			return fmt.Errorf("failed to stage upload: %w", err)
		}

		up := &Upload{Path: tmp.Name(), OriginalName: header.Filename}
		ctx := context.WithValue(r.Context(), uploadContextKey{}, up)
		return next(w, r.WithContext(ctx))
	}
}

// AvatarStore moves processed avatar images into the public directory.
type AvatarStore struct {
	// PublicDir is the root of statically served files. Images land in
	// PublicDir/avatars.
	PublicDir string
}

// Dir returns the on-disk avatar directory.
func (s *AvatarStore) Dir() string {
	return filepath.Join(s.PublicDir, "avatars")
}

// Process resizes the staged image to a fixed 250x250 square in place,
// then renames it into the public avatar directory as <userID>.<ext>.
// It returns the public-relative URL of the stored image. The caller
// owns cleanup of the staged file on failure.
func (s *AvatarStore) Process(stagedPath, originalName, userID string) (string, error) {
	img, err := imaging.Open(stagedPath)
	if err != nil {
		return "", NewValidationError("uploaded file is not a supported image")
	}

	img = imaging.Resize(img, avatarSize, avatarSize, imaging.Lanczos)
	if err := imaging.Save(img, stagedPath); err != nil {
		return "", fmt.Errorf("failed to resize avatar: %w", err)
	}

	ext := filepath.Ext(originalName)
	filename := userID + ext
	if err := os.MkdirAll(s.Dir(), 0755); err != nil {
		return "", fmt.Errorf("failed to create avatar directory: %w", err)
	}
	if err := os.Rename(stagedPath, filepath.Join(s.Dir(), filename)); err != nil {
		return "", fmt.Errorf("failed to store avatar: %w", err)
	}

	return "/avatars/" + filename, nil
}
