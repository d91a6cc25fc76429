// Package media stores user uploaded images.
package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"sosmed/internal/apperror"
	"sosmed/internal/models"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// FileStore keeps media objects as flat files on an afero filesystem.
type FileStore struct {
	fs      afero.Fs
	baseURL string
}

// NewFileStore creates a FileStore on fs. URLs are baseURL joined with the
// object id.
func NewFileStore(fs afero.Fs, baseURL string) *FileStore {
	return &FileStore{
		fs:      fs,
		baseURL: strings.TrimSuffix(baseURL, "/") + "/",
	}
}

// NewOSFileStore creates a FileStore rooted at dir on the local disk.
func NewOSFileStore(dir, baseURL string) (*FileStore, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media dir %s: %w", dir, err)
	}
	return NewFileStore(afero.NewBasePathFs(osFs, dir), baseURL), nil
}

// Upload stores an image and returns its reference.
func (s *FileStore) Upload(ctx context.Context, data []byte) (models.MediaRef, error) {
	if err := ctx.Err(); err != nil {
		return models.MediaRef{}, err
	}
	if len(data) == 0 {
		return models.MediaRef{}, apperror.Validation("Media file is empty!")
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return models.MediaRef{}, apperror.Validation("Unsupported media type %s, only images are accepted", mtype.String())
	}

	id := uuid.NewString() + mtype.Extension()
	if err := afero.WriteFile(s.fs, id, data, 0o644); err != nil {
		return models.MediaRef{}, apperror.Wrap(apperror.KindDependencyUnavailable, err, "Unable to store media")
	}
	return models.MediaRef{PublicID: id, URL: s.baseURL + id}, nil
}

// Delete removes a stored object. Deleting a missing object is not an error.
func (s *FileStore) Delete(ctx context.Context, publicID string) error {
	name, err := cleanID(publicID)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperror.Wrap(apperror.KindDependencyUnavailable, err, "Unable to delete media")
	}
	return nil
}

// Read returns a stored object and its detected content type.
func (s *FileStore) Read(ctx context.Context, publicID string) ([]byte, string, error) {
	name, err := cleanID(publicID)
	if err != nil {
		return nil, "", err
	}
	data, err := afero.ReadFile(s.fs, name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", apperror.NotFound("Media does not exist!")
		}
		return nil, "", apperror.Wrap(apperror.KindDependencyUnavailable, err, "Unable to read media")
	}
	return data, mimetype.Detect(data).String(), nil
}

// cleanID rejects ids that would escape the store's flat namespace.
func cleanID(publicID string) (string, error) {
	name := path.Base(path.Clean("/" + publicID))
	if publicID == "" || name != publicID {
		return "", apperror.Validation("Invalid media id")
	}
	return name, nil
}
