package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/meinhoongagan/bizmatch/config"
)

// PublicPrefix is where locally stored files are served from.
const PublicPrefix = "/uploads"

var ErrUnsupportedType = errors.New("file type not allowed")

var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// DetectImage sniffs the content and returns the mime type and file extension
// for one of the accepted header image formats.
func DetectImage(data []byte) (string, string, error) {
	contentType := http.DetectContentType(data)
	ext, ok := imageTypes[contentType]
	if !ok {
		return contentType, "", ErrUnsupportedType
	}
	return contentType, ext, nil
}

// Store persists event header images and hands back a public URL.
type Store interface {
	Save(ctx context.Context, data []byte, ext string) (string, error)
	Delete(ctx context.Context, url string) error
}

// New returns Cloudinary storage when credentials are present, local disk otherwise.
func New(cfg *config.Config) (Store, error) {
	if cfg.CloudinaryEnabled() {
		return NewCloudinaryStore(cfg)
	}
	return NewLocalStore(cfg.UploadDir)
}

type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(ctx context.Context, data []byte, ext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := "header-" + uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return PublicPrefix + "/" + name, nil
}

// Delete removes a file previously returned by Save. URLs from elsewhere are ignored.
func (s *LocalStore) Delete(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, PublicPrefix+"/") {
		return nil
	}
	name := filepath.Base(url)
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}
