package storage

import (
	"bytes"
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/meinhoongagan/bizmatch/config"
)

const cloudinaryFolder = "event-headers"

type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStore(cfg *config.Config) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(
		cfg.CloudinaryCloudName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, err
	}
	return &CloudinaryStore{cld: cld}, nil
}

// Save uploads the image and returns the secure URL.
func (s *CloudinaryStore) Save(ctx context.Context, data []byte, _ string) (string, error) {
	resp, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID: "header-" + uuid.NewString(),
		Folder:   cloudinaryFolder,
	})
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, rawURL string) error {
	publicID, ok := publicIDFromURL(rawURL)
	if !ok {
		return nil
	}
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	return err
}

// publicIDFromURL turns .../upload/v123/event-headers/header-x.png into event-headers/header-x.
func publicIDFromURL(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	idx := strings.Index(u.Path, "/"+cloudinaryFolder+"/")
	if idx < 0 {
		return "", false
	}
	id := u.Path[idx+1:]
	return strings.TrimSuffix(id, path.Ext(id)), true
}
