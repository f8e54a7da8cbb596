package file

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/propertyhub/api/internal/domain"
	"github.com/propertyhub/api/internal/pkg/id"
)

// Upload limits for listing images, matching what the listing form promises.
const (
	MaxImageBytes   = 10 << 20 // 10 MB per image
	MaxImagesPerReq = 10
	uploadPrefix    = "property-listings"
)

// ImageUpload is one file from a multipart request.
type ImageUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

type Service interface {
	// UploadImages stores listing images and returns their public URLs in
	// input order. The whole batch is validated before any byte is uploaded.
	UploadImages(ctx context.Context, uploaderID string, images []ImageUpload) ([]string, error)
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

type service struct {
	store objectStore
}

func NewService(store objectStore) Service {
	return &service{store: store}
}

func (s *service) UploadImages(ctx context.Context, uploaderID string, images []ImageUpload) ([]string, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("no files provided: %w", domain.ErrBadRequest)
	}
	if len(images) > MaxImagesPerReq {
		return nil, fmt.Errorf("maximum %d images allowed: %w", MaxImagesPerReq, domain.ErrBadRequest)
	}
	for _, img := range images {
		if !strings.HasPrefix(img.ContentType, "image/") {
			return nil, fmt.Errorf("%s is not an image: %w", img.Filename, domain.ErrBadRequest)
		}
		if img.Size > MaxImageBytes {
			return nil, fmt.Errorf("%s exceeds the %d MB limit: %w", img.Filename, MaxImageBytes>>20, domain.ErrBadRequest)
		}
	}

	urls := make([]string, 0, len(images))
	for _, img := range images {
		key := fmt.Sprintf("%s/%s/%s%s", uploadPrefix, uploaderID, id.New(), strings.ToLower(path.Ext(img.Filename)))
		url, err := s.store.Upload(ctx, key, img.Reader, img.ContentType)
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", img.Filename, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}
