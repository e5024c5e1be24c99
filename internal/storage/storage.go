package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/sthapati/sthapati_be/internal/config"
)

// Storage keeps uploaded files and hands out their public URLs.
type Storage interface {
	Save(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

func New(cfg config.Storage) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocal(cfg.UploadDir, cfg.PublicBaseURL)
	case "s3":
		return NewS3(cfg)
	default:
		return nil, fmt.Errorf("storage: unsupported type %q", cfg.Type)
	}
}

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageExt returns the file extension for an accepted image content type.
func ImageExt(contentType string) (string, bool) {
	ct := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	ext, ok := allowedImageTypes[strings.ToLower(ct)]
	return ext, ok
}

// NewKey builds a collision-free object key under dir.
func NewKey(dir, ext string) string {
	return path.Join(dir, uuid.NewString()+ext)
}

// KeyFromURL recovers the object key from a URL produced by s.URL.
func KeyFromURL(s Storage, url string) (string, bool) {
	base := strings.TrimSuffix(s.URL(""), "/") + "/"
	if !strings.HasPrefix(url, base) {
		return "", false
	}
	key := strings.TrimPrefix(url, base)
	if key == "" || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}
