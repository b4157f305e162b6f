package services

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"trungminh/utils"

	"github.com/google/uuid"
	"github.com/kurin/blazer/b2"
)

// MediaStorage stores an object and returns the URL it is served from.
type MediaStorage interface {
	Put(ctx context.Context, objectName, contentType string, r io.Reader) (string, error)
}

// B2Storage is MediaStorage on a Backblaze B2 bucket.
type B2Storage struct {
	bucket *b2.Bucket
}

func NewB2Storage(ctx context.Context, keyID, applicationKey, bucketName string) (*B2Storage, error) {
	client, err := b2.NewClient(ctx, keyID, applicationKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create B2 client: %w", err)
	}

	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket %s: %w", bucketName, err)
	}
	return &B2Storage{bucket: bucket}, nil
}

func (s *B2Storage) Put(ctx context.Context, objectName, contentType string, r io.Reader) (string, error) {
	obj := s.bucket.Object(objectName)
	writer := obj.NewWriter(ctx, b2.WithAttrsOption(&b2.Attrs{ContentType: contentType}))

	if _, err := io.Copy(writer, r); err != nil {
		writer.Close()
		return "", fmt.Errorf("failed to upload object to B2: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close B2 writer: %w", err)
	}
	return obj.URL(), nil
}

var thumbnailContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

type ThumbnailUpload struct {
	URL         string `json:"url"`
	ObjectName  string `json:"objectName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	SHA1        string `json:"sha1"`
}

// MediaService uploads notification thumbnails.
type MediaService struct {
	storage MediaStorage
	maxSize int64
}

func NewMediaService(storage MediaStorage, maxSize int64) *MediaService {
	return &MediaService{storage: storage, maxSize: maxSize}
}

// UploadThumbnail checks the image extension and size, then streams r to
// storage under a fresh object name.
func (s *MediaService) UploadThumbnail(ctx context.Context, filename string, size int64, r io.Reader) (*ThumbnailUpload, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := thumbnailContentTypes[ext]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported thumbnail type %q", ErrValidation, ext)
	}
	if size > s.maxSize {
		return nil, fmt.Errorf("%w: thumbnail is %d bytes, limit is %d", ErrTooLarge, size, s.maxSize)
	}

	objectName := fmt.Sprintf("notifications/thumbnails/%s%s", uuid.NewString(), ext)

	// One byte past the limit is read so a lying size header is still caught.
	limited := &io.LimitedReader{R: r, N: s.maxSize + 1}
	hasher := sha1.New()
	counter := &countingReader{r: io.TeeReader(limited, hasher)}

	url, err := s.storage.Put(ctx, objectName, contentType, counter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDependency, err)
	}
	if counter.n > s.maxSize {
		return nil, fmt.Errorf("%w: thumbnail exceeds %d bytes", ErrTooLarge, s.maxSize)
	}

	utils.Ctx(ctx).Info().
		Str("object", objectName).
		Int64("size", counter.n).
		Msg("Thumbnail uploaded")

	return &ThumbnailUpload{
		URL:         url,
		ObjectName:  objectName,
		ContentType: contentType,
		Size:        counter.n,
		SHA1:        hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
