// Package storage fronts the avatar blob bucket in GCS.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path"

	"cloud.google.com/go/storage"
)

var (
	ErrAvatarNotFound = errors.New("avatar not found")
	ErrAvatarTooLarge = errors.New("avatar exceeds the size limit")
)

const avatarKeyPrefix = "avatars/"

// Avatar image size cap, 5 MiB
const MaxAvatarBytes = 5 << 20

// AvatarStore stores profile images keyed by user ID
type AvatarStore struct {
	gcs    *storage.Client
	bucket string
}

// NewAvatarStore creates a new avatar store. The bucket name comes from
// GCS_AVATAR_BUCKET when bucket is empty.
func NewAvatarStore(ctx context.Context, bucket string) (*AvatarStore, error) {
	if bucket == "" {
		bucket = os.Getenv("GCS_AVATAR_BUCKET")
	}
	if bucket == "" {
		bucket = "careconnect-avatars"
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	log.Printf("✓ Connected to GCS bucket: %s", bucket)

	return &AvatarStore{
		gcs:    client,
		bucket: bucket,
	}, nil
}

func (s *AvatarStore) objectForUser(userID string) string {
	return path.Join(avatarKeyPrefix, userID)
}

// Upload writes the avatar for the given user, replacing any previous one.
// The content type is stored on the object so Download can return it.
// Images over MaxAvatarBytes are rejected with ErrAvatarTooLarge.
func (s *AvatarStore) Upload(ctx context.Context, userID, contentType string, r io.Reader) error {
	obj := s.gcs.Bucket(s.bucket).Object(s.objectForUser(userID))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := obj.NewWriter(ctx)
	w.ContentType = contentType

	// Disable chunking. This exposes more transient server errors to calling
	// code, but significantly reduces memory usage.
	w.ChunkSize = 0

	// Read one byte past the cap so oversized input is detected instead of
	// stored truncated.
	n, err := io.Copy(w, io.LimitReader(r, MaxAvatarBytes+1))
	if err != nil {
		w.Close()
		return fmt.Errorf("failed to write avatar object: %w", err)
	}
	if n > MaxAvatarBytes {
		// Nothing is committed until Close succeeds; cancel abandons the upload.
		cancel()
		w.Close()
		return ErrAvatarTooLarge
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close avatar writer: %w", err)
	}

	return nil
}

// Download returns a reader over the user's avatar and its content type.
// The caller must close the reader.
func (s *AvatarStore) Download(ctx context.Context, userID string) (io.ReadCloser, string, error) {
	obj := s.gcs.Bucket(s.bucket).Object(s.objectForUser(userID))

	r, err := obj.NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, "", ErrAvatarNotFound
		}
		return nil, "", fmt.Errorf("failed to open avatar reader: %w", err)
	}

	return r, r.Attrs.ContentType, nil
}

// PublicURL returns the download URL for the user's avatar object
func (s *AvatarStore) PublicURL(userID string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, s.objectForUser(userID))
}

// Delete removes the user's avatar. Missing objects are not an error so
// user deletion stays idempotent.
func (s *AvatarStore) Delete(ctx context.Context, userID string) error {
	obj := s.gcs.Bucket(s.bucket).Object(s.objectForUser(userID))

	if err := obj.Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		return fmt.Errorf("failed to delete avatar object: %w", err)
	}

	return nil
}

// Close closes the underlying GCS client
func (s *AvatarStore) Close() error {
	return s.gcs.Close()
}
