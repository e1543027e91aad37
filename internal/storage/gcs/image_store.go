// Package gcs stores product images in a Google Cloud Storage bucket.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/light-bringer/procat-web/internal/app/catalog/domain"
)

const defaultPublicBaseURL = "https://storage.googleapis.com"

// ImageStore implements contracts.ImageStore on one bucket.
type ImageStore struct {
	client        *storage.Client
	bucket        string
	publicBaseURL string
}

// NewClient creates a storage client. A non-empty endpoint (an emulator)
// disables authentication.
func NewClient(ctx context.Context, endpoint string) (*storage.Client, error) {
	var opts []option.ClientOption
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint), option.WithoutAuthentication())
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return client, nil
}

// NewImageStore creates an ImageStore. publicBaseURL defaults to the
// public GCS endpoint.
func NewImageStore(client *storage.Client, bucket, publicBaseURL string) *ImageStore {
	if publicBaseURL == "" {
		publicBaseURL = defaultPublicBaseURL
	}
	return &ImageStore{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Upload writes r to path only if no object exists there yet.
func (s *ImageStore) Upload(ctx context.Context, path, contentType string, r io.Reader) error {
	obj := s.client.Bucket(s.bucket).Object(path).If(storage.Conditions{DoesNotExist: true})

	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=3600"

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to upload %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		if isPreconditionFailed(err) {
			return fmt.Errorf("%s: %w", path, domain.ErrObjectExists)
		}
		return fmt.Errorf("failed to upload %s: %w", path, err)
	}
	return nil
}

// PublicURL returns the public URL of path.
func (s *ImageStore) PublicURL(path string) string {
	return PublicURL(s.publicBaseURL, s.bucket, path)
}

// Delete removes path. A missing object is not an error.
func (s *ImageStore) Delete(ctx context.Context, path string) error {
	err := s.client.Bucket(s.bucket).Object(path).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

// PublicURL joins base, bucket and an escaped object path.
func PublicURL(base, bucket, path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), bucket, strings.Join(segments, "/"))
}

func isPreconditionFailed(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusPreconditionFailed
}
