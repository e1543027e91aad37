package contracts

import (
	"context"
	"io"
)

// ImageStore is the managed object storage holding product images.
type ImageStore interface {
	// Upload writes r to path. It never overwrites: an existing object
	// yields domain.ErrObjectExists.
	Upload(ctx context.Context, path, contentType string, r io.Reader) error

	// PublicURL returns the URL browsers use to fetch path.
	PublicURL(path string) string

	// Delete removes the object at path. A missing object is not an error.
	Delete(ctx context.Context, path string) error
}
