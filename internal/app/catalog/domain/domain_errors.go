package domain

import "errors"

// Domain errors as sentinel values
var (
	// Product errors
	ErrProductNotFound = errors.New("product not found")
	ErrEmptyName       = errors.New("product name cannot be empty")
	ErrInvalidPrice    = errors.New("product price must be a non-negative whole number")
	ErrInvalidStock    = errors.New("product stock must be a non-negative whole number")
	ErrInvalidStatus   = errors.New("product status must be draft, published or archived")
	ErrInvalidSlug     = errors.New("product name must contain at least one letter or digit")
	ErrSlugExhausted   = errors.New("no free slug for product name")

	// Image errors
	ErrImageNotFound      = errors.New("image not found")
	ErrNotAnImage         = errors.New("file is not an image")
	ErrObjectExists       = errors.New("storage object already exists")
	ErrPartialUpload      = errors.New("some images failed to upload")
	ErrInvalidBulkAction  = errors.New("bulk action must be publish, draft, archive or delete")
	ErrNoProductsSelected = errors.New("no products selected")
)
