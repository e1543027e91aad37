package domain

import (
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"
)

// Image is a product photo stored in object storage.
type Image struct {
	ID          string
	ProductID   string
	URL         string
	StoragePath string
	Alt         string
	Position    int64
	CreatedAt   time.Time
}

// ImagePath builds the storage path for the index-th file of an upload batch:
// <productID>/<unixMillis>-<index>-<filename>.
func ImagePath(productID string, at time.Time, index int, filename string) string {
	return fmt.Sprintf("%s/%d-%d-%s", productID, at.UnixMilli(), index, sanitizeFilename(filename))
}

// ImageAlt is the default alt text for the index-th image of a product.
func ImageAlt(productName string, index int) string {
	return fmt.Sprintf("%s image %d", productName, index+1)
}

// IsImageContentType reports whether contentType is an image/* media type.
func IsImageContentType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}

func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if cleaned == "" || cleaned == "." || cleaned == ".." || cleaned == "/" {
		return "file"
	}
	return cleaned
}
