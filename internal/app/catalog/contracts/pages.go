package contracts

// Storefront paths whose cached renderings depend on catalog data.
const (
	PathHome       = "/"
	PathCategories = "/categories"
	PathProduct    = "/product/"
)

// AffectedPaths lists the storefront pages to invalidate after a change to
// the products with the given slugs.
func AffectedPaths(slugs ...string) []string {
	paths := []string{PathHome, PathCategories}
	for _, s := range slugs {
		paths = append(paths, PathProduct+s)
	}
	return paths
}
