package export_products

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/light-bringer/procat-web/internal/app/catalog/contracts"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ErrUnknownFormat is returned for formats other than json and csv.
var ErrUnknownFormat = errors.New("export format must be json or csv")

// CSVHeader is the first row of a CSV export.
var CSVHeader = []string{"id", "slug", "name", "price", "sku", "stock", "status", "categories", "tags", "created_at"}

// Query writes the whole catalog in a portable format.
type Query struct {
	readModel contracts.ReadModel
}

// NewQuery creates a new export products query.
func NewQuery(readModel contracts.ReadModel) *Query {
	return &Query{readModel: readModel}
}

// ContentType returns the media type of format.
func ContentType(format string) string {
	if format == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/json"
}

// Execute writes every product, newest first, to w.
// JSON exports include images; CSV exports do not.
func (q *Query) Execute(ctx context.Context, format string, w io.Writer) error {
	if format != FormatJSON && format != FormatCSV {
		return ErrUnknownFormat
	}

	products, err := q.readModel.ListAll(ctx)
	if err != nil {
		return err
	}

	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(products)
	}
	return writeCSV(w, products)
}

func writeCSV(w io.Writer, products []*contracts.ProductDTO) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, p := range products {
		record := []string{
			p.ProductID,
			p.Slug,
			p.Name,
			strconv.FormatInt(p.Price, 10),
			p.SKU,
			strconv.FormatInt(p.Stock, 10),
			p.Status,
			strings.Join(p.Categories, ";"),
			strings.Join(p.Tags, ";"),
			p.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write %s: %w", p.ProductID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
