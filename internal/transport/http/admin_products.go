package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-web/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-web/internal/app/catalog/domain"
	"github.com/light-bringer/procat-web/internal/app/catalog/queries/export_products"
	"github.com/light-bringer/procat-web/internal/app/catalog/usecases/bulk_update"
	"github.com/light-bringer/procat-web/internal/app/catalog/usecases/create_product"
	"github.com/light-bringer/procat-web/internal/app/catalog/usecases/delete_image"
	"github.com/light-bringer/procat-web/internal/app/catalog/usecases/delete_product"
	"github.com/light-bringer/procat-web/internal/app/catalog/usecases/update_product"
	"github.com/light-bringer/procat-web/internal/app/catalog/usecases/upload_images"
	identity "github.com/light-bringer/procat-web/internal/app/identity/domain"
)

// productForm is the submitted product form, kept for re-rendering on errors.
type productForm struct {
	Name        string
	Description string
	Price       string
	SKU         string
	Stock       string
	Categories  string
	Tags        string
	Status      string
}

func readProductForm(c *gin.Context) productForm {
	return productForm{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Price:       c.PostForm("price"),
		SKU:         c.PostForm("sku"),
		Stock:       c.PostForm("stock"),
		Categories:  c.PostForm("categories"),
		Tags:        c.PostForm("tags"),
		Status:      c.PostForm("status"),
	}
}

func formOf(p *contracts.ProductDTO) productForm {
	return productForm{
		Name:        p.Name,
		Description: p.Description,
		Price:       formatInt(p.Price),
		SKU:         p.SKU,
		Stock:       formatInt(p.Stock),
		Categories:  strings.Join(p.Categories, ", "),
		Tags:        strings.Join(p.Tags, ", "),
		Status:      p.Status,
	}
}

// formFiles returns the non-empty uploads of the "images" field.
func formFiles(c *gin.Context) []upload_images.File {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	var files []upload_images.File
	for _, fh := range form.File["images"] {
		if fh.Size == 0 {
			continue
		}
		files = append(files, upload_images.File{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Open:        func() (io.ReadCloser, error) { return fh.Open() },
		})
	}
	return files
}

// Dashboard handles GET /admin.
func (h *Handler) Dashboard(c *gin.Context) {
	res, err := h.queries.Dashboard.Execute(c.Request.Context(), role(c) == identity.RoleAdmin)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.html(c, http.StatusOK, "admin_dashboard", gin.H{"Title": "Dashboard", "Dashboard": res})
}

// AdminProducts handles GET /admin/products. Every status is listed
// unless ?status= narrows it.
func (h *Handler) AdminProducts(c *gin.Context) {
	ctx := c.Request.Context()
	status := c.Query("status")
	if status == "" {
		status = contracts.StatusAll
	}

	res, err := h.queries.ListProducts.Execute(ctx, listRequest(c, status))
	if err != nil {
		h.fail(c, err)
		return
	}
	tax, err := h.queries.Taxonomy.Admin(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.html(c, http.StatusOK, "admin_products", gin.H{
		"Title":    "Products",
		"Result":   res,
		"Taxonomy": tax,
		"Query":    c.Request.URL.Query(),
		"Q":        c.Query("q"),
		"Status":   c.Query("status"),
		"Statuses": domain.Statuses(),
		"Notice":   c.Query("notice"),
		"Error":    c.Query("error"),
	})
}

// NewProduct handles GET /admin/products/new.
func (h *Handler) NewProduct(c *gin.Context) {
	h.productForm(c, http.StatusOK, nil, productForm{Status: string(domain.StatusPublished)}, "")
}

func (h *Handler) productForm(c *gin.Context, status int, product *contracts.ProductDTO, form productForm, message string) {
	title := "New product"
	if product != nil {
		title = "Edit " + product.Name
	}
	h.html(c, status, "admin_product_form", gin.H{
		"Title":    title,
		"Product":  product,
		"Form":     form,
		"Statuses": domain.Statuses(),
		"Error":    message,
		"Notice":   c.Query("notice"),
	})
}

// CreateProduct handles POST /admin/products.
func (h *Handler) CreateProduct(c *gin.Context) {
	form := readProductForm(c)

	price, err := domain.ParsePrice(form.Price)
	if err != nil {
		h.productForm(c, http.StatusBadRequest, nil, form, err.Error())
		return
	}
	stock, err := domain.ParseStock(form.Stock)
	if err != nil {
		h.productForm(c, http.StatusBadRequest, nil, form, err.Error())
		return
	}

	res, err := h.commands.CreateProduct.Execute(c.Request.Context(), &create_product.Request{
		Name:        form.Name,
		Description: form.Description,
		Price:       price,
		SKU:         form.SKU,
		Stock:       stock,
		Categories:  domain.SplitLabels(form.Categories),
		Tags:        domain.SplitLabels(form.Tags),
		Status:      form.Status,
		Files:       formFiles(c),
		Actor:       actor(c),
	})
	switch {
	case err == nil:
		redirect(c, withNotice("/admin/products", "notice", "Product created"))
	case res != nil && errors.Is(err, domain.ErrPartialUpload):
		redirect(c, withNotice("/admin/products/"+res.ProductID, "notice", err.Error()))
	case statusFor(err) == http.StatusInternalServerError:
		h.fail(c, err)
	default:
		h.productForm(c, statusFor(err), nil, form, err.Error())
	}
}

// EditProduct handles GET /admin/products/:id.
func (h *Handler) EditProduct(c *gin.Context) {
	p, err := h.queries.GetProduct.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.productForm(c, http.StatusOK, p, formOf(p), "")
}

// UpdateProduct handles POST /admin/products/:id.
func (h *Handler) UpdateProduct(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	form := readProductForm(c)

	current, err := h.queries.GetProduct.ByID(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}

	price, err := domain.ParsePrice(form.Price)
	if err != nil {
		h.productForm(c, http.StatusBadRequest, current, form, err.Error())
		return
	}
	stock, err := domain.ParseStock(form.Stock)
	if err != nil {
		h.productForm(c, http.StatusBadRequest, current, form, err.Error())
		return
	}

	res, err := h.commands.UpdateProduct.Execute(ctx, &update_product.Request{
		ProductID:   id,
		Name:        &form.Name,
		Description: &form.Description,
		Price:       &price,
		SKU:         &form.SKU,
		Stock:       &stock,
		Categories:  domain.SplitLabels(form.Categories),
		Tags:        domain.SplitLabels(form.Tags),
		Status:      &form.Status,
		Files:       formFiles(c),
		Actor:       actor(c),
	})
	switch {
	case err == nil:
		redirect(c, withNotice("/admin/products/"+id, "notice", "Saved"))
	case res != nil && errors.Is(err, domain.ErrPartialUpload):
		redirect(c, withNotice("/admin/products/"+id, "notice", err.Error()))
	case statusFor(err) == http.StatusInternalServerError, statusFor(err) == http.StatusNotFound:
		h.fail(c, err)
	default:
		h.productForm(c, statusFor(err), current, form, err.Error())
	}
}

// DeleteProduct handles POST /admin/products/:id/delete.
func (h *Handler) DeleteProduct(c *gin.Context) {
	err := h.commands.DeleteProduct.Execute(c.Request.Context(), &delete_product.Request{
		ProductID: c.Param("id"),
		Actor:     actor(c),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	redirect(c, withNotice("/admin/products", "notice", "Product deleted"))
}

// DeleteImage handles POST /admin/products/:id/images/:imageID/delete.
func (h *Handler) DeleteImage(c *gin.Context) {
	id := c.Param("id")
	err := h.commands.DeleteImage.Execute(c.Request.Context(), &delete_image.Request{
		ProductID: id,
		ImageID:   c.Param("imageID"),
		Actor:     actor(c),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	redirect(c, withNotice("/admin/products/"+id, "notice", "Image removed"))
}

// BulkUpdate handles POST /admin/products/bulk.
func (h *Handler) BulkUpdate(c *gin.Context) {
	res, err := h.commands.BulkUpdate.Execute(c.Request.Context(), &bulk_update.Request{
		Action:     c.PostForm("action"),
		ProductIDs: c.PostFormArray("ids"),
		Actor:      actor(c),
	})
	if err != nil {
		if statusFor(err) == http.StatusBadRequest {
			redirect(c, withNotice("/admin/products", "error", err.Error()))
			return
		}
		h.fail(c, err)
		return
	}
	redirect(c, withNotice("/admin/products", "notice", formatInt(int64(res.Affected))+" products updated"))
}

// ExportProducts handles GET /admin/products/export?format=json|csv.
func (h *Handler) ExportProducts(c *gin.Context) {
	format := c.DefaultQuery("format", export_products.FormatCSV)
	if format != export_products.FormatCSV && format != export_products.FormatJSON {
		h.fail(c, export_products.ErrUnknownFormat)
		return
	}

	c.Header("Content-Type", export_products.ContentType(format))
	c.Header("Content-Disposition", `attachment; filename="products.`+format+`"`)
	c.Status(http.StatusOK)
	if err := h.queries.ExportProducts.Execute(c.Request.Context(), format, c.Writer); err != nil {
		// Headers are gone; the truncated body is all the client gets.
		h.logger.Error("export failed", zap.String("format", format), zap.Error(err))
	}
}

// AdminCategories handles GET /admin/categories.
func (h *Handler) AdminCategories(c *gin.Context) {
	tax, err := h.queries.Taxonomy.Admin(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.html(c, http.StatusOK, "admin_categories", gin.H{"Title": "Categories", "Taxonomy": tax})
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
