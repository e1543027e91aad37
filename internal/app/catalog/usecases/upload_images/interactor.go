package upload_images

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/light-bringer/procat-web/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-web/internal/app/catalog/domain"
	"github.com/light-bringer/procat-web/internal/pkg/clock"
	"github.com/light-bringer/procat-web/internal/pkg/committer"
)

const defaultParallelism = 4

// File is one uploaded file of a multipart form.
type File struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// Request contains the files to attach to a product.
type Request struct {
	ProductID   string
	ProductName string
	Files       []File
}

// Result lists the stored images in position order and the files that failed.
type Result struct {
	Images []*domain.Image
	Failed []string
}

// Interactor uploads product images to object storage and records them.
//
// Every file is independent: it is uploaded, then its record is committed
// on its own. A failure leaves the other files' images in place and is
// reported through a single error wrapping domain.ErrPartialUpload.
type Interactor struct {
	images      contracts.ImageRepository
	store       contracts.ImageStore
	applier     committer.Applier
	clock       clock.Clock
	logger      *zap.Logger
	uploads     *prometheus.CounterVec
	parallelism int
}

// NewInteractor creates a new upload images interactor. uploads may be nil.
func NewInteractor(
	images contracts.ImageRepository,
	store contracts.ImageStore,
	applier committer.Applier,
	clock clock.Clock,
	logger *zap.Logger,
	uploads *prometheus.CounterVec,
) *Interactor {
	return &Interactor{
		images:      images,
		store:       store,
		applier:     applier,
		clock:       clock,
		logger:      logger.Named("upload_images"),
		uploads:     uploads,
		parallelism: defaultParallelism,
	}
}

// Execute uploads req.Files. Empty files are skipped. Positions continue
// after the product's existing images, in the order the files were given.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Result, error) {
	files := make([]File, 0, len(req.Files))
	for _, f := range req.Files {
		if f.Size > 0 {
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		return &Result{}, nil
	}

	existing, err := i.images.ListByProduct(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to list existing images: %w", err)
	}
	offset := int64(len(existing))
	at := i.clock.Now()

	images := make([]*domain.Image, len(files))
	errs := make([]error, len(files))

	var g errgroup.Group
	g.SetLimit(i.parallelism)
	for idx, f := range files {
		g.Go(func() error {
			img := &domain.Image{
				ID:          uuid.New().String(),
				ProductID:   req.ProductID,
				StoragePath: domain.ImagePath(req.ProductID, at, idx, f.Filename),
				Alt:         domain.ImageAlt(req.ProductName, int(offset)+idx),
				Position:    offset + int64(idx),
				CreatedAt:   at,
			}
			if err := i.uploadOne(ctx, img, f); err != nil {
				errs[idx] = err
				return nil
			}
			images[idx] = img
			return nil
		})
	}
	_ = g.Wait()

	result := &Result{}
	var failures []string
	for idx, f := range files {
		if errs[idx] != nil {
			i.count("failure")
			i.logger.Warn("image upload failed",
				zap.String("product_id", req.ProductID),
				zap.String("filename", f.Filename),
				zap.Error(errs[idx]),
			)
			result.Failed = append(result.Failed, f.Filename)
			failures = append(failures, fmt.Sprintf("%s: %v", f.Filename, errs[idx]))
			continue
		}
		i.count("success")
		result.Images = append(result.Images, images[idx])
	}

	if len(failures) > 0 {
		return result, fmt.Errorf("%w: %s", domain.ErrPartialUpload, strings.Join(failures, "; "))
	}
	return result, nil
}

func (i *Interactor) uploadOne(ctx context.Context, img *domain.Image, f File) error {
	if !domain.IsImageContentType(f.ContentType) {
		return domain.ErrNotAnImage
	}

	body, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer body.Close()

	if err := i.store.Upload(ctx, img.StoragePath, f.ContentType, body); err != nil {
		return fmt.Errorf("failed to upload: %w", err)
	}
	img.URL = i.store.PublicURL(img.StoragePath)

	plan := committer.NewPlan()
	plan.Add(i.images.InsertMut(img))
	if err := i.applier.Apply(ctx, plan); err != nil {
		// the object has no record pointing at it
		if delErr := i.store.Delete(ctx, img.StoragePath); delErr != nil {
			i.logger.Warn("failed to remove unrecorded image object",
				zap.String("path", img.StoragePath), zap.Error(delErr))
		}
		return fmt.Errorf("failed to record image: %w", err)
	}
	return nil
}

func (i *Interactor) count(result string) {
	if i.uploads != nil {
		i.uploads.WithLabelValues(result).Inc()
	}
}
