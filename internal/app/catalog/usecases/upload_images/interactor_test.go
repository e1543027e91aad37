package upload_images

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-web/internal/app/catalog/catalogtest"
	"github.com/light-bringer/procat-web/internal/app/catalog/domain"
	"github.com/light-bringer/procat-web/internal/pkg/clock"
	"github.com/light-bringer/procat-web/internal/pkg/committer"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func file(name, contentType, body string) File {
	return File{
		Filename:    name,
		ContentType: contentType,
		Size:        int64(len(body)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

type fixture struct {
	store   *catalogtest.Store
	objects *catalogtest.ImageStore
	uploads *prometheus.CounterVec
	uc      *Interactor
	product *domain.Product
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store := catalogtest.NewStore()
	objects := catalogtest.NewImageStore()
	uploads := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "uploads"}, []string{"result"})

	p, err := domain.NewProduct("p-1", "business-cards", "Business Cards", 500, domain.StatusPublished, "u-1", now)
	require.NoError(t, err)
	store.Seed(p)

	uc := NewInteractor(store.Images(), objects, store.Applier, clock.NewMockClock(now), zap.NewNop(), uploads)
	return &fixture{store: store, objects: objects, uploads: uploads, uc: uc, product: p}
}

func TestUploadImages(t *testing.T) {
	ctx := context.Background()

	t.Run("stores every file in order", func(t *testing.T) {
		f := setup(t)

		res, err := f.uc.Execute(ctx, &Request{
			ProductID:   "p-1",
			ProductName: "Business Cards",
			Files: []File{
				file("front.png", "image/png", "a"),
				file("back.jpg", "image/jpeg", "b"),
			},
		})
		require.NoError(t, err)
		require.Len(t, res.Images, 2)

		assert.Equal(t, int64(0), res.Images[0].Position)
		assert.Equal(t, int64(1), res.Images[1].Position)
		assert.Equal(t, "Business Cards image 1", res.Images[0].Alt)
		assert.Equal(t, "p-1/1740830400000-0-front.png", res.Images[0].StoragePath)
		assert.Equal(t, "https://images.test/p-1/1740830400000-1-back.jpg", res.Images[1].URL)
		assert.Equal(t, 2, f.store.ImageCount("p-1"))
		assert.Equal(t, float64(2), testutil.ToFloat64(f.uploads.WithLabelValues("success")))
	})

	t.Run("positions continue after existing images", func(t *testing.T) {
		f := setup(t)
		f.store.Seed(f.product,
			&domain.Image{ID: "i-1", ProductID: "p-1", Position: 0},
			&domain.Image{ID: "i-2", ProductID: "p-1", Position: 1},
		)

		res, err := f.uc.Execute(ctx, &Request{
			ProductID:   "p-1",
			ProductName: "Business Cards",
			Files:       []File{file("third.png", "image/png", "c")},
		})
		require.NoError(t, err)
		require.Len(t, res.Images, 1)
		assert.Equal(t, int64(2), res.Images[0].Position)
		assert.Equal(t, "Business Cards image 3", res.Images[0].Alt)
		assert.Equal(t, 3, f.store.ImageCount("p-1"))
	})

	t.Run("skips empty files", func(t *testing.T) {
		f := setup(t)

		res, err := f.uc.Execute(ctx, &Request{
			ProductID: "p-1",
			Files:     []File{{Filename: "empty.png", ContentType: "image/png"}},
		})
		require.NoError(t, err)
		assert.Empty(t, res.Images)
		assert.Empty(t, f.store.Applier.Plans())
	})

	t.Run("second of three failing keeps the other two", func(t *testing.T) {
		f := setup(t)
		f.objects.FailUpload = func(path string) error {
			if strings.Contains(path, "-1-") {
				return errors.New("bucket unavailable")
			}
			return nil
		}

		res, err := f.uc.Execute(ctx, &Request{
			ProductID:   "p-1",
			ProductName: "Business Cards",
			Files: []File{
				file("one.png", "image/png", "1"),
				file("two.png", "image/png", "2"),
				file("three.png", "image/png", "3"),
			},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrPartialUpload)
		assert.Contains(t, err.Error(), "two.png")

		assert.Equal(t, []string{"two.png"}, res.Failed)
		require.Len(t, res.Images, 2)
		assert.Equal(t, int64(0), res.Images[0].Position)
		assert.Equal(t, int64(2), res.Images[1].Position)
		assert.Equal(t, 2, f.store.ImageCount("p-1"))
		assert.Equal(t, float64(1), testutil.ToFloat64(f.uploads.WithLabelValues("failure")))
	})

	t.Run("rejects non-image files individually", func(t *testing.T) {
		f := setup(t)

		res, err := f.uc.Execute(ctx, &Request{
			ProductID: "p-1",
			Files: []File{
				file("notes.txt", "text/plain", "x"),
				file("photo.webp", "image/webp", "y"),
			},
		})
		require.ErrorIs(t, err, domain.ErrPartialUpload)
		assert.Equal(t, []string{"notes.txt"}, res.Failed)
		assert.Len(t, res.Images, 1)
		assert.Equal(t, []string{"p-1/1740830400000-1-photo.webp"}, f.objects.Paths())
	})

	t.Run("removes the object when the record cannot be written", func(t *testing.T) {
		f := setup(t)
		f.store.Applier.FailWith = func(*committer.CommitPlan) error { return errors.New("commit failed") }

		res, err := f.uc.Execute(ctx, &Request{
			ProductID: "p-1",
			Files:     []File{file("a.png", "image/png", "a")},
		})
		require.ErrorIs(t, err, domain.ErrPartialUpload)
		assert.Empty(t, res.Images)
		assert.Empty(t, f.objects.Paths())
		assert.Equal(t, []string{"p-1/1740830400000-0-a.png"}, f.objects.Deleted())
	})
}
