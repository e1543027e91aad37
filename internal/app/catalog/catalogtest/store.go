// Package catalogtest provides in-memory catalog repositories, read model and
// image store backed by one shared state, for use case and handler tests.
package catalogtest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/procat-web/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-web/internal/app/catalog/domain"
	"github.com/light-bringer/procat-web/internal/app/catalog/repo"
	"github.com/light-bringer/procat-web/internal/models/m_product"
	"github.com/light-bringer/procat-web/internal/models/m_product_image"
	"github.com/light-bringer/procat-web/internal/pkg/committer/committertest"
)

// Store is an in-memory catalog. Writes become visible only once the
// mutation returned by a repository method is applied through Applier.
type Store struct {
	Applier *committertest.Applier

	mu       sync.Mutex
	products map[string]*m_product.Data
	images   map[string]map[string]*domain.Image
	seq      int64
	clock    func() time.Time
}

// NewStore returns an empty Store.
func NewStore() *Store {
	s := &Store{
		Applier:  committertest.NewApplier(),
		products: make(map[string]*m_product.Data),
		images:   make(map[string]map[string]*domain.Image),
	}
	s.clock = s.tick
	return s
}

// tick returns strictly increasing timestamps so created_at orders inserts.
func (s *Store) tick() time.Time {
	s.seq++
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(s.seq) * time.Second)
}

// Products returns the repository view.
func (s *Store) Products() contracts.ProductRepository { return &productRepo{s} }

// Images returns the image repository view.
func (s *Store) Images() contracts.ImageRepository { return &imageRepo{s} }

// ReadModel returns the query view.
func (s *Store) ReadModel() contracts.ReadModel { return &readModel{s} }

// Seed stores a product directly, bypassing the applier.
func (s *Store) Seed(p *domain.Product, images ...*domain.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data := repo.DomainToData(p)
	if data.CreatedAt.IsZero() {
		data.CreatedAt = s.clock()
	}
	data.UpdatedAt = data.CreatedAt
	s.products[p.ID()] = data
	for _, img := range images {
		s.putImage(img)
	}
}

// ProductCount returns the number of stored products.
func (s *Store) ProductCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products)
}

// ImageCount returns the number of stored image records of a product.
func (s *Store) ImageCount(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.images[productID])
}

// TotalImageCount returns the number of stored image records.
func (s *Store) TotalImageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, imgs := range s.images {
		n += len(imgs)
	}
	return n
}

// Product returns the stored row of a product, or nil.
func (s *Store) Product(productID string) *m_product.Data {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.products[productID]; ok {
		cp := *d
		return &cp
	}
	return nil
}

func (s *Store) putImage(img *domain.Image) {
	if s.images[img.ProductID] == nil {
		s.images[img.ProductID] = make(map[string]*domain.Image)
	}
	cp := *img
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = s.clock()
	}
	s.images[img.ProductID][img.ID] = &cp
}

func (s *Store) sortedImages(productID string) []*domain.Image {
	out := make([]*domain.Image, 0, len(s.images[productID]))
	for _, img := range s.images[productID] {
		cp := *img
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

type productRepo struct{ s *Store }

func (r *productRepo) InsertMut(p *domain.Product) *spanner.Mutation {
	data := repo.DomainToData(p)
	mut := m_product.NewModel().InsertMut(data)
	return r.s.Applier.Register(mut, func() {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
		data.CreatedAt = r.s.clock()
		data.UpdatedAt = data.CreatedAt
		r.s.products[data.ProductID] = data
	})
}

func (r *productRepo) UpdateMut(p *domain.Product) *spanner.Mutation {
	updates := repo.DirtyColumns(p)
	if len(updates) == 0 {
		return nil
	}
	data := repo.DomainToData(p)
	mut := m_product.NewModel().UpdateMut(p.ID(), updates)
	return r.s.Applier.Register(mut, func() {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
		existing, ok := r.s.products[data.ProductID]
		if !ok {
			return
		}
		data.CreatedAt = existing.CreatedAt
		data.UpdatedAt = r.s.clock()
		r.s.products[data.ProductID] = data
	})
}

func (r *productRepo) DeleteMut(productID string) *spanner.Mutation {
	mut := m_product.NewModel().DeleteMut(productID)
	return r.s.Applier.Register(mut, func() {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
		if len(r.s.images[productID]) > 0 {
			// interleaved rows with ON DELETE NO ACTION
			panic(fmt.Sprintf("product %s deleted while it still has images", productID))
		}
		delete(r.s.products, productID)
	})
}

func (r *productRepo) GetByID(_ context.Context, productID string) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	data, ok := r.s.products[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	cp := *data
	return repo.DataToDomain(&cp), nil
}

func (r *productRepo) GetByIDs(ctx context.Context, productIDs []string) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, id := range productIDs {
		p, err := r.GetByID(ctx, id)
		if err == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *productRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.products {
		if d.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

type imageRepo struct{ s *Store }

func (r *imageRepo) InsertMut(img *domain.Image) *spanner.Mutation {
	cp := *img
	mut := m_product_image.NewModel().InsertMut(&m_product_image.Data{
		ProductID: img.ProductID,
		ImageID:   img.ID,
		URL:       img.URL,
		Alt:       img.Alt,
		Position:  img.Position,
	})
	return r.s.Applier.Register(mut, func() {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
		r.s.putImage(&cp)
	})
}

func (r *imageRepo) DeleteMut(productID, imageID string) *spanner.Mutation {
	mut := m_product_image.NewModel().DeleteMut(productID, imageID)
	return r.s.Applier.Register(mut, func() {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
		delete(r.s.images[productID], imageID)
	})
}

func (r *imageRepo) DeleteAllMut(productID string) *spanner.Mutation {
	mut := m_product_image.NewModel().DeleteAllMut(productID)
	return r.s.Applier.Register(mut, func() {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
		delete(r.s.images, productID)
	})
}

func (r *imageRepo) ListByProduct(_ context.Context, productID string) ([]*domain.Image, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.sortedImages(productID), nil
}

type readModel struct{ s *Store }

func (rm *readModel) dto(data *m_product.Data) *contracts.ProductDTO {
	cp := *data
	dto := repo.DataToDTO(&cp)
	for _, img := range rm.s.sortedImages(data.ProductID) {
		dto.Images = append(dto.Images, &contracts.ImageDTO{
			ImageID:  img.ID,
			URL:      img.URL,
			Alt:      img.Alt,
			Position: img.Position,
		})
	}
	return dto
}

func (rm *readModel) GetProductByID(_ context.Context, productID string) (*contracts.ProductDTO, error) {
	rm.s.mu.Lock()
	defer rm.s.mu.Unlock()
	data, ok := rm.s.products[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return rm.dto(data), nil
}

func (rm *readModel) GetProductBySlug(_ context.Context, slug string) (*contracts.ProductDTO, error) {
	rm.s.mu.Lock()
	defer rm.s.mu.Unlock()
	for _, data := range rm.s.products {
		if data.Slug == slug {
			return rm.dto(data), nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (rm *readModel) ListProducts(_ context.Context, filter *contracts.ListFilter) (*contracts.ListResult, error) {
	rm.s.mu.Lock()
	defer rm.s.mu.Unlock()

	var matched []*m_product.Data
	for _, data := range rm.s.products {
		if matches(data, filter) {
			matched = append(matched, data)
		}
	}
	sortProducts(matched, filter.Sort)

	total := int64(len(matched))
	w := filter.Window
	products := make([]*contracts.ProductDTO, 0, w.PageSize)
	for i := w.From; i <= w.To && i < total; i++ {
		products = append(products, rm.dto(matched[i]))
	}

	return &contracts.ListResult{
		Products:   products,
		Total:      total,
		Page:       w.Page,
		PageSize:   w.PageSize,
		TotalPages: w.TotalPages(total),
	}, nil
}

func (rm *readModel) ListAll(_ context.Context) ([]*contracts.ProductDTO, error) {
	rm.s.mu.Lock()
	defer rm.s.mu.Unlock()

	all := make([]*m_product.Data, 0, len(rm.s.products))
	for _, data := range rm.s.products {
		all = append(all, data)
	}
	sortProducts(all, contracts.SortNewest)

	out := make([]*contracts.ProductDTO, 0, len(all))
	for _, data := range all {
		out = append(out, rm.dto(data))
	}
	return out, nil
}

func (rm *readModel) Taxonomy(_ context.Context, status string) (*contracts.Taxonomy, error) {
	rm.s.mu.Lock()
	defer rm.s.mu.Unlock()

	categories := map[string]int64{}
	tags := map[string]int64{}
	for _, data := range rm.s.products {
		if !statusMatches(data.Status, status) {
			continue
		}
		for _, c := range data.Categories {
			categories[c]++
		}
		for _, t := range data.Tags {
			tags[t]++
		}
	}
	return &contracts.Taxonomy{Categories: rank(categories), Tags: rank(tags)}, nil
}

func (rm *readModel) CountByStatus(_ context.Context) (map[string]int64, error) {
	rm.s.mu.Lock()
	defer rm.s.mu.Unlock()
	counts := map[string]int64{}
	for _, data := range rm.s.products {
		counts[data.Status]++
	}
	return counts, nil
}

func matches(data *m_product.Data, filter *contracts.ListFilter) bool {
	if filter.Query != "" && !strings.Contains(strings.ToLower(data.Name), strings.ToLower(filter.Query)) {
		return false
	}
	if !statusMatches(data.Status, filter.Status) {
		return false
	}
	if filter.Category != "" && !slices.Contains(data.Categories, filter.Category) {
		return false
	}
	if filter.Tag != "" && !slices.Contains(data.Tags, filter.Tag) {
		return false
	}
	return true
}

func statusMatches(status, want string) bool {
	switch want {
	case contracts.StatusAll:
		return true
	case "":
		return status == string(domain.StatusPublished)
	default:
		return status == want
	}
}

func sortProducts(products []*m_product.Data, sortKey string) {
	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		switch sortKey {
		case contracts.SortPriceAsc:
			if a.Price != b.Price {
				return a.Price < b.Price
			}
		case contracts.SortPriceDesc:
			if a.Price != b.Price {
				return a.Price > b.Price
			}
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		}
		return a.ProductID < b.ProductID
	})
}

func rank(counts map[string]int64) []contracts.LabelCount {
	out := make([]contracts.LabelCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, contracts.LabelCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ImageStore is an in-memory contracts.ImageStore.
type ImageStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string

	// FailUpload, when set, is consulted for every upload with the
	// object path; a non-nil result fails that upload.
	FailUpload func(path string) error
}

// NewImageStore returns an empty ImageStore.
func NewImageStore() *ImageStore {
	return &ImageStore{objects: make(map[string][]byte)}
}

// Upload implements contracts.ImageStore.
func (s *ImageStore) Upload(_ context.Context, path, _ string, r io.Reader) error {
	if s.FailUpload != nil {
		if err := s.FailUpload(path); err != nil {
			return err
		}
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objects[path]; exists {
		return fmt.Errorf("%s: %w", path, domain.ErrObjectExists)
	}
	s.objects[path] = buf.Bytes()
	return nil
}

// PublicURL implements contracts.ImageStore.
func (s *ImageStore) PublicURL(path string) string {
	return "https://images.test/" + path
}

// Delete implements contracts.ImageStore.
func (s *ImageStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, path)
	s.deleted = append(s.deleted, path)
	return nil
}

// Paths returns the stored object paths, sorted.
func (s *ImageStore) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.objects))
	for p := range s.objects {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Deleted returns every path passed to Delete.
func (s *ImageStore) Deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.deleted)
}
