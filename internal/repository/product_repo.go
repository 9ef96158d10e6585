package repository

import (
	"sync"
	"time"

	"inventory-dashboard/internal/model"

	"github.com/google/uuid"
)

type ProductRepository interface {
	Create(input model.ProductInput) model.Product
	Insert(product model.Product)
	FindAll() []model.Product
	FindByID(id uuid.UUID) (model.Product, bool)
	Update(id uuid.UUID, patch model.ProductInput) (model.Product, bool)
	Delete(id uuid.UUID) (model.Product, bool)
}

// productRepo holds the catalog in memory. New records go to the head of
// the slice; consumers re-sort anyway so the order carries no contract.
type productRepo struct {
	mu       sync.RWMutex
	products []model.Product
	now      func() time.Time
	last     time.Time
}

// Option configures the in-memory repository
type Option func(*productRepo)

// WithClock replaces time.Now, mostly for tests
func WithClock(now func() time.Time) Option {
	return func(r *productRepo) { r.now = now }
}

func NewProductRepo(opts ...Option) ProductRepository {
	r := &productRepo{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create stamps a new id and creation time and prepends the record.
// Creation times are strictly increasing so sort order follows creation order.
func (r *productRepo) Create(input model.ProductInput) model.Product {
	r.mu.Lock()
	defer r.mu.Unlock()

	createdAt := r.now()
	if !createdAt.After(r.last) {
		createdAt = r.last.Add(time.Nanosecond)
	}
	r.last = createdAt

	product := model.NewProduct(input, createdAt)
	for r.indexOf(product.ID) >= 0 {
		product.ID = uuid.New()
	}
	r.products = append([]model.Product{product}, r.products...)
	return product
}

// Insert adds a fully built record as-is (seeding). A record whose id is
// already present replaces nothing and is dropped.
func (r *productRepo) Insert(product model.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(product.ID) >= 0 {
		return
	}
	if product.CreatedAt.After(r.last) {
		r.last = product.CreatedAt
	}
	r.products = append(r.products, product)
}

func (r *productRepo) FindAll() []model.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Product, len(r.products))
	copy(out, r.products)
	return out
}

func (r *productRepo) FindByID(id uuid.UUID) (model.Product, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return model.Product{}, false
	}
	return r.products[i], true
}

// Update replaces every editable field of the matching record. Unknown ids
// are a no-op.
func (r *productRepo) Update(id uuid.UUID, patch model.ProductInput) (model.Product, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return model.Product{}, false
	}
	r.products[i].Apply(patch)
	return r.products[i], true
}

// Delete removes the matching record for good. Unknown ids are a no-op.
func (r *productRepo) Delete(id uuid.UUID) (model.Product, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return model.Product{}, false
	}
	removed := r.products[i]
	r.products = append(r.products[:i:i], r.products[i+1:]...)
	return removed, true
}

func (r *productRepo) indexOf(id uuid.UUID) int {
	for i := range r.products {
		if r.products[i].ID == id {
			return i
		}
	}
	return -1
}
