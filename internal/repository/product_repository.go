// internal/repository/product_repository.go
package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rdearco/nuel-supply-sight-tw/internal/domain"
)

// ProductRepository is the single source of truth for product records.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, id string, patch domain.ProductUpdate) (*domain.Product, error)
	AdjustStock(ctx context.Context, id string, transfer domain.StockTransfer) (*domain.Product, error)
	Warehouses(ctx context.Context) ([]string, error)
	Snapshot(ctx context.Context) (domain.Snapshot, error)
	// ID is unique to this store instance and never changes.
	ID() string
}

type productRepository struct {
	id       string
	mu       sync.RWMutex
	products []domain.Product
	index    map[string]int
	revision uint64
}

// NewProductRepository builds an in-memory store owning a copy of the seed rows.
func NewProductRepository(seed []domain.Product) (ProductRepository, error) {
	products := make([]domain.Product, len(seed))
	index := make(map[string]int, len(seed))
	for i, p := range seed {
		if p.ID == "" {
			return nil, fmt.Errorf("seed row %d: missing id", i+1)
		}
		if _, dup := index[p.ID]; dup {
			return nil, fmt.Errorf("seed row %d: duplicate id %s", i+1, p.ID)
		}
		if err := checkInvariants(p); err != nil {
			return nil, fmt.Errorf("seed row %d: %w", i+1, err)
		}
		products[i] = p
		index[p.ID] = i
	}

	return &productRepository{id: uuid.NewString(), products: products, index: index}, nil
}

func (r *productRepository) GetAll(ctx context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]domain.Product(nil), r.products...), nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, &domain.NotFoundError{ProductID: id}
	}

	p := r.products[i]
	return &p, nil
}

// Update merges the supplied fields into the product. Stock replaces the
// current value.
func (r *productRepository) Update(ctx context.Context, id string, patch domain.ProductUpdate) (*domain.Product, error) {
	return r.mutate(id, func(p *domain.Product) {
		if patch.Demand != nil {
			p.Demand = *patch.Demand
		}
		if patch.Stock != nil {
			p.Stock = *patch.Stock
		}
		if patch.Warehouse != nil {
			p.Warehouse = *patch.Warehouse
		}
	})
}

// AdjustStock adds the transfer delta to the current stock.
func (r *productRepository) AdjustStock(ctx context.Context, id string, transfer domain.StockTransfer) (*domain.Product, error) {
	return r.mutate(id, func(p *domain.Product) {
		p.Stock += transfer.Delta
		if transfer.Warehouse != "" {
			p.Warehouse = transfer.Warehouse
		}
	})
}

// mutate applies fn to a copy of the product and commits it only if the
// result is still valid, so readers never see a partial or rejected change.
func (r *productRepository) mutate(id string, fn func(p *domain.Product)) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return nil, &domain.NotFoundError{ProductID: id}
	}

	next := r.products[i]
	fn(&next)
	if err := checkInvariants(next); err != nil {
		return nil, err
	}

	r.products[i] = next
	r.revision++

	return &next, nil
}

func (r *productRepository) Warehouses(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{}, len(r.products))
	warehouses := make([]string, 0)
	for _, p := range r.products {
		if _, ok := seen[p.Warehouse]; ok {
			continue
		}
		seen[p.Warehouse] = struct{}{}
		warehouses = append(warehouses, p.Warehouse)
	}
	return warehouses, nil
}

func (r *productRepository) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return domain.Snapshot{
		StoreID:  r.id,
		Products: append([]domain.Product(nil), r.products...),
		Revision: r.revision,
	}, nil
}

func (r *productRepository) ID() string {
	return r.id
}

func checkInvariants(p domain.Product) error {
	if p.Stock < 0 {
		return &domain.ValidationError{ProductID: p.ID, Field: "stock", Reason: "must not be negative"}
	}
	if p.Demand < 0 {
		return &domain.ValidationError{ProductID: p.ID, Field: "demand", Reason: "must not be negative"}
	}
	if p.Warehouse == "" || p.Warehouse == domain.AllWarehouses {
		return &domain.ValidationError{ProductID: p.ID, Field: "warehouse", Reason: "must name a warehouse"}
	}
	return nil
}
