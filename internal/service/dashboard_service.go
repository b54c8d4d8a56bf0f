package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rdearco/nuel-supply-sight-tw/internal/cache"
	"github.com/rdearco/nuel-supply-sight-tw/internal/domain"
	"github.com/rdearco/nuel-supply-sight-tw/internal/repository"
	"github.com/rdearco/nuel-supply-sight-tw/internal/stockhealth"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DashboardService is the data-access layer every transport binds to. All
// reads derive their values from the current store snapshot; nothing but the
// revision-keyed KPI cache is kept between calls.
type DashboardService struct {
	repo        repository.ProductRepository
	cache       cache.KPICache
	now         func() time.Time
	jitter      stockhealth.Jitter
	updateDelay time.Duration

	writes   *semaphore.Weighted
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// Option customises a DashboardService.
type Option func(*DashboardService)

// WithClock sets the source of "today" for trend series.
func WithClock(now func() time.Time) Option {
	return func(s *DashboardService) { s.now = now }
}

// WithJitter sets the random source used for synthetic trend points.
func WithJitter(j stockhealth.Jitter) Option {
	return func(s *DashboardService) { s.jitter = j }
}

// WithUpdateDelay sets the simulated latency applied before every mutation.
func WithUpdateDelay(d time.Duration) Option {
	return func(s *DashboardService) { s.updateDelay = d }
}

func NewDashboardService(repo repository.ProductRepository, cacheImpl cache.KPICache, opts ...Option) *DashboardService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopKPICache()
	}

	s := &DashboardService{
		repo:     repo,
		cache:    cacheImpl,
		now:      time.Now,
		jitter:   stockhealth.DefaultJitter,
		writes:   semaphore.NewWeighted(1),
		inFlight: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *DashboardService) Products(ctx context.Context) ([]domain.Product, error) {
	return s.repo.GetAll(ctx)
}

func (s *DashboardService) ProductsWithStatus(ctx context.Context) ([]domain.ProductWithStatus, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return stockhealth.WithStatus(products), nil
}

// Product returns a single product with its status, or a NotFoundError.
func (s *DashboardService) Product(ctx context.Context, id string) (*domain.ProductWithStatus, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	annotated := stockhealth.Annotate(*p)
	return &annotated, nil
}

func (s *DashboardService) KPIs(ctx context.Context, r domain.DateRange) (domain.KPIData, error) {
	snapshot, err := s.repo.Snapshot(ctx)
	if err != nil {
		return domain.KPIData{}, err
	}
	return s.kpisFor(ctx, snapshot, r), nil
}

// TrendData regenerates the series on every call; only its last point is real.
func (s *DashboardService) TrendData(ctx context.Context, r domain.DateRange) ([]domain.TrendDataPoint, error) {
	kpis, err := s.KPIs(ctx, r)
	if err != nil {
		return nil, err
	}
	return stockhealth.GenerateTrend(kpis, r, s.now(), s.jitter), nil
}

// ProductView returns the table page for a caller's selection.
func (s *DashboardService) ProductView(ctx context.Context, state domain.ViewState) (domain.Page, error) {
	products, err := s.ProductsWithStatus(ctx)
	if err != nil {
		return domain.Page{}, err
	}
	return stockhealth.ViewPage(products, state.Filters, state.Page, state.PageSize)
}

// Dashboard derives every dashboard section from one snapshot.
func (s *DashboardService) Dashboard(ctx context.Context, state domain.ViewState) (*domain.Dashboard, error) {
	snapshot, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	annotated := stockhealth.WithStatus(snapshot.Products)
	dashboard := &domain.Dashboard{
		DateRange: state.DateRange,
		Revision:  snapshot.Revision,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		dashboard.KPIs = s.kpisFor(gctx, snapshot, state.DateRange)
		dashboard.Trend = stockhealth.GenerateTrend(dashboard.KPIs, state.DateRange, s.now(), s.jitter)
		return nil
	})
	g.Go(func() error {
		dashboard.Breakdown = stockhealth.Breakdown(annotated)
		return nil
	})
	g.Go(func() error {
		page, err := stockhealth.ViewPage(annotated, state.Filters, state.Page, state.PageSize)
		if err != nil {
			return err
		}
		dashboard.Products = page
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if state.DrawerOpen {
		i := slices.IndexFunc(annotated, func(p domain.ProductWithStatus) bool {
			return p.ID == state.SelectedProductID
		})
		if i < 0 {
			return nil, &domain.NotFoundError{ProductID: state.SelectedProductID}
		}
		dashboard.Selected = &annotated[i]
	}

	return dashboard, nil
}

func (s *DashboardService) Warehouses(ctx context.Context) ([]string, error) {
	return s.repo.Warehouses(ctx)
}

// FilterOptions lists the dropdown values, wildcards first.
func (s *DashboardService) FilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	warehouses, err := s.repo.Warehouses(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.FilterOptions{
		Warehouses: append([]string{domain.AllWarehouses}, warehouses...),
		Statuses:   domain.StatusOptions(),
		DateRanges: []string{string(domain.Range7d), string(domain.Range14d), string(domain.Range30d)},
	}, nil
}

// UpdateProduct sets demand, stock or warehouse of a product.
func (s *DashboardService) UpdateProduct(ctx context.Context, id string, patch domain.ProductUpdate) (*domain.ProductWithStatus, error) {
	if err := validateUpdate(id, patch); err != nil {
		return nil, err
	}

	return s.mutate(ctx, id, "update", func(ctx context.Context) (*domain.Product, error) {
		return s.repo.Update(ctx, id, patch)
	})
}

// TransferStock adds a signed quantity to the product's stock.
func (s *DashboardService) TransferStock(ctx context.Context, id string, transfer domain.StockTransfer) (*domain.ProductWithStatus, error) {
	if err := validateTransfer(id, transfer); err != nil {
		return nil, err
	}

	return s.mutate(ctx, id, "transfer", func(ctx context.Context) (*domain.Product, error) {
		return s.repo.AdjustStock(ctx, id, transfer)
	})
}

func (s *DashboardService) mutate(ctx context.Context, id, op string, apply func(ctx context.Context) (*domain.Product, error)) (*domain.ProductWithStatus, error) {
	if err := s.beginUpdate(id); err != nil {
		return nil, err
	}
	defer s.endUpdate(id)

	if err := s.writes.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%s product %s: %w", op, id, err)
	}
	defer s.writes.Release(1)

	if err := s.wait(ctx); err != nil {
		return nil, fmt.Errorf("%s product %s: %w", op, id, err)
	}

	updated, err := apply(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s product %s: %w", op, id, err)
	}

	if err := s.cache.InvalidateStore(ctx, s.repo.ID()); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache invalidate failed")
	}

	annotated := stockhealth.Annotate(*updated)
	log.Info().
		Str("op", op).
		Str("product_id", id).
		Int("stock", updated.Stock).
		Int("demand", updated.Demand).
		Str("warehouse", updated.Warehouse).
		Str("status", string(annotated.Status)).
		Msg("product updated")

	return &annotated, nil
}

// IsUpdating reports whether a mutation for the product is in flight.
func (s *DashboardService) IsUpdating(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inFlight[id]
	return ok
}

func (s *DashboardService) beginUpdate(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inFlight[id]; busy {
		return &domain.InFlightError{ProductID: id}
	}
	s.inFlight[id] = struct{}{}
	return nil
}

func (s *DashboardService) endUpdate(id string) {
	s.mu.Lock()
	delete(s.inFlight, id)
	s.mu.Unlock()
}

func (s *DashboardService) wait(ctx context.Context) error {
	if s.updateDelay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.updateDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *DashboardService) kpisFor(ctx context.Context, snapshot domain.Snapshot, r domain.DateRange) domain.KPIData {
	key := cache.KeyFor(snapshot, r)
	if kpis, ok, err := s.cache.GetKPIs(ctx, key); err == nil && ok {
		return kpis
	} else if err != nil {
		log.Warn().Err(err).Msg("dashboard: cache get kpis failed")
	}

	kpis := stockhealth.Aggregate(snapshot.Products, r)

	if err := s.cache.SetKPIs(ctx, key, kpis); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache set kpis failed")
	}

	return kpis
}
