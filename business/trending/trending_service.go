package trending

import (
	"context"
	"sort"

	"kneexEngine/domain"
	"kneexEngine/pkg/logger"
	"kneexEngine/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	DefaultPoolSize = 20
	DefaultLimit    = 10
)

// AnalyticsRepository reads the per-product interaction counters.
type AnalyticsRepository interface {
	TopByClicks(ctx context.Context, pool int) ([]domain.ProductCounters, error)
}

// ProductRepository supplies the cold-start fallback.
type ProductRepository interface {
	RecentProducts(ctx context.Context, limit int) ([]domain.Product, error)
}

// Cache is optional; a nil cache disables it.
type Cache interface {
	Get(ctx context.Context, limit int) ([]domain.TrendingProduct, bool)
	Set(ctx context.Context, limit int, items []domain.TrendingProduct)
}

type Service struct {
	analyticsRepo AnalyticsRepository
	productRepo   ProductRepository
	cache         Cache
	poolSize      int
}

func NewService(analyticsRepo AnalyticsRepository, productRepo ProductRepository, cache Cache, poolSize int) *Service {
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}

	return &Service{
		analyticsRepo: analyticsRepo,
		productRepo:   productRepo,
		cache:         cache,
		poolSize:      poolSize,
	}
}

// ComputeTrending ranks products by click_count + search_count over a pool
// of the poolSize most-clicked products, truncated to limit.
//
// The two-stage fetch (top-by-clicks pool, re-rank by combined score) is a
// deliberate approximation: a product searched often but never clicked can
// be missed, in exchange for one bounded query instead of a full aggregate
// scan. Ties keep the pool order, which carries catalog recency.
//
// Failures never reach the caller: a broken read yields an empty list, an
// empty pool falls back to the newest products.
func (s *Service) ComputeTrending(ctx context.Context, limit int) []domain.TrendingProduct {
	if limit <= 0 {
		limit = DefaultLimit
	}

	timer := prometheus.NewTimer(metrics.TrendingLatency)
	defer timer.ObserveDuration()

	if s.cache != nil {
		if items, ok := s.cache.Get(ctx, limit); ok {
			return items
		}
	}

	pool, err := s.analyticsRepo.TopByClicks(ctx, s.poolSize)
	if err != nil {
		logger.Error("Failed to load trending pool", err)
		return []domain.TrendingProduct{}
	}

	if len(pool) == 0 {
		return s.coldStart(ctx, limit)
	}

	items := make([]domain.TrendingProduct, 0, len(pool))
	for _, row := range pool {
		items = append(items, domain.TrendingProduct{
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			Price:       row.Price,
			ImageURL:    row.ImageURL,
			Score:       row.ClickCount + row.SearchCount,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})

	if len(items) > limit {
		items = items[:limit]
	}

	if s.cache != nil {
		s.cache.Set(ctx, limit, items)
	}

	return items
}

// coldStart serves the newest catalog entries when no analytics have
// accumulated yet (fresh deployment).
func (s *Service) coldStart(ctx context.Context, limit int) []domain.TrendingProduct {
	products, err := s.productRepo.RecentProducts(ctx, limit)
	if err != nil {
		logger.Error("Failed to load cold-start products", err)
		return []domain.TrendingProduct{}
	}

	items := make([]domain.TrendingProduct, 0, len(products))
	for _, p := range products {
		items = append(items, domain.TrendingProduct{
			ProductID:   p.ID,
			ProductName: p.ProductName,
			Price:       p.Price,
			ImageURL:    p.ImageURL,
		})
	}

	return items
}
