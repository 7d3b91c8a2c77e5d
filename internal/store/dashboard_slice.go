package store

import (
	"context"
)

// DashboardStats are derived client-side by reducing over one large fetch,
// not by a dedicated backend endpoint.
type DashboardStats struct {
	TotalProducts  int            `json:"totalProducts"`
	TotalValue     float64        `json:"totalValue"`
	AvgPrice       float64        `json:"avgPrice"`
	CategoryCounts map[string]int `json:"categoryCounts"`
	PriceRanges    map[string]int `json:"priceRanges"`
}

type DashboardState struct {
	Stats   DashboardStats
	Loading bool
	Err     string
}

// Price histogram buckets.
var priceBuckets = []string{"0-1k", "1k-10k", "10k-50k", "50k+"}

func emptyStats() DashboardStats {
	ranges := map[string]int{}
	for _, b := range priceBuckets {
		ranges[b] = 0
	}
	return DashboardStats{
		CategoryCounts: map[string]int{},
		PriceRanges:    ranges,
	}
}

func priceBucket(price float64) string {
	switch {
	case price <= 1000:
		return "0-1k"
	case price <= 10000:
		return "1k-10k"
	case price <= 50000:
		return "10k-50k"
	default:
		return "50k+"
	}
}

// FetchDashboardStats pulls up to 1000 products with the current filters and
// reduces them into the dashboard histograms.
func (s *Store) FetchDashboardStats(ctx context.Context) error {
	s.mu.Lock()
	filters := s.Products.Filters
	s.Dashboard.Loading = true
	s.Dashboard.Err = ""
	s.mu.Unlock()

	result, err := s.client.FetchProducts(ctx, 1, 1000, filters)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Dashboard.Loading = false
	if err != nil {
		s.Dashboard.Err = err.Error()
		return err
	}

	stats := emptyStats()
	stats.TotalProducts = len(result.Products)
	for _, p := range result.Products {
		stats.TotalValue += p.Price
		stats.CategoryCounts[p.Category]++
		stats.PriceRanges[priceBucket(p.Price)]++
	}
	if stats.TotalProducts > 0 {
		stats.AvgPrice = stats.TotalValue / float64(stats.TotalProducts)
	}

	s.Dashboard.Stats = stats
	return nil
}
