package stockhealth

import (
	"math"

	"github.com/rdearco/nuel-supply-sight-tw/internal/domain"
	"github.com/shopspring/decimal"
)

// fillRatePrecision is the number of decimals the fill rate is rounded to.
const fillRatePrecision = 1

// Aggregate computes the dashboard totals for a snapshot.
//
// TotalStock and TotalDemand are scaled by the date range multiplier and
// rounded to the nearest integer. The fill rate is the share of demand that
// can be served from stock, each product contributing at most its own demand,
// so it never exceeds 100. It is computed on the unscaled sums: the
// multiplier applies to every product alike and cancels out.
func Aggregate(products []domain.Product, r domain.DateRange) domain.KPIData {
	var (
		stock   int64
		demand  int64
		covered int64
	)
	for _, p := range products {
		stock += int64(p.Stock)
		demand += int64(p.Demand)
		covered += int64(min(p.Stock, p.Demand))
	}

	m := r.Multiplier()

	return domain.KPIData{
		TotalStock:  int(math.Round(float64(stock) * m)),
		TotalDemand: int(math.Round(float64(demand) * m)),
		FillRate:    fillRate(covered, demand),
	}
}

func fillRate(covered, demand int64) float64 {
	if demand == 0 {
		return 0
	}

	rate := decimal.NewFromInt(covered).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(demand)).
		Round(fillRatePrecision)

	f, _ := rate.Float64()
	return f
}

// Breakdown counts products per status, always listing all three buckets.
func Breakdown(products []domain.ProductWithStatus) []domain.StatusCount {
	counts := make(map[domain.Status]int, 3)
	for _, p := range products {
		counts[p.Status]++
	}

	statuses := domain.Statuses()
	result := make([]domain.StatusCount, 0, len(statuses))
	for _, s := range statuses {
		result = append(result, domain.StatusCount{Status: s, Count: counts[s]})
	}
	return result
}
