package stockhealth

import "github.com/rdearco/nuel-supply-sight-tw/internal/domain"

// Classify derives a product's status from the stock to demand ratio.
//
//	ratio >= 1.0        Healthy
//	0.5 <= ratio < 1.0  Low
//	ratio < 0.5         Critical
//
// Zero demand can never be under-served and is Healthy. The comparisons are
// done on integers so the 1.0 and 0.5 boundaries are exact; stock >= demand-stock
// is 2*stock >= demand without the overflow.
func Classify(stock, demand int) domain.Status {
	if demand <= 0 {
		return domain.StatusHealthy
	}

	switch {
	case stock >= demand:
		return domain.StatusHealthy
	case stock >= demand-stock:
		return domain.StatusLow
	default:
		return domain.StatusCritical
	}
}

// WithStatus annotates every product of a snapshot with its status.
func WithStatus(products []domain.Product) []domain.ProductWithStatus {
	annotated := make([]domain.ProductWithStatus, len(products))
	for i, p := range products {
		annotated[i] = domain.ProductWithStatus{
			Product: p,
			Status:  Classify(p.Stock, p.Demand),
		}
	}
	return annotated
}

// Annotate returns a single product with its status.
func Annotate(p domain.Product) domain.ProductWithStatus {
	return domain.ProductWithStatus{Product: p, Status: Classify(p.Stock, p.Demand)}
}
