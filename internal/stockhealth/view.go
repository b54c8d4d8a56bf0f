package stockhealth

import (
	"cmp"
	"slices"
	"strings"

	"github.com/rdearco/nuel-supply-sight-tw/internal/domain"
)

// ViewPage filters, sorts and paginates the product table.
//
// page is 1-based and is not clamped: asking for a page past the last one
// returns no items, keeping page within PageCount is the caller's job.
func ViewPage(products []domain.ProductWithStatus, filters domain.Filters, page, pageSize int) (domain.Page, error) {
	if page < 1 {
		return domain.Page{}, &domain.ValidationError{Field: "page", Reason: "must be at least 1"}
	}
	if pageSize < 1 {
		return domain.Page{}, &domain.ValidationError{Field: "page_size", Reason: "must be at least 1"}
	}

	filtered := Filter(products, filters)
	if err := Sort(filtered, filters.SortField, filters.SortDir); err != nil {
		return domain.Page{}, err
	}

	total := len(filtered)
	start := (page - 1) * pageSize
	end := min(start+pageSize, total)

	items := []domain.ProductWithStatus{}
	if start < total {
		items = filtered[start:end]
	} else {
		end = start
	}

	return domain.Page{
		Items:      items,
		TotalCount: total,
		PageCount:  (total + pageSize - 1) / pageSize,
		StartIndex: start,
		EndIndex:   end,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// Filter keeps the products matching all three clauses: search term in the
// name, sku or id; warehouse; and status. The search term is matched as typed,
// surrounding spaces included. The input slice is not modified.
func Filter(products []domain.ProductWithStatus, filters domain.Filters) []domain.ProductWithStatus {
	search := strings.ToLower(filters.Search)
	warehouse := strings.TrimSpace(filters.Warehouse)
	status := strings.TrimSpace(filters.Status)

	result := make([]domain.ProductWithStatus, 0, len(products))
	for _, p := range products {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.SKU), search) &&
			!strings.Contains(strings.ToLower(p.ID), search) {
			continue
		}
		if warehouse != "" && warehouse != domain.AllWarehouses && p.Warehouse != warehouse {
			continue
		}
		if status != "" && status != domain.AllStatus && !strings.EqualFold(string(p.Status), status) {
			continue
		}
		result = append(result, p)
	}
	return result
}

// Sort orders products in place by one column. An empty field keeps the
// store order.
func Sort(products []domain.ProductWithStatus, field, dir string) error {
	field = strings.ToLower(strings.TrimSpace(field))
	if field == "" {
		return nil
	}

	var compare func(a, b domain.ProductWithStatus) int
	switch field {
	case domain.SortByID:
		compare = func(a, b domain.ProductWithStatus) int { return cmp.Compare(a.ID, b.ID) }
	case domain.SortByName:
		compare = func(a, b domain.ProductWithStatus) int {
			return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	case domain.SortBySKU:
		compare = func(a, b domain.ProductWithStatus) int { return cmp.Compare(a.SKU, b.SKU) }
	case domain.SortByWarehouse:
		compare = func(a, b domain.ProductWithStatus) int { return cmp.Compare(a.Warehouse, b.Warehouse) }
	case domain.SortByStock:
		compare = func(a, b domain.ProductWithStatus) int { return cmp.Compare(a.Stock, b.Stock) }
	case domain.SortByDemand:
		compare = func(a, b domain.ProductWithStatus) int { return cmp.Compare(a.Demand, b.Demand) }
	case domain.SortByStatus:
		compare = func(a, b domain.ProductWithStatus) int { return cmp.Compare(a.Status.Rank(), b.Status.Rank()) }
	default:
		return &domain.ValidationError{Field: "sort_field", Reason: "unsupported column " + field}
	}

	if strings.EqualFold(strings.TrimSpace(dir), domain.SortDesc) {
		asc := compare
		compare = func(a, b domain.ProductWithStatus) int { return asc(b, a) }
	}

	slices.SortStableFunc(products, compare)
	return nil
}
