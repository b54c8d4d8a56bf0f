package domain

import (
	"fmt"
	"strings"
)

// AllWarehouses is the warehouse filter wildcard. It is never stored on a product.
const AllWarehouses = "All Warehouses"

// DateRange is the dashboard lookback window.
type DateRange string

const (
	Range7d  DateRange = "7d"
	Range14d DateRange = "14d"
	Range30d DateRange = "30d"
)

// DefaultDateRange is what the dashboard opens with.
const DefaultDateRange = Range7d

// ParseDateRange accepts "7d", "14d" or "30d". An empty string yields the default.
func ParseDateRange(raw string) (DateRange, error) {
	switch DateRange(strings.ToLower(strings.TrimSpace(raw))) {
	case "":
		return DefaultDateRange, nil
	case Range7d:
		return Range7d, nil
	case Range14d:
		return Range14d, nil
	case Range30d:
		return Range30d, nil
	}

	return "", &ValidationError{Field: "range", Reason: fmt.Sprintf("unsupported date range %q", raw)}
}

// Days is the number of daily points the range spans.
func (r DateRange) Days() int {
	switch r {
	case Range7d:
		return 7
	case Range14d:
		return 14
	default:
		return 30
	}
}

// Multiplier scales the KPI totals so they visibly follow the range selector.
// There is no historical ledger behind it.
func (r DateRange) Multiplier() float64 {
	switch r {
	case Range7d:
		return 0.7
	case Range14d:
		return 0.85
	default:
		return 1.0
	}
}

// Sort directions
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Sortable product table columns
const (
	SortByID        = "id"
	SortByName      = "name"
	SortBySKU       = "sku"
	SortByWarehouse = "warehouse"
	SortByStock     = "stock"
	SortByDemand    = "demand"
	SortByStatus    = "status"
)

// Filters is the product table selection. Empty Warehouse or Status behave
// like their wildcards.
type Filters struct {
	Search    string `json:"search"`
	Warehouse string `json:"warehouse"`
	Status    string `json:"status"`
	SortField string `json:"sort_field,omitempty"`
	SortDir   string `json:"sort_direction,omitempty"`
}

// DefaultFilters matches nothing out: empty search and both wildcards.
func DefaultFilters() Filters {
	return Filters{
		Warehouse: AllWarehouses,
		Status:    AllStatus,
	}
}

// FilterOptions lists the values the dashboard dropdowns offer.
type FilterOptions struct {
	Warehouses []string `json:"warehouses"`
	Statuses   []string `json:"statuses"`
	DateRanges []string `json:"date_ranges"`
}
