package domain

import "time"

// KPIData are the dashboard-wide totals.
type KPIData struct {
	TotalStock  int     `json:"totalStock"`
	TotalDemand int     `json:"totalDemand"`
	FillRate    float64 `json:"fillRate"`
}

// TrendDataPoint is one day of the stock-vs-demand chart. Only the last
// point of a series reflects real data; earlier points are synthetic.
type TrendDataPoint struct {
	Date   string    `json:"date"`
	Day    time.Time `json:"day"`
	Stock  float64   `json:"stock"`
	Demand float64   `json:"demand"`
}

// Page is a filtered, sorted slice of the product table.
// StartIndex is the 0-based offset of the first item, EndIndex is exclusive.
type Page struct {
	Items      []ProductWithStatus `json:"items"`
	TotalCount int                 `json:"total"`
	PageCount  int                 `json:"total_pages"`
	StartIndex int                 `json:"start_index"`
	EndIndex   int                 `json:"end_index"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
}

// StatusCount is the number of products in one status bucket.
type StatusCount struct {
	Status Status `json:"status"`
	Count  int    `json:"count"`
}

// Dashboard aggregates everything the dashboard renders for one selection.
type Dashboard struct {
	DateRange DateRange        `json:"date_range"`
	KPIs      KPIData          `json:"kpis"`
	Breakdown []StatusCount    `json:"breakdown"`
	Trend     []TrendDataPoint `json:"trend"`
	Products  Page             `json:"products"`
	Revision  uint64           `json:"revision"`

	// Selected is the product shown in the detail drawer, if one is open.
	Selected *ProductWithStatus `json:"selected,omitempty"`
}
