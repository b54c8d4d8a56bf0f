package domain

// Default pagination
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// ViewState is the dashboard selection held by a caller between reads.
// Changing the filters or the page size always returns to the first page.
type ViewState struct {
	DateRange         DateRange `json:"date_range"`
	Filters           Filters   `json:"filters"`
	Page              int       `json:"page"`
	PageSize          int       `json:"page_size"`
	SelectedProductID string    `json:"selected_product_id,omitempty"`
	DrawerOpen        bool      `json:"drawer_open"`
}

// NewViewState returns the initial dashboard selection.
func NewViewState() ViewState {
	return ViewState{
		DateRange: DefaultDateRange,
		Filters:   DefaultFilters(),
		Page:      DefaultPage,
		PageSize:  DefaultPageSize,
	}
}

// FiltersPatch carries the filter fields to change; nil fields are kept.
type FiltersPatch struct {
	Search    *string
	Warehouse *string
	Status    *string
	SortField *string
	SortDir   *string
}

// SetFilters merges the patch into the current filters and resets the page.
func (s *ViewState) SetFilters(patch FiltersPatch) {
	if patch.Search != nil {
		s.Filters.Search = *patch.Search
	}
	if patch.Warehouse != nil {
		s.Filters.Warehouse = *patch.Warehouse
	}
	if patch.Status != nil {
		s.Filters.Status = *patch.Status
	}
	if patch.SortField != nil {
		s.Filters.SortField = *patch.SortField
	}
	if patch.SortDir != nil {
		s.Filters.SortDir = *patch.SortDir
	}
	s.Page = DefaultPage
}

// SetPageSize changes the rows per page and resets the page.
func (s *ViewState) SetPageSize(size int) {
	s.PageSize = size
	s.Page = DefaultPage
}

// SetPage moves to the given page. It is not clamped against the page count.
func (s *ViewState) SetPage(page int) {
	s.Page = page
}

// SetDateRange changes the lookback window; the table page is kept.
func (s *ViewState) SetDateRange(r DateRange) {
	s.DateRange = r
}

// SelectProduct opens the drawer for a product.
func (s *ViewState) SelectProduct(id string) {
	s.SelectedProductID = id
	s.DrawerOpen = id != ""
}

// CloseDrawer clears the selection.
func (s *ViewState) CloseDrawer() {
	s.SelectedProductID = ""
	s.DrawerOpen = false
}
