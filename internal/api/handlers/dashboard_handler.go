package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rdearco/nuel-supply-sight-tw/internal/domain"
	"github.com/rdearco/nuel-supply-sight-tw/internal/service"
	"github.com/rs/zerolog/log"
)

type DashboardHandler struct {
	service *service.DashboardService
}

func NewDashboardHandler(service *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Warehouse names are checked by the service, which owns that rule.
type updateProductRequest struct {
	Demand    *int    `json:"demand" binding:"omitempty,gt=0"`
	Stock     *int    `json:"stock" binding:"omitempty,gt=0"`
	Warehouse *string `json:"warehouse"`
}

type transferStockRequest struct {
	Delta     int    `json:"delta" binding:"ne=0"`
	Warehouse string `json:"warehouse"`
}

// Health reports liveness.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *DashboardHandler) parseDateRange(c *gin.Context) (domain.DateRange, error) {
	return domain.ParseDateRange(c.Query("range"))
}

// parseViewState applies the query to a default view the same way the
// dashboard controls would, so a filter or page size change lands on page 1
// unless an explicit page is given.
func (h *DashboardHandler) parseViewState(c *gin.Context) (domain.ViewState, error) {
	state := domain.NewViewState()

	r, err := h.parseDateRange(c)
	if err != nil {
		return state, err
	}
	state.SetDateRange(r)

	var patch domain.FiltersPatch
	if search, ok := c.GetQuery("search"); ok {
		patch.Search = &search
	}
	if warehouse := strings.TrimSpace(c.Query("warehouse")); warehouse != "" {
		patch.Warehouse = &warehouse
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" && status != domain.AllStatus {
		parsed, ok := domain.ParseStatus(status)
		if !ok {
			return state, &domain.ValidationError{Field: "status", Reason: "unknown status " + status}
		}
		label := string(parsed)
		patch.Status = &label
	}
	if sortField := strings.TrimSpace(c.Query("sort_field")); sortField != "" {
		sortField = strings.ToLower(sortField)
		patch.SortField = &sortField
	}
	if sortDir := strings.ToLower(strings.TrimSpace(c.Query("sort_direction"))); sortDir != "" {
		if sortDir != domain.SortDesc {
			sortDir = domain.SortAsc
		}
		patch.SortDir = &sortDir
	}
	state.SetFilters(patch)

	if raw := strings.TrimSpace(c.Query("page_size")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return state, &domain.ValidationError{Field: "page_size", Reason: "must be an integer"}
		}
		state.SetPageSize(size)
	}
	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return state, &domain.ValidationError{Field: "page", Reason: "must be an integer"}
		}
		state.SetPage(page)
	}

	state.SelectProduct(strings.TrimSpace(c.Query("selected")))

	return state, nil
}

func (h *DashboardHandler) GetProducts(c *gin.Context) {
	ctx := c.Request.Context()

	if withStatus, _ := strconv.ParseBool(c.DefaultQuery("with_status", "false")); withStatus {
		products, err := h.service.ProductsWithStatus(ctx)
		if err != nil {
			respondError(c, "failed to fetch products", err)
			return
		}
		c.JSON(http.StatusOK, products)
		return
	}

	products, err := h.service.Products(ctx)
	if err != nil {
		respondError(c, "failed to fetch products", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *DashboardHandler) GetProduct(c *gin.Context) {
	product, err := h.service.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "failed to fetch product", err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *DashboardHandler) GetProductView(c *gin.Context) {
	state, err := h.parseViewState(c)
	if err != nil {
		respondError(c, "invalid query", err)
		return
	}

	page, err := h.service.ProductView(c.Request.Context(), state)
	if err != nil {
		respondError(c, "failed to fetch products", err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *DashboardHandler) UpdateProduct(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	product, err := h.service.UpdateProduct(c.Request.Context(), c.Param("id"), domain.ProductUpdate{
		Demand:    req.Demand,
		Stock:     req.Stock,
		Warehouse: req.Warehouse,
	})
	if err != nil {
		respondError(c, "failed to update product", err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *DashboardHandler) TransferStock(c *gin.Context) {
	var req transferStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	product, err := h.service.TransferStock(c.Request.Context(), c.Param("id"), domain.StockTransfer{
		Delta:     req.Delta,
		Warehouse: req.Warehouse,
	})
	if err != nil {
		respondError(c, "failed to transfer stock", err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *DashboardHandler) GetKPIs(c *gin.Context) {
	r, err := h.parseDateRange(c)
	if err != nil {
		respondError(c, "invalid query", err)
		return
	}

	kpis, err := h.service.KPIs(c.Request.Context(), r)
	if err != nil {
		respondError(c, "failed to fetch kpis", err)
		return
	}

	c.JSON(http.StatusOK, kpis)
}

func (h *DashboardHandler) GetTrend(c *gin.Context) {
	r, err := h.parseDateRange(c)
	if err != nil {
		respondError(c, "invalid query", err)
		return
	}

	points, err := h.service.TrendData(c.Request.Context(), r)
	if err != nil {
		respondError(c, "failed to fetch trend", err)
		return
	}

	c.JSON(http.StatusOK, points)
}

func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	state, err := h.parseViewState(c)
	if err != nil {
		respondError(c, "invalid query", err)
		return
	}

	dashboard, err := h.service.Dashboard(c.Request.Context(), state)
	if err != nil {
		respondError(c, "failed to fetch dashboard", err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

func (h *DashboardHandler) GetWarehouses(c *gin.Context) {
	warehouses, err := h.service.Warehouses(c.Request.Context())
	if err != nil {
		respondError(c, "failed to fetch warehouses", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"warehouses": warehouses})
}

func (h *DashboardHandler) GetFilterOptions(c *gin.Context) {
	options, err := h.service.FilterOptions(c.Request.Context())
	if err != nil {
		respondError(c, "failed to fetch filter options", err)
		return
	}

	c.JSON(http.StatusOK, options)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUpdateInFlight):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondBindError answers 400 for a body that is malformed or breaks a
// binding rule; the latter carries the product id like any validation error.
func respondBindError(c *gin.Context, err error) {
	if verr := service.FieldError(c.Param("id"), err); errors.Is(verr, domain.ErrValidation) {
		respondError(c, "invalid request body", verr)
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
}

func respondError(c *gin.Context, message string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(message)
	}

	body := gin.H{"error": message, "details": err.Error()}
	if id := domain.ProductIDOf(err); id != "" {
		body["id"] = id
	}
	c.JSON(status, body)
}
