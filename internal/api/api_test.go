package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rdearco/nuel-supply-sight-tw/internal/api/middleware"
	"github.com/rdearco/nuel-supply-sight-tw/internal/domain"
	"github.com/rdearco/nuel-supply-sight-tw/internal/repository"
	"github.com/rdearco/nuel-supply-sight-tw/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, opts ...service.Option) *gin.Engine {
	router, _ := newTestRouterWithService(t, opts...)
	return router
}

func newTestRouterWithService(t *testing.T, opts ...service.Option) (*gin.Engine, *service.DashboardService) {
	t.Helper()

	repo, err := repository.NewProductRepository(repository.SeedProducts())
	require.NoError(t, err)

	svc := service.NewDashboardService(repo, nil, opts...)
	return NewRouter(&Services{DashboardService: svc}, []string{"*"}), svc
}

func doRequest(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		payload, _ := json.Marshal(b)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	router := NewRouter(nil, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	router := NewRouter(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get(middleware.RequestIDHeader))
}

func TestCORSAllowsConfiguredOrigins(t *testing.T) {
	router := NewRouter(nil, []string{"http://dashboard.local, http://other.local"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("Origin", "http://other.local")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "http://other.local", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNormalizeAllowedOrigins(t *testing.T) {
	origins, allowAll := normalizeAllowedOrigins([]string{" http://a.local ,, http://b.local", "*"})
	assert.True(t, allowAll)
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, origins)
}

func TestGetProducts(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	products := decode[[]domain.Product](t, w)
	assert.Len(t, products, 14)
	assert.Equal(t, "P-1001", products[0].ID)

	w = doRequest(router, http.MethodGet, "/api/v1/products?with_status=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	annotated := decode[[]domain.ProductWithStatus](t, w)
	assert.Equal(t, domain.StatusCritical, annotated[3].Status)
}

func TestGetProduct(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/products/P-1004", nil)
	require.Equal(t, http.StatusOK, w.Code)
	product := decode[domain.ProductWithStatus](t, w)
	assert.Equal(t, "Bearing 608ZZ", product.Name)
	assert.Equal(t, domain.StatusCritical, product.Status)

	w = doRequest(router, http.MethodGet, "/api/v1/products/P-9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode[map[string]string](t, w)
	assert.Equal(t, "P-9999", body["id"])
}

func TestUpdateProduct_StatusFollowsEdits(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPatch, "/api/v1/products/P-1001", map[string]int{"demand": 150})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	product := decode[domain.ProductWithStatus](t, w)
	assert.Equal(t, 150, product.Demand)
	assert.Equal(t, domain.StatusHealthy, product.Status)

	w = doRequest(router, http.MethodPatch, "/api/v1/products/P-1001", map[string]int{"stock": 50})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	product = decode[domain.ProductWithStatus](t, w)
	assert.Equal(t, domain.StatusCritical, product.Status)

	w = doRequest(router, http.MethodGet, "/api/v1/kpis?range=30d", nil)
	require.Equal(t, http.StatusOK, w.Code)
	kpis := decode[domain.KPIData](t, w)
	assert.Equal(t, 1294-180+50, kpis.TotalStock)
	assert.Equal(t, 1315-120+150, kpis.TotalDemand)
}

func TestUpdateProduct_Errors(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name   string
		path   string
		body   any
		status int
	}{
		{name: "unknown product", path: "/api/v1/products/NON-EXISTENT", body: map[string]int{"demand": 100}, status: http.StatusNotFound},
		{name: "empty patch", path: "/api/v1/products/P-1001", body: map[string]int{}, status: http.StatusBadRequest},
		{name: "zero stock", path: "/api/v1/products/P-1001", body: map[string]int{"stock": 0}, status: http.StatusBadRequest},
		{name: "wildcard warehouse", path: "/api/v1/products/P-1001", body: map[string]string{"warehouse": domain.AllWarehouses}, status: http.StatusBadRequest},
		{name: "malformed json", path: "/api/v1/products/P-1001", body: `{"demand":`, status: http.StatusBadRequest},
		{name: "wrong type", path: "/api/v1/products/P-1001", body: `{"demand":"lots"}`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodPatch, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	w := doRequest(router, http.MethodGet, "/api/v1/products", nil)
	assert.Equal(t, repository.SeedProducts(), decode[[]domain.Product](t, w))
}

func TestUpdateProduct_BindingRuleNamesField(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPatch, "/api/v1/products/P-1001", map[string]int{"demand": -2})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[map[string]string](t, w)
	assert.Equal(t, "P-1001", body["id"])
	assert.Contains(t, body["details"], "demand")

	w = doRequest(router, http.MethodPost, "/api/v1/products/P-1001/transfer", map[string]string{"warehouse": "BLR-A"})
	require.Equal(t, http.StatusBadRequest, w.Code, "a missing delta is a zero delta")
	body = decode[map[string]string](t, w)
	assert.Contains(t, body["details"], "delta")
}

func TestUpdateProduct_ConflictWhileInFlight(t *testing.T) {
	router, svc := newTestRouterWithService(t, service.WithUpdateDelay(300*time.Millisecond))

	first := make(chan int, 1)
	go func() {
		first <- doRequest(router, http.MethodPatch, "/api/v1/products/P-1002", map[string]int{"demand": 40}).Code
	}()

	require.Eventually(t, func() bool { return svc.IsUpdating("P-1002") }, time.Second, 5*time.Millisecond)

	w := doRequest(router, http.MethodPatch, "/api/v1/products/P-1002", map[string]int{"demand": 41})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "P-1002", decode[map[string]string](t, w)["id"])

	assert.Equal(t, http.StatusOK, <-first)

	w = doRequest(router, http.MethodGet, "/api/v1/products/P-1002", nil)
	assert.Equal(t, 40, decode[domain.ProductWithStatus](t, w).Demand)
}

func TestTransferStock(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/products/P-1013/transfer", map[string]any{"delta": 50, "warehouse": "BLR-A"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	product := decode[domain.ProductWithStatus](t, w)
	assert.Equal(t, 70, product.Stock)
	assert.Equal(t, "BLR-A", product.Warehouse)
	assert.Equal(t, domain.StatusHealthy, product.Status)

	w = doRequest(router, http.MethodPost, "/api/v1/products/P-1013/transfer", map[string]int{"delta": -71})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/products/P-1013/transfer", map[string]int{"delta": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProductView(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/products/view?warehouse=DEL-B&sort_field=stock&sort_direction=desc", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	page := decode[domain.Page](t, w)
	assert.Equal(t, 4, page.TotalCount)
	require.Len(t, page.Items, 4)
	assert.Equal(t, "P-1010", page.Items[0].ID)
	assert.Equal(t, "P-1013", page.Items[3].ID)

	w = doRequest(router, http.MethodGet, "/api/v1/products/view?search=washer&status=low", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = decode[domain.Page](t, w)
	require.Equal(t, 2, page.TotalCount)
	assert.Equal(t, "P-1002", page.Items[0].ID)
	assert.Equal(t, "P-1007", page.Items[1].ID)

	w = doRequest(router, http.MethodGet, "/api/v1/products/view?page_size=5&page=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = decode[domain.Page](t, w)
	assert.Equal(t, 3, page.PageCount)
	assert.Len(t, page.Items, 4)
	assert.Equal(t, 10, page.StartIndex)
	assert.Equal(t, 14, page.EndIndex)
}

func TestGetProductView_BadQuery(t *testing.T) {
	router := newTestRouter(t)

	for _, query := range []string{"page=abc", "page_size=0", "page=0", "sort_field=colour", "range=1y", "status=Overstock"} {
		w := doRequest(router, http.MethodGet, "/api/v1/products/view?"+query, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}

func TestGetKPIsAndTrend(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/kpis?range=14d", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalStock":1100,"totalDemand":1118,"fillRate":80.9}`, w.Body.String())

	w = doRequest(router, http.MethodGet, "/api/v1/kpis?range=90d", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/trend?range=14d", nil)
	require.Equal(t, http.StatusOK, w.Code)
	points := decode[[]domain.TrendDataPoint](t, w)
	require.Len(t, points, 14)
	assert.Equal(t, float64(1100), points[13].Stock)
	assert.Equal(t, float64(1118), points[13].Demand)

	w = doRequest(router, http.MethodGet, "/api/v1/trend", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.TrendDataPoint](t, w), 7)
}

func TestGetDashboard(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/dashboard?range=30d&status=Critical", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	dashboard := decode[domain.Dashboard](t, w)

	assert.Equal(t, domain.Range30d, dashboard.DateRange)
	assert.Equal(t, domain.KPIData{TotalStock: 1294, TotalDemand: 1315, FillRate: 80.9}, dashboard.KPIs)
	assert.Len(t, dashboard.Trend, 30)
	assert.Equal(t, 2, dashboard.Products.TotalCount)
	assert.Len(t, dashboard.Breakdown, 3)
	assert.Nil(t, dashboard.Selected)

	w = doRequest(router, http.MethodGet, "/api/v1/dashboard?selected=P-1004", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	dashboard = decode[domain.Dashboard](t, w)
	require.NotNil(t, dashboard.Selected)
	assert.Equal(t, "P-1004", dashboard.Selected.ID)

	w = doRequest(router, http.MethodGet, "/api/v1/dashboard?selected=P-0000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetWarehousesAndFilters(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/warehouses", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"warehouses":["BLR-A","PNQ-C","DEL-B"]}`, w.Body.String())

	w = doRequest(router, http.MethodGet, "/api/v1/filters", nil)
	require.Equal(t, http.StatusOK, w.Code)
	options := decode[domain.FilterOptions](t, w)
	assert.Equal(t, domain.AllWarehouses, options.Warehouses[0])
	assert.Equal(t, domain.AllStatus, options.Statuses[0])
	assert.Equal(t, []string{"7d", "14d", "30d"}, options.DateRanges)
}
