package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	catalogapp "github.com/crm/backend/internal/application/catalog"
	partnerapp "github.com/crm/backend/internal/application/partner"
	reportapp "github.com/crm/backend/internal/application/report"
	tradeapp "github.com/crm/backend/internal/application/trade"
	"github.com/crm/backend/internal/domain/report"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupActivityRouter(t *testing.T) (*gin.Engine, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	r := newTestRouter(nil)
	api := r.Group("/api")

	orders := NewOrderHandler(env.order, env.report)
	api.GET("/order/dropdown", orders.Dropdown)
	api.GET("/order/count", orders.Count)
	api.POST("/order", orders.Create)
	api.PUT("/order/:id", orders.Update)
	api.DELETE("/order/:id", orders.Delete)

	items := NewLineItemHandler(env.lineItem, env.report)
	api.POST("/order-line-item", items.Create)

	events := NewStatusEventHandler(env.events, env.report)
	api.GET("/order-status-event", events.List)
	api.POST("/order-status-event", events.Create)

	services := NewServiceHandler(env.service, env.report)
	api.POST("/service", services.Create)
	api.GET("/service/dropdown", services.Dropdown)

	ratings := NewRatingHandler(env.rating, env.report)
	api.POST("/service-rating", ratings.Create)
	api.GET("/service-rating/count", ratings.Count)

	contacts := NewContactHandler(env.contact, env.report)
	api.POST("/contact", contacts.Create)
	api.PUT("/contact/:id", contacts.Update)
	api.GET("/contact/thongke-ketqua", contacts.Outcomes)

	stats := NewRatingStatisticsHandler(env.report)
	api.GET("/rating-statistics/phan-tram", stats.Percentages)
	api.GET("/rating-statistics/thongke-danhgia-dichvu-nhanvien", stats.Breakdown)
	return r, env
}

func seedCustomer(t *testing.T, env *testEnv, phone string) *partnerapp.CustomerResponse {
	t.Helper()
	c, err := env.customer.Create(context.Background(), partnerapp.CustomerRequest{Name: "Customer " + phone, Phone: phone})
	require.NoError(t, err)
	return c
}

func TestOrderHandler_TierFollowsOrders(t *testing.T) {
	r, env := setupActivityRouter(t)
	customer := seedCustomer(t, env, "0904000001")
	ctx := context.Background()

	w := performRequest(r, http.MethodPost, "/api/order", map[string]any{
		"customer_id":  customer.ID,
		"total_amount": "50000000",
		"status":       "pending",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := decodeJSON[tradeapp.OrderResponse](t, w)
	assert.Equal(t, "DH001", first.Code)

	got, err := env.customer.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Tier)

	w = performRequest(r, http.MethodPost, "/api/order", map[string]any{
		"customer_id":  customer.ID,
		"total_amount": "30000000",
		"status":       "pending",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	second := decodeJSON[tradeapp.OrderResponse](t, w)
	assert.Equal(t, "DH002", second.Code)

	got, err = env.customer.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "VIP", got.Tier, "80,000,000 reaches the threshold")

	w = performRequest(r, http.MethodPut, fmt.Sprintf("/api/order/%d", second.ID), map[string]any{
		"customer_id":  customer.ID,
		"total_amount": "29999999",
		"status":       "paid",
	})
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	got, err = env.customer.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Tier)

	w = performRequest(r, http.MethodGet, "/api/order/count", nil)
	assert.Equal(t, "2", w.Body.String())

	w = performRequest(r, http.MethodGet, "/api/order/dropdown", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeJSON[[]tradeapp.DropdownItem](t, w), 2)
}

func TestOrderHandler_UnknownCustomer(t *testing.T) {
	r, _ := setupActivityRouter(t)

	w := performRequest(r, http.MethodPost, "/api/order", map[string]any{
		"customer_id":  999,
		"total_amount": "100",
		"status":       "pending",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, errorCode(t, w))
}

func TestOrderDetailHandlers(t *testing.T) {
	r, env := setupActivityRouter(t)
	customer := seedCustomer(t, env, "0904000002")
	order, err := env.order.Create(context.Background(), tradeapp.OrderRequest{
		CustomerID: customer.ID,
		Status:     "pending",
	})
	require.NoError(t, err)

	t.Run("line item quantity must be positive", func(t *testing.T) {
		for _, qty := range []int{0, -2} {
			w := performRequest(r, http.MethodPost, "/api/order-line-item", map[string]any{
				"order_id":     order.ID,
				"product_name": "Bao hiem",
				"quantity":     qty,
				"unit_price":   "1000",
			})
			assert.Equal(t, http.StatusBadRequest, w.Code, "quantity %d", qty)
		}
	})

	t.Run("line item subtotal", func(t *testing.T) {
		w := performRequest(r, http.MethodPost, "/api/order-line-item", map[string]any{
			"order_id":     order.ID,
			"product_name": "Bao hiem",
			"quantity":     3,
			"unit_price":   "1500.50",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		item := decodeJSON[tradeapp.LineItemResponse](t, w)
		assert.Equal(t, "4501.5", item.Subtotal.String())
	})

	t.Run("status history", func(t *testing.T) {
		w := performRequest(r, http.MethodPost, "/api/order-status-event", map[string]any{
			"order_id": order.ID,
			"status":   "shipped",
			"note":     "handed to courier",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = performRequest(r, http.MethodGet, fmt.Sprintf("/api/order-status-event?order_id=%d", order.ID), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "1", w.Header().Get(TotalCountHeader))
	})
}

func TestRatingHandler_ScoreBounds(t *testing.T) {
	r, env := setupActivityRouter(t)
	customer := seedCustomer(t, env, "0904000003")
	service, err := env.service.Create(context.Background(), catalogapp.ServiceRequest{Name: "Tu van"})
	require.NoError(t, err)

	rate := func(serviceID int64, score int) (int, string) {
		w := performRequest(r, http.MethodPost, "/api/service-rating", map[string]any{
			"customer_id": customer.ID,
			"service_id":  serviceID,
			"score":       score,
		})
		if w.Code >= http.StatusBadRequest {
			return w.Code, errorCode(t, w)
		}
		return w.Code, ""
	}

	tests := []struct {
		name      string
		serviceID int64
		score     int
		status    int
		code      string
	}{
		{"above range", service.ID, 6, http.StatusBadRequest, "ERR_INVALID_SCORE"},
		{"negative", service.ID, -1, http.StatusBadRequest, "ERR_INVALID_SCORE"},
		{"missing", service.ID, 0, http.StatusBadRequest, dto.ErrCodeValidation},
		{"unknown service", 999, 3, http.StatusNotFound, dto.ErrCodeNotFound},
		{"lowest", service.ID, 1, http.StatusCreated, ""},
		{"highest", service.ID, 5, http.StatusCreated, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := rate(tt.serviceID, tt.score)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}

	w := performRequest(r, http.MethodGet, "/api/service-rating/count", nil)
	assert.Equal(t, "2", w.Body.String())
}

func TestContactAndRatingStatistics(t *testing.T) {
	r, env := setupActivityRouter(t)
	customer := seedCustomer(t, env, "0904000004")
	ctx := context.Background()
	service, err := env.service.Create(ctx, catalogapp.ServiceRequest{Name: "Bao tri"})
	require.NoError(t, err)

	for _, score := range []int{5, 4, 4} {
		_, err := env.rating.Create(ctx, catalogapp.RatingRequest{CustomerID: customer.ID, ServiceID: service.ID, Score: score})
		require.NoError(t, err)
	}

	w := performRequest(r, http.MethodPost, "/api/contact", map[string]any{
		"customer_id":  customer.ID,
		"channel":      "phone",
		"outcome":      "interested",
		"staff_rating": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	contact := decodeJSON[partnerapp.ContactResponse](t, w)
	assert.False(t, contact.ContactedAt.IsZero())

	w = performRequest(r, http.MethodPost, "/api/contact", map[string]any{
		"customer_id": customer.ID,
		"channel":     "phone",
		"outcome":     "interested",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = performRequest(r, http.MethodPost, "/api/contact", map[string]any{
		"customer_id":  customer.ID,
		"channel":      "email",
		"outcome":      "no answer",
		"staff_rating": 9,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	t.Run("outcomes", func(t *testing.T) {
		w := performRequest(r, http.MethodGet, "/api/contact/thongke-ketqua", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []report.ContactOutcome{{Channel: "phone", Outcome: "interested", Count: 2}},
			decodeJSON[[]report.ContactOutcome](t, w))
	})

	t.Run("percentages combine service and staff scores", func(t *testing.T) {
		w := performRequest(r, http.MethodGet, "/api/rating-statistics/phan-tram", nil)
		require.Equal(t, http.StatusOK, w.Code)
		got := decodeJSON[map[string]float64](t, w)
		assert.Equal(t, map[string]float64{
			report.LabelVeryDissatisfied: 0,
			report.LabelDissatisfied:     25,
			report.LabelNeutral:          0,
			report.LabelSatisfied:        50,
			report.LabelVerySatisfied:    25,
		}, got)
	})

	t.Run("breakdown per source", func(t *testing.T) {
		w := performRequest(r, http.MethodGet, "/api/rating-statistics/thongke-danhgia-dichvu-nhanvien", nil)
		require.Equal(t, http.StatusOK, w.Code)
		got := decodeJSON[reportapp.RatingBreakdown](t, w)
		assert.Equal(t, [5]int{0, 0, 0, 67, 33}, got.Service)
		assert.Equal(t, [5]int{0, 100, 0, 0, 0}, got.Staff)
	})

	t.Run("writes refresh cached statistics", func(t *testing.T) {
		_, err := env.rating.Create(ctx, catalogapp.RatingRequest{CustomerID: customer.ID, ServiceID: service.ID, Score: 1})
		require.NoError(t, err)

		w := performRequest(r, http.MethodGet, "/api/rating-statistics/thongke-danhgia-dichvu-nhanvien", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, [5]int{25, 0, 0, 50, 25}, decodeJSON[reportapp.RatingBreakdown](t, w).Service)
	})
}
