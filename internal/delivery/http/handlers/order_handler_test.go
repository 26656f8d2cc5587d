package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerex/p2p-escrow-service/internal/delivery/http/middleware"
	"github.com/peerex/p2p-escrow-service/internal/domain"
	"github.com/peerex/p2p-escrow-service/internal/usecase"
	"github.com/peerex/p2p-escrow-service/internal/usecase/dto"
)

const testSecret = "test-secret"

// stubOrderUC lets handler tests script the usecase layer without a database.
type stubOrderUC struct {
	usecase.OrderUsecase

	createdInput *dto.CreateOrderInput
	order        *domain.Order
	err          error
}

func (s *stubOrderUC) CreateOrder(_ context.Context, input *dto.CreateOrderInput) (*domain.Order, error) {
	s.createdInput = input
	return s.order, s.err
}

func (s *stubOrderUC) GetOrderByID(string) (*domain.Order, error) {
	return s.order, s.err
}

func (s *stubOrderUC) MarkPaid(_ context.Context, _, _ string) (*domain.Order, error) {
	return s.order, s.err
}

func orderRouter(uc usecase.OrderUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewOrderHandler(uc)
	r := gin.New()
	auth := r.Group("/api/v1", middleware.JwtAuthMiddleware(testSecret))
	auth.POST("/orders", h.Create)
	auth.GET("/orders/:id", h.GetByID)
	auth.POST("/orders/:id/paid", h.MarkPaid)
	return r
}

func authedRequest(t *testing.T, method, path, subject, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	token, err := middleware.GenerateToken(subject, middleware.RoleCounterparty, testSecret, time.Hour)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:       "order-1",
		AdID:     "ad-1",
		BuyerID:  "buyer-1",
		SellerID: "seller-1",
		AssetID:  "TOKEN",
		Amount:   5000,
		Status:   domain.StatusPending,
	}
}

func TestCreateOrderTakesSubjectFromToken(t *testing.T) {
	uc := &stubOrderUC{order: sampleOrder()}
	r := orderRouter(uc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodPost, "/api/v1/orders", "buyer-1",
		`{"ad_id":"ad-1","amount":5000,"payment_method":"sepa"}`))

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, uc.createdInput)
	// the taker is always the token subject, never a body field
	assert.Equal(t, "buyer-1", uc.createdInput.TakerID)
	assert.Equal(t, "ad-1", uc.createdInput.AdID)
}

func TestCreateOrderRejectsIncompleteBody(t *testing.T) {
	uc := &stubOrderUC{order: sampleOrder()}
	r := orderRouter(uc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodPost, "/api/v1/orders", "buyer-1",
		`{"ad_id":"ad-1"}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, uc.createdInput)
}

func TestGetOrderVisibleToPartiesOnly(t *testing.T) {
	uc := &stubOrderUC{order: sampleOrder()}
	r := orderRouter(uc)

	for subject, want := range map[string]int{
		"buyer-1":  http.StatusOK,
		"seller-1": http.StatusOK,
		"cp-3":     http.StatusForbidden,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, authedRequest(t, http.MethodGet, "/api/v1/orders/order-1", subject, ""))
		assert.Equal(t, want, w.Code, "subject %s", subject)
	}
}

func TestMarkPaidConflictCarriesStatuses(t *testing.T) {
	uc := &stubOrderUC{err: domain.NewStateConflict("order", "PENDING", "CANCELED")}
	r := orderRouter(uc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodPost, "/api/v1/orders/order-1/paid", "buyer-1", "{}"))

	assert.Equal(t, http.StatusConflict, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, string(domain.CodeStateConflict), body["code"])
	assert.Equal(t, "PENDING", body["expected_status"])
	assert.Equal(t, "CANCELED", body["actual_status"])
}

func TestErrorStatusMapping(t *testing.T) {
	cases := map[int]error{
		http.StatusBadRequest:      domain.NewValidationError("bad amount"),
		http.StatusPaymentRequired: domain.NewInsufficientFunds("seller-1", "TOKEN", 100),
		http.StatusNotFound:        domain.NewNotFound("order", "missing"),
		http.StatusForbidden:       domain.NewUnauthorized("not yours"),
		// unclassified errors surface as an external failure
		http.StatusBadGateway: assert.AnError,
	}
	for want, err := range cases {
		uc := &stubOrderUC{err: err}
		r := orderRouter(uc)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, authedRequest(t, http.MethodGet, "/api/v1/orders/order-1", "buyer-1", ""))
		assert.Equal(t, want, w.Code, "error %v", err)
	}
}
