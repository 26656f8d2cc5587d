package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	httpdto "github.com/peerex/p2p-escrow-service/internal/delivery/http/dto"
	"github.com/peerex/p2p-escrow-service/internal/delivery/http/middleware"
	"github.com/peerex/p2p-escrow-service/internal/domain"
	"github.com/peerex/p2p-escrow-service/internal/usecase"
	"github.com/peerex/p2p-escrow-service/internal/usecase/dto"
)

type OrderHandler struct {
	uc usecase.OrderUsecase
}

func NewOrderHandler(uc usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req httpdto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.uc.CreateOrder(c.Request.Context(), &dto.CreateOrderInput{
		AdID:          req.AdID,
		TakerID:       middleware.SubjectID(c),
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.ToOrderResponse(order, time.Now()))
}

func (h *OrderHandler) GetByID(c *gin.Context) {
	order, err := h.uc.GetOrderByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !order.IsParty(middleware.SubjectID(c)) {
		respondError(c, domain.NewUnauthorized("order is visible to its parties only"))
		return
	}
	c.JSON(http.StatusOK, httpdto.ToOrderResponse(order, time.Now()))
}

func (h *OrderHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	filters := domain.OrderFilters{
		CounterpartyID: middleware.SubjectID(c),
		AdID:           c.Query("ad_id"),
	}
	if statuses := c.Query("statuses"); statuses != "" {
		filters.Statuses = strings.Split(statuses, ",")
	}

	orders, total, err := h.uc.ListOrders(filters, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now()
	items := make([]httpdto.OrderResponse, len(orders))
	for i, order := range orders {
		items[i] = httpdto.ToOrderResponse(order, now)
	}
	c.JSON(http.StatusOK, httpdto.ListResponse[httpdto.OrderResponse]{
		Items: items, Total: total, Page: page, Limit: limit,
	})
}

func (h *OrderHandler) MarkPaid(c *gin.Context) {
	order, err := h.uc.MarkPaid(c.Request.Context(), c.Param("id"), middleware.SubjectID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.ToOrderResponse(order, time.Now()))
}

func (h *OrderHandler) Confirm(c *gin.Context) {
	order, err := h.uc.ConfirmReceipt(c.Request.Context(), c.Param("id"), middleware.SubjectID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.ToOrderResponse(order, time.Now()))
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	order, err := h.uc.CancelOrder(c.Request.Context(), c.Param("id"), middleware.SubjectID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.ToOrderResponse(order, time.Now()))
}
