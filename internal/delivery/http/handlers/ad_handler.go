package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	httpdto "github.com/peerex/p2p-escrow-service/internal/delivery/http/dto"
	"github.com/peerex/p2p-escrow-service/internal/delivery/http/middleware"
	"github.com/peerex/p2p-escrow-service/internal/domain"
	"github.com/peerex/p2p-escrow-service/internal/usecase"
	"github.com/peerex/p2p-escrow-service/internal/usecase/dto"
)

type AdHandler struct {
	uc *usecase.DefaultAdUsecase
}

func NewAdHandler(uc *usecase.DefaultAdUsecase) *AdHandler {
	return &AdHandler{uc: uc}
}

func (h *AdHandler) Create(c *gin.Context) {
	var req httpdto.CreateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ad, err := h.uc.CreateAd(c.Request.Context(), &dto.CreateAdInput{
		OwnerID:        middleware.SubjectID(c),
		Side:           domain.AdSide(req.Side),
		AssetID:        req.AssetID,
		Price:          req.Price,
		QuoteCurrency:  req.QuoteCurrency,
		MinOrderValue:  req.MinOrderValue,
		MaxOrderValue:  req.MaxOrderValue,
		PaymentMethods: req.PaymentMethods,
		TotalAmount:    req.TotalAmount,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.ToAdResponse(ad))
}

func (h *AdHandler) GetByID(c *gin.Context) {
	ad, err := h.uc.GetAdByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.ToAdResponse(ad))
}

func (h *AdHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	filters := domain.AdFilters{
		OwnerID: c.Query("owner_id"),
		AssetID: c.Query("asset_id"),
		Side:    domain.AdSide(c.Query("side")),
		Status:  domain.AdStatus(c.Query("status")),
	}

	ads, total, err := h.uc.ListAds(filters, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]httpdto.AdResponse, len(ads))
	for i, ad := range ads {
		items[i] = httpdto.ToAdResponse(ad)
	}
	c.JSON(http.StatusOK, httpdto.ListResponse[httpdto.AdResponse]{
		Items: items, Total: total, Page: page, Limit: limit,
	})
}

func (h *AdHandler) Pause(c *gin.Context) {
	h.flipStatus(c, h.uc.PauseAd)
}

func (h *AdHandler) Resume(c *gin.Context) {
	h.flipStatus(c, h.uc.ResumeAd)
}

func (h *AdHandler) Close(c *gin.Context) {
	h.flipStatus(c, h.uc.CloseAd)
}

func (h *AdHandler) flipStatus(c *gin.Context, op func(adID, actorID string) error) {
	if err := op(c.Param("id"), middleware.SubjectID(c)); err != nil {
		respondError(c, err)
		return
	}
	ad, err := h.uc.GetAdByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.ToAdResponse(ad))
}

func pagination(c *gin.Context) (int64, int64) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	return page, limit
}
