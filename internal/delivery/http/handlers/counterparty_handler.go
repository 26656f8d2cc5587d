package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	httpdto "github.com/peerex/p2p-escrow-service/internal/delivery/http/dto"
	"github.com/peerex/p2p-escrow-service/internal/usecase"
	"github.com/peerex/p2p-escrow-service/internal/usecase/dto"
)

type CounterpartyHandler struct {
	uc *usecase.DefaultCounterpartyUsecase
}

func NewCounterpartyHandler(uc *usecase.DefaultCounterpartyUsecase) *CounterpartyHandler {
	return &CounterpartyHandler{uc: uc}
}

func (h *CounterpartyHandler) Register(c *gin.Context) {
	var req httpdto.RegisterCounterpartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cp, err := h.uc.Register(c.Request.Context(), &dto.RegisterCounterpartyInput{
		DisplayName: req.DisplayName,
		AffiliateID: req.AffiliateID,
		ReferrerID:  req.ReferrerID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.ToCounterpartyResponse(cp))
}

func (h *CounterpartyHandler) GetByID(c *gin.Context) {
	cp, err := h.uc.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.ToCounterpartyResponse(cp))
}
