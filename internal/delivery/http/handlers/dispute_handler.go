package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	httpdto "github.com/peerex/p2p-escrow-service/internal/delivery/http/dto"
	"github.com/peerex/p2p-escrow-service/internal/delivery/http/middleware"
	"github.com/peerex/p2p-escrow-service/internal/domain"
	"github.com/peerex/p2p-escrow-service/internal/usecase"
	"github.com/peerex/p2p-escrow-service/internal/usecase/dto"
)

type DisputeHandler struct {
	uc *usecase.DefaultDisputeUsecase
}

func NewDisputeHandler(uc *usecase.DefaultDisputeUsecase) *DisputeHandler {
	return &DisputeHandler{uc: uc}
}

func (h *DisputeHandler) Open(c *gin.Context) {
	var req httpdto.OpenDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dispute, err := h.uc.OpenDispute(c.Request.Context(), &dto.OpenDisputeInput{
		OrderID:     c.Param("id"),
		ActorID:     middleware.SubjectID(c),
		Reason:      req.Reason,
		EvidenceURL: req.EvidenceURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.ToDisputeResponse(dispute))
}

func (h *DisputeHandler) GetByID(c *gin.Context) {
	dispute, err := h.uc.GetDisputeByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.ToDisputeResponse(dispute))
}

func (h *DisputeHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	disputes, total, err := h.uc.ListDisputes(page, limit, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]httpdto.DisputeResponse, len(disputes))
	for i, d := range disputes {
		items[i] = httpdto.ToDisputeResponse(d)
	}
	c.JSON(http.StatusOK, httpdto.ListResponse[httpdto.DisputeResponse]{
		Items: items, Total: total, Page: page, Limit: limit,
	})
}

func (h *DisputeHandler) Investigate(c *gin.Context) {
	dispute, err := h.uc.StartInvestigation(c.Request.Context(), c.Param("id"), middleware.SubjectID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.ToDisputeResponse(dispute))
}

func (h *DisputeHandler) Resolve(c *gin.Context) {
	var req httpdto.ResolveDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dispute, err := h.uc.ResolveDispute(c.Request.Context(), &dto.ResolveDisputeInput{
		DisputeID:   c.Param("id"),
		ModeratorID: middleware.SubjectID(c),
		Outcome:     domain.DisputeOutcome(req.Outcome),
		BuyerRatio:  req.BuyerRatio,
		Rationale:   req.Rationale,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.ToDisputeResponse(dispute))
}
