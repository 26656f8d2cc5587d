package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	httpdto "github.com/peerex/p2p-escrow-service/internal/delivery/http/dto"
	"github.com/peerex/p2p-escrow-service/internal/usecase"
)

// SettlementHandler exposes the outstanding-intent backlog to operators.
type SettlementHandler struct {
	uc *usecase.SettlementUsecase
}

func NewSettlementHandler(uc *usecase.SettlementUsecase) *SettlementHandler {
	return &SettlementHandler{uc: uc}
}

func (h *SettlementHandler) ListPending(c *gin.Context) {
	_, limit := pagination(c)
	intents, err := h.uc.PendingIntents(int(limit))
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]httpdto.SettlementIntentResponse, len(intents))
	for i, intent := range intents {
		items[i] = httpdto.ToSettlementIntentResponse(intent)
	}
	c.JSON(http.StatusOK, httpdto.ListResponse[httpdto.SettlementIntentResponse]{
		Items: items, Total: int64(len(items)), Page: 1, Limit: limit,
	})
}
