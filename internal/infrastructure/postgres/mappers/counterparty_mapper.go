package mappers

import (
	"github.com/peerex/p2p-escrow-service/internal/domain"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/postgres/models"
)

func ToDomainCounterparty(model *models.CounterpartyModel) *domain.Counterparty {
	return &domain.Counterparty{
		ID:              model.ID,
		DisplayName:     model.DisplayName,
		Tier:            model.Tier,
		ReputationScore: model.ReputationScore,
		TotalOrders:     model.TotalOrders,
		CompletedOrders: model.CompletedOrders,
		CanceledOrders:  model.CanceledOrders,
		DisputedOrders:  model.DisputedOrders,
		AffiliateID:     model.AffiliateID,
		ReferrerID:      model.ReferrerID,
		Suspended:       model.Suspended,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func ToGORMCounterparty(cp *domain.Counterparty) *models.CounterpartyModel {
	return &models.CounterpartyModel{
		ID:              cp.ID,
		DisplayName:     cp.DisplayName,
		Tier:            cp.Tier,
		ReputationScore: cp.ReputationScore,
		TotalOrders:     cp.TotalOrders,
		CompletedOrders: cp.CompletedOrders,
		CanceledOrders:  cp.CanceledOrders,
		DisputedOrders:  cp.DisputedOrders,
		AffiliateID:     cp.AffiliateID,
		ReferrerID:      cp.ReferrerID,
		Suspended:       cp.Suspended,
		CreatedAt:       cp.CreatedAt,
		UpdatedAt:       cp.UpdatedAt,
	}
}
