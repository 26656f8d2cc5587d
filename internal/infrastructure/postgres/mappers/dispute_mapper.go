package mappers

import (
	"github.com/peerex/p2p-escrow-service/internal/domain"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/postgres/models"
)

func ToDomainDispute(model *models.DisputeModel) *domain.Dispute {
	return &domain.Dispute{
		ID:            model.ID,
		OrderID:       model.OrderID,
		ComplainantID: model.ComplainantID,
		RespondentID:  model.RespondentID,
		Reason:        model.Reason,
		EvidenceURL:   model.EvidenceURL,
		Status:        model.Status,
		Outcome:       model.Outcome,
		BuyerRatio:    model.BuyerRatio,
		ModeratorID:   model.ModeratorID,
		Rationale:     model.Rationale,
		ResolvedAt:    model.ResolvedAt,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func ToGORMDispute(dispute *domain.Dispute) *models.DisputeModel {
	return &models.DisputeModel{
		ID:            dispute.ID,
		OrderID:       dispute.OrderID,
		ComplainantID: dispute.ComplainantID,
		RespondentID:  dispute.RespondentID,
		Reason:        dispute.Reason,
		EvidenceURL:   dispute.EvidenceURL,
		Status:        dispute.Status,
		Outcome:       dispute.Outcome,
		BuyerRatio:    dispute.BuyerRatio,
		ModeratorID:   dispute.ModeratorID,
		Rationale:     dispute.Rationale,
		ResolvedAt:    dispute.ResolvedAt,
		CreatedAt:     dispute.CreatedAt,
		UpdatedAt:     dispute.UpdatedAt,
	}
}
