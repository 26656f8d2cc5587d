package mappers

import (
	"github.com/peerex/p2p-escrow-service/internal/domain"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/postgres/models"
)

func ToDomainEscrow(model *models.EscrowModel) *domain.Escrow {
	return &domain.Escrow{
		ID:            model.ID,
		OrderID:       model.OrderID,
		SellerID:      model.SellerID,
		BuyerID:       model.BuyerID,
		AssetID:       model.AssetID,
		Amount:        model.Amount,
		LockHandle:    model.LockHandle,
		Status:        model.Status,
		ReleasedBy:    model.ReleasedBy,
		ReleaseReason: model.ReleaseReason,
		BuyerShare:    model.BuyerShare,
		SellerShare:   model.SellerShare,
		ReleasedAt:    model.ReleasedAt,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func ToGORMEscrow(escrow *domain.Escrow) *models.EscrowModel {
	return &models.EscrowModel{
		ID:            escrow.ID,
		OrderID:       escrow.OrderID,
		SellerID:      escrow.SellerID,
		BuyerID:       escrow.BuyerID,
		AssetID:       escrow.AssetID,
		Amount:        escrow.Amount,
		LockHandle:    escrow.LockHandle,
		Status:        escrow.Status,
		ReleasedBy:    escrow.ReleasedBy,
		ReleaseReason: escrow.ReleaseReason,
		BuyerShare:    escrow.BuyerShare,
		SellerShare:   escrow.SellerShare,
		ReleasedAt:    escrow.ReleasedAt,
		CreatedAt:     escrow.CreatedAt,
		UpdatedAt:     escrow.UpdatedAt,
	}
}
