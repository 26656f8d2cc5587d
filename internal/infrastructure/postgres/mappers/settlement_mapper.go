package mappers

import (
	"github.com/peerex/p2p-escrow-service/internal/domain"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/postgres/models"
)

func ToDomainIntent(model *models.SettlementIntentModel) *domain.SettlementIntent {
	return &domain.SettlementIntent{
		ID:          model.ID,
		OrderID:     model.OrderID,
		EscrowID:    model.EscrowID,
		DisputeID:   model.DisputeID,
		Outcome:     model.Outcome,
		BuyerShare:  model.BuyerShare,
		SellerShare: model.SellerShare,
		Reason:      model.Reason,
		DecidedBy:   model.DecidedBy,
		Attempts:    int(model.Attempts),
		LastError:   model.LastError,
		CreatedAt:   model.CreatedAt,
		AppliedAt:   model.AppliedAt,
	}
}

func ToGORMIntent(intent *domain.SettlementIntent) *models.SettlementIntentModel {
	return &models.SettlementIntentModel{
		ID:          intent.ID,
		OrderID:     intent.OrderID,
		EscrowID:    intent.EscrowID,
		DisputeID:   intent.DisputeID,
		Outcome:     intent.Outcome,
		BuyerShare:  intent.BuyerShare,
		SellerShare: intent.SellerShare,
		Reason:      intent.Reason,
		DecidedBy:   intent.DecidedBy,
		Attempts:    int64(intent.Attempts),
		LastError:   intent.LastError,
		CreatedAt:   intent.CreatedAt,
		AppliedAt:   intent.AppliedAt,
	}
}

func ToDomainCommissionRecord(model *models.CommissionRecordModel) *domain.CommissionRecord {
	return &domain.CommissionRecord{
		ID:            model.ID,
		OrderID:       model.OrderID,
		RecipientID:   model.RecipientID,
		RecipientType: model.RecipientType,
		Amount:        model.Amount,
		CreatedAt:     model.CreatedAt,
	}
}

func ToGORMCommissionRecord(rec *domain.CommissionRecord) *models.CommissionRecordModel {
	return &models.CommissionRecordModel{
		ID:            rec.ID,
		OrderID:       rec.OrderID,
		RecipientID:   rec.RecipientID,
		RecipientType: rec.RecipientType,
		Amount:        rec.Amount,
		CreatedAt:     rec.CreatedAt,
	}
}
