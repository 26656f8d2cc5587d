package repository

import (
	"errors"

	"github.com/peerex/p2p-escrow-service/internal/domain"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultEscrowRepository struct {
	DB *gorm.DB
}

func NewDefaultEscrowRepository(db *gorm.DB) *DefaultEscrowRepository {
	return &DefaultEscrowRepository{DB: db}
}

func (r *DefaultEscrowRepository) GetByOrderID(orderID string) (*domain.Escrow, error) {
	var model models.EscrowModel
	if err := r.DB.First(&model, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFound("escrow", orderID)
		}
		return nil, err
	}
	return mappers.ToDomainEscrow(&model), nil
}

func (r *DefaultEscrowRepository) MarkTerminal(escrowID string, to domain.EscrowStatus, meta domain.ReleaseMeta) error {
	res := r.DB.Model(&models.EscrowModel{}).
		Where("id = ? AND status = ?", escrowID, domain.EscrowLocked).
		Updates(map[string]interface{}{
			"status":         to,
			"released_by":    meta.Actor,
			"release_reason": meta.Reason,
			"buyer_share":    meta.BuyerShare,
			"seller_share":   meta.SellerShare,
			"released_at":    meta.ReleasedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var model models.EscrowModel
		if err := r.DB.Select("status").First(&model, "id = ?", escrowID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewNotFound("escrow", escrowID)
			}
			return err
		}
		return domain.NewStateConflict("escrow", string(domain.EscrowLocked), string(model.Status))
	}
	return nil
}
