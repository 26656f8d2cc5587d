package repository

import (
	"github.com/peerex/p2p-escrow-service/internal/domain"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultCommissionRepository struct {
	DB *gorm.DB
}

func NewDefaultCommissionRepository(db *gorm.DB) *DefaultCommissionRepository {
	return &DefaultCommissionRepository{DB: db}
}

func (r *DefaultCommissionRepository) ListByOrderID(orderID string) ([]*domain.CommissionRecord, error) {
	var recordModels []models.CommissionRecordModel
	if err := r.DB.Where("order_id = ?", orderID).Order("created_at ASC").Find(&recordModels).Error; err != nil {
		return nil, err
	}
	records := make([]*domain.CommissionRecord, len(recordModels))
	for i := range recordModels {
		records[i] = mappers.ToDomainCommissionRecord(&recordModels[i])
	}
	return records, nil
}
