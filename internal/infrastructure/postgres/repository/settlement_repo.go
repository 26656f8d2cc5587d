package repository

import (
	"errors"
	"time"

	"github.com/peerex/p2p-escrow-service/internal/domain"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultSettlementRepository struct {
	DB *gorm.DB
}

func NewDefaultSettlementRepository(db *gorm.DB) *DefaultSettlementRepository {
	return &DefaultSettlementRepository{DB: db}
}

func (r *DefaultSettlementRepository) GetByID(intentID string) (*domain.SettlementIntent, error) {
	var model models.SettlementIntentModel
	if err := r.DB.First(&model, "id = ?", intentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFound("settlement intent", intentID)
		}
		return nil, err
	}
	return mappers.ToDomainIntent(&model), nil
}

func (r *DefaultSettlementRepository) GetByOrderID(orderID string) (*domain.SettlementIntent, error) {
	var model models.SettlementIntentModel
	if err := r.DB.First(&model, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFound("settlement intent", orderID)
		}
		return nil, err
	}
	return mappers.ToDomainIntent(&model), nil
}

func (r *DefaultSettlementRepository) FindPending(cutoff time.Time, limit int) ([]*domain.SettlementIntent, error) {
	var intentModels []models.SettlementIntentModel
	err := r.DB.
		Where("applied_at IS NULL AND created_at < ?", cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&intentModels).Error
	if err != nil {
		return nil, err
	}
	intents := make([]*domain.SettlementIntent, len(intentModels))
	for i := range intentModels {
		intents[i] = mappers.ToDomainIntent(&intentModels[i])
	}
	return intents, nil
}

func (r *DefaultSettlementRepository) MarkApplied(intentID string, appliedAt time.Time) error {
	res := r.DB.Model(&models.SettlementIntentModel{}).
		Where("id = ? AND applied_at IS NULL", intentID).
		Update("applied_at", appliedAt)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NewStateConflict("settlement intent", "pending", "applied")
	}
	return nil
}

func (r *DefaultSettlementRepository) RecordAttempt(intentID string, lastError string) error {
	return r.DB.Model(&models.SettlementIntentModel{}).
		Where("id = ?", intentID).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": lastError,
		}).Error
}
