package repository

import (
	"errors"

	"github.com/peerex/p2p-escrow-service/internal/domain"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultAssetRepository struct {
	DB *gorm.DB
}

func NewDefaultAssetRepository(db *gorm.DB) *DefaultAssetRepository {
	return &DefaultAssetRepository{DB: db}
}

func (r *DefaultAssetRepository) GetByID(assetID string) (*domain.Asset, error) {
	var model models.AssetModel
	if err := r.DB.First(&model, "id = ?", assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFound("asset", assetID)
		}
		return nil, err
	}
	return &domain.Asset{ID: model.ID, Name: model.Name, Decimals: model.Decimals}, nil
}
