package repository

import (
	"errors"

	"github.com/peerex/p2p-escrow-service/internal/domain"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultAdvertisementRepository struct {
	DB *gorm.DB
}

func NewDefaultAdvertisementRepository(db *gorm.DB) *DefaultAdvertisementRepository {
	return &DefaultAdvertisementRepository{DB: db}
}

func (r *DefaultAdvertisementRepository) Create(ad *domain.Advertisement) error {
	return r.DB.Create(mappers.ToGORMAd(ad)).Error
}

func (r *DefaultAdvertisementRepository) GetByID(id string) (*domain.Advertisement, error) {
	var model models.AdvertisementModel
	if err := r.DB.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFound("advertisement", id)
		}
		return nil, err
	}
	return mappers.ToDomainAd(&model), nil
}

func (r *DefaultAdvertisementRepository) List(filters domain.AdFilters, page, limit int64) ([]*domain.Advertisement, int64, error) {
	var adModels []models.AdvertisementModel
	var total int64

	query := r.DB.Model(&models.AdvertisementModel{})
	if filters.OwnerID != "" {
		query = query.Where("owner_id = ?", filters.OwnerID)
	}
	if filters.AssetID != "" {
		query = query.Where("asset_id = ?", filters.AssetID)
	}
	if filters.Side != "" {
		query = query.Where("side = ?", filters.Side)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(int(offset)).Limit(int(limit)).Find(&adModels).Error; err != nil {
		return nil, 0, err
	}

	ads := make([]*domain.Advertisement, len(adModels))
	for i := range adModels {
		ads[i] = mappers.ToDomainAd(&adModels[i])
	}
	return ads, total, nil
}

func (r *DefaultAdvertisementRepository) UpdateStatus(id string, from, to domain.AdStatus) error {
	res := r.DB.Model(&models.AdvertisementModel{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.statusConflict(id, from)
	}
	return nil
}

// ReserveAmount carves amount out of the ad inside one transaction: the
// decrement only lands when the ad is ACTIVE and holds enough, and a balance
// hitting zero flips the ad EXHAUSTED in the same transaction.
func (r *DefaultAdvertisementRepository) ReserveAmount(id string, amount int64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.AdvertisementModel{}).
			Where("id = ? AND status = ? AND available_amount >= ?", id, domain.AdActive, amount).
			Update("available_amount", gorm.Expr("available_amount - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var model models.AdvertisementModel
			if err := tx.First(&model, "id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.NewNotFound("advertisement", id)
				}
				return err
			}
			if model.Status != domain.AdActive {
				return domain.NewStateConflict("advertisement", string(domain.AdActive), string(model.Status))
			}
			return domain.NewValidationError(
				"ad %s holds %d, requested %d", id, model.AvailableAmount, amount)
		}
		return tx.Model(&models.AdvertisementModel{}).
			Where("id = ? AND status = ? AND available_amount = 0", id, domain.AdActive).
			Update("status", domain.AdExhausted).Error
	})
}

// RestoreAmount returns amount to a still-open ad. Restores against a CLOSED
// ad are dropped on purpose: the owner has withdrawn the offer.
func (r *DefaultAdvertisementRepository) RestoreAmount(id string, amount int64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.AdvertisementModel{}).
			Where("id = ? AND status IN (?)", id, []string{string(domain.AdActive), string(domain.AdPaused), string(domain.AdExhausted)}).
			Update("available_amount", gorm.Expr("available_amount + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&models.AdvertisementModel{}).
			Where("id = ? AND status = ? AND available_amount > 0", id, domain.AdExhausted).
			Update("status", domain.AdActive).Error
	})
}

func (r *DefaultAdvertisementRepository) statusConflict(id string, expected domain.AdStatus) error {
	var model models.AdvertisementModel
	if err := r.DB.Select("status").First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NewNotFound("advertisement", id)
		}
		return err
	}
	return domain.NewStateConflict("advertisement", string(expected), string(model.Status))
}
