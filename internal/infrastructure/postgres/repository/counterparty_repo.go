package repository

import (
	"errors"

	"github.com/peerex/p2p-escrow-service/internal/domain"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultCounterpartyRepository struct {
	DB *gorm.DB
}

func NewDefaultCounterpartyRepository(db *gorm.DB) *DefaultCounterpartyRepository {
	return &DefaultCounterpartyRepository{DB: db}
}

func (r *DefaultCounterpartyRepository) Create(cp *domain.Counterparty) error {
	return r.DB.Create(mappers.ToGORMCounterparty(cp)).Error
}

func (r *DefaultCounterpartyRepository) GetByID(id string) (*domain.Counterparty, error) {
	var model models.CounterpartyModel
	if err := r.DB.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFound("counterparty", id)
		}
		return nil, err
	}
	return mappers.ToDomainCounterparty(&model), nil
}

// ApplyCounters bumps the reputation counters with a single SQL expression.
// Concurrent terminal transitions for different orders may race here and both
// must land, which a read-then-write would lose.
func (r *DefaultCounterpartyRepository) ApplyCounters(id string, deltas domain.CounterpartyCounters) error {
	res := r.DB.Model(&models.CounterpartyModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_orders":     gorm.Expr("total_orders + ?", deltas.TotalOrders),
			"completed_orders": gorm.Expr("completed_orders + ?", deltas.CompletedOrders),
			"canceled_orders":  gorm.Expr("canceled_orders + ?", deltas.CanceledOrders),
			"disputed_orders":  gorm.Expr("disputed_orders + ?", deltas.DisputedOrders),
			"reputation_score": gorm.Expr("reputation_score + ?", deltas.ReputationDelta),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFound("counterparty", id)
	}
	return nil
}

func (r *DefaultCounterpartyRepository) SetSuspended(id string, suspended bool) error {
	res := r.DB.Model(&models.CounterpartyModel{}).
		Where("id = ?", id).
		Update("suspended", suspended)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFound("counterparty", id)
	}
	return nil
}
