package repository

import (
	"errors"
	"time"

	"github.com/peerex/p2p-escrow-service/internal/domain"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{DB: db}
}

func (r *DefaultOrderRepository) CreateWithEscrow(order *domain.Order, escrow *domain.Escrow) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(mappers.ToGORMOrder(order)).Error; err != nil {
			return err
		}
		return tx.Create(mappers.ToGORMEscrow(escrow)).Error
	})
}

func (r *DefaultOrderRepository) GetByID(orderID string) (*domain.Order, error) {
	var model models.OrderModel
	if err := r.DB.First(&model, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFound("order", orderID)
		}
		return nil, err
	}
	return mappers.ToDomainOrder(&model), nil
}

func (r *DefaultOrderRepository) List(filters domain.OrderFilters, page, limit int64) ([]*domain.Order, int64, error) {
	var orderModels []models.OrderModel
	var total int64

	query := r.DB.Model(&models.OrderModel{})
	if filters.CounterpartyID != "" {
		query = query.Where("buyer_id = ? OR seller_id = ?", filters.CounterpartyID, filters.CounterpartyID)
	}
	if filters.AdID != "" {
		query = query.Where("ad_id = ?", filters.AdID)
	}
	if len(filters.Statuses) > 0 {
		query = query.Where("status IN (?)", filters.Statuses)
	}
	if !filters.CreatedFrom.IsZero() {
		query = query.Where("created_at >= ?", filters.CreatedFrom)
	}
	if !filters.CreatedTo.IsZero() {
		query = query.Where("created_at <= ?", filters.CreatedTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(int(offset)).Limit(int(limit)).Find(&orderModels).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]*domain.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = mappers.ToDomainOrder(&orderModels[i])
	}
	return orders, total, nil
}

func (r *DefaultOrderRepository) MarkPaid(orderID string, paidAt time.Time, confirmationDeadline time.Time) error {
	res := r.DB.Model(&models.OrderModel{}).
		Where("id = ? AND status = ?", orderID, domain.StatusPending).
		Updates(map[string]interface{}{
			"status":                domain.StatusPaid,
			"paid_at":               paidAt,
			"confirmation_deadline": confirmationDeadline,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.statusConflict(orderID, domain.StatusPending)
	}
	return nil
}

func (r *DefaultOrderRepository) Finalize(
	orderID string,
	from, to domain.OrderStatus,
	completedAt time.Time,
	reason string,
	intent *domain.SettlementIntent,
	records []*domain.CommissionRecord,
) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.OrderModel{}).
			Where("id = ? AND status = ?", orderID, from).
			Updates(map[string]interface{}{
				"status":        to,
				"completed_at":  completedAt,
				"cancel_reason": reason,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return r.statusConflict(orderID, from)
		}
		if intent != nil {
			if err := tx.Create(mappers.ToGORMIntent(intent)).Error; err != nil {
				return err
			}
		}
		for _, rec := range records {
			if err := tx.Create(mappers.ToGORMCommissionRecord(rec)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *DefaultOrderRepository) FindExpired(now time.Time, limit int) ([]*domain.Order, error) {
	var orderModels []models.OrderModel
	err := r.DB.
		Where("status = ? AND payment_deadline < ?", domain.StatusPending, now).
		Order("payment_deadline ASC").
		Limit(limit).
		Find(&orderModels).Error
	if err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = mappers.ToDomainOrder(&orderModels[i])
	}
	return orders, nil
}

func (r *DefaultOrderRepository) FindAutoReleasable(now time.Time, limit int) ([]*domain.Order, error) {
	var orderModels []models.OrderModel
	err := r.DB.
		Where("status = ? AND auto_release_at < ?", domain.StatusPaid, now).
		Where("NOT EXISTS (SELECT 1 FROM disputes WHERE disputes.order_id = orders.id AND disputes.status IN (?))",
			[]string{string(domain.DisputeOpen), string(domain.DisputeInvestigating), string(domain.DisputeResolved)}).
		Order("auto_release_at ASC").
		Limit(limit).
		Find(&orderModels).Error
	if err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = mappers.ToDomainOrder(&orderModels[i])
	}
	return orders, nil
}

// statusConflict reloads the row so the error carries the actual status the
// guard lost against.
func (r *DefaultOrderRepository) statusConflict(orderID string, expected domain.OrderStatus) error {
	var model models.OrderModel
	if err := r.DB.Select("status").First(&model, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NewNotFound("order", orderID)
		}
		return err
	}
	return domain.NewStateConflict("order", string(expected), string(model.Status))
}
