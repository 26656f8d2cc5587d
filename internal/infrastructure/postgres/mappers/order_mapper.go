package mappers

import (
	"github.com/peerex/p2p-escrow-service/internal/domain"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/postgres/models"
)

func ToDomainOrder(model *models.OrderModel) *domain.Order {
	return &domain.Order{
		ID:                   model.ID,
		AdID:                 model.AdID,
		BuyerID:              model.BuyerID,
		SellerID:             model.SellerID,
		AssetID:              model.AssetID,
		Amount:               model.Amount,
		Price:                model.Price,
		QuoteCurrency:        model.QuoteCurrency,
		TotalValue:           model.TotalValue,
		CommissionRate:       model.CommissionRate,
		CommissionAmount:     model.CommissionAmount,
		NetAmount:            model.NetAmount,
		PaymentMethod:        model.PaymentMethod,
		Status:               model.Status,
		PaymentDeadline:      model.PaymentDeadline,
		ConfirmationDeadline: model.ConfirmationDeadline,
		AutoReleaseAt:        model.AutoReleaseAt,
		PaidAt:               model.PaidAt,
		CompletedAt:          model.CompletedAt,
		CancelReason:         model.CancelReason,
		CreatedAt:            model.CreatedAt,
		UpdatedAt:            model.UpdatedAt,
	}
}

func ToGORMOrder(order *domain.Order) *models.OrderModel {
	return &models.OrderModel{
		ID:                   order.ID,
		AdID:                 order.AdID,
		BuyerID:              order.BuyerID,
		SellerID:             order.SellerID,
		AssetID:              order.AssetID,
		Amount:               order.Amount,
		Price:                order.Price,
		QuoteCurrency:        order.QuoteCurrency,
		TotalValue:           order.TotalValue,
		CommissionRate:       order.CommissionRate,
		CommissionAmount:     order.CommissionAmount,
		NetAmount:            order.NetAmount,
		PaymentMethod:        order.PaymentMethod,
		Status:               order.Status,
		PaymentDeadline:      order.PaymentDeadline,
		ConfirmationDeadline: order.ConfirmationDeadline,
		AutoReleaseAt:        order.AutoReleaseAt,
		PaidAt:               order.PaidAt,
		CompletedAt:          order.CompletedAt,
		CancelReason:         order.CancelReason,
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
	}
}
