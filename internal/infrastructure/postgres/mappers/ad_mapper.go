package mappers

import (
	"strings"

	"github.com/peerex/p2p-escrow-service/internal/domain"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/postgres/models"
)

const paymentMethodSep = ","

func ToDomainAd(model *models.AdvertisementModel) *domain.Advertisement {
	var methods []string
	if model.PaymentMethods != "" {
		methods = strings.Split(model.PaymentMethods, paymentMethodSep)
	}
	return &domain.Advertisement{
		ID:              model.ID,
		OwnerID:         model.OwnerID,
		Side:            model.Side,
		AssetID:         model.AssetID,
		Price:           model.Price,
		QuoteCurrency:   model.QuoteCurrency,
		MinOrderValue:   model.MinOrderValue,
		MaxOrderValue:   model.MaxOrderValue,
		PaymentMethods:  methods,
		TotalAmount:     model.TotalAmount,
		AvailableAmount: model.AvailableAmount,
		Status:          model.Status,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func ToGORMAd(ad *domain.Advertisement) *models.AdvertisementModel {
	return &models.AdvertisementModel{
		ID:              ad.ID,
		OwnerID:         ad.OwnerID,
		Side:            ad.Side,
		AssetID:         ad.AssetID,
		Price:           ad.Price,
		QuoteCurrency:   ad.QuoteCurrency,
		MinOrderValue:   ad.MinOrderValue,
		MaxOrderValue:   ad.MaxOrderValue,
		PaymentMethods:  strings.Join(ad.PaymentMethods, paymentMethodSep),
		TotalAmount:     ad.TotalAmount,
		AvailableAmount: ad.AvailableAmount,
		Status:          ad.Status,
		CreatedAt:       ad.CreatedAt,
		UpdatedAt:       ad.UpdatedAt,
	}
}
