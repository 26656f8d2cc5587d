package models

import (
	"time"

	"github.com/peerex/p2p-escrow-service/internal/domain"
)

type AdvertisementModel struct {
	ID              string          `gorm:"primaryKey;type:uuid"`
	OwnerID         string          `gorm:"type:uuid;index"`
	Side            domain.AdSide   `gorm:"index:idx_ads_side_asset"`
	AssetID         string          `gorm:"index:idx_ads_side_asset"`
	QuoteCurrency   string          `gorm:"not null"`
	Price           float64         `gorm:"not null"`
	MinOrderValue   int64           `gorm:"not null"`
	MaxOrderValue   int64           `gorm:"not null"`
	TotalAmount     int64           `gorm:"not null"`
	AvailableAmount int64           `gorm:"not null"`
	PaymentMethods  string          `gorm:"not null"`
	Status          domain.AdStatus `gorm:"index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (AdvertisementModel) TableName() string {
	return "advertisements"
}
