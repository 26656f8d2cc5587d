package models

import (
	"time"

	"github.com/peerex/p2p-escrow-service/internal/domain"
)

type OrderModel struct {
	ID                   string             `gorm:"primaryKey;type:uuid"`
	AdID                 string             `gorm:"type:uuid;index"`
	BuyerID              string             `gorm:"type:uuid;index"`
	SellerID             string             `gorm:"type:uuid;index"`
	AssetID              string             `gorm:"not null"`
	Amount               int64              `gorm:"not null"`
	Price                float64            `gorm:"not null"`
	QuoteCurrency        string             `gorm:"not null"`
	TotalValue           int64              `gorm:"not null"`
	CommissionRate       float64            `gorm:"not null"`
	CommissionAmount     int64              `gorm:"not null"`
	NetAmount            int64              `gorm:"not null"`
	PaymentMethod        string             `gorm:"not null"`
	Status               domain.OrderStatus `gorm:"index:idx_status_payment_deadline;index:idx_status_auto_release"`
	PaymentDeadline      time.Time          `gorm:"index:idx_status_payment_deadline"`
	ConfirmationDeadline time.Time
	AutoReleaseAt        time.Time `gorm:"index:idx_status_auto_release"`
	PaidAt               *time.Time
	CompletedAt          *time.Time
	CancelReason         string
	CreatedAt            time.Time `gorm:"index"`
	UpdatedAt            time.Time
}

func (OrderModel) TableName() string {
	return "orders"
}
