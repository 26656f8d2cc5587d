package models

import (
	"time"

	"github.com/peerex/p2p-escrow-service/internal/domain"
)

type CommissionRecordModel struct {
	ID            string               `gorm:"primaryKey"`
	OrderID       string               `gorm:"type:uuid;index"`
	RecipientID   string               `gorm:"index"`
	RecipientType domain.RecipientType `gorm:"not null"`
	Amount        int64                `gorm:"not null"`
	CreatedAt     time.Time
}

type CommissionRuleModel struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"`
	Tier           string `gorm:"uniqueIndex:idx_rule_tier_asset"`
	AssetID        string `gorm:"uniqueIndex:idx_rule_tier_asset"`
	Rate           float64
	MinCommission  int64
	MaxCommission  int64
	AffiliateShare float64
	ReferralShare  float64
	UpdatedAt      time.Time
}

type PlatformSettingModel struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

type AssetModel struct {
	ID       string `gorm:"primaryKey"`
	Name     string `gorm:"not null"`
	Decimals int    `gorm:"not null"`
}

func (CommissionRecordModel) TableName() string {
	return "commission_records"
}

func (CommissionRuleModel) TableName() string {
	return "commission_rules"
}

func (PlatformSettingModel) TableName() string {
	return "platform_settings"
}

func (AssetModel) TableName() string {
	return "assets"
}
