package domain

import "time"

type RecipientType string

const (
	RecipientPlatform  RecipientType = "PLATFORM"
	RecipientAffiliate RecipientType = "AFFILIATE"
	RecipientReferral  RecipientType = "REFERRAL"
)

// CommissionRecord is a derived ledger entry per recipient for a completed
// order. Amounts are quote minimal units; records for one order always sum
// exactly to the order's commission amount.
type CommissionRecord struct {
	ID            string
	OrderID       string
	RecipientID   string
	RecipientType RecipientType
	Amount        int64
	CreatedAt     time.Time
}

type CommissionRepository interface {
	ListByOrderID(orderID string) ([]*CommissionRecord, error)
}

// CommissionRule is the platform configuration slice resolved per counterparty
// tier and asset. Read fresh at every transition so config changes take
// effect without a redeploy.
type CommissionRule struct {
	Tier           string
	AssetID        string
	Rate           float64
	MinCommission  int64
	MaxCommission  int64
	AffiliateShare float64
	ReferralShare  float64
}

// PlatformSettings are the advisory deadlines handed to new orders.
type PlatformSettings struct {
	PaymentDeadline    time.Duration
	ConfirmationWindow time.Duration
	AutoReleaseWindow  time.Duration
}

type PlatformConfigRepository interface {
	GetCommissionRule(tier, assetID string) (*CommissionRule, error)
	GetSettings() (*PlatformSettings, error)
}
