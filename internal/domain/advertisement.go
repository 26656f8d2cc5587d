package domain

import "time"

type AdSide string

const (
	AdSideSell AdSide = "SELL"
	AdSideBuy  AdSide = "BUY"
)

type AdStatus string

const (
	AdActive    AdStatus = "ACTIVE"
	AdPaused    AdStatus = "PAUSED"
	AdExhausted AdStatus = "EXHAUSTED"
	AdClosed    AdStatus = "CLOSED"
)

// Advertisement is an offer to sell (or buy) a fixed asset at a price.
// AvailableAmount is in asset base units and only ever moves through
// conditional increments/decrements.
type Advertisement struct {
	ID              string
	OwnerID         string
	Side            AdSide
	AssetID         string
	Price           float64
	QuoteCurrency   string
	MinOrderValue   int64
	MaxOrderValue   int64
	PaymentMethods  []string
	TotalAmount     int64
	AvailableAmount int64
	Status          AdStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (ad *Advertisement) AcceptsPaymentMethod(method string) bool {
	for _, m := range ad.PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

type AdFilters struct {
	OwnerID string
	AssetID string
	Side    AdSide
	Status  AdStatus
}

type AdvertisementRepository interface {
	Create(ad *Advertisement) error
	GetByID(id string) (*Advertisement, error)
	List(filters AdFilters, page, limit int64) ([]*Advertisement, int64, error)
	UpdateStatus(id string, from, to AdStatus) error
	// ReserveAmount decrements available_amount only when the ad is ACTIVE and
	// still holds at least amount; exhaustion to zero flips the ad EXHAUSTED.
	ReserveAmount(id string, amount int64) error
	// RestoreAmount returns amount to a still-open ad (ACTIVE or EXHAUSTED),
	// reactivating an exhausted one. Restores to a CLOSED ad are dropped.
	RestoreAmount(id string, amount int64) error
}
