package domain

import "time"

// Counterparty is a trading identity. Records are never deleted; misbehaving
// parties are soft-suspended instead.
type Counterparty struct {
	ID              string
	DisplayName     string
	Tier            string
	ReputationScore float64
	TotalOrders     int64
	CompletedOrders int64
	CanceledOrders  int64
	DisputedOrders  int64
	AffiliateID     string
	ReferrerID      string
	Suspended       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CounterpartyCounters is a delta applied atomically after a terminal order
// transition. All increments go through a single SQL expression, never a
// read-then-write.
type CounterpartyCounters struct {
	TotalOrders     int64
	CompletedOrders int64
	CanceledOrders  int64
	DisputedOrders  int64
	ReputationDelta float64
}

type CounterpartyRepository interface {
	Create(cp *Counterparty) error
	GetByID(id string) (*Counterparty, error)
	ApplyCounters(id string, deltas CounterpartyCounters) error
	SetSuspended(id string, suspended bool) error
}
