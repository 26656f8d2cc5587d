package domain

import "time"

type EscrowStatus string

const (
	EscrowLocked   EscrowStatus = "LOCKED"
	EscrowReleased EscrowStatus = "RELEASED"
	EscrowRefunded EscrowStatus = "REFUNDED"
)

// Escrow is the 1:1 custody record for an order. Amount equals the order
// amount at creation and never changes; the terminal status is set exactly
// once. The ledger lock handle is the idempotency key for every balance
// mutation downstream.
type Escrow struct {
	ID            string
	OrderID       string
	SellerID      string
	BuyerID       string
	AssetID       string
	Amount        int64
	LockHandle    string
	Status        EscrowStatus
	ReleasedBy    string
	ReleaseReason string
	BuyerShare    int64
	SellerShare   int64
	ReleasedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ReleaseMeta is the audit trail written together with a terminal escrow
// transition: who decided, why, and how the locked amount was split.
type ReleaseMeta struct {
	Actor       string
	Reason      string
	BuyerShare  int64
	SellerShare int64
	ReleasedAt  time.Time
}

type EscrowRepository interface {
	GetByOrderID(orderID string) (*Escrow, error)
	// MarkTerminal flips LOCKED -> to with an expected-status guard and writes
	// the release metadata. Zero affected rows is a StateConflict.
	MarkTerminal(escrowID string, to EscrowStatus, meta ReleaseMeta) error
}
