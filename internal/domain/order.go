package domain

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusDisputed  OrderStatus = "DISPUTED"
	StatusCanceled  OrderStatus = "CANCELED"
)

func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

// Order is the central aggregate. Monetary fields are integer minimal units:
// Amount in asset base units, TotalValue/CommissionAmount/NetAmount in quote
// minimal units. Mutated exclusively through status-guarded updates and never
// deleted; terminal rows are retained for audit.
type Order struct {
	ID                   string
	AdID                 string
	BuyerID              string
	SellerID             string
	AssetID              string
	Amount               int64
	Price                float64
	QuoteCurrency        string
	TotalValue           int64
	CommissionRate       float64
	CommissionAmount     int64
	NetAmount            int64
	PaymentMethod        string
	Status               OrderStatus
	PaymentDeadline      time.Time
	ConfirmationDeadline time.Time
	AutoReleaseAt        time.Time
	PaidAt               *time.Time
	CompletedAt          *time.Time
	CancelReason         string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (o *Order) IsParty(counterpartyID string) bool {
	return counterpartyID == o.BuyerID || counterpartyID == o.SellerID
}

func (o *Order) OtherParty(counterpartyID string) string {
	if counterpartyID == o.BuyerID {
		return o.SellerID
	}
	return o.BuyerID
}

type OrderFilters struct {
	CounterpartyID string
	AdID           string
	Statuses       []string
	CreatedFrom    time.Time
	CreatedTo      time.Time
}

// FinalizeReason is the audited origin of a terminal transition.
const (
	ReasonSellerConfirmed = "seller_confirmed"
	ReasonAutoRelease     = "auto_release"
	ReasonBuyerCanceled   = "buyer_canceled"
	ReasonSellerCanceled  = "seller_canceled"
	ReasonPaymentTimeout  = "payment_timeout"
	ReasonDisputeOutcome  = "dispute_outcome"
)

type OrderRepository interface {
	// CreateWithEscrow persists the order and its 1:1 escrow record in one
	// transaction. The ledger lock has already succeeded by the time this is
	// called; a failure here leaves no partial row behind.
	CreateWithEscrow(order *Order, escrow *Escrow) error
	GetByID(orderID string) (*Order, error)
	List(filters OrderFilters, page, limit int64) ([]*Order, int64, error)
	// MarkPaid flips PENDING -> PAID with an expected-status guard.
	MarkPaid(orderID string, paidAt time.Time, confirmationDeadline time.Time) error
	// Finalize flips the order into a terminal status and records the
	// settlement intent and commission records in the same transaction. The
	// status guard on `from` is the sole concurrency control: zero affected
	// rows roll the whole transaction back with a StateConflict.
	Finalize(orderID string, from, to OrderStatus, completedAt time.Time, reason string, intent *SettlementIntent, records []*CommissionRecord) error
	FindExpired(now time.Time, limit int) ([]*Order, error)
	// FindAutoReleasable returns PAID orders whose auto-release time elapsed,
	// whose escrow is still locked and which have no open dispute.
	FindAutoReleasable(now time.Time, limit int) ([]*Order, error)
}
