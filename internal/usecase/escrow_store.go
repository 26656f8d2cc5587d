package usecase

import (
	"context"
	"time"

	"github.com/peerex/p2p-escrow-service/internal/domain"
)

// EscrowStore performs the custody side of settlement: exactly-once
// release/refund of a locked escrow via the Ledger Adapter. Calls are
// idempotent by terminal outcome: repeating a transition that already
// happened is a no-op success, requesting the opposite one is a conflict.
type EscrowStore struct {
	escrowRepo domain.EscrowRepository
	ledger     domain.LedgerAdapter
}

func NewEscrowStore(escrowRepo domain.EscrowRepository, ledger domain.LedgerAdapter) *EscrowStore {
	return &EscrowStore{escrowRepo: escrowRepo, ledger: ledger}
}

func (s *EscrowStore) GetByOrderID(orderID string) (*domain.Escrow, error) {
	return s.escrowRepo.GetByOrderID(orderID)
}

// Release moves the full locked amount to the buyer.
func (s *EscrowStore) Release(ctx context.Context, orderID, actor, reason string) error {
	escrow, err := s.escrowRepo.GetByOrderID(orderID)
	if err != nil {
		return err
	}
	return s.settle(ctx, escrow, domain.EscrowReleased, escrow.Amount, 0, actor, reason)
}

// Refund returns the full locked amount to the seller.
func (s *EscrowStore) Refund(ctx context.Context, orderID, actor, reason string) error {
	escrow, err := s.escrowRepo.GetByOrderID(orderID)
	if err != nil {
		return err
	}
	return s.settle(ctx, escrow, domain.EscrowRefunded, 0, escrow.Amount, actor, reason)
}

// PartialRelease splits the locked amount between buyer and seller; used
// only by dispute partial outcomes. The shares must sum exactly to the
// locked amount. The two ledger calls are idempotent by handle, so a retry
// after a mid-way failure re-drives both without double spending.
func (s *EscrowStore) PartialRelease(ctx context.Context, orderID string, buyerShare, sellerShare int64, actor, reason string) error {
	escrow, err := s.escrowRepo.GetByOrderID(orderID)
	if err != nil {
		return err
	}
	if buyerShare < 0 || sellerShare < 0 || buyerShare+sellerShare != escrow.Amount {
		return domain.NewValidationError(
			"partial shares %d+%d must sum to locked amount %d", buyerShare, sellerShare, escrow.Amount)
	}
	return s.settle(ctx, escrow, domain.EscrowReleased, buyerShare, sellerShare, actor, reason)
}

func (s *EscrowStore) settle(ctx context.Context, escrow *domain.Escrow, to domain.EscrowStatus, buyerShare, sellerShare int64, actor, reason string) error {
	if escrow.Status != domain.EscrowLocked {
		// already terminal: same outcome is an idempotent no-op, the
		// opposite one can never be honored
		if escrow.Status == to && escrow.BuyerShare == buyerShare && escrow.SellerShare == sellerShare {
			return nil
		}
		return domain.NewStateConflict("escrow", string(domain.EscrowLocked), string(escrow.Status))
	}

	// Ledger first, record second: the handle-keyed idempotency of the
	// ledger makes the calls safe to repeat if the record write fails.
	if buyerShare > 0 {
		if err := s.ledger.Release(ctx, escrow.LockHandle, escrow.BuyerID, buyerShare); err != nil {
			return err
		}
	}
	if sellerShare > 0 {
		if err := s.ledger.Refund(ctx, escrow.LockHandle, sellerShare); err != nil {
			return err
		}
	}

	err := s.escrowRepo.MarkTerminal(escrow.ID, to, domain.ReleaseMeta{
		Actor:       actor,
		Reason:      reason,
		BuyerShare:  buyerShare,
		SellerShare: sellerShare,
		ReleasedAt:  time.Now(),
	})
	if domain.IsStateConflict(err) {
		// a concurrent settle won the conditional update; agree or conflict
		current, getErr := s.escrowRepo.GetByOrderID(escrow.OrderID)
		if getErr != nil {
			return getErr
		}
		if current.Status == to && current.BuyerShare == buyerShare && current.SellerShare == sellerShare {
			return nil
		}
		return domain.NewStateConflict("escrow", string(domain.EscrowLocked), string(current.Status))
	}
	return err
}
