package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/peerex/p2p-escrow-service/internal/domain"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/metrics"
)

// SettlementUsecase is the apply half of the decide/apply split: it takes
// immutable settlement intents and drives the Escrow Store until each one
// sticks. Failed applies are re-driven indefinitely by the retry worker;
// abandoning one would strand funds in an ambiguous custody state.
type SettlementUsecase struct {
	intents  domain.SettlementRepository
	escrow   *EscrowStore
	disputes domain.DisputeRepository
	metrics  *metrics.EngineMetrics
}

func NewSettlementUsecase(
	intents domain.SettlementRepository,
	escrow *EscrowStore,
	disputes domain.DisputeRepository,
	m *metrics.EngineMetrics,
) *SettlementUsecase {
	return &SettlementUsecase{
		intents:  intents,
		escrow:   escrow,
		disputes: disputes,
		metrics:  m,
	}
}

// Apply executes one intent: escrow transition, applied stamp, and the
// dispute close when the intent came out of arbitration. Safe to call
// repeatedly and from competing workers.
func (uc *SettlementUsecase) Apply(ctx context.Context, intent *domain.SettlementIntent) error {
	if intent.Applied() {
		return nil
	}

	var err error
	switch intent.Outcome {
	case domain.SettleRelease:
		err = uc.escrow.Release(ctx, intent.OrderID, intent.DecidedBy, intent.Reason)
	case domain.SettleRefund:
		err = uc.escrow.Refund(ctx, intent.OrderID, intent.DecidedBy, intent.Reason)
	case domain.SettlePartial:
		err = uc.escrow.PartialRelease(ctx, intent.OrderID, intent.BuyerShare, intent.SellerShare, intent.DecidedBy, intent.Reason)
	default:
		err = domain.NewValidationError("unknown settlement outcome %q", intent.Outcome)
	}
	if err != nil {
		if recErr := uc.intents.RecordAttempt(intent.ID, err.Error()); recErr != nil {
			slog.Error("failed to record settlement attempt", "intent_id", intent.ID, "error", recErr.Error())
		}
		uc.metrics.SettlementFailuresTotal.WithLabelValues(string(intent.Outcome)).Inc()
		return err
	}

	if err := uc.intents.MarkApplied(intent.ID, time.Now()); err != nil {
		if domain.IsStateConflict(err) {
			// a competing worker stamped it first
			return nil
		}
		return err
	}

	if intent.DisputeID != "" {
		if err := uc.disputes.UpdateStatus(intent.DisputeID, domain.DisputeResolved, domain.DisputeClosed); err != nil && !domain.IsStateConflict(err) {
			slog.Error("failed to close dispute after settlement", "dispute_id", intent.DisputeID, "error", err.Error())
		}
	}

	uc.metrics.SettlementsAppliedTotal.WithLabelValues(string(intent.Outcome)).Inc()
	return nil
}

// PendingIntents lists unapplied intents, oldest first, for operator
// inspection.
func (uc *SettlementUsecase) PendingIntents(limit int) ([]*domain.SettlementIntent, error) {
	return uc.intents.FindPending(time.Now(), limit)
}

// RetryPending re-drives unapplied intents older than minAge. Errors are
// logged per intent and never stop the batch.
func (uc *SettlementUsecase) RetryPending(ctx context.Context, minAge time.Duration, limit int) error {
	pending, err := uc.intents.FindPending(time.Now().Add(-minAge), limit)
	if err != nil {
		return err
	}
	for _, intent := range pending {
		if err := uc.Apply(ctx, intent); err != nil {
			uc.metrics.SettlementRetriesTotal.Inc()
			slog.Warn("settlement retry failed",
				"intent_id", intent.ID,
				"order_id", intent.OrderID,
				"attempts", intent.Attempts,
				"error", err.Error(),
			)
		}
	}
	return nil
}
