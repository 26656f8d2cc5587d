package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerex/p2p-escrow-service/internal/domain"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/postgres/repository"
	"github.com/peerex/p2p-escrow-service/internal/usecase/dto"
)

func openDispute(t *testing.T, e *engine, f *fixture, orderID string) *domain.Dispute {
	t.Helper()
	dispute, err := e.disputes.OpenDispute(context.Background(), &dto.OpenDisputeInput{
		OrderID: orderID,
		ActorID: f.Buyer.ID,
		Reason:  "goods never arrived",
	})
	require.NoError(t, err)
	return dispute
}

func TestOpenDispute(t *testing.T) {
	e := newTestEngine(t)
	f := e.seed(t)
	ctx := context.Background()
	order := e.createOrder(t, f, 5000)
	_, err := e.orders.MarkPaid(ctx, order.ID, f.Buyer.ID)
	require.NoError(t, err)

	dispute := openDispute(t, e, f, order.ID)
	assert.Equal(t, domain.DisputeOpen, dispute.Status)
	assert.Equal(t, f.Buyer.ID, dispute.ComplainantID)
	assert.Equal(t, f.Seller.ID, dispute.RespondentID)

	// the order froze
	got, err := e.orders.GetOrderByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDisputed, got.Status)
}

func TestOpenDisputeGuards(t *testing.T) {
	e := newTestEngine(t)
	f := e.seed(t)
	ctx := context.Background()

	t.Run("stranger cannot dispute", func(t *testing.T) {
		order := e.createOrder(t, f, 1000)
		_, err := e.disputes.OpenDispute(ctx, &dto.OpenDisputeInput{
			OrderID: order.ID, ActorID: "someone-else", Reason: "x",
		})
		assert.Equal(t, domain.CodeUnauthorized, domain.CodeOf(err))
	})

	t.Run("second dispute on the same order", func(t *testing.T) {
		order := e.createOrder(t, f, 1000)
		openDispute(t, e, f, order.ID)
		_, err := e.disputes.OpenDispute(ctx, &dto.OpenDisputeInput{
			OrderID: order.ID, ActorID: f.Seller.ID, Reason: "counter claim",
		})
		require.Error(t, err)
	})

	t.Run("window closes at the confirmation deadline", func(t *testing.T) {
		order := e.createOrder(t, f, 1000)
		_, err := e.orders.MarkPaid(ctx, order.ID, f.Buyer.ID)
		require.NoError(t, err)
		e.setOrderTime(t, order.ID, "confirmation_deadline", time.Now().Add(-time.Minute))

		_, err = e.disputes.OpenDispute(ctx, &dto.OpenDisputeInput{
			OrderID: order.ID, ActorID: f.Buyer.ID, Reason: "too late",
		})
		assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
	})
}

// Scenario: dispute on a paid order, moderator investigates and rules for
// the buyer; escrow releases and commission applies as on a normal
// completion.
func TestResolveBuyerWins(t *testing.T) {
	e := newTestEngine(t)
	f := e.seed(t)
	ctx := context.Background()
	order := e.createOrder(t, f, 5000)
	_, err := e.orders.MarkPaid(ctx, order.ID, f.Buyer.ID)
	require.NoError(t, err)
	dispute := openDispute(t, e, f, order.ID)

	_, err = e.disputes.StartInvestigation(ctx, dispute.ID, "mod-1")
	require.NoError(t, err)

	resolved, err := e.disputes.ResolveDispute(ctx, &dto.ResolveDisputeInput{
		DisputeID:   dispute.ID,
		ModeratorID: "mod-1",
		Outcome:     domain.OutcomeBuyerWins,
		Rationale:   "payment proven",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DisputeClosed, resolved.Status)
	assert.Equal(t, domain.OutcomeBuyerWins, resolved.Outcome)
	require.NotNil(t, resolved.ResolvedAt)

	got, err := e.orders.GetOrderByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)

	escrow, err := e.escrowRepo.GetByOrderID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EscrowReleased, escrow.Status)
	assert.Equal(t, int64(5000), escrow.BuyerShare)

	records, err := e.records.ListByOrderID(order.ID)
	require.NoError(t, err)
	var sum int64
	for _, rec := range records {
		sum += rec.Amount
	}
	assert.Equal(t, got.CommissionAmount, sum)
}

func TestResolveSellerWinsRefunds(t *testing.T) {
	e := newTestEngine(t)
	f := e.seed(t)
	ctx := context.Background()
	order := e.createOrder(t, f, 5000)
	_, err := e.orders.MarkPaid(ctx, order.ID, f.Buyer.ID)
	require.NoError(t, err)
	dispute := openDispute(t, e, f, order.ID)

	resolved, err := e.disputes.ResolveDispute(ctx, &dto.ResolveDisputeInput{
		DisputeID:   dispute.ID,
		ModeratorID: "mod-1",
		Outcome:     domain.OutcomeSellerWins,
		Rationale:   "no payment evidence",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeSellerWins, resolved.Outcome)

	got, err := e.orders.GetOrderByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCanceled, got.Status)
	assert.Equal(t, domain.ReasonDisputeOutcome, got.CancelReason)

	escrow, err := e.escrowRepo.GetByOrderID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EscrowRefunded, escrow.Status)
	assert.Equal(t, int64(5000), escrow.SellerShare)

	// no commission on a refunded trade
	records, err := e.records.ListByOrderID(order.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestResolvePartialSplitsEscrow(t *testing.T) {
	e := newTestEngine(t)
	f := e.seed(t)
	ctx := context.Background()
	order := e.createOrder(t, f, 5001)
	_, err := e.orders.MarkPaid(ctx, order.ID, f.Buyer.ID)
	require.NoError(t, err)
	dispute := openDispute(t, e, f, order.ID)

	_, err = e.disputes.ResolveDispute(ctx, &dto.ResolveDisputeInput{
		DisputeID:   dispute.ID,
		ModeratorID: "mod-1",
		Outcome:     domain.OutcomePartial,
		BuyerRatio:  0.5,
		Rationale:   "both at fault",
	})
	require.NoError(t, err)

	escrow, err := e.escrowRepo.GetByOrderID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EscrowReleased, escrow.Status)
	// shares conserve the locked amount exactly, odd units included
	assert.Equal(t, escrow.Amount, escrow.BuyerShare+escrow.SellerShare)
	assert.Equal(t, int64(2501), escrow.BuyerShare)

	_, releases, refunds := e.ledger.counts()
	assert.Equal(t, 1, releases)
	assert.Equal(t, 1, refunds)
}

func TestResolutionIsImmutable(t *testing.T) {
	e := newTestEngine(t)
	f := e.seed(t)
	ctx := context.Background()
	order := e.createOrder(t, f, 5000)
	_, err := e.orders.MarkPaid(ctx, order.ID, f.Buyer.ID)
	require.NoError(t, err)
	dispute := openDispute(t, e, f, order.ID)

	_, err = e.disputes.ResolveDispute(ctx, &dto.ResolveDisputeInput{
		DisputeID: dispute.ID, ModeratorID: "mod-1",
		Outcome: domain.OutcomeBuyerWins, Rationale: "first ruling",
	})
	require.NoError(t, err)

	// the second ruling bounces off the resolved_at guard
	_, err = e.disputes.ResolveDispute(ctx, &dto.ResolveDisputeInput{
		DisputeID: dispute.ID, ModeratorID: "mod-2",
		Outcome: domain.OutcomeSellerWins, Rationale: "second ruling",
	})
	assert.True(t, domain.IsStateConflict(err))

	got, err := e.disputes.GetDisputeByID(dispute.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeBuyerWins, got.Outcome)
	assert.Equal(t, "mod-1", got.ModeratorID)
}

func TestInvalidPartialRatioRejected(t *testing.T) {
	e := newTestEngine(t)
	f := e.seed(t)
	ctx := context.Background()
	order := e.createOrder(t, f, 5000)
	dispute := openDispute(t, e, f, order.ID)

	for _, ratio := range []float64{0, 1, -0.5, 1.5} {
		_, err := e.disputes.ResolveDispute(ctx, &dto.ResolveDisputeInput{
			DisputeID: dispute.ID, ModeratorID: "mod-1",
			Outcome: domain.OutcomePartial, BuyerRatio: ratio, Rationale: "x",
		})
		assert.Equal(t, domain.CodeValidation, domain.CodeOf(err), "ratio %v", ratio)
	}
}

// A verdict that cannot settle its order must not commit at all: the
// dispute stays unresolved and a later ruling still goes through. Without
// single-transaction resolution a half-committed verdict would strand the
// escrow with no intent for the retry worker.
func TestResolutionRollsBackWhenOrderCannotSettle(t *testing.T) {
	e := newTestEngine(t)
	f := e.seed(t)
	ctx := context.Background()
	order := e.createOrder(t, f, 5000)
	_, err := e.orders.MarkPaid(ctx, order.ID, f.Buyer.ID)
	require.NoError(t, err)
	dispute := openDispute(t, e, f, order.ID)

	// a competing writer moved the order out from under the resolver
	require.NoError(t, e.db.Exec(
		"UPDATE orders SET status = ? WHERE id = ?", domain.StatusPaid, order.ID).Error)

	escrow, err := e.escrowRepo.GetByOrderID(order.ID)
	require.NoError(t, err)
	repo := repository.NewDefaultDisputeRepository(e.db)
	err = repo.Resolve(dispute.ID, domain.DisputeResolution{
		Outcome:     domain.OutcomeSellerWins,
		ModeratorID: "mod-1",
		Rationale:   "no payment evidence",
		ResolvedAt:  time.Now(),
	}, domain.StatusCanceled, domain.ReasonDisputeOutcome, &domain.SettlementIntent{
		ID:          "intent-under-test",
		OrderID:     order.ID,
		EscrowID:    escrow.ID,
		Outcome:     domain.SettleRefund,
		SellerShare: escrow.Amount,
		Reason:      domain.ReasonDisputeOutcome,
		DecidedBy:   "mod-1",
		CreatedAt:   time.Now(),
	}, nil)
	assert.True(t, domain.IsStateConflict(err))

	// the verdict rolled back with the flip: no resolved_at, no intent
	got, err := e.disputes.GetDisputeByID(dispute.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ResolvedAt)
	assert.Equal(t, domain.DisputeOpen, got.Status)
	_, err = e.intents.GetByOrderID(order.ID)
	assert.True(t, domain.IsNotFound(err))

	// once the order is disputable again, the same dispute still resolves
	require.NoError(t, e.db.Exec(
		"UPDATE orders SET status = ? WHERE id = ?", domain.StatusDisputed, order.ID).Error)
	resolved, err := e.disputes.ResolveDispute(ctx, &dto.ResolveDisputeInput{
		DisputeID:   dispute.ID,
		ModeratorID: "mod-1",
		Outcome:     domain.OutcomeSellerWins,
		Rationale:   "no payment evidence",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeSellerWins, resolved.Outcome)

	escrow, err = e.escrowRepo.GetByOrderID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EscrowRefunded, escrow.Status)
}

// A dispute freezes the auto-release path: the sweep no longer sees the
// order, and a direct release loses the status guard.
func TestDisputeFreezesAutoRelease(t *testing.T) {
	e := newTestEngine(t)
	f := e.seed(t)
	ctx := context.Background()
	order := e.createOrder(t, f, 5000)
	_, err := e.orders.MarkPaid(ctx, order.ID, f.Buyer.ID)
	require.NoError(t, err)
	openDispute(t, e, f, order.ID)

	e.setOrderTime(t, order.ID, "auto_release_at", time.Now().Add(-time.Minute))
	candidates, err := e.orderRepo.FindAutoReleasable(time.Now(), 100)
	require.NoError(t, err)
	assert.Empty(t, candidates)

	// even a direct call cannot move a disputed order
	require.NoError(t, e.orders.AutoRelease(ctx, order.ID))
	got, err := e.orders.GetOrderByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDisputed, got.Status)
}
