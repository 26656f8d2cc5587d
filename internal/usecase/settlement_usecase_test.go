package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerex/p2p-escrow-service/internal/domain"
	"github.com/peerex/p2p-escrow-service/internal/usecase/dto"
)

// Scenario: the ledger is down when the seller confirms. The decision
// commits anyway; the retry worker finishes the transfer once the ledger
// is back.
func TestDeferredSettlementIsRetried(t *testing.T) {
	e := newTestEngine(t)
	f := e.seed(t)
	ctx := context.Background()
	order := e.createOrder(t, f, 5000)
	_, err := e.orders.MarkPaid(ctx, order.ID, f.Buyer.ID)
	require.NoError(t, err)

	e.ledger.setReleaseErr(errors.New("ledger unavailable"))
	confirmed, err := e.orders.ConfirmReceipt(ctx, order.ID, f.Seller.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, confirmed.Status)

	// decision committed, transfer still outstanding
	escrow, err := e.escrowRepo.GetByOrderID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EscrowLocked, escrow.Status)

	intent, err := e.intents.GetByOrderID(order.ID)
	require.NoError(t, err)
	assert.False(t, intent.Applied())
	assert.Equal(t, 1, intent.Attempts)
	assert.Contains(t, intent.LastError, "ledger unavailable")

	e.ledger.setReleaseErr(nil)
	require.NoError(t, e.settlement.RetryPending(ctx, 0, 10))

	escrow, err = e.escrowRepo.GetByOrderID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EscrowReleased, escrow.Status)

	intent, err = e.intents.GetByOrderID(order.ID)
	require.NoError(t, err)
	assert.True(t, intent.Applied())

	_, releases, _ := e.ledger.counts()
	assert.Equal(t, 1, releases)
}

func TestRetryPendingIsIdempotent(t *testing.T) {
	e := newTestEngine(t)
	f := e.seed(t)
	ctx := context.Background()
	order := e.createOrder(t, f, 5000)
	_, err := e.orders.MarkPaid(ctx, order.ID, f.Buyer.ID)
	require.NoError(t, err)
	_, err = e.orders.ConfirmReceipt(ctx, order.ID, f.Seller.ID)
	require.NoError(t, err)

	// the inline apply already settled; further passes find nothing
	require.NoError(t, e.settlement.RetryPending(ctx, 0, 10))
	require.NoError(t, e.settlement.RetryPending(ctx, 0, 10))

	_, releases, _ := e.ledger.counts()
	assert.Equal(t, 1, releases)
}

func TestMarkAppliedStampsOnce(t *testing.T) {
	e := newTestEngine(t)
	f := e.seed(t)
	ctx := context.Background()
	order := e.createOrder(t, f, 5000)
	_, err := e.orders.MarkPaid(ctx, order.ID, f.Buyer.ID)
	require.NoError(t, err)
	_, err = e.orders.ConfirmReceipt(ctx, order.ID, f.Seller.ID)
	require.NoError(t, err)

	intent, err := e.intents.GetByOrderID(order.ID)
	require.NoError(t, err)
	err = e.intents.MarkApplied(intent.ID, time.Now())
	assert.True(t, domain.IsStateConflict(err))
}

// A dispute resolved during a ledger outage stays RESOLVED until the retry
// worker applies the settlement, then closes.
func TestDisputeClosesAfterDeferredSettlement(t *testing.T) {
	e := newTestEngine(t)
	f := e.seed(t)
	ctx := context.Background()
	order := e.createOrder(t, f, 5000)
	_, err := e.orders.MarkPaid(ctx, order.ID, f.Buyer.ID)
	require.NoError(t, err)
	dispute := openDispute(t, e, f, order.ID)

	e.ledger.setReleaseErr(errors.New("ledger unavailable"))
	resolved, err := e.disputes.ResolveDispute(ctx, &dto.ResolveDisputeInput{
		DisputeID:   dispute.ID,
		ModeratorID: "mod-1",
		Outcome:     domain.OutcomeBuyerWins,
		Rationale:   "payment proven",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DisputeResolved, resolved.Status)

	e.ledger.setReleaseErr(nil)
	require.NoError(t, e.settlement.RetryPending(ctx, 0, 10))

	closed, err := e.disputes.GetDisputeByID(dispute.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DisputeClosed, closed.Status)

	escrow, err := e.escrowRepo.GetByOrderID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EscrowReleased, escrow.Status)
}
