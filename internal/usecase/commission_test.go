package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerex/p2p-escrow-service/internal/domain"
)

func TestQuoteValue(t *testing.T) {
	// 2 decimals: 5000 base units at price 10 per whole unit
	assert.Equal(t, int64(500), QuoteValue(5000, 10, 2))
	// rounding happens once, half away from zero
	assert.Equal(t, int64(2), QuoteValue(1, 1.5, 0))
	assert.Equal(t, int64(3), QuoteValue(1, 2.5, 0))
}

func TestRoundHalfAway(t *testing.T) {
	assert.Equal(t, int64(3), roundHalfAway(2.5))
	assert.Equal(t, int64(2), roundHalfAway(2.4))
	assert.Equal(t, int64(-3), roundHalfAway(-2.5))
	assert.Equal(t, int64(0), roundHalfAway(0))
}

func TestComputeCommission(t *testing.T) {
	rule := &domain.CommissionRule{Rate: 0.02}

	t.Run("basic rate", func(t *testing.T) {
		b, err := ComputeCommission(1000, rule)
		require.NoError(t, err)
		assert.Equal(t, int64(20), b.CommissionAmount)
		assert.Equal(t, int64(980), b.NetAmount)
		assert.Equal(t, b.TotalValue, b.CommissionAmount+b.NetAmount)
	})

	t.Run("minimum clamp", func(t *testing.T) {
		b, err := ComputeCommission(100, &domain.CommissionRule{Rate: 0.02, MinCommission: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(10), b.CommissionAmount)
	})

	t.Run("maximum clamp", func(t *testing.T) {
		b, err := ComputeCommission(1_000_000, &domain.CommissionRule{Rate: 0.02, MaxCommission: 500})
		require.NoError(t, err)
		assert.Equal(t, int64(500), b.CommissionAmount)
	})

	t.Run("min clamp never exceeds the trade", func(t *testing.T) {
		b, err := ComputeCommission(5, &domain.CommissionRule{Rate: 0.02, MinCommission: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(5), b.CommissionAmount)
		assert.Equal(t, int64(0), b.NetAmount)
	})

	t.Run("negative total rejected", func(t *testing.T) {
		_, err := ComputeCommission(-1, rule)
		assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
	})
}

func TestPartitionCommission(t *testing.T) {
	rule := &domain.CommissionRule{Rate: 0.02, AffiliateShare: 0.30, ReferralShare: 0.10}

	t.Run("affiliate share and platform remainder", func(t *testing.T) {
		seller := &domain.Counterparty{ID: "s", AffiliateID: "aff-1"}
		records, err := PartitionCommission(50, rule, seller)
		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.Equal(t, domain.RecipientAffiliate, records[0].RecipientType)
		assert.Equal(t, int64(15), records[0].Amount)
		assert.Equal(t, domain.RecipientPlatform, records[1].RecipientType)
		assert.Equal(t, int64(35), records[1].Amount)
	})

	t.Run("records always sum to the commission", func(t *testing.T) {
		seller := &domain.Counterparty{ID: "s", AffiliateID: "aff-1", ReferrerID: "ref-1"}
		for _, commission := range []int64{0, 1, 3, 7, 49, 50, 51, 999} {
			records, err := PartitionCommission(commission, rule, seller)
			require.NoError(t, err)
			var sum int64
			for _, rec := range records {
				sum += rec.Amount
				assert.GreaterOrEqual(t, rec.Amount, int64(0))
			}
			assert.Equal(t, commission, sum, "commission %d", commission)
		}
	})

	t.Run("no linkage means a single platform record", func(t *testing.T) {
		records, err := PartitionCommission(50, rule, &domain.Counterparty{ID: "s"})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, domain.RecipientPlatform, records[0].RecipientType)
		assert.Equal(t, int64(50), records[0].Amount)
	})
}

func TestSplitByRatio(t *testing.T) {
	for _, tc := range []struct {
		total      int64
		ratio      float64
		buyerShare int64
	}{
		{100, 0.5, 50},
		{101, 0.5, 51}, // ties away from zero
		{100, 0.333, 33},
		{1, 0.5, 1},
	} {
		buyer, seller := SplitByRatio(tc.total, tc.ratio)
		assert.Equal(t, tc.buyerShare, buyer, "total %d ratio %v", tc.total, tc.ratio)
		assert.Equal(t, tc.total, buyer+seller)
	}
}
