package usecase

import (
	"math"
	"time"

	"github.com/jaevor/go-nanoid"
	"github.com/peerex/p2p-escrow-service/internal/domain"
)

// PlatformRecipientID is the recipient of the platform's own commission
// record and of any rounding remainder from a split.
const PlatformRecipientID = "platform"

// CommissionBreakdown is the resolved money split for one order, in quote
// minimal units. CommissionAmount + NetAmount == TotalValue always.
type CommissionBreakdown struct {
	TotalValue       int64
	CommissionRate   float64
	CommissionAmount int64
	NetAmount        int64
}

// roundHalfAway rounds to the nearest minimal unit, ties away from zero.
func roundHalfAway(x float64) int64 {
	if x >= 0 {
		return int64(math.Floor(x + 0.5))
	}
	return int64(math.Ceil(x - 0.5))
}

// QuoteValue converts an asset amount in base units at a price per whole
// unit into quote minimal units, rounding half away from zero once.
func QuoteValue(amount int64, price float64, decimals int) int64 {
	return roundHalfAway(float64(amount) * price / math.Pow10(decimals))
}

// SplitByRatio partitions total into a buyer share (ratio of the total,
// rounded half away from zero) and the exact remainder for the seller.
func SplitByRatio(total int64, buyerRatio float64) (buyerShare, sellerShare int64) {
	buyerShare = roundHalfAway(float64(total) * buyerRatio)
	if buyerShare < 0 {
		buyerShare = 0
	}
	if buyerShare > total {
		buyerShare = total
	}
	return buyerShare, total - buyerShare
}

// ComputeCommission applies the resolved rule to a gross total value:
// commission = clamp(round(total*rate), min, max), net = total - commission.
func ComputeCommission(totalValue int64, rule *domain.CommissionRule) (*CommissionBreakdown, error) {
	if totalValue < 0 {
		return nil, domain.NewValidationError("total value must not be negative")
	}

	commission := roundHalfAway(float64(totalValue) * rule.Rate)
	if commission < rule.MinCommission {
		commission = rule.MinCommission
	}
	if rule.MaxCommission > 0 && commission > rule.MaxCommission {
		commission = rule.MaxCommission
	}
	// the clamp floor may never take commission above the trade itself
	if commission > totalValue {
		commission = totalValue
	}
	if commission < 0 {
		commission = 0
	}

	return &CommissionBreakdown{
		TotalValue:       totalValue,
		CommissionRate:   rule.Rate,
		CommissionAmount: commission,
		NetAmount:        totalValue - commission,
	}, nil
}

// PartitionCommission splits the platform's cut between platform, affiliate
// and referral recipients per the seller's linkage. Each non-platform share
// is rounded to the minimal unit half away from zero; the remainder always
// lands on the platform record so the records sum exactly to commission.
func PartitionCommission(commission int64, rule *domain.CommissionRule, seller *domain.Counterparty) ([]*domain.CommissionRecord, error) {
	if commission < 0 {
		return nil, domain.NewValidationError("commission must not be negative")
	}
	newID, err := nanoid.Standard(15)
	if err != nil {
		return nil, err
	}
	now := time.Now()

	var records []*domain.CommissionRecord
	remaining := commission
	if seller.AffiliateID != "" && rule.AffiliateShare > 0 {
		share := roundHalfAway(float64(commission) * rule.AffiliateShare)
		if share > remaining {
			share = remaining
		}
		if share > 0 {
			records = append(records, &domain.CommissionRecord{
				ID:            newID(),
				RecipientID:   seller.AffiliateID,
				RecipientType: domain.RecipientAffiliate,
				Amount:        share,
				CreatedAt:     now,
			})
			remaining -= share
		}
	}
	if seller.ReferrerID != "" && rule.ReferralShare > 0 {
		share := roundHalfAway(float64(commission) * rule.ReferralShare)
		if share > remaining {
			share = remaining
		}
		if share > 0 {
			records = append(records, &domain.CommissionRecord{
				ID:            newID(),
				RecipientID:   seller.ReferrerID,
				RecipientType: domain.RecipientReferral,
				Amount:        share,
				CreatedAt:     now,
			})
			remaining -= share
		}
	}
	records = append(records, &domain.CommissionRecord{
		ID:            newID(),
		RecipientID:   PlatformRecipientID,
		RecipientType: domain.RecipientPlatform,
		Amount:        remaining,
		CreatedAt:     now,
	})
	return records, nil
}
