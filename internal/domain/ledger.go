package domain

import "context"

// LedgerAdapter is the external balance primitive. All three calls are
// idempotent keyed by the lock handle, which is what makes indefinite retry
// of release/refund safe. Partial dispute outcomes pass explicit amounts;
// the full-amount path passes the escrow amount unchanged.
type LedgerAdapter interface {
	// Lock places a hold on ownerID's balance and returns an opaque handle.
	// A refusal surfaces as CodeInsufficientFunds.
	Lock(ctx context.Context, ownerID, assetID string, amount int64) (handle string, err error)
	// Release moves amount of the held funds to destinationOwnerID.
	Release(ctx context.Context, handle, destinationOwnerID string, amount int64) error
	// Refund returns amount of the held funds to the original owner.
	Refund(ctx context.Context, handle string, amount int64) error
}

// IdentityResult is the KYC collaborator's answer, consulted only at
// advertisement and order creation.
type IdentityResult struct {
	Verified bool
	Tier     string
}

type IdentityVerifier interface {
	Verify(ctx context.Context, counterpartyID string) (*IdentityResult, error)
}
