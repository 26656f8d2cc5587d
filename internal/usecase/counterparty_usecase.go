package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/peerex/p2p-escrow-service/internal/domain"
	"github.com/peerex/p2p-escrow-service/internal/usecase/dto"
)

const defaultTier = "standard"

type CounterpartyUsecase interface {
	Register(ctx context.Context, input *dto.RegisterCounterpartyInput) (*domain.Counterparty, error)
	GetByID(id string) (*domain.Counterparty, error)
	Suspend(id string) error
}

type DefaultCounterpartyUsecase struct {
	cpRepo   domain.CounterpartyRepository
	identity domain.IdentityVerifier
}

func NewDefaultCounterpartyUsecase(cpRepo domain.CounterpartyRepository, identity domain.IdentityVerifier) *DefaultCounterpartyUsecase {
	return &DefaultCounterpartyUsecase{cpRepo: cpRepo, identity: identity}
}

// Register creates a trading identity on first P2P use. The KYC tier is
// captured here and re-checked by the identity collaborator at every ad and
// order creation.
func (uc *DefaultCounterpartyUsecase) Register(ctx context.Context, input *dto.RegisterCounterpartyInput) (*domain.Counterparty, error) {
	if input.DisplayName == "" {
		return nil, domain.NewValidationError("display name is required")
	}

	cp := &domain.Counterparty{
		ID:          uuid.New().String(),
		DisplayName: input.DisplayName,
		Tier:        defaultTier,
		AffiliateID: input.AffiliateID,
		ReferrerID:  input.ReferrerID,
	}
	if result, err := uc.identity.Verify(ctx, cp.ID); err == nil && result.Tier != "" {
		cp.Tier = result.Tier
	}
	if err := uc.cpRepo.Create(cp); err != nil {
		return nil, err
	}
	return cp, nil
}

func (uc *DefaultCounterpartyUsecase) GetByID(id string) (*domain.Counterparty, error) {
	return uc.cpRepo.GetByID(id)
}

// Suspend soft-disables a counterparty; records are never deleted.
func (uc *DefaultCounterpartyUsecase) Suspend(id string) error {
	return uc.cpRepo.SetSuspended(id, true)
}
