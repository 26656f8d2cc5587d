package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/peerex/p2p-escrow-service/internal/domain"
	"github.com/peerex/p2p-escrow-service/internal/usecase/dto"
)

type AdUsecase interface {
	CreateAd(ctx context.Context, input *dto.CreateAdInput) (*domain.Advertisement, error)
	GetAdByID(adID string) (*domain.Advertisement, error)
	ListAds(filters domain.AdFilters, page, limit int64) ([]*domain.Advertisement, int64, error)
	PauseAd(adID, actorID string) error
	ResumeAd(adID, actorID string) error
	CloseAd(adID, actorID string) error
}

type DefaultAdUsecase struct {
	adRepo    domain.AdvertisementRepository
	cpRepo    domain.CounterpartyRepository
	assetRepo domain.AssetRepository
	identity  domain.IdentityVerifier
}

func NewDefaultAdUsecase(
	adRepo domain.AdvertisementRepository,
	cpRepo domain.CounterpartyRepository,
	assetRepo domain.AssetRepository,
	identity domain.IdentityVerifier,
) *DefaultAdUsecase {
	return &DefaultAdUsecase{
		adRepo:    adRepo,
		cpRepo:    cpRepo,
		assetRepo: assetRepo,
		identity:  identity,
	}
}

func (uc *DefaultAdUsecase) CreateAd(ctx context.Context, input *dto.CreateAdInput) (*domain.Advertisement, error) {
	if input.Side != domain.AdSideSell && input.Side != domain.AdSideBuy {
		return nil, domain.NewValidationError("advertisement side must be SELL or BUY")
	}
	if input.Price <= 0 {
		return nil, domain.NewValidationError("price must be positive")
	}
	if input.TotalAmount <= 0 {
		return nil, domain.NewValidationError("total amount must be positive")
	}
	if input.MinOrderValue <= 0 || input.MaxOrderValue < input.MinOrderValue {
		return nil, domain.NewValidationError("order value range [%d, %d] is invalid", input.MinOrderValue, input.MaxOrderValue)
	}
	if len(input.PaymentMethods) == 0 {
		return nil, domain.NewValidationError("at least one payment method is required")
	}
	if input.QuoteCurrency == "" {
		return nil, domain.NewValidationError("quote currency is required")
	}

	owner, err := uc.cpRepo.GetByID(input.OwnerID)
	if err != nil {
		return nil, err
	}
	if owner.Suspended {
		return nil, domain.NewValidationError("counterparty is suspended")
	}
	if _, err := uc.assetRepo.GetByID(input.AssetID); err != nil {
		return nil, err
	}

	idResult, err := uc.identity.Verify(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}
	if !idResult.Verified {
		return nil, domain.NewUnauthorized("counterparty %s is not verified", input.OwnerID)
	}

	ad := &domain.Advertisement{
		ID:              uuid.New().String(),
		OwnerID:         input.OwnerID,
		Side:            input.Side,
		AssetID:         input.AssetID,
		Price:           input.Price,
		QuoteCurrency:   input.QuoteCurrency,
		MinOrderValue:   input.MinOrderValue,
		MaxOrderValue:   input.MaxOrderValue,
		PaymentMethods:  input.PaymentMethods,
		TotalAmount:     input.TotalAmount,
		AvailableAmount: input.TotalAmount,
		Status:          domain.AdActive,
	}
	if err := uc.adRepo.Create(ad); err != nil {
		return nil, err
	}
	return ad, nil
}

func (uc *DefaultAdUsecase) GetAdByID(adID string) (*domain.Advertisement, error) {
	return uc.adRepo.GetByID(adID)
}

func (uc *DefaultAdUsecase) ListAds(filters domain.AdFilters, page, limit int64) ([]*domain.Advertisement, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	return uc.adRepo.List(filters, page, limit)
}

func (uc *DefaultAdUsecase) PauseAd(adID, actorID string) error {
	if err := uc.authorizeOwner(adID, actorID); err != nil {
		return err
	}
	return uc.adRepo.UpdateStatus(adID, domain.AdActive, domain.AdPaused)
}

func (uc *DefaultAdUsecase) ResumeAd(adID, actorID string) error {
	if err := uc.authorizeOwner(adID, actorID); err != nil {
		return err
	}
	return uc.adRepo.UpdateStatus(adID, domain.AdPaused, domain.AdActive)
}

// CloseAd retires the ad permanently; remaining availability is dropped and
// later refunds against it are no-ops.
func (uc *DefaultAdUsecase) CloseAd(adID, actorID string) error {
	if err := uc.authorizeOwner(adID, actorID); err != nil {
		return err
	}
	ad, err := uc.adRepo.GetByID(adID)
	if err != nil {
		return err
	}
	if ad.Status == domain.AdClosed {
		return nil
	}
	return uc.adRepo.UpdateStatus(adID, ad.Status, domain.AdClosed)
}

func (uc *DefaultAdUsecase) authorizeOwner(adID, actorID string) error {
	ad, err := uc.adRepo.GetByID(adID)
	if err != nil {
		return err
	}
	if ad.OwnerID != actorID {
		return domain.NewUnauthorized("actor does not own the advertisement")
	}
	return nil
}
