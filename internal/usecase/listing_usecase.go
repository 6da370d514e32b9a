package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gamemarket/internal/domain/entity"
	"gamemarket/internal/domain/repository"
	"gamemarket/internal/infrastructure/ratelimit"
	"gamemarket/pkg/errors"
)

type ListingUseCase struct {
	listingRepo repository.GameAccountRepository
	userRepo    repository.UserRepository
	limiter     *ratelimit.RateLimiter
}

func NewListingUseCase(listingRepo repository.GameAccountRepository, userRepo repository.UserRepository, limiter *ratelimit.RateLimiter) *ListingUseCase {
	return &ListingUseCase{
		listingRepo: listingRepo,
		userRepo:    userRepo,
		limiter:     limiter,
	}
}

type CreateListingInput struct {
	Game        string
	Title       string
	Description string
	Price       float64
	Images      []entity.ListingImage
	Attributes  map[string]interface{}
}

func (uc *ListingUseCase) Create(ctx context.Context, sellerID string, input CreateListingInput) (*entity.GameAccount, error) {
	if allowed, wait := uc.limiter.Allow(sellerID, "create_listing"); !allowed {
		return nil, errors.TooManyRequests(fmt.Sprintf("Too many listings, retry in %s", wait.Round(time.Second)))
	}

	seller, err := uc.userRepo.GetByID(ctx, sellerID)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}
	if !seller.Active() {
		return nil, errors.Forbidden("Account is suspended", nil)
	}

	if input.Price <= 0 {
		return nil, errors.BadRequest("Price must be positive", nil)
	}

	now := time.Now()
	account := &entity.GameAccount{
		ID:          uuid.New().String(),
		SellerID:    sellerID,
		Game:        input.Game,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Images:      input.Images,
		Attributes:  input.Attributes,
		Status:      entity.ListingStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.listingRepo.Create(ctx, account); err != nil {
		return nil, errors.Internal("Failed to create listing", err)
	}
	return account, nil
}

type UpdateListingInput struct {
	Title       string
	Description string
	Price       float64
	Images      []entity.ListingImage
	Attributes  map[string]interface{}
}

func (uc *ListingUseCase) Update(ctx context.Context, sellerID, listingID string, input UpdateListingInput) (*entity.GameAccount, error) {
	account, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if account.SellerID != sellerID {
		return nil, errors.Forbidden("You do not own this listing", nil)
	}
	// Listings under escrow or already sold are frozen.
	if account.Status != entity.ListingStatusActive {
		return nil, errors.Conflict("Only active listings can be edited")
	}

	if input.Title != "" {
		account.Title = input.Title
	}
	if input.Description != "" {
		account.Description = input.Description
	}
	if input.Price > 0 {
		account.Price = input.Price
	}
	if input.Images != nil {
		account.Images = input.Images
	}
	if input.Attributes != nil {
		account.Attributes = input.Attributes
	}
	account.UpdatedAt = time.Now()

	if err := uc.listingRepo.Update(ctx, account); err != nil {
		return nil, errors.Internal("Failed to update listing", err)
	}
	return account, nil
}

func (uc *ListingUseCase) Remove(ctx context.Context, sellerID, listingID string) error {
	account, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return err
	}

	if account.SellerID != sellerID {
		return errors.Forbidden("You do not own this listing", nil)
	}
	if account.Status == entity.ListingStatusPending {
		return errors.Conflict("Listing is locked by an open order")
	}

	return uc.listingRepo.Delete(ctx, listingID)
}

func (uc *ListingUseCase) GetByID(ctx context.Context, listingID string, countView bool) (*entity.GameAccount, error) {
	account, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if countView {
		_ = uc.listingRepo.IncrementViews(ctx, listingID)
	}
	return account, nil
}

func (uc *ListingUseCase) Browse(ctx context.Context, filter repository.ListingFilter, limit, offset int) ([]*entity.GameAccount, int64, error) {
	// Public browsing only surfaces purchasable listings.
	if filter.Status == "" {
		filter.Status = entity.ListingStatusActive
	}
	return uc.listingRepo.List(ctx, filter, limit, offset)
}

func (uc *ListingUseCase) ListBySeller(ctx context.Context, sellerID, status string, limit, offset int) ([]*entity.GameAccount, int64, error) {
	return uc.listingRepo.ListBySellerID(ctx, sellerID, status, limit, offset)
}
