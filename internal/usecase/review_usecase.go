package usecase

import (
	"context"

	"gamemarket/internal/domain/entity"
	"gamemarket/internal/domain/repository"
	"gamemarket/pkg/errors"
)

type ReviewUseCase struct {
	reviewRepo repository.ReviewRepository
	orderRepo  repository.OrderRepository
	userRepo   repository.UserRepository
}

func NewReviewUseCase(reviewRepo repository.ReviewRepository, orderRepo repository.OrderRepository, userRepo repository.UserRepository) *ReviewUseCase {
	return &ReviewUseCase{
		reviewRepo: reviewRepo,
		orderRepo:  orderRepo,
		userRepo:   userRepo,
	}
}

type CreateReviewInput struct {
	OrderID string
	Rating  int
	Comment string
}

// Create lets the buyer of a delivered order rate the seller once.
func (uc *ReviewUseCase) Create(ctx context.Context, reviewerID string, input CreateReviewInput) (*entity.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, errors.BadRequest("Rating must be between 1 and 5", nil)
	}

	order, err := uc.orderRepo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != reviewerID {
		return nil, errors.Forbidden("Only the buyer can review this order", nil)
	}
	if order.Status != entity.OrderStatusDelivered {
		return nil, errors.BadRequest("Only delivered orders can be reviewed", nil)
	}

	if existing, err := uc.reviewRepo.GetByOrderAndReviewer(ctx, input.OrderID, reviewerID); err == nil && existing != nil {
		return nil, errors.Conflict("You have already reviewed this order")
	}

	review := &entity.Review{
		OrderID:    input.OrderID,
		ReviewerID: reviewerID,
		SellerID:   order.SellerID,
		Rating:     input.Rating,
		Comment:    input.Comment,
	}
	if err := uc.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	uc.refreshSellerRating(ctx, order.SellerID, input.Rating)
	return review, nil
}

func (uc *ReviewUseCase) ListBySeller(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Review, int64, error) {
	return uc.reviewRepo.ListBySellerID(ctx, sellerID, limit, offset)
}

// refreshSellerRating folds the new rating into the seller's running average.
func (uc *ReviewUseCase) refreshSellerRating(ctx context.Context, sellerID string, rating int) {
	seller, err := uc.userRepo.GetByID(ctx, sellerID)
	if err != nil {
		return
	}

	count := seller.ReviewCount + 1
	average := (seller.Rating*float64(seller.ReviewCount) + float64(rating)) / float64(count)
	_ = uc.userRepo.UpdateRating(ctx, sellerID, average, count)
}
