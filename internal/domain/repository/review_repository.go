package repository

import (
	"context"

	"gamemarket/internal/domain/entity"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	GetByOrderAndReviewer(ctx context.Context, orderID, reviewerID string) (*entity.Review, error)
	ListBySellerID(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Review, int64, error)
}
