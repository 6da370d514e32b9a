package usecase

import (
	"context"
	"time"

	"gamemarket/internal/domain/entity"
	"gamemarket/internal/domain/repository"
	"gamemarket/pkg/errors"
)

type UserUseCase struct {
	userRepo   repository.UserRepository
	reviewRepo repository.ReviewRepository
}

func NewUserUseCase(userRepo repository.UserRepository, reviewRepo repository.ReviewRepository) *UserUseCase {
	return &UserUseCase{
		userRepo:   userRepo,
		reviewRepo: reviewRepo,
	}
}

type UpdateProfileInput struct {
	Username  string
	Phone     string
	Bio       string
	AvatarURL string
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}
	return user, nil
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}

	if input.Username != "" {
		user.Username = input.Username
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}
	if input.AvatarURL != "" {
		user.AvatarURL = input.AvatarURL
	}
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Internal("Failed to update profile", err)
	}
	return user, nil
}

// LevelProgress describes where a user sits on the loyalty curve.
type LevelProgress struct {
	Level                 int     `json:"level"`
	TotalTransactionValue float64 `json:"total_transaction_value"`
	NextLevelAt           float64 `json:"next_level_at"`
	RemainingToNextLevel  float64 `json:"remaining_to_next_level"`
}

func (uc *UserUseCase) GetLevelProgress(ctx context.Context, userID string) (*LevelProgress, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}

	return &LevelProgress{
		Level:                 user.Level,
		TotalTransactionValue: user.TotalTransactionValue,
		NextLevelAt:           entity.RequiredForLevel(user.Level + 1),
		RemainingToNextLevel:  entity.ProgressToNextLevel(user.TotalTransactionValue),
	}, nil
}

func (uc *UserUseCase) UpdateLastSeen(ctx context.Context, userID string) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return
	}
	user.LastSeen = time.Now()
	_ = uc.userRepo.Update(ctx, user)
}

type SellerProfile struct {
	User    *entity.User     `json:"user"`
	Reviews []*entity.Review `json:"reviews"`
}

// GetSellerProfile returns the public view of a seller with recent reviews.
func (uc *UserUseCase) GetSellerProfile(ctx context.Context, sellerID string) (*SellerProfile, error) {
	user, err := uc.userRepo.GetByID(ctx, sellerID)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}

	reviews, _, err := uc.reviewRepo.ListBySellerID(ctx, sellerID, 10, 0)
	if err != nil {
		return nil, errors.Internal("Failed to load reviews", err)
	}

	return &SellerProfile{
		User:    user,
		Reviews: reviews,
	}, nil
}
