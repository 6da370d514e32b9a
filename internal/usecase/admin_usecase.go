package usecase

import (
	"context"

	"gamemarket/internal/domain/entity"
	"gamemarket/internal/domain/repository"
	"gamemarket/pkg/errors"
)

type AdminUseCase struct {
	userRepo    repository.UserRepository
	listingRepo repository.GameAccountRepository
	orderRepo   repository.OrderRepository
	walletRepo  repository.WalletRepository
}

func NewAdminUseCase(
	userRepo repository.UserRepository,
	listingRepo repository.GameAccountRepository,
	orderRepo repository.OrderRepository,
	walletRepo repository.WalletRepository,
) *AdminUseCase {
	return &AdminUseCase{
		userRepo:    userRepo,
		listingRepo: listingRepo,
		orderRepo:   orderRepo,
		walletRepo:  walletRepo,
	}
}

func (uc *AdminUseCase) ListUsers(ctx context.Context, role string, limit, offset int) ([]*entity.User, int64, error) {
	return uc.userRepo.List(ctx, role, limit, offset)
}

func (uc *AdminUseCase) SetUserBanned(ctx context.Context, userID string, banned bool) (*entity.User, error) {
	return uc.userRepo.SetFlags(ctx, userID, &banned, nil)
}

func (uc *AdminUseCase) SetUserDisabled(ctx context.Context, userID string, disabled bool) (*entity.User, error) {
	return uc.userRepo.SetFlags(ctx, userID, nil, &disabled)
}

func (uc *AdminUseCase) SetUserRole(ctx context.Context, userID, role string) (*entity.User, error) {
	switch role {
	case entity.RoleUser, entity.RoleVIP, entity.RoleAdmin:
	default:
		return nil, errors.BadRequest("Unknown role", nil)
	}
	return uc.userRepo.SetRole(ctx, userID, role)
}

// RemoveListing takes a listing off the marketplace for policy reasons.
func (uc *AdminUseCase) RemoveListing(ctx context.Context, listingID string) error {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.Status == entity.ListingStatusPending {
		return errors.Conflict("Listing is locked by an open order")
	}
	return uc.listingRepo.Delete(ctx, listingID)
}

func (uc *AdminUseCase) ListOrders(ctx context.Context, status string, limit, offset int) ([]*entity.Order, int64, error) {
	filter := map[string]interface{}{}
	if status != "" {
		filter["status"] = status
	}
	return uc.orderRepo.List(ctx, filter, limit, offset)
}

func (uc *AdminUseCase) ListDisputes(ctx context.Context, limit, offset int) ([]*entity.Order, int64, error) {
	return uc.orderRepo.List(ctx, map[string]interface{}{"status": entity.OrderStatusDisputed}, limit, offset)
}

// PlatformStats is the admin dashboard snapshot.
type PlatformStats struct {
	TotalUsers         int            `json:"total_users"`
	TotalWalletBalance float64        `json:"total_wallet_balance"`
	OrdersByStatus     map[string]int `json:"orders_by_status"`
	ListingsByStatus   map[string]int `json:"listings_by_status"`
}

func (uc *AdminUseCase) GetStats(ctx context.Context) (*PlatformStats, error) {
	users, err := uc.userRepo.Count(ctx)
	if err != nil {
		return nil, errors.Internal("Failed to count users", err)
	}

	balance, err := uc.walletRepo.GetTotalBalance(ctx)
	if err != nil {
		return nil, errors.Internal("Failed to total wallet balances", err)
	}

	orders, err := uc.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, errors.Internal("Failed to count orders", err)
	}

	listings, err := uc.listingRepo.CountByStatus(ctx)
	if err != nil {
		return nil, errors.Internal("Failed to count listings", err)
	}

	return &PlatformStats{
		TotalUsers:         users,
		TotalWalletBalance: balance,
		OrdersByStatus:     orders,
		ListingsByStatus:   listings,
	}, nil
}
